package postgresql

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shiftwatch/scheduler-backend-go/internal/domain/employee"
	"github.com/shiftwatch/scheduler-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const employeesSchema = `
CREATE TABLE IF NOT EXISTS employees (
	id            text PRIMARY KEY,
	team_id       text NOT NULL,
	site_id       text NOT NULL,
	email         text NOT NULL UNIQUE,
	password_hash text NOT NULL DEFAULT '',
	doc           jsonb NOT NULL,
	version       bigint NOT NULL DEFAULT 1
)`

func testRepository(t *testing.T) (employee.EmployeeRepository, *database.DB) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	ctx := context.Background()
	_, err = db.Exec(ctx, employeesSchema)
	require.NoError(t, err)
	_, err = db.Exec(ctx, "TRUNCATE TABLE employees")
	require.NoError(t, err)

	return NewEmployeeRepository(db), db
}

func testAggregate(teamID, siteID, email string) employee.Employee {
	emp := employee.Employee{
		ID:     uuid.NewString(),
		TeamID: teamID,
		SiteID: siteID,
		Email:  email,
		Name:   employee.Name{FirstName: "Pat", LastName: "Example"},
	}
	emp.AddAssignment(siteID, "ops", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	return emp
}

func TestEmployeeRoundTrip(t *testing.T) {
	repo, _ := testRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, testAggregate("team-1", "alpha", "pat@example.com"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Version)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, got.Email)
	require.Len(t, got.Assignments, 1, "the document survives the jsonb round trip")
	assert.Equal(t, "alpha", got.Assignments[0].Site)

	got, err = repo.GetByEmail(ctx, "pat@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo, _ := testRepository(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, testAggregate("team-1", "alpha", "pat@example.com"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, testAggregate("team-1", "alpha", "pat@example.com"))
	assert.ErrorIs(t, err, employee.ErrEmployeeExists)
}

func TestReplaceCompareAndSwap(t *testing.T) {
	repo, _ := testRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, testAggregate("team-1", "alpha", "pat@example.com"))
	require.NoError(t, err)

	first, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)

	first.CreateLeaveBalance(2024)
	replaced, err := repo.Replace(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, int64(2), replaced.Version)

	// The second loader's document is now stale.
	second.CreateLeaveBalance(2025)
	_, err = repo.Replace(ctx, second)
	assert.ErrorIs(t, err, employee.ErrVersionConflict)
}

func TestReplaceMissingEmployee(t *testing.T) {
	repo, _ := testRepository(t)

	_, err := repo.Replace(context.Background(), testAggregate("team-1", "alpha", "ghost@example.com"))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestListBySite(t *testing.T) {
	repo, _ := testRepository(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, testAggregate("team-1", "alpha", "a@example.com"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, testAggregate("team-1", "bravo", "b@example.com"))
	require.NoError(t, err)

	emps, err := repo.ListBySite(ctx, "team-1", "alpha")
	require.NoError(t, err)
	require.Len(t, emps, 1)
	assert.Equal(t, "a@example.com", emps[0].Email)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDelete(t *testing.T) {
	repo, _ := testRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, testAggregate("team-1", "alpha", "pat@example.com"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, created.ID), employee.ErrEmployeeNotFound)
}
