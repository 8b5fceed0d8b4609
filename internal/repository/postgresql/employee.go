package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shiftwatch/scheduler-backend-go/internal/domain/employee"
	"github.com/shiftwatch/scheduler-backend-go/internal/pkg/database"
)

// The schedule document (assignments, variations, leaves, requests, balances)
// travels as a single jsonb column. Mutations load the whole document, apply
// the change in memory, and write it back with a version guard, so concurrent
// writers surface as employee.ErrVersionConflict instead of a lost update.
type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		emp employee.Employee
		doc []byte
	)
	err := row.Scan(&emp.ID, &emp.TeamID, &emp.SiteID, &emp.Email, &emp.PasswordHash, &doc, &emp.Version)
	if err != nil {
		return employee.Employee{}, err
	}

	id, teamID, siteID, email := emp.ID, emp.TeamID, emp.SiteID, emp.Email
	if err := json.Unmarshal(doc, &emp); err != nil {
		return employee.Employee{}, fmt.Errorf("failed to decode employee document %s: %w", id, err)
	}
	// The identity columns are authoritative over whatever the document carries.
	emp.ID, emp.TeamID, emp.SiteID, emp.Email = id, teamID, siteID, email

	return emp, nil
}

func marshalDocument(emp employee.Employee) ([]byte, error) {
	// Work records are ingested from the timekeeping feed on read, never
	// written back as part of the schedule document.
	emp.Work = nil
	doc, err := json.Marshal(emp)
	if err != nil {
		return nil, fmt.Errorf("failed to encode employee document %s: %w", emp.ID, err)
	}
	return doc, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, team_id, site_id, email, password_hash, doc, version
		FROM employees
		WHERE id = $1
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %s: %w", id, err)
	}

	return emp, nil
}

// GetByEmail implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, team_id, site_id, email, password_hash, doc, version
		FROM employees
		WHERE email = $1
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with email %s: %w", email, err)
	}

	return emp, nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	query := `
		SELECT id, team_id, site_id, email, password_hash, doc, version
		FROM employees
		ORDER BY email
	`
	return e.list(ctx, query)
}

// ListBySite implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListBySite(ctx context.Context, teamID, siteID string) ([]employee.Employee, error) {
	query := `
		SELECT id, team_id, site_id, email, password_hash, doc, version
		FROM employees
		WHERE team_id = $1 AND site_id = $2
		ORDER BY email
	`
	return e.list(ctx, query, teamID, siteID)
}

func (e *employeeRepositoryImpl) list(ctx context.Context, query string, args ...any) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	doc, err := marshalDocument(emp)
	if err != nil {
		return employee.Employee{}, err
	}

	query := `
		INSERT INTO employees (id, team_id, site_id, email, password_hash, doc, version)
		VALUES ($1, $2, $3, $4, $5, $6, 1)
		RETURNING version
	`

	err = q.QueryRow(ctx, query, emp.ID, emp.TeamID, emp.SiteID, emp.Email, emp.PasswordHash, doc).Scan(&emp.Version)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return employee.Employee{}, employee.ErrEmployeeExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee %s: %w", emp.Email, err)
	}

	return emp, nil
}

// Replace implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Replace(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	doc, err := marshalDocument(emp)
	if err != nil {
		return employee.Employee{}, err
	}

	query := `
		UPDATE employees
		SET team_id = $1, site_id = $2, email = $3, password_hash = $4, doc = $5, version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`

	err = q.QueryRow(ctx, query, emp.TeamID, emp.SiteID, emp.Email, emp.PasswordHash, doc, emp.ID, emp.Version).Scan(&emp.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the row is gone or another writer bumped the version.
			var exists bool
			if chkErr := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE id = $1)`, emp.ID).Scan(&exists); chkErr == nil && !exists {
				return employee.Employee{}, employee.ErrEmployeeNotFound
			}
			return employee.Employee{}, employee.ErrVersionConflict
		}
		return employee.Employee{}, fmt.Errorf("failed to replace employee %s: %w", emp.ID, err)
	}

	return emp, nil
}

// Delete implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}
