package auth

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/shiftwatch/scheduler-backend-go/internal/domain/employee"
	"github.com/shiftwatch/scheduler-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmployeeRepository struct {
	employee.EmployeeRepository
	byEmail map[string]employee.Employee
}

func (r *stubEmployeeRepository) GetByEmail(_ context.Context, email string) (employee.Employee, error) {
	emp, ok := r.byEmail[email]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *stubEmployeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, emp := range r.byEmail {
		if emp.ID == id {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func newAuthFixture(t *testing.T) (*Service, jwt.Service) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &stubEmployeeRepository{byEmail: map[string]employee.Employee{
		"pat@example.com": {
			ID:           "emp-1",
			Email:        "pat@example.com",
			PasswordHash: string(hash),
		},
	}}
	jwtService := jwt.NewJWTService("test-secret", "15m", "168h")
	return NewAuthService(repo, jwtService), jwtService
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)

	pair, err := svc.Login(context.Background(), "pat@example.com", "open-sesame")
	require.NoError(t, err)
	assert.Equal(t, "emp-1", pair.EmployeeID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Greater(t, pair.RefreshExpiresAt, pair.AccessExpiresAt)
}

func TestLoginBadPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "pat@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "nobody@example.com", "open-sesame")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "pat@example.com", "open-sesame")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", rotated.EmployeeID)
	assert.NotEmpty(t, rotated.RefreshToken)

	// The exchanged token is revoked and cannot be replayed.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "pat@example.com", "open-sesame")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshGarbageToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, jwtService := newAuthFixture(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "pat@example.com", "open-sesame")
	require.NoError(t, err)

	svc.Logout(pair.RefreshToken)
	assert.True(t, jwtService.IsTokenRevoked(pair.RefreshToken))
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("open-sesame")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("open-sesame")))
}
