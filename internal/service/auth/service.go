package auth

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/shiftwatch/scheduler-backend-go/internal/domain/employee"
	"github.com/shiftwatch/scheduler-backend-go/internal/pkg/jwt"
)

// Service is the minimal login surface: verify a credential, mint a token
// pair. Everything else about identity is a collaborator concern.
type Service struct {
	employee.EmployeeRepository
	jwt jwt.Service
}

func NewAuthService(employeeRepository employee.EmployeeRepository, jwtService jwt.Service) *Service {
	return &Service{
		EmployeeRepository: employeeRepository,
		jwt:                jwtService,
	}
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken      string `json:"access_token"`
	AccessExpiresAt  int64  `json:"access_expires_at"`
	RefreshToken     string `json:"refresh_token"`
	RefreshExpiresAt int64  `json:"refresh_expires_at"`
	EmployeeID       string `json:"employee_id"`
}

func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, error) {
	emp, err := s.EmployeeRepository.GetByEmail(ctx, email)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(password)); err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	access, accessExp, err := s.jwt.GenerateAccessToken(emp.ID, emp.Email)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, refreshExp, err := s.jwt.GenerateRefreshToken(emp.ID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
		EmployeeID:       emp.ID,
	}, nil
}

// Refresh exchanges an unexpired refresh token for a new pair. The old token
// is revoked so it cannot be replayed.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if s.jwt.IsTokenRevoked(refreshToken) {
		return TokenPair{}, ErrInvalidToken
	}
	tok, err := jwtauth.VerifyToken(s.jwt.JWTAuth(), refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidToken
	}
	claims, err := tok.AsMap(ctx)
	if err != nil {
		return TokenPair{}, ErrInvalidToken
	}
	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return TokenPair{}, ErrInvalidToken
	}
	employeeID, _ := claims["employee_id"].(string)

	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return TokenPair{}, ErrInvalidToken
	}

	s.jwt.RevokeToken(refreshToken)

	access, accessExp, err := s.jwt.GenerateAccessToken(emp.ID, emp.Email)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, refreshExp, err := s.jwt.GenerateRefreshToken(emp.ID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
		EmployeeID:       emp.ID,
	}, nil
}

// Logout revokes the presented refresh token.
func (s *Service) Logout(refreshToken string) {
	if refreshToken != "" {
		s.jwt.RevokeToken(refreshToken)
	}
}

// HashPassword is used when provisioning employee credentials.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
