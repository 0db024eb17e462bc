package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"prontoticket/internal/models"
)

// AuthBackend is the slice of the backend API authentication needs.
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (*models.LoginResult, error)
	Signup(ctx context.Context, req models.SignupRequest) error
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// AuthService signs users in and up against the backend. It holds no state;
// the signed-in user lives in the cookie session.
type AuthService struct {
	backend  AuthBackend
	validate *validator.Validate
}

// NewAuthService creates a new auth service.
func NewAuthService(backend AuthBackend) *AuthService {
	return &AuthService{
		backend:  backend,
		validate: validator.New(),
	}
}

// SignIn exchanges credentials for the backend token and loads the full
// profile for the session.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.User, string, error) {
	result, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return nil, "", fmt.Errorf("login failed: %w", err)
	}

	user, err := s.backend.GetUser(ctx, result.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load profile for user %s: %w", result.ID, err)
	}

	return user, result.Token, nil
}

// SignUp registers a new account. The caller signs in afterwards; the backend
// does not return a token on signup.
func (s *AuthService) SignUp(ctx context.Context, req models.SignupRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid signup request: %w", err)
	}
	return s.backend.Signup(ctx, req)
}
