package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"prontoticket/internal/models"
)

// MockAuthBackend for testing
type MockAuthBackend struct {
	mock.Mock
}

func (m *MockAuthBackend) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoginResult), args.Error(1)
}

func (m *MockAuthBackend) Signup(ctx context.Context, req models.SignupRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockAuthBackend) GetUser(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestSignInLoadsProfile(t *testing.T) {
	backend := new(MockAuthBackend)
	backend.On("Login", mock.Anything, "ada@example.com", "secret").
		Return(&models.LoginResult{ID: "u-1", Token: "jwt-token"}, nil)
	backend.On("GetUser", mock.Anything, "u-1").
		Return(&models.User{ID: "u-1", Email: "ada@example.com", FirstName: "Ada"}, nil)

	service := NewAuthService(backend)

	user, token, err := service.SignIn(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
	assert.Equal(t, "Ada", user.FirstName)
}

func TestSignInBadCredentials(t *testing.T) {
	backend := new(MockAuthBackend)
	backend.On("Login", mock.Anything, "ada@example.com", "wrong").
		Return(nil, errors.New("unauthorized"))

	service := NewAuthService(backend)

	_, _, err := service.SignIn(context.Background(), "ada@example.com", "wrong")
	assert.Error(t, err)
	backend.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
}

func TestSignUpValidatesRequest(t *testing.T) {
	backend := new(MockAuthBackend)
	service := NewAuthService(backend)

	err := service.SignUp(context.Background(), models.SignupRequest{
		Username: "ada",
		Email:    "not-an-email",
		Password: "short",
	})
	assert.Error(t, err)
	backend.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything)
}

func TestSignUpForwardsValidRequest(t *testing.T) {
	req := models.SignupRequest{
		Username:  "ada",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "correcthorse",
	}

	backend := new(MockAuthBackend)
	backend.On("Signup", mock.Anything, req).Return(nil)

	service := NewAuthService(backend)
	require.NoError(t, service.SignUp(context.Background(), req))
	backend.AssertExpectations(t)
}
