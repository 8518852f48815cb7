package service

import (
	"context"

	"github.com/coskuntekin/diginex/internal/api"
	"github.com/coskuntekin/diginex/internal/models"
)

// AuthService wraps the authentication endpoints. It performs no session
// bookkeeping; the session store persists tokens and users.
type AuthService struct {
	client *api.Client
}

// NewAuthService constructs an AuthService over the given API client.
func NewAuthService(client *api.Client) *AuthService {
	return &AuthService{client: client}
}

// Login exchanges credentials for the authenticated user and bearer token.
func (s *AuthService) Login(ctx context.Context, creds models.LoginRequest) (models.LoginResponse, error) {
	raw, err := s.client.Post(ctx, "/login", creds)
	if err != nil {
		return models.LoginResponse{}, err
	}
	return decode[models.LoginResponse](raw)
}

// Register creates a new account. The account is not logged in.
func (s *AuthService) Register(ctx context.Context, data models.RegisterRequest) (models.RegisterResponse, error) {
	raw, err := s.client.Post(ctx, "/register", data)
	if err != nil {
		return models.RegisterResponse{}, err
	}
	return decode[models.RegisterResponse](raw)
}

// UpdateProfile updates the given user's profile and returns the
// server-confirmed user object.
func (s *AuthService) UpdateProfile(ctx context.Context, id string, data models.UpdateUserRequest) (models.User, error) {
	raw, err := s.client.Put(ctx, "/users/"+id, data)
	if err != nil {
		return models.User{}, err
	}
	return decode[models.User](raw)
}
