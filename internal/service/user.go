package service

import (
	"context"
	"encoding/json"

	"github.com/coskuntekin/diginex/internal/api"
	"github.com/coskuntekin/diginex/internal/models"
)

// UserService wraps the user administration endpoints.
type UserService struct {
	client *api.Client
}

// NewUserService constructs a UserService over the given API client.
func NewUserService(client *api.Client) *UserService {
	return &UserService{client: client}
}

// List fetches a page of users. The raw payload is returned for the
// normalizer.
func (s *UserService) List(ctx context.Context, q api.Query) (json.RawMessage, error) {
	raw, err := s.client.Get(ctx, "/users", q.Values())
	if err != nil {
		return nil, err
	}
	return unwrap(raw)
}

// Get fetches a single user by ID.
func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	raw, err := s.client.Get(ctx, "/users/"+id, nil)
	if err != nil {
		return models.User{}, err
	}
	return decode[models.User](raw)
}

// Create creates a user (admin operation).
func (s *UserService) Create(ctx context.Context, data models.CreateUserRequest) (models.User, error) {
	raw, err := s.client.Post(ctx, "/users", data)
	if err != nil {
		return models.User{}, err
	}
	return decode[models.User](raw)
}

// Update replaces the editable fields of a user.
func (s *UserService) Update(ctx context.Context, id string, data models.UpdateUserRequest) (models.User, error) {
	raw, err := s.client.Put(ctx, "/users/"+id, data)
	if err != nil {
		return models.User{}, err
	}
	return decode[models.User](raw)
}

// Patch applies a partial update. The backend serves partial updates on
// the same endpoint as full ones.
func (s *UserService) Patch(ctx context.Context, id string, data models.UpdateUserRequest) (models.User, error) {
	return s.Update(ctx, id, data)
}

// Delete removes a user by ID.
func (s *UserService) Delete(ctx context.Context, id string) error {
	_, err := s.client.Delete(ctx, "/users/"+id)
	return err
}

// ToggleStatus flips the active/inactive role marker server-side and
// returns the updated user.
func (s *UserService) ToggleStatus(ctx context.Context, id string) (models.User, error) {
	raw, err := s.client.Put(ctx, "/users/"+id+"/toggle-status", nil)
	if err != nil {
		return models.User{}, err
	}
	return decode[models.User](raw)
}
