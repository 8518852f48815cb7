package store

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/coskuntekin/diginex/internal/api"
	"github.com/coskuntekin/diginex/internal/models"
	"github.com/coskuntekin/diginex/internal/paginate"
)

// userEntityKey is the plural payload field users arrive under.
const userEntityKey = "users"

// UserAPI is the slice of the user service the store depends on.
type UserAPI interface {
	List(ctx context.Context, q api.Query) (json.RawMessage, error)
	Get(ctx context.Context, id string) (models.User, error)
	Create(ctx context.Context, data models.CreateUserRequest) (models.User, error)
	Update(ctx context.Context, id string, data models.UpdateUserRequest) (models.User, error)
	Patch(ctx context.Context, id string, data models.UpdateUserRequest) (models.User, error)
	Delete(ctx context.Context, id string) error
}

// UserStore caches the user collection for the administration views.
type UserStore struct {
	collection[models.User]
	svc UserAPI
}

// NewUserStore constructs an empty UserStore over the given service.
// Pass nil for log to disable logging.
func NewUserStore(svc UserAPI, log *zap.Logger) *UserStore {
	s := &UserStore{svc: svc}
	initCollection(&s.collection, log)
	return s
}

// Fetch loads a page of users; page 1 replaces the collection, later pages
// append in order.
func (s *UserStore) Fetch(ctx context.Context, q api.Query) ([]models.User, error) {
	epoch := s.begin()
	defer s.finish(epoch)

	if q.Token == "" && q.Page <= 0 {
		q.Page = paginate.DefaultPage
	}
	if q.Limit <= 0 {
		q.Limit = paginate.DefaultLimit
	}

	raw, err := s.svc.List(ctx, q)
	if err != nil {
		s.fail(err, "Failed to fetch users")
		return nil, err
	}

	page, err := paginate.Normalize[models.User](raw, userEntityKey, paginate.Params{Page: q.Page, Limit: q.Limit})
	if err != nil {
		s.fail(err, "Failed to fetch users")
		return nil, err
	}

	items, _ := s.applyPage(page, epoch)
	return items, nil
}

// FetchByID loads one user into the selection singleton.
func (s *UserStore) FetchByID(ctx context.Context, id string) (models.User, error) {
	epoch := s.begin()
	defer s.finish(epoch)

	user, err := s.svc.Get(ctx, id)
	if err != nil {
		s.fail(err, "Failed to fetch user")
		return models.User{}, err
	}

	s.SetSelected(user)
	return user, nil
}

// Create adds a user (admin operation); the created user is prepended.
func (s *UserStore) Create(ctx context.Context, data models.CreateUserRequest) (models.User, error) {
	epoch := s.begin()
	defer s.finish(epoch)

	user, err := s.svc.Create(ctx, data)
	if err != nil {
		s.fail(err, "Failed to create user")
		return models.User{}, err
	}

	s.insertFront(user)
	return user, nil
}

// Update replaces a user's editable fields; the server-confirmed object
// replaces the cached element in place and the selection follows.
func (s *UserStore) Update(ctx context.Context, id string, data models.UpdateUserRequest) (models.User, error) {
	epoch := s.begin()
	defer s.finish(epoch)

	user, err := s.svc.Update(ctx, id, data)
	if err != nil {
		s.fail(err, "Failed to update user")
		return models.User{}, err
	}

	s.replaceByID(id, user)
	return user, nil
}

// Patch applies a partial update with the same local reconciliation
// as Update.
func (s *UserStore) Patch(ctx context.Context, id string, data models.UpdateUserRequest) (models.User, error) {
	epoch := s.begin()
	defer s.finish(epoch)

	user, err := s.svc.Patch(ctx, id, data)
	if err != nil {
		s.fail(err, "Failed to update user")
		return models.User{}, err
	}

	s.replaceByID(id, user)
	return user, nil
}

// Delete removes a user from the backend and the local collection.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	epoch := s.begin()
	defer s.finish(epoch)

	if err := s.svc.Delete(ctx, id); err != nil {
		s.fail(err, "Failed to delete user")
		return err
	}

	s.removeByID(id)
	return nil
}

// ToggleStatus flips the cached user's active/inactive marker through a
// partial role update. The role field doubles as the status marker.
func (s *UserStore) ToggleStatus(ctx context.Context, id string) (models.User, error) {
	s.mu.Lock()
	var current *models.User
	for i := range s.items {
		if s.items[i].EntityID() == id {
			current = &s.items[i]
			break
		}
	}
	if current == nil {
		s.mu.Unlock()
		err := &api.Error{Message: "User not found", Code: http.StatusNotFound}
		s.fail(err, err.Message)
		return models.User{}, err
	}
	newRole := models.RoleInactive
	if current.Role == models.RoleInactive {
		newRole = models.RoleUser
	}
	s.mu.Unlock()

	epoch := s.begin()
	defer s.finish(epoch)

	user, err := s.svc.Patch(ctx, id, models.UpdateUserRequest{Role: newRole})
	if err != nil {
		s.fail(err, "Failed to toggle user status")
		return models.User{}, err
	}

	s.replaceByID(id, user)
	return user, nil
}

// Active returns the cached users not marked inactive.
func (s *UserStore) Active() []models.User {
	return s.filterByStatus(true)
}

// Inactive returns the cached users marked inactive.
func (s *UserStore) Inactive() []models.User {
	return s.filterByStatus(false)
}

func (s *UserStore) filterByStatus(active bool) []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.items))
	for _, u := range s.items {
		if u.Active() == active {
			out = append(out, u)
		}
	}
	return out
}
