// Package session holds the client's authenticated identity: the current
// user and bearer token, derived authorization flags, and the login,
// registration, logout, and profile-update flows around them. The session
// store is the sole writer of the durable session storage.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/coskuntekin/diginex/internal/api"
	"github.com/coskuntekin/diginex/internal/models"
	"github.com/coskuntekin/diginex/internal/storage"
)

// AuthAPI is the slice of the auth service the session store depends on.
type AuthAPI interface {
	Login(ctx context.Context, creds models.LoginRequest) (models.LoginResponse, error)
	Register(ctx context.Context, data models.RegisterRequest) (models.RegisterResponse, error)
	UpdateProfile(ctx context.Context, id string, data models.UpdateUserRequest) (models.User, error)
}

// Store is the session state machine. A session is authenticated exactly
// when both user and token are present; no operation leaves one present
// without the other.
type Store struct {
	svc      AuthAPI
	storage  storage.Store
	notifier api.Notifier
	log      *zap.Logger
	now      func() time.Time

	mu          sync.Mutex
	user        *models.User
	token       string
	loading     bool
	errMsg      string
	initialized bool
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier sets the side-channel notification sink.
func WithNotifier(n api.Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithLogger sets the structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// withClock overrides the time source, for expiry tests.
func withClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore constructs an anonymous session over the given auth service and
// durable storage.
func NewStore(svc AuthAPI, st storage.Store, opts ...Option) *Store {
	s := &Store{
		svc:      svc,
		storage:  st,
		notifier: api.NotifierFunc(func(string) {}),
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lock guards the in-memory session state. Network calls happen outside
// the critical section; state transitions on either side of a call are
// applied atomically.
func (s *Store) lock()   { s.mu.Lock() }
func (s *Store) unlock() { s.mu.Unlock() }

// Authenticated reports whether both user and token are present.
func (s *Store) Authenticated() bool {
	s.lock()
	defer s.unlock()
	return s.user != nil && s.token != ""
}

// IsAdmin reports whether the current user carries the ADMIN role.
func (s *Store) IsAdmin() bool {
	s.lock()
	defer s.unlock()
	return s.user != nil && s.user.Role == models.RoleAdmin
}

// User returns a copy of the current user, nil when anonymous.
func (s *Store) User() *models.User {
	s.lock()
	defer s.unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the current bearer token, empty when anonymous.
func (s *Store) Token() string {
	s.lock()
	defer s.unlock()
	return s.token
}

// UserName returns "First Last" for the current user, empty when anonymous.
func (s *Store) UserName() string {
	s.lock()
	defer s.unlock()
	if s.user == nil {
		return ""
	}
	return s.user.FirstName + " " + s.user.LastName
}

// Role returns the current user's role, empty when anonymous.
func (s *Store) Role() string {
	s.lock()
	defer s.unlock()
	if s.user == nil {
		return ""
	}
	return s.user.Role
}

// Loading reports whether an operation is in flight.
func (s *Store) Loading() bool {
	s.lock()
	defer s.unlock()
	return s.loading
}

// Err returns the recorded error message, empty when none.
func (s *Store) Err() string {
	s.lock()
	defer s.unlock()
	return s.errMsg
}

// Initialized reports whether InitializeAuth has run.
func (s *Store) Initialized() bool {
	s.lock()
	defer s.unlock()
	return s.initialized
}

// ClearError drops the recorded error message.
func (s *Store) ClearError() {
	s.lock()
	defer s.unlock()
	s.errMsg = ""
}

// InitializeAuth restores the session from durable storage. A session is
// restored only when both token and user are present; a restored token whose
// expiry hint has passed triggers an implicit logout, settling anonymous.
func (s *Store) InitializeAuth(ctx context.Context) error {
	s.lock()
	s.initialized = true

	token := s.storage.Token()
	user := s.storage.User()
	if token == "" || user == nil {
		s.unlock()
		return nil
	}

	s.token = token
	s.user = user

	if tokenExpired(token, s.now()) {
		s.log.Info("restored session token expired, logging out")
		s.unlock()
		return s.Logout(ctx)
	}
	s.unlock()
	return nil
}

// Login authenticates with the backend. On success the token and user are
// persisted together and the session becomes authenticated. On failure the
// session is left untouched, a notification is raised, and the error is
// returned.
func (s *Store) Login(ctx context.Context, creds models.LoginRequest) (models.LoginResponse, error) {
	s.lock()
	s.loading = true
	s.errMsg = ""
	s.unlock()

	defer s.endLoading()

	resp, err := s.svc.Login(ctx, creds)
	if err != nil {
		s.log.Warn("login failed", zap.Error(err))
		s.notifier.Error(messageOf(err, "Wrong username or password."))
		return models.LoginResponse{}, err
	}

	user := resp.User
	if err := s.storage.SetSession(resp.Token, &user); err != nil {
		s.log.Error("failed to persist session", zap.Error(err))
		return models.LoginResponse{}, err
	}

	s.lock()
	s.token = resp.Token
	s.user = &user
	s.unlock()

	return resp, nil
}

// Register creates a new account. Session state is never mutated:
// registration does not imply login.
func (s *Store) Register(ctx context.Context, data models.RegisterRequest) (models.RegisterResponse, error) {
	s.lock()
	s.loading = true
	s.errMsg = ""
	s.unlock()

	defer s.endLoading()

	resp, err := s.svc.Register(ctx, data)
	if err != nil {
		s.log.Warn("registration failed", zap.Error(err))
		s.notifier.Error(messageOf(err, "Registration failed. Please try again."))
		return models.RegisterResponse{}, err
	}
	return resp, nil
}

// Logout clears the durable storage and the in-memory user, token, and
// error together.
func (s *Store) Logout(ctx context.Context) error {
	s.lock()
	defer s.unlock()

	err := s.storage.Clear()
	if err != nil {
		s.log.Warn("failed to clear session storage", zap.Error(err))
	}

	s.token = ""
	s.user = nil
	s.errMsg = ""
	s.loading = false
	return err
}

// UpdateProfile sends a partial profile update for the current user and
// replaces the stored user with the server-confirmed object wholesale; no
// client-side merge of fields the server did not round-trip.
func (s *Store) UpdateProfile(ctx context.Context, data models.UpdateUserRequest) (models.User, error) {
	s.lock()
	if s.user == nil || s.user.ID == "" {
		s.unlock()
		err := api.DomainError("User ID is required for profile update")
		s.notifier.Error(err.Message)
		return models.User{}, err
	}
	id := s.user.ID
	token := s.token
	s.loading = true
	s.errMsg = ""
	s.unlock()

	defer s.endLoading()

	updated, err := s.svc.UpdateProfile(ctx, id, data)
	if err != nil {
		s.log.Warn("profile update failed", zap.Error(err))
		s.notifier.Error(messageOf(err, "Failed to update profile. Please try again."))
		return models.User{}, err
	}

	if err := s.storage.SetSession(token, &updated); err != nil {
		s.log.Error("failed to persist updated profile", zap.Error(err))
		return models.User{}, err
	}

	s.lock()
	s.user = &updated
	s.unlock()

	return updated, nil
}

func (s *Store) endLoading() {
	s.lock()
	s.loading = false
	s.unlock()
}

// messageOf extracts the canonical message from err, falling back when the
// error carries none.
func messageOf(err error, fallback string) string {
	if apiErr, ok := api.AsError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
