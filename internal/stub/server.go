// Package stub is an in-memory development backend serving the same HTTP
// surface as the production API, with the same mix of response envelope
// shapes. It backs the integration tests and cmd/stubserver for local
// development.
package stub

import (
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coskuntekin/diginex/internal/models"
)

// Seeded administrator credentials.
const (
	AdminUsername = "admin"
	AdminPassword = "admin123"
)

// Server holds the in-memory backend state. All data lives for the process
// lifetime only.
type Server struct {
	mu         sync.Mutex
	users      map[string]models.User
	passwords  map[string]string // username -> password
	byUsername map[string]string // username -> user ID
	tweets     []models.Tweet    // newest first
	secret     []byte
	log        *zap.Logger
	now        func() time.Time
}

// NewServer builds a Server seeded with an administrator account and
// signing tokens with secret.
func NewServer(secret string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		users:      make(map[string]models.User),
		passwords:  make(map[string]string),
		byUsername: make(map[string]string),
		secret:     []byte(secret),
		log:        log,
		now:        time.Now,
	}
	s.seed()
	return s
}

func (s *Server) seed() {
	ts := s.now().UnixMilli()
	admin := models.User{
		ID:          uuid.NewString(),
		Username:    AdminUsername,
		FirstName:   "Site",
		LastName:    "Admin",
		DateOfBirth: "1970-01-01",
		Role:        models.RoleAdmin,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	s.users[admin.ID] = admin
	s.byUsername[admin.Username] = admin.ID
	s.passwords[admin.Username] = AdminPassword
}

// Router returns the HTTP handler serving the API under /api.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))
	// Log each request and its metadata
	r.Use(s.withRequestLogging)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/login", s.handleLogin)
		r.Post("/register", s.handleRegister)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(s.withAuth)

			r.Route("/tweets", func(r chi.Router) {
				r.Get("/", s.handleListTweets)
				r.Post("/", s.handleCreateTweet)
				r.Get("/my", s.handleMyTweets)
				r.Get("/{id}", s.handleGetTweet)
				r.Put("/{id}", s.handleUpdateTweet)
				r.Delete("/{id}", s.handleDeleteTweet)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", s.handleListUsers)
				r.Get("/{id}", s.handleGetUser)
				r.Put("/{id}", s.handleUpdateUser)

				// Admin-only endpoints
				r.Group(func(r chi.Router) {
					r.Use(s.requireAdmin)
					r.Post("/", s.handleCreateUser)
					r.Delete("/{id}", s.handleDeleteUser)
					r.Put("/{id}/toggle-status", s.handleToggleStatus)
				})
			})
		})
	})

	return r
}

// withRequestLogging logs each request at debug level.
func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", s.now().Sub(start)),
		)
	})
}

// userByID returns a copy of the stored user.
func (s *Server) userByID(id string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok
}

// sortedUsers returns all users filtered by search and ordered by sortBy.
func (s *Server) sortedUsers(search, sortBy, sortOrder string) []models.User {
	s.mu.Lock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		if search != "" && !strings.Contains(strings.ToLower(u.Username), strings.ToLower(search)) {
			continue
		}
		out = append(out, u)
	}
	s.mu.Unlock()

	less := func(a, b models.User) bool { return a.CreatedAt < b.CreatedAt }
	if sortBy == "username" {
		less = func(a, b models.User) bool { return a.Username < b.Username }
	}
	sort.Slice(out, func(i, j int) bool {
		if sortOrder == "desc" {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}
