package stub

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/coskuntekin/diginex/internal/models"
)

// tokenTTL is the lifetime of issued bearer tokens.
const tokenTTL = 24 * time.Hour

type ctxKey string

const subjectKey ctxKey = "subject"

// issueToken signs an HS256 token for the user with an expiry claim.
func (s *Server) issueToken(userID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// withAuth verifies the bearer token and stores the authenticated user ID
// in the request context.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims := jwt.RegisteredClaims{}
		_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		if _, ok := s.userByID(claims.Subject); !ok {
			writeError(w, http.StatusUnauthorized, "Unknown user")
			return
		}

		ctx := context.WithValue(r.Context(), subjectKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin rejects requests whose subject is not an administrator.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.userByID(subjectFrom(r.Context()))
		if !ok || user.Role != models.RoleAdmin {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// subjectFrom extracts the authenticated user ID from the context.
func subjectFrom(ctx context.Context) string {
	if s, ok := ctx.Value(subjectKey).(string); ok {
		return s
	}
	return ""
}

// handleLogin authenticates credentials and issues a bearer token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	s.mu.Lock()
	id, ok := s.byUsername[req.Username]
	password := s.passwords[req.Username]
	user := s.users[id]
	s.mu.Unlock()

	if !ok || password != req.Password {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if user.Role == models.RoleInactive {
		writeError(w, http.StatusForbidden, "Account is deactivated")
		return
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{User: user, Token: token})
}

// handleRegister creates an account. No token is issued; the caller logs
// in separately.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	missing := map[string][]string{}
	for field, value := range map[string]string{
		"username":  req.Username,
		"password":  req.Password,
		"firstName": req.FirstName,
		"lastName":  req.LastName,
	} {
		if value == "" {
			missing[field] = []string{"is required"}
		}
	}
	if len(missing) > 0 {
		writeValidationError(w, "Validation failed", missing)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[req.Username]; exists {
		writeError(w, http.StatusConflict, "Username is already taken")
		return
	}

	ts := s.now().UnixMilli()
	user := models.User{
		ID:          uuid.NewString(),
		Username:    req.Username,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		Role:        models.RoleUser,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	s.users[user.ID] = user
	s.byUsername[user.Username] = user.ID
	s.passwords[user.Username] = req.Password

	writeJSON(w, http.StatusCreated, models.RegisterResponse{
		ID:          user.ID,
		Username:    user.Username,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		DateOfBirth: user.DateOfBirth,
		Role:        user.Role,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	})
}
