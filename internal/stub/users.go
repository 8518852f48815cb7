package stub

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/coskuntekin/diginex/internal/models"
)

// userPage is the list envelope served by GET /users.
type userPage struct {
	Users []models.User `json:"users"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pageNum := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)

	all := s.sortedUsers(q.Get("search"), q.Get("sortBy"), q.Get("sortOrder"))
	total := len(all)

	start := (pageNum - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	writeJSON(w, http.StatusOK, userPage{
		Users: all[start:end],
		Total: total,
		Page:  pageNum,
		Limit: limit,
	})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := s.userByID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeData(w, http.StatusOK, user)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[req.Username]; exists {
		writeError(w, http.StatusConflict, "Username is already taken")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	ts := s.now().UnixMilli()
	user := models.User{
		ID:        uuid.NewString(),
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      role,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	s.users[user.ID] = user
	s.byUsername[user.Username] = user.ID
	s.passwords[user.Username] = req.Password

	writeData(w, http.StatusCreated, user)
}

// handleUpdateUser serves both profile updates and admin edits. Non-admins
// may only update themselves.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	subject := subjectFrom(r.Context())
	caller, _ := s.userByID(subject)
	if subject != id && caller.Role != models.RoleAdmin {
		writeError(w, http.StatusForbidden, "You can only update your own profile")
		return
	}

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.DateOfBirth != "" {
		user.DateOfBirth = req.DateOfBirth
	}
	if req.Role != "" && caller.Role == models.RoleAdmin {
		user.Role = req.Role
	}
	user.UpdatedAt = s.now().UnixMilli()
	s.users[id] = user

	writeData(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	delete(s.users, id)
	delete(s.byUsername, user.Username)
	delete(s.passwords, user.Username)

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleToggleStatus flips the active/inactive marker held on the role
// field. An inactive user regains the plain USER role.
func (s *Server) handleToggleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	if user.Role == models.RoleInactive {
		user.Role = models.RoleUser
	} else {
		user.Role = models.RoleInactive
	}
	user.UpdatedAt = s.now().UnixMilli()
	s.users[id] = user

	writeData(w, http.StatusOK, user)
}
