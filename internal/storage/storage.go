// Package storage persists the client session (bearer token and current
// user) in durable key-value storage. The session store is the only writer;
// the API client reads the token on every request and clears the storage
// when the backend reports the session invalid.
package storage

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/coskuntekin/diginex/internal/models"
)

// Storage keys as persisted on disk.
const (
	// TokenKey holds the raw bearer token string.
	TokenKey = "authToken"
	// UserKey holds the JSON-serialized current user.
	UserKey = "currentUser"
)

// Store is the durable session storage. Token and user are written and
// cleared together; a record holding one without the other is not a session.
type Store interface {
	// Token returns the stored bearer token, empty when absent.
	Token() string
	// User returns the stored current user, nil when absent.
	User() *models.User
	// SetSession stores token and user atomically.
	SetSession(token string, user *models.User) error
	// Clear removes both token and user.
	Clear() error
}

// sessionDoc is the on-disk layout of the session file.
type sessionDoc struct {
	AuthToken   string       `json:"authToken,omitempty"`
	CurrentUser *models.User `json:"currentUser,omitempty"`
}

// FileStore persists the session in a single JSON file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a FileStore backed by the file at path.
// The file is created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// load reads the session file. A missing file is an empty session.
func (s *FileStore) load() sessionDoc {
	var doc sessionDoc
	data, err := os.ReadFile(s.path)
	if err != nil {
		return doc
	}
	_ = json.Unmarshal(data, &doc)
	return doc
}

// save writes the session file with owner-only permissions.
func (s *FileStore) save(doc sessionDoc) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Token returns the stored bearer token, empty when absent.
func (s *FileStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().AuthToken
}

// User returns the stored current user, nil when absent.
func (s *FileStore) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().CurrentUser
}

// SetSession stores token and user together.
func (s *FileStore) SetSession(token string, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(sessionDoc{AuthToken: token, CurrentUser: user})
}

// Clear removes the session file contents.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// MemStore is an in-memory Store, used in tests and as a throwaway
// session for unauthenticated flows.
type MemStore struct {
	mu    sync.Mutex
	token string
	user  *models.User
}

// NewMemStore returns an empty in-memory Store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Token returns the stored bearer token, empty when absent.
func (s *MemStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns the stored current user, nil when absent.
func (s *MemStore) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// SetSession stores token and user together.
func (s *MemStore) SetSession(token string, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if user != nil {
		u := *user
		s.user = &u
	} else {
		s.user = nil
	}
	return nil
}

// Clear removes both token and user.
func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	return nil
}
