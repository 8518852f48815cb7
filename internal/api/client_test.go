package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coskuntekin/diginex/internal/models"
	"github.com/coskuntekin/diginex/internal/storage"
)

// recordingNotifier captures side-channel notifications.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	st := storage.NewMemStore()
	client := NewClient(srv.URL, st)

	_, err := client.Get(context.Background(), "/x", nil)
	require.NoError(t, err)
	assert.Empty(t, gotAuth, "no token stored, no header expected")

	require.NoError(t, st.SetSession("tok-1", &models.User{ID: "u1"}))
	_, err = client.Get(context.Background(), "/x", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
}

func TestClient_QueryEncoding(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, storage.NewMemStore())
	q := Query{Page: 2, Limit: 5, Search: "bob", SortOrder: "desc"}
	_, err := client.Get(context.Background(), "/users", q.Values())
	require.NoError(t, err)

	assert.Equal(t, "limit=5&page=2&search=bob&sortOrder=desc", gotQuery)
}

func TestClient_QuerySkipsZeroValues(t *testing.T) {
	v := Query{Token: "abc"}.Values()
	assert.Equal(t, "token=abc", v.Encode())
	assert.Empty(t, Query{}.Values())
}

func TestClient_UnauthorizedClearsSessionAndNotifies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"token expired","code":401}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	st := storage.NewMemStore()
	require.NoError(t, st.SetSession("tok", &models.User{ID: "u1"}))
	notifier := &recordingNotifier{}
	client := NewClient(srv.URL, st, WithNotifier(notifier))

	_, err := client.Get(context.Background(), "/tweets", nil)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))

	// Token and user are cleared together.
	assert.Empty(t, st.Token())
	assert.Nil(t, st.User())
	assert.Equal(t, []string{"Session expired. Please login again."}, notifier.all())
}

func TestClient_UnauthorizedOnAuthPageStaysQuiet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"bad credentials"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	st := storage.NewMemStore()
	notifier := &recordingNotifier{}
	client := NewClient(srv.URL, st,
		WithNotifier(notifier),
		WithAuthPageCheck(func() bool { return true }),
	)

	_, err := client.Post(context.Background(), "/login", models.LoginRequest{Username: "x", Password: "y"})
	require.Error(t, err)

	// The error still reaches the caller; only the toast is suppressed.
	assert.Empty(t, notifier.all())
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "bad credentials", apiErr.Message)
}

func TestClient_StatusNotifications(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantToasts []string
	}{
		{
			name:       "forbidden",
			status:     http.StatusForbidden,
			wantToasts: []string{"Access denied. You don't have permission to perform this action."},
		},
		{
			name:       "server error",
			status:     http.StatusInternalServerError,
			wantToasts: []string{"Server error occurred. Please try again later."},
		},
		{
			name:       "bad gateway",
			status:     http.StatusBadGateway,
			wantToasts: []string{"Server error occurred. Please try again later."},
		},
		{
			name:       "plain 4xx stays quiet",
			status:     http.StatusNotFound,
			wantToasts: nil,
		},
		{
			name:       "validation stays quiet",
			status:     http.StatusBadRequest,
			wantToasts: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"message":"nope"}`, tt.status)
			}))
			defer srv.Close()

			notifier := &recordingNotifier{}
			client := NewClient(srv.URL, storage.NewMemStore(), WithNotifier(notifier))

			_, err := client.Get(context.Background(), "/x", nil)
			require.Error(t, err)

			apiErr, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.status, apiErr.Code)
			assert.Equal(t, tt.wantToasts, notifier.all())
		})
	}
}

func TestClient_TransportErrorIsNormalized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	notifier := &recordingNotifier{}
	client := NewClient(srv.URL, storage.NewMemStore(), WithNotifier(notifier))

	_, err := client.Get(context.Background(), "/x", nil)
	require.Error(t, err)

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Code)
	assert.NotEmpty(t, apiErr.Message)
	// Network failures raise no toast; the caller decides.
	assert.Empty(t, notifier.all())
}
