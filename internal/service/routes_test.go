package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coskuntekin/diginex/internal/api"
	"github.com/coskuntekin/diginex/internal/models"
	"github.com/coskuntekin/diginex/internal/storage"
)

// newRecordingServer captures the last method and path and answers with body.
func newRecordingServer(t *testing.T, body string) (*api.Client, *http.Request) {
	t.Helper()
	last := &http.Request{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*last = *r
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL, storage.NewMemStore()), last
}

func TestTweetService_Routes(t *testing.T) {
	ctx := context.Background()

	t.Run("list", func(t *testing.T) {
		client, last := newRecordingServer(t, `{"tweets":[],"total":0}`)
		_, err := NewTweetService(client).List(ctx, api.Query{Page: 2})
		require.NoError(t, err)
		assert.Equal(t, http.MethodGet, last.Method)
		assert.Equal(t, "/tweets", last.URL.Path)
		assert.Equal(t, "2", last.URL.Query().Get("page"))
	})

	t.Run("list mine", func(t *testing.T) {
		client, last := newRecordingServer(t, `[]`)
		_, err := NewTweetService(client).ListMine(ctx, api.Query{})
		require.NoError(t, err)
		assert.Equal(t, "/tweets/my", last.URL.Path)
	})

	t.Run("create unwraps envelope", func(t *testing.T) {
		client, last := newRecordingServer(t, `{"success":true,"data":{"id":"t1","title":"hi"}}`)
		tweet, err := NewTweetService(client).Create(ctx, models.CreateTweetRequest{Title: "hi"})
		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, last.Method)
		assert.Equal(t, "t1", tweet.ID)
	})

	t.Run("update", func(t *testing.T) {
		client, last := newRecordingServer(t, `{"data":{"id":"t1"}}`)
		_, err := NewTweetService(client).Update(ctx, "t1", models.UpdateTweetRequest{Title: "x"})
		require.NoError(t, err)
		assert.Equal(t, http.MethodPut, last.Method)
		assert.Equal(t, "/tweets/t1", last.URL.Path)
	})

	t.Run("delete tolerates bodyless response", func(t *testing.T) {
		client, last := newRecordingServer(t, ``)
		err := NewTweetService(client).Delete(ctx, "t9")
		require.NoError(t, err)
		assert.Equal(t, http.MethodDelete, last.Method)
		assert.Equal(t, "/tweets/t9", last.URL.Path)
	})
}

func TestUserService_Routes(t *testing.T) {
	ctx := context.Background()

	t.Run("toggle status", func(t *testing.T) {
		client, last := newRecordingServer(t, `{"data":{"id":"u1","role":"inactive"}}`)
		user, err := NewUserService(client).ToggleStatus(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, http.MethodPut, last.Method)
		assert.Equal(t, "/users/u1/toggle-status", last.URL.Path)
		assert.Equal(t, models.RoleInactive, user.Role)
	})

	t.Run("patch shares the update endpoint", func(t *testing.T) {
		client, last := newRecordingServer(t, `{"data":{"id":"u1"}}`)
		_, err := NewUserService(client).Patch(ctx, "u1", models.UpdateUserRequest{Role: models.RoleInactive})
		require.NoError(t, err)
		assert.Equal(t, http.MethodPut, last.Method)
		assert.Equal(t, "/users/u1", last.URL.Path)
	})
}

func TestAuthService_Login(t *testing.T) {
	client, last := newRecordingServer(t, `{"user":{"id":"u1","username":"alice"},"token":"tok"}`)
	resp, err := NewAuthService(client).Login(context.Background(), models.LoginRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, last.Method)
	assert.Equal(t, "/login", last.URL.Path)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "u1", resp.User.ID)
}
