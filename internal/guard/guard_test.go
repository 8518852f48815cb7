package guard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coskuntekin/diginex/internal/models"
)

// fakeSession is a canned session state for guard evaluation.
type fakeSession struct {
	user        *models.User
	loading     bool
	initCalls   int
	initRestore *models.User
}

func (f *fakeSession) Authenticated() bool { return f.user != nil }

func (f *fakeSession) IsAdmin() bool {
	return f.user != nil && f.user.Role == models.RoleAdmin
}

func (f *fakeSession) Loading() bool { return f.loading }

func (f *fakeSession) User() *models.User { return f.user }

func (f *fakeSession) InitializeAuth(context.Context) error {
	f.initCalls++
	if f.initRestore != nil {
		f.user = f.initRestore
	}
	return nil
}

func anonymous() *fakeSession { return &fakeSession{} }

func loggedIn(role string) *fakeSession {
	return &fakeSession{user: &models.User{ID: "u1", Role: role}}
}

func TestGuard_Check(t *testing.T) {
	tests := []struct {
		name         string
		session      *fakeSession
		to           Route
		wantAllowed  bool
		wantRedirect string
		wantQuery    string
	}{
		{
			name:         "anonymous to root goes to login",
			session:      anonymous(),
			to:           Route{Name: "root", Path: "/"},
			wantRedirect: RouteLogin,
		},
		{
			name:         "authenticated on root goes to dashboard",
			session:      loggedIn(models.RoleUser),
			to:           Route{Name: "root", Path: "/"},
			wantRedirect: RouteDashboard,
		},
		{
			name:        "authenticated dashboard allowed",
			session:     loggedIn(models.RoleUser),
			to:          Route{Name: RouteDashboard, Path: "/dashboard", RequiresAuth: true},
			wantAllowed: true,
		},
		{
			name:         "anonymous on protected route carries intended path",
			session:      anonymous(),
			to:           Route{Name: "tweets", Path: "/tweets?page=2", RequiresAuth: true},
			wantRedirect: RouteLogin,
			wantQuery:    "/tweets?page=2",
		},
		{
			name:         "non-admin on admin route goes to dashboard",
			session:      loggedIn(models.RoleUser),
			to:           Route{Name: "users", Path: "/users", RequiresAuth: true, RequiresAdmin: true},
			wantRedirect: RouteDashboard,
		},
		{
			name:        "admin on admin route allowed",
			session:     loggedIn(models.RoleAdmin),
			to:          Route{Name: "users", Path: "/users", RequiresAuth: true, RequiresAdmin: true},
			wantAllowed: true,
		},
		{
			name:         "authenticated kept off login",
			session:      loggedIn(models.RoleUser),
			to:           Route{Name: RouteLogin, Path: "/login", AuthOnly: true},
			wantRedirect: RouteDashboard,
		},
		{
			name:         "authenticated kept off register",
			session:      loggedIn(models.RoleUser),
			to:           Route{Name: RouteRegister, Path: "/register", AuthOnly: true},
			wantRedirect: RouteDashboard,
		},
		{
			name:        "anonymous login allowed",
			session:     anonymous(),
			to:          Route{Name: RouteLogin, Path: "/login", AuthOnly: true},
			wantAllowed: true,
		},
		{
			name:        "anonymous register allowed",
			session:     anonymous(),
			to:          Route{Name: RouteRegister, Path: "/register", AuthOnly: true},
			wantAllowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.session, nil)
			d := g.Check(context.Background(), tt.to)

			assert.Equal(t, tt.wantAllowed, d.Allowed)
			assert.Equal(t, tt.wantRedirect, d.RedirectTo)
			if tt.wantQuery != "" {
				assert.Equal(t, tt.wantQuery, d.Query.Get("redirect"))
			}
		})
	}
}

func TestGuard_InitializesSessionOnce(t *testing.T) {
	session := &fakeSession{initRestore: &models.User{ID: "u1", Role: models.RoleUser}}
	g := New(session, nil)

	d := g.Check(context.Background(), Route{Name: RouteDashboard, Path: "/dashboard", RequiresAuth: true})
	assert.True(t, d.Allowed, "restored session passes the auth gate in the same evaluation")
	assert.Equal(t, 1, session.initCalls)

	g.Check(context.Background(), Route{Name: "tweets", Path: "/tweets", RequiresAuth: true})
	assert.Equal(t, 1, session.initCalls, "a present user skips re-initialization")
}

func TestGuard_SkipsInitializeWhileLoading(t *testing.T) {
	session := &fakeSession{loading: true}
	g := New(session, nil)

	g.Check(context.Background(), Route{Name: RouteLogin, Path: "/login", AuthOnly: true})
	assert.Zero(t, session.initCalls)
}
