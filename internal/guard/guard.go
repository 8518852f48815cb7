// Package guard decides route transitions from the session's authentication
// and authorization state: anonymous users are sent to login (carrying the
// intended path), authenticated users are kept off the auth pages, and
// non-admins are kept off the admin pages.
package guard

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/coskuntekin/diginex/internal/models"
)

// Well-known route names.
const (
	RouteDashboard = "dashboard"
	RouteLogin     = "login"
	RouteRegister  = "register"
)

// Route is the metadata of a navigation target.
type Route struct {
	// Name identifies the route ("dashboard", "login", ...).
	Name string
	// Path is the full path, including any query string, used to build
	// the redirect parameter.
	Path string
	// RequiresAuth marks routes reachable only with a session.
	RequiresAuth bool
	// RequiresAdmin marks routes reachable only with the ADMIN role.
	RequiresAdmin bool
	// AuthOnly marks routes reachable only without a session
	// (login, register).
	AuthOnly bool
}

// Session is the slice of the session store the guard consults.
type Session interface {
	Authenticated() bool
	IsAdmin() bool
	Loading() bool
	User() *models.User
	InitializeAuth(ctx context.Context) error
}

// Decision is the outcome of a guard evaluation: either the transition is
// allowed, or the navigation is redirected to RedirectTo with Query
// appended.
type Decision struct {
	Allowed    bool
	RedirectTo string
	Query      url.Values
}

func allow() Decision {
	return Decision{Allowed: true}
}

func redirect(name string) Decision {
	return Decision{RedirectTo: name}
}

// Guard evaluates route transitions against a session.
type Guard struct {
	session Session
	log     *zap.Logger
}

// New constructs a Guard. Pass nil for log to disable logging.
func New(session Session, log *zap.Logger) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Guard{session: session, log: log}
}

// Check resolves the pending transition to the given route. Before the
// first evaluation it restores the session from durable storage on a
// best-effort basis.
func (g *Guard) Check(ctx context.Context, to Route) Decision {
	if g.session.User() == nil && !g.session.Loading() {
		if err := g.session.InitializeAuth(ctx); err != nil {
			g.log.Warn("failed to initialize session", zap.Error(err))
		}
	}

	authenticated := g.session.Authenticated()

	// The root path routes by session state.
	if to.Path == "/" || to.Name == RouteDashboard {
		if !authenticated {
			return redirect(RouteLogin)
		}
		if to.Path == "/" {
			return redirect(RouteDashboard)
		}
	}

	if to.RequiresAuth {
		if !authenticated {
			d := redirect(RouteLogin)
			d.Query = url.Values{"redirect": []string{to.Path}}
			return d
		}
		if to.RequiresAdmin && !g.session.IsAdmin() {
			return redirect(RouteDashboard)
		}
	}

	if authenticated && (to.AuthOnly || to.Name == RouteLogin || to.Name == RouteRegister) {
		return redirect(RouteDashboard)
	}

	return allow()
}
