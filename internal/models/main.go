// Package models defines the core data structures exchanged with the API:
// users, tweets, and the request/response payloads around them.
package models

// Role values carried by the User.Role field. The backend overloads this
// field: besides the USER/ADMIN permission tags it stores "inactive" as an
// account-status marker on the same field.
const (
	// RoleUser is a regular account.
	RoleUser = "USER"
	// RoleAdmin grants access to user administration.
	RoleAdmin = "ADMIN"
	// RoleInactive marks a deactivated account. Lives on the same field
	// as the permission roles.
	RoleInactive = "inactive"
)

// User represents an application user as returned by the API.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Username is the login name chosen by the user.
	Username string `json:"username"`
	// FirstName is the user's given name.
	FirstName string `json:"firstName"`
	// LastName is the user's family name.
	LastName string `json:"lastName"`
	// DateOfBirth is an ISO date string (YYYY-MM-DD).
	DateOfBirth string `json:"dateOfBirth"`
	// Role is the permission tag, see the Role constants.
	Role string `json:"role"`
	// CreatedAt is the creation time in epoch milliseconds.
	CreatedAt int64 `json:"createdAt"`
	// UpdatedAt is the last-modified time in epoch milliseconds.
	UpdatedAt int64 `json:"updatedAt"`
}

// EntityID returns the collection identity of the user.
func (u User) EntityID() string { return u.ID }

// Active reports whether the account is not marked inactive.
func (u User) Active() bool { return u.Role != RoleInactive }

// Tweet represents a single post as returned by the API.
type Tweet struct {
	// ID is the unique identifier for the tweet.
	ID string `json:"id"`
	// Title is the short headline of the tweet.
	Title string `json:"title"`
	// Content is the tweet body.
	Content string `json:"content"`
	// Owner is the ID of the authoring user.
	Owner string `json:"owner"`
	// CreatedAt is the creation time in epoch milliseconds.
	CreatedAt int64 `json:"createdAt"`
	// UpdatedAt is the last-modified time in epoch milliseconds.
	UpdatedAt int64 `json:"updatedAt"`
	// PublishedAt is the publication time in epoch milliseconds, zero if unpublished.
	PublishedAt int64 `json:"publishedAt,omitempty"`
}

// EntityID returns the collection identity of the tweet.
func (t Tweet) EntityID() string { return t.ID }

// LoginRequest is the credentials payload for POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the successful login payload: the authenticated user
// and the bearer token to present on subsequent requests.
type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// RegisterRequest is the payload for POST /register.
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
}

// RegisterResponse is the created-account summary returned by POST /register.
// Registration does not log the account in; no token is issued.
type RegisterResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
	Role        string `json:"role"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}

// CreateUserRequest is the admin payload for POST /users.
type CreateUserRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role,omitempty"`
}

// UpdateUserRequest is the partial-update payload for PUT /users/{id}.
// Zero-valued fields are omitted from the request body.
type UpdateUserRequest struct {
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Role        string `json:"role,omitempty"`
}

// CreateTweetRequest is the payload for POST /tweets.
type CreateTweetRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateTweetRequest is the partial-update payload for PUT /tweets/{id}.
type UpdateTweetRequest struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}
