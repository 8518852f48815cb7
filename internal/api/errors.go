// Package api provides the HTTP transport layer for the diginex backend:
// a request wrapper that attaches the bearer token, normalizes every failure
// into a canonical error shape, and raises side-channel notifications for
// session-expiry, permission, and server faults.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// defaultErrorMessage is used when neither the server payload nor the
// transport supplies a message.
const defaultErrorMessage = "An error occurred"

// Error is the canonical error shape every failed API operation resolves to.
// Code is the server-provided numeric code when present, otherwise the HTTP
// status, otherwise 500.
type Error struct {
	// Message is a human-readable description of the failure.
	Message string `json:"message"`
	// Code is the numeric error code, see above.
	Code int `json:"code"`
	// Errors carries the per-field validation messages when the server
	// provides them (400 responses).
	Errors map[string][]string `json:"errors,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

// AsError extracts the canonical *Error from err, if any.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthorized reports whether err is a 401 error.
func IsUnauthorized(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code == http.StatusUnauthorized
}

// IsForbidden reports whether err is a 403 error.
func IsForbidden(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 error.
func IsNotFound(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code == http.StatusNotFound
}

// IsServerError reports whether err is a 5xx error.
func IsServerError(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code >= http.StatusInternalServerError
}

// DomainError builds a local violation error raised before any network
// call, e.g. a missing user ID.
func DomainError(message string) *Error {
	return &Error{Message: message, Code: http.StatusBadRequest}
}

// errorPayload is the error body shape the backend responds with.
// Code is decoded leniently: some endpoints send numeric codes, others
// string tags; only numeric codes participate in Error.Code.
type errorPayload struct {
	Message string              `json:"message"`
	Code    json.RawMessage     `json:"code"`
	Errors  map[string][]string `json:"errors"`
}

// normalizeError derives the canonical Error from an HTTP error response.
// Precedence: explicit numeric server code, else the HTTP status, else 500;
// message from the server payload, else the fallback transport message,
// else a generic one.
func normalizeError(status int, body []byte, transportMessage string) *Error {
	var payload errorPayload
	_ = json.Unmarshal(body, &payload)

	code := 0
	if len(payload.Code) > 0 {
		var numeric int
		if err := json.Unmarshal(payload.Code, &numeric); err == nil {
			code = numeric
		}
	}
	if code == 0 {
		code = status
	}
	if code == 0 {
		code = http.StatusInternalServerError
	}

	message := payload.Message
	if message == "" {
		message = transportMessage
	}
	if message == "" {
		message = defaultErrorMessage
	}

	return &Error{Message: message, Code: code, Errors: payload.Errors}
}

// transportError wraps a failure that produced no HTTP response
// (connection refused, timeout). Such failures carry code 500.
func transportError(err error) *Error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	if message == "" {
		message = defaultErrorMessage
	}
	return &Error{Message: message, Code: http.StatusInternalServerError}
}
