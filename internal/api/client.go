package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/coskuntekin/diginex/internal/storage"
)

// defaultTimeout bounds every request; there is no per-operation
// cancellation beyond this and the caller's context.
const defaultTimeout = 10 * time.Second

// Notifier receives side-channel user notifications (the toast analogue).
// Implementations must not block: notifications are fire-and-forget and
// never delay returning an error to the caller.
type Notifier interface {
	Error(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string)

// Error implements Notifier.
func (f NotifierFunc) Error(message string) { f(message) }

// nopNotifier drops all notifications.
type nopNotifier struct{}

func (nopNotifier) Error(string) {}

// Query holds the list query parameters understood by the backend.
// Zero values are omitted from the request.
type Query struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
	// Token is the opaque continuation cursor; mutually exclusive with
	// page-based paging on a single request.
	Token string
}

// Values encodes the query, skipping unset parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		v.Set("sortOrder", q.SortOrder)
	}
	if q.Token != "" {
		v.Set("token", q.Token)
	}
	return v
}

// Client is the generic HTTP request wrapper for the backend API.
// It attaches the bearer token from durable storage, normalizes failures
// into *Error, and fires notifications on 401/403/5xx responses.
type Client struct {
	httpClient *http.Client
	baseURL    string
	storage    storage.Store
	notifier   Notifier
	onAuthPage func() bool
	log        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithNotifier sets the side-channel notification sink.
func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithAuthPageCheck installs the predicate reporting whether the user is
// currently on an auth page (login/register). While on an auth page the
// session-expired notification is suppressed.
func WithAuthPageCheck(fn func() bool) Option {
	return func(c *Client) { c.onAuthPage = fn }
}

// WithLogger sets the structured logger. Request/response logging happens
// at debug level.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient builds a Client against baseURL reading the bearer token
// from store.
func NewClient(baseURL string, store storage.Store, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
		storage:    store,
		notifier:   nopNotifier{},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send performs an HTTP request against the API and returns the raw JSON
// response body. body, when non-nil, is JSON-encoded; query, when non-nil,
// is appended to the URL. All failures are returned as *Error.
//
// Side effects on error statuses, fired independently of the returned error:
//   - 401: durable token and user are cleared together and a session-expired
//     notification is raised unless the user is on an auth page;
//   - 403: an access-denied notification is raised;
//   - 5xx: a server-error notification is raised.
//
// Other failures (remaining 4xx, network faults) pass through silently.
func (c *Client) Send(ctx context.Context, method, path string, body any, query url.Values) (json.RawMessage, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, transportError(err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, transportError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.storage.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debug("api request", zap.String("method", method), zap.String("url", reqURL))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("api transport error", zap.String("method", method), zap.String("url", reqURL), zap.Error(err))
		return nil, transportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}

	c.log.Debug("api response", zap.String("method", method), zap.String("url", reqURL), zap.Int("status", resp.StatusCode))

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := normalizeError(resp.StatusCode, respBody, "")
		c.handleErrorStatus(resp.StatusCode)
		return nil, apiErr
	}

	return respBody, nil
}

// handleErrorStatus performs the side effects tied to specific error
// statuses. Notifications never block the error return.
func (c *Client) handleErrorStatus(status int) {
	switch {
	case status == http.StatusUnauthorized:
		if err := c.storage.Clear(); err != nil {
			c.log.Warn("failed to clear session storage", zap.Error(err))
		}
		if c.onAuthPage == nil || !c.onAuthPage() {
			c.notifier.Error("Session expired. Please login again.")
		}
	case status == http.StatusForbidden:
		c.notifier.Error("Access denied. You don't have permission to perform this action.")
	case status >= http.StatusInternalServerError:
		c.notifier.Error("Server error occurred. Please try again later.")
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.Send(ctx, http.MethodGet, path, nil, query)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Send(ctx, http.MethodPost, path, body, nil)
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Send(ctx, http.MethodPut, path, body, nil)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Send(ctx, http.MethodDelete, path, nil, nil)
}
