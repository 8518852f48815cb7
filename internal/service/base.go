// Package service provides stateless typed wrappers over the API client,
// one per backend resource. Services own no state; collection and session
// stores orchestrate them.
package service

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/coskuntekin/diginex/internal/api"
)

// unwrap peels the single-level response envelope some endpoints use.
// A JSON object carrying a "data" field resolves to that field; an envelope
// whose data is null or empty is an error, as is an empty body. Payloads
// without the envelope pass through untouched.
func unwrap(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, noData()
	}
	if trimmed[0] != '{' {
		return trimmed, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, &api.Error{Message: err.Error(), Code: http.StatusInternalServerError}
	}
	data, ok := fields["data"]
	if !ok {
		return trimmed, nil
	}

	inner := bytes.TrimSpace(data)
	if len(inner) == 0 || bytes.Equal(inner, []byte("null")) {
		return nil, noData()
	}
	return inner, nil
}

// decode unwraps the envelope and decodes the payload into T.
func decode[T any](raw json.RawMessage) (T, error) {
	var out T
	data, err := unwrap(raw)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, &api.Error{Message: err.Error(), Code: http.StatusInternalServerError}
	}
	return out, nil
}

func noData() *api.Error {
	return &api.Error{Message: "No data received from server", Code: http.StatusInternalServerError}
}
