package stub

import (
	"encoding/json"
	"net/http"
)

// errorBody is the error payload shape the production backend uses.
type errorBody struct {
	Message string              `json:"message"`
	Code    int                 `json:"code"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// dataEnvelope wraps single-entity responses the way some production
// endpoints do.
type dataEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeData responds with the {success,data} envelope.
func writeData(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, dataEnvelope{Success: true, Data: v})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Message: message, Code: status})
}

func writeValidationError(w http.ResponseWriter, message string, errors map[string][]string) {
	writeJSON(w, http.StatusBadRequest, errorBody{
		Message: message,
		Code:    http.StatusBadRequest,
		Errors:  errors,
	})
}
