package web

// errors.go provides unified error response handling for the web layer.
// Technical details are logged server-side with the request ID for
// correlation; clients get a sanitized JSON message.

import (
	"encoding/json"
	"net/http"

	"matchtracker/internal/logging"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError logs the error and writes a JSON error response. The
// request ID comes in through the context logger.
func respondError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", message,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON encodes v as JSON. Encoding errors are logged since headers
// are already sent.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
