package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

// Error is the wire form of an API error. Code is a stable snake_case
// identifier clients can branch on; Message is human-readable.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// errorEnvelope wraps an Error so error responses are distinguishable
// from resource payloads by the top-level "error" key.
type errorEnvelope struct {
	Error *Error `json:"error"`
}

// WriteJSON writes a JSON response with the given status code.
// Uses buffer-first strategy to ensure headers are only sent after successful encoding.
// This allows returning a proper 500 error if JSON encoding fails.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Content-Type-Options", "nosniff") // Prevent MIME type sniffing attacks
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		// Log at debug level - client disconnects are common and expected
		slog.Debug("failed to write response body", "error", err)
	}
}

// WriteError writes a structured error response. The logger records the
// error at debug level; 5xx causes are logged at error level by callers
// that know the underlying fault.
func WriteError(w http.ResponseWriter, status int, code, message string, logger *slog.Logger) {
	if logger != nil {
		logger.Debug("api error response",
			"status", status,
			"code", code,
			"message", message,
		)
	}
	WriteJSON(w, status, errorEnvelope{Error: &Error{
		Code:    code,
		Message: message,
		Status:  status,
	}})
}
