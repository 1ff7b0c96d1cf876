package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/masy43/Student-Management-System/internal/domain/roster"
	"github.com/masy43/Student-Management-System/internal/domain/shared"
	"github.com/masy43/Student-Management-System/internal/domain/student"
	"github.com/masy43/Student-Management-System/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE ENVELOPE
// ══════════════════════════════════════════════════════════════════════════════

// JSONResponse represents a standard JSON response.
type JSONResponse struct {
	Success   bool          `json:"success"`
	Data      interface{}   `json:"data,omitempty"`
	Error     *APIError     `json:"error,omitempty"`
	Meta      *ResponseMeta `json:"meta,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`

	// Fields maps form field names to their inline error messages.
	Fields map[string]string `json:"fields,omitempty"`
}

// ResponseMeta contains response metadata.
type ResponseMeta struct {
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version,omitempty"`
	TotalCount int       `json:"total_count,omitempty"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	writeJSONWithMeta(w, r, status, data, nil)
}

// writeJSONWithMeta writes a JSON response with custom metadata.
func writeJSONWithMeta(w http.ResponseWriter, r *http.Request, status int, data interface{}, meta *ResponseMeta) {
	if meta == nil {
		meta = &ResponseMeta{}
	}
	meta.Timestamp = time.Now().UTC()
	meta.Version = "v1"

	write(w, status, JSONResponse{
		Success:   status >= 200 && status < 300,
		Data:      data,
		Meta:      meta,
		RequestID: getRequestID(r.Context()),
	})
}

// writeJSONError writes an error JSON response.
func writeJSONError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeAPIError(w, r, status, &APIError{Code: code, Message: message})
}

func writeAPIError(w http.ResponseWriter, r *http.Request, status int, apiErr *APIError) {
	write(w, status, JSONResponse{
		Success:   false,
		Error:     apiErr,
		Meta:      &ResponseMeta{Timestamp: time.Now().UTC()},
		RequestID: getRequestID(r.Context()),
	})
}

func write(w http.ResponseWriter, status int, response JSONResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *student.ValidationError
	var dup *roster.DuplicateNameError

	switch {
	case errors.As(err, &verr):
		writeAPIError(w, r, http.StatusUnprocessableEntity, &APIError{
			Code:    "validation_failed",
			Message: "One or more fields are invalid",
			Fields:  verr.Messages(),
		})

	case errors.As(err, &dup):
		writeAPIError(w, r, http.StatusConflict, &APIError{
			Code:    "duplicate_name",
			Message: shared.ErrDuplicateName.Message,
			Details: dup.Name,
		})

	case shared.IsNotFound(err):
		writeJSONError(w, r, http.StatusNotFound, "not_found", messageOf(err, "Resource not found"))

	case shared.IsInvalidInput(err):
		writeJSONError(w, r, http.StatusBadRequest, "invalid_request", messageOf(err, "Invalid request"))

	case shared.IsRetryable(err), errors.Is(err, context.DeadlineExceeded):
		logger.FromContext(r.Context()).Warn("dependency unavailable", logger.Err(err))
		writeJSONError(w, r, http.StatusServiceUnavailable, "service_unavailable", "Service temporarily unavailable")

	case errors.Is(err, context.Canceled):
		// Клиент ушёл, отвечать некому.
		w.WriteHeader(499)

	default:
		logger.FromContext(r.Context()).Error("request failed", logger.Err(err))
		writeJSONError(w, r, http.StatusInternalServerError, "internal_server_error", "An unexpected error occurred")
	}
}

// messageOf returns the message of the most specific DomainError wrapper.
func messageOf(err error, fallback string) string {
	msg := fallback
	for err != nil {
		d, ok := err.(*shared.DomainError)
		if !ok {
			err = errors.Unwrap(err)
			continue
		}
		if msg == fallback || d.Err != nil {
			msg = d.Message
		}
		err = d.Err
	}
	return msg
}
