package web

// errors.go provides unified error response handling for the web layer.
//
// Validation failures always surface as 422 with the full violation list so
// callers can fix every problem at once. Store failures keep the handler's
// fallback status: 400 on read paths, 422 on write paths. Technical details
// are logged server-side with the request id; clients get a stable JSON
// shape.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"taskboard/internal/core"
	"taskboard/internal/store"
	"taskboard/internal/validate"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error      string               `json:"error"`
	Violations []validate.Violation `json:"violations,omitempty"`
}

// respondError logs err with request context and writes the matching JSON
// error response. A ValidationFailure overrides fallbackStatus with 422;
// everything else keeps it.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, fallbackStatus int) {
	status := fallbackStatus
	resp := ErrorResponse{Error: err.Error()}

	var vf *core.ValidationFailure
	var qf *store.QueryFailure
	switch {
	case errors.As(err, &vf):
		status = http.StatusUnprocessableEntity
		resp.Error = "validation failed"
		resp.Violations = vf.Violations
	case errors.As(err, &qf):
		// Keep the underlying store message attached, unclassified.
		resp.Error = qf.Error()
	}

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"request_id", middleware.GetReqID(r.Context()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logEncodeError(err)
	}
}

// logEncodeError records a JSON encoding failure after headers are sent.
func logEncodeError(err error) {
	slog.Error("json encode error", "error", err)
}
