package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is:
//   - Logged with full technical details and the request ID (server-side)
//   - Returned to clients as a user-friendly message with an action and code
//   - Rendered as JSON for API routes and as an HTML alert otherwise

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/logging"
	"github.com/JonMunkholm/backoffice/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// ImportErrorResponse is returned when a whole batch is rejected; the
// summary lists the row errors that caused it.
type ImportErrorResponse struct {
	ErrorResponse
	Summary *core.ImportSummary `json:"summary,omitempty"`
}

func newErrorResponse(msg core.UserMessage) ErrorResponse {
	return ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}
}

// respondError logs err and writes the mapped user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)
	logError(r, err, statusCode, userMsg.Code)

	if wantsJSON(r) {
		writeJSON(w, statusCode, newErrorResponse(userMsg))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := templates.ErrorAlert(userMsg.Message, userMsg.Action, userMsg.Code).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render error alert", "error", err)
	}
}

// respondImportError writes a rejected batch together with its summary.
func (s *Server) respondImportError(w http.ResponseWriter, r *http.Request, err error, summary *core.ImportSummary) {
	status := importErrorStatus(err)
	userMsg := core.MapError(err)
	logError(r, err, status, userMsg.Code)

	writeJSON(w, status, ImportErrorResponse{
		ErrorResponse: newErrorResponse(userMsg),
		Summary:       summary,
	})
}

// importErrorStatus maps import errors to HTTP status codes.
func importErrorStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrEmptyBatch),
		errors.Is(err, core.ErrNoValidRows),
		errors.Is(err, core.ErrUnknownMode):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrBatchTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func logError(r *http.Request, err error, status int, code string) {
	logger := logging.FromContext(r.Context())
	args := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", args...)
	} else {
		logger.Warn("request error", args...)
	}
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
