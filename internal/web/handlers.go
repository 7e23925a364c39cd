package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/web/templates"
)

// handleHealth reports whether the store is reachable. It is not authenticated.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			logError(r, err, http.StatusServiceUnavailable, core.MapError(err).Code)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleImportPage renders the import screen.
func (s *Server) handleImportPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ImportPage(core.ImportColumns).Render(r.Context(), w); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.respondError(w, r, fmt.Errorf("%s %s: %w", r.Method, r.URL.Path, core.ErrNotFound), http.StatusNotFound)
}

// handleListCategories returns the categories rows can reference.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.service.Categories(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// auditLogResponse is one page of audit entries.
type auditLogResponse struct {
	Entries []core.AuditEntry `json:"entries"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

// handleAuditLog lists audit entries, newest first.
// Query parameters: action, resource, from, to (YYYY-MM-DD or RFC 3339),
// limit, offset.
func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := core.AuditLogFilter{
		Action:   core.AuditAction(q.Get("action")),
		Resource: q.Get("resource"),
		Limit:    parseIntParam(r, "limit", core.DefaultAuditLimit),
		Offset:   parseIntParam(r, "offset", 0),
	}

	var err error
	if filter.StartTime, err = parseTimeParam(q.Get("from"), false); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if filter.EndTime, err = parseTimeParam(q.Get("to"), true); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if !filter.StartTime.IsZero() && !filter.EndTime.IsZero() && filter.EndTime.Before(filter.StartTime) {
		s.respondError(w, r, errors.New("invalid date range: to is before from"), http.StatusBadRequest)
		return
	}

	entries, err := s.service.AuditLog(r.Context(), filter)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if filter.Limit > core.MaxAuditLimit {
		filter.Limit = core.MaxAuditLimit
	}
	writeJSON(w, http.StatusOK, auditLogResponse{Entries: entries, Limit: filter.Limit, Offset: filter.Offset})
}

// parseIntParam parses a non-negative integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}
	return i
}

// parseTimeParam accepts a date or an RFC 3339 timestamp. A bare date used
// as an upper bound covers the whole day.
func parseTimeParam(val string, endOfDay bool) (time.Time, error) {
	if val == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, val)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", val)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
