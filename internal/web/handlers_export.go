package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/logging"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleExport downloads the catalog as CSV (default) or XLSX.
// Query parameters: format, search, status.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := downloadFormat(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	filter := core.ProductFilter{Search: r.URL.Query().Get("search")}
	if status := r.URL.Query().Get("status"); status != "" {
		st, ok := core.ParseStatus(status)
		if !ok {
			s.respondError(w, r, fmt.Errorf("invalid status %q", status), http.StatusBadRequest)
			return
		}
		filter.Status = st
	}

	filename := fmt.Sprintf("products_%s.%s", time.Now().Format("20060102_150405"), format)

	if format == "xlsx" {
		// The workbook is assembled in memory anyway; buffering keeps the
		// error response possible until the last step.
		var buf bytes.Buffer
		if _, err := s.service.ExportXLSX(r.Context(), &buf, filter); err != nil {
			s.respondError(w, r, err, http.StatusInternalServerError)
			return
		}
		setAttachment(w, xlsxContentType, filename)
		_, _ = buf.WriteTo(w)
		return
	}

	setAttachment(w, "text/csv; charset=utf-8", filename)
	if _, err := s.service.ExportCSV(r.Context(), w, filter); err != nil {
		// Headers are already sent
		logging.FromContext(r.Context()).Error("csv export failed", "error", err)
	}
}

// handleDownloadTemplate returns an empty import file with every column.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	format, err := downloadFormat(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	contentType := "text/csv; charset=utf-8"
	if format == "xlsx" {
		contentType = xlsxContentType
		err = core.WriteTemplateXLSX(&buf)
	} else {
		err = core.WriteTemplateCSV(&buf)
	}
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	setAttachment(w, contentType, "products_template."+format)
	_, _ = buf.WriteTo(w)
}

func downloadFormat(r *http.Request) (string, error) {
	switch f := strings.ToLower(r.URL.Query().Get("format")); f {
	case "", "csv":
		return "csv", nil
	case "xlsx":
		return "xlsx", nil
	default:
		return "", fmt.Errorf("unsupported format %q", f)
	}
}

func setAttachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
}
