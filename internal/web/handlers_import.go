package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/logging"
)

// multipartMemory is how much of a multipart form is kept in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

// handleImport reconciles an uploaded CSV or XLSX file with the catalog.
//
// Form fields: file (required), mode (default create), format (csv|xlsx,
// default from the file extension).
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	batch, err := s.readUpload(w, r)
	if err != nil {
		s.respondUploadError(w, r, err)
		return
	}

	summary, err := s.service.Import(r.Context(), batch)
	if err != nil {
		s.respondImportError(w, r, err, summary)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handlePreview reports what handleImport would do without writing.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	batch, err := s.readUpload(w, r)
	if err != nil {
		s.respondUploadError(w, r, err)
		return
	}

	summary, err := s.service.Preview(r.Context(), batch)
	if err != nil {
		s.respondImportError(w, r, err, summary)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// jsonImportRequest is the body of POST /api/products/import/json.
// A bare array of products is also accepted and imported in the default mode.
type jsonImportRequest struct {
	Mode     string           `json:"mode"`
	Products []map[string]any `json:"products"`
}

// handleImportJSON reconciles a JSON list of products with the catalog.
func (s *Server) handleImportJSON(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize)

	req, err := decodeImportRequest(r)
	if err != nil {
		s.respondUploadError(w, r, err)
		return
	}

	mode, err := core.ParseMode(req.Mode)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	batch := core.Batch{
		Mode:   mode,
		Source: core.SourceJSON,
		Rows:   core.RecordsFromJSON(req.Products),
	}
	summary, err := s.service.Import(r.Context(), batch)
	if err != nil {
		s.respondImportError(w, r, err, summary)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func decodeImportRequest(r *http.Request) (jsonImportRequest, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return jsonImportRequest{}, fmt.Errorf("invalid json: %w", err)
	}

	var req jsonImportRequest
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &req.Products); err != nil {
			return req, fmt.Errorf("invalid json: %w", err)
		}
		return req, nil
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, fmt.Errorf("invalid json: %w", err)
	}
	return req, nil
}

// readUpload parses the multipart form into a batch.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (core.Batch, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if isTooLarge(err) {
			return core.Batch{}, fmt.Errorf("file too large: limit is %d bytes", s.cfg.Import.MaxFileSize)
		}
		return core.Batch{}, fmt.Errorf("no file provided: %w", err)
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	mode, err := core.ParseMode(r.FormValue("mode"))
	if err != nil {
		return core.Batch{}, err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return core.Batch{}, fmt.Errorf("no file provided: %w", err)
	}
	defer file.Close()

	source, err := uploadFormat(r.FormValue("format"), header.Filename)
	if err != nil {
		return core.Batch{}, err
	}

	var (
		rows    []core.RawRow
		rowErrs []core.RowError
		unknown []string
	)
	switch source {
	case core.SourceXLSX:
		rows, rowErrs, unknown, err = core.ReadXLSX(file)
	default:
		rows, rowErrs, unknown, err = core.ReadCSV(file)
	}
	if err != nil {
		return core.Batch{}, err
	}

	logger := logging.FromContext(r.Context())
	if len(unknown) > 0 {
		logger.Info("ignoring unknown columns", "file", header.Filename, "columns", unknown)
	}
	logger.Debug("upload parsed",
		"file", header.Filename,
		"size", header.Size,
		"rows", len(rows),
		"row_errors", len(rowErrs),
	)

	return core.Batch{
		Mode:      mode,
		Source:    source,
		FileName:  header.Filename,
		Rows:      rows,
		RowErrors: rowErrs,
	}, nil
}

// uploadFormat picks the reader from the explicit format field, falling back
// to the file extension. Unknown extensions are read as CSV.
func uploadFormat(format, filename string) (core.Source, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".xlsx":
			return core.SourceXLSX, nil
		case ".xls":
			return "", fmt.Errorf("unsupported format %q: save the workbook as .xlsx", ".xls")
		default:
			return core.SourceCSV, nil
		}
	}
	switch format {
	case "csv":
		return core.SourceCSV, nil
	case "xlsx":
		return core.SourceXLSX, nil
	default:
		return "", fmt.Errorf("unsupported format %q", format)
	}
}

func (s *Server) respondUploadError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case isTooLarge(err):
		s.respondError(w, r, err, http.StatusRequestEntityTooLarge)
	case errors.Is(err, core.ErrEmptyBatch):
		s.respondImportError(w, r, err, nil)
	default:
		s.respondError(w, r, err, http.StatusBadRequest)
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "request body too large") || strings.HasPrefix(msg, "file too large")
}
