package core

// importer.go implements the catalog reconciliation routine.
//
// A batch is processed in three phases:
//  1. Reject batches with no parsed rows or no valid rows before any write.
//  2. For each valid row, in order, look the product up by slug or SKU and
//     let the Mode decide whether to insert, update or skip it.
//  3. Append one audit entry describing the whole batch.
//
// Rows never abort the batch. Validation and store failures are recorded on
// the row and processing continues; there is no rollback of earlier rows.

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/backoffice/internal/logging"
)

// Outcome is the final state of one row.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Batch is one import request.
type Batch struct {
	Mode      Mode
	Source    Source
	FileName  string
	Rows      []RawRow
	RowErrors []RowError // rows the parser already rejected
}

// RowResult reports what happened to one row.
type RowResult struct {
	Row     int     `json:"row"`
	Name    string  `json:"name,omitempty"`
	Slug    string  `json:"slug,omitempty"`
	Outcome Outcome `json:"outcome"`
	Action  string  `json:"action,omitempty"` // preview only: insert, update or skip
	Reason  string  `json:"reason,omitempty"` // why the row was skipped
	Error   string  `json:"error,omitempty"`
	Warning string  `json:"warning,omitempty"`
}

// ImportSummary is returned to the caller after a batch.
type ImportSummary struct {
	BatchID        string      `json:"batch_id"`
	Mode           Mode        `json:"mode"`
	Source         Source      `json:"source"`
	FileName       string      `json:"file_name,omitempty"`
	DryRun         bool        `json:"dry_run,omitempty"`
	TotalProcessed int         `json:"total_processed"`
	Created        int         `json:"created"`
	Updated        int         `json:"updated"`
	Skipped        int         `json:"skipped"`
	Failed         int         `json:"failed"`
	ErrorsCount    int         `json:"errors_count"`
	WarningsCount  int         `json:"warnings_count"`
	Results        []RowResult `json:"results"`
	Errors         []string    `json:"errors"`
	Warnings       []string    `json:"warnings"`
	DurationMs     int64       `json:"duration_ms"`
}

func newSummary(b Batch) *ImportSummary {
	return &ImportSummary{
		BatchID:        uuid.NewString(),
		Mode:           b.Mode,
		Source:         b.Source,
		FileName:       b.FileName,
		TotalProcessed: len(b.Rows) + len(b.RowErrors),
		Results:        []RowResult{},
		Errors:         []string{},
		Warnings:       []string{},
	}
}

func (s *ImportSummary) record(res RowResult) {
	switch res.Outcome {
	case OutcomeCreated:
		s.Created++
	case OutcomeUpdated:
		s.Updated++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
		s.Errors = append(s.Errors, fmt.Sprintf("Row %d: %s", res.Row, res.Error))
	}
	if res.Warning != "" {
		s.Warnings = append(s.Warnings, fmt.Sprintf("Row %d: %s", res.Row, res.Warning))
	}
	s.Results = append(s.Results, res)
}

// finish sorts results by row and fills in the counters derived from them.
func (s *ImportSummary) finish(start time.Time) {
	sort.SliceStable(s.Results, func(i, j int) bool { return s.Results[i].Row < s.Results[j].Row })
	s.ErrorsCount = len(s.Errors)
	s.WarningsCount = len(s.Warnings)
	s.DurationMs = time.Since(start).Milliseconds()
}

// validRow is a row that passed BuildRecord.
type validRow struct {
	record  ImportRecord
	warning string
}

// prepare runs the batch-level checks and builds every record.
// On batch rejection the summary carries the row errors and err is non-nil.
func (s *Service) prepare(ctx context.Context, b Batch, summary *ImportSummary) ([]validRow, error) {
	if _, ok := modeNames[b.Mode]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(b.Mode))
	}

	for _, re := range b.RowErrors {
		summary.record(RowResult{Row: re.Row, Outcome: OutcomeFailed, Error: re.Message})
	}
	if len(b.Rows) == 0 {
		return nil, ErrEmptyBatch
	}
	if s.maxRows > 0 && len(b.Rows) > s.maxRows {
		return nil, fmt.Errorf("%w: %d rows exceeds limit of %d", ErrBatchTooLarge, len(b.Rows), s.maxRows)
	}

	resolver, err := s.loadResolver(ctx)
	if err != nil {
		return nil, err
	}

	valid := make([]validRow, 0, len(b.Rows))
	for _, raw := range b.Rows {
		rec, warnings, err := BuildRecord(raw, resolver)
		warning := joinWarnings(warnings)
		if err != nil {
			summary.record(RowResult{
				Row:     raw.Row,
				Name:    rec.Name,
				Slug:    rec.Slug,
				Outcome: OutcomeFailed,
				Error:   err.Error(),
				Warning: warning,
			})
			continue
		}
		valid = append(valid, validRow{record: rec, warning: warning})
	}

	if len(valid) == 0 {
		return nil, ErrNoValidRows
	}
	return valid, nil
}

// Import reconciles a batch against the catalog.
//
// ErrEmptyBatch, ErrNoValidRows, ErrBatchTooLarge and ErrUnknownMode reject
// the batch before any write. For the first two the returned summary is
// non-nil and lists the row errors.
func (s *Service) Import(ctx context.Context, b Batch) (*ImportSummary, error) {
	start := time.Now()
	summary := newSummary(b)
	logger := logging.WithFields(ctx,
		"batch_id", summary.BatchID,
		"mode", b.Mode.String(),
		"source", b.Source,
	)

	valid, err := s.prepare(ctx, b, summary)
	if err != nil {
		summary.finish(start)
		logger.Warn("import batch rejected", "error", err, "rows", summary.TotalProcessed)
		if errors.Is(err, ErrEmptyBatch) || errors.Is(err, ErrNoValidRows) {
			return summary, err
		}
		return nil, err
	}

	logger.Info("import started", "rows", len(b.Rows), "valid", len(valid))

	for _, v := range valid {
		summary.record(s.apply(ctx, b.Mode, v))
	}
	summary.finish(start)

	logger.Info("import completed",
		"created", summary.Created,
		"updated", summary.Updated,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"duration_ms", summary.DurationMs,
	)

	_ = s.LogAudit(ctx, AuditLogParams{
		Action:       ActionCatalogImport,
		Resource:     "products",
		BatchID:      summary.BatchID,
		RowsAffected: summary.Created + summary.Updated,
		Details: map[string]any{
			"mode":            b.Mode.String(),
			"source":          string(b.Source),
			"file_name":       b.FileName,
			"total_processed": summary.TotalProcessed,
			"created":         summary.Created,
			"updated":         summary.Updated,
			"skipped":         summary.Skipped,
			"failed":          summary.Failed,
		},
		Reason: fmt.Sprintf("Imported %d products: %d created, %d updated, %d skipped, %d failed",
			summary.TotalProcessed, summary.Created, summary.Updated, summary.Skipped, summary.Failed),
	})

	return summary, nil
}

// apply performs the lookup and the write for one row.
func (s *Service) apply(ctx context.Context, mode Mode, v validRow) RowResult {
	rec := v.record
	res := RowResult{Row: rec.Row, Name: rec.Name, Slug: rec.Slug, Warning: v.warning}

	existing, err := s.lookup(ctx, rec)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Error = err.Error()
		return res
	}

	action := mode.Decide(existing != nil)
	switch action.Kind {
	case ActionInsert:
		if _, err := s.products.InsertProduct(ctx, rec.ProductFields); err != nil {
			res.Outcome = OutcomeFailed
			res.Error = err.Error()
			return res
		}
		res.Outcome = OutcomeCreated
	case ActionUpdate:
		if _, err := s.products.UpdateProduct(ctx, existing.ID, rec.ProductFields); err != nil {
			res.Outcome = OutcomeFailed
			res.Error = err.Error()
			return res
		}
		res.Outcome = OutcomeUpdated
	default:
		res.Outcome = OutcomeSkipped
		res.Reason = action.Reason
	}
	return res
}

func joinWarnings(warnings []string) string {
	return strings.Join(warnings, "; ")
}

// lookup finds the catalog entry a record matches by slug or SKU.
// A nil entry with a nil error means no match.
func (s *Service) lookup(ctx context.Context, rec ImportRecord) (*CatalogEntry, error) {
	existing, err := s.products.FindBySlugOrSKU(ctx, rec.Slug, rec.SKU)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return existing, nil
}
