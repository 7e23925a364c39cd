package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/JonMunkholm/backoffice/internal/logging"
)

// Preview performs a read-only analysis of a batch.
// It validates all rows and reports the action Import would take for each
// one, without writing products or audit entries.
//
// Rows repeating a slug or SKU seen earlier in the same batch are treated as
// existing, since by the time Import reaches them the earlier row has been
// written.
func (s *Service) Preview(ctx context.Context, b Batch) (*ImportSummary, error) {
	start := time.Now()
	summary := newSummary(b)
	summary.DryRun = true

	valid, err := s.prepare(ctx, b, summary)
	if err != nil {
		summary.finish(start)
		if errors.Is(err, ErrEmptyBatch) || errors.Is(err, ErrNoValidRows) {
			return summary, err
		}
		return nil, err
	}

	seenSlugs := make(map[string]int, len(valid))
	seenSKUs := make(map[string]int, len(valid))

	for _, v := range valid {
		rec := v.record
		res := RowResult{Row: rec.Row, Name: rec.Name, Slug: rec.Slug, Warning: v.warning}

		existing, err := s.lookup(ctx, rec)
		if err != nil {
			res.Outcome = OutcomeFailed
			res.Error = err.Error()
			summary.record(res)
			continue
		}

		exists := existing != nil
		if !exists {
			if _, ok := seenSlugs[rec.Slug]; ok {
				exists = true
			} else if sku := strings.TrimSpace(rec.SKU); sku != "" {
				_, exists = seenSKUs[sku]
			}
		}
		action := b.Mode.Decide(exists)
		// Only a written row can be matched by later rows.
		if action.Kind == ActionInsert || action.Kind == ActionUpdate {
			seenSlugs[rec.Slug] = rec.Row
			if sku := strings.TrimSpace(rec.SKU); sku != "" {
				seenSKUs[sku] = rec.Row
			}
		}

		switch action.Kind {
		case ActionInsert:
			res.Outcome, res.Action = OutcomeCreated, "insert"
		case ActionUpdate:
			res.Outcome, res.Action = OutcomeUpdated, "update"
		default:
			res.Outcome, res.Action, res.Reason = OutcomeSkipped, "skip", action.Reason
		}
		summary.record(res)
	}
	summary.finish(start)

	logging.FromContext(ctx).Debug("import preview",
		"batch_id", summary.BatchID,
		"mode", b.Mode.String(),
		"created", summary.Created,
		"updated", summary.Updated,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return summary, nil
}
