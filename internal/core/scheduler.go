package core

// scheduler.go runs audit log maintenance on a cron schedule:
//  1. Move old entries from audit_log to audit_log_archive (hot -> cold)
//  2. Purge very old entries from the archive based on retention policy
//
// Failures are logged and the next scheduled run tries again.

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// ArchiveConfig holds configuration for the archive scheduler.
// Zero values are replaced with defaults.
type ArchiveConfig struct {
	HotRetentionDays      int    // Days to keep in audit_log (default: 90)
	ArchiveRetentionYears int    // Years to keep in archive (default: 7)
	BatchSize             int    // Rows moved per statement (default: 5000)
	Schedule              string // Cron spec (default: "@daily")
	RunOnStart            bool
}

func (c ArchiveConfig) withDefaults() ArchiveConfig {
	if c.HotRetentionDays <= 0 {
		c.HotRetentionDays = 90
	}
	if c.ArchiveRetentionYears <= 0 {
		c.ArchiveRetentionYears = 7
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 5000
	}
	if c.Schedule == "" {
		c.Schedule = "@daily"
	}
	return c
}

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ValidateSchedule reports whether spec is a valid cron expression.
func ValidateSchedule(spec string) error {
	if _, err := cronParser.Parse(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// StartArchiveScheduler registers the archive job and starts the cron runner.
// The runner stops when ctx is cancelled; the returned cron can also be
// stopped directly.
func (s *Service) StartArchiveScheduler(ctx context.Context, cfg ArchiveConfig) (*cron.Cron, error) {
	cfg = cfg.withDefaults()

	c := cron.New(cron.WithParser(cronParser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(cfg.Schedule, func() { s.RunArchiveJob(ctx, cfg) }); err != nil {
		return nil, fmt.Errorf("schedule archive job: %w", err)
	}

	slog.Info("archive scheduler started",
		"schedule", cfg.Schedule,
		"hot_retention_days", cfg.HotRetentionDays,
		"archive_retention_years", cfg.ArchiveRetentionYears,
		"batch_size", cfg.BatchSize,
	)

	if cfg.RunOnStart {
		go s.RunArchiveJob(ctx, cfg)
	}
	c.Start()

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		slog.Info("archive scheduler stopped")
	}()

	return c, nil
}

// ArchiveResult reports one archive run.
type ArchiveResult struct {
	Archived int64
	Purged   int64
}

// RunArchiveJob performs one archive + purge cycle.
func (s *Service) RunArchiveJob(ctx context.Context, cfg ArchiveConfig) ArchiveResult {
	cfg = cfg.withDefaults()
	var res ArchiveResult
	if s.audit == nil {
		return res
	}
	start := time.Now()
	now := start.UTC()

	archiveCutoff := now.AddDate(0, 0, -cfg.HotRetentionDays)
	archived, err := s.audit.ArchiveAuditBefore(ctx, archiveCutoff, cfg.BatchSize)
	if err != nil {
		slog.Error("archive failed", "error", err)
	} else {
		res.Archived = archived
		slog.Info("archived audit log entries",
			"entries_archived", archived,
			"cutoff", archiveCutoff.Format(time.RFC3339),
		)
	}

	purgeCutoff := now.AddDate(-cfg.ArchiveRetentionYears, 0, 0)
	purged, err := s.audit.PurgeArchiveBefore(ctx, purgeCutoff)
	if err != nil {
		slog.Error("purge failed", "error", err)
	} else {
		res.Purged = purged
		slog.Info("purged old archive entries",
			"entries_purged", purged,
			"cutoff", purgeCutoff.Format(time.RFC3339),
		)
	}

	slog.Info("archive job completed", "duration_ms", time.Since(start).Milliseconds())
	return res
}
