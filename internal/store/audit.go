package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/backoffice/internal/core"
)

const auditColumns = `id::text, action, severity, resource, user_id, user_email,
	ip_address, user_agent, batch_id, rows_affected, details, reason, created_at`

// AppendAudit implements core.AuditStore.
func (s *Store) AppendAudit(ctx context.Context, e core.AuditEntry) error {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO audit_log (action, severity, resource, user_id, user_email,
			ip_address, user_agent, batch_id, rows_affected, details, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		string(e.Action), string(e.Severity), e.Resource, e.UserID, e.UserEmail,
		e.IPAddress, e.UserAgent, e.BatchID, e.RowsAffected, e.Details, e.Reason, createdAt,
	)
	return err
}

// ListAudit implements core.AuditStore. Entries are returned newest first.
func (s *Store) ListAudit(ctx context.Context, filter core.AuditLogFilter) ([]core.AuditEntry, error) {
	wb := newWhereBuilder()
	wb.Add("action", string(filter.Action))
	wb.Add("resource", filter.Resource)
	wb.AddTimestampRange("created_at", filter.StartTime, filter.EndTime)
	where, args := wb.Build()

	query := `SELECT ` + auditColumns + ` FROM audit_log` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", wb.NextArgIndex(), wb.NextArgIndex()+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]core.AuditEntry, 0)
	for rows.Next() {
		e, err := scanAuditRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ArchiveAuditBefore implements core.AuditStore. Entries older than cutoff
// are moved to audit_log_archive batchSize rows at a time so no single
// statement holds locks on the whole table.
func (s *Store) ArchiveAuditBefore(ctx context.Context, cutoff time.Time, batchSize int) (int64, error) {
	const query = `WITH moved AS (
			DELETE FROM audit_log
			WHERE id IN (
				SELECT id FROM audit_log
				WHERE created_at < $1
				ORDER BY created_at
				LIMIT $2
			)
			RETURNING *
		)
		INSERT INTO audit_log_archive SELECT * FROM moved`

	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		tag, err := s.db.Exec(ctx, query, cutoff, batchSize)
		if err != nil {
			return total, fmt.Errorf("archive audit log: %w", err)
		}
		total += tag.RowsAffected()
		if tag.RowsAffected() < int64(batchSize) {
			return total, nil
		}
	}
}

// PurgeArchiveBefore implements core.AuditStore.
func (s *Store) PurgeArchiveBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM audit_log_archive WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge audit archive: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanAuditRow(row pgx.Row) (core.AuditEntry, error) {
	var (
		e        core.AuditEntry
		action   string
		severity string
	)
	err := row.Scan(
		&e.ID, &action, &severity, &e.Resource, &e.UserID, &e.UserEmail,
		&e.IPAddress, &e.UserAgent, &e.BatchID, &e.RowsAffected, &e.Details, &e.Reason, &e.CreatedAt,
	)
	e.Action = core.AuditAction(action)
	e.Severity = core.AuditSeverity(severity)
	return e, err
}
