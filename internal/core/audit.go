package core

import (
	"context"
	"time"

	"github.com/JonMunkholm/backoffice/internal/logging"
)

// AuditAction represents the type of action being audited.
type AuditAction string

const (
	ActionCatalogImport AuditAction = "catalog_import"
	ActionCatalogExport AuditAction = "catalog_export"
)

// AuditSeverity represents the severity level of an audit entry.
type AuditSeverity string

const (
	SeverityLow      AuditSeverity = "low"
	SeverityMedium   AuditSeverity = "medium"
	SeverityHigh     AuditSeverity = "high"
	SeverityCritical AuditSeverity = "critical"
)

// AuditEntry represents a single audit log entry.
type AuditEntry struct {
	ID           string         `json:"id"`
	Action       AuditAction    `json:"action"`
	Severity     AuditSeverity  `json:"severity"`
	Resource     string         `json:"resource"`
	UserID       string         `json:"userId,omitempty"`
	UserEmail    string         `json:"userEmail,omitempty"`
	IPAddress    string         `json:"ipAddress,omitempty"`
	UserAgent    string         `json:"userAgent,omitempty"`
	BatchID      string         `json:"batchId,omitempty"`
	RowsAffected int            `json:"rowsAffected,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	Reason       string         `json:"reason,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// AuditLogParams contains parameters for creating an audit log entry.
// Request metadata (IP, user agent, admin identity) is read from the context.
type AuditLogParams struct {
	Action       AuditAction
	Resource     string
	BatchID      string
	RowsAffected int
	Details      map[string]any
	Reason       string
}

// AuditLogFilter contains filtering options for querying audit logs.
type AuditLogFilter struct {
	Action    AuditAction
	Resource  string
	StartTime time.Time
	EndTime   time.Time
	Limit     int
	Offset    int
}

// DefaultAuditLimit is the page size used when a filter sets none.
const DefaultAuditLimit = 50

// MaxAuditLimit caps the page size of audit queries.
const MaxAuditLimit = 500

// determineSeverity returns the appropriate severity for an action.
func determineSeverity(action AuditAction) AuditSeverity {
	switch action {
	case ActionCatalogImport:
		return SeverityHigh
	case ActionCatalogExport:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// newAuditEntry fills an entry from params and the request context.
func newAuditEntry(ctx context.Context, params AuditLogParams) AuditEntry {
	admin := AdminFromContext(ctx)
	return AuditEntry{
		Action:       params.Action,
		Severity:     determineSeverity(params.Action),
		Resource:     params.Resource,
		UserID:       admin.UserID,
		UserEmail:    admin.Email,
		IPAddress:    GetIPAddressFromContext(ctx),
		UserAgent:    GetUserAgentFromContext(ctx),
		BatchID:      params.BatchID,
		RowsAffected: params.RowsAffected,
		Details:      params.Details,
		Reason:       params.Reason,
		CreatedAt:    time.Now().UTC(),
	}
}

// LogAudit appends an audit entry. Failures are logged and returned, but
// callers on the import path do not fail the request because of them.
func (s *Service) LogAudit(ctx context.Context, params AuditLogParams) error {
	if s.audit == nil {
		return nil
	}
	entry := newAuditEntry(ctx, params)
	if err := s.audit.AppendAudit(ctx, entry); err != nil {
		logging.FromContext(ctx).Error("audit log write failed",
			"action", params.Action,
			"batch_id", params.BatchID,
			"error", err,
		)
		return err
	}
	return nil
}

// AuditLog returns audit entries, newest first.
func (s *Service) AuditLog(ctx context.Context, filter AuditLogFilter) ([]AuditEntry, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultAuditLimit
	}
	if filter.Limit > MaxAuditLimit {
		filter.Limit = MaxAuditLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if s.audit == nil {
		return []AuditEntry{}, nil
	}
	return s.audit.ListAudit(ctx, filter)
}
