// Package core provides the business logic for catalog import operations.
// This package has no transport dependencies and can be used by any frontend.
package core

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned by stores when no row matches a lookup.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned by stores when a write hits a unique constraint.
	ErrDuplicate = errors.New("duplicate key")

	// ErrEmptyBatch rejects a batch in which no rows could be parsed.
	ErrEmptyBatch = errors.New("empty batch: no rows parsed")

	// ErrNoValidRows rejects a batch in which every row failed validation.
	ErrNoValidRows = errors.New("no valid rows in batch")

	// ErrBatchTooLarge rejects a batch above the configured row limit.
	ErrBatchTooLarge = errors.New("batch too large")
)

// Status is the publication state of a catalog product.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// ParseStatus maps an input value (English or Spanish) to a Status.
// Returns false if the value is not recognized.
func ParseStatus(s string) (Status, bool) {
	switch foldKey(s) {
	case "draft", "borrador":
		return StatusDraft, true
	case "active", "activo", "activa", "published", "publicado":
		return StatusActive, true
	case "archived", "archivado", "archivada":
		return StatusArchived, true
	default:
		return "", false
	}
}

// ProductFields holds the writable attributes of a catalog product.
type ProductFields struct {
	Name              string
	Slug              string
	SKU               string
	Description       string
	ShortDescription  string
	Brand             string
	ImageURL          string
	Price             decimal.Decimal
	CompareAtPrice    decimal.NullDecimal
	InventoryQuantity int
	Status            Status
	CategoryID        string
	Featured          bool
	Gallery           []string
	SkinType          []string
	Benefits          []string
	Certifications    []string
	Ingredients       []string
}

// ImportRecord is one parsed input row. It lives for a single import call.
type ImportRecord struct {
	Row int // 1-based position in the source
	ProductFields
}

// CatalogEntry is a persisted product row.
type CatalogEntry struct {
	ID string
	ProductFields
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Category is a product category used to resolve category references.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	Search string
	Status Status
	Limit  int
	Offset int
}

// ProductStore is the persistent catalog the import routine reads and writes.
type ProductStore interface {
	// FindBySlugOrSKU returns the product whose slug equals slug or whose SKU
	// equals sku (when sku is non-empty). Returns ErrNotFound if none match.
	FindBySlugOrSKU(ctx context.Context, slug, sku string) (*CatalogEntry, error)
	InsertProduct(ctx context.Context, fields ProductFields) (*CatalogEntry, error)
	UpdateProduct(ctx context.Context, id string, fields ProductFields) (*CatalogEntry, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]CatalogEntry, error)
}

// CategoryStore lists the categories rows can reference.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]Category, error)
}

// AuditStore appends and queries audit log entries.
type AuditStore interface {
	AppendAudit(ctx context.Context, entry AuditEntry) error
	ListAudit(ctx context.Context, filter AuditLogFilter) ([]AuditEntry, error)
	ArchiveAuditBefore(ctx context.Context, cutoff time.Time, batchSize int) (int64, error)
	PurgeArchiveBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
