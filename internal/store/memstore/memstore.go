// Package memstore is an in-memory implementation of the core store
// interfaces. It backs the unit tests and the server's -memory flag.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/backoffice/internal/core"
)

// Store holds products, categories and audit entries in memory.
type Store struct {
	mu         sync.Mutex
	products   []core.CatalogEntry
	categories []core.Category
	audit      []core.AuditEntry
	archive    []core.AuditEntry
	admins     map[string]bool

	// FailWrites, when set, is called before every insert or update and its
	// error is returned instead of writing.
	FailWrites func(fields core.ProductFields) error
}

// New returns a store seeded with categories.
func New(categories ...core.Category) *Store {
	s := &Store{admins: make(map[string]bool)}
	for _, c := range categories {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if c.Slug == "" {
			c.Slug = core.DeriveSlug(c.Name)
		}
		s.categories = append(s.categories, c)
	}
	return s
}

// FindBySlugOrSKU implements core.ProductStore.
func (s *Store) FindBySlugOrSKU(_ context.Context, slug, sku string) (*core.CatalogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(slug, sku); i >= 0 {
		e := s.products[i]
		return &e, nil
	}
	return nil, core.ErrNotFound
}

// indexOf prefers a slug match over a SKU match, like the SQL store.
func (s *Store) indexOf(slug, sku string) int {
	for i, p := range s.products {
		if p.Slug == slug {
			return i
		}
	}
	if sku == "" {
		return -1
	}
	for i, p := range s.products {
		if p.SKU == sku {
			return i
		}
	}
	return -1
}

// conflict mirrors the unique indexes on slug and sku.
func (s *Store) conflict(fields core.ProductFields, exceptID string) error {
	for _, p := range s.products {
		if p.ID == exceptID {
			continue
		}
		if p.Slug == fields.Slug {
			return fmt.Errorf("%w: products_slug_key (slug)=(%s)", core.ErrDuplicate, fields.Slug)
		}
		if fields.SKU != "" && p.SKU == fields.SKU {
			return fmt.Errorf("%w: products_sku_key (sku)=(%s)", core.ErrDuplicate, fields.SKU)
		}
	}
	return nil
}

// InsertProduct implements core.ProductStore.
func (s *Store) InsertProduct(_ context.Context, fields core.ProductFields) (*core.CatalogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		if err := s.FailWrites(fields); err != nil {
			return nil, err
		}
	}
	if err := s.conflict(fields, ""); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	e := core.CatalogEntry{ID: uuid.NewString(), ProductFields: fields, CreatedAt: now, UpdatedAt: now}
	s.products = append(s.products, e)
	return &e, nil
}

// UpdateProduct implements core.ProductStore.
func (s *Store) UpdateProduct(_ context.Context, id string, fields core.ProductFields) (*core.CatalogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		if err := s.FailWrites(fields); err != nil {
			return nil, err
		}
	}
	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		if err := s.conflict(fields, id); err != nil {
			return nil, err
		}
		s.products[i].ProductFields = fields
		s.products[i].UpdatedAt = time.Now().UTC()
		e := s.products[i]
		return &e, nil
	}
	return nil, core.ErrNotFound
}

// ListProducts implements core.ProductStore. Products are ordered by name.
func (s *Store) ListProducts(_ context.Context, filter core.ProductFilter) ([]core.CatalogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	search := strings.ToLower(filter.Search)
	var out []core.CatalogEntry
	for _, p := range s.products {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(p.Slug, search) && !strings.Contains(strings.ToLower(p.SKU), search) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	if filter.Offset >= len(out) {
		return []core.CatalogEntry{}, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Len returns the number of stored products.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

// ListCategories implements core.CategoryStore.
func (s *Store) ListCategories(context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.Category(nil), s.categories...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// AppendAudit implements core.AuditStore.
func (s *Store) AppendAudit(_ context.Context, entry core.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	s.audit = append(s.audit, entry)
	return nil
}

// ListAudit implements core.AuditStore. Entries are returned newest first.
func (s *Store) ListAudit(_ context.Context, filter core.AuditLogFilter) ([]core.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.AuditEntry
	for i := len(s.audit) - 1; i >= 0; i-- {
		e := s.audit[i]
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if filter.Resource != "" && e.Resource != filter.Resource {
			continue
		}
		if !filter.StartTime.IsZero() && e.CreatedAt.Before(filter.StartTime) {
			continue
		}
		if !filter.EndTime.IsZero() && e.CreatedAt.After(filter.EndTime) {
			continue
		}
		out = append(out, e)
	}

	if filter.Offset >= len(out) {
		return []core.AuditEntry{}, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

// ArchiveAuditBefore implements core.AuditStore.
func (s *Store) ArchiveAuditBefore(_ context.Context, cutoff time.Time, batchSize int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var moved int64
	kept := s.audit[:0]
	for _, e := range s.audit {
		if e.CreatedAt.Before(cutoff) && (batchSize <= 0 || moved < int64(batchSize)) {
			s.archive = append(s.archive, e)
			moved++
			continue
		}
		kept = append(kept, e)
	}
	s.audit = kept
	return moved, nil
}

// PurgeArchiveBefore implements core.AuditStore.
func (s *Store) PurgeArchiveBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var purged int64
	kept := s.archive[:0]
	for _, e := range s.archive {
		if e.CreatedAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, e)
	}
	s.archive = kept
	return purged, nil
}

// ArchiveLen returns the number of archived audit entries.
func (s *Store) ArchiveLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.archive)
}

// GrantAdmin marks userID as an active administrator.
func (s *Store) GrantAdmin(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins[userID] = true
}

// IsAdmin reports whether userID was granted admin access.
func (s *Store) IsAdmin(_ context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.admins[userID], nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }
