package core

import (
	"context"
	"fmt"
	"strings"
)

// DefaultMaxRows is the row limit per batch when none is configured.
const DefaultMaxRows = 5000

// Service provides the catalog import, export and audit operations.
// Collaborators are injected so the routine runs against any store,
// including the in-memory one used in tests.
type Service struct {
	products   ProductStore
	categories CategoryStore
	audit      AuditStore
	maxRows    int
}

// Option configures a Service.
type Option func(*Service)

// WithMaxRows limits the number of rows accepted in one batch. n <= 0 disables the limit.
func WithMaxRows(n int) Option {
	return func(s *Service) { s.maxRows = n }
}

// NewService creates a new Service instance. audit may be nil.
func NewService(products ProductStore, categories CategoryStore, audit AuditStore, opts ...Option) *Service {
	s := &Service{
		products:   products,
		categories: categories,
		audit:      audit,
		maxRows:    DefaultMaxRows,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Categories returns every known category ordered by name.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	cats, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// Products lists catalog entries matching filter.
func (s *Service) Products(ctx context.Context, filter ProductFilter) ([]CatalogEntry, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	entries, err := s.products.ListProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return entries, nil
}

// loadResolver fetches categories once for a batch.
func (s *Service) loadResolver(ctx context.Context) (*CategoryResolver, error) {
	cats, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return NewCategoryResolver(cats), nil
}
