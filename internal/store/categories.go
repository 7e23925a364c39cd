package store

import (
	"context"

	"github.com/JonMunkholm/backoffice/internal/core"
)

// ListCategories implements core.CategoryStore.
func (s *Store) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := s.db.Query(ctx, `SELECT id::text, name, slug FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cats := make([]core.Category, 0)
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// CreateCategory inserts a category, deriving the slug from the name when empty.
func (s *Store) CreateCategory(ctx context.Context, name, slug string) (core.Category, error) {
	if slug == "" {
		slug = core.DeriveSlug(name)
	}
	var c core.Category
	err := s.db.QueryRow(ctx,
		`INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id::text, name, slug`,
		name, slug,
	).Scan(&c.ID, &c.Name, &c.Slug)
	return c, mapError(err)
}
