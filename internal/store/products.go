package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/backoffice/internal/core"
)

const productColumns = `id::text, name, slug, sku, description, short_description, brand,
	image_url, price::text, compare_at_price::text, inventory_quantity, status,
	category_id::text, featured, gallery, skin_type, benefits, certifications,
	ingredients, created_at, updated_at`

// FindBySlugOrSKU implements core.ProductStore.
func (s *Store) FindBySlugOrSKU(ctx context.Context, slug, sku string) (*core.CatalogEntry, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE slug = $1 OR ($2 <> '' AND sku = $2)
		ORDER BY (slug = $1) DESC
		LIMIT 1`
	e, err := scanProduct(s.db.QueryRow(ctx, query, slug, sku))
	if err != nil {
		return nil, mapError(err)
	}
	return e, nil
}

// InsertProduct implements core.ProductStore.
func (s *Store) InsertProduct(ctx context.Context, f core.ProductFields) (*core.CatalogEntry, error) {
	query := `INSERT INTO products (name, slug, sku, description, short_description, brand,
		image_url, price, compare_at_price, inventory_quantity, status, category_id,
		featured, gallery, skin_type, benefits, certifications, ingredients)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9::numeric, $10, $11, $12::uuid,
		$13, $14, $15, $16, $17, $18)
		RETURNING ` + productColumns
	e, err := scanProduct(s.db.QueryRow(ctx, query, productArgs(f)...))
	if err != nil {
		return nil, mapError(err)
	}
	return e, nil
}

// UpdateProduct implements core.ProductStore. Every writable column is
// overwritten; updated_at is refreshed.
func (s *Store) UpdateProduct(ctx context.Context, id string, f core.ProductFields) (*core.CatalogEntry, error) {
	query := `UPDATE products SET name = $1, slug = $2, sku = $3, description = $4,
		short_description = $5, brand = $6, image_url = $7, price = $8::numeric,
		compare_at_price = $9::numeric, inventory_quantity = $10, status = $11,
		category_id = $12::uuid, featured = $13, gallery = $14, skin_type = $15,
		benefits = $16, certifications = $17, ingredients = $18, updated_at = now()
		WHERE id = $19::uuid
		RETURNING ` + productColumns
	args := append(productArgs(f), id)
	e, err := scanProduct(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError(err)
	}
	return e, nil
}

// ListProducts implements core.ProductStore. Products are ordered by name.
func (s *Store) ListProducts(ctx context.Context, filter core.ProductFilter) ([]core.CatalogEntry, error) {
	wb := newWhereBuilder()
	wb.Add("status", string(filter.Status))
	wb.AddSearch(filter.Search, "name", "slug", "sku")
	where, args := wb.Build()

	query := `SELECT ` + productColumns + ` FROM products` + where + ` ORDER BY name, id`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", wb.NextArgIndex())
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, filter.Offset)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]core.CatalogEntry, 0)
	for rows.Next() {
		e, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// CountProducts returns the number of products.
func (s *Store) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}

func productArgs(f core.ProductFields) []any {
	var compareAt *string
	if f.CompareAtPrice.Valid {
		v := f.CompareAtPrice.Decimal.StringFixed(2)
		compareAt = &v
	}
	return []any{
		f.Name,
		f.Slug,
		nullString(f.SKU),
		f.Description,
		f.ShortDescription,
		f.Brand,
		f.ImageURL,
		f.Price.StringFixed(2),
		compareAt,
		f.InventoryQuantity,
		string(f.Status),
		f.CategoryID,
		f.Featured,
		nonNil(f.Gallery),
		nonNil(f.SkinType),
		nonNil(f.Benefits),
		nonNil(f.Certifications),
		nonNil(f.Ingredients),
	}
}

func scanProduct(row pgx.Row) (*core.CatalogEntry, error) {
	var (
		e         core.CatalogEntry
		sku       *string
		price     string
		compareAt *string
		status    string
	)
	err := row.Scan(
		&e.ID, &e.Name, &e.Slug, &sku, &e.Description, &e.ShortDescription, &e.Brand,
		&e.ImageURL, &price, &compareAt, &e.InventoryQuantity, &status,
		&e.CategoryID, &e.Featured, &e.Gallery, &e.SkinType, &e.Benefits, &e.Certifications,
		&e.Ingredients, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if sku != nil {
		e.SKU = *sku
	}
	e.Status = core.Status(status)
	if e.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("scan price %q: %w", price, err)
	}
	if compareAt != nil {
		d, err := decimal.NewFromString(*compareAt)
		if err != nil {
			return nil, fmt.Errorf("scan compare_at_price %q: %w", *compareAt, err)
		}
		e.CompareAtPrice = decimal.NewNullDecimal(d)
	}
	return &e, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
