package core

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// ============================================================================
// Conversion Benchmarks
// ============================================================================

// BenchmarkParsePrice covers the formats seen in supplier spreadsheets.
func BenchmarkParsePrice(b *testing.B) {
	testCases := []string{
		"24.90",
		"1500",
		"  9.5 ",
		"0",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			_, _ = ParsePrice(tc)
		}
	}
}

// BenchmarkParseList benchmarks both list encodings.
func BenchmarkParseList(b *testing.B) {
	testCases := []string{
		`["agua","glicerina","aloe vera"]`,
		"agua; glicerina; aloe vera",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ParseList(tc)
		}
	}
}

// BenchmarkDeriveSlug benchmarks slug derivation with accented names.
func BenchmarkDeriveSlug(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		DeriveSlug("Crema Hidratante Rosa Mosqueta Orgánica 50ml")
	}
}

// ============================================================================
// Parsing Benchmarks
// ============================================================================

func benchCSV(rows int) string {
	var sb strings.Builder
	sb.WriteString("nombre,precio,categoria,sku,ingredientes\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&sb, "Producto %d,%d.90,Facial,SKU-%d,agua;glicerina\n", i, i%100, i)
	}
	return sb.String()
}

// BenchmarkReadCSV_1000 benchmarks parsing a typical batch.
func BenchmarkReadCSV_1000(b *testing.B) {
	input := benchCSV(1000)
	b.SetBytes(int64(len(input)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, _, err := ReadCSV(strings.NewReader(input)); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkBuildRecord benchmarks validation of one row.
func BenchmarkBuildRecord(b *testing.B) {
	resolver := NewCategoryResolver([]Category{{ID: "cat-face", Name: "Facial", Slug: "facial"}})
	raw := RawRow{Row: 2, Fields: map[string]any{
		FieldName:     "Serum Vitamina C",
		FieldPrice:    "24.90",
		FieldCategory: "facial",
		FieldSKU:      "SER-VC-30",
	}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := BuildRecord(raw, resolver); err != nil {
			b.Fatal(err)
		}
	}
}

// ============================================================================
// Preview Benchmarks
// ============================================================================

// nopStore answers every lookup with "not found" so Preview runs without I/O.
type nopStore struct{}

func (nopStore) FindBySlugOrSKU(context.Context, string, string) (*CatalogEntry, error) {
	return nil, ErrNotFound
}
func (nopStore) InsertProduct(context.Context, ProductFields) (*CatalogEntry, error) {
	return &CatalogEntry{}, nil
}
func (nopStore) UpdateProduct(context.Context, string, ProductFields) (*CatalogEntry, error) {
	return &CatalogEntry{}, nil
}
func (nopStore) ListProducts(context.Context, ProductFilter) ([]CatalogEntry, error) {
	return nil, nil
}
func (nopStore) ListCategories(context.Context) ([]Category, error) {
	return []Category{{ID: "cat-face", Name: "Facial", Slug: "facial"}}, nil
}

// BenchmarkPreview_1000 benchmarks the full dry run of a parsed batch.
func BenchmarkPreview_1000(b *testing.B) {
	rows, rowErrs, _, err := ReadCSV(strings.NewReader(benchCSV(1000)))
	if err != nil {
		b.Fatal(err)
	}
	svc := NewService(nopStore{}, nopStore{}, nil, WithMaxRows(0))
	batch := Batch{Mode: ModeUpsert, Source: SourceCSV, Rows: rows, RowErrors: rowErrs}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.Preview(ctx, batch); err != nil {
			b.Fatal(err)
		}
	}
}
