package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/JonMunkholm/backoffice/internal/core"
)

func TestFindBySlugOrSKU_PrefersSlug(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, f := range []core.ProductFields{
		{Name: "Alpha", Slug: "alpha", SKU: "A-1"},
		{Name: "Beta", Slug: "beta", SKU: "B-1"},
	} {
		if _, err := s.InsertProduct(ctx, f); err != nil {
			t.Fatalf("insert %s: %v", f.Slug, err)
		}
	}

	tests := []struct {
		name     string
		slug     string
		sku      string
		wantSlug string
		wantErr  error
	}{
		{"slug wins over sku of another product", "beta", "A-1", "beta", nil},
		{"sku fallback", "gamma", "A-1", "alpha", nil},
		{"empty sku never matches", "gamma", "", "", core.ErrNotFound},
		{"no match", "gamma", "Z-9", "", core.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.FindBySlugOrSKU(ctx, tt.slug, tt.sku)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindBySlugOrSKU: %v", err)
			}
			if got.Slug != tt.wantSlug {
				t.Errorf("slug = %q, want %q", got.Slug, tt.wantSlug)
			}
		})
	}
}
