package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/backoffice/internal/core"
)

func TestWhereBuilder(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	tests := []struct {
		name      string
		build     func(*whereBuilder)
		wantWhere string
		wantArgs  int
		wantNext  int
	}{
		{
			name:      "empty",
			build:     func(*whereBuilder) {},
			wantWhere: "",
			wantArgs:  0,
			wantNext:  1,
		},
		{
			name: "empty values ignored",
			build: func(w *whereBuilder) {
				w.Add("action", "")
				w.AddSearch("  ", "name")
				w.AddTimestampRange("created_at", time.Time{}, time.Time{})
			},
			wantWhere: "",
			wantArgs:  0,
			wantNext:  1,
		},
		{
			name: "equality and range",
			build: func(w *whereBuilder) {
				w.Add("action", "catalog_import")
				w.AddTimestampRange("created_at", start, end)
			},
			wantWhere: " WHERE action = $1 AND created_at >= $2 AND created_at <= $3",
			wantArgs:  3,
			wantNext:  4,
		},
		{
			name: "search shares one placeholder",
			build: func(w *whereBuilder) {
				w.Add("status", "active")
				w.AddSearch("serum", "name", "sku")
			},
			wantWhere: " WHERE status = $1 AND (COALESCE(name, '') ILIKE $2 OR COALESCE(sku, '') ILIKE $2)",
			wantArgs:  2,
			wantNext:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb := newWhereBuilder()
			tt.build(wb)
			where, args := wb.Build()
			if where != tt.wantWhere {
				t.Errorf("where = %q, want %q", where, tt.wantWhere)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("len(args) = %d, want %d", len(args), tt.wantArgs)
			}
			if got := wb.NextArgIndex(); got != tt.wantNext {
				t.Errorf("NextArgIndex() = %d, want %d", got, tt.wantNext)
			}
		})
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Errorf("escapeLike = %q", got)
	}
}

func TestMapError(t *testing.T) {
	unique := &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "products_slug_key", Detail: "Key (slug)=(serum) already exists."}
	fk := &pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "products_category_id_fkey"}
	other := errors.New("connection refused")

	if mapError(nil) != nil {
		t.Error("mapError(nil) should be nil")
	}
	if err := mapError(pgx.ErrNoRows); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("no rows: got %v, want ErrNotFound", err)
	}
	if err := mapError(fmt.Errorf("insert: %w", unique)); !errors.Is(err, core.ErrDuplicate) {
		t.Errorf("unique: got %v, want ErrDuplicate", err)
	}
	if got := core.MapError(mapError(fk)).Code; got != "DB003" {
		t.Errorf("foreign key code = %s, want DB003", got)
	}
	if err := mapError(other); err != other {
		t.Errorf("other errors should pass through, got %v", err)
	}
}

func TestProductArgs(t *testing.T) {
	f := core.ProductFields{
		Name:   "Serum",
		Slug:   "serum",
		Price:  decimal.RequireFromString("24.9"),
		Status: core.StatusActive,
	}
	args := productArgs(f)
	if len(args) != 18 {
		t.Fatalf("len(args) = %d, want 18", len(args))
	}
	if sku := args[2].(*string); sku != nil {
		t.Errorf("empty SKU should be NULL, got %q", *sku)
	}
	if price := args[7].(string); price != "24.90" {
		t.Errorf("price = %q, want 24.90", price)
	}
	if cmp := args[8].(*string); cmp != nil {
		t.Errorf("compare_at_price should be NULL, got %q", *cmp)
	}
	if gallery := args[13].([]string); gallery == nil {
		t.Error("nil lists should be written as empty arrays")
	}

	f.SKU = "SKU-1"
	f.CompareAtPrice = decimal.NewNullDecimal(decimal.RequireFromString("30"))
	args = productArgs(f)
	if sku := args[2].(*string); sku == nil || *sku != "SKU-1" {
		t.Errorf("sku = %v, want SKU-1", sku)
	}
	if cmp := args[8].(*string); cmp == nil || *cmp != "30.00" {
		t.Errorf("compare_at_price = %v, want 30.00", cmp)
	}
}
