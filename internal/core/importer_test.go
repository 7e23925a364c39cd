package core_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/store/memstore"
)

func newTestService(t *testing.T) (*core.Service, *memstore.Store) {
	t.Helper()
	store := memstore.New(
		core.Category{ID: "cat-face", Name: "Facial", Slug: "facial"},
		core.Category{ID: "cat-body", Name: "Corporal", Slug: "corporal"},
	)
	return core.NewService(store, store, store), store
}

// csvBatch builds a batch from CSV text the same way the upload handler does.
func csvBatch(t *testing.T, mode core.Mode, input string) core.Batch {
	t.Helper()
	rows, rowErrs, _, err := core.ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	return core.Batch{Mode: mode, Source: core.SourceCSV, Rows: rows, RowErrors: rowErrs}
}

func validCSV(n int) string {
	var b strings.Builder
	b.WriteString("nombre,precio,categoria,sku\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "Producto %d,%d.50,Facial,SKU-%d\n", i, i, i)
	}
	return b.String()
}

func TestImportCreateIntoEmptyCatalog(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	summary, err := svc.Import(ctx, csvBatch(t, core.ModeCreate, validCSV(5)))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if summary.Created != 5 || summary.Skipped != 0 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want 5 created", summary)
	}
	if store.Len() != 5 {
		t.Errorf("store has %d products, want 5", store.Len())
	}
	if summary.TotalProcessed != 5 || len(summary.Results) != 5 {
		t.Errorf("total = %d, results = %d", summary.TotalProcessed, len(summary.Results))
	}
}

func TestImportCreateTwiceSkipsAll(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Import(ctx, csvBatch(t, core.ModeCreate, validCSV(4))); err != nil {
		t.Fatalf("first import: %v", err)
	}
	summary, err := svc.Import(ctx, csvBatch(t, core.ModeCreate, validCSV(4)))
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if summary.Created != 0 || summary.Skipped != 4 {
		t.Errorf("summary = %+v, want 0 created 4 skipped", summary)
	}
	for _, r := range summary.Results {
		if r.Outcome != core.OutcomeSkipped || r.Reason != core.ReasonAlreadyExists {
			t.Errorf("row %d = %s (%s), want skipped already exists", r.Row, r.Outcome, r.Reason)
		}
	}
	if store.Len() != 4 {
		t.Errorf("store has %d products, want 4", store.Len())
	}
}

func TestImportUpdateAgainstEmptyCatalog(t *testing.T) {
	svc, store := newTestService(t)

	summary, err := svc.Import(context.Background(), csvBatch(t, core.ModeUpdate, validCSV(3)))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if summary.Updated != 0 || summary.Skipped != 3 {
		t.Errorf("summary = %+v, want 3 skipped", summary)
	}
	for _, r := range summary.Results {
		if r.Reason != core.ReasonDoesNotExist {
			t.Errorf("row %d reason = %q", r.Row, r.Reason)
		}
	}
	if store.Len() != 0 {
		t.Errorf("update mode inserted %d products", store.Len())
	}
}

func TestImportUpsertTwice(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	first, err := svc.Import(ctx, csvBatch(t, core.ModeUpsert, validCSV(3)))
	if err != nil {
		t.Fatalf("first import: %v", err)
	}
	second, err := svc.Import(ctx, csvBatch(t, core.ModeUpsert, validCSV(3)))
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if first.Created != 3 || first.Updated != 0 {
		t.Errorf("first = %+v, want 3 created", first)
	}
	if second.Created != 0 || second.Updated != 3 {
		t.Errorf("second = %+v, want 3 updated", second)
	}
	if store.Len() != 3 {
		t.Errorf("store has %d products, want 3", store.Len())
	}
}

func TestImportSkipDuplicates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Import(ctx, csvBatch(t, core.ModeCreate, validCSV(2))); err != nil {
		t.Fatalf("seed: %v", err)
	}
	summary, err := svc.Import(ctx, csvBatch(t, core.ModeSkipDuplicates, validCSV(4)))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if summary.Created != 2 || summary.Skipped != 2 {
		t.Errorf("summary = %+v, want 2 created 2 skipped", summary)
	}
}

func TestImportUpdateMatchesBySKU(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Import(ctx, csvBatch(t, core.ModeCreate, "name,price,category,sku\nOld Name,10,Facial,ABC-1\n")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	summary, err := svc.Import(ctx, csvBatch(t, core.ModeUpdate, "name,price,category,sku\nNew Name,12,Facial,ABC-1\n"))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if summary.Updated != 1 {
		t.Fatalf("summary = %+v, want 1 updated", summary)
	}

	entry, err := store.FindBySlugOrSKU(ctx, "", "ABC-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if entry.Name != "New Name" || entry.Price.String() != "12" {
		t.Errorf("entry = %+v", entry.ProductFields)
	}
}

func TestImportNegativePriceNeverWritten(t *testing.T) {
	for _, mode := range []core.Mode{core.ModeCreate, core.ModeUpdate, core.ModeUpsert, core.ModeSkipDuplicates} {
		t.Run(mode.String(), func(t *testing.T) {
			svc, store := newTestService(t)
			input := "name,price,category\nGood,10,Facial\nBad,-5,Facial\n"

			summary, err := svc.Import(context.Background(), csvBatch(t, mode, input))
			if err != nil {
				t.Fatalf("Import: %v", err)
			}
			if summary.Failed != 1 || summary.ErrorsCount != 1 {
				t.Errorf("summary = %+v, want 1 failed", summary)
			}
			bad := summary.Results[1]
			if bad.Row != 3 || bad.Outcome != core.OutcomeFailed || !strings.Contains(bad.Error, "price") {
				t.Errorf("bad row = %+v", bad)
			}
			if _, err := store.FindBySlugOrSKU(context.Background(), "bad", ""); !errors.Is(err, core.ErrNotFound) {
				t.Errorf("negative price row reached the store")
			}
		})
	}
}

func TestImportMalformedRowDoesNotAbort(t *testing.T) {
	svc, store := newTestService(t)
	var b strings.Builder
	b.WriteString("name,price,category\n")
	for i := 1; i <= 9; i++ {
		fmt.Fprintf(&b, "Item %d,%d,Facial\n", i, i)
		if i == 4 {
			b.WriteString("Broken row,1\n")
		}
	}

	summary, err := svc.Import(context.Background(), csvBatch(t, core.ModeCreate, b.String()))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if summary.Created != 9 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want 9 created 1 failed", summary)
	}
	if summary.TotalProcessed != 10 {
		t.Errorf("total = %d, want 10", summary.TotalProcessed)
	}
	if store.Len() != 9 {
		t.Errorf("store has %d products", store.Len())
	}
	if summary.Results[4].Row != 6 || summary.Results[4].Outcome != core.OutcomeFailed {
		t.Errorf("results sorted by row, want failed row 6 at index 4: %+v", summary.Results[4])
	}
}

func TestImportEmptyBatchRejected(t *testing.T) {
	svc, store := newTestService(t)

	summary, err := svc.Import(context.Background(), csvBatch(t, core.ModeCreate, "name,price,category\n"))
	if !errors.Is(err, core.ErrEmptyBatch) {
		t.Fatalf("error = %v, want ErrEmptyBatch", err)
	}
	if summary == nil || summary.TotalProcessed != 0 {
		t.Errorf("summary = %+v", summary)
	}
	if store.Len() != 0 {
		t.Error("empty batch wrote products")
	}
}

func TestImportAllRowsMalformedIsEmptyBatch(t *testing.T) {
	svc, _ := newTestService(t)

	summary, err := svc.Import(context.Background(), csvBatch(t, core.ModeCreate, "name,price,category\na,1\nb,2\n"))
	if !errors.Is(err, core.ErrEmptyBatch) {
		t.Fatalf("error = %v, want ErrEmptyBatch", err)
	}
	if summary.Failed != 2 || len(summary.Errors) != 2 {
		t.Errorf("summary = %+v, want 2 row errors", summary)
	}
}

func TestImportNoValidRowsRejected(t *testing.T) {
	svc, store := newTestService(t)
	input := "name,price,category\n,10,Facial\nNo Price,,Facial\nNo Category,5,Perfumes\n"

	summary, err := svc.Import(context.Background(), csvBatch(t, core.ModeCreate, input))
	if !errors.Is(err, core.ErrNoValidRows) {
		t.Fatalf("error = %v, want ErrNoValidRows", err)
	}
	if summary.Failed != 3 || summary.ErrorsCount != 3 {
		t.Errorf("summary = %+v, want 3 failed", summary)
	}
	if store.Len() != 0 {
		t.Error("rejected batch wrote products")
	}
	entries, _ := store.ListAudit(context.Background(), core.AuditLogFilter{})
	if len(entries) != 0 {
		t.Errorf("rejected batch wrote %d audit entries", len(entries))
	}
}

func TestImportStoreErrorIsRowFailure(t *testing.T) {
	svc, store := newTestService(t)
	store.FailWrites = func(f core.ProductFields) error {
		if f.Name == "Producto 2" {
			return errors.New("connection reset by peer")
		}
		return nil
	}

	summary, err := svc.Import(context.Background(), csvBatch(t, core.ModeCreate, validCSV(3)))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if summary.Created != 2 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want 2 created 1 failed", summary)
	}
	if got := summary.Results[1].Error; got != "connection reset by peer" {
		t.Errorf("row error = %q, want store message", got)
	}
}

func TestImportDuplicateSlugInBatch(t *testing.T) {
	svc, store := newTestService(t)
	input := "name,price,category\nCrema Rosa,10,Facial\nCREMA ROSA!,11,Facial\n"

	summary, err := svc.Import(context.Background(), csvBatch(t, core.ModeCreate, input))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if summary.Created != 1 || summary.Skipped != 1 {
		t.Errorf("summary = %+v, want 1 created 1 skipped", summary)
	}
	if store.Len() != 1 {
		t.Errorf("store has %d products", store.Len())
	}
}

func TestImportWritesOneAuditEntry(t *testing.T) {
	svc, store := newTestService(t)
	ctx := core.ContextWithAdmin(context.Background(), core.Admin{UserID: "u-1", Email: "admin@example.com"})
	ctx = core.ContextWithIPAddress(ctx, "10.0.0.1")

	summary, err := svc.Import(ctx, csvBatch(t, core.ModeCreate, validCSV(6)))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	entries, err := store.ListAudit(ctx, core.AuditLogFilter{})
	if err != nil {
		t.Fatalf("ListAudit: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("audit entries = %d, want 1 per batch", len(entries))
	}
	e := entries[0]
	if e.Action != core.ActionCatalogImport || e.Severity != core.SeverityHigh {
		t.Errorf("entry = %+v", e)
	}
	if e.BatchID != summary.BatchID || e.RowsAffected != 6 {
		t.Errorf("batch = %q rows = %d", e.BatchID, e.RowsAffected)
	}
	if e.UserID != "u-1" || e.UserEmail != "admin@example.com" || e.IPAddress != "10.0.0.1" {
		t.Errorf("request metadata = %q %q %q", e.UserID, e.UserEmail, e.IPAddress)
	}
}

func TestImportJSONBatch(t *testing.T) {
	svc, store := newTestService(t)
	rows := core.RecordsFromJSON([]map[string]any{
		{"nombre": "Sérum", "precio": 30.0, "categoria": "facial", "ingredientes": []any{"vitamina c"}},
		{"name": "Loción", "price": "15", "category_id": "cat-body", "status": "active"},
	})

	summary, err := svc.Import(context.Background(), core.Batch{Mode: core.ModeUpsert, Source: core.SourceJSON, Rows: rows})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if summary.Created != 2 {
		t.Fatalf("summary = %+v", summary)
	}
	entry, err := store.FindBySlugOrSKU(context.Background(), "serum", "")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if entry.CategoryID != "cat-face" || len(entry.Ingredients) != 1 {
		t.Errorf("entry = %+v", entry.ProductFields)
	}
}

func TestImportBatchTooLarge(t *testing.T) {
	store := memstore.New(core.Category{ID: "cat-face", Name: "Facial"})
	svc := core.NewService(store, store, store, core.WithMaxRows(2))

	summary, err := svc.Import(context.Background(), csvBatch(t, core.ModeCreate, validCSV(3)))
	if !errors.Is(err, core.ErrBatchTooLarge) {
		t.Fatalf("error = %v, want ErrBatchTooLarge", err)
	}
	if summary != nil {
		t.Errorf("summary = %+v, want nil", summary)
	}
}

func TestImportKeepsQuotesInValues(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	input := "nombre,precio,categoria,descripcion\n" +
		`Crema 'Rosa',10,Facial,"Dice ""suave"""` + "\n"

	if _, err := svc.Import(ctx, csvBatch(t, core.ModeCreate, input)); err != nil {
		t.Fatalf("Import: %v", err)
	}
	entry, err := store.FindBySlugOrSKU(ctx, "crema-rosa", "")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if entry.Name != "Crema 'Rosa'" {
		t.Errorf("name = %q", entry.Name)
	}
	if entry.Description != `Dice "suave"` {
		t.Errorf("description = %q, want %q", entry.Description, `Dice "suave"`)
	}
}

func TestImportDecimalCommaPrice(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	input := "nombre,precio,categoria\n" + `Serum,"24,90",Facial` + "\n"

	if _, err := svc.Import(ctx, csvBatch(t, core.ModeCreate, input)); err != nil {
		t.Fatalf("Import: %v", err)
	}
	entry, err := store.FindBySlugOrSKU(ctx, "serum", "")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got := entry.Price.StringFixed(2); got != "24.90" {
		t.Errorf("price = %s, want 24.90", got)
	}
}

func TestPreviewMatchesImport(t *testing.T) {
	tests := []struct {
		name  string
		mode  core.Mode
		input string
	}{
		{"update repeats new slug", core.ModeUpdate, "nombre,precio,categoria\nNuevo,10,Facial\nNuevo,12,Facial\n"},
		{"upsert repeats new slug", core.ModeUpsert, "nombre,precio,categoria\nNuevo,10,Facial\nNuevo,12,Facial\n"},
		{"create repeats sku", core.ModeCreate, "nombre,precio,categoria,sku\nUno,10,Facial,S-1\nDos,12,Facial,S-1\n"},
		{"skip duplicates", core.ModeSkipDuplicates, "nombre,precio,categoria\nNuevo,10,Facial\nNuevo,12,Facial\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)
			ctx := context.Background()

			preview, err := svc.Preview(ctx, csvBatch(t, tt.mode, tt.input))
			if err != nil {
				t.Fatalf("Preview: %v", err)
			}
			got, err := svc.Import(ctx, csvBatch(t, tt.mode, tt.input))
			if err != nil {
				t.Fatalf("Import: %v", err)
			}
			if preview.Created != got.Created || preview.Updated != got.Updated ||
				preview.Skipped != got.Skipped || preview.Failed != got.Failed {
				t.Errorf("preview %d/%d/%d/%d, import %d/%d/%d/%d (created/updated/skipped/failed)",
					preview.Created, preview.Updated, preview.Skipped, preview.Failed,
					got.Created, got.Updated, got.Skipped, got.Failed)
			}
		})
	}
}

func TestPreviewDoesNotWrite(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Import(ctx, csvBatch(t, core.ModeCreate, validCSV(1))); err != nil {
		t.Fatalf("seed: %v", err)
	}
	input := validCSV(2) + "Producto 2,9,Facial,OTHER\n"

	summary, err := svc.Preview(ctx, csvBatch(t, core.ModeCreate, input))
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if !summary.DryRun {
		t.Error("DryRun not set")
	}
	// Producto 1 exists, Producto 2 is new, the repeated Producto 2 would hit the row before it.
	if summary.Created != 1 || summary.Skipped != 2 {
		t.Errorf("summary = %+v, want 1 created 2 skipped", summary)
	}
	if summary.Results[1].Action != "insert" {
		t.Errorf("row action = %q", summary.Results[1].Action)
	}
	if store.Len() != 1 {
		t.Errorf("preview wrote products: %d", store.Len())
	}
	entries, _ := store.ListAudit(ctx, core.AuditLogFilter{})
	if len(entries) != 1 {
		t.Errorf("preview wrote audit entries: %d", len(entries))
	}
}
