package core

// export.go writes the catalog in the same column layout the importer reads,
// so an export can be edited and uploaded again in update or upsert mode.

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// exportPageSize is the number of products fetched per store call.
const exportPageSize = 500

// ExportColumns returns the export header in template order.
func ExportColumns() []string {
	cols := make([]string, len(ImportColumns))
	for i, c := range ImportColumns {
		cols[i] = c.Name
	}
	return cols
}

// exportRow renders one entry in ExportColumns order.
func exportRow(e CatalogEntry, categoryNames map[string]string) []string {
	gallery := make([]string, MaxGalleryImages)
	copy(gallery, e.Gallery)

	compareAt := ""
	if e.CompareAtPrice.Valid {
		compareAt = e.CompareAtPrice.Decimal.StringFixed(2)
	}

	values := map[string]string{
		FieldName:              e.Name,
		FieldSlug:              e.Slug,
		FieldSKU:               e.SKU,
		FieldPrice:             e.Price.StringFixed(2),
		FieldCompareAtPrice:    compareAt,
		FieldInventoryQuantity: strconv.Itoa(e.InventoryQuantity),
		FieldStatus:            string(e.Status),
		FieldCategoryID:        e.CategoryID,
		FieldCategory:          categoryNames[e.CategoryID],
		FieldDescription:       e.Description,
		FieldShortDescription:  e.ShortDescription,
		FieldBrand:             e.Brand,
		FieldImageURL:          e.ImageURL,
		FieldGallery1:          gallery[0],
		FieldGallery2:          gallery[1],
		FieldGallery3:          gallery[2],
		FieldGallery4:          gallery[3],
		FieldSkinType:          strings.Join(e.SkinType, ";"),
		FieldBenefits:          strings.Join(e.Benefits, ";"),
		FieldCertifications:    strings.Join(e.Certifications, ";"),
		FieldIngredients:       strings.Join(e.Ingredients, ";"),
		FieldFeatured:          strconv.FormatBool(e.Featured),
	}

	row := make([]string, len(ImportColumns))
	for i, c := range ImportColumns {
		row[i] = values[c.Name]
	}
	return row
}

// eachExportRow pages through the catalog and calls fn for every product.
func (s *Service) eachExportRow(ctx context.Context, filter ProductFilter, fn func([]string) error) (int, error) {
	cats, err := s.Categories(ctx)
	if err != nil {
		return 0, err
	}
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	count := 0
	filter.Limit = exportPageSize
	filter.Offset = 0
	for {
		page, err := s.Products(ctx, filter)
		if err != nil {
			return count, err
		}
		for _, e := range page {
			if err := fn(exportRow(e, names)); err != nil {
				return count, err
			}
			count++
		}
		if len(page) < exportPageSize {
			return count, nil
		}
		filter.Offset += len(page)
	}
}

// ExportCSV writes the catalog as CSV and returns the number of products written.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, filter ProductFilter) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns()); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	count, err := s.eachExportRow(ctx, filter, cw.Write)
	if err != nil {
		return count, fmt.Errorf("export csv: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return count, fmt.Errorf("flush csv: %w", err)
	}

	s.logExport(ctx, "csv", count)
	return count, nil
}

// ExportXLSX writes the catalog as a single-sheet workbook.
func (s *Service) ExportXLSX(ctx context.Context, w io.Writer, filter ProductFilter) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ProductsSheet); err != nil {
		return 0, fmt.Errorf("create sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(ProductsSheet)
	if err != nil {
		return 0, fmt.Errorf("create stream writer: %w", err)
	}

	line := 1
	writeRow := func(values []string) error {
		cells := make([]any, len(values))
		for i, v := range values {
			cells[i] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return err
		}
		line++
		return sw.SetRow(cell, cells)
	}

	if err := writeRow(ExportColumns()); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	count, err := s.eachExportRow(ctx, filter, writeRow)
	if err != nil {
		return count, fmt.Errorf("export xlsx: %w", err)
	}
	if err := sw.Flush(); err != nil {
		return count, fmt.Errorf("flush xlsx: %w", err)
	}
	if err := f.Write(w); err != nil {
		return count, fmt.Errorf("write xlsx: %w", err)
	}

	s.logExport(ctx, "xlsx", count)
	return count, nil
}

func (s *Service) logExport(ctx context.Context, format string, count int) {
	_ = s.LogAudit(ctx, AuditLogParams{
		Action:       ActionCatalogExport,
		Resource:     "products",
		RowsAffected: count,
		Details:      map[string]any{"format": format},
		Reason:       fmt.Sprintf("Exported %d products as %s", count, format),
	})
}
