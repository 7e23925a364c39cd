package core

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// instructionsSheet holds the column reference in the XLSX template.
const instructionsSheet = "Instructions"

// WriteTemplateCSV writes an import template: the header row and one example row.
func WriteTemplateCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(ImportColumns))
	example := make([]string, len(ImportColumns))
	for i, c := range ImportColumns {
		header[i] = c.Name
		example[i] = c.Example
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.Write(example); err != nil {
		return fmt.Errorf("write example: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// WriteTemplateXLSX writes a workbook with a header-only Products sheet and
// an Instructions sheet describing each column. Required headers are
// highlighted and suffixed with " *", which the importer ignores.
func WriteTemplateXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ProductsSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	requiredStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("required style: %w", err)
	}

	for i, col := range ImportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		text, style := col.Name, headerStyle
		if col.Required {
			text, style = col.Name+" *", requiredStyle
		}
		if err := f.SetCellValue(ProductsSheet, cell, text); err != nil {
			return err
		}
		if err := f.SetCellStyle(ProductsSheet, cell, cell, style); err != nil {
			return err
		}
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(ProductsSheet, colName, colName, 20); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(instructionsSheet); err != nil {
		return fmt.Errorf("create instructions: %w", err)
	}
	rows := [][]any{
		{"Product Import Instructions"},
		{},
		{"Headers may be written in English or Spanish (name/nombre, price/precio, ...)."},
		{"Lists accept a JSON array or values separated by ';'."},
		{"Rows are matched to existing products by slug or SKU."},
		{},
		{"Column", "Alias", "Required", "Type", "Description", "Example"},
	}
	for _, col := range ImportColumns {
		required := "Optional"
		if col.Required {
			required = "Required"
		}
		rows = append(rows, []any{col.Name, col.Alias, required, col.Type, col.Description, col.Example})
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(instructionsSheet, cell, &row); err != nil {
			return err
		}
	}
	for col, width := range map[string]float64{"A": 25, "B": 20, "C": 12, "D": 22, "E": 60, "F": 40} {
		if err := f.SetColWidth(instructionsSheet, col, col, width); err != nil {
			return err
		}
	}

	idx, err := f.GetSheetIndex(ProductsSheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)

	return f.Write(w)
}
