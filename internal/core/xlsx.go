package core

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ProductsSheet is the sheet name used for exports and templates,
// and preferred when reading an uploaded workbook.
const ProductsSheet = "Products"

// ReadXLSX reads the products sheet of a workbook the same way ReadCSV reads
// a CSV file. Excel omits trailing empty cells, so short rows are padded;
// rows longer than the header are row errors. Row numbers are sheet rows.
func ReadXLSX(r io.Reader) ([]RawRow, []RowError, []string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, nil, fmt.Errorf("%w: workbook has no sheets", ErrEmptyBatch)
	}
	sheet := sheets[0]
	for _, name := range sheets {
		if strings.EqualFold(name, ProductsSheet) {
			sheet = name
			break
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil, nil, fmt.Errorf("%w: missing header row", ErrEmptyBatch)
	}

	header := rows[0]
	var (
		data    []CSVRow
		rowErrs []RowError
	)
	for i, cells := range rows[1:] {
		line := i + 2
		if isBlankRecord(cells) {
			continue
		}
		if len(cells) > len(header) {
			rowErrs = append(rowErrs, RowError{
				Row:     line,
				Message: fmt.Sprintf("expected %d columns, got %d", len(header), len(cells)),
			})
			continue
		}
		padded := make([]string, len(header))
		copy(padded, cells)
		data = append(data, CSVRow{Line: line, Values: padded})
	}

	raw, unknown := RecordsFromCSV(header, data)
	return raw, rowErrs, unknown, nil
}
