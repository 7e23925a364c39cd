package core

// parse.go turns uploaded CSV files and JSON bodies into RawRows.
//
// CSV input is decoded as UTF-8 with a leading BOM removed and invalid byte
// sequences replaced, then read with encoding/csv. Quoted fields and doubled
// quotes are supported; rows whose column count differs from the header are
// reported as RowErrors and parsing continues with the next line.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Source identifies the input format of a batch.
type Source string

const (
	SourceCSV  Source = "csv"
	SourceXLSX Source = "xlsx"
	SourceJSON Source = "json"
)

// RawRow is one input row keyed by canonical field name.
// Values are strings for CSV input and decoded JSON values for JSON input.
type RawRow struct {
	Row    int
	Fields map[string]any
}

// RowError is a row-level failure detected before a record could be built.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// CSVRow is one data line of a CSV file. Line is the 1-based line number in
// the file, so row numbers in results point back at the source.
type CSVRow struct {
	Line   int
	Values []string
}

// newUTF8Reader strips a UTF-8 BOM and replaces invalid UTF-8 with U+FFFD.
func newUTF8Reader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// ParseCSV reads a header row followed by data rows.
//
// A missing header is a batch-level failure (ErrEmptyBatch). Lines with a
// column count different from the header, and lines the csv reader cannot
// parse, come back as row errors. Blank lines are skipped.
func ParseCSV(r io.Reader) ([]string, []CSVRow, []RowError, error) {
	cr := csv.NewReader(newUTF8Reader(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil, fmt.Errorf("%w: missing header row", ErrEmptyBatch)
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = CleanCell(header[i])
	}

	var (
		rows    []CSVRow
		rowErrs []RowError
	)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				rowErrs = append(rowErrs, RowError{Row: perr.StartLine, Message: perr.Err.Error()})
				continue
			}
			return nil, nil, nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := cr.FieldPos(0)
		if isBlankRecord(record) {
			continue
		}
		if len(record) != len(header) {
			rowErrs = append(rowErrs, RowError{
				Row:     line,
				Message: fmt.Sprintf("expected %d columns, got %d", len(header), len(record)),
			})
			continue
		}
		rows = append(rows, CSVRow{Line: line, Values: record})
	}

	return header, rows, rowErrs, nil
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// RecordsFromCSV maps CSV rows onto canonical fields using the header.
// Unknown headers are returned so callers can warn about them.
func RecordsFromCSV(header []string, rows []CSVRow) ([]RawRow, []string) {
	canon := make([]string, len(header))
	var unknown []string
	for i, h := range header {
		if f, ok := CanonicalField(h); ok {
			canon[i] = f
		} else if h != "" {
			unknown = append(unknown, h)
		}
	}

	out := make([]RawRow, 0, len(rows))
	for _, row := range rows {
		fields := make(map[string]any, len(canon))
		for i, f := range canon {
			if f == "" || i >= len(row.Values) {
				continue
			}
			// First non-empty column wins when two headers map to the same field.
			if existing, ok := fields[f].(string); ok && existing != "" {
				continue
			}
			fields[f] = row.Values[i]
		}
		out = append(out, RawRow{Row: row.Line, Fields: fields})
	}
	return out, unknown
}

// ReadCSV parses r and maps it onto canonical fields in one step.
func ReadCSV(r io.Reader) ([]RawRow, []RowError, []string, error) {
	header, rows, rowErrs, err := ParseCSV(r)
	if err != nil {
		return nil, nil, nil, err
	}
	raw, unknown := RecordsFromCSV(header, rows)
	return raw, rowErrs, unknown, nil
}

// RecordsFromJSON maps decoded JSON objects onto canonical fields.
// Row numbers are the 1-based position in the array.
func RecordsFromJSON(objects []map[string]any) []RawRow {
	out := make([]RawRow, 0, len(objects))
	for i, obj := range objects {
		fields := make(map[string]any, len(obj))
		for k, v := range obj {
			if f, ok := CanonicalField(k); ok {
				if _, dup := fields[f]; dup && isEmptyValue(v) {
					continue
				}
				fields[f] = v
			}
		}
		out = append(out, RawRow{Row: i + 1, Fields: fields})
	}
	return out
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}
