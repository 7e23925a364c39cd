package core

import (
	"errors"
	"strings"
	"testing"
)

func TestParseCSV(t *testing.T) {
	input := "nombre,precio,categoria\n" +
		"Crema,24.90,Facial\n" +
		"\"Jabón, avena\",5,\"Cuerpo\"\n" +
		"\"Dice \"\"hola\"\"\",3,Facial\n"

	header, rows, rowErrs, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(rowErrs) != 0 {
		t.Fatalf("unexpected row errors: %v", rowErrs)
	}
	if strings.Join(header, "|") != "nombre|precio|categoria" {
		t.Errorf("header = %v", header)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[1].Values[0] != "Jabón, avena" {
		t.Errorf("quoted comma = %q", rows[1].Values[0])
	}
	if rows[2].Values[0] != `Dice "hola"` {
		t.Errorf("escaped quotes = %q", rows[2].Values[0])
	}
	if rows[0].Line != 2 || rows[2].Line != 4 {
		t.Errorf("line numbers = %d, %d; want 2, 4", rows[0].Line, rows[2].Line)
	}
}

func TestParseCSVColumnMismatchIsRowError(t *testing.T) {
	var b strings.Builder
	b.WriteString("name,price,category\n")
	for i := 0; i < 5; i++ {
		b.WriteString("Product,10,Facial\n")
	}
	b.WriteString("Broken,10\n") // line 7
	for i := 0; i < 4; i++ {
		b.WriteString("Product,10,Facial\n")
	}

	_, rows, rowErrs, err := ParseCSV(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(rows) != 9 {
		t.Errorf("rows = %d, want 9", len(rows))
	}
	if len(rowErrs) != 1 {
		t.Fatalf("row errors = %d, want 1", len(rowErrs))
	}
	if rowErrs[0].Row != 7 {
		t.Errorf("row error row = %d, want 7", rowErrs[0].Row)
	}
	if !strings.Contains(rowErrs[0].Message, "expected 3 columns, got 2") {
		t.Errorf("row error message = %q", rowErrs[0].Message)
	}
}

func TestParseCSVSkipsBOMAndBlankRows(t *testing.T) {
	input := "\xEF\xBB\xBFname,price\nA,1\n\n,\nB,2\n"

	header, rows, rowErrs, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if header[0] != "name" {
		t.Errorf("header[0] = %q, BOM not stripped", header[0])
	}
	if len(rows) != 2 || len(rowErrs) != 0 {
		t.Errorf("rows = %d, rowErrs = %d; want 2, 0", len(rows), len(rowErrs))
	}
}

func TestParseCSVEmptyInput(t *testing.T) {
	_, _, _, err := ParseCSV(strings.NewReader(""))
	if !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("error = %v, want ErrEmptyBatch", err)
	}
}

func TestRecordsFromCSVMapsAliases(t *testing.T) {
	header := []string{"Nombre", "PRECIO", "galeria_1", "Galería 2", "Color"}
	rows := []CSVRow{{Line: 2, Values: []string{"Crema", "10", "a.jpg", "b.jpg", "rojo"}}}

	raw, unknown := RecordsFromCSV(header, rows)
	if len(raw) != 1 {
		t.Fatalf("raw rows = %d", len(raw))
	}
	f := raw[0].Fields
	if f[FieldName] != "Crema" || f[FieldPrice] != "10" {
		t.Errorf("fields = %v", f)
	}
	if f[FieldGallery1] != "a.jpg" || f[FieldGallery2] != "b.jpg" {
		t.Errorf("gallery fields = %v, %v", f[FieldGallery1], f[FieldGallery2])
	}
	if len(unknown) != 1 || unknown[0] != "Color" {
		t.Errorf("unknown = %v, want [Color]", unknown)
	}
	if raw[0].Row != 2 {
		t.Errorf("row = %d, want 2", raw[0].Row)
	}
}

func TestRecordsFromJSON(t *testing.T) {
	objs := []map[string]any{
		{"nombre": "Crema", "precio": 24.9, "beneficios": []any{"hidrata"}},
		{"name": "Jabón", "price": "5", "ignored": true},
	}
	raw := RecordsFromJSON(objs)
	if len(raw) != 2 {
		t.Fatalf("rows = %d", len(raw))
	}
	if raw[0].Row != 1 || raw[1].Row != 2 {
		t.Errorf("rows numbered %d, %d", raw[0].Row, raw[1].Row)
	}
	if raw[0].Fields[FieldPrice] != 24.9 {
		t.Errorf("price = %v", raw[0].Fields[FieldPrice])
	}
	if _, ok := raw[1].Fields["ignored"]; ok {
		t.Error("unknown key should be dropped")
	}
}

func TestCanonicalField(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"nombre", FieldName, true},
		{"Name", FieldName, true},
		{"Precio", FieldPrice, true},
		{"price *", FieldPrice, true},
		{"Categoría", FieldCategory, true},
		{"categoria_id", FieldCategoryID, true},
		{"Tipo de piel", FieldSkinType, true},
		{"galeria_4", FieldGallery4, true},
		{"color", "", false},
	}
	for _, tt := range tests {
		got, ok := CanonicalField(tt.header)
		if got != tt.want || ok != tt.ok {
			t.Errorf("CanonicalField(%q) = %q, %v; want %q, %v", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}
