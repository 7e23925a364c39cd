package core

import "testing"

func TestDeriveSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "Crema Hidratante — Rosa Mosqueta! ", want: "crema-hidratante-rosa-mosqueta"},
		{input: "Sérum Facial Vitamina C", want: "serum-facial-vitamina-c"},
		{input: "Jabón de Avena & Miel", want: "jabon-de-avena-miel"},
		{input: "  --Aceite   Corporal--  ", want: "aceite-corporal"},
		{input: "Niños 100% Natural", want: "ninos-100-natural"},
		{input: "already-a-slug", want: "already-a-slug"},
		{input: "multi---hyphen", want: "multi-hyphen"},
		{input: "tab\tand\nnewline", want: "tab-and-newline"},
		{input: "!!!", want: ""},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := DeriveSlug(tt.input); got != tt.want {
				t.Errorf("DeriveSlug(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDeriveSlugIdempotent(t *testing.T) {
	inputs := []string{
		"Crema Hidratante — Rosa Mosqueta! ",
		"  Señor   Pérez -- Edición  ",
		"a - b - c",
		"ÁÉÍÓÚ ü",
		"123",
	}
	for _, in := range inputs {
		once := DeriveSlug(in)
		if twice := DeriveSlug(once); twice != once {
			t.Errorf("DeriveSlug not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestFoldKey(t *testing.T) {
	tests := []struct{ input, want string }{
		{"Categoría ID", "categoria_id"},
		{" PRECIO ", "precio"},
		{"tipo-piel", "tipo_piel"},
	}
	for _, tt := range tests {
		if got := foldKey(tt.input); got != tt.want {
			t.Errorf("foldKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
