package core

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
	slugHyphens      = regexp.MustCompile(`-+`)
)

// stripAccents decomposes s (NFD) and drops combining marks, so "é" becomes "e".
// A transform.Chain keeps state, so a new one is built per call.
func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// DeriveSlug builds a URL-safe identifier from a human-readable name.
//
//	DeriveSlug("Crema Hidratante — Rosa Mosqueta! ") == "crema-hidratante-rosa-mosqueta"
//
// The result only contains [a-z0-9-] with no leading, trailing or repeated
// hyphens, so DeriveSlug(DeriveSlug(x)) == DeriveSlug(x).
func DeriveSlug(name string) string {
	s := strings.ToLower(stripAccents(name))
	s = slugInvalidChars.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(strings.TrimSpace(s), "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// foldKey normalizes a header or enum value for case- and accent-insensitive lookups.
// "Categoría ID" becomes "categoria_id".
func foldKey(s string) string {
	s = strings.ToLower(stripAccents(strings.TrimSpace(s)))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return s
}
