package core

import (
	"fmt"
	"strings"
)

// CategoryMatch describes how a category reference was resolved.
type CategoryMatch int

const (
	MatchNone CategoryMatch = iota
	MatchID
	MatchExact
	MatchPartial
)

// CategoryResolver resolves category references from import rows against a
// fixed set of categories loaded once per batch.
type CategoryResolver struct {
	categories []Category
	byID       map[string]Category
}

// NewCategoryResolver builds a resolver. Partial matches are tried in the
// order categories are given, so callers should pass a stable ordering.
func NewCategoryResolver(categories []Category) *CategoryResolver {
	byID := make(map[string]Category, len(categories))
	for _, c := range categories {
		byID[strings.ToLower(c.ID)] = c
	}
	return &CategoryResolver{categories: categories, byID: byID}
}

// Resolve finds the category a reference points to. Lookup order:
//  1. exact id
//  2. case-insensitive name or slug (the reference's derived slug also counts)
//  3. first category whose name or slug contains the reference
func (r *CategoryResolver) Resolve(ref string) (Category, CategoryMatch, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Category{}, MatchNone, false
	}

	if c, ok := r.byID[strings.ToLower(ref)]; ok {
		return c, MatchID, true
	}

	folded := foldName(ref)
	refSlug := DeriveSlug(ref)
	for _, c := range r.categories {
		if foldName(c.Name) == folded || strings.EqualFold(c.Slug, ref) || (refSlug != "" && c.Slug == refSlug) {
			return c, MatchExact, true
		}
	}

	for _, c := range r.categories {
		if strings.Contains(foldName(c.Name), folded) || (refSlug != "" && strings.Contains(c.Slug, refSlug)) {
			return c, MatchPartial, true
		}
	}

	return Category{}, MatchNone, false
}

// resolveRowCategory resolves the category_id and category columns of a row.
// A category_id that is not a known id is retried as a name, since
// spreadsheets often carry names in the id column.
func (r *CategoryResolver) resolveRowCategory(id, name string) (Category, string, error) {
	for _, ref := range []string{id, name} {
		if ref == "" {
			continue
		}
		c, match, ok := r.Resolve(ref)
		if !ok {
			continue
		}
		if match == MatchPartial {
			return c, fmt.Sprintf("category %q matched %q by partial name", ref, c.Name), nil
		}
		return c, "", nil
	}

	if id == "" && name == "" {
		return Category{}, "", ValidationError{Field: FieldCategory, Message: "category is required"}
	}
	ref := name
	if ref == "" {
		ref = id
	}
	return Category{}, "", ValidationError{Field: FieldCategory, Value: ref, Message: fmt.Sprintf("category %q not found", ref)}
}

// foldName lowercases and strips accents for name comparison.
func foldName(s string) string {
	return strings.ToLower(stripAccents(strings.TrimSpace(s)))
}
