package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// BuildRecord validates a raw row and converts it into an ImportRecord.
//
// The returned error is a ValidationErrors listing every problem in the row.
// Warnings describe values that were accepted with a fallback (unknown status,
// partial category match, extra gallery images).
func BuildRecord(raw RawRow, categories *CategoryResolver) (ImportRecord, []string, error) {
	rec := ImportRecord{Row: raw.Row}
	var (
		errs     ValidationErrors
		warnings []string
	)

	text := func(field string) string {
		v, err := raw.text(field)
		if err != nil {
			errs = append(errs, ValidationError{Field: field, Message: err.Error()})
		}
		return v
	}
	list := func(field string) []string {
		v, err := raw.list(field)
		if err != nil {
			errs = append(errs, ValidationError{Field: field, Message: err.Error()})
		}
		return v
	}

	rec.Name = text(FieldName)
	if rec.Name == "" {
		errs = append(errs, ValidationError{Field: FieldName, Message: "name is required"})
	}

	rec.Slug = DeriveSlug(text(FieldSlug))
	if rec.Slug == "" {
		rec.Slug = DeriveSlug(rec.Name)
	}
	if rec.Slug == "" && rec.Name != "" {
		errs = append(errs, ValidationError{Field: FieldSlug, Value: rec.Name, Message: "cannot derive slug from name"})
	}

	rec.SKU = text(FieldSKU)
	rec.Description = text(FieldDescription)
	rec.ShortDescription = text(FieldShortDescription)
	rec.Brand = text(FieldBrand)
	rec.ImageURL = text(FieldImageURL)

	if v := text(FieldPrice); v == "" {
		errs = append(errs, ValidationError{Field: FieldPrice, Message: "price is required"})
	} else if price, err := parseNonNegativePrice(v); err != nil {
		errs = append(errs, ValidationError{Field: FieldPrice, Value: v, Message: err.Error()})
	} else {
		rec.Price = price
	}

	if v := text(FieldCompareAtPrice); v != "" {
		if price, err := parseNonNegativePrice(v); err != nil {
			errs = append(errs, ValidationError{Field: FieldCompareAtPrice, Value: v, Message: err.Error()})
		} else {
			rec.CompareAtPrice = decimal.NewNullDecimal(price)
		}
	}

	if v := text(FieldInventoryQuantity); v != "" {
		qty, err := ParseInt(v)
		switch {
		case err != nil:
			errs = append(errs, ValidationError{Field: FieldInventoryQuantity, Value: v, Message: "invalid integer format"})
		case qty < 0:
			errs = append(errs, ValidationError{Field: FieldInventoryQuantity, Value: v, Message: "inventory cannot be negative"})
		default:
			rec.InventoryQuantity = qty
		}
	}

	rec.Status = StatusDraft
	if v := text(FieldStatus); v != "" {
		if st, ok := ParseStatus(v); ok {
			rec.Status = st
		} else {
			warnings = append(warnings, fmt.Sprintf("unknown status %q, using %q", v, StatusDraft))
		}
	}

	if v := text(FieldFeatured); v != "" {
		featured, err := ParseBool(v)
		if err != nil {
			errs = append(errs, ValidationError{Field: FieldFeatured, Value: v, Message: err.Error()})
		}
		rec.Featured = featured
	}

	rec.Gallery = list(FieldGallery)
	for _, f := range GalleryFields {
		if v := text(f); v != "" {
			rec.Gallery = append(rec.Gallery, v)
		}
	}
	if len(rec.Gallery) > MaxGalleryImages {
		warnings = append(warnings, fmt.Sprintf("only the first %d gallery images are kept", MaxGalleryImages))
		rec.Gallery = rec.Gallery[:MaxGalleryImages]
	}

	rec.SkinType = list(FieldSkinType)
	rec.Benefits = list(FieldBenefits)
	rec.Certifications = list(FieldCertifications)
	rec.Ingredients = list(FieldIngredients)

	cat, warn, err := categories.resolveRowCategory(text(FieldCategoryID), text(FieldCategory))
	if err != nil {
		if ve, ok := err.(ValidationError); ok {
			errs = append(errs, ve)
		} else {
			errs = append(errs, ValidationError{Field: FieldCategory, Message: err.Error()})
		}
	} else {
		rec.CategoryID = cat.ID
		if warn != "" {
			warnings = append(warnings, warn)
		}
	}

	if len(errs) > 0 {
		return rec, warnings, errs
	}
	return rec, warnings, nil
}

func parseNonNegativePrice(s string) (decimal.Decimal, error) {
	price, err := ParsePrice(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid price")
	}
	if price.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("price must be zero or greater")
	}
	return price, nil
}

// text returns a scalar field as a cleaned string. JSON numbers and booleans
// are formatted; arrays and objects are rejected.
func (r RawRow) text(field string) (string, error) {
	v, ok := r.Fields[field]
	if !ok || v == nil {
		return "", nil
	}
	switch t := v.(type) {
	case string:
		return cleanValue(t), nil
	case []any, []string, map[string]any:
		return "", fmt.Errorf("must be a single value")
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", fmt.Errorf("unsupported value type %T", v)
	}
	return strings.TrimSpace(s), nil
}

// list returns a list field. JSON arrays are used as-is; strings go through ParseList.
func (r RawRow) list(field string) ([]string, error) {
	v, ok := r.Fields[field]
	if !ok || v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok {
		return ParseList(s), nil
	}
	items, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil, fmt.Errorf("must be a list or a ';' separated string")
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out, nil
}
