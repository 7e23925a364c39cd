package core

// fields.go maps the bilingual column headers and JSON keys accepted by the
// importer onto canonical field names.
//
// Headers are folded (lowercased, accents stripped, spaces and hyphens turned
// into underscores) before lookup, so "Precio", "PRECIO" and "precio" all
// resolve to FieldPrice.

import "strings"

// Canonical field names. These are also the headers written by the exporter.
const (
	FieldName              = "name"
	FieldSlug              = "slug"
	FieldSKU               = "sku"
	FieldPrice             = "price"
	FieldCompareAtPrice    = "compare_at_price"
	FieldInventoryQuantity = "inventory_quantity"
	FieldStatus            = "status"
	FieldCategoryID        = "category_id"
	FieldCategory          = "category"
	FieldDescription       = "description"
	FieldShortDescription  = "short_description"
	FieldBrand             = "brand"
	FieldImageURL          = "image_url"
	FieldGallery1          = "gallery_1"
	FieldGallery2          = "gallery_2"
	FieldGallery3          = "gallery_3"
	FieldGallery4          = "gallery_4"
	FieldGallery           = "gallery"
	FieldSkinType          = "skin_type"
	FieldBenefits          = "benefits"
	FieldCertifications    = "certifications"
	FieldIngredients       = "ingredients"
	FieldFeatured          = "featured"
)

// MaxGalleryImages is the number of gallery slots a product has.
const MaxGalleryImages = 4

// GalleryFields lists the gallery slots in order.
var GalleryFields = []string{FieldGallery1, FieldGallery2, FieldGallery3, FieldGallery4}

// fieldAliases maps folded header names to canonical field names.
var fieldAliases = map[string]string{
	"nombre": FieldName,
	"name":   FieldName,

	"slug": FieldSlug,

	"sku":    FieldSKU,
	"codigo": FieldSKU,

	"precio": FieldPrice,
	"price":  FieldPrice,

	"precio_comparacion": FieldCompareAtPrice,
	"precio_anterior":    FieldCompareAtPrice,
	"compare_at_price":   FieldCompareAtPrice,

	"inventario":         FieldInventoryQuantity,
	"cantidad":           FieldInventoryQuantity,
	"stock":              FieldInventoryQuantity,
	"inventory":          FieldInventoryQuantity,
	"inventory_quantity": FieldInventoryQuantity,

	"estado": FieldStatus,
	"status": FieldStatus,

	"categoria_id": FieldCategoryID,
	"category_id":  FieldCategoryID,
	"categoria":    FieldCategory,
	"category":     FieldCategory,

	"descripcion":       FieldDescription,
	"description":       FieldDescription,
	"descripcion_corta": FieldShortDescription,
	"short_description": FieldShortDescription,

	"marca": FieldBrand,
	"brand": FieldBrand,

	"imagen":     FieldImageURL,
	"imagen_url": FieldImageURL,
	"image":      FieldImageURL,
	"image_url":  FieldImageURL,

	"galeria_1": FieldGallery1,
	"galeria_2": FieldGallery2,
	"galeria_3": FieldGallery3,
	"galeria_4": FieldGallery4,
	"gallery_1": FieldGallery1,
	"gallery_2": FieldGallery2,
	"gallery_3": FieldGallery3,
	"gallery_4": FieldGallery4,
	"galeria":   FieldGallery,
	"gallery":   FieldGallery,

	"tipo_piel":    FieldSkinType,
	"tipo_de_piel": FieldSkinType,
	"skin_type":    FieldSkinType,

	"beneficios": FieldBenefits,
	"benefits":   FieldBenefits,

	"certificaciones": FieldCertifications,
	"certifications":  FieldCertifications,

	"ingredientes": FieldIngredients,
	"ingredients":  FieldIngredients,

	"destacado": FieldFeatured,
	"featured":  FieldFeatured,
}

// CanonicalField resolves a header or JSON key to its canonical field name.
// A trailing "*" (the required-column marker in templates) is ignored.
func CanonicalField(header string) (string, bool) {
	h := strings.TrimSpace(strings.TrimSuffix(CleanCell(header), "*"))
	f, ok := fieldAliases[foldKey(h)]
	return f, ok
}

// ImportColumn documents one importable column for templates.
type ImportColumn struct {
	Name        string
	Alias       string // Spanish header accepted as an alternative
	Required    bool
	Type        string
	Description string
	Example     string
}

// ImportColumns lists the columns in template order.
var ImportColumns = []ImportColumn{
	{Name: FieldName, Alias: "nombre", Required: true, Type: "text", Description: "Product name", Example: "Crema Hidratante Rosa Mosqueta"},
	{Name: FieldSlug, Alias: "slug", Type: "text", Description: "URL identifier, derived from name when empty", Example: "crema-hidratante-rosa-mosqueta"},
	{Name: FieldSKU, Alias: "codigo", Type: "text", Description: "Stock keeping unit", Example: "CRM-RM-050"},
	{Name: FieldPrice, Alias: "precio", Required: true, Type: "number", Description: "Price, zero or greater", Example: "24.90"},
	{Name: FieldCompareAtPrice, Alias: "precio_anterior", Type: "number", Description: "Previous price shown struck through", Example: "29.90"},
	{Name: FieldInventoryQuantity, Alias: "inventario", Type: "integer", Description: "Units in stock, defaults to 0", Example: "120"},
	{Name: FieldStatus, Alias: "estado", Type: "draft|active|archived", Description: "Publication state, defaults to draft", Example: "active"},
	{Name: FieldCategoryID, Alias: "categoria_id", Type: "uuid", Description: "Category id (use this OR category)", Example: ""},
	{Name: FieldCategory, Alias: "categoria", Type: "text", Description: "Category name or slug, matched case-insensitively", Example: "Facial"},
	{Name: FieldDescription, Alias: "descripcion", Type: "text", Description: "Long description", Example: ""},
	{Name: FieldShortDescription, Alias: "descripcion_corta", Type: "text", Description: "Short description", Example: ""},
	{Name: FieldBrand, Alias: "marca", Type: "text", Description: "Brand", Example: ""},
	{Name: FieldImageURL, Alias: "imagen", Type: "url", Description: "Main image URL", Example: ""},
	{Name: FieldGallery1, Alias: "galeria_1", Type: "url", Description: "Gallery image 1", Example: ""},
	{Name: FieldGallery2, Alias: "galeria_2", Type: "url", Description: "Gallery image 2", Example: ""},
	{Name: FieldGallery3, Alias: "galeria_3", Type: "url", Description: "Gallery image 3", Example: ""},
	{Name: FieldGallery4, Alias: "galeria_4", Type: "url", Description: "Gallery image 4", Example: ""},
	{Name: FieldSkinType, Alias: "tipo_piel", Type: "list", Description: "JSON array or values separated by ;", Example: "seca;mixta"},
	{Name: FieldBenefits, Alias: "beneficios", Type: "list", Description: "JSON array or values separated by ;", Example: "hidrata;regenera"},
	{Name: FieldCertifications, Alias: "certificaciones", Type: "list", Description: "JSON array or values separated by ;", Example: "vegano"},
	{Name: FieldIngredients, Alias: "ingredientes", Type: "list", Description: "JSON array or values separated by ;", Example: `["rosa mosqueta","vitamina e"]`},
	{Name: FieldFeatured, Alias: "destacado", Type: "bool", Description: "yes/no, true/false, 1/0", Example: "no"},
}
