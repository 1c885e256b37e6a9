package catalog

import (
	"strings"

	"github.com/shoestock/backend/internal/domain/shared"
)

// Reference entities are small name tables that product rows point into.
// Each is created on first mention and looked up case-insensitively, so a
// sheet that spells a brand "nike" and another "Nike" share one row.

// ProductType is a top-level product category, e.g. "Взуття".
type ProductType struct {
	shared.BaseEntity
	Name string
}

// Subtype is a category refinement, e.g. "Кросівки".
type Subtype struct {
	shared.BaseEntity
	Name string
}

// Brand is a manufacturer name.
type Brand struct {
	shared.BaseEntity
	Name string
}

// Color is a product color name.
type Color struct {
	shared.BaseEntity
	Name string
}

// Country is a country of origin with its ISO 3166-1 alpha-2 code.
type Country struct {
	shared.BaseEntity
	Name string
	Code string
}

// Condition describes the physical state of an item, e.g. "Нове".
type Condition struct {
	shared.BaseEntity
	Name string
}

// ProductStatus is the sale state of a catalog entry, e.g. "Не продано".
type ProductStatus struct {
	shared.BaseEntity
	Name string
}

// DefaultProductStatus is assigned to entries created from product sheets.
const DefaultProductStatus = "Не продано"

// NewReferenceName normalizes a reference name for storage: trimmed, with
// the original casing of its first mention preserved.
func NewReferenceName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
