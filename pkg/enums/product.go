package enums

import "fmt"

// ProductCategory represents the jewelry categories supported by the catalog.
type ProductCategory string

const (
	ProductCategoryRings     ProductCategory = "rings"
	ProductCategoryNecklaces ProductCategory = "necklaces"
	ProductCategoryBracelets ProductCategory = "bracelets"
)

var validProductCategories = []ProductCategory{
	ProductCategoryRings,
	ProductCategoryNecklaces,
	ProductCategoryBracelets,
}

// ProductCategories returns the categories in display order.
func ProductCategories() []ProductCategory {
	return append([]ProductCategory(nil), validProductCategories...)
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// ProductMaterial is the primary metal a catalog piece is made of.
type ProductMaterial string

const (
	ProductMaterialSilver    ProductMaterial = "Silver"
	ProductMaterialGold      ProductMaterial = "Gold"
	ProductMaterialRoseGold  ProductMaterial = "Rose Gold"
	ProductMaterialWhiteGold ProductMaterial = "White Gold"
)

var validProductMaterials = []ProductMaterial{
	ProductMaterialSilver,
	ProductMaterialGold,
	ProductMaterialRoseGold,
	ProductMaterialWhiteGold,
}

// ProductMaterials returns the materials in display order.
func ProductMaterials() []ProductMaterial {
	return append([]ProductMaterial(nil), validProductMaterials...)
}

// String implements fmt.Stringer.
func (m ProductMaterial) String() string {
	return string(m)
}

// IsValid reports whether the value is a known ProductMaterial.
func (m ProductMaterial) IsValid() bool {
	for _, candidate := range validProductMaterials {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseProductMaterial converts raw input into a ProductMaterial.
func ParseProductMaterial(value string) (ProductMaterial, error) {
	for _, candidate := range validProductMaterials {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product material %q", value)
}

// PriceCeilings lists the max-price buckets offered by the listing filter, in dollars.
var PriceCeilings = []int{500, 1000, 1500, 2000}

// IsValidPriceCeiling reports whether value is one of the offered max-price buckets.
func IsValidPriceCeiling(value int) bool {
	for _, candidate := range PriceCeilings {
		if candidate == value {
			return true
		}
	}
	return false
}
