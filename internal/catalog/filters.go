package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/angelmondragon/atelier-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/atelier-storefront/pkg/errors"
)

const (
	queryCategory      = "category"
	queryPriceMax      = "price_max"
	queryPriceMaxAlias = "price"
	queryMaterial      = "material"
	filterAll          = "all"
)

// Filters narrows the product listing. Nil fields do not filter.
type Filters struct {
	Category *enums.ProductCategory
	PriceMax *int
	Material *enums.ProductMaterial
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f.Category == nil && f.PriceMax == nil && f.Material == nil
}

// FiltersFromQuery reads listing filters from URL query parameters. Missing values and "all"
// leave a filter unset; "price" is accepted in place of "price_max".
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters

	if raw := queryValue(values, queryCategory); raw != "" {
		category, err := ParseCategory(raw)
		if err != nil {
			return Filters{}, err
		}
		f.Category = &category
	}

	rawPrice := queryValue(values, queryPriceMax)
	if rawPrice == "" {
		rawPrice = queryValue(values, queryPriceMaxAlias)
	}
	if rawPrice != "" {
		ceiling, err := strconv.Atoi(rawPrice)
		if err != nil || !enums.IsValidPriceCeiling(ceiling) {
			return Filters{}, pkgerrors.New(pkgerrors.CodeValidation, "Invalid price_max. Must be one of: "+joinInts(enums.PriceCeilings))
		}
		f.PriceMax = &ceiling
	}

	if raw := queryValue(values, queryMaterial); raw != "" {
		material, err := enums.ParseProductMaterial(raw)
		if err != nil {
			return Filters{}, pkgerrors.New(pkgerrors.CodeValidation, "Invalid material. Must be one of: "+joinMaterials())
		}
		f.Material = &material
	}

	return f, nil
}

// Query encodes the filters back into URL query parameters so listing state can be shared.
func (f Filters) Query() url.Values {
	values := url.Values{}
	if f.Category != nil {
		values.Set(queryCategory, f.Category.String())
	}
	if f.PriceMax != nil {
		values.Set(queryPriceMax, strconv.Itoa(*f.PriceMax))
	}
	if f.Material != nil {
		values.Set(queryMaterial, f.Material.String())
	}
	return values
}

// ParseCategory validates a category path or query value.
func ParseCategory(raw string) (enums.ProductCategory, error) {
	category, err := enums.ParseProductCategory(strings.TrimSpace(raw))
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "Invalid category. Must be one of: "+joinCategories())
	}
	return category, nil
}

func queryValue(values url.Values, key string) string {
	raw := strings.TrimSpace(values.Get(key))
	if strings.EqualFold(raw, filterAll) {
		return ""
	}
	return raw
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

func joinCategories() string {
	categories := enums.ProductCategories()
	parts := make([]string, len(categories))
	for i, c := range categories {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

func joinMaterials() string {
	materials := enums.ProductMaterials()
	parts := make([]string, len(materials))
	for i, m := range materials {
		parts[i] = m.String()
	}
	return strings.Join(parts, ", ")
}
