package cart

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/atelier-storefront/internal/customization"
	"github.com/angelmondragon/atelier-storefront/pkg/enums"
)

// Item is one cart line. Regular lines are keyed by product id and merge on re-add;
// customized lines carry their own id and a fixed quantity of one.
type Item struct {
	ID            string                `json:"id"`
	ProductID     int64                 `json:"product_id"`
	Name          string                `json:"name"`
	Image         string                `json:"image"`
	Category      enums.ProductCategory `json:"category"`
	Material      enums.ProductMaterial `json:"material"`
	Price         decimal.Decimal       `json:"price"`
	Quantity      int                   `json:"quantity"`
	Customized    bool                  `json:"customized"`
	Customization *Customization        `json:"customization,omitempty"`
}

// Customization is the frozen configuration of a customized line.
type Customization struct {
	BasePrice         decimal.Decimal             `json:"base_price"`
	CustomizationCost decimal.Decimal             `json:"customization_cost"`
	Selections        customization.Selections    `json:"customizations"`
	Summary           []customization.SummaryItem `json:"customization_summary"`
}

// LineTotal is unit price times quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the priced view of a client's cart.
type Cart struct {
	Items     []Item          `json:"items"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

func newCart(items []Item) Cart {
	if items == nil {
		items = []Item{}
	}
	c := Cart{Items: items, Total: decimal.Zero}
	for _, item := range items {
		c.ItemCount += item.Quantity
		c.Total = c.Total.Add(item.LineTotal())
	}
	return c
}
