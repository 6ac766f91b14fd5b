package customization

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/atelier-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/atelier-storefront/pkg/errors"
	"github.com/angelmondragon/atelier-storefront/pkg/types"
)

const engravingPattern = `^[a-zA-Z0-9\s\.\,\!\?\'\-]*$`

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func ringSchema() Schema {
	return Schema{
		Category: enums.ProductCategoryRings,
		Options: []Option{
			{
				ID: "metal_type", DisplayName: "Metal Type", Type: enums.OptionTypeSelect, Required: true, Order: 1,
				Values: []OptionValue{
					{Value: "sterling_silver", DisplayName: "Sterling Silver", PriceModifier: dec(0)},
					{Value: "gold", DisplayName: "Gold", PriceModifier: dec(20)},
					{Value: "platinum", DisplayName: "Platinum", PriceModifier: dec(500)},
				},
			},
			{
				ID: "ring_size", DisplayName: "Ring Size", Type: enums.OptionTypeSelect, Required: true, Order: 2,
				Values: []OptionValue{
					{Value: "6.0", DisplayName: "Size 6.0", PriceModifier: dec(0)},
					{Value: "7.0", DisplayName: "Size 7.0", PriceModifier: dec(0)},
				},
			},
			{
				ID: "gemstone", DisplayName: "Gemstone", Type: enums.OptionTypeSelect, Required: false, Order: 3,
				Values: []OptionValue{
					{Value: "none", DisplayName: "No Gemstone", PriceModifier: dec(0)},
					{Value: "diamond", DisplayName: "Diamond", PriceModifier: dec(300)},
				},
			},
			{
				ID: "engraving", DisplayName: "Engraving", Type: enums.OptionTypeText, Required: false, Order: 4,
				HelpText: strPtr("Inside band, max 20 characters"),
				Rules: &types.ValidationRules{
					MaxLength: intPtr(20),
					Pattern:   strPtr(engravingPattern),
					Price:     decPtr(50),
				},
			},
		},
	}
}

func braceletSchema() Schema {
	return Schema{
		Category: enums.ProductCategoryBracelets,
		Options: []Option{
			{
				ID: "metal_type", DisplayName: "Metal Type", Type: enums.OptionTypeSelect, Required: true, Order: 1,
				Values: []OptionValue{
					{Value: "sterling_silver", DisplayName: "Sterling Silver", PriceModifier: dec(0)},
					{Value: "gold", DisplayName: "Gold", PriceModifier: dec(120)},
				},
			},
			{
				ID: "bracelet_size", DisplayName: "Bracelet Size", Type: enums.OptionTypeSelect, Required: true, Order: 2,
				Values: []OptionValue{{Value: `7"`, DisplayName: "7 inches", PriceModifier: dec(0)}},
			},
			{
				ID: "charms", DisplayName: "Bracelet Charms", Type: enums.OptionTypeMultiSelect, Required: false, Order: 3,
				Rules: &types.ValidationRules{MaxSelections: intPtr(3), PricePerItem: decPtr(50)},
				Values: []OptionValue{
					{Value: "heart", DisplayName: "Heart Charm", PriceModifier: dec(50)},
					{Value: "star", DisplayName: "Star Charm", PriceModifier: dec(50)},
					{Value: "moon", DisplayName: "Moon Charm", PriceModifier: dec(50)},
					{Value: "key", DisplayName: "Key Charm", PriceModifier: dec(50)},
				},
			},
			{
				ID: "engraving", DisplayName: "Engraving", Type: enums.OptionTypeText, Required: false, Order: 4,
				Rules: &types.ValidationRules{MaxLength: intPtr(10), Pattern: strPtr(engravingPattern), Price: decPtr(35)},
			},
		},
	}
}

func ringProduct() Product {
	return Product{ID: 2, Name: "Rose Gold Engagement Ring", Price: dec(100), Category: enums.ProductCategoryRings, Customizable: true}
}

func braceletProduct() Product {
	return Product{ID: 10, Name: "Rose Gold Bangle Set", Price: dec(950), Category: enums.ProductCategoryBracelets, Customizable: true}
}

type stubCatalog struct {
	mu       sync.Mutex
	schemas  map[enums.ProductCategory]Schema
	products map[int64]Product
	calls    int
	err      error
	gate     chan struct{}
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		schemas: map[enums.ProductCategory]Schema{
			enums.ProductCategoryRings:     ringSchema(),
			enums.ProductCategoryBracelets: braceletSchema(),
		},
		products: map[int64]Product{
			ringProduct().ID:     ringProduct(),
			braceletProduct().ID: braceletProduct(),
			4:                    {ID: 4, Name: "Sapphire Eternity Band", Price: dec(450), Category: enums.ProductCategoryRings},
		},
	}
}

func (s *stubCatalog) Schema(_ context.Context, category enums.ProductCategory) (Schema, error) {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return Schema{}, s.err
	}
	schema, ok := s.schemas[category]
	if !ok {
		return Schema{}, errNotFound("schema")
	}
	return schema, nil
}

func (s *stubCatalog) Product(_ context.Context, id int64) (Product, error) {
	p, ok := s.products[id]
	if !ok {
		return Product{}, errNotFound("product")
	}
	return p, nil
}

func (s *stubCatalog) fetches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type recordingCart struct {
	mu    sync.Mutex
	items []LineItem
	err   error
}

func (c *recordingCart) AddCustomized(_ context.Context, _ string, item LineItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.items = append(c.items, item)
	return nil
}

func errNotFound(what string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, what+" not found")
}
