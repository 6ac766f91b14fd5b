package types

import "github.com/shopspring/decimal"

// ValidationRules is the type-dependent rule bag attached to a customization option.
// Text options use MaxLength, Pattern and Price; multi-select options use MaxSelections and PricePerItem.
type ValidationRules struct {
	MaxLength     *int             `json:"max_length,omitempty"`
	Pattern       *string          `json:"pattern,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	MaxSelections *int             `json:"max_selections,omitempty"`
	PricePerItem  *decimal.Decimal `json:"price_per_item,omitempty"`
}

// FlatPrice returns the text-option price, or zero when unset.
func (r *ValidationRules) FlatPrice() decimal.Decimal {
	if r == nil || r.Price == nil {
		return decimal.Zero
	}
	return *r.Price
}

// HasFlatPrice reports whether a text-option price is configured.
func (r *ValidationRules) HasFlatPrice() bool {
	return r != nil && r.Price != nil && !r.Price.IsZero()
}

// ItemPrice returns the per-item multi-select price, or zero when unset.
func (r *ValidationRules) ItemPrice() decimal.Decimal {
	if r == nil || r.PricePerItem == nil {
		return decimal.Zero
	}
	return *r.PricePerItem
}

// SelectionLimit returns max_selections, or 0 when unlimited.
func (r *ValidationRules) SelectionLimit() int {
	if r == nil || r.MaxSelections == nil {
		return 0
	}
	return *r.MaxSelections
}

// LengthLimit returns max_length, or 0 when unlimited.
func (r *ValidationRules) LengthLimit() int {
	if r == nil || r.MaxLength == nil {
		return 0
	}
	return *r.MaxLength
}

// PatternString returns the configured regex, or "" when none.
func (r *ValidationRules) PatternString() string {
	if r == nil || r.Pattern == nil {
		return ""
	}
	return *r.Pattern
}
