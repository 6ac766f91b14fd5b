// Package money formats and normalizes the decimal amounts used across the storefront.
//
// Importing the package switches decimal JSON encoding to bare numbers so API payloads carry
// prices as numbers rather than quoted strings.
package money

import (
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Zero is the additive identity for currency amounts.
var Zero = decimal.Zero

// FromFloat converts a float dollar amount to a two-place decimal.
func FromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// FromCents converts integer cents to dollars.
func FromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Shift(-2)
}

// FormatPrice renders an amount as "$123.45".
func FormatPrice(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Neg().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}

// FormatPriceModifier renders an option delta: "Free" for zero, "+$12.00" otherwise.
func FormatPriceModifier(amount decimal.Decimal) string {
	if amount.IsZero() {
		return "Free"
	}
	if amount.IsNegative() {
		return FormatPrice(amount)
	}
	return "+" + FormatPrice(amount)
}

// Sum adds the amounts in order.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount)
	}
	return total
}
