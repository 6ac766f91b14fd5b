package customization

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/atelier-storefront/pkg/enums"
	"github.com/angelmondragon/atelier-storefront/pkg/money"
)

const basePriceLabel = "Base Price"

// Calculate prices selections against schema. Selections for options the schema does not
// know are skipped, as are zero-cost choices.
func Calculate(base decimal.Decimal, selections Selections, schema Schema) PriceBreakdown {
	lines := []PriceLine{{Label: basePriceLabel, Amount: base}}
	cost := money.Zero

	for _, e := range selections.Entries() {
		opt, ok := schema.Option(e.OptionID)
		if !ok {
			continue
		}
		label, amount := priceLine(opt, e.Selection)
		if !amount.IsPositive() {
			continue
		}
		lines = append(lines, PriceLine{Label: label, Amount: amount})
		cost = cost.Add(amount)
	}

	return PriceBreakdown{
		BasePrice:         base,
		CustomizationCost: cost,
		TotalPrice:        base.Add(cost),
		Breakdown:         lines,
	}
}

// SelectionPrice is the amount a selection contributes for opt.
func SelectionPrice(opt Option, sel Selection) decimal.Decimal {
	_, amount := priceLine(opt, sel)
	return amount
}

func priceLine(opt Option, sel Selection) (string, decimal.Decimal) {
	switch opt.Type {
	case enums.OptionTypeText:
		if sel.Value == "" || !opt.Rules.HasFlatPrice() {
			return opt.DisplayName, money.Zero
		}
		return opt.DisplayName, opt.Rules.FlatPrice()
	case enums.OptionTypeMultiSelect:
		n := len(sel.Values)
		if n == 0 {
			return opt.DisplayName, money.Zero
		}
		amount := opt.Rules.ItemPrice().Mul(decimal.NewFromInt(int64(n)))
		return fmt.Sprintf("%s (%d)", opt.DisplayName, n), amount
	default:
		v, ok := opt.Value(sel.Value)
		if !ok {
			return opt.DisplayName, money.Zero
		}
		return v.DisplayName, v.PriceModifier
	}
}
