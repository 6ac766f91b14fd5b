package customization

import (
	"strings"

	"github.com/angelmondragon/atelier-storefront/pkg/enums"
)

// FormatSummary turns selections into display rows in selection order. Selections whose
// option is gone from the schema, or whose value is empty, produce no row.
func FormatSummary(selections Selections, schema Schema) []SummaryItem {
	items := []SummaryItem{}

	for _, e := range selections.Entries() {
		opt, ok := schema.Option(e.OptionID)
		sel := e.Selection
		if !ok || sel.IsEmpty() {
			continue
		}

		switch opt.Type {
		case enums.OptionTypeText:
			items = append(items, SummaryItem{
				Label: opt.DisplayName,
				Value: `"` + sel.Value + `"`,
				Price: opt.Rules.FlatPrice(),
			})
		case enums.OptionTypeMultiSelect:
			names := make([]string, 0, len(sel.Values))
			for _, raw := range sel.Values {
				if v, ok := opt.Value(raw); ok {
					names = append(names, v.DisplayName)
				} else {
					names = append(names, raw)
				}
			}
			items = append(items, SummaryItem{
				Label: opt.DisplayName,
				Value: strings.Join(names, ", "),
				Price: sel.Price,
			})
		default:
			v, ok := opt.Value(sel.Value)
			if !ok {
				continue
			}
			items = append(items, SummaryItem{
				Label: opt.DisplayName,
				Value: v.DisplayName,
				Price: v.PriceModifier,
			})
		}
	}

	return items
}
