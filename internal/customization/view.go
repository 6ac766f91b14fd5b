package customization

import (
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/atelier-storefront/pkg/enums"
	"github.com/angelmondragon/atelier-storefront/pkg/money"
)

const (
	nextLabel     = "Next"
	completeLabel = "Add to Cart"
	backLabel     = "Back"
)

// View is what a client needs to render the wizard at its current step.
type View struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"`
	Step        int             `json:"step"`
	TotalSteps  int             `json:"total_steps"`
	StepTitle   string          `json:"step_title"`
	Options     []OptionView    `json:"options"`
	Price       PriceBreakdown  `json:"price"`
	TotalLabel  string          `json:"total_label"`
	Summary     []SummaryItem   `json:"summary,omitempty"`
	Navigation  NavigationView  `json:"navigation"`
	Completed   bool            `json:"completed"`
	Selections  Selections      `json:"selections"`
	BasePrice   decimal.Decimal `json:"base_price"`
}

// NavigationView describes the wizard buttons.
type NavigationView struct {
	CanGoBack bool   `json:"can_go_back"`
	BackLabel string `json:"back_label"`
	NextLabel string `json:"next_label"`
}

// OptionView is one option rendered for the current step.
type OptionView struct {
	ID          string      `json:"option_id"`
	DisplayName string      `json:"display_name"`
	Type        string      `json:"option_type"`
	Required    bool        `json:"required"`
	HelpText    string      `json:"help_text,omitempty"`
	Values      []ValueView `json:"values,omitempty"`

	// text options
	Text       string `json:"text,omitempty"`
	MaxLength  int    `json:"max_length,omitempty"`
	CharCount  int    `json:"char_count,omitempty"`
	PriceLabel string `json:"price_label,omitempty"`

	// multi-select options
	SelectedCount int `json:"selected_count,omitempty"`
	MaxSelections int `json:"max_selections,omitempty"`
}

// ValueView is one choice of a select or multi-select option.
type ValueView struct {
	Value       string `json:"value"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	PriceLabel  string `json:"price_label"`
	Selected    bool   `json:"selected"`
	Disabled    bool   `json:"disabled"`
}

// Project renders a snapshot. It has no side effects.
func Project(snap Snapshot) View {
	v := View{
		ProductID:   snap.Product.ID,
		ProductName: snap.Product.Name,
		Category:    snap.Product.Category.String(),
		Step:        int(snap.Step),
		TotalSteps:  int(LastStep),
		StepTitle:   snap.Step.Title(snap.Schema),
		Options:     []OptionView{},
		Price:       snap.Price,
		TotalLabel:  money.FormatPrice(snap.Price.TotalPrice),
		Completed:   snap.Completed,
		Selections:  snap.Selections,
		BasePrice:   snap.Product.Price,
		Navigation: NavigationView{
			CanGoBack: snap.Step > FirstStep,
			BackLabel: backLabel,
			NextLabel: nextLabel,
		},
	}
	if snap.Step == LastStep {
		v.Navigation.NextLabel = completeLabel
		v.Summary = FormatSummary(snap.Selections, snap.Schema)
	}

	for _, opt := range snap.Step.Options(snap.Schema) {
		v.Options = append(v.Options, projectOption(opt, snap.Selections))
	}
	return v
}

func projectOption(opt Option, selections Selections) OptionView {
	sel, _ := selections.Get(opt.ID)
	ov := OptionView{
		ID:          opt.ID,
		DisplayName: opt.DisplayName,
		Type:        opt.Type.String(),
		Required:    opt.Required,
	}
	if opt.HelpText != nil {
		ov.HelpText = *opt.HelpText
	}

	switch opt.Type {
	case enums.OptionTypeText:
		ov.Text = sel.Value
		ov.MaxLength = opt.Rules.LengthLimit()
		ov.CharCount = utf8.RuneCountInString(sel.Value)
		ov.PriceLabel = money.FormatPriceModifier(opt.Rules.FlatPrice())
	case enums.OptionTypeMultiSelect:
		limit := opt.Rules.SelectionLimit()
		chosen := make(map[string]bool, len(sel.Values))
		for _, raw := range sel.Values {
			chosen[raw] = true
		}
		ov.SelectedCount = len(sel.Values)
		ov.MaxSelections = limit
		full := limit > 0 && len(sel.Values) >= limit
		for _, val := range opt.Values {
			ov.Values = append(ov.Values, valueView(val, chosen[val.Value], full && !chosen[val.Value], opt.Rules.ItemPrice()))
		}
	default:
		for _, val := range opt.Values {
			ov.Values = append(ov.Values, valueView(val, sel.Value == val.Value, false, val.PriceModifier))
		}
	}
	return ov
}

func valueView(val OptionValue, selected, disabled bool, price decimal.Decimal) ValueView {
	vv := ValueView{
		Value:       val.Value,
		DisplayName: val.DisplayName,
		PriceLabel:  money.FormatPriceModifier(price),
		Selected:    selected,
		Disabled:    disabled,
	}
	if val.Description != nil {
		vv.Description = *val.Description
	}
	return vv
}
