package customization

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/atelier-storefront/pkg/enums"
	"github.com/angelmondragon/atelier-storefront/pkg/types"
)

// Product is the catalog snapshot a session is opened for.
type Product struct {
	ID           int64                 `json:"id"`
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	Price        decimal.Decimal       `json:"price"`
	Image        string                `json:"image"`
	Category     enums.ProductCategory `json:"category"`
	Material     enums.ProductMaterial `json:"material"`
	Customizable bool                  `json:"customizable"`
}

// OptionValue is one choice of a select or multi-select option.
type OptionValue struct {
	Value         string          `json:"value"`
	DisplayName   string          `json:"display_name"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
	Description   *string         `json:"description,omitempty"`
}

// Option is one customizable attribute of a category.
type Option struct {
	ID          string                 `json:"option_id"`
	DisplayName string                 `json:"display_name"`
	Type        enums.OptionType       `json:"option_type"`
	Required    bool                   `json:"required"`
	Values      []OptionValue          `json:"values"`
	Rules       *types.ValidationRules `json:"validation_rules,omitempty"`
	Order       int                    `json:"order"`
	HelpText    *string                `json:"help_text,omitempty"`
}

// Value looks up a choice by its raw value.
func (o Option) Value(raw string) (OptionValue, bool) {
	for _, v := range o.Values {
		if v.Value == raw {
			return v, true
		}
	}
	return OptionValue{}, false
}

// Schema is the customization configuration of one category; Options are in display order.
type Schema struct {
	Category enums.ProductCategory `json:"category"`
	Options  []Option              `json:"options"`
}

// Option looks up an option by id.
func (s Schema) Option(id string) (Option, bool) {
	for _, o := range s.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Selection is the chosen value of one option plus the price it contributes.
// Multi-select selections carry Values; the others carry Value.
type Selection struct {
	Value  string
	Values []string
	Multi  bool
	Price  decimal.Decimal
}

// IsEmpty reports whether the selection carries nothing.
func (s Selection) IsEmpty() bool {
	if s.Multi {
		return len(s.Values) == 0
	}
	return s.Value == ""
}

type selectionJSON struct {
	Value json.RawMessage `json:"value"`
	Price decimal.Decimal `json:"price"`
}

func (s Selection) MarshalJSON() ([]byte, error) {
	var value any = s.Value
	if s.Multi {
		values := s.Values
		if values == nil {
			values = []string{}
		}
		value = values
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(selectionJSON{Value: raw, Price: s.Price})
}

func (s *Selection) UnmarshalJSON(data []byte) error {
	var wire selectionJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*s = Selection{Price: wire.Price}
	trimmed := bytes.TrimSpace(wire.Value)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '[' {
		s.Multi = true
		return json.Unmarshal(trimmed, &s.Values)
	}
	return json.Unmarshal(trimmed, &s.Value)
}

// Entry is one (option id, selection) pair in insertion order.
type Entry struct {
	OptionID  string
	Selection Selection
}

// Selections maps option ids to selections and remembers insertion order.
// Overwriting keeps the original position; deleting and re-adding moves the key to the end.
// The zero value is ready to use.
type Selections struct {
	order []string
	items map[string]Selection
}

func (s *Selections) Set(optionID string, sel Selection) {
	if s.items == nil {
		s.items = make(map[string]Selection)
	}
	if _, ok := s.items[optionID]; !ok {
		s.order = append(s.order, optionID)
	}
	s.items[optionID] = sel
}

func (s *Selections) Delete(optionID string) {
	if _, ok := s.items[optionID]; !ok {
		return
	}
	delete(s.items, optionID)
	for i, id := range s.order {
		if id == optionID {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
}

func (s Selections) Get(optionID string) (Selection, bool) {
	sel, ok := s.items[optionID]
	return sel, ok
}

func (s Selections) Len() int {
	return len(s.order)
}

// Entries returns the selections in insertion order.
func (s Selections) Entries() []Entry {
	out := make([]Entry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, Entry{OptionID: id, Selection: s.items[id]})
	}
	return out
}

// Clone returns an independent copy.
func (s Selections) Clone() Selections {
	var out Selections
	for _, e := range s.Entries() {
		sel := e.Selection
		if sel.Values != nil {
			sel.Values = append([]string(nil), sel.Values...)
		}
		out.Set(e.OptionID, sel)
	}
	return out
}

func (s Selections) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.OptionID)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Selection)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Selections) UnmarshalJSON(data []byte) error {
	*s = Selections{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("selections: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("selections: expected key, got %v", tok)
		}
		var sel Selection
		if err := dec.Decode(&sel); err != nil {
			return fmt.Errorf("selections[%s]: %w", key, err)
		}
		s.Set(key, sel)
	}
	_, err = dec.Token()
	return err
}

// PriceLine is one row of a price breakdown.
type PriceLine struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// PriceBreakdown is the priced view of a set of selections. The first line is always the base price.
type PriceBreakdown struct {
	BasePrice         decimal.Decimal `json:"base_price"`
	CustomizationCost decimal.Decimal `json:"customization_cost"`
	TotalPrice        decimal.Decimal `json:"total_price"`
	Breakdown         []PriceLine     `json:"breakdown"`
}

// SummaryItem is a display-ready (label, value, price) triple.
type SummaryItem struct {
	Label string          `json:"label"`
	Value string          `json:"value"`
	Price decimal.Decimal `json:"price"`
}

// LineItem is the finalized customized product handed to the cart. It is never mutated.
type LineItem struct {
	ID                string          `json:"id"`
	Product           Product         `json:"product"`
	BasePrice         decimal.Decimal `json:"base_price"`
	CustomizationCost decimal.Decimal `json:"customization_cost"`
	TotalPrice        decimal.Decimal `json:"total_price"`
	Customizations    Selections      `json:"customizations"`
	Summary           []SummaryItem   `json:"customization_summary"`
}

// SessionState is the persisted form of an in-progress session.
type SessionState struct {
	ProductID      int64      `json:"productId"`
	Step           Step       `json:"step"`
	Customizations Selections `json:"customizations"`
	LastModified   int64      `json:"lastModified"`
}
