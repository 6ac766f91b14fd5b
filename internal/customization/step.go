package customization

import "github.com/angelmondragon/atelier-storefront/pkg/enums"

// Step is a wizard position, 1 through 4.
type Step int

const (
	Step1MetalType Step = 1
	Step2Details   Step = 2
	Step3Engraving Step = 3
	Step4Summary   Step = 4

	FirstStep = Step1MetalType
	LastStep  = Step4Summary
)

const (
	MetalOptionID     = "metal_type"
	EngravingOptionID = "engraving"
)

// detailOptionIDs are the category-specific options collected on step 2.
var detailOptionIDs = []string{
	"ring_size",
	"gemstone",
	"chain_length",
	"pendant_option",
	"clasp_type",
	"bracelet_size",
	"charms",
}

var detailTitles = map[enums.ProductCategory]string{
	enums.ProductCategoryRings:     "Size & Gemstone",
	enums.ProductCategoryNecklaces: "Chain & Details",
	enums.ProductCategoryBracelets: "Size & Charms",
}

// Valid reports whether s is within the wizard.
func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

// Owns reports whether the option is collected on this step.
func (s Step) Owns(optionID string) bool {
	switch s {
	case Step1MetalType:
		return optionID == MetalOptionID
	case Step2Details:
		for _, id := range detailOptionIDs {
			if id == optionID {
				return true
			}
		}
		return false
	case Step3Engraving:
		return optionID == EngravingOptionID
	default:
		return false
	}
}

// Options returns the schema options collected on this step, in schema order.
func (s Step) Options(schema Schema) []Option {
	var out []Option
	for _, opt := range schema.Options {
		if s.Owns(opt.ID) {
			out = append(out, opt)
		}
	}
	return out
}

// Title is the heading shown for the step.
func (s Step) Title(schema Schema) string {
	switch s {
	case Step1MetalType:
		if opt, ok := schema.Option(MetalOptionID); ok {
			return opt.DisplayName
		}
		return "Metal Type"
	case Step2Details:
		if title, ok := detailTitles[schema.Category]; ok {
			return title
		}
		return "Details"
	case Step3Engraving:
		if opt, ok := schema.Option(EngravingOptionID); ok {
			return opt.DisplayName
		}
		return "Engraving"
	default:
		return "Review Your Customization"
	}
}
