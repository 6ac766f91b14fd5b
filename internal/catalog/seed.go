package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/atelier-storefront/pkg/db/models"
	"github.com/angelmondragon/atelier-storefront/pkg/enums"
	"github.com/angelmondragon/atelier-storefront/pkg/types"
)

const engravingPattern = `^[a-zA-Z0-9\s\.\,\!\?\'\-]*$`

// Seeded ids are explicit, so the serial has to catch up before the next insert.
const resetProductSequence = `SELECT setval(pg_get_serial_sequence('products', 'id'), (SELECT MAX(id) FROM products))`

// SeedDefaults loads the storefront catalog and the customization configuration of every
// category. Products are upserted by id; option sets are replaced per category.
func SeedDefaults(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if err := repo.UpsertProducts(ctx, defaultProducts()); err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
		for category, options := range defaultOptions() {
			if err := repo.ReplaceOptions(ctx, category, options); err != nil {
				return fmt.Errorf("seed %s options: %w", category, err)
			}
		}
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec(resetProductSequence).Error; err != nil {
				return fmt.Errorf("reset product sequence: %w", err)
			}
		}
		return nil
	})
}

func defaultProducts() []models.Product {
	p := func(id int64, name string, price int64, category enums.ProductCategory, material enums.ProductMaterial, image, description string, customizable bool) models.Product {
		return models.Product{
			ID:           id,
			Name:         name,
			Description:  description,
			Price:        decimal.NewFromInt(price),
			Image:        image,
			Category:     category,
			Material:     material,
			Customizable: customizable,
		}
	}
	const img = "https://images.unsplash.com/"
	return []models.Product{
		p(1, "Eternal Brilliance Diamond Ring", 3299, enums.ProductCategoryRings, enums.ProductMaterialWhiteGold,
			img+"photo-1605100804763-247f67b3557e?w=500",
			"Exquisite 18k white gold ring featuring a stunning 1.5ct round brilliant diamond.", true),
		p(2, "Rose Gold Engagement Ring", 899, enums.ProductCategoryRings, enums.ProductMaterialRoseGold,
			img+"photo-1611591437281-460bfbe1220a?w=500",
			"Romantic 14k rose gold ring with delicate pavé diamonds and center stone.", true),
		p(3, "Vintage Emerald Ring", 1299, enums.ProductCategoryRings, enums.ProductMaterialGold,
			img+"photo-1515562141207-7a88fb7ce338?w=500",
			"Art deco inspired 18k yellow gold ring with natural emerald and diamond accents.", false),
		p(4, "Sapphire Eternity Band", 450, enums.ProductCategoryRings, enums.ProductMaterialSilver,
			img+"photo-1603561591411-07134e71a2a9?w=500",
			"Classic platinum eternity band adorned with vibrant blue sapphires.", false),
		p(5, "Diamond Tennis Necklace", 8999, enums.ProductCategoryNecklaces, enums.ProductMaterialWhiteGold,
			img+"photo-1599643478518-a784e5dc4c8f?w=500",
			"Timeless 18k white gold tennis necklace with 5 carats of brilliant diamonds.", false),
		p(6, "Pearl Cascade Necklace", 750, enums.ProductCategoryNecklaces, enums.ProductMaterialGold,
			img+"photo-1506630448388-4e683c67ddb0?w=500",
			"Elegant South Sea pearl necklace with 14k gold clasp and accents.", true),
		p(7, "Emerald Drop Necklace", 1650, enums.ProductCategoryNecklaces, enums.ProductMaterialGold,
			img+"photo-1535632066927-ab7c9ab60908?w=500",
			"Sophisticated 18k yellow gold necklace featuring a stunning emerald pendant.", true),
		p(8, "Gold Chain Statement Necklace", 350, enums.ProductCategoryNecklaces, enums.ProductMaterialGold,
			img+"photo-1611591437281-460bfbe1220a?w=500",
			"Bold 14k gold chain necklace with modern geometric design.", false),
		p(9, "Diamond Tennis Bracelet", 4299, enums.ProductCategoryBracelets, enums.ProductMaterialWhiteGold,
			img+"photo-1611955167811-4711904bb9f8?w=500",
			"Classic 18k white gold tennis bracelet with 3 carats of diamonds.", false),
		p(10, "Rose Gold Bangle Set", 950, enums.ProductCategoryBracelets, enums.ProductMaterialRoseGold,
			img+"photo-1573408301185-9146fe634ad0?w=500",
			"Set of three delicate 14k rose gold bangles with diamond accents.", true),
		p(11, "Sapphire Link Bracelet", 1850, enums.ProductCategoryBracelets, enums.ProductMaterialSilver,
			img+"photo-1583292650898-7d22cd27ca6f?w=500",
			"Luxurious platinum bracelet featuring alternating sapphires and diamonds.", true),
		p(12, "Gold Cuff Bracelet", 650, enums.ProductCategoryBracelets, enums.ProductMaterialGold,
			img+"photo-1611591437281-460bfbe1220a?w=500",
			"Modern 18k yellow gold cuff with intricate hand-engraved details.", false),
		p(13, "Ruby Heart Necklace", 1150, enums.ProductCategoryNecklaces, enums.ProductMaterialWhiteGold,
			img+"photo-1515562141207-7a88fb7ce338?w=500",
			"Romantic 18k white gold necklace with heart-shaped ruby and diamond halo.", false),
		p(14, "Champagne Diamond Ring", 550, enums.ProductCategoryRings, enums.ProductMaterialRoseGold,
			img+"photo-1605100804763-247f67b3557e?w=500",
			"Unique 14k rose gold ring featuring a rare champagne diamond center stone.", false),
		p(15, "Pearl Bangle Bracelet", 425, enums.ProductCategoryBracelets, enums.ProductMaterialGold,
			img+"photo-1573408301185-9146fe634ad0?w=500",
			"Elegant 14k gold bangle adorned with freshwater pearls.", false),
	}
}

type valueSpec struct {
	value, display string
	modifier       int64
	description    string
}

func option(id, display string, kind enums.OptionType, required bool, order int, help string, rules *types.ValidationRules, values ...valueSpec) models.CustomizationOption {
	opt := models.CustomizationOption{
		OptionID:        id,
		DisplayName:     display,
		OptionType:      kind,
		Required:        required,
		SortOrder:       order,
		HelpText:        strPtr(help),
		ValidationRules: rules,
	}
	for i, v := range values {
		row := models.CustomizationOptionValue{
			Value:         v.value,
			DisplayName:   v.display,
			PriceModifier: decimal.NewFromInt(v.modifier),
			SortOrder:     i,
		}
		if v.description != "" {
			row.Description = strPtr(v.description)
		}
		opt.Values = append(opt.Values, row)
	}
	return opt
}

func engravingRules(maxLength int, price int64) *types.ValidationRules {
	pattern := engravingPattern
	p := decimal.NewFromInt(price)
	return &types.ValidationRules{MaxLength: &maxLength, Pattern: &pattern, Price: &p}
}

func ringSizes() []valueSpec {
	var sizes []valueSpec
	for tenths := 40; tenths <= 120; tenths += 5 {
		raw := fmt.Sprintf("%d.%d", tenths/10, tenths%10)
		sizes = append(sizes, valueSpec{value: raw, display: "Size " + raw})
	}
	return sizes
}

func defaultOptions() map[enums.ProductCategory][]models.CustomizationOption {
	maxCharms := 3
	charmPrice := decimal.NewFromInt(50)

	return map[enums.ProductCategory][]models.CustomizationOption{
		enums.ProductCategoryRings: {
			option("metal_type", "Metal Type", enums.OptionTypeSelect, true, 1, "Select the metal for your ring", nil,
				valueSpec{"sterling_silver", "Sterling Silver", 0, "Classic and affordable"},
				valueSpec{"gold", "Gold", 200, "Timeless 18k yellow gold"},
				valueSpec{"rose_gold", "Rose Gold", 250, "Romantic 14k rose gold"},
				valueSpec{"platinum", "Platinum", 500, "Premium and durable"},
			),
			option("ring_size", "Ring Size", enums.OptionTypeSelect, true, 2, "Select your ring size (US sizing)", nil,
				ringSizes()...),
			option("gemstone", "Gemstone", enums.OptionTypeSelect, false, 3, "Add a gemstone (optional)", nil,
				valueSpec{"none", "No Gemstone", 0, "Keep it simple"},
				valueSpec{"diamond", "Diamond", 300, "Classic brilliance"},
				valueSpec{"sapphire", "Sapphire", 150, "Deep blue elegance"},
				valueSpec{"emerald", "Emerald", 200, "Vibrant green"},
				valueSpec{"ruby", "Ruby", 180, "Passionate red"},
			),
			option("engraving", "Engraving", enums.OptionTypeText, false, 4, "Inside band, max 20 characters", engravingRules(20, 50)),
		},
		enums.ProductCategoryNecklaces: {
			option("metal_type", "Metal Type", enums.OptionTypeSelect, true, 1, "Select the metal for your necklace", nil,
				valueSpec{"sterling_silver", "Sterling Silver", 0, ""},
				valueSpec{"gold", "Gold", 150, ""},
				valueSpec{"rose_gold", "Rose Gold", 180, ""},
				valueSpec{"white_gold", "White Gold", 200, ""},
			),
			option("chain_length", "Chain Length", enums.OptionTypeSelect, true, 2, "Select your preferred chain length", nil,
				valueSpec{`16"`, "16 inches", 0, ""},
				valueSpec{`18"`, "18 inches", 0, ""},
				valueSpec{`20"`, "20 inches", 0, ""},
				valueSpec{`22"`, "22 inches", 0, ""},
				valueSpec{`24"`, "24 inches", 0, ""},
			),
			option("pendant_option", "Pendant Option", enums.OptionTypeSelect, false, 3, "Add a special pendant (optional)", nil,
				valueSpec{"none", "No Addition", 0, ""},
				valueSpec{"birthstone", "Add Birthstone", 100, ""},
				valueSpec{"initials", "Add Initials", 75, ""},
			),
			option("clasp_type", "Clasp Type", enums.OptionTypeSelect, true, 4, "Select clasp style", nil,
				valueSpec{"lobster", "Lobster Clasp", 0, ""},
				valueSpec{"spring_ring", "Spring Ring", 0, ""},
				valueSpec{"toggle", "Toggle Clasp", 0, ""},
			),
			option("engraving", "Engraving", enums.OptionTypeText, false, 5, "Back of pendant, max 15 characters", engravingRules(15, 40)),
		},
		enums.ProductCategoryBracelets: {
			option("metal_type", "Metal Type", enums.OptionTypeSelect, true, 1, "Select the metal for your bracelet", nil,
				valueSpec{"sterling_silver", "Sterling Silver", 0, ""},
				valueSpec{"gold", "Gold", 120, ""},
				valueSpec{"rose_gold", "Rose Gold", 150, ""},
			),
			option("bracelet_size", "Bracelet Size", enums.OptionTypeSelect, true, 2, "Select your wrist size", nil,
				valueSpec{`6"`, "6 inches", 0, ""},
				valueSpec{`6.5"`, "6.5 inches", 0, ""},
				valueSpec{`7"`, "7 inches", 0, ""},
				valueSpec{`7.5"`, "7.5 inches", 0, ""},
				valueSpec{`8"`, "8 inches", 0, ""},
			),
			option("charms", "Charm Addition", enums.OptionTypeMultiSelect, false, 3, "Add up to 3 charms ($50 each)",
				&types.ValidationRules{MaxSelections: &maxCharms, PricePerItem: &charmPrice},
				valueSpec{"heart", "Heart Charm", 50, ""},
				valueSpec{"star", "Star Charm", 50, ""},
				valueSpec{"moon", "Moon Charm", 50, ""},
				valueSpec{"flower", "Flower Charm", 50, ""},
				valueSpec{"key", "Key Charm", 50, ""},
				valueSpec{"lock", "Lock Charm", 50, ""},
			),
			option("engraving", "Engraving", enums.OptionTypeText, false, 4, "Inside bracelet, max 10 characters", engravingRules(10, 35)),
		},
	}
}

func strPtr(s string) *string {
	return &s
}
