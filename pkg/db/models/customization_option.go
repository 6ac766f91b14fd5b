package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/atelier-storefront/pkg/enums"
	"github.com/angelmondragon/atelier-storefront/pkg/types"
)

// CustomizationOption is one customizable attribute offered for a product category.
type CustomizationOption struct {
	ID              int64                      `gorm:"column:id;primaryKey;autoIncrement"`
	Category        enums.ProductCategory      `gorm:"column:category;type:text;not null;uniqueIndex:customization_options_category_option_key"`
	OptionID        string                     `gorm:"column:option_id;not null;uniqueIndex:customization_options_category_option_key"`
	DisplayName     string                     `gorm:"column:display_name;not null"`
	OptionType      enums.OptionType           `gorm:"column:option_type;type:text;not null"`
	Required        bool                       `gorm:"column:required;not null;default:true"`
	SortOrder       int                        `gorm:"column:sort_order;not null;default:1"`
	HelpText        *string                    `gorm:"column:help_text"`
	ValidationRules *types.ValidationRules     `gorm:"column:validation_rules;type:jsonb;serializer:json"`
	Values          []CustomizationOptionValue `gorm:"foreignKey:OptionRowID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}

// CustomizationOptionValue is one selectable choice within an option.
type CustomizationOptionValue struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OptionRowID   int64           `gorm:"column:option_row_id;not null;index:customization_option_values_option_idx"`
	Value         string          `gorm:"column:value;not null"`
	DisplayName   string          `gorm:"column:display_name;not null"`
	PriceModifier decimal.Decimal `gorm:"column:price_modifier;type:numeric(12,2);not null;default:0"`
	Description   *string         `gorm:"column:description"`
	SortOrder     int             `gorm:"column:sort_order;not null;default:0"`
}
