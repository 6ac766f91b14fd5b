package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/atelier-storefront/pkg/enums"
)

// Product is a catalog piece offered on the storefront.
type Product struct {
	ID           int64                 `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string                `gorm:"column:name;not null"`
	Description  string                `gorm:"column:description;not null"`
	Price        decimal.Decimal       `gorm:"column:price;type:numeric(12,2);not null"`
	Image        string                `gorm:"column:image;not null"`
	Category     enums.ProductCategory `gorm:"column:category;type:text;not null;index:products_category_idx"`
	Material     enums.ProductMaterial `gorm:"column:material;type:text;not null"`
	Customizable bool                  `gorm:"column:customizable;not null;default:false"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
