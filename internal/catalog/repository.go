package catalog

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/atelier-storefront/pkg/db"
	"github.com/angelmondragon/atelier-storefront/pkg/db/models"
	"github.com/angelmondragon/atelier-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/atelier-storefront/pkg/errors"
)

// Repository reads and writes catalog products and customization options.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{db: conn}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListProducts returns the products matching the filters ordered by id.
func (r *Repository) ListProducts(ctx context.Context, f Filters) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if f.Category != nil {
		query = query.Where("category = ?", f.Category.String())
	}
	if f.PriceMax != nil {
		query = query.Where("price <= ?", *f.PriceMax)
	}
	if f.Material != nil {
		query = query.Where("material = ?", f.Material.String())
	}

	var products []models.Product
	if err := query.Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByID loads one product.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListOptions returns a category's customization options with their values, both in display order.
func (r *Repository) ListOptions(ctx context.Context, category enums.ProductCategory) ([]models.CustomizationOption, error) {
	var options []models.CustomizationOption
	err := r.db.WithContext(ctx).
		Preload("Values", func(q *gorm.DB) *gorm.DB {
			return q.Order("sort_order ASC, id ASC")
		}).
		Where("category = ?", category.String()).
		Order("sort_order ASC, id ASC").
		Find(&options).Error
	if err != nil {
		return nil, err
	}
	return options, nil
}

// UpsertProducts inserts products or refreshes the existing rows with the same id.
func (r *Repository) UpsertProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "description", "price", "image", "category", "material", "customizable", "updated_at",
			}),
		}).
		Create(&products).Error
}

// ReplaceOptions swaps a category's option set, values included.
func (r *Repository) ReplaceOptions(ctx context.Context, category enums.ProductCategory, options []models.CustomizationOption) error {
	tx := r.db.WithContext(ctx)
	existing := tx.Model(&models.CustomizationOption{}).Select("id").Where("category = ?", category.String())
	if err := tx.Where("option_row_id IN (?)", existing).Delete(&models.CustomizationOptionValue{}).Error; err != nil {
		return err
	}
	if err := tx.Where("category = ?", category.String()).Delete(&models.CustomizationOption{}).Error; err != nil {
		return err
	}
	if len(options) == 0 {
		return nil
	}
	for i := range options {
		options[i].Category = category
	}
	if err := tx.Create(&options).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "duplicate customization option for category: "+category.String())
		}
		return err
	}
	return nil
}
