package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/atelier-storefront/internal/customization"
	"github.com/angelmondragon/atelier-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/atelier-storefront/pkg/errors"
)

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo *Repository
}

// Service exposes the read side of the product catalog and the customization configuration.
// It also serves as the in-process configuration provider and product source for sessions.
type Service interface {
	ListProducts(ctx context.Context, filters Filters) ([]customization.Product, error)
	ListByCategory(ctx context.Context, category enums.ProductCategory) ([]customization.Product, error)
	Product(ctx context.Context, id int64) (customization.Product, error)
	Schema(ctx context.Context, category enums.ProductCategory) (customization.Schema, error)
}

type service struct {
	repo *Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) ListProducts(ctx context.Context, filters Filters) ([]customization.Product, error) {
	rows, err := s.repo.ListProducts(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return productsFromModels(rows), nil
}

func (s *service) ListByCategory(ctx context.Context, category enums.ProductCategory) ([]customization.Product, error) {
	if !category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid category. Must be one of: "+joinCategories())
	}
	return s.ListProducts(ctx, Filters{Category: &category})
}

func (s *service) Product(ctx context.Context, id int64) (customization.Product, error) {
	if id <= 0 {
		return customization.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return customization.Product{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Product not found")
		}
		return customization.Product{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return productFromModel(*row), nil
}

func (s *service) Schema(ctx context.Context, category enums.ProductCategory) (customization.Schema, error) {
	if !category.IsValid() {
		return customization.Schema{}, pkgerrors.New(pkgerrors.CodeValidation, "Invalid category. Must be one of: "+joinCategories())
	}
	rows, err := s.repo.ListOptions(ctx, category)
	if err != nil {
		return customization.Schema{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customization options")
	}
	if len(rows) == 0 {
		return customization.Schema{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("Customization configuration not found for category: %s", category))
	}
	schema := customization.Schema{Category: category, Options: make([]customization.Option, 0, len(rows))}
	for _, row := range rows {
		schema.Options = append(schema.Options, optionFromModel(row))
	}
	return schema, nil
}
