package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/atelier-storefront/api/responses"
	"github.com/angelmondragon/atelier-storefront/api/validators"
	"github.com/angelmondragon/atelier-storefront/internal/catalog"
	"github.com/angelmondragon/atelier-storefront/internal/customization"
	pkgerrors "github.com/angelmondragon/atelier-storefront/pkg/errors"
	"github.com/angelmondragon/atelier-storefront/pkg/logger"
)

// ProductsList returns the catalog filtered by category, price ceiling and material.
func ProductsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		filters, err := catalog.FiltersFromQuery(r.URL.Query())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		products, err := svc.ListProducts(ctx, filters)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParsePathID(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := svc.Product(ctx, productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductsByCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		category, err := catalog.ParseCategory(chi.URLParam(r, "category"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		products, err := svc.ListByCategory(ctx, category)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// CustomizationConfig serves a category's options, values and rules in display order.
func CustomizationConfig(schemas customization.Provider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if schemas == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "configuration provider unavailable"))
			return
		}

		category, err := catalog.ParseCategory(chi.URLParam(r, "category"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		schema, err := schemas.Schema(ctx, category)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, schema)
	}
}
