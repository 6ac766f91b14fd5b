package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/atelier-storefront/api/responses"
	"github.com/angelmondragon/atelier-storefront/api/validators"
	"github.com/angelmondragon/atelier-storefront/internal/cart"
	pkgerrors "github.com/angelmondragon/atelier-storefront/pkg/errors"
	"github.com/angelmondragon/atelier-storefront/pkg/logger"
)

type addCartItemPayload struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"omitempty,gte=1,lte=99"`
}

type updateCartItemPayload struct {
	Quantity *int `json:"quantity" validate:"required,lte=99"`
}

func CartGet(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientID, err := clientIDFrom(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.Get(ctx, clientID))
	}
}

// CartAddItem adds a catalog product; repeated adds merge into one line.
func CartAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientID, err := clientIDFrom(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload addCartItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		c, err := svc.AddProduct(ctx, clientID, payload.ProductID, payload.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, c)
	}
}

// CartUpdateItem sets a line quantity; zero or less removes the line.
func CartUpdateItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientID, err := clientIDFrom(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		itemID := validators.SanitizeString(chi.URLParam(r, "itemId"), 128)
		if itemID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id is required"))
			return
		}

		var payload updateCartItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		c, err := svc.UpdateQuantity(ctx, clientID, itemID, *payload.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, c)
	}
}

func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientID, err := clientIDFrom(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		itemID := validators.SanitizeString(chi.URLParam(r, "itemId"), 128)
		responses.WriteSuccess(w, svc.Remove(ctx, clientID, itemID))
	}
}

func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientID, err := clientIDFrom(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		svc.Clear(ctx, clientID)
		responses.WriteSuccess(w, svc.Get(ctx, clientID))
	}
}
