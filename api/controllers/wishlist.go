package controllers

import (
	"net/http"

	"github.com/angelmondragon/atelier-storefront/api/responses"
	"github.com/angelmondragon/atelier-storefront/api/validators"
	"github.com/angelmondragon/atelier-storefront/internal/wishlist"
	"github.com/angelmondragon/atelier-storefront/pkg/logger"
)

type addWishlistItemPayload struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

type wishlistChange struct {
	InWishlist bool              `json:"in_wishlist"`
	Wishlist   wishlist.Wishlist `json:"wishlist"`
}

func WishlistGet(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
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

// WishlistAdd saves a product; adding a saved product is a no-op answered with 200.
func WishlistAdd(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientID, err := clientIDFrom(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload addWishlistItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		added, err := svc.Add(ctx, clientID, payload.ProductID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		status := http.StatusOK
		if added {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, wishlistChange{InWishlist: true, Wishlist: svc.Get(ctx, clientID)})
	}
}

func WishlistToggle(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientID, err := clientIDFrom(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		productID, err := validators.ParsePathID(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		saved, err := svc.Toggle(ctx, clientID, productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, wishlistChange{InWishlist: saved, Wishlist: svc.Get(ctx, clientID)})
	}
}

func WishlistRemove(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientID, err := clientIDFrom(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		productID, err := validators.ParsePathID(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.Remove(ctx, clientID, productID))
	}
}

// WishlistMoveToCart adds the product to the cart and drops it from the wishlist.
func WishlistMoveToCart(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientID, err := clientIDFrom(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		productID, err := validators.ParsePathID(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		c, err := svc.MoveToCart(ctx, clientID, productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, c)
	}
}
