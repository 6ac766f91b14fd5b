package wishlist

import (
	"context"
	"sync"

	"github.com/angelmondragon/atelier-storefront/internal/cart"
	"github.com/angelmondragon/atelier-storefront/internal/customization"
	pkgerrors "github.com/angelmondragon/atelier-storefront/pkg/errors"
	"github.com/angelmondragon/atelier-storefront/pkg/storage"
)

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	Storage  *storage.Local
	Products customization.ProductSource
	Cart     cart.Service
}

// Wishlist lists saved products in the order they were added.
type Wishlist struct {
	Items []customization.Product `json:"items"`
	Count int                     `json:"count"`
}

// Service owns the client wishlist persisted under the "wishlist" key.
type Service interface {
	Get(ctx context.Context, clientID string) Wishlist
	Contains(ctx context.Context, clientID string, productID int64) bool
	Add(ctx context.Context, clientID string, productID int64) (bool, error)
	Remove(ctx context.Context, clientID string, productID int64) Wishlist
	Toggle(ctx context.Context, clientID string, productID int64) (bool, error)
	MoveToCart(ctx context.Context, clientID string, productID int64) (cart.Cart, error)
}

type service struct {
	storage  *storage.Local
	products customization.ProductSource
	cart     cart.Service

	mu sync.Mutex
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client storage is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product source is required")
	}
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart service is required")
	}
	return &service{storage: params.Storage, products: params.Products, cart: params.Cart}, nil
}

func (s *service) Get(ctx context.Context, clientID string) Wishlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return newWishlist(s.load(ctx, clientID))
}

func (s *service) Contains(ctx context.Context, clientID string, productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.load(ctx, clientID), productID) >= 0
}

// Add saves the product and reports whether it was newly added.
func (s *service) Add(ctx context.Context, clientID string, productID int64) (bool, error) {
	product, err := s.products.Product(ctx, productID)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(ctx, clientID, product), nil
}

// Remove drops the product regardless of prior state.
func (s *service) Remove(ctx context.Context, clientID string, productID int64) Wishlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, _ := s.removeLocked(ctx, clientID, productID)
	return newWishlist(items)
}

// Toggle adds or removes the product and reports whether it is saved afterwards.
func (s *service) Toggle(ctx context.Context, clientID string, productID int64) (bool, error) {
	s.mu.Lock()
	if _, removed := s.removeLocked(ctx, clientID, productID); removed {
		s.mu.Unlock()
		return false, nil
	}
	s.mu.Unlock()

	if _, err := s.Add(ctx, clientID, productID); err != nil {
		return false, err
	}
	return true, nil
}

// MoveToCart adds one unit of the product to the cart, then drops it from the wishlist.
func (s *service) MoveToCart(ctx context.Context, clientID string, productID int64) (cart.Cart, error) {
	c, err := s.cart.AddProduct(ctx, clientID, productID, 1)
	if err != nil {
		return cart.Cart{}, err
	}
	s.Remove(ctx, clientID, productID)
	return c, nil
}

func (s *service) addLocked(ctx context.Context, clientID string, product customization.Product) bool {
	items := s.load(ctx, clientID)
	if indexOf(items, product.ID) >= 0 {
		return false
	}
	items = append(items, product)
	s.save(ctx, clientID, items)
	return true
}

func (s *service) removeLocked(ctx context.Context, clientID string, productID int64) ([]customization.Product, bool) {
	items := s.load(ctx, clientID)
	idx := indexOf(items, productID)
	if idx < 0 {
		return items, false
	}
	items = append(items[:idx], items[idx+1:]...)
	s.save(ctx, clientID, items)
	return items, true
}

func (s *service) load(ctx context.Context, clientID string) []customization.Product {
	var items []customization.Product
	if !s.storage.Client(clientID).LoadJSON(ctx, storage.KeyWishlist, &items) {
		return []customization.Product{}
	}
	return items
}

func (s *service) save(ctx context.Context, clientID string, items []customization.Product) {
	s.storage.Client(clientID).SaveJSON(ctx, storage.KeyWishlist, items)
}

func newWishlist(items []customization.Product) Wishlist {
	if items == nil {
		items = []customization.Product{}
	}
	return Wishlist{Items: items, Count: len(items)}
}

func indexOf(items []customization.Product, productID int64) int {
	for i, item := range items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}
