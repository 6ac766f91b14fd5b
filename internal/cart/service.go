package cart

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/angelmondragon/atelier-storefront/internal/customization"
	pkgerrors "github.com/angelmondragon/atelier-storefront/pkg/errors"
	"github.com/angelmondragon/atelier-storefront/pkg/storage"
)

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Storage  *storage.Local
	Products customization.ProductSource
}

// Service owns the client cart persisted under the "cart" key.
type Service interface {
	Get(ctx context.Context, clientID string) Cart
	AddProduct(ctx context.Context, clientID string, productID int64, quantity int) (Cart, error)
	AddCustomized(ctx context.Context, clientID string, item customization.LineItem) error
	UpdateQuantity(ctx context.Context, clientID, itemID string, quantity int) (Cart, error)
	Remove(ctx context.Context, clientID, itemID string) Cart
	Clear(ctx context.Context, clientID string)
}

type service struct {
	storage  *storage.Local
	products customization.ProductSource

	// Serializes read-modify-write cycles on stored carts.
	mu sync.Mutex
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client storage is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product source is required")
	}
	return &service{storage: params.Storage, products: params.Products}, nil
}

func (s *service) Get(ctx context.Context, clientID string) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return newCart(s.load(ctx, clientID))
}

// AddProduct adds a catalog product, merging into an existing regular line.
func (s *service) AddProduct(ctx context.Context, clientID string, productID int64, quantity int) (Cart, error) {
	if quantity <= 0 {
		quantity = 1
	}
	product, err := s.products.Product(ctx, productID)
	if err != nil {
		return Cart{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load(ctx, clientID)
	merged := false
	for i := range items {
		if !items[i].Customized && items[i].ProductID == product.ID {
			items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, Item{
			ID:        strconv.FormatInt(product.ID, 10),
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.Image,
			Category:  product.Category,
			Material:  product.Material,
			Price:     product.Price,
			Quantity:  quantity,
		})
	}
	s.save(ctx, clientID, items)
	return newCart(items), nil
}

// AddCustomized appends a finalized customization as its own line.
func (s *service) AddCustomized(ctx context.Context, clientID string, item customization.LineItem) error {
	if strings.TrimSpace(item.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "line item id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load(ctx, clientID)
	items = append(items, Item{
		ID:         item.ID,
		ProductID:  item.Product.ID,
		Name:       item.Product.Name,
		Image:      item.Product.Image,
		Category:   item.Product.Category,
		Material:   item.Product.Material,
		Price:      item.TotalPrice,
		Quantity:   1,
		Customized: true,
		Customization: &Customization{
			BasePrice:         item.BasePrice,
			CustomizationCost: item.CustomizationCost,
			Selections:        item.Customizations.Clone(),
			Summary:           append([]customization.SummaryItem(nil), item.Summary...),
		},
	})
	s.save(ctx, clientID, items)
	return nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
// Customized lines only accept removal.
func (s *service) UpdateQuantity(ctx context.Context, clientID, itemID string, quantity int) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load(ctx, clientID)
	idx := indexOf(items, itemID)
	if idx < 0 {
		return Cart{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	if quantity <= 0 {
		items = append(items[:idx], items[idx+1:]...)
	} else {
		if items[idx].Customized {
			return Cart{}, pkgerrors.New(pkgerrors.CodeStateConflict, "customized items have a fixed quantity")
		}
		items[idx].Quantity = quantity
	}
	s.save(ctx, clientID, items)
	return newCart(items), nil
}

// Remove drops a line if present.
func (s *service) Remove(ctx context.Context, clientID, itemID string) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load(ctx, clientID)
	if idx := indexOf(items, itemID); idx >= 0 {
		items = append(items[:idx], items[idx+1:]...)
		s.save(ctx, clientID, items)
	}
	return newCart(items)
}

func (s *service) Clear(ctx context.Context, clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save(ctx, clientID, []Item{})
}

func (s *service) load(ctx context.Context, clientID string) []Item {
	var items []Item
	if !s.storage.Client(clientID).LoadJSON(ctx, storage.KeyCart, &items) {
		return []Item{}
	}
	return items
}

func (s *service) save(ctx context.Context, clientID string, items []Item) {
	s.storage.Client(clientID).SaveJSON(ctx, storage.KeyCart, items)
}

func indexOf(items []Item, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
