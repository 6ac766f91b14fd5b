package wishlist

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/atelier-storefront/internal/cart"
	"github.com/angelmondragon/atelier-storefront/internal/customization"
	pkgerrors "github.com/angelmondragon/atelier-storefront/pkg/errors"
	"github.com/angelmondragon/atelier-storefront/pkg/storage"
)

type stubProducts map[int64]customization.Product

func (s stubProducts) Product(_ context.Context, id int64) (customization.Product, error) {
	p, ok := s[id]
	if !ok {
		return customization.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	return p, nil
}

func newTestServices(t *testing.T) (Service, cart.Service) {
	t.Helper()
	local := storage.NewLocal(storage.NewMemory(0), nil, nil)
	products := stubProducts{
		3: {ID: 3, Name: "Vintage Emerald Ring", Price: decimal.NewFromInt(1299)},
		8: {ID: 8, Name: "Gold Chain Statement Necklace", Price: decimal.NewFromInt(350)},
	}
	carts, err := cart.NewService(cart.ServiceParams{Storage: local, Products: products})
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{Storage: local, Products: products, Cart: carts})
	require.NoError(t, err)
	return svc, carts
}

func TestAddIsIdempotent(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	added, err := svc.Add(ctx, "c1", 3)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = svc.Add(ctx, "c1", 3)
	require.NoError(t, err)
	assert.False(t, added)

	list := svc.Get(ctx, "c1")
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, "Vintage Emerald Ring", list.Items[0].Name)
	assert.True(t, svc.Contains(ctx, "c1", 3))
	assert.False(t, svc.Contains(ctx, "c2", 3))

	_, err = svc.Add(ctx, "c1", 42)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestToggle(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	saved, err := svc.Toggle(ctx, "c1", 8)
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = svc.Toggle(ctx, "c1", 8)
	require.NoError(t, err)
	assert.False(t, saved)
	assert.Equal(t, 0, svc.Get(ctx, "c1").Count)
}

func TestRemoveKeepsOrder(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "c1", 8)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "c1", 3)
	require.NoError(t, err)

	list := svc.Remove(ctx, "c1", 8)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, int64(3), list.Items[0].ID)

	list = svc.Remove(ctx, "c1", 8)
	assert.Equal(t, 1, list.Count)
}

func TestMoveToCart(t *testing.T) {
	svc, carts := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "c1", 3)
	require.NoError(t, err)

	c, err := svc.MoveToCart(ctx, "c1", 3)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, int64(3), c.Items[0].ProductID)

	assert.False(t, svc.Contains(ctx, "c1", 3))
	assert.Equal(t, 1, carts.Get(ctx, "c1").ItemCount)

	_, err = svc.MoveToCart(ctx, "c1", 42)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
