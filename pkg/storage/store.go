// Package storage persists small per-client values the way a browser keeps local storage:
// string values under well-known keys, one namespace per client id.
package storage

import (
	"context"
	"errors"
)

// Well-known keys written by the storefront.
const (
	KeyCart                = "cart"
	KeyWishlist            = "wishlist"
	KeyDarkMode            = "dark_mode"
	KeyActiveCustomization = "active_customization"
)

var (
	// ErrNotFound is returned by Get when nothing is stored under the key.
	ErrNotFound = errors.New("storage: key not found")
	// ErrQuotaExceeded is returned by Set when the client's namespace is full.
	ErrQuotaExceeded = errors.New("storage: quota exceeded")
)

// Store is the raw key/value backend.
type Store interface {
	Get(ctx context.Context, clientID, key string) (string, error)
	Set(ctx context.Context, clientID, key, value string) error
	Remove(ctx context.Context, clientID, key string) error
}
