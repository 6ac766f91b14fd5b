package customization

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/angelmondragon/atelier-storefront/pkg/enums"
	"github.com/angelmondragon/atelier-storefront/pkg/metrics"
)

// ConfigCache memoizes schemas per category for the life of the process. Concurrent misses
// for one category share a single fetch; failed fetches are not cached.
type ConfigCache struct {
	provider Provider
	metrics  *metrics.Storefront

	mu      sync.RWMutex
	entries map[enums.ProductCategory]Schema
	gens    map[enums.ProductCategory]uint64
	group   singleflight.Group
}

func NewConfigCache(provider Provider, m *metrics.Storefront) *ConfigCache {
	return &ConfigCache{
		provider: provider,
		metrics:  m,
		entries:  make(map[enums.ProductCategory]Schema),
		gens:     make(map[enums.ProductCategory]uint64),
	}
}

// Schema returns the cached schema or fetches it through the wrapped provider.
func (c *ConfigCache) Schema(ctx context.Context, category enums.ProductCategory) (Schema, error) {
	c.mu.RLock()
	schema, ok := c.entries[category]
	gen := c.gens[category]
	c.mu.RUnlock()
	c.metrics.ObserveCacheLookup(ok)
	if ok {
		return schema, nil
	}

	v, err, _ := c.group.Do(category.String(), func() (any, error) {
		start := time.Now()
		// the shared fetch outlives any single waiter's cancellation
		fetched, err := c.provider.Schema(context.WithoutCancel(ctx), category)
		c.metrics.ObserveConfigFetch(category.String(), time.Since(start), err)
		if err != nil {
			return Schema{}, err
		}
		c.mu.Lock()
		if c.gens[category] == gen {
			c.entries[category] = fetched
		}
		c.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		return Schema{}, err
	}
	return v.(Schema), nil
}

// Invalidate drops the cached schema so the next lookup refetches it.
func (c *ConfigCache) Invalidate(category enums.ProductCategory) {
	c.mu.Lock()
	delete(c.entries, category)
	c.gens[category]++
	c.mu.Unlock()
	c.group.Forget(category.String())
}

// Cached reports whether category currently has an entry.
func (c *ConfigCache) Cached(category enums.ProductCategory) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[category]
	return ok
}
