package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/angelmondragon/atelier-storefront/pkg/logger"
	"github.com/angelmondragon/atelier-storefront/pkg/metrics"
)

// Local is the storefront's view over a Store. Reads fall back to "absent" on any failure
// and writes never fail the caller: errors are logged and counted, then dropped.
type Local struct {
	store   Store
	logg    *logger.Logger
	metrics *metrics.Storefront
}

func NewLocal(store Store, logg *logger.Logger, m *metrics.Storefront) *Local {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Local{store: store, logg: logg, metrics: m}
}

// Client binds the view to one client namespace.
func (l *Local) Client(clientID string) *ClientStorage {
	return &ClientStorage{local: l, clientID: clientID}
}

// ClientStorage reads and writes JSON values for a single client.
type ClientStorage struct {
	local    *Local
	clientID string
}

func (c *ClientStorage) ClientID() string { return c.clientID }

// LoadJSON decodes the value under key into dst. It reports false when the key is
// absent, unreadable or holds malformed JSON.
func (c *ClientStorage) LoadJSON(ctx context.Context, key string, dst any) bool {
	raw, err := c.local.store.Get(ctx, c.clientID, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.local.logg.Warn(c.ctx(ctx, key), "client storage read failed: "+err.Error())
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		c.local.logg.Warn(c.ctx(ctx, key), "client storage holds malformed value")
		return false
	}
	return true
}

// LoadString returns the raw string under key.
func (c *ClientStorage) LoadString(ctx context.Context, key string) (string, bool) {
	raw, err := c.local.store.Get(ctx, c.clientID, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.local.logg.Warn(c.ctx(ctx, key), "client storage read failed: "+err.Error())
		}
		return "", false
	}
	return raw, true
}

func (c *ClientStorage) SaveJSON(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.dropped(ctx, key, err)
		return
	}
	c.SaveString(ctx, key, string(data))
}

func (c *ClientStorage) SaveString(ctx context.Context, key, value string) {
	if err := c.local.store.Set(ctx, c.clientID, key, value); err != nil {
		c.dropped(ctx, key, err)
	}
}

func (c *ClientStorage) Remove(ctx context.Context, key string) {
	if err := c.local.store.Remove(ctx, c.clientID, key); err != nil {
		c.dropped(ctx, key, err)
	}
}

func (c *ClientStorage) dropped(ctx context.Context, key string, err error) {
	c.local.metrics.IncStorageFailure(key)
	c.local.logg.Error(c.ctx(ctx, key), "client storage write dropped", err)
}

func (c *ClientStorage) ctx(ctx context.Context, key string) context.Context {
	ctx = c.local.logg.WithClientID(ctx, c.clientID)
	return c.local.logg.WithField(ctx, "storage_key", key)
}
