package storage

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/atelier-storefront/pkg/redis"
)

// Redis keeps a client's keys together in one hash that expires ttl after the last write.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, clientID, key string) (string, error) {
	val, err := r.client.LoadState(ctx, clientID, key)
	if errors.Is(err, redis.ErrNotFound) {
		return "", ErrNotFound
	}
	return val, err
}

func (r *Redis) Set(ctx context.Context, clientID, key, value string) error {
	err := r.client.SaveState(ctx, clientID, key, value, r.ttl)
	if errors.Is(err, redis.ErrOutOfMemory) {
		return errors.Join(ErrQuotaExceeded, err)
	}
	return err
}

func (r *Redis) Remove(ctx context.Context, clientID, key string) error {
	return r.client.DeleteState(ctx, clientID, key)
}
