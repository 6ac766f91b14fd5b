package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/atelier-storefront/pkg/config"
	"github.com/angelmondragon/atelier-storefront/pkg/logger"
)

const namespacePrefix = "atelier:client:"

var (
	// ErrNotFound is returned by LoadState when the client has nothing stored under name.
	ErrNotFound = errors.New("redis: state not found")
	// ErrOutOfMemory is returned when the server refuses a write at maxmemory.
	ErrOutOfMemory = errors.New("redis: out of memory")

	errNotConnected = errors.New("redis: client not connected")
)

// hashCommands is the part of go-redis the state store needs.
type hashCommands interface {
	Ping(ctx context.Context) *redis.StatusCmd
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd
	Pipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
}

// Client keeps each storefront client's persisted values in one hash,
// atelier:client:<id>, whose TTL slides forward on every write.
type Client struct {
	cmds hashCommands
	conn *redis.Client
}

// New connects with the configured pool and timeouts and fails fast when the server is unreachable.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := buildOptions(cfg)
	if err != nil {
		return nil, err
	}
	conn := redis.NewClient(opts)
	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "addr", opts.Addr), "redis.connected")
	}
	return &Client{cmds: conn, conn: conn}, nil
}

// buildOptions starts from the URL when one is set, else from address/password/db, and lets
// explicit pool and timeout settings fill whatever the URL left unset.
func buildOptions(cfg config.RedisConfig) (*redis.Options, error) {
	opts := &redis.Options{Addr: cfg.Address, Password: cfg.Password, DB: cfg.DB}
	switch {
	case cfg.URL != "":
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	case cfg.Address == "":
		return nil, errors.New("redis url or address is required")
	}

	fillInt(&opts.PoolSize, cfg.PoolSize)
	fillInt(&opts.MinIdleConns, cfg.MinIdleConns)
	fillDuration(&opts.DialTimeout, cfg.DialTimeout)
	fillDuration(&opts.ReadTimeout, cfg.ReadTimeout)
	fillDuration(&opts.WriteTimeout, cfg.WriteTimeout)
	return opts, nil
}

func fillInt(dst *int, v int) {
	if *dst == 0 {
		*dst = v
	}
}

func fillDuration(dst *time.Duration, v time.Duration) {
	if *dst == 0 {
		*dst = v
	}
}

func namespaceKey(clientID string) string {
	return namespacePrefix + strings.TrimSpace(clientID)
}

// LoadState returns the value stored under name for clientID.
func (c *Client) LoadState(ctx context.Context, clientID, name string) (string, error) {
	if c.cmds == nil {
		return "", errNotConnected
	}
	val, err := c.cmds.HGet(ctx, namespaceKey(clientID), name).Result()
	return val, classify(err)
}

// SaveState writes name for clientID and pushes the namespace expiry out to ttl, both in
// one pipeline. A non-positive ttl leaves the expiry untouched.
func (c *Client) SaveState(ctx context.Context, clientID, name, value string, ttl time.Duration) error {
	if c.cmds == nil {
		return errNotConnected
	}
	key := namespaceKey(clientID)
	_, err := c.cmds.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, name, value)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	return classify(err)
}

// DeleteState drops name from the client's namespace. Missing names are not an error.
func (c *Client) DeleteState(ctx context.Context, clientID, name string) error {
	if c.cmds == nil {
		return errNotConnected
	}
	return classify(c.cmds.HDel(ctx, namespaceKey(clientID), name).Err())
}

func (c *Client) Ping(ctx context.Context) error {
	if c.cmds == nil {
		return errNotConnected
	}
	return c.cmds.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.Nil):
		return ErrNotFound
	case strings.HasPrefix(err.Error(), "OOM "):
		return fmt.Errorf("%w: %v", ErrOutOfMemory, err)
	}
	return err
}
