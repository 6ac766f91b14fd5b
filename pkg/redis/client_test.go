package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/atelier-storefront/pkg/config"
)

func TestStateLifecycle(t *testing.T) {
	ctx := context.Background()
	fake := newFakeHashes()
	client := &Client{cmds: fake}

	require.NoError(t, client.SaveState(ctx, "client-0001", "cart", `[{"id":"1"}]`, time.Hour))
	require.NoError(t, client.SaveState(ctx, "client-0001", "dark_mode", "dark", time.Hour))
	assert.Equal(t, time.Hour, fake.expiry["atelier:client:client-0001"])

	val, err := client.LoadState(ctx, "client-0001", "cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, val)

	_, err = client.LoadState(ctx, "client-0002", "cart")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, client.DeleteState(ctx, "client-0001", "cart"))
	_, err = client.LoadState(ctx, "client-0001", "cart")
	assert.ErrorIs(t, err, ErrNotFound)

	val, err = client.LoadState(ctx, "client-0001", "dark_mode")
	require.NoError(t, err)
	assert.Equal(t, "dark", val)
}

func TestSaveStateSendsWriteAndExpiryInOnePipeline(t *testing.T) {
	fake := newFakeHashes()
	client := &Client{cmds: fake}

	require.NoError(t, client.SaveState(context.Background(), "client-0001", "cart", "[]", time.Hour))
	assert.Equal(t, 1, fake.pipelines)
	assert.Equal(t, "[]", fake.hashes["atelier:client:client-0001"]["cart"])
	assert.Equal(t, time.Hour, fake.expiry["atelier:client:client-0001"])

	fake.expireErr = errors.New("READONLY You can't write against a read only replica.")
	err := client.SaveState(context.Background(), "client-0001", "cart", "[1]", time.Hour)
	assert.EqualError(t, err, fake.expireErr.Error())
	assert.Equal(t, 2, fake.pipelines)
}

func TestSaveStateWithoutTTLKeepsExpiry(t *testing.T) {
	fake := newFakeHashes()
	client := &Client{cmds: fake}

	require.NoError(t, client.SaveState(context.Background(), "client-0001", "wishlist", "[]", 0))
	_, set := fake.expiry["atelier:client:client-0001"]
	assert.False(t, set)
}

func TestSaveStateMapsOutOfMemory(t *testing.T) {
	fake := newFakeHashes()
	fake.writeErr = errors.New("OOM command not allowed when used memory > 'maxmemory'.")
	client := &Client{cmds: fake}

	err := client.SaveState(context.Background(), "client-0001", "cart", "[]", time.Hour)
	assert.ErrorIs(t, err, ErrOutOfMemory)
}

func TestDisconnectedClient(t *testing.T) {
	client := &Client{}
	ctx := context.Background()

	assert.ErrorIs(t, client.SaveState(ctx, "c", "k", "v", 0), errNotConnected)
	_, err := client.LoadState(ctx, "c", "k")
	assert.ErrorIs(t, err, errNotConnected)
	assert.ErrorIs(t, client.DeleteState(ctx, "c", "k"), errNotConnected)
	assert.ErrorIs(t, client.Ping(ctx), errNotConnected)
	assert.NoError(t, client.Close())
}

func TestNamespaceKey(t *testing.T) {
	assert.Equal(t, "atelier:client:abc", namespaceKey(" abc "))
}

func TestBuildOptions(t *testing.T) {
	_, err := buildOptions(config.RedisConfig{})
	require.Error(t, err)

	opts, err := buildOptions(config.RedisConfig{Address: "localhost:6379", DB: 2, PoolSize: 5, DialTimeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 5, opts.PoolSize)
	assert.Equal(t, time.Second, opts.DialTimeout)

	opts, err = buildOptions(config.RedisConfig{URL: "redis://cache:6380/3", DB: 9, PoolSize: 7})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, 7, opts.PoolSize)

	_, err = buildOptions(config.RedisConfig{URL: "http://not-redis"})
	assert.Error(t, err)
}

type fakeHashes struct {
	hashes    map[string]map[string]string
	expiry    map[string]time.Duration
	writeErr  error
	expireErr error
	pipelines int
}

func newFakeHashes() *fakeHashes {
	return &fakeHashes{
		hashes: make(map[string]map[string]string),
		expiry: make(map[string]time.Duration),
	}
}

func (f *fakeHashes) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeHashes) HGet(_ context.Context, key, field string) *redis.StringCmd {
	v, ok := f.hashes[key][field]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeHashes) HSet(_ context.Context, key string, values ...any) *redis.IntCmd {
	if f.writeErr != nil {
		return redis.NewIntResult(0, f.writeErr)
	}
	h, ok := f.hashes[key]
	if !ok {
		h = make(map[string]string)
		f.hashes[key] = h
	}
	for i := 0; i+1 < len(values); i += 2 {
		h[values[i].(string)] = values[i+1].(string)
	}
	return redis.NewIntResult(int64(len(values)/2), nil)
}

func (f *fakeHashes) HDel(_ context.Context, key string, fields ...string) *redis.IntCmd {
	for _, field := range fields {
		delete(f.hashes[key], field)
	}
	return redis.NewIntResult(int64(len(fields)), nil)
}

func (f *fakeHashes) Expire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	if f.expireErr != nil {
		return redis.NewBoolResult(false, f.expireErr)
	}
	f.expiry[key] = ttl
	return redis.NewBoolResult(true, nil)
}

// Pipelined queues the commands issued by fn and applies them together, reporting the
// first failure the way go-redis does.
func (f *fakeHashes) Pipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error) {
	f.pipelines++
	pipe := &fakePipe{}
	if err := fn(pipe); err != nil {
		return nil, err
	}
	cmds := make([]redis.Cmder, 0, len(pipe.queued))
	var first error
	for _, run := range pipe.queued {
		cmd := run(ctx, f)
		cmds = append(cmds, cmd)
		if first == nil && cmd.Err() != nil {
			first = cmd.Err()
		}
	}
	return cmds, first
}

type fakePipe struct {
	redis.Pipeliner
	queued []func(context.Context, *fakeHashes) redis.Cmder
}

func (p *fakePipe) HSet(_ context.Context, key string, values ...any) *redis.IntCmd {
	p.queued = append(p.queued, func(ctx context.Context, f *fakeHashes) redis.Cmder {
		return f.HSet(ctx, key, values...)
	})
	return redis.NewIntResult(0, nil)
}

func (p *fakePipe) Expire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	p.queued = append(p.queued, func(ctx context.Context, f *fakeHashes) redis.Cmder {
		return f.Expire(ctx, key, ttl)
	})
	return redis.NewBoolResult(false, nil)
}
