package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

func exerciseCache(t *testing.T, c Cache) {
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte("v1")))
	require.NoError(t, c.Set(ctx, "k", []byte("v2")))
	v, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v2"), v)

	require.NoError(t, c.Set(ctx, "empty", []byte{}))
	_, ok, err = c.Get(ctx, "empty")
	require.NoError(t, err)
	assert.True(t, ok)

	ts := time.UnixMilli(1700000000000).UTC()
	require.NoError(t, SetJSON(ctx, c, "snap", snapshot{Price: 142.3, Timestamp: ts}))
	got, ok, err := GetJSON[snapshot](ctx, c, "snap")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 142.3, got.Price)
	assert.True(t, ts.Equal(got.Timestamp))

	require.NoError(t, c.Set(ctx, "bad", []byte("{")))
	_, ok, err = GetJSON[snapshot](ctx, c, "bad")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	exerciseCache(t, c)

	// returned slices are copies
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", []byte("abc")))
	v, _, _ := c.Get(ctx, "k")
	v[0] = 'x'
	v2, _, _ := c.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), v2)
}

func TestBadgerCacheInMemory(t *testing.T) {
	c, err := NewBadgerCache("")
	require.NoError(t, err)
	defer c.Close()
	exerciseCache(t, c)
}

func TestBadgerCachePersists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	c, err := NewBadgerCache(dir)
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, "k", []byte("kept")))
	require.NoError(t, c.Close())

	c, err = NewBadgerCache(dir)
	require.NoError(t, err)
	defer c.Close()
	v, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("kept"), v)
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	c := NewRedisCache(addr, "", 0, time.Minute)
	defer c.Close()
	exerciseCache(t, c)
}

func TestNew(t *testing.T) {
	c, err := New(Config{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)

	c, err = New(Config{Driver: DriverBadger})
	require.NoError(t, err)
	assert.IsType(t, &BadgerCache{}, c)
	require.NoError(t, c.Close())

	c, err = New(Config{Driver: DriverRedis, RedisAddr: "127.0.0.1:0"})
	require.NoError(t, err)
	assert.IsType(t, &RedisCache{}, c)
	require.NoError(t, c.Close())

	_, err = New(Config{Driver: "etcd"})
	assert.Error(t, err)
}
