package zoho_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/zoho-projects/pkg/zoho"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	t.Parallel()

	cache := zoho.NewMemoryCache(time.Minute, time.Minute)
	ctx := context.Background()

	entry := &zoho.CacheEntry{
		Data:      []byte("12345"),
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}

	err := cache.Set(ctx, "portal:acme", entry)
	require.NoError(t, err)

	retrieved, err := cache.Get(ctx, "portal:acme")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, retrieved.Data)
	assert.WithinDuration(t, entry.ExpiresAt, retrieved.ExpiresAt, time.Second)
	assert.True(t, cache.Has(ctx, "portal:acme"))
	assert.Equal(t, 1, cache.Len())
}

func TestMemoryCache_DefaultTTL(t *testing.T) {
	t.Parallel()

	cache := zoho.NewMemoryCache(20*time.Millisecond, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key", &zoho.CacheEntry{Data: []byte("v")}))
	assert.True(t, cache.Has(ctx, "key"))

	assert.Eventually(t, func() bool {
		return !cache.Has(ctx, "key")
	}, time.Second, 5*time.Millisecond)
}

func TestMemoryCache_GetNonExistent(t *testing.T) {
	t.Parallel()

	cache := zoho.NewMemoryCache(0, 0)

	_, err := cache.Get(context.Background(), "nonexistent")
	require.ErrorIs(t, err, zoho.ErrCacheMiss)
	assert.Contains(t, err.Error(), "key not found")
}

func TestMemoryCache_SetExpired(t *testing.T) {
	t.Parallel()

	cache := zoho.NewMemoryCache(time.Minute, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key", &zoho.CacheEntry{Data: []byte("old")}))

	err := cache.Set(ctx, "key", &zoho.CacheEntry{
		Data:      []byte("new"),
		ExpiresAt: time.Now().Add(-1 * time.Hour),
	})
	require.NoError(t, err)

	_, err = cache.Get(ctx, "key")
	require.ErrorIs(t, err, zoho.ErrCacheMiss)
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	t.Parallel()

	cache := zoho.NewMemoryCache(time.Minute, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", &zoho.CacheEntry{Data: []byte("1")}))
	require.NoError(t, cache.Set(ctx, "b", &zoho.CacheEntry{Data: []byte("2")}))

	require.NoError(t, cache.Delete(ctx, "a"))
	assert.False(t, cache.Has(ctx, "a"))
	assert.True(t, cache.Has(ctx, "b"))

	require.NoError(t, cache.Clear(ctx))
	assert.False(t, cache.Has(ctx, "b"))
	assert.Zero(t, cache.Len())
}

func TestCacheFactory(t *testing.T) {
	t.Parallel()

	t.Run("default is memory", func(t *testing.T) {
		t.Parallel()

		cache, err := zoho.NewCacheFromConfig(nil)
		require.NoError(t, err)
		assert.IsType(t, &zoho.MemoryCache{}, cache)
	})

	t.Run("none", func(t *testing.T) {
		t.Parallel()

		cache, err := zoho.NewCacheFromConfig(&zoho.CacheConfig{Type: zoho.CacheTypeNone})
		require.NoError(t, err)

		ctx := context.Background()
		require.NoError(t, cache.Set(ctx, "key", &zoho.CacheEntry{Data: []byte("v")}))
		assert.False(t, cache.Has(ctx, "key"))

		_, err = cache.Get(ctx, "key")
		require.ErrorIs(t, err, zoho.ErrCacheDisabled)
		require.NoError(t, cache.Delete(ctx, "key"))
		require.NoError(t, cache.Clear(ctx))
	})

	t.Run("unsupported", func(t *testing.T) {
		t.Parallel()

		_, err := zoho.NewCacheFromConfig(&zoho.CacheConfig{Type: "redis"})
		require.ErrorIs(t, err, zoho.ErrUnsupportedCacheType)
		assert.Contains(t, err.Error(), "redis")
	})
}
