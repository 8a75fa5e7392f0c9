package zoho

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/fivetwenty-io/zoho-projects/internal/constants"
)

// CacheType represents the type of cache backend.
type CacheType string

const (
	// CacheTypeMemory represents in-memory cache.
	CacheTypeMemory CacheType = "memory"

	// CacheTypeNone represents no caching.
	CacheTypeNone CacheType = "none"
)

// CacheEntry is a cached value.
type CacheEntry struct {
	Data      []byte
	ExpiresAt time.Time
}

// Cache stores small lookups such as resolved portal and project ids.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

// CacheConfig configures cache backend.
type CacheConfig struct {
	Type            CacheType
	TTL             time.Duration
	CleanupInterval time.Duration
}

// DefaultCacheConfig returns default cache configuration.
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Type:            CacheTypeMemory,
		TTL:             constants.DefaultCacheTTL,
		CleanupInterval: constants.DefaultCacheCleanupInterval,
	}
}

// NewCacheFromConfig creates a cache backend from configuration.
func NewCacheFromConfig(config *CacheConfig) (Cache, error) {
	if config == nil {
		config = DefaultCacheConfig()
	}

	switch config.Type {
	case CacheTypeMemory:
		return NewMemoryCache(config.TTL, config.CleanupInterval), nil

	case CacheTypeNone:
		return NewNoOpCache(), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCacheType, config.Type)
	}
}

// MemoryCache is an in-process cache with per-entry expiry.
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates a memory cache. Entries without an expiry live for ttl.
func NewMemoryCache(ttl, cleanupInterval time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}

	if cleanupInterval <= 0 {
		cleanupInterval = constants.DefaultCacheCleanupInterval
	}

	return &MemoryCache{store: gocache.New(ttl, cleanupInterval)}
}

// Get returns a live entry or ErrCacheMiss.
func (c *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	value, expiresAt, found := c.store.GetWithExpiration(key)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrCacheMiss, key)
	}

	data, ok := value.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheMiss, key)
	}

	return &CacheEntry{Data: data, ExpiresAt: expiresAt}, nil
}

// Set stores an entry. An entry that has already expired removes the key.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	if entry.ExpiresAt.IsZero() {
		c.store.Set(key, entry.Data, gocache.DefaultExpiration)

		return nil
	}

	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		c.store.Delete(key)

		return nil
	}

	c.store.Set(key, entry.Data, ttl)

	return nil
}

// Delete removes a key.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.store.Delete(key)

	return nil
}

// Clear removes every key.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.store.Flush()

	return nil
}

// Has reports whether a live entry exists.
func (c *MemoryCache) Has(ctx context.Context, key string) bool {
	_, found := c.store.Get(key)

	return found
}

// Len returns the number of stored entries, including expired ones not yet purged.
func (c *MemoryCache) Len() int {
	return c.store.ItemCount()
}

// NoOpCache is a cache that does nothing (no caching).
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache.
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// Get always returns an error (nothing cached).
func (c *NoOpCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	return nil, ErrCacheDisabled
}

// Set does nothing.
func (c *NoOpCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	return nil
}

// Delete does nothing.
func (c *NoOpCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Clear does nothing.
func (c *NoOpCache) Clear(ctx context.Context) error {
	return nil
}

// Has always returns false.
func (c *NoOpCache) Has(ctx context.Context, key string) bool {
	return false
}
