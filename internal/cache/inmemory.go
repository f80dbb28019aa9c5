package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// InMemoryCache backs the Cache interface with patrickmn/go-cache.
type InMemoryCache struct {
	cache *gocache.Cache
}

var inMemoryInstance *InMemoryCache

// InitializeInMemoryCache sets up the process-wide in-memory cache.
func InitializeInMemoryCache() {
	if inMemoryInstance == nil {
		inMemoryInstance = NewInMemoryCache()
	}
}

// GetInMemoryCache returns the process-wide in-memory cache.
func GetInMemoryCache() *InMemoryCache {
	InitializeInMemoryCache()
	return inMemoryInstance
}

// NewInMemoryCache returns a standalone in-memory cache (used by tests).
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		cache: gocache.New(ExpiryDefaultInMemory, 10*time.Minute),
	}
}

func (c *InMemoryCache) Get(ctx context.Context, key string) (interface{}, bool) {
	return c.cache.Get(key)
}

func (c *InMemoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) {
	if expiration <= 0 {
		expiration = ExpiryDefaultInMemory
	}
	c.cache.Set(key, value, expiration)
}

func (c *InMemoryCache) Delete(ctx context.Context, key string) {
	c.cache.Delete(key)
}

func (c *InMemoryCache) DeleteByPrefix(ctx context.Context, prefix string) {
	for key := range c.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Delete(key)
		}
	}
}

func (c *InMemoryCache) Flush(ctx context.Context) {
	c.cache.Flush()
}
