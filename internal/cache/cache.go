package cache

import (
	"context"
	"time"
)

// Cache is the engine's read-through cache abstraction. The lifecycle
// service uses it for pass collection lookups that repeat on every sweep.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)
	Delete(ctx context.Context, key string)
	DeleteByPrefix(ctx context.Context, prefix string)
	Flush(ctx context.Context)
}
