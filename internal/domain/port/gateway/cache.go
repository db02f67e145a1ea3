package gateway

import (
	"context"
	"time"
)

// Cache is a read-through cache for data that tolerates staleness (catalog, price lists).
// Write paths must call Invalidate for every key they affect. Balances and refId
// lookups never go through it.
type Cache interface {
	// Get decodes the cached value into dest, reporting whether the key was present
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}
