package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/gateway"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryCache is an in-process gateway.Cache. Values are stored JSON-encoded,
// like in Redis, so callers never share mutable state through the cache.
type MemoryCache struct {
	mu           sync.RWMutex
	entries      map[string]memoryEntry
	timeProvider coreport.TimeProvider
}

// NewMemoryCache creates an empty in-process cache
func NewMemoryCache(timeProvider coreport.TimeProvider) *MemoryCache {
	return &MemoryCache{
		entries:      make(map[string]memoryEntry),
		timeProvider: timeProvider,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if !entry.expiresAt.IsZero() && c.timeProvider.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return false, nil
	}
	if err := json.Unmarshal(entry.payload, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	entry := memoryEntry{payload: payload}
	if ttl > 0 {
		entry.expiresAt = c.timeProvider.Now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

var _ gateway.Cache = (*MemoryCache)(nil)
