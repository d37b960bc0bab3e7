package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is a cached value with its expiry.
type Entry[V any] struct {
	Value     V
	ExpiresAt time.Time
}

// Cache is an in-memory, TTL-bounded result store. Nothing survives a
// restart.
type Cache[V any] struct {
	mu    sync.RWMutex
	items map[string]*Entry[V]
	ttl   time.Duration
	now   func() time.Time
}

// New creates a cache whose entries expire after ttl. A non-positive ttl
// defaults to one hour.
func New[V any](ttl time.Duration) *Cache[V] {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache[V]{
		items: make(map[string]*Entry[V]),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get retrieves a value if present and not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[key]
	if !ok || c.now().After(e.ExpiresAt) {
		return zero, false
	}
	return e.Value, true
}

// Set stores v under key.
func (c *Cache[V]) Set(key string, v V) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &Entry[V]{Value: v, ExpiresAt: c.now().Add(c.ttl)}
}

// Put stores v under a fresh UUID and returns it.
func (c *Cache[V]) Put(v V) string {
	id := uuid.NewString()
	c.Set(id, v)
	return id
}

// Len counts entries, expired ones included until the next sweep.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*Entry[V])
}

// Sweep drops expired entries and returns how many were removed.
func (c *Cache[V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for k, e := range c.items {
		if now.After(e.ExpiresAt) {
			delete(c.items, k)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (c *Cache[V]) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

// Key derives a stable cache key from a JSON-encodable request.
func Key(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
