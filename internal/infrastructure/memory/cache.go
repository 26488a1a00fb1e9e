package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/oksasatya/go-user-resource-api/internal/application"
)

type cacheEntry struct {
	value   []byte
	expires time.Time // zero means no expiry
}

// Cache is an in-process application.Cache used when Redis is not configured.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
	swept   time.Time
}

const sweepInterval = 10 * time.Second

func NewCache() *Cache {
	return &Cache{entries: map[string]cacheEntry{}, now: time.Now}
}

// WithClock replaces the time source; tests use it to step past expiry.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false, nil
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true, nil
}

func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	c.sweep(now)
	e := cacheEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = now.Add(ttl)
	}
	c.entries[key] = e
	return nil
}

func (c *Cache) Remove(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func (c *Cache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweep(c.now())
	var n int64
	if e, ok := c.entries[key]; ok {
		n, _ = strconv.ParseInt(string(e.value), 10, 64)
	}
	n++
	c.entries[key] = cacheEntry{value: []byte(strconv.FormatInt(n, 10))}
	return n, nil
}

// sweep drops expired entries. List keys orphaned by an epoch bump are never
// read again, so Get alone would not reclaim them. Caller holds mu.
func (c *Cache) sweep(now time.Time) {
	if now.Sub(c.swept) < sweepInterval {
		return
	}
	c.swept = now
	for k, e := range c.entries {
		if !e.expires.IsZero() && !now.Before(e.expires) {
			delete(c.entries, k)
		}
	}
}

// Len reports the number of stored keys, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

var _ application.Cache = (*Cache)(nil)
