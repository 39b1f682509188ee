package assets

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Disposable is implemented by cached values holding image or texture
// memory that should be released on Clear.
type Disposable interface {
	Dispose()
}

// Entry is one memoised asset.
type Entry struct {
	Key      string
	Value    any
	LoadedAt time.Time
}

// Cache memoises decoded assets for the process lifetime. Static
// geographic data never changes at runtime, so entries are never
// implicitly evicted. Concurrent loads of the same key are collapsed
// into a single in-flight request; the first writer wins.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	group   singleflight.Group
}

// NewCache creates an empty asset cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]Entry)}
}

// Get returns the cached value for key, if present.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e.Value, ok
}

// GetOrLoad returns the cached value for key, loading and memoising it
// on a miss. Concurrent callers for the same key share one load.
func (c *Cache) GetOrLoad(ctx context.Context, key string, load func(ctx context.Context) (any, error)) (any, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A racing loader may have written while we queued.
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = Entry{Key: key, Value: value, LoadedAt: time.Now()}
		c.mu.Unlock()
		return value, nil
	})
	return v, err
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns the cached keys, for diagnostics.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}

// Clear drops every entry, disposing values that hold image or texture
// resources. The explicit teardown for process shutdown and tests.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if d, ok := e.Value.(Disposable); ok {
			d.Dispose()
		}
	}
	c.entries = make(map[string]Entry)
}
