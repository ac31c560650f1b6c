package cache

import (
	"sync"
	"time"
)

const _defaultCleanupInterval = time.Minute

// Cache is an explicit key -> value store with per-entry TTL. Call sites
// build their own keys and decide when to invalidate; nothing is implicit.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]

	stop chan struct{}
	once sync.Once
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

func New[V any]() *Cache[V] {
	c := &Cache[V]{
		entries: make(map[string]entry[V]),
		stop:    make(chan struct{}),
	}

	go c.cleanup(_defaultCleanupInterval)

	return c
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		var zero V
		return zero, false
	}

	return e.value, true
}

func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// DeletePrefix drops every entry whose key starts with prefix. Used to
// invalidate all variant URLs of one image at once.
func (c *Cache[V]) DeletePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k := range c.entries {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.entries, k)
		}
	}
}

func (c *Cache[V]) Close() {
	c.once.Do(func() {
		close(c.stop)
	})
}

func (c *Cache[V]) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := time.Now()

			c.mu.Lock()
			for k, e := range c.entries {
				if now.After(e.expiresAt) {
					delete(c.entries, k)
				}
			}
			c.mu.Unlock()
		}
	}
}
