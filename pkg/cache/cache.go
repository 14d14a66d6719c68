package cache

import (
	"context"
	"sync"
	"time"
)

// Store is a key-value cache with per-entry expiration. The event catalog
// and assembled summaries are cached behind this interface; the in-memory
// implementation is the default and a Redis-backed one is used when
// REDIS_ADDR is configured.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// item represents a cached item with expiration
type item struct {
	value      string
	expiration int64
}

// expired checks if the cache item has expired
func (it item) expired() bool {
	if it.expiration == 0 {
		return false
	}
	return time.Now().UnixNano() > it.expiration
}

// Memory is a thread-safe in-memory cache with expiration
type Memory struct {
	items           map[string]item
	mu              sync.RWMutex
	maxItems        int
	cleanupInterval time.Duration
}

// NewMemory creates a new in-memory cache. A cleanup goroutine is started
// when cleanupInterval > 0.
func NewMemory(maxItems int, cleanupInterval time.Duration) *Memory {
	c := &Memory{
		items:           make(map[string]item),
		maxItems:        maxItems,
		cleanupInterval: cleanupInterval,
	}

	if cleanupInterval > 0 {
		go c.startCleanupTimer()
	}

	return c
}

// Get retrieves a value from the cache
func (c *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, found := c.items[key]
	if !found || it.expired() {
		return "", false, nil
	}
	return it.value, true, nil
}

// Set adds an item to the cache with the given TTL (0 means no expiry)
func (c *Memory) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	var exp int64
	if ttl > 0 {
		exp = time.Now().Add(ttl).UnixNano()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxItems > 0 && len(c.items) >= c.maxItems {
		if _, exists := c.items[key]; !exists {
			c.evictOldest()
		}
	}

	c.items[key] = item{value: value, expiration: exp}
	return nil
}

// Delete removes an item from the cache
func (c *Memory) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

// evictOldest drops the entry closest to expiry. Caller must hold the lock.
func (c *Memory) evictOldest() {
	var oldestKey string
	var oldestExp int64 = -1

	for key, it := range c.items {
		if it.expired() {
			delete(c.items, key)
			return
		}
		if oldestExp == -1 || (it.expiration != 0 && it.expiration < oldestExp) {
			oldestKey = key
			oldestExp = it.expiration
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}

func (c *Memory) startCleanupTimer() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		for key, it := range c.items {
			if it.expired() {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}
