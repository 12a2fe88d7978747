package cache

import (
	"sync"
	"time"
)

// TTLCache tracks key existence for a limited time. Values are not stored.
// It is process-local: revoked session tokens and newsletter dedupe keys live here.
type TTLCache struct {
	mu   sync.Mutex
	data map[string]time.Time
	now  func() time.Time
}

func NewTTLCache() *TTLCache {
	return &TTLCache{
		data: make(map[string]time.Time),
		now:  time.Now,
	}
}

// Used reports whether key is present and not expired.
func (c *TTLCache) Used(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	exp, ok := c.data[key]
	if !ok {
		return false
	}

	if c.now().After(exp) {
		delete(c.data, key)
		return false
	}

	return true
}

// Mark stores the key until ttl elapses and prunes expired keys.
func (c *TTLCache) Mark(key string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prune()
	c.data[key] = c.now().Add(ttl)
}

// UseOnce marks key and reports whether it was already live.
func (c *TTLCache) UseOnce(key string, ttl time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	if exp, ok := c.data[key]; ok && !now.After(exp) {
		return true
	}

	c.prune()
	c.data[key] = now.Add(ttl)

	return false
}

func (c *TTLCache) prune() {
	now := c.now()

	for key, exp := range c.data {
		if now.After(exp) {
			delete(c.data, key)
		}
	}
}
