package limiter

import (
	"sync"
	"time"
)

// MemoryLimiter counts failures per key (client IP, ip|email) inside a sliding window.
type MemoryLimiter struct {
	mu       sync.Mutex
	history  map[string][]time.Time
	window   time.Duration
	maxFails int
	now      func() time.Time
}

func NewMemoryLimiter(window time.Duration, maxFails int) *MemoryLimiter {
	return &MemoryLimiter{
		history:  make(map[string][]time.Time),
		window:   window,
		maxFails: maxFails,
		now:      time.Now,
	}
}

// TooMany reports whether key reached the failure threshold within the window.
func (r *MemoryLimiter) TooMany(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	slice := r.history[key]

	pruned := slice[:0]
	for _, t := range slice {
		if now.Sub(t) <= r.window {
			pruned = append(pruned, t)
		}
	}

	if len(pruned) == 0 {
		delete(r.history, key)
		return false
	}

	r.history[key] = pruned

	return len(pruned) >= r.maxFails
}

func (r *MemoryLimiter) Fail(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.history[key] = append(r.history[key], r.now())
}

// Reset forgets the failures of key, e.g. after a successful sign-in.
func (r *MemoryLimiter) Reset(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.history, key)
}
