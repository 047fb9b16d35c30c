package cache

import (
	"fmt"
	"sync"
	"time"

	"OddsCast/internal/domain/models"

	"github.com/benbjohnson/clock"
)

// ChartCache memoizes simplified chart payloads per (window, epsilon)
// key for a short TTL. Expired entries are overwritten on recompute;
// there is no other eviction because the key space is small and fixed.
// The cache is in-memory only and starts empty on every process start.
type ChartCache struct {
	mu  sync.RWMutex
	m   map[string]entry
	ttl time.Duration
	clk clock.Clock
}

type entry struct {
	series   *models.SimplifiedSeries
	captured time.Time
}

// New creates a chart cache with the given TTL.
func New(ttl time.Duration) *ChartCache {
	return NewWithClock(ttl, clock.New())
}

// NewWithClock creates a chart cache on an injected clock.
func NewWithClock(ttl time.Duration, clk clock.Clock) *ChartCache {
	return &ChartCache{m: make(map[string]entry), ttl: ttl, clk: clk}
}

// Key builds the cache key for a (window, epsilon) pair.
func Key(window string, epsilon float64) string {
	return fmt.Sprintf("%s|%.4f", window, epsilon)
}

// Get returns the cached payload for key if its age is under the TTL.
func (c *ChartCache) Get(key string) (*models.SimplifiedSeries, bool) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.clk.Now().Sub(e.captured) >= c.ttl {
		return nil, false
	}
	return e.series, true
}

// Set stores the payload for key with the current instant as capture time.
func (c *ChartCache) Set(key string, series *models.SimplifiedSeries) {
	c.mu.Lock()
	c.m[key] = entry{series: series, captured: c.clk.Now()}
	c.mu.Unlock()
}
