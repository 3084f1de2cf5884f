// Package cache holds recently scanned directory listings and small
// metadata values for a bounded time.
package cache

import (
	"sync"
	"time"

	"github.com/cesargomez89/reelbox/internal/constants"
	"github.com/cesargomez89/reelbox/internal/domain"
	"github.com/cesargomez89/reelbox/internal/metrics"
)

// Stats holds cache counters.
type Stats struct {
	DirEntries   int   `json:"dir_entries"`
	MetaEntries  int   `json:"meta_entries"`
	TotalEntries int   `json:"total_entries"`
	Hits         int64 `json:"hits"`
	Misses       int64 `json:"misses"`
}

type dirEntry struct {
	rows   []domain.Row
	stored time.Time
}

type metaEntry struct {
	value  any
	stored time.Time
}

// Cache is safe for concurrent use. One mutex guards both maps.
type Cache struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	dirs   map[string]dirEntry
	meta   map[string]metaEntry
	hits   int64
	misses int64

	// onSetDir is called outside the lock after a listing is stored.
	onSetDir func(path string)
}

type Option func(*Cache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a cache. A non-positive ttl means the default of one hour.
func New(ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}
	c := &Cache{
		ttl:  ttl,
		now:  time.Now,
		dirs: make(map[string]dirEntry),
		meta: make(map[string]metaEntry),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Cache) TTL() time.Duration {
	return c.ttl
}

func (c *Cache) expired(stored time.Time) bool {
	return c.now().Sub(stored) >= c.ttl
}

func (c *Cache) hit(kind string) {
	c.hits++
	metrics.CacheLookups.WithLabelValues(kind, "hit").Inc()
}

func (c *Cache) miss(kind string) {
	c.misses++
	metrics.CacheLookups.WithLabelValues(kind, "miss").Inc()
}

// GetDir returns a copy of the cached rows for path.
func (c *Cache) GetDir(path string) ([]domain.Row, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.dirs[path]
	if !ok {
		c.miss("dir")
		return nil, false
	}
	if c.expired(e.stored) {
		delete(c.dirs, path)
		c.miss("dir")
		return nil, false
	}
	c.hit("dir")
	return domain.CloneRows(e.rows), true
}

// SetDir stores a copy of rows for path.
func (c *Cache) SetDir(path string, rows []domain.Row) {
	c.mu.Lock()
	c.dirs[path] = dirEntry{rows: domain.CloneRows(rows), stored: c.now()}
	hook := c.onSetDir
	c.mu.Unlock()

	if hook != nil {
		hook(path)
	}
}

func (c *Cache) GetMeta(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.meta[key]
	if !ok {
		c.miss("meta")
		return nil, false
	}
	if c.expired(e.stored) {
		delete(c.meta, key)
		c.miss("meta")
		return nil, false
	}
	c.hit("meta")
	return e.value, true
}

func (c *Cache) SetMeta(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.meta[key] = metaEntry{value: value, stored: c.now()}
}

func (c *Cache) InvalidateDir(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.dirs, path)
}

func (c *Cache) InvalidateMeta(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.meta, key)
}

// Clear drops every entry. Counters are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirs = make(map[string]dirEntry)
	c.meta = make(map[string]metaEntry)
}

// CleanupExpired removes expired entries from both maps and returns how
// many were removed.
func (c *Cache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for k, e := range c.dirs {
		if c.expired(e.stored) {
			delete(c.dirs, k)
			count++
		}
	}
	for k, e := range c.meta {
		if c.expired(e.stored) {
			delete(c.meta, k)
			count++
		}
	}
	metrics.CacheEvictions.Add(float64(count))
	return count
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		DirEntries:   len(c.dirs),
		MetaEntries:  len(c.meta),
		TotalEntries: len(c.dirs) + len(c.meta),
		Hits:         c.hits,
		Misses:       c.misses,
	}
}
