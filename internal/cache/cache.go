// Package cache memoises assembled documents by file identity and keeps the
// entries honest by watching the content tree for changes.
package cache

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// Result labels passed to the observer.
const (
	ResultHit  = "hit"
	ResultMiss = "miss"
)

const keySeparator = "|"

// DefaultTTL bounds how long an entry survives without being read.
const DefaultTTL = 10 * time.Minute

// Stats reports cache effectiveness.
type Stats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Entries int    `json:"entries"`
}

// DocumentCache stores values keyed by path, modification time and size.
// Editing a file changes its key, so a stale entry can never be served for
// new content; Invalidate and the Watcher only reclaim memory early.
type DocumentCache struct {
	store   *gocache.Cache
	ttl     time.Duration
	hits    atomic.Uint64
	misses  atomic.Uint64
	logger  interfaces.Logger
	observe func(result string)
}

// Option customises a DocumentCache.
type Option func(*DocumentCache)

// WithLogger sets the cache logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *DocumentCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver receives ResultHit or ResultMiss for every lookup.
func WithObserver(observe func(result string)) Option {
	return func(c *DocumentCache) {
		c.observe = observe
	}
}

// New constructs a DocumentCache. A non positive ttl uses DefaultTTL.
func New(ttl time.Duration, opts ...Option) *DocumentCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &DocumentCache{
		store:  gocache.New(ttl, 2*ttl),
		ttl:    ttl,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Key builds the identity of a file version.
func Key(path string, modTime time.Time, size int64) string {
	return path + keySeparator + strconv.FormatInt(modTime.UnixNano(), 10) + keySeparator + strconv.FormatInt(size, 10)
}

// GetOrLoad returns the cached value for the file version or calls load and
// stores its result. Errors are never cached. Concurrent misses for the same
// key may both call load; the last result wins.
func (c *DocumentCache) GetOrLoad(path string, modTime time.Time, size int64, load func() (any, error)) (any, error) {
	key := Key(path, modTime, size)
	if value, ok := c.store.Get(key); ok {
		c.hits.Add(1)
		c.record(ResultHit)
		return value, nil
	}

	c.misses.Add(1)
	c.record(ResultMiss)
	value, err := load()
	if err != nil {
		return nil, err
	}
	c.dropVersions(path, key)
	c.store.Set(key, value, gocache.DefaultExpiration)
	return value, nil
}

// Invalidate drops every cached version of path and returns how many
// entries were removed.
func (c *DocumentCache) Invalidate(path string) int {
	removed := c.dropVersions(path, "")
	if removed > 0 {
		c.logger.Debug("cache.invalidate", "path", path, "entries", removed)
	}
	return removed
}

// Flush empties the cache.
func (c *DocumentCache) Flush() {
	c.store.Flush()
	c.logger.Debug("cache.flush")
}

// Len returns the number of live entries.
func (c *DocumentCache) Len() int {
	return c.store.ItemCount()
}

// Stats returns hit and miss counters.
func (c *DocumentCache) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.store.ItemCount(),
	}
}

func (c *DocumentCache) dropVersions(path, keep string) int {
	prefix := path + keySeparator
	removed := 0
	for key := range c.store.Items() {
		if key == keep || !strings.HasPrefix(key, prefix) {
			continue
		}
		c.store.Delete(key)
		removed++
	}
	return removed
}

func (c *DocumentCache) record(result string) {
	if c.observe != nil {
		c.observe(result)
	}
}
