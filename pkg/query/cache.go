// Package query caches list reads of the notes collection.
//
// Entries are keyed by the query tuple (page, page size, search term) and
// follow stale-while-revalidate: an invalidated entry keeps its last result so
// callers can keep showing it while a fresh read is in flight.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/aretw0/notehub/pkg/core"
)

const (
	// DefaultStaleTime is how long a result is considered fresh.
	DefaultStaleTime = 5 * time.Minute
	// DefaultGCTime is how long an unused entry is kept before eviction.
	DefaultGCTime = 5 * time.Minute
)

// Key identifies one cached read.
type Key struct {
	Page     int
	PageSize int
	Search   string
}

// KeyFor derives the cache key of a query.
func KeyFor(q core.Query) Key {
	q = q.Normalize()
	return Key{Page: q.Page, PageSize: q.PageSize, Search: q.Search}
}

// Query converts the key back into a read query.
func (k Key) Query() core.Query {
	return core.Query{Page: k.Page, PageSize: k.PageSize, Search: k.Search}
}

func (k Key) String() string {
	return fmt.Sprintf("notes|%d|%d|%s", k.Page, k.PageSize, k.Search)
}

// Entry is a snapshot of one cached read.
type Entry struct {
	Result    core.FetchResult
	FetchedAt time.Time
	Stale     bool
	InFlight  bool
	Err       error // last fetch error; Result still holds the previous success
	HasResult bool
}

// Fetcher performs the actual read.
type Fetcher func(ctx context.Context, q core.Query) (core.FetchResult, error)

type entry struct {
	result    core.FetchResult
	fetchedAt time.Time
	stale     bool
	inFlight  int
	err       error
	hasResult bool
	epoch     uint64 // invalidation epoch the stored result was fetched in
	lastUsed  time.Time
}

// Cache maps query keys to their last results.
type Cache struct {
	fetch     Fetcher
	staleTime time.Duration
	gcTime    time.Duration
	now       func() time.Time
	logger    *slog.Logger

	group singleflight.Group

	mu      sync.RWMutex
	entries map[Key]*entry
	epoch   uint64
	fetches uint64
	evicted uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithStaleTime sets how long a result stays fresh.
func WithStaleTime(d time.Duration) Option {
	return func(c *Cache) { c.staleTime = d }
}

// WithGCTime sets how long an entry may go unused before it is evicted.
// Zero or less disables eviction.
func WithGCTime(d time.Duration) Option {
	return func(c *Cache) { c.gcTime = d }
}

// WithLogger sets the logger for the cache.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// WithClock overrides the time source (useful for testing).
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a Cache backed by fetch.
func New(fetch Fetcher, opts ...Option) *Cache {
	c := &Cache{
		fetch:     fetch,
		staleTime: DefaultStaleTime,
		gcTime:    DefaultGCTime,
		now:       time.Now,
		entries:   make(map[Key]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Peek returns the entry for key without fetching. It counts as a use.
func (c *Cache) Peek(key Key) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	e.lastUsed = c.now()
	return Entry{
		Result:    e.result,
		FetchedAt: e.fetchedAt,
		Stale:     e.stale || c.expired(e),
		InFlight:  e.inFlight > 0,
		Err:       e.err,
		HasResult: e.hasResult,
	}, true
}

// Fresh reports whether key holds a result that can be used without a read.
func (c *Cache) Fresh(key Key) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	return ok && e.hasResult && e.err == nil && !e.stale && !c.expired(e)
}

func (c *Cache) expired(e *entry) bool {
	return c.staleTime > 0 && c.now().Sub(e.fetchedAt) > c.staleTime
}

// Fetch reads key through the fetcher. Concurrent fetches of the same key
// within one invalidation epoch share a single call. On failure the previous
// result is kept and the error recorded.
func (c *Cache) Fetch(ctx context.Context, key Key) (core.FetchResult, error) {
	c.mu.Lock()
	c.sweepLocked(key)
	epoch := c.epoch
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	e.inFlight++
	e.lastUsed = c.now()
	c.mu.Unlock()

	flightKey := fmt.Sprintf("%s#%d", key, epoch)
	v, err, shared := c.group.Do(flightKey, func() (any, error) {
		c.mu.Lock()
		c.fetches++
		c.mu.Unlock()
		return c.fetch(ctx, key.Query())
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	e.inFlight--
	if err != nil {
		e.err = err
		if c.logger != nil {
			c.logger.Debug("fetch failed", "key", key.String(), "error", err)
		}
		return core.FetchResult{}, err
	}

	res := v.(core.FetchResult)
	if e.hasResult && e.epoch > epoch {
		// A read issued after an invalidation already landed; keep it.
		return res, nil
	}
	e.result = res
	e.epoch = epoch
	e.hasResult = true
	e.err = nil
	e.fetchedAt = c.now()
	// Invalidated while we were fetching: keep the data, but it is not fresh.
	e.stale = epoch != c.epoch

	if c.logger != nil {
		c.logger.Debug("fetch complete", "key", key.String(), "notes", len(res.Notes), "shared", shared, "stale", e.stale)
	}
	return res, nil
}

// sweepLocked evicts entries other than keep that are idle and unused for
// longer than the GC time.
func (c *Cache) sweepLocked(keep Key) {
	if c.gcTime <= 0 {
		return
	}
	now := c.now()
	for k, e := range c.entries {
		if k == keep || e.inFlight > 0 || now.Sub(e.lastUsed) <= c.gcTime {
			continue
		}
		delete(c.entries, k)
		c.evicted++
		if c.logger != nil {
			c.logger.Debug("cache entry evicted", "key", k.String())
		}
	}
}

// Invalidate marks every entry stale without dropping results, so callers
// can keep displaying them until a fresh read lands.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	for _, e := range c.entries {
		e.stale = true
	}
	if c.logger != nil {
		c.logger.Debug("cache invalidated", "entries", len(c.entries), "epoch", c.epoch)
	}
}

// Len returns the number of cached keys.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
