package banlookup

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"
)

// RefreshPolicy decides whether an index built at `loadedAt` is stale.
// The two ban sources differ only in this predicate.
type RefreshPolicy interface {
	Stale(loadedAt time.Time) bool
}

// MtimePolicy marks the cache stale whenever the backing file has been
// modified since the last load. A missing file also counts as stale so
// a source that reappears is picked up on the next query.
type MtimePolicy struct {
	Path string
}

func (p MtimePolicy) Stale(loadedAt time.Time) bool {
	info, err := os.Stat(p.Path)
	if err != nil {
		return true
	}
	return info.ModTime().After(loadedAt)
}

// TTLPolicy marks the cache stale once a fixed window has passed,
// regardless of the backing file.
type TTLPolicy struct {
	Interval time.Duration
}

func (p TTLPolicy) Stale(loadedAt time.Time) bool {
	return time.Since(loadedAt) >= p.Interval
}

// Cache owns one ban index and its refresh lifecycle. Refreshes build
// a complete replacement index before swapping it in, a reader never
// observes a partially-built index.
type Cache struct {
	mu       sync.Mutex
	policy   RefreshPolicy
	load     func() (Index, error)
	index    Index
	loaded   bool
	loadedAt time.Time
}

func NewCache(policy RefreshPolicy, load func() (Index, error)) *Cache {
	return &Cache{policy: policy, load: load}
}

// Get returns the current index, reloading it first when the policy
// says it is stale. A failing load clears the cache to empty instead
// of propagating, queries then simply resolve to "not found".
func (c *Cache) Get(ctx context.Context) Index {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded && !c.policy.Stale(c.loadedAt) {
		return c.index
	}

	index, err := c.load()
	if err != nil {
		slog.WarnContext(ctx, "failed to load ban index, clearing cache", "err", err)
		index = Index{}
	}
	c.index = index
	c.loaded = true
	c.loadedAt = time.Now()
	return c.index
}
