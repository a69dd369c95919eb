// Package cache keeps client-side copies of server data and applies
// optimistic updates to them.
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"omninews/internal/core"
)

// Query keys
const (
	KeySubscribedChannels  = "subscribed-channels"
	KeyRecommendedChannels = "recommended-channels"
	KeyRecommendedItems    = "recommended-items"
	KeyFolders             = "folders"
	KeyTheme               = "theme"
)

// DefaultStaleTime applies to keys without their own stale time
const DefaultStaleTime = 5 * time.Minute

// sharedFetchTimeout bounds a fetch that outlives the caller that started it
const sharedFetchTimeout = 30 * time.Second

type entry struct {
	value     any
	fetchedAt time.Time
	stale     bool
}

type hook struct {
	prefix string
	fn     func()
}

// Cache maps query keys to their last fetched value. An entry older than its
// stale time, or invalidated, is refetched on the next Get.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*entry
	versions   map[string]uint64
	staleTimes map[string]time.Duration
	hooks      []hook
	group      singleflight.Group
	now        func() time.Time
	logger     *core.Logger
}

// New creates a cache. The subscribed-channel list goes stale after 30s,
// everything else after DefaultStaleTime.
func New(logger *core.Logger) *Cache {
	c := &Cache{
		entries:    make(map[string]*entry),
		versions:   make(map[string]uint64),
		staleTimes: make(map[string]time.Duration),
		now:        time.Now,
		logger:     logger.ForFeature("cache"),
	}
	c.staleTimes[KeySubscribedChannels] = 30 * time.Second
	return c
}

// SetStaleTime sets the stale time of keys starting with prefix
func (c *Cache) SetStaleTime(prefix string, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.staleTimes[prefix] = d
}

// Get returns the cached value for key, calling fetch when there is no
// fresh copy. Concurrent misses on one key share a single fetch, which runs
// detached from any one caller so a cancelled caller only gives up its own
// wait.
func Get[T any](ctx context.Context, c *Cache, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := c.fresh(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	ch := c.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()

		version := c.version(key)
		value, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		return c.store(key, value, version), nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	if res.Err != nil {
		return zero, res.Err
	}

	typed, ok := res.Val.(T)
	if !ok {
		return zero, fmt.Errorf("cache key %s holds %T", key, res.Val)
	}
	return typed, nil
}

// Peek returns the cached value for key, fresh or not
func Peek[T any](c *Cache, key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	typed, ok := e.value.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Set stores value under key as freshly fetched. A fetch for key that was
// already running when Set was called will not overwrite value.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[key]++
	c.entries[key] = &entry{value: value, fetchedAt: c.now()}
}

func (c *Cache) version(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[key]
}

// store saves a fetched value unless key was written after the fetch began,
// in which case the newer value wins and is returned.
func (c *Cache) store(key string, value any, version uint64) any {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.versions[key] != version {
		if e, ok := c.entries[key]; ok {
			return e.value
		}
	}
	c.versions[key]++
	c.entries[key] = &entry{value: value, fetchedAt: c.now()}
	return value
}

// Invalidate marks every key starting with prefix stale and runs the hooks
// registered for it. Stale values stay readable through Peek.
func (c *Cache) Invalidate(prefix string) {
	c.mu.Lock()
	n := 0
	for key, e := range c.entries {
		if strings.HasPrefix(key, prefix) {
			e.stale = true
			n++
		}
	}
	var fns []func()
	for _, h := range c.hooks {
		if strings.HasPrefix(h.prefix, prefix) || strings.HasPrefix(prefix, h.prefix) {
			fns = append(fns, h.fn)
		}
	}
	c.mu.Unlock()

	c.logger.Debug("Invalidated queries", "prefix", prefix, "entries", n)
	for _, fn := range fns {
		fn()
	}
}

// Remove drops every key starting with prefix
func (c *Cache) Remove(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// Clear drops everything, as on sign-out
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*entry)
	fns := make([]func(), 0, len(c.hooks))
	for _, h := range c.hooks {
		fns = append(fns, h.fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// OnInvalidate registers fn to run whenever a prefix overlapping prefix is
// invalidated
func (c *Cache) OnInvalidate(prefix string, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, hook{prefix: prefix, fn: fn})
}

func (c *Cache) fresh(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || e.stale {
		return nil, false
	}
	if c.now().Sub(e.fetchedAt) >= c.staleTimeLocked(key) {
		return nil, false
	}
	return e.value, true
}

// staleTimeLocked returns the stale time of the longest matching prefix
func (c *Cache) staleTimeLocked(key string) time.Duration {
	best, bestLen := DefaultStaleTime, -1
	for prefix, d := range c.staleTimes {
		if strings.HasPrefix(key, prefix) && len(prefix) > bestLen {
			best, bestLen = d, len(prefix)
		}
	}
	return best
}
