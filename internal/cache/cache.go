package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"hn-sans-ai/internal/storage"

	"github.com/benbjohnson/clock"
)

// Options configures a Tiered cache.
type Options struct {
	// Namespace prefixes persistent keys, e.g. "item" gives "item:42".
	Namespace     string
	VolatileTTL   time.Duration
	PersistentTTL time.Duration
	Clock         clock.Clock
}

// Tiered is a two-level cache for one value type. The volatile tier is a map
// owned by the cache; the persistent tier is a storage.Store holding JSON
// encoded entries. Each tier applies its own ttl, evaluated at read time.
type Tiered[K comparable, V any] struct {
	opts      Options
	store     storage.Store
	cacheable func(V) bool

	mu  sync.RWMutex
	mem map[K]Entry[V]

	counters Counters
}

// NewTiered creates a cache. store may be nil, in which case only the volatile
// tier is used. cacheable may be nil to accept every value.
func NewTiered[K comparable, V any](store storage.Store, opts Options, cacheable func(V) bool) *Tiered[K, V] {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	return &Tiered[K, V]{
		opts:      opts,
		store:     store,
		cacheable: cacheable,
		mem:       map[K]Entry[V]{},
	}
}

func (c *Tiered[K, V]) storeKey(key K) string {
	return fmt.Sprintf("%s:%v", c.opts.Namespace, key)
}

// Get looks a key up in the given tier. A volatile lookup that misses falls
// through to the persistent tier and promotes a fresh hit into memory.
func (c *Tiered[K, V]) Get(ctx context.Context, tier Tier, key K) (V, bool) {
	if tier == Volatile {
		if v, ok := c.getVolatile(key); ok {
			c.counters.volatileHits.Add(1)
			return v, true
		}
	}
	v, ok := c.getPersistent(ctx, key)
	if !ok {
		c.counters.misses.Add(1)
		return v, false
	}
	c.counters.persistentHits.Add(1)
	if tier == Volatile {
		c.setVolatile(key, v)
		c.counters.promotions.Add(1)
	}
	return v, true
}

func (c *Tiered[K, V]) getVolatile(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.mem[key]
	c.mu.RUnlock()
	if !ok {
		var zero V
		return zero, false
	}
	if !e.Valid(c.opts.Clock.Now(), c.opts.VolatileTTL) {
		c.mu.Lock()
		// Only drop the entry we judged stale; a concurrent Put may have replaced it.
		if cur, ok := c.mem[key]; ok && cur.CachedAt.Equal(e.CachedAt) {
			delete(c.mem, key)
		}
		c.mu.Unlock()
		c.counters.evictions.Add(1)
		var zero V
		return zero, false
	}
	return e.Value, true
}

func (c *Tiered[K, V]) setVolatile(key K, v V) {
	c.mu.Lock()
	c.mem[key] = Entry[V]{Value: v, CachedAt: c.opts.Clock.Now()}
	c.mu.Unlock()
}

func (c *Tiered[K, V]) getPersistent(ctx context.Context, key K) (V, bool) {
	var zero V
	if c.store == nil {
		return zero, false
	}
	sk := c.storeKey(key)
	raw, err := c.store.Get(ctx, sk)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Debug("cache: persistent read failed", "key", sk, "error", err)
		}
		return zero, false
	}
	var e Entry[V]
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		slog.Debug("cache: dropping undecodable entry", "key", sk, "error", err)
		c.remove(ctx, sk)
		return zero, false
	}
	if !e.Valid(c.opts.Clock.Now(), c.opts.PersistentTTL) {
		c.remove(ctx, sk)
		c.counters.evictions.Add(1)
		return zero, false
	}
	return e.Value, true
}

func (c *Tiered[K, V]) remove(ctx context.Context, sk string) {
	if err := c.store.Remove(ctx, sk); err != nil {
		slog.Debug("cache: persistent remove failed", "key", sk, "error", err)
	}
}

// Put stores the value in both tiers. Values rejected by the cacheable
// predicate are ignored. The persistent write never fails the caller; its
// outcome is returned for logging.
func (c *Tiered[K, V]) Put(ctx context.Context, key K, v V) BestEffort {
	sk := c.storeKey(key)
	if c.cacheable != nil && !c.cacheable(v) {
		return BestEffort{Op: "skip", Key: sk}
	}
	now := c.opts.Clock.Now()
	e := Entry[V]{Value: v, CachedAt: now}

	c.mu.Lock()
	c.mem[key] = e
	c.mu.Unlock()

	if c.store == nil {
		return BestEffort{Op: "put", Key: sk}
	}
	b, err := json.Marshal(e)
	if err != nil {
		c.counters.writeFailures.Add(1)
		return BestEffort{Op: "put", Key: sk, Err: err}
	}
	if err := c.store.Set(ctx, sk, string(b)); err != nil {
		c.counters.writeFailures.Add(1)
		return BestEffort{Op: "put", Key: sk, Err: err}
	}
	return BestEffort{Op: "put", Key: sk}
}

// Len returns the number of entries held in the volatile tier, fresh or not.
func (c *Tiered[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.mem)
}

// Stats returns a snapshot of the cache counters.
func (c *Tiered[K, V]) Stats() Snapshot {
	return c.counters.snapshot(c.Len())
}

// Counters tracks cache activity.
type Counters struct {
	volatileHits   atomic.Int64
	persistentHits atomic.Int64
	misses         atomic.Int64
	promotions     atomic.Int64
	evictions      atomic.Int64
	writeFailures  atomic.Int64
}

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	Entries        int   `json:"entries"`
	VolatileHits   int64 `json:"volatile_hits"`
	PersistentHits int64 `json:"persistent_hits"`
	Misses         int64 `json:"misses"`
	Promotions     int64 `json:"promotions"`
	Evictions      int64 `json:"evictions"`
	WriteFailures  int64 `json:"write_failures"`
}

func (c *Counters) snapshot(entries int) Snapshot {
	return Snapshot{
		Entries:        entries,
		VolatileHits:   c.volatileHits.Load(),
		PersistentHits: c.persistentHits.Load(),
		Misses:         c.misses.Load(),
		Promotions:     c.promotions.Load(),
		Evictions:      c.evictions.Load(),
		WriteFailures:  c.writeFailures.Load(),
	}
}
