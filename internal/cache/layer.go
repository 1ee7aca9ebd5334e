package cache

import (
	"time"

	"hn-sans-ai/internal/model"
	"hn-sans-ai/internal/storage"

	"github.com/benbjohnson/clock"
)

// Default lifetimes of the two tiers.
const (
	DefaultVolatileTTL   = 5 * time.Minute
	DefaultPersistentTTL = 30 * time.Minute
)

// Layer groups the id-list and item caches that share one persistent store.
// Feed and item keys live in disjoint namespaces.
type Layer struct {
	Feeds *Tiered[model.FeedKind, []int]
	Items *Tiered[int, model.Item]
}

// Config configures a Layer.
type Config struct {
	VolatileTTL   time.Duration
	PersistentTTL time.Duration
	Clock         clock.Clock
}

// NewLayer builds the caches over store (nil for memory only).
func NewLayer(store storage.Store, cfg Config) *Layer {
	if cfg.VolatileTTL <= 0 {
		cfg.VolatileTTL = DefaultVolatileTTL
	}
	if cfg.PersistentTTL <= 0 {
		cfg.PersistentTTL = DefaultPersistentTTL
	}
	opts := func(ns string) Options {
		return Options{
			Namespace:     ns,
			VolatileTTL:   cfg.VolatileTTL,
			PersistentTTL: cfg.PersistentTTL,
			Clock:         cfg.Clock,
		}
	}
	return &Layer{
		Feeds: NewTiered[model.FeedKind, []int](store, opts("feed"), func(ids []int) bool { return len(ids) > 0 }),
		Items: NewTiered[int, model.Item](store, opts("item"), func(it model.Item) bool { return it.IsStory() }),
	}
}
