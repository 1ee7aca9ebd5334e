package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hn-sans-ai/internal/cache"
	"hn-sans-ai/internal/classify"
	"hn-sans-ai/internal/config"
	"hn-sans-ai/internal/hackernews"
	"hn-sans-ai/internal/redisclient"
	"hn-sans-ai/internal/storage"
)

// openStore opens the configured persistent backend. It returns nil when the
// persistent tier is disabled or its backend is unreachable.
func openStore(ctx context.Context, cfg config.Config) storage.Store {
	persistentTTL := config.Duration(cfg.Cache.PersistentTTL, cache.DefaultPersistentTTL)
	switch strings.ToLower(cfg.Cache.Backend) {
	case "none":
		return nil
	case "memory":
		return storage.NewMemoryStore(cfg.Cache.Capacity)
	case "redis":
		rdb := redisclient.New(cfg.Redis)
		if err := redisclient.WaitReady(ctx, rdb, 3*time.Second); err != nil {
			slog.Warn("cache: redis unavailable, persistent tier disabled", "addr", cfg.Redis.Addr, "error", err)
			rdb.Close()
			return nil
		}
		return storage.NewRedisStore(rdb, cfg.Redis.Prefix, persistentTTL)
	default:
		s, err := storage.OpenSQLite(cfg.Cache.Path)
		if err != nil {
			slog.Warn("cache: sqlite unavailable, persistent tier disabled", "path", cfg.Cache.Path, "error", err)
			return nil
		}
		return s
	}
}

func newCacheLayer(cfg config.Config, store storage.Store) *cache.Layer {
	return cache.NewLayer(store, cache.Config{
		VolatileTTL:   config.Duration(cfg.Cache.VolatileTTL, cache.DefaultVolatileTTL),
		PersistentTTL: config.Duration(cfg.Cache.PersistentTTL, cache.DefaultPersistentTTL),
	})
}

func newFetcher(cfg config.Config, layer *cache.Layer) *hackernews.Fetcher {
	client := hackernews.NewClient(cfg.HackerNews.BaseAPI,
		hackernews.WithTimeout(config.Duration(cfg.HackerNews.Timeout, 10*time.Second)),
		hackernews.WithRateLimit(cfg.HackerNews.RateLimit),
	)
	return hackernews.NewFetcher(client, layer, cfg.HackerNews.Concurrency)
}

func newClassifier(cfg config.ClassifierConfig) (*classify.Classifier, error) {
	set, err := classify.DefaultKeywordSet()
	if err != nil {
		return nil, err
	}
	if cfg.KeywordsFile != "" {
		if set, err = classify.LoadKeywordSet(cfg.KeywordsFile); err != nil {
			return nil, err
		}
	}
	if len(cfg.ExtraKeywords) > 0 {
		set = set.With(cfg.ExtraKeywords...)
	}
	c := classify.New(set)
	slog.Debug("classifier: keyword set loaded", "name", set.Name, "keywords", len(set.Keywords), "fingerprint", set.Fingerprint())
	return c, nil
}

// pipeline bundles everything a command needs to read feeds.
type pipeline struct {
	store      storage.Store
	layer      *cache.Layer
	fetcher    *hackernews.Fetcher
	classifier *classify.Classifier
}

func newPipeline(ctx context.Context, cfg config.Config) (*pipeline, error) {
	classifier, err := newClassifier(cfg.Classifier)
	if err != nil {
		return nil, fmt.Errorf("loading keywords: %w", err)
	}
	store := openStore(ctx, cfg)
	layer := newCacheLayer(cfg, store)
	return &pipeline{
		store:      store,
		layer:      layer,
		fetcher:    newFetcher(cfg, layer),
		classifier: classifier,
	}, nil
}

func (p *pipeline) Close() {
	items, feeds := p.layer.Items.Stats(), p.layer.Feeds.Stats()
	slog.Debug("cache: item stats", "stats", items)
	slog.Debug("cache: feed stats", "stats", feeds)
	if p.store != nil {
		if err := p.store.Close(); err != nil {
			slog.Debug("cache: close store", "error", err)
		}
	}
}
