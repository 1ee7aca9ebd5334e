package hackernews

import (
	"context"
	"log/slog"
	"slices"

	"hn-sans-ai/internal/cache"
	"hn-sans-ai/internal/model"

	"github.com/sourcegraph/conc/iter"
)

// API is the upstream surface the Fetcher needs; *Client implements it.
type API interface {
	FeedIDs(ctx context.Context, kind model.FeedKind) ([]int, error)
	Item(ctx context.Context, id int) (model.Item, error)
}

// Fetcher resolves feeds and items, consulting the cache layer before the
// network and populating it afterwards.
type Fetcher struct {
	api         API
	cache       *cache.Layer
	concurrency int
}

// NewFetcher wires an API to a cache layer. concurrency bounds in-flight item
// fetches per batch; zero means the whole batch at once.
func NewFetcher(api API, layer *cache.Layer, concurrency int) *Fetcher {
	return &Fetcher{api: api, cache: layer, concurrency: concurrency}
}

// ResolveIDs returns the ranked ids of a feed. Upstream failures are returned
// as *NetworkError or *ParseError; there is no retry here.
// The returned slice is the caller's own copy.
func (f *Fetcher) ResolveIDs(ctx context.Context, kind model.FeedKind) ([]int, error) {
	if ids, ok := f.cache.Feeds.Get(ctx, cache.Volatile, kind); ok {
		return slices.Clone(ids), nil
	}
	return f.RefreshIDs(ctx, kind)
}

// RefreshIDs fetches the current ranking of a feed, bypassing the cache, and
// replaces the cached id list.
func (f *Fetcher) RefreshIDs(ctx context.Context, kind model.FeedKind) ([]int, error) {
	ids, err := f.api.FeedIDs(ctx, kind)
	if err != nil {
		return nil, err
	}
	logBestEffort(f.cache.Feeds.Put(ctx, kind, slices.Clone(ids)))
	slog.Debug("hackernews: resolved feed", "feed", kind, "count", len(ids))
	return ids, nil
}

// ResolveItems resolves every id concurrently and returns the stories in input
// order. Failed fetches and non-story items are dropped. The only error is the
// cancellation of ctx.
func (f *Fetcher) ResolveItems(ctx context.Context, ids []int) ([]model.Item, error) {
	if len(ids) == 0 {
		return nil, ctx.Err()
	}
	workers := f.concurrency
	if workers <= 0 || workers > len(ids) {
		workers = len(ids)
	}
	mapper := iter.Mapper[int, *model.Item]{MaxGoroutines: workers}
	resolved := mapper.Map(ids, func(id *int) *model.Item {
		return f.resolveItem(ctx, *id)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items := make([]model.Item, 0, len(ids))
	for _, it := range resolved {
		if it != nil {
			items = append(items, *it)
		}
	}
	if dropped := len(ids) - len(items); dropped > 0 {
		slog.Debug("hackernews: batch resolved with gaps", "requested", len(ids), "dropped", dropped)
	}
	return items, nil
}

// resolveItem returns nil for anything that is not a story.
func (f *Fetcher) resolveItem(ctx context.Context, id int) *model.Item {
	if it, ok := f.cache.Items.Get(ctx, cache.Volatile, id); ok {
		return &it
	}
	it, err := f.api.Item(ctx, id)
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("hackernews: item fetch failed", "id", id, "error", err)
		}
		return nil
	}
	if it.ID == 0 || !it.IsStory() {
		return nil
	}
	logBestEffort(f.cache.Items.Put(ctx, id, it))
	return &it
}

func logBestEffort(res cache.BestEffort) {
	if res.Failed() {
		slog.Debug("hackernews: cache write skipped", "op", res.Op, "key", res.Key, "error", res.Err)
	}
}
