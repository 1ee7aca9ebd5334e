package worker

import (
	"context"
	"log/slog"
	"time"

	"hn-sans-ai/internal/classify"
	"hn-sans-ai/internal/model"
)

// Resolver is the fetch surface the warmer drives. RefreshIDs must bypass the
// cache so each cycle picks up the current ranking.
type Resolver interface {
	RefreshIDs(ctx context.Context, kind model.FeedKind) ([]int, error)
	ResolveItems(ctx context.Context, ids []int) ([]model.Item, error)
}

// Warmer periodically resolves the head of each feed so interactive sessions
// find the cache populated.
type Warmer struct {
	Resolver   Resolver
	Classifier *classify.Classifier
	Feed       model.FeedKind
	Interval   time.Duration
	Depth      int // how many ids of the feed to resolve
}

func (w *Warmer) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 10 * time.Minute
	}
	if w.Depth <= 0 {
		w.Depth = 50
	}

	// initial run
	w.RunOnce(ctx)

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce warms one feed and returns the filtering result of its head.
func (w *Warmer) RunOnce(ctx context.Context) classify.Result {
	ids, err := w.Resolver.RefreshIDs(ctx, w.Feed)
	if err != nil {
		slog.Error("warmer: resolve feed error", "feed", w.Feed, "error", err)
		return classify.Result{}
	}
	if len(ids) > w.Depth {
		ids = ids[:w.Depth]
	}
	items, err := w.Resolver.ResolveItems(ctx, ids)
	if err != nil {
		slog.Error("warmer: resolve items error", "feed", w.Feed, "error", err)
		return classify.Result{}
	}
	res := w.Classifier.FilterBatch(items)
	slog.Info("warmer: completed for feed", "feed", w.Feed, "resolved", len(items), "excluded", res.Excluded)
	return res
}
