package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"hn-sans-ai/internal/cache"
	"hn-sans-ai/internal/classify"
	"hn-sans-ai/internal/hackernews"
	"hn-sans-ai/internal/model"
	"hn-sans-ai/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingResolver struct {
	ids       []int
	feedCalls atomic.Int32
	lastBatch atomic.Int32
	err       error
}

func (r *countingResolver) RefreshIDs(context.Context, model.FeedKind) ([]int, error) {
	r.feedCalls.Add(1)
	return r.ids, r.err
}

func (r *countingResolver) ResolveItems(_ context.Context, ids []int) ([]model.Item, error) {
	r.lastBatch.Store(int32(len(ids)))
	items := make([]model.Item, len(ids))
	for i, id := range ids {
		items[i] = model.Item{ID: id, Kind: model.KindStory, Title: "Rust 2.0"}
	}
	if len(items) > 0 {
		items[0].Title = "OpenAI ships a thing"
	}
	return items, nil
}

func TestWarmerRunOnceHonorsDepth(t *testing.T) {
	r := &countingResolver{ids: []int{1, 2, 3, 4, 5}}
	w := &Warmer{Resolver: r, Classifier: classify.Default(), Feed: model.FeedTop, Depth: 3}

	res := w.RunOnce(context.Background())
	assert.EqualValues(t, 3, r.lastBatch.Load())
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Excluded)
}

func TestWarmerRunOnceFeedError(t *testing.T) {
	r := &countingResolver{err: errors.New("down")}
	w := &Warmer{Resolver: r, Classifier: classify.Default(), Feed: model.FeedTop}
	assert.Zero(t, w.RunOnce(context.Background()).Total)
}

func TestManagerRunsWarmersUntilCancelled(t *testing.T) {
	r := &countingResolver{ids: []int{1}}
	w := &Warmer{Resolver: r, Classifier: classify.Default(), Feed: model.FeedNew, Interval: 10 * time.Millisecond}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, NewManager(w).Start(ctx))
	assert.GreaterOrEqual(t, r.feedCalls.Load(), int32(2))
}

type rankingAPI struct {
	ranking atomic.Pointer[[]int]
}

func (a *rankingAPI) FeedIDs(context.Context, model.FeedKind) ([]int, error) {
	return *a.ranking.Load(), nil
}

func (a *rankingAPI) Item(_ context.Context, id int) (model.Item, error) {
	return model.Item{ID: id, Kind: model.KindStory, Title: "Story"}, nil
}

func TestWarmerPicksUpNewRanking(t *testing.T) {
	api := &rankingAPI{}
	api.ranking.Store(&[]int{1, 2, 3})
	layer := cache.NewLayer(storage.NewMemoryStore(0), cache.Config{})
	f := hackernews.NewFetcher(api, layer, 0)
	w := &Warmer{Resolver: f, Classifier: classify.Default(), Feed: model.FeedTop, Depth: 10}
	ctx := context.Background()

	w.RunOnce(ctx)
	api.ranking.Store(&[]int{3, 1, 2, 4})
	w.RunOnce(ctx)

	ids, err := f.ResolveIDs(ctx, model.FeedTop)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2, 4}, ids)
}
