package report

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"hn-sans-ai/internal/model"
	"hn-sans-ai/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPostsOnceAndRemembers(t *testing.T) {
	var hits atomic.Int32
	var got Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := storage.NewMemoryStore(0)
	c := New(srv.URL, "please review", 0, store)
	it := model.Item{ID: 42, Kind: "story", By: "carol", Title: "Tensor cores explained", Score: 77}
	ctx := context.Background()

	require.NoError(t, c.Send(ctx, it))
	assert.Equal(t, Payload{
		Title:   "Tensor cores explained",
		URL:     "N/A",
		HNLink:  "https://news.ycombinator.com/item?id=42",
		Author:  "carol",
		Score:   77,
		Message: "please review",
	}, got)
	assert.True(t, c.Reported(ctx, 42))

	assert.ErrorIs(t, c.Send(ctx, it), ErrAlreadyReported)
	assert.EqualValues(t, 1, hits.Load())
}

func TestSendFailureIsNotRecorded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	store := storage.NewMemoryStore(0)
	c := New(srv.URL, "m", 0, store)
	err := c.Send(context.Background(), model.Item{ID: 1, Title: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=400")
	assert.False(t, c.Reported(context.Background(), 1))
}

func TestSendRequiresEndpoint(t *testing.T) {
	c := New("", "m", 0, nil)
	assert.Error(t, c.Send(context.Background(), model.Item{ID: 1}))
}

func TestReportedMarkerOutlivesRedisTTL(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	mr := miniredis.RunT(t)
	store := storage.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "hn:", 30*time.Minute)
	defer store.Close()
	c := New(srv.URL, "m", 0, store)
	ctx := context.Background()
	it := model.Item{ID: 9, Kind: "story", Title: "Diffusion models at home"}

	require.NoError(t, c.Send(ctx, it))
	mr.FastForward(31 * time.Minute)

	assert.True(t, c.Reported(ctx, 9))
	assert.ErrorIs(t, c.Send(ctx, it), ErrAlreadyReported)
	assert.EqualValues(t, 1, hits.Load())
}
