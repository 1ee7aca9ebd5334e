package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hn-sans-ai/internal/config"
	"hn-sans-ai/internal/feed"
	"hn-sans-ai/internal/model"
	"hn-sans-ai/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newUpstream serves a topstories list of n ids; every third story is about AI.
func newUpstream(t *testing.T, n int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/topstories.json" {
			ids := make([]string, n)
			for i := range ids {
				ids[i] = fmt.Sprint(i + 1)
			}
			fmt.Fprintf(w, "[%s]", strings.Join(ids, ","))
			return
		}
		var id int
		if _, err := fmt.Sscanf(r.URL.Path, "/item/%d.json", &id); err != nil {
			http.NotFound(w, r)
			return
		}
		title := fmt.Sprintf("Story %d", id)
		if id%3 == 0 {
			title = fmt.Sprintf("LLM benchmark %d", id)
		}
		fmt.Fprintf(w, `{"id":%d,"type":"story","by":"pg","time":1700000000,"title":%q,"score":1}`, id, title)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseAPI string) config.Config {
	cfg := config.Config{}
	cfg.HackerNews.BaseAPI = baseAPI
	cfg.Cache.Backend = "memory"
	cfg.FillDefaults()
	cfg.Feed.BatchSize = 10
	return cfg
}

func TestPaginateLoadsRequestedPages(t *testing.T) {
	srv := newUpstream(t, 25)
	cfg := testConfig(srv.URL)
	ctx := context.Background()

	p, err := newPipeline(ctx, cfg)
	require.NoError(t, err)
	defer p.Close()

	ctrl := feed.NewController(p.fetcher, p.classifier, cfg.Feed.BatchSize)
	defer ctrl.Close()

	v, err := paginate(ctx, ctrl, model.FeedTop, 2)
	require.NoError(t, err)
	assert.Equal(t, 20, v.Stats.Total)
	assert.Equal(t, 6, v.Stats.Excluded)
	assert.Len(t, v.Items, 14)
	assert.True(t, v.HasMore)
	assert.Equal(t, 1, v.Items[0].ID)

	// Past the end of the list extra pages are no-ops.
	v, err = paginate(ctx, ctrl, model.FeedTop, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, v.Stats.Total)
	assert.False(t, v.HasMore)
}

func TestPaginateStartFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()
	cfg := testConfig(srv.URL)
	ctx := context.Background()

	p, err := newPipeline(ctx, cfg)
	require.NoError(t, err)
	defer p.Close()
	ctrl := feed.NewController(p.fetcher, p.classifier, cfg.Feed.BatchSize)

	v, err := paginate(ctx, ctrl, model.FeedTop, 1)
	require.Error(t, err)
	assert.Equal(t, feed.Failed, v.State)
	assert.NotEmpty(t, v.Err)
	assert.Empty(t, v.Items)
}

func TestOpenStoreBackends(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig("")

	cfg.Cache.Backend = "none"
	assert.Nil(t, openStore(ctx, cfg))

	cfg.Cache.Backend = "memory"
	s := openStore(ctx, cfg)
	require.NotNil(t, s)
	assert.IsType(t, &storage.MemoryStore{}, s)

	cfg.Cache.Backend = "sqlite"
	cfg.Cache.Path = t.TempDir() + "/cache.db"
	s = openStore(ctx, cfg)
	require.NotNil(t, s)
	defer s.Close()
	require.NoError(t, s.Set(ctx, "k", "v"))
}

func TestNewClassifierExtraKeywords(t *testing.T) {
	c, err := newClassifier(config.ClassifierConfig{ExtraKeywords: []string{"Quantum Widget"}})
	require.NoError(t, err)
	assert.True(t, c.IsMatch("A new quantum   widget ships"))
	assert.True(t, c.IsMatch("GPT-5 released"))

	_, err = newClassifier(config.ClassifierConfig{KeywordsFile: t.TempDir() + "/missing.yaml"})
	assert.Error(t, err)
}

func TestParseItemID(t *testing.T) {
	id, err := parseItemID("42")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	for _, bad := range []string{"", "abc", "0", "-3"} {
		_, err := parseItemID(bad)
		assert.Error(t, err, bad)
	}
}

func TestKeywordsCheckCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"keywords", "check", "Show", "HN:", "my", "ChatGPT", "wrapper"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "excluded")
}
