package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behavior every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "item:1", `{"a":1}`))
	v, err := s.Get(ctx, "item:1")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, v)

	require.NoError(t, s.Set(ctx, "item:1", `{"a":2}`))
	v, err = s.Get(ctx, "item:1")
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, v)

	require.NoError(t, s.Remove(ctx, "item:1"))
	_, err = s.Get(ctx, "item:1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Remove(ctx, "never-set"))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(0))
}

func TestMemoryStoreCapacity(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2)
	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Set(ctx, "b", "2"))
	assert.ErrorIs(t, s.Set(ctx, "c", "3"), ErrStoreFull)
	require.NoError(t, s.Set(ctx, "a", "updated"), "overwrites do not need room")
	assert.Equal(t, 2, s.Len())
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	exerciseStore(t, s)
	require.NoError(t, s.Ping(context.Background()))
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "feed:top", "[1,2,3]"))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	v, err := s.Get(ctx, "feed:top")
	require.NoError(t, err)
	assert.Equal(t, "[1,2,3]", v)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(rdb, "hn:", time.Hour)
	t.Cleanup(func() { s.Close() })

	exerciseStore(t, s)
	require.NoError(t, s.Ping(context.Background()))
}

func TestRedisStorePrefixAndExpiry(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(rdb, "hn:", time.Minute)
	defer s.Close()

	require.NoError(t, s.Set(ctx, "item:7", "x"))
	assert.True(t, mr.Exists("hn:item:7"))
	assert.Equal(t, time.Minute, mr.TTL("hn:item:7"))

	mr.FastForward(2 * time.Minute)
	_, err := s.Get(ctx, "item:7")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreSetPermanent(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(rdb, "hn:", time.Minute)
	defer s.Close()

	require.NoError(t, s.SetPermanent(ctx, "reported:7", "yes"))
	assert.Zero(t, mr.TTL("hn:reported:7"))

	mr.FastForward(time.Hour)
	got, err := s.Get(ctx, "reported:7")
	require.NoError(t, err)
	assert.Equal(t, "yes", got)
}
