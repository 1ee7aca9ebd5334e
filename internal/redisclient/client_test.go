package redisclient

import (
	"context"
	"testing"
	"time"

	"hn-sans-ai/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitReady(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := New(config.RedisConfig{Addr: mr.Addr()})
	defer rdb.Close()

	require.NoError(t, WaitReady(context.Background(), rdb, time.Second))
}

func TestWaitReadyGivesUp(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	rdb := New(config.RedisConfig{Addr: addr})
	defer rdb.Close()

	start := time.Now()
	assert.Error(t, WaitReady(context.Background(), rdb, 300*time.Millisecond))
	assert.Less(t, time.Since(start), 5*time.Second)
}
