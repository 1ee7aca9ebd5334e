package redisclient

import (
	"context"
	"log/slog"
	"time"

	"hn-sans-ai/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

// New creates a Redis client from configuration.
func New(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// WaitReady pings the server with exponential backoff until it answers or
// maxWait elapses.
func WaitReady(ctx context.Context, rdb *redis.Client, maxWait time.Duration) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxElapsedTime = maxWait
	return backoff.RetryNotify(func() error {
		pctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		return rdb.Ping(pctx).Err()
	}, backoff.WithContext(b, ctx), func(err error, next time.Duration) {
		slog.Debug("redis: not ready", "addr", rdb.Options().Addr, "retry_in", next, "error", err)
	})
}
