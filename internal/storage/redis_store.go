package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps cache entries in Redis under a key prefix. Keys also carry
// a native expiry so abandoned entries do not accumulate.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	expiry time.Duration
}

func NewRedisStore(rdb *redis.Client, prefix string, expiry time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix, expiry: expiry}
}

func (s *RedisStore) key(k string) string {
	return fmt.Sprintf("%s%s", s.prefix, k)
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	res, err := s.rdb.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return res, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return s.set(ctx, key, value, s.expiry)
}

// SetPermanent stores a key without the store's expiry.
func (s *RedisStore) SetPermanent(ctx context.Context, key, value string) error {
	return s.set(ctx, key, value, 0)
}

func (s *RedisStore) set(ctx context.Context, key, value string, expiry time.Duration) error {
	err := s.rdb.Set(ctx, s.key(key), value, expiry).Err()
	if err != nil && isOOM(err) {
		return fmt.Errorf("%w: %v", ErrStoreFull, err)
	}
	return err
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.key(key)).Err()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// isOOM recognizes the error Redis returns when maxmemory is reached.
func isOOM(err error) bool {
	var rerr redis.Error
	if errors.As(err, &rerr) {
		msg := rerr.Error()
		return len(msg) >= 3 && msg[:3] == "OOM"
	}
	return false
}
