package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when the key is absent.
	ErrNotFound = errors.New("storage: key not found")
	// ErrStoreFull is returned by Set when a bounded store has no room left.
	ErrStoreFull = errors.New("storage: store full")
)

// Store is a durable string key/value store backing the persistent cache tier.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Pinger is implemented by stores that can check connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PermanentSetter is implemented by stores whose Set attaches an expiry.
// SetPermanent writes a key that never expires.
type PermanentSetter interface {
	SetPermanent(ctx context.Context, key, value string) error
}
