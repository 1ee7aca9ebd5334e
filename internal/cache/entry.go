package cache

import (
	"time"
)

// Tier selects one of the two cache backing stores.
type Tier int

const (
	// Volatile lives in process memory with a short ttl.
	Volatile Tier = iota
	// Persistent lives in a durable store with a longer ttl.
	Persistent
)

func (t Tier) String() string {
	switch t {
	case Volatile:
		return "volatile"
	case Persistent:
		return "persistent"
	default:
		return "unknown"
	}
}

// Entry wraps a cached value with the time it was captured.
type Entry[V any] struct {
	Value    V         `json:"value"`
	CachedAt time.Time `json:"cached_at"`
}

// Valid reports whether the entry is still fresh at now for the given ttl.
func (e Entry[V]) Valid(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CachedAt) <= ttl
}

// BestEffort carries the outcome of a side effect that must never fail the
// caller, such as a persistent tier write. It is only ever logged.
type BestEffort struct {
	Op  string
	Key string
	Err error
}

// Failed reports whether the side effect did not happen.
func (b BestEffort) Failed() bool {
	return b.Err != nil
}
