package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps values in process memory. A positive capacity bounds the
// number of keys; inserts beyond it fail with ErrStoreFull.
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[string]string
	capacity int
}

func NewMemoryStore(capacity int) *MemoryStore {
	return &MemoryStore{data: map[string]string{}, capacity: capacity}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[key]; !exists && s.capacity > 0 && len(s.data) >= s.capacity {
		return ErrStoreFull
	}
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Len returns the number of stored keys.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *MemoryStore) Close() error { return nil }
