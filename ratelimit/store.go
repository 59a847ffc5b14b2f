// Package ratelimit provides the key-value storage the rate limiting
// middleware depends on. Backends must apply each per-key update
// atomically so concurrent requests for the same client never drop
// entries.
package ratelimit

import (
	"sync"
	"time"
)

// Store persists per-key request timestamp lists.
type Store interface {
	// Update applies fn to the current timestamp list for key and
	// persists the result, atomically with respect to other updates of
	// the same key.
	Update(key string, fn func(current []time.Time) []time.Time) ([]time.Time, error)
}

// MemoryStore is the single-instance backend: a mutex-protected map.
type MemoryStore struct {
	mu   sync.Mutex
	keys map[string][]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{keys: make(map[string][]time.Time)}
}

func (s *MemoryStore) Update(key string, fn func(current []time.Time) []time.Time) ([]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := fn(s.keys[key])
	if len(next) == 0 {
		delete(s.keys, key)
	} else {
		s.keys[key] = next
	}
	return next, nil
}
