package switches

import (
	"context"
	"sync"
)

// InMemoryStore is a Source and Writer backed by a map. It is the default
// backend and the one tests use.
type InMemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewInMemory seeds a store with initial values.
func NewInMemory(seed map[string]string) *InMemoryStore {
	values := make(map[string]string, len(seed))
	for k, v := range seed {
		values[k] = v
	}
	return &InMemoryStore{values: values}
}

func (s *InMemoryStore) Snapshot(_ context.Context) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return NewSnapshot(s.values), nil
}

func (s *InMemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Get returns a single value and whether it was set.
func (s *InMemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}
