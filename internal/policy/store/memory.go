// Package store provides policy flag persistence. The in-memory variant
// backs tests and dependency-free development; the Postgres variant is the
// production implementation.
package store

import (
	"context"
	"sync"

	"github.com/nootkan/required-fields-manager/internal/policy"
	"github.com/nootkan/required-fields-manager/pkg/platform/sentinel"
)

// InMemoryStore keeps policy flags in a mutex-guarded map.
type InMemoryStore struct {
	mu     sync.RWMutex
	values map[policy.Key]string
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{values: make(map[policy.Key]string)}
}

func (s *InMemoryStore) Get(_ context.Context, key policy.Key) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	return "", sentinel.ErrNotFound
}

func (s *InMemoryStore) Set(_ context.Context, key policy.Key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, key policy.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
