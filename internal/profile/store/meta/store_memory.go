// Package meta provides MetaCapability strategies over the host's auxiliary
// user attribute table keyed by (user ID, attribute name).
package meta

import (
	"context"
	"sync"

	"github.com/nootkan/required-fields-manager/pkg/platform/sentinel"
)

type metaKey struct {
	userID int64
	name   string
}

// InMemoryStore keeps attributes in a mutex-guarded map.
type InMemoryStore struct {
	mu     sync.RWMutex
	values map[metaKey]string
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{values: make(map[metaKey]string)}
}

func (s *InMemoryStore) Name() string { return "memory-meta" }

func (s *InMemoryStore) Usable() bool { return true }

func (s *InMemoryStore) Upsert(_ context.Context, userID int64, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[metaKey{userID: userID, name: name}] = value
	return nil
}

func (s *InMemoryStore) Value(_ context.Context, userID int64, name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[metaKey{userID: userID, name: name}]; ok {
		return v, nil
	}
	return "", sentinel.ErrNotFound
}
