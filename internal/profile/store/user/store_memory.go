// Package user provides UserCapability strategies over the host's user
// table: an in-memory model for tests and development, and a pgxpool-backed
// model for production.
package user

import (
	"context"
	"sync"

	"github.com/nootkan/required-fields-manager/internal/profile"
	"github.com/nootkan/required-fields-manager/pkg/platform/sentinel"
)

// InMemoryStore keeps user records in a mutex-guarded map.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[int64]map[profile.Column]string
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{users: make(map[int64]map[profile.Column]string)}
}

func (s *InMemoryStore) Name() string { return "memory-user" }

func (s *InMemoryStore) Usable() bool { return true }

// Seed creates or replaces a user record. Test setup helper.
func (s *InMemoryStore) Seed(userID int64, fields map[profile.Column]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := make(map[profile.Column]string, len(fields))
	for col, v := range fields {
		record[col] = v
	}
	s.users[userID] = record
}

func (s *InMemoryStore) UpdateFields(_ context.Context, userID int64, fields map[profile.Column]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.users[userID]
	if !ok {
		return sentinel.ErrNotFound
	}
	for col, v := range fields {
		record[col] = v
	}
	return nil
}

func (s *InMemoryStore) Field(_ context.Context, userID int64, column profile.Column) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.users[userID]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return record[column], nil
}
