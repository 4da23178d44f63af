package session

import (
	"context"
	"sync"
	"time"

	"github.com/nootkan/required-fields-manager/pkg/platform/sentinel"
	"github.com/nootkan/required-fields-manager/pkg/requestcontext"
)

type entry struct {
	value    string
	deadline time.Time // zero means no expiry
}

// InMemoryStore keeps session state in a mutex-guarded map. Expired entries
// read as absent; they are reaped lazily on access.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string]entry)}
}

func compose(sessionID, key string) string {
	return sessionID + ":" + key
}

func (s *InMemoryStore) Set(ctx context.Context, sessionID, key, value string, ttl time.Duration) error {
	var deadline time.Time
	if ttl > 0 {
		deadline = requestcontext.Now(ctx).Add(ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[compose(sessionID, key)] = entry{value: value, deadline: deadline}
	return nil
}

func (s *InMemoryStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	now := requestcontext.Now(ctx)
	s.mu.RLock()
	e, ok := s.entries[compose(sessionID, key)]
	s.mu.RUnlock()
	if !ok || e.expired(now) {
		return "", sentinel.ErrNotFound
	}
	return e.value, nil
}

func (s *InMemoryStore) Take(ctx context.Context, sessionID, key string) (string, error) {
	now := requestcontext.Now(ctx)
	k := compose(sessionID, key)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[k]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	delete(s.entries, k)
	if e.expired(now) {
		return "", sentinel.ErrNotFound
	}
	return e.value, nil
}

func (s *InMemoryStore) Delete(_ context.Context, sessionID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, compose(sessionID, key))
	return nil
}

func (e entry) expired(now time.Time) bool {
	return !e.deadline.IsZero() && now.After(e.deadline)
}
