package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/nootkan/required-fields-manager/pkg/platform/sentinel"
	"github.com/nootkan/required-fields-manager/pkg/requestcontext"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemory()
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) TestGetSetDelete() {
	ctx := context.Background()

	s.Run("round-trips a value", func() {
		s.Require().NoError(s.store.Set(ctx, "sess-1", "k", "v", 0))
		got, err := s.store.Get(ctx, "sess-1", "k")
		s.Require().NoError(err)
		s.Equal("v", got)
	})

	s.Run("missing key returns ErrNotFound", func() {
		_, err := s.store.Get(ctx, "sess-1", "missing")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("keys are scoped per session", func() {
		s.Require().NoError(s.store.Set(ctx, "sess-a", "k", "a", 0))
		_, err := s.store.Get(ctx, "sess-b", "k")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("delete removes the key", func() {
		s.Require().NoError(s.store.Set(ctx, "sess-1", "k", "v", 0))
		s.Require().NoError(s.store.Delete(ctx, "sess-1", "k"))
		_, err := s.store.Get(ctx, "sess-1", "k")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestTake() {
	ctx := context.Background()

	s.Run("first take wins, second sees nothing", func() {
		s.Require().NoError(s.store.Set(ctx, "sess-1", "k", "v", 0))

		got, err := s.store.Take(ctx, "sess-1", "k")
		s.Require().NoError(err)
		s.Equal("v", got)

		_, err = s.store.Take(ctx, "sess-1", "k")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestTTL() {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), base)

	s.Require().NoError(s.store.Set(ctx, "sess-1", "k", "v", time.Minute))

	s.Run("readable before the deadline", func() {
		got, err := s.store.Get(ctx, "sess-1", "k")
		s.Require().NoError(err)
		s.Equal("v", got)
	})

	s.Run("absent after the deadline", func() {
		later := requestcontext.WithTime(context.Background(), base.Add(2*time.Minute))
		_, err := s.store.Get(later, "sess-1", "k")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		_, err = s.store.Take(later, "sess-1", "k")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}
