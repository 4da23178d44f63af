//go:build integration

package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/nootkan/required-fields-manager/internal/session"
	"github.com/nootkan/required-fields-manager/pkg/platform/sentinel"
	"github.com/nootkan/required-fields-manager/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *session.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.store = session.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestSetGetRoundTrip() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, "sess-1", "reg_extra", `{"city":"Lisbon"}`, time.Hour))

	value, err := s.store.Get(ctx, "sess-1", "reg_extra")
	s.Require().NoError(err)
	s.Equal(`{"city":"Lisbon"}`, value)
}

func (s *RedisStoreSuite) TestGetMissingKey() {
	_, err := s.store.Get(context.Background(), "sess-1", "absent")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestTakeIsAtomic() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, "sess-1", "reg_extra", "payload", time.Hour))

	value, err := s.store.Take(ctx, "sess-1", "reg_extra")
	s.Require().NoError(err)
	s.Equal("payload", value)

	_, err = s.store.Take(ctx, "sess-1", "reg_extra")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestSessionScoping() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, "sess-1", "flash_error", "one", time.Hour))
	s.Require().NoError(s.store.Set(ctx, "sess-2", "flash_error", "two", time.Hour))

	value, err := s.store.Get(ctx, "sess-1", "flash_error")
	s.Require().NoError(err)
	s.Equal("one", value)

	s.Require().NoError(s.store.Delete(ctx, "sess-1", "flash_error"))
	_, err = s.store.Get(ctx, "sess-1", "flash_error")
	s.ErrorIs(err, sentinel.ErrNotFound)

	value, err = s.store.Get(ctx, "sess-2", "flash_error")
	s.Require().NoError(err)
	s.Equal("two", value)
}

func (s *RedisStoreSuite) TestTTLExpiry() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, "sess-1", "reg_extra", "soon gone", 100*time.Millisecond))

	time.Sleep(200 * time.Millisecond)

	_, err := s.store.Get(ctx, "sess-1", "reg_extra")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
