//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/nootkan/required-fields-manager/internal/policy"
	"github.com/nootkan/required-fields-manager/internal/policy/store"
	"github.com/nootkan/required-fields-manager/pkg/platform/sentinel"
	"github.com/nootkan/required-fields-manager/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "t_preference"))
}

func (s *PostgresStoreSuite) TestGetMissingKey() {
	_, err := s.store.Get(context.Background(), policy.RegEmail)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSetGetRoundTrip() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, policy.RegCity, "1"))

	value, err := s.store.Get(ctx, policy.RegCity)
	s.Require().NoError(err)
	s.Equal("1", value)
}

func (s *PostgresStoreSuite) TestSetOverwrites() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, policy.ItemPrice, "1"))
	s.Require().NoError(s.store.Set(ctx, policy.ItemPrice, "0"))

	value, err := s.store.Get(ctx, policy.ItemPrice)
	s.Require().NoError(err)
	s.Equal("0", value)
}

func (s *PostgresStoreSuite) TestDelete() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, policy.RegZip, "1"))
	s.Require().NoError(s.store.Delete(ctx, policy.RegZip))

	_, err := s.store.Get(ctx, policy.RegZip)
	s.ErrorIs(err, sentinel.ErrNotFound)

	// Deleting an absent key is not an error.
	s.NoError(s.store.Delete(ctx, policy.RegZip))
}

func (s *PostgresStoreSuite) TestServiceDefaultsOverStore() {
	ctx := context.Background()
	svc, err := policy.New(s.store)
	s.Require().NoError(err)

	settings, err := svc.GetSettings(ctx)
	s.Require().NoError(err)
	s.True(settings.Required(policy.RegEmail))
	s.False(settings.Required(policy.RegCity))

	s.Require().NoError(svc.SaveSettings(ctx, policy.Settings{policy.RegCity: true}))
	settings, err = svc.GetSettings(ctx)
	s.Require().NoError(err)
	s.True(settings.Required(policy.RegCity))
}
