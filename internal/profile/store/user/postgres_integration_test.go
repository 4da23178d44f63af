//go:build integration

package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/nootkan/required-fields-manager/internal/profile"
	"github.com/nootkan/required-fields-manager/internal/profile/store/user"
	"github.com/nootkan/required-fields-manager/pkg/platform/sentinel"
	"github.com/nootkan/required-fields-manager/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *user.PostgresStore
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
	s.store = user.NewPostgres(s.postgres.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "t_user"))
	_, err := s.postgres.DB.ExecContext(ctx, `INSERT INTO t_user (pk_i_id) VALUES (42)`)
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestPartialUpdateAndRead() {
	ctx := context.Background()
	err := s.store.UpdateFields(ctx, 42, map[profile.Column]string{
		profile.ColCity:   "Lisbon",
		profile.ColRegion: "Lisboa",
	})
	s.Require().NoError(err)

	city, err := s.store.Field(ctx, 42, profile.ColCity)
	s.Require().NoError(err)
	s.Equal("Lisbon", city)

	// Untouched columns keep their defaults.
	zip, err := s.store.Field(ctx, 42, profile.ColZip)
	s.Require().NoError(err)
	s.Empty(zip)
}

func (s *PostgresStoreSuite) TestUpdateMissingUser() {
	err := s.store.UpdateFields(context.Background(), 999, map[profile.Column]string{
		profile.ColCity: "Lisbon",
	})
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestFieldMissingUser() {
	_, err := s.store.Field(context.Background(), 999, profile.ColCity)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
