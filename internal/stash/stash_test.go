package stash_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/nootkan/required-fields-manager/internal/session"
	"github.com/nootkan/required-fields-manager/internal/stash"
	"github.com/nootkan/required-fields-manager/internal/submission"
	"github.com/nootkan/required-fields-manager/pkg/requestcontext"
)

type StashSuite struct {
	suite.Suite
	stash *stash.Stash
}

func (s *StashSuite) SetupTest() {
	s.stash = stash.New(session.NewMemory(), time.Hour)
}

func TestStashSuite(t *testing.T) {
	suite.Run(t, new(StashSuite))
}

func (s *StashSuite) TestAtMostOnceApply() {
	ctx := context.Background()
	data := stash.Data{
		"regionId":   submission.String("7"),
		"sellerType": submission.String("1"),
		"zip":        submission.String(""),
	}
	s.Require().NoError(s.stash.Capture(ctx, "sess-1", data))

	// Duplicate record-created triggers: first fetch returns the data,
	// the second finds the slot already cleared.
	first, err := s.stash.FetchAndClear(ctx, "sess-1")
	s.Require().NoError(err)
	s.Equal(data, first)

	second, err := s.stash.FetchAndClear(ctx, "sess-1")
	s.Require().NoError(err)
	s.True(second.Empty())
}

func (s *StashSuite) TestCaptureOverwrites() {
	ctx := context.Background()
	s.Require().NoError(s.stash.Capture(ctx, "sess-1", stash.Data{
		"city": submission.String("Old"),
	}))
	s.Require().NoError(s.stash.Capture(ctx, "sess-1", stash.Data{
		"city": submission.String("New"),
	}))

	got, err := s.stash.FetchAndClear(ctx, "sess-1")
	s.Require().NoError(err)
	s.Equal("New", got["city"].Scalar)
}

func (s *StashSuite) TestNoStashIsANoOp() {
	got, err := s.stash.FetchAndClear(context.Background(), "sess-never-seen")
	s.Require().NoError(err)
	s.True(got.Empty())
}

func (s *StashSuite) TestStashIsSessionScoped() {
	ctx := context.Background()
	s.Require().NoError(s.stash.Capture(ctx, "sess-a", stash.Data{
		"zip": submission.String("V9B"),
	}))

	got, err := s.stash.FetchAndClear(ctx, "sess-b")
	s.Require().NoError(err)
	s.True(got.Empty())
}

func (s *StashSuite) TestAbandonedStashExpires() {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), base)
	s.Require().NoError(s.stash.Capture(ctx, "sess-1", stash.Data{
		"city": submission.String("Victoria"),
	}))

	later := requestcontext.WithTime(context.Background(), base.Add(2*time.Hour))
	got, err := s.stash.FetchAndClear(later, "sess-1")
	s.Require().NoError(err)
	s.True(got.Empty(), "stash past its TTL reads as absent")
}
