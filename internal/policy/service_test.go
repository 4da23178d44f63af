package policy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/nootkan/required-fields-manager/internal/policy"
	"github.com/nootkan/required-fields-manager/internal/policy/store"
	dErrors "github.com/nootkan/required-fields-manager/pkg/domain-errors"
)

type PolicyServiceSuite struct {
	suite.Suite
	store *store.InMemoryStore
	svc   *policy.Service
}

func (s *PolicyServiceSuite) SetupTest() {
	s.store = store.NewMemory()
	svc, err := policy.New(s.store)
	s.Require().NoError(err)
	s.svc = svc
}

func TestPolicyServiceSuite(t *testing.T) {
	suite.Run(t, new(PolicyServiceSuite))
}

func (s *PolicyServiceSuite) TestGetSettings() {
	s.Run("empty store resolves every key to its default", func() {
		settings, err := s.svc.GetSettings(context.Background())
		s.Require().NoError(err)

		s.Len(settings, len(policy.Keys()))
		for _, k := range policy.Keys() {
			def, ok := policy.Default(k)
			s.Require().True(ok)
			s.Equal(def, settings[k], "key %s", k)
		}
	})

	s.Run("stored value overrides the default", func() {
		s.Require().NoError(s.store.Set(context.Background(), policy.RegPhone, "1"))
		s.Require().NoError(s.store.Set(context.Background(), policy.ItemTitle, "0"))

		settings, err := s.svc.GetSettings(context.Background())
		s.Require().NoError(err)
		s.True(settings[policy.RegPhone])
		s.False(settings[policy.ItemTitle])
	})

	s.Run("malformed stored value falls back to the default", func() {
		s.Require().NoError(s.store.Set(context.Background(), policy.RegEmail, "banana"))

		settings, err := s.svc.GetSettings(context.Background())
		s.Require().NoError(err)
		s.True(settings[policy.RegEmail], "reg_email defaults to required")
	})
}

func (s *PolicyServiceSuite) TestSaveSettings() {
	s.Run("writes only the provided keys", func() {
		err := s.svc.SaveSettings(context.Background(), policy.Settings{
			policy.RegName: true,
		})
		s.Require().NoError(err)

		raw, err := s.store.Get(context.Background(), policy.RegName)
		s.Require().NoError(err)
		s.Equal("1", raw)

		_, err = s.store.Get(context.Background(), policy.RegUsername)
		s.Error(err, "unspecified keys stay untouched")
	})

	s.Run("rejects unknown keys", func() {
		err := s.svc.SaveSettings(context.Background(), policy.Settings{
			policy.Key("reg_shoe_size"): true,
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *PolicyServiceSuite) TestEnsureDefaults() {
	s.Run("seeds absent keys without overwriting saved values", func() {
		s.Require().NoError(s.store.Set(context.Background(), policy.ItemPrice, "1"))

		s.Require().NoError(s.svc.EnsureDefaults(context.Background()))

		raw, err := s.store.Get(context.Background(), policy.ItemPrice)
		s.Require().NoError(err)
		s.Equal("1", raw, "existing value survives")

		raw, err = s.store.Get(context.Background(), policy.ItemTitle)
		s.Require().NoError(err)
		s.Equal("1", raw, "item_title seeded from default")

		raw, err = s.store.Get(context.Background(), policy.RegName)
		s.Require().NoError(err)
		s.Equal("0", raw, "reg_name seeded from default")
	})
}

func (s *PolicyServiceSuite) TestResetSettings() {
	ctx := context.Background()
	s.Require().NoError(s.svc.SaveSettings(ctx, policy.Settings{
		policy.RegCity:  true,
		policy.RegEmail: false,
	}))

	s.Require().NoError(s.svc.ResetSettings(ctx))

	settings, err := s.svc.GetSettings(ctx)
	s.Require().NoError(err)
	s.False(settings.Required(policy.RegCity), "override gone")
	s.True(settings.Required(policy.RegEmail), "default restored")

	// Resetting an already-empty store is a no-op.
	s.NoError(s.svc.ResetSettings(ctx))
}

func (s *PolicyServiceSuite) TestSettingsRequired() {
	partial := policy.Settings{policy.RegName: true}
	s.True(partial.Required(policy.RegName))
	s.True(partial.Required(policy.RegEmail), "absent key reads as default")
	s.False(partial.Required(policy.RegPhone))
}
