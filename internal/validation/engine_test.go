package validation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/nootkan/required-fields-manager/internal/policy"
	policystore "github.com/nootkan/required-fields-manager/internal/policy/store"
	"github.com/nootkan/required-fields-manager/internal/profile"
	"github.com/nootkan/required-fields-manager/internal/profile/store/meta"
	"github.com/nootkan/required-fields-manager/internal/profile/store/user"
	"github.com/nootkan/required-fields-manager/internal/session"
	"github.com/nootkan/required-fields-manager/internal/stash"
	"github.com/nootkan/required-fields-manager/internal/submission"
	"github.com/nootkan/required-fields-manager/internal/validation"
	"github.com/nootkan/required-fields-manager/pkg/platform/audit"
	"github.com/nootkan/required-fields-manager/pkg/platform/audit/publisher"
)

// EngineSuite wires the engine against real in-memory components.
type EngineSuite struct {
	suite.Suite
	flags  *policystore.InMemoryStore
	users  *user.InMemoryStore
	metas  *meta.InMemoryStore
	stash  *stash.Stash
	audits *publisher.Memory
	engine *validation.Engine
}

func (s *EngineSuite) SetupTest() {
	s.flags = policystore.NewMemory()
	s.users = user.NewMemory()
	s.metas = meta.NewMemory()
	s.stash = stash.New(session.NewMemory(), time.Hour)
	s.audits = publisher.NewMemory()

	policySvc, err := policy.New(s.flags)
	s.Require().NoError(err)

	adapter := profile.NewAdapter(
		profile.WithUserCapabilities(s.users),
		profile.WithMetaCapabilities(s.metas),
	)

	engine, err := validation.New(policySvc, adapter, s.stash,
		validation.WithAuditPublisher(s.audits))
	s.Require().NoError(err)
	s.engine = engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

// setFlag writes a policy flag directly to the backing store.
func (s *EngineSuite) setFlag(k policy.Key, v bool) {
	raw := "0"
	if v {
		raw = "1"
	}
	s.Require().NoError(s.flags.Set(context.Background(), k, raw))
}

func (s *EngineSuite) validate(sub submission.Context) *validation.Failure {
	failure, err := s.engine.Validate(context.Background(), sub)
	s.Require().NoError(err)
	return failure
}

func (s *EngineSuite) TestListingFailFast() {
	// title required, category not: a submission blank in both fails on
	// title and never reports anything category-related.
	s.setFlag(policy.ItemTitle, true)
	s.setFlag(policy.ItemDescription, false)
	s.setFlag(policy.ItemCategory, false)
	s.setFlag(policy.ItemSellerType, false)

	failure := s.validate(submission.Context{
		Type:      submission.TypeListingCreate,
		SessionID: "sess-1",
		Fields: submission.Fields{
			"title": submission.String(""),
			"catId": submission.String(""),
		},
	})

	s.Require().NotNil(failure)
	s.Equal("Title is required.", failure.Message)
	s.Equal([]string{"Title"}, failure.Missing)
	s.Equal(validation.TargetItemPost, failure.Target)
	s.Equal("item", failure.FormSlot)
}

func (s *EngineSuite) TestListingEditRedirectsToEditForm() {
	s.setFlag(policy.ItemDescription, false)
	s.setFlag(policy.ItemCategory, false)
	s.setFlag(policy.ItemSellerType, false)

	failure := s.validate(submission.Context{
		Type:      submission.TypeListingEdit,
		SessionID: "sess-1",
		Fields:    submission.Fields{},
	})

	s.Require().NotNil(failure)
	s.Equal(validation.TargetItemEdit, failure.Target)
}

func (s *EngineSuite) TestListingAlternateKeyResolution() {
	s.setFlag(policy.ItemDescription, false)
	s.setFlag(policy.ItemCategory, false)
	s.setFlag(policy.ItemSellerType, false)
	s.setFlag(policy.ItemRegion, true)

	// Anonymous front-end submits the free-text name instead of the id.
	failure := s.validate(submission.Context{
		Type:      submission.TypeListingCreate,
		SessionID: "sess-1",
		Fields: submission.Fields{
			"title":  submission.String("Bike"),
			"region": submission.String("West"),
		},
	})

	s.Nil(failure)
}

func (s *EngineSuite) TestRegistrationSellerTypeMustBeCanonical() {
	s.setFlag(policy.RegSellerType, true)

	fields := submission.Fields{
		"s_email":    submission.String("jane@example.com"),
		"sellerType": submission.String("2"),
	}
	failure := s.validate(submission.Context{
		Type:      submission.TypeRegistration,
		SessionID: "sess-1",
		Fields:    fields,
	})

	s.Require().NotNil(failure)
	s.Equal("Seller type is invalid.", failure.Message)
	s.Equal(validation.TargetRegister, failure.Target)

	s.Run("canonical value passes", func() {
		fields["sellerType"] = submission.String("company")
		s.Nil(s.validate(submission.Context{
			Type:      submission.TypeRegistration,
			SessionID: "sess-1",
			Fields:    fields,
		}))
	})
}

func (s *EngineSuite) TestRegistrationAddressScalarIsStrict() {
	s.setFlag(policy.RegAddress, true)

	// The scalar pass requires s_address itself; the address alternate only
	// satisfies the later location pass.
	failure := s.validate(submission.Context{
		Type:      submission.TypeRegistration,
		SessionID: "sess-1",
		Fields: submission.Fields{
			"s_email":   submission.String("jane@example.com"),
			"s_address": submission.String(""),
			"address":   submission.String("123 Main"),
		},
	})
	s.Require().NotNil(failure)
	s.Equal("Address is required.", failure.Message)

	s.Nil(s.validate(submission.Context{
		Type:      submission.TypeRegistration,
		SessionID: "sess-1",
		Fields: submission.Fields{
			"s_email":   submission.String("jane@example.com"),
			"s_address": submission.String("123 Main"),
		},
	}))
}

func (s *EngineSuite) TestRegistrationCapturesExtras() {
	failure := s.validate(submission.Context{
		Type:      submission.TypeRegistration,
		SessionID: "sess-1",
		Fields: submission.Fields{
			"s_email":        submission.String("jane@example.com"),
			"regionId":       submission.String("7"),
			"city":           submission.String("Victoria"),
			"zip":            submission.String(""),
			"s_phone_mobile": submission.String("555-0100"),
		},
	})
	s.Require().Nil(failure)

	data, err := s.stash.FetchAndClear(context.Background(), "sess-1")
	s.Require().NoError(err)
	s.Equal("7", data["regionId"].Scalar)
	s.Equal("Victoria", data["city"].Scalar)
	s.Equal("555-0100", data["phone"].Scalar)

	// Blank values are captured too; the apply step re-checks blankness.
	zip, ok := data["zip"]
	s.Require().True(ok)
	s.True(zip.Blank())
}

func (s *EngineSuite) TestRegistrationFailureDoesNotCapture() {
	s.setFlag(policy.RegName, true)

	failure := s.validate(submission.Context{
		Type:      submission.TypeRegistration,
		SessionID: "sess-1",
		Fields:    submission.Fields{"s_email": submission.String("jane@example.com")},
	})
	s.Require().NotNil(failure)
	s.Equal("Name is required.", failure.Message)

	data, err := s.stash.FetchAndClear(context.Background(), "sess-1")
	s.Require().NoError(err)
	s.True(data.Empty())
}

func (s *EngineSuite) TestProfileCompletenessBlocksListing() {
	// Policy: region required. The actor's persisted profile has a blank
	// region, so the submission fails on the profile, not the form, and
	// redirects to the profile-completion target.
	s.setFlag(policy.ItemRegion, true)
	s.setFlag(policy.ItemTitle, false)
	s.setFlag(policy.ItemDescription, false)
	s.setFlag(policy.ItemCategory, false)
	s.setFlag(policy.ItemSellerType, false)
	s.users.Seed(42, map[profile.Column]string{profile.ColRegion: ""})

	failure := s.validate(submission.Context{
		Type:      submission.TypeListingCreate,
		SessionID: "sess-1",
		UserID:    42,
		Fields: submission.Fields{
			"regionId": submission.String("7"),
		},
	})

	s.Require().NotNil(failure)
	s.Equal([]string{"Region"}, failure.Missing)
	s.Equal(validation.TargetProfile, failure.Target)
	s.Equal("user", failure.FormSlot)
	s.Contains(failure.Message, "Region")
}

func (s *EngineSuite) TestCompleteProfilePassesWithoutFormRegionCheck() {
	// Same policy, but the persisted region is set. Region is not a form
	// check for authenticated users, so the submission proceeds even
	// without a regionId field.
	s.setFlag(policy.ItemRegion, true)
	s.setFlag(policy.ItemTitle, false)
	s.setFlag(policy.ItemDescription, false)
	s.setFlag(policy.ItemCategory, false)
	s.setFlag(policy.ItemSellerType, false)
	s.users.Seed(42, map[profile.Column]string{profile.ColRegion: "West"})

	failure := s.validate(submission.Context{
		Type:      submission.TypeListingCreate,
		SessionID: "sess-1",
		UserID:    42,
		Fields:    submission.Fields{},
	})

	s.Nil(failure)
}

func (s *EngineSuite) TestProfileCompletenessNamesAllMissingItems() {
	s.setFlag(policy.ItemRegion, true)
	s.setFlag(policy.ItemCity, true)
	s.setFlag(policy.ItemTitle, false)
	s.setFlag(policy.ItemDescription, false)
	s.setFlag(policy.ItemCategory, false)
	s.users.Seed(42, map[profile.Column]string{})

	failure := s.validate(submission.Context{
		Type:      submission.TypeListingCreate,
		SessionID: "sess-1",
		UserID:    42,
		Fields:    submission.Fields{},
	})

	s.Require().NotNil(failure)
	s.Equal([]string{"Seller type", "Region", "City"}, failure.Missing)
	s.Equal("Please complete your profile before posting: Seller type, Region, City.", failure.Message)
}

func (s *EngineSuite) TestGuestListingSellerTypeUsesGuestValues() {
	s.setFlag(policy.ItemTitle, false)
	s.setFlag(policy.ItemDescription, false)
	s.setFlag(policy.ItemCategory, false)

	base := submission.Fields{"sellerType": submission.String("1")}
	failure := s.validate(submission.Context{
		Type:      submission.TypeListingCreate,
		SessionID: "sess-1",
		Fields:    base,
	})
	s.Require().NotNil(failure, "account-form value rejected for guests")
	s.Equal("Seller type is invalid.", failure.Message)

	base["sellerType"] = submission.String("private")
	s.Nil(s.validate(submission.Context{
		Type:      submission.TypeListingCreate,
		SessionID: "sess-1",
		Fields:    base,
	}))
}

func (s *EngineSuite) TestAuthenticatedListingPersistsSellerType() {
	s.setFlag(policy.ItemTitle, false)
	s.setFlag(policy.ItemDescription, false)
	s.setFlag(policy.ItemCategory, false)
	s.users.Seed(42, map[profile.Column]string{})
	s.Require().NoError(s.metas.Upsert(context.Background(), 42, profile.MetaSellerType, "0"))

	failure := s.validate(submission.Context{
		Type:      submission.TypeListingCreate,
		SessionID: "sess-1",
		UserID:    42,
		Fields:    submission.Fields{"sellerType": submission.String("1")},
	})
	s.Require().Nil(failure)

	got, err := s.metas.Value(context.Background(), 42, profile.MetaSellerType)
	s.Require().NoError(err)
	s.Equal("1", got, "seller type sticks immediately for existing records")
}

func (s *EngineSuite) TestFailureEmitsAuditEvent() {
	s.setFlag(policy.RegName, true)

	s.validate(submission.Context{
		Type:      submission.TypeRegistration,
		SessionID: "sess-1",
		Fields:    submission.Fields{"s_email": submission.String("j@example.com")},
	})

	events := s.audits.Events()
	s.Require().NotEmpty(events)
	s.Equal(audit.EventValidationFailed, events[len(events)-1].Action)
}

func (s *EngineSuite) TestProfileUpdateReusesRegistrationChecks() {
	s.setFlag(policy.RegPhone, true)

	failure := s.validate(submission.Context{
		Type:      submission.TypeProfileUpdate,
		SessionID: "sess-1",
		UserID:    42,
		Fields:    submission.Fields{"s_email": submission.String("j@example.com")},
	})

	s.Require().NotNil(failure)
	s.Equal("Phone is required.", failure.Message)
	s.Equal(validation.TargetProfile, failure.Target)
}
