// Package validation turns the effective policy into concrete required-field
// checks per submission type and evaluates them fail-fast. The engine never
// renders text to the user or performs redirects itself; failures are handed
// back for the outcome reporter to act on.
package validation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nootkan/required-fields-manager/internal/policy"
	"github.com/nootkan/required-fields-manager/internal/profile"
	"github.com/nootkan/required-fields-manager/internal/stash"
	"github.com/nootkan/required-fields-manager/internal/submission"
	vmetrics "github.com/nootkan/required-fields-manager/internal/validation/metrics"
	dErrors "github.com/nootkan/required-fields-manager/pkg/domain-errors"
	"github.com/nootkan/required-fields-manager/pkg/platform/audit"
	"github.com/nootkan/required-fields-manager/pkg/platform/sentinel"
)

var tracer = otel.Tracer("required-fields-manager/validation")

// Target names where the host should send the user after a failure. The
// transport layer maps targets onto configured host URLs.
type Target string

const (
	TargetRegister Target = "register"
	TargetItemPost Target = "item_post"
	TargetItemEdit Target = "item_edit"
	TargetProfile  Target = "user_profile"
)

// Failure describes one rejected submission: the user-facing message, where
// to send the user, and which repopulation slot to snapshot the form into.
type Failure struct {
	Message  string
	Target   Target
	FormSlot string
	// Missing lists the labels behind the failure; a single element for
	// form-level checks, possibly several for profile completeness.
	Missing []string
}

// Engine evaluates submissions against the effective policy.
type Engine struct {
	policy   *policy.Service
	profiles *profile.Adapter
	stash    *stash.Stash

	logger  *slog.Logger
	metrics *vmetrics.Metrics
	audit   audit.Publisher
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMetrics(m *vmetrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(e *Engine) {
		e.audit = publisher
	}
}

func New(policySvc *policy.Service, profiles *profile.Adapter, st *stash.Stash, opts ...Option) (*Engine, error) {
	if policySvc == nil {
		return nil, fmt.Errorf("policy service is required")
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile adapter is required")
	}
	if st == nil {
		return nil, fmt.Errorf("stash is required")
	}
	e := &Engine{policy: policySvc, profiles: profiles, stash: st}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Validate runs the required-field checks for one submission. A nil Failure
// means the submission may proceed. The returned error covers only
// infrastructure trouble loading policy; field violations are Failures, not
// errors.
func (e *Engine) Validate(ctx context.Context, sub submission.Context) (*Failure, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "validation.Validate")
	span.SetAttributes(attribute.String("submission.type", string(sub.Type)))
	defer span.End()
	if e.metrics != nil {
		defer e.metrics.ObserveValidate(start)
		e.metrics.SubmissionsChecked.WithLabelValues(string(sub.Type)).Inc()
	}

	settings, err := e.policy.GetSettings(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load policy")
	}

	var failure *Failure
	switch {
	case sub.Type == submission.TypeRegistration:
		failure = e.validateRegistration(ctx, settings, sub)
	case sub.Type == submission.TypeProfileUpdate:
		failure = e.validateProfileUpdate(settings, sub)
	case sub.Type.IsListing():
		failure = e.validateListing(ctx, settings, sub)
	default:
		return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown submission type %q", sub.Type))
	}

	if failure != nil {
		if e.metrics != nil {
			e.metrics.SubmissionsFailed.WithLabelValues(string(sub.Type)).Inc()
		}
		audit.Log(ctx, e.logger, e.audit, audit.Event{
			Category:  audit.CategoryOperations,
			Action:    audit.EventValidationFailed,
			UserID:    sub.UserID,
			SessionID: sub.SessionID,
			Subject:   strings.Join(failure.Missing, ", "),
			Reason:    failure.Message,
		}, "submission_type", string(sub.Type))
	}
	return failure, nil
}

// validateRegistration walks the registration checks fail-fast, applies the
// seller-type canonical rule, and on success captures the ancillary fields
// for the deferred apply that runs once the host creates the user record.
func (e *Engine) validateRegistration(ctx context.Context, settings policy.Settings, sub submission.Context) *Failure {
	for _, spec := range registrationChecks(settings) {
		if spec.resolve(sub.Fields).Blank() {
			return required(spec.Label, TargetRegister, sub.Type.FormSlot())
		}
	}

	if settings.Required(policy.RegSellerType) {
		v := sub.Fields.Get("sellerType")
		if v.Blank() {
			return required("Seller type", TargetRegister, sub.Type.FormSlot())
		}
		if !canonicalGuestSellerType(v.First()) {
			return invalid("Seller type", TargetRegister, sub.Type.FormSlot())
		}
	}

	e.captureExtras(ctx, sub)
	return nil
}

// validateProfileUpdate reuses the registration field list: the profile form
// edits the same record fields. Failures send the user back to the profile
// form. No capture happens; the record already exists and the host applies
// the update itself.
func (e *Engine) validateProfileUpdate(settings policy.Settings, sub submission.Context) *Failure {
	for _, spec := range registrationChecks(settings) {
		if spec.resolve(sub.Fields).Blank() {
			return required(spec.Label, TargetProfile, sub.Type.FormSlot())
		}
	}
	return nil
}

func (e *Engine) validateListing(ctx context.Context, settings policy.Settings, sub submission.Context) *Failure {
	target := TargetItemPost
	if sub.Type == submission.TypeListingEdit {
		target = TargetItemEdit
	}

	// Authenticated actors fix an incomplete profile once instead of being
	// re-prompted per listing field, so the completeness check runs before
	// any form-level check.
	if sub.Authenticated() {
		if f := e.checkProfileComplete(ctx, settings, sub.UserID); f != nil {
			return f
		}
	}

	for _, spec := range listingChecks(settings, sub.Authenticated()) {
		v := spec.resolve(sub.Fields)
		if v.Blank() {
			return required(spec.Label, target, sub.Type.FormSlot())
		}
		if spec.Policy == policy.ItemSellerType && !e.canonicalSellerType(sub, v.First()) {
			return invalid(spec.Label, target, sub.Type.FormSlot())
		}
	}

	// The actor record already exists, so a canonical seller type sticks
	// immediately through the adapter instead of riding the stash.
	if sub.Authenticated() && settings.Required(policy.ItemSellerType) {
		v := sub.Fields.Get("sellerType")
		if !v.Blank() && canonicalAccountSellerType(v.First()) {
			if err := e.profiles.SetSellerType(ctx, sub.UserID, v.First()); err != nil {
				e.warn(ctx, "failed to persist seller type", err, "user_id", sub.UserID)
			}
		}
	}
	return nil
}

func (e *Engine) canonicalSellerType(sub submission.Context, v string) bool {
	if sub.Authenticated() {
		return canonicalAccountSellerType(v)
	}
	return canonicalGuestSellerType(v)
}

// checkProfileComplete evaluates the profile-level requirements against the
// actor's persisted record. All missing items are reported together,
// comma-joined. A capability that cannot answer skips its check: the
// primary action wins over completeness of secondary data.
func (e *Engine) checkProfileComplete(ctx context.Context, settings policy.Settings, userID int64) *Failure {
	var missing []string

	if settings.Required(policy.ItemSellerType) {
		v, err := e.profiles.SellerType(ctx, userID)
		switch {
		case errors.Is(err, sentinel.ErrUnavailable):
			e.warn(ctx, "seller type unreadable, skipping completeness check", err, "user_id", userID)
		case err != nil:
			e.warn(ctx, "seller type read failed, skipping completeness check", err, "user_id", userID)
		case strings.TrimSpace(v) == "":
			missing = append(missing, "Seller type")
		}
	}

	for _, check := range []struct {
		flag   policy.Key
		column profile.Column
		label  string
	}{
		{policy.ItemRegion, profile.ColRegion, "Region"},
		{policy.ItemCity, profile.ColCity, "City"},
		{policy.RegZip, profile.ColZip, "Postal code"},
	} {
		if !settings.Required(check.flag) {
			continue
		}
		v, err := e.profiles.Field(ctx, userID, check.column)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			missing = append(missing, check.label)
		case errors.Is(err, sentinel.ErrUnavailable):
			e.warn(ctx, "profile field unreadable, skipping completeness check", err, "column", string(check.column))
		case err != nil:
			e.warn(ctx, "profile field read failed, skipping completeness check", err, "column", string(check.column))
		case strings.TrimSpace(v) == "":
			missing = append(missing, check.label)
		}
	}

	if len(missing) == 0 {
		return nil
	}
	return &Failure{
		Message:  fmt.Sprintf("Please complete your profile before posting: %s.", strings.Join(missing, ", ")),
		Target:   TargetProfile,
		FormSlot: "user",
		Missing:  missing,
	}
}

// captureExtras stashes the fixed ancillary field set for the session,
// blanks included; the apply step re-checks blankness. A capture failure is
// logged and swallowed so a session-store hiccup cannot block registration.
func (e *Engine) captureExtras(ctx context.Context, sub submission.Context) {
	data := make(stash.Data, len(stashKeys))
	for _, k := range stashKeys {
		data[k.Name] = sub.Fields.Get(k.Key)
	}
	if err := e.stash.Capture(ctx, sub.SessionID, data); err != nil {
		e.warn(ctx, "failed to capture registration extras", err, "session_id", sub.SessionID)
		return
	}
	if e.metrics != nil {
		e.metrics.StashCaptured.Inc()
	}
	audit.Log(ctx, e.logger, e.audit, audit.Event{
		Category:  audit.CategoryOperations,
		Action:    audit.EventStashCaptured,
		UserID:    sub.UserID,
		SessionID: sub.SessionID,
	})
}

func (e *Engine) warn(ctx context.Context, msg string, err error, attrs ...any) {
	if e.logger != nil {
		e.logger.WarnContext(ctx, msg, append(attrs, "error", err)...)
	}
}

func required(label string, target Target, slot string) *Failure {
	return &Failure{
		Message:  fmt.Sprintf("%s is required.", label),
		Target:   target,
		FormSlot: slot,
		Missing:  []string{label},
	}
}

func invalid(label string, target Target, slot string) *Failure {
	return &Failure{
		Message:  fmt.Sprintf("%s is invalid.", label),
		Target:   target,
		FormSlot: slot,
		Missing:  []string{label},
	}
}
