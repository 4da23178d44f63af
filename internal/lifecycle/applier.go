package lifecycle

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"

	"github.com/nootkan/required-fields-manager/internal/profile"
	"github.com/nootkan/required-fields-manager/internal/stash"
	vmetrics "github.com/nootkan/required-fields-manager/internal/validation/metrics"
	"github.com/nootkan/required-fields-manager/pkg/platform/audit"
)

var tracer = otel.Tracer("required-fields-manager/lifecycle")

// fieldColumns maps stash names onto user-table columns. The country id is
// written to s_country: host forks disagree on whether the column holds a
// code or a name, and s_country is the one they share.
var fieldColumns = []struct {
	Name   string
	Column profile.Column
}{
	{Name: "address", Column: profile.ColAddress},
	{Name: "city", Column: profile.ColCity},
	{Name: "region", Column: profile.ColRegion},
	{Name: "cityArea", Column: profile.ColCityArea},
	{Name: "zip", Column: profile.ColZip},
	{Name: "phone", Column: profile.ColPhone},
	{Name: "countryId", Column: profile.ColCountry},
}

// Applier runs the deferred-synchronization workflow.
type Applier struct {
	stash    *stash.Stash
	profiles *profile.Adapter

	logger  *slog.Logger
	metrics *vmetrics.Metrics
	audit   audit.Publisher
}

type ApplierOption func(*Applier)

func WithLogger(logger *slog.Logger) ApplierOption {
	return func(a *Applier) {
		a.logger = logger
	}
}

func WithMetrics(m *vmetrics.Metrics) ApplierOption {
	return func(a *Applier) {
		a.metrics = m
	}
}

func WithAuditPublisher(publisher audit.Publisher) ApplierOption {
	return func(a *Applier) {
		a.audit = publisher
	}
}

func NewApplier(st *stash.Stash, profiles *profile.Adapter, opts ...ApplierOption) (*Applier, error) {
	if st == nil {
		return nil, fmt.Errorf("stash is required")
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile adapter is required")
	}
	a := &Applier{stash: st, profiles: profiles}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// ApplyPending fetches and clears the session's stash and writes the
// non-blank values into the user record. An empty stash is a normal no-op,
// which is what keeps duplicate record-created triggers safe. Write
// failures are logged and swallowed: the record exists, and completing its
// secondary fields is best-effort.
func (a *Applier) ApplyPending(ctx context.Context, sessionID string, userID int64) error {
	ctx, span := tracer.Start(ctx, "lifecycle.ApplyPending")
	defer span.End()

	if userID <= 0 {
		return nil
	}

	data, err := a.stash.FetchAndClear(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("fetch pending extras: %w", err)
	}
	if data.Empty() {
		if a.metrics != nil {
			a.metrics.StashEmpty.Inc()
		}
		return nil
	}

	fields := make(map[profile.Column]string)
	for _, fc := range fieldColumns {
		if v, ok := data[fc.Name]; ok && !v.Blank() {
			fields[fc.Column] = v.First()
		}
	}
	if len(fields) > 0 {
		if err := a.profiles.UpdateFields(ctx, userID, fields); err != nil {
			a.warn(ctx, "failed to apply profile fields", err, "user_id", userID)
		}
	}

	if v, ok := data["sellerType"]; ok && !v.Blank() {
		if err := a.profiles.SetSellerType(ctx, userID, v.First()); err != nil {
			a.warn(ctx, "failed to apply seller type", err, "user_id", userID)
		}
	}

	if a.metrics != nil {
		a.metrics.StashApplied.Inc()
	}
	audit.Log(ctx, a.logger, a.audit, audit.Event{
		Category:  audit.CategoryCompliance,
		Action:    audit.EventProfileSynced,
		UserID:    userID,
		SessionID: sessionID,
	}, "fields", len(fields))
	return nil
}

func (a *Applier) warn(ctx context.Context, msg string, err error, attrs ...any) {
	if a.logger != nil {
		a.logger.WarnContext(ctx, msg, append(attrs, "error", err)...)
	}
}
