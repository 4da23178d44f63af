package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nootkan/required-fields-manager/pkg/platform/sentinel"
)

// Adapter resolves each profile read/write through a prioritized chain of
// capabilities. Unusable strategies are filtered once at construction, not
// re-probed per call. When no strategy can serve an operation the adapter
// reports sentinel.ErrUnavailable; it never panics or aborts on a missing
// capability, because profile completeness is secondary to the host's
// primary action.
type Adapter struct {
	users  []UserCapability
	metas  []MetaCapability
	logger *slog.Logger
}

type AdapterOption func(*Adapter)

func WithLogger(logger *slog.Logger) AdapterOption {
	return func(a *Adapter) {
		a.logger = logger
	}
}

func WithUserCapabilities(caps ...UserCapability) AdapterOption {
	return func(a *Adapter) {
		for _, c := range caps {
			if c != nil && c.Usable() {
				a.users = append(a.users, c)
			}
		}
	}
}

func WithMetaCapabilities(caps ...MetaCapability) AdapterOption {
	return func(a *Adapter) {
		for _, c := range caps {
			if c != nil && c.Usable() {
				a.metas = append(a.metas, c)
			}
		}
	}
}

// NewAdapter builds an adapter from whichever strategies the deployment
// supports. An adapter with no strategies is valid; every operation then
// degrades to ErrUnavailable.
func NewAdapter(opts ...AdapterOption) *Adapter {
	a := &Adapter{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// UpdateFields applies a sparse partial update to the user record through the
// first strategy that accepts it. Unknown columns are rejected before any
// strategy runs; an empty update or a non-positive user ID is a no-op.
func (a *Adapter) UpdateFields(ctx context.Context, userID int64, fields map[Column]string) error {
	if userID <= 0 || len(fields) == 0 {
		return nil
	}
	for col := range fields {
		if !AllowedColumn(col) {
			return fmt.Errorf("column %q is not an updatable profile field", col)
		}
	}
	for _, cap := range a.users {
		err := cap.UpdateFields(ctx, userID, fields)
		if errors.Is(err, sentinel.ErrUnavailable) {
			a.warn(ctx, "profile update strategy unavailable", cap.Name())
			continue
		}
		return err
	}
	return sentinel.ErrUnavailable
}

// Field reads one user-table column. sentinel.ErrNotFound means the user does
// not exist; sentinel.ErrUnavailable means no strategy could answer.
func (a *Adapter) Field(ctx context.Context, userID int64, column Column) (string, error) {
	if userID <= 0 {
		return "", sentinel.ErrNotFound
	}
	if !AllowedColumn(column) {
		return "", fmt.Errorf("column %q is not a readable profile field", column)
	}
	for _, cap := range a.users {
		value, err := cap.Field(ctx, userID, column)
		if errors.Is(err, sentinel.ErrUnavailable) {
			a.warn(ctx, "profile read strategy unavailable", cap.Name())
			continue
		}
		return value, err
	}
	return "", sentinel.ErrUnavailable
}

// SetSellerType upserts the seller-type classifier into the auxiliary store.
func (a *Adapter) SetSellerType(ctx context.Context, userID int64, value string) error {
	if userID <= 0 || value == "" {
		return nil
	}
	for _, cap := range a.metas {
		err := cap.Upsert(ctx, userID, MetaSellerType, value)
		if errors.Is(err, sentinel.ErrUnavailable) {
			a.warn(ctx, "meta write strategy unavailable", cap.Name())
			continue
		}
		return err
	}
	return sentinel.ErrUnavailable
}

// SellerType reads the classifier, normalizing the backend false sentinel to
// "0". An absent attribute reads as "", nil.
func (a *Adapter) SellerType(ctx context.Context, userID int64) (string, error) {
	if userID <= 0 {
		return "", nil
	}
	for _, cap := range a.metas {
		value, err := cap.Value(ctx, userID, MetaSellerType)
		if errors.Is(err, sentinel.ErrUnavailable) {
			a.warn(ctx, "meta read strategy unavailable", cap.Name())
			continue
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		return NormalizeSellerType(value), nil
	}
	return "", sentinel.ErrUnavailable
}

func (a *Adapter) warn(ctx context.Context, msg, strategy string) {
	if a.logger != nil {
		a.logger.WarnContext(ctx, msg, "strategy", strategy)
	}
}
