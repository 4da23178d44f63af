// Package outcome records the user-facing consequences of a rejected
// submission: a repopulation snapshot of what the user typed, a flash
// message, and the redirect the host should perform. The caller stops
// processing the request once a failure is reported.
package outcome

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nootkan/required-fields-manager/internal/session"
	"github.com/nootkan/required-fields-manager/internal/submission"
	"github.com/nootkan/required-fields-manager/pkg/platform/sentinel"
)

const (
	formKeyPrefix = "form:"
	flashKey      = "flash_error"
)

// Reporter persists failure state into the session store.
type Reporter struct {
	sessions session.Store
	ttl      time.Duration
	logger   *slog.Logger
}

type Option func(*Reporter)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Reporter) {
		r.logger = logger
	}
}

func New(sessions session.Store, ttl time.Duration, opts ...Option) (*Reporter, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	r := &Reporter{sessions: sessions, ttl: ttl}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Fail snapshots the submitted fields into the form slot, records the flash
// message, and returns. Snapshot trouble is logged and swallowed: the user
// still gets the message and the redirect, they just lose repopulation.
func (r *Reporter) Fail(ctx context.Context, sessionID, formSlot, message string, fields submission.Fields) {
	if formSlot != "" {
		if err := r.snapshotForm(ctx, sessionID, formSlot, fields); err != nil {
			r.warn(ctx, "failed to snapshot form values", err, "session_id", sessionID, "slot", formSlot)
		}
	}
	if err := r.sessions.Set(ctx, sessionID, flashKey, message, r.ttl); err != nil {
		r.warn(ctx, "failed to record flash message", err, "session_id", sessionID)
	}
}

// TakeForm returns and clears the repopulation snapshot for a slot, so a
// re-rendered form restores what the user typed exactly once.
func (r *Reporter) TakeForm(ctx context.Context, sessionID, formSlot string) (submission.Fields, error) {
	payload, err := r.sessions.Take(ctx, sessionID, formKeyPrefix+formSlot)
	if errors.Is(err, sentinel.ErrNotFound) {
		return submission.Fields{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("take form snapshot: %w", err)
	}
	var fields submission.Fields
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return submission.Fields{}, nil
	}
	return fields, nil
}

// TakeFlash returns and clears the pending flash message, or "" when none is
// pending.
func (r *Reporter) TakeFlash(ctx context.Context, sessionID string) (string, error) {
	message, err := r.sessions.Take(ctx, sessionID, flashKey)
	if errors.Is(err, sentinel.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("take flash message: %w", err)
	}
	return message, nil
}

func (r *Reporter) snapshotForm(ctx context.Context, sessionID, formSlot string, fields submission.Fields) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal form snapshot: %w", err)
	}
	return r.sessions.Set(ctx, sessionID, formKeyPrefix+formSlot, string(payload), r.ttl)
}

func (r *Reporter) warn(ctx context.Context, msg string, err error, attrs ...any) {
	if r.logger != nil {
		r.logger.WarnContext(ctx, msg, append(attrs, "error", err)...)
	}
}
