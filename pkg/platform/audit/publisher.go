package audit

import (
	"context"
	"log/slog"

	"github.com/nootkan/required-fields-manager/pkg/requestcontext"
)

// Publisher emits audit events for security- and compliance-relevant
// operations. Implementations must not block the caller's primary action on
// sink failures.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// Log is a shared helper for emitting audit events across services. It logs
// to the structured logger and forwards to the publisher if one is wired.
func Log(ctx context.Context, logger *slog.Logger, publisher Publisher, event Event, attrs ...any) {
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}

	if logger != nil {
		args := append(attrs, "event", event.Action, "log_type", "audit")
		logger.InfoContext(ctx, event.Action, args...)
	}

	if publisher == nil {
		return
	}
	if err := publisher.Emit(ctx, event); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to emit audit event", "event", event.Action, "error", err)
	}
}
