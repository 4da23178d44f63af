// Package session is the boundary to the host's per-session key-value
// storage. The extra-field stash, form repopulation snapshots, and flash
// messages all live behind it. The host's session mechanism serializes
// access per session; these stores add no cross-session coordination.
package session

import (
	"context"
	"time"
)

// Store is per-session key-value storage. Keys are scoped to a session ID;
// absent keys surface sentinel.ErrNotFound. A zero TTL means the entry does
// not expire.
type Store interface {
	Set(ctx context.Context, sessionID, key, value string, ttl time.Duration) error
	Get(ctx context.Context, sessionID, key string) (string, error)

	// Take is an atomic read-then-delete. The first caller gets the value;
	// concurrent or repeated callers get sentinel.ErrNotFound.
	Take(ctx context.Context, sessionID, key string) (string, error)

	Delete(ctx context.Context, sessionID, key string) error
}
