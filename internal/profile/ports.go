package profile

import "context"

// UserCapability is one strategy for reaching the host's user table. A
// deployment declares which strategies it supports by wiring them into the
// adapter; Usable lets a wired strategy bow out when its backing resource is
// absent (for example, no database configured).
//
// UpdateFields applies a sparse partial update; only named columns change.
// Field reads a single column; sentinel.ErrNotFound means no such user, and
// sentinel.ErrUnavailable means the strategy cannot serve the call at all.
type UserCapability interface {
	Name() string
	Usable() bool
	UpdateFields(ctx context.Context, userID int64, fields map[Column]string) error
	Field(ctx context.Context, userID int64, column Column) (string, error)
}

// MetaCapability is one strategy for reaching the auxiliary attribute store
// keyed by (user ID, attribute name).
type MetaCapability interface {
	Name() string
	Usable() bool
	Upsert(ctx context.Context, userID int64, name, value string) error
	Value(ctx context.Context, userID int64, name string) (string, error)
}
