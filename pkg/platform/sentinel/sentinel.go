package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and capability strategies
// return these (optionally wrapped) so services can translate them into domain
// errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrExpired: stashed or session-scoped data outlived its TTL
// - ErrUnavailable: a capability or backing store cannot serve the call
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrExpired     = errors.New("expired")
	ErrUnavailable = errors.New("unavailable")
)
