// Package stash implements the session-scoped holding area for registration
// extras: values captured during the registration submission and applied
// later, when the host reports that the user record exists.
package stash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nootkan/required-fields-manager/internal/session"
	"github.com/nootkan/required-fields-manager/internal/submission"
	"github.com/nootkan/required-fields-manager/pkg/platform/sentinel"
)

// sessionKey is the per-session slot holding the pending extras.
const sessionKey = "reg_extra"

// Data is the captured field map. Blank values are kept; the apply step
// re-checks blankness before touching the profile.
type Data map[string]submission.Value

// Empty reports whether there is nothing to apply.
func (d Data) Empty() bool { return len(d) == 0 }

// Stash captures and releases pending registration extras. A session holds
// at most one stash at a time; Capture overwrites any prior one. The TTL
// bounds abandoned stashes when record creation never fires.
type Stash struct {
	sessions session.Store
	ttl      time.Duration
}

func New(sessions session.Store, ttl time.Duration) *Stash {
	return &Stash{sessions: sessions, ttl: ttl}
}

// Capture stores data for the session, replacing any existing stash.
func (s *Stash) Capture(ctx context.Context, sessionID string, data Data) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal stash: %w", err)
	}
	if err := s.sessions.Set(ctx, sessionID, sessionKey, string(payload), s.ttl); err != nil {
		return fmt.Errorf("capture stash: %w", err)
	}
	return nil
}

// FetchAndClear atomically reads and deletes the session's stash. An absent
// stash is not an error: duplicate record-created triggers are expected, and
// every caller after the first gets an empty Data and does nothing. This is
// what makes the apply workflow at-most-once.
func (s *Stash) FetchAndClear(ctx context.Context, sessionID string) (Data, error) {
	payload, err := s.sessions.Take(ctx, sessionID, sessionKey)
	if errors.Is(err, sentinel.ErrNotFound) {
		return Data{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch stash: %w", err)
	}
	var data Data
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		// A corrupt stash is abandoned garbage, not a reason to fail the
		// record-created flow.
		return Data{}, nil
	}
	return data, nil
}
