package policy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	dErrors "github.com/nootkan/required-fields-manager/pkg/domain-errors"
	"github.com/nootkan/required-fields-manager/pkg/platform/sentinel"
)

// Store is the key-value persistence boundary for policy flags. Values are
// stored as "0"/"1" strings; Get returns sentinel.ErrNotFound for absent keys.
type Store interface {
	Get(ctx context.Context, key Key) (string, error)
	Set(ctx context.Context, key Key, value string) error
	Delete(ctx context.Context, key Key) error
}

// Service resolves effective policy and persists flag changes.
type Service struct {
	store  Store
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("policy store is required")
	}
	svc := &Service{store: store}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// GetSettings reads every known key. A key that is absent from the store, or
// holds a malformed value, resolves to its built-in default; misconfiguration
// is recovered locally and never surfaced.
func (s *Service) GetSettings(ctx context.Context) (Settings, error) {
	out := make(Settings, len(keys))
	for _, k := range keys {
		def, _ := Default(k)
		raw, err := s.store.Get(ctx, k)
		if errors.Is(err, sentinel.ErrNotFound) {
			out[k] = def
			continue
		}
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read policy settings")
		}
		flag, ok := parseFlag(raw)
		if !ok {
			if s.logger != nil {
				s.logger.WarnContext(ctx, "malformed policy value, using default", "key", string(k), "value", raw)
			}
			out[k] = def
			continue
		}
		out[k] = flag
	}
	return out, nil
}

// SaveSettings writes each provided key verbatim, coerced to 0/1, leaving
// unspecified keys untouched. Unknown keys are rejected so a typo in an admin
// payload cannot silently create orphan preferences.
func (s *Service) SaveSettings(ctx context.Context, partial Settings) error {
	for k := range partial {
		if !Known(k) {
			return dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown policy key %q", k))
		}
	}
	for _, k := range keys {
		v, ok := partial[k]
		if !ok {
			continue
		}
		if err := s.store.Set(ctx, k, formatFlag(v)); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save policy settings")
		}
	}
	return nil
}

// ResetSettings deletes every stored value so the built-in defaults apply
// again. The uninstall counterpart of EnsureDefaults.
func (s *Service) ResetSettings(ctx context.Context) error {
	for _, k := range keys {
		if err := s.store.Delete(ctx, k); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset policy settings")
		}
	}
	return nil
}

// EnsureDefaults writes the built-in default for every key the store has no
// value for. Run at install/startup; existing values are never overwritten.
func (s *Service) EnsureDefaults(ctx context.Context) error {
	for _, k := range keys {
		_, err := s.store.Get(ctx, k)
		if err == nil {
			continue
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to inspect policy settings")
		}
		def, _ := Default(k)
		if err := s.store.Set(ctx, k, formatFlag(def)); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to seed policy defaults")
		}
	}
	return nil
}

func parseFlag(raw string) (value, ok bool) {
	switch raw {
	case "0":
		return false, true
	case "1":
		return true, true
	default:
		return false, false
	}
}

func formatFlag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
