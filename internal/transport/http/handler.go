// Package httptransport is the thin HTTP layer between the host's hook
// dispatcher and the domain services. Handlers decode, delegate, and map
// failures to responses; no policy logic lives here.
package httptransport

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nootkan/required-fields-manager/internal/lifecycle"
	"github.com/nootkan/required-fields-manager/internal/outcome"
	"github.com/nootkan/required-fields-manager/internal/platform/config"
	"github.com/nootkan/required-fields-manager/internal/policy"
	"github.com/nootkan/required-fields-manager/internal/submission"
	"github.com/nootkan/required-fields-manager/internal/validation"
	dErrors "github.com/nootkan/required-fields-manager/pkg/domain-errors"
	"github.com/nootkan/required-fields-manager/pkg/platform/audit"
	"github.com/nootkan/required-fields-manager/pkg/platform/httputil"
	"github.com/nootkan/required-fields-manager/pkg/requestcontext"
)

// Deps collects the services the handler delegates to.
type Deps struct {
	Engine    *validation.Engine
	Reporter  *outcome.Reporter
	Policies  *policy.Service
	Registry  *lifecycle.Registry
	Applier   *lifecycle.Applier
	Redirects config.Redirects
	// AdminToken guards the settings endpoints. Empty disables them.
	AdminToken string
	Logger     *slog.Logger
	Audit      audit.Publisher
}

// Handler wires the hook and admin endpoints to the domain services.
type Handler struct {
	deps Deps
}

func New(deps Deps) *Handler {
	return &Handler{deps: deps}
}

// HandleSubmission handles POST /hooks/submission: the host forwards a form
// submission before committing it, and we answer pass or fail.
func (h *Handler) HandleSubmission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[SubmissionRequest](w, r, h.deps.Logger, ctx, requestID)
	if !ok {
		return
	}

	ctx = requestcontext.WithSessionID(ctx, req.SessionID)
	ctx = requestcontext.WithUserID(ctx, req.UserID)

	sub := submission.Context{
		Type:      req.ParsedType(),
		Fields:    req.Fields,
		SessionID: req.SessionID,
		UserID:    req.UserID,
	}

	failure, err := h.deps.Engine.Validate(ctx, sub)
	if err != nil {
		h.deps.Logger.ErrorContext(ctx, "submission validation errored",
			"request_id", requestID,
			"submission_type", string(sub.Type),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	if failure != nil {
		h.deps.Reporter.Fail(ctx, req.SessionID, failure.FormSlot, failure.Message, req.Fields)
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":    "validation_failed",
			"message":  failure.Message,
			"redirect": h.redirectFor(failure.Target),
		})
		return
	}

	h.deps.Logger.InfoContext(ctx, "submission passed",
		"request_id", requestID,
		"submission_type", string(sub.Type),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleRecordCreated handles POST /hooks/record-created. Unknown hook names
// and duplicate firings both answer 200: the stash's at-most-once fetch
// makes re-delivery harmless, and an unrecognized alias is the host's
// business, not an error of ours.
func (h *Handler) HandleRecordCreated(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RecordCreatedRequest](w, r, h.deps.Logger, ctx, requestID)
	if !ok {
		return
	}

	event, known := h.deps.Registry.Resolve(req.Hook)
	if !known || event != lifecycle.EventRecordCreated {
		h.deps.Logger.InfoContext(ctx, "ignoring unregistered hook",
			"request_id", requestID,
			"hook", req.Hook,
		)
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	ctx = requestcontext.WithSessionID(ctx, req.SessionID)
	ctx = requestcontext.WithUserID(ctx, req.UserID)
	if err := h.deps.Applier.ApplyPending(ctx, req.SessionID, req.UserID); err != nil {
		h.deps.Logger.ErrorContext(ctx, "deferred profile apply failed",
			"request_id", requestID,
			"user_id", req.UserID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to apply pending fields"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleFormState handles GET /hooks/form-state: the host drains the flash
// message and form snapshot when it re-renders the form after a failure.
// Both reads consume their value, so a second render starts clean.
func (h *Handler) HandleFormState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	slot := strings.TrimSpace(r.URL.Query().Get("slot"))
	if sessionID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "session_id is required"))
		return
	}

	message, err := h.deps.Reporter.TakeFlash(ctx, sessionID)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read flash message"))
		return
	}
	fields := submission.Fields{}
	if slot != "" {
		fields, err = h.deps.Reporter.TakeForm(ctx, sessionID, slot)
		if err != nil {
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read form snapshot"))
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": message,
		"fields":  fields,
	})
}

// HandleGetSettings handles GET /admin/settings, returning the fully
// resolved flag map (stored overrides on top of built-in defaults).
func (h *Handler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	settings, err := h.deps.Policies.GetSettings(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, settingsResponse(settings))
}

// HandlePutSettings handles PUT /admin/settings with a sparse flag map;
// omitted keys keep their current value.
func (h *Handler) HandlePutSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SettingsRequest](w, r, h.deps.Logger, ctx, requestID)
	if !ok {
		return
	}

	partial := make(policy.Settings, len(*req))
	keys := make([]string, 0, len(*req))
	for name, value := range *req {
		partial[policy.Key(name)] = value
		keys = append(keys, name)
	}
	if err := h.deps.Policies.SaveSettings(ctx, partial); err != nil {
		httputil.WriteError(w, err)
		return
	}

	audit.Log(ctx, h.deps.Logger, h.deps.Audit, audit.Event{
		Category: audit.CategoryOperations,
		Action:   audit.EventSettingsSaved,
		Subject:  strings.Join(keys, ", "),
	})

	settings, err := h.deps.Policies.GetSettings(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, settingsResponse(settings))
}

// HandleResetSettings handles DELETE /admin/settings: every stored override
// is removed and the built-in defaults apply again.
func (h *Handler) HandleResetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.deps.Policies.ResetSettings(ctx); err != nil {
		httputil.WriteError(w, err)
		return
	}

	audit.Log(ctx, h.deps.Logger, h.deps.Audit, audit.Event{
		Category: audit.CategoryOperations,
		Action:   audit.EventSettingsSaved,
		Subject:  "reset",
	})

	settings, err := h.deps.Policies.GetSettings(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, settingsResponse(settings))
}

func (h *Handler) HandleHealthz(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireAdmin guards the settings endpoints with a bearer token. An empty
// configured token disables the endpoints outright.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.deps.AdminToken == "" {
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin endpoints are not configured"))
			return
		}
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token != h.deps.AdminToken {
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid admin token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// redirectFor maps a failure target onto the configured host URL.
func (h *Handler) redirectFor(target validation.Target) string {
	switch target {
	case validation.TargetRegister:
		return h.deps.Redirects.Register
	case validation.TargetItemPost:
		return h.deps.Redirects.ItemPost
	case validation.TargetItemEdit:
		return h.deps.Redirects.ItemEdit
	case validation.TargetProfile:
		return h.deps.Redirects.UserProfile
	default:
		return h.deps.Redirects.Base
	}
}

// settingsResponse resolves every known policy key so the admin UI sees the
// complete picture, not just stored overrides.
func settingsResponse(settings policy.Settings) map[string]bool {
	out := make(map[string]bool, len(policy.Keys()))
	for _, k := range policy.Keys() {
		out[string(k)] = settings.Required(k)
	}
	return out
}
