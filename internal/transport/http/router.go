package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nootkan/required-fields-manager/pkg/requestcontext"
)

// NewRouter mounts the hook, admin, and operational endpoints.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)

	r.Post("/hooks/submission", h.HandleSubmission)
	r.Post("/hooks/record-created", h.HandleRecordCreated)
	r.Get("/hooks/form-state", h.HandleFormState)

	r.Route("/admin", func(r chi.Router) {
		r.Use(h.requireAdmin)
		r.Get("/settings", h.HandleGetSettings)
		r.Put("/settings", h.HandlePutSettings)
		r.Delete("/settings", h.HandleResetSettings)
	})

	r.Get("/healthz", h.HandleHealthz)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// RequestID propagates the caller's X-Request-ID or mints one, echoing it
// back so the host can correlate its own logs with ours.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
