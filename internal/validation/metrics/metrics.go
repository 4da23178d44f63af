package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the validation module.
type Metrics struct {
	SubmissionsChecked *prometheus.CounterVec
	SubmissionsFailed  *prometheus.CounterVec
	StashCaptured      prometheus.Counter
	StashApplied       prometheus.Counter
	StashEmpty         prometheus.Counter
	ValidateDuration   prometheus.Histogram
}

// New creates a Metrics instance with all validation metrics registered.
func New() *Metrics {
	return &Metrics{
		SubmissionsChecked: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rfm_submissions_checked_total",
			Help: "Total submissions evaluated, by submission type",
		}, []string{"submission_type"}),
		SubmissionsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rfm_submissions_failed_total",
			Help: "Total submissions rejected by required-field checks, by submission type",
		}, []string{"submission_type"}),
		StashCaptured: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rfm_stash_captured_total",
			Help: "Total registration extras captured for deferred apply",
		}),
		StashApplied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rfm_stash_applied_total",
			Help: "Total deferred stashes applied to a created record",
		}),
		StashEmpty: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rfm_stash_empty_total",
			Help: "Total record-created triggers that found no pending stash",
		}),
		ValidateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rfm_validate_duration_seconds",
			Help:    "Duration of submission validation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveValidate records the duration of one Validate call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveValidate(start time.Time) {
	m.ValidateDuration.Observe(time.Since(start).Seconds())
}
