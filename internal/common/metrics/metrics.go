// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_submissions_completed_total",
			Help: "Total number of submissions that produced a decision",
		},
		[]string{"outcome"}, // approved | rejected
	)

	SubmissionsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_submissions_failed_total",
			Help: "Total number of submissions that returned to the form",
		},
		[]string{"error_code"},
	)

	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "intake_submission_duration_seconds",
			Help: "Duration of scoring engine round trips in seconds",
		},
		[]string{"outcome"},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "intake_sessions_active",
			Help: "Number of intake sessions currently open",
		},
	)

	FieldRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_field_rejections_total",
			Help: "Field edits rejected by their declared domain",
		},
		[]string{"field"},
	)
)
