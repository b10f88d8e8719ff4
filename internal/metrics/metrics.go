package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for the external API admission counter.
const (
	OutcomeAdmitted          = "admitted"
	OutcomeMissingCredential = "missing_credential"
	OutcomeInvalidCredential = "invalid_credential"
	OutcomeRateLimited       = "rate_limited"
	OutcomeInternalError     = "internal_error"
)

var (
	ExternalRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "postanalyzer",
			Name:      "external_requests_total",
			Help:      "External API admission decisions by outcome.",
		},
		[]string{"outcome"},
	)

	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "postanalyzer",
			Name:      "analyses_total",
			Help:      "Upstream analysis calls by surface and status.",
		},
		[]string{"surface", "status"},
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "postanalyzer",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of upstream analysis calls in seconds.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60},
		},
		[]string{"surface"},
	)
)
