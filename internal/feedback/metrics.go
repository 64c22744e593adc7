package feedback

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are registered on the default registry so the Prometheus server in
// internal/observability picks them up without extra wiring.
var (
	lookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "talentrank_feedback_lookups_total",
		Help: "Feedback history lookups by result (hit, miss, negative_hit, error).",
	}, []string{"result"})

	storeRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "talentrank_feedback_store_request_duration_seconds",
		Help:    "Latency of feedback store requests by operation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	storeRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "talentrank_feedback_store_retries_total",
		Help: "Total retry attempts against the feedback store.",
	})

	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "talentrank_feedback_uploads_total",
		Help: "Feedback record uploads by outcome (success, error).",
	}, []string{"outcome"})
)
