package ranking

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rankDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "talentrank_ranking_duration_seconds",
		Help:    "Wall time of one ranking request.",
		Buckets: prometheus.DefBuckets,
	})

	rankedCandidatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "talentrank_ranking_candidates_total",
		Help: "Candidates processed by outcome (ranked, dropped).",
	}, []string{"outcome"})
)
