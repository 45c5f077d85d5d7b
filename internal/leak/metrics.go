package leak

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snitch",
			Name:      "leak_generations_total",
			Help:      "Total leak generations by strategy and outcome",
		},
		[]string{"strategy", "status"}, // strategy: "chain", "simplified", "template"
	)

	noTargetTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "snitch",
			Name:      "leak_no_target_total",
			Help:      "Generations that ended with no eligible target",
		},
	)

	llmCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snitch",
			Name:      "llm_calls_total",
			Help:      "Total LLM API calls",
		},
		[]string{"stage", "status"},
	)

	llmDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "snitch",
			Name:      "llm_duration_seconds",
			Help:      "Duration of LLM API calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~50s
		},
		[]string{"stage"},
	)

	stageFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snitch",
			Name:      "stage_fallbacks_total",
			Help:      "Per-stage deterministic fallbacks taken",
		},
		[]string{"stage"},
	)

	selectionPoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "snitch",
			Name:      "selection_pool_size",
			Help:      "Candidate pool size per selection",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20, 50},
		},
	)
)
