package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickcore_generation_requests_total",
			Help: "Total number of study plan generation requests.",
		},
		[]string{"provider", "model", "status"}, // status: success, error, malformed
	)
	generationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quickcore_generation_duration_seconds",
			Help:    "Histogram of language model call durations.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		},
		[]string{"provider", "model"},
	)
	generationPromptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quickcore_generation_prompt_tokens",
			Help:    "Histogram of prompt token counts.",
			Buckets: prometheus.ExponentialBuckets(500, 2, 10), // 500 .. 256000
		},
		[]string{"provider", "model"},
	)
	generationCompletionTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quickcore_generation_completion_tokens",
			Help:    "Histogram of completion token counts.",
			Buckets: prometheus.LinearBuckets(250, 250, 20), // 250 .. 5000
		},
		[]string{"provider", "model"},
	)
	generationTruncatedInputsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickcore_generation_truncated_inputs_total",
			Help: "Documents cut down to the configured input token budget.",
		},
		[]string{"provider", "model"},
	)
)
