// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReviewsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviews_submitted_total",
			Help: "Total number of submitted reviews",
		},
		[]string{"judge"},
	)

	ReviewScoreHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "review_score",
			Help:    "Distribution of submitted review scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
