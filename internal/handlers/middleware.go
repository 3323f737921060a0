package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/hackfair/domare/internal/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// WithMetrics wraps a handler with request logging and duration metrics.
// The route pattern, not the raw path, is used as the metric label.
func WithMetrics(pattern string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		duration := time.Since(start).Seconds()
		metrics.APIRequestDuration.WithLabelValues(
			pattern,
			r.Method,
			strconv.Itoa(rec.status),
		).Observe(duration)

		logger.Debug.Printf("%s %s -> %d (%.3fs)", r.Method, r.URL.Path, rec.status, duration)
	}
}
