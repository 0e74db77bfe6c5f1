package analytics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const (
	opWordCounts = "agency_word_counts"
	opHistory    = "historical_changes"
	opComplexity = "complexity_metrics"
	opAdvanced   = "advanced_text_metrics"
	opBurden     = "regulatory_burden"
)

var (
	partialFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecfr_partial_failures_total",
		Help: "Units of work skipped during multi-reference aggregation.",
	}, []string{"operation"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ecfr_analytics_operation_duration_seconds",
		Help:    "Analytics operation latency by operation and outcome.",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 14),
	}, []string{"operation", "outcome"})
)

func observe(op string, start time.Time, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	operationDuration.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
}

// partialFailure records a skipped unit. It is never returned to callers.
func (e *Engine) partialFailure(op string, err error, fields ...zap.Field) {
	partialFailures.WithLabelValues(op).Inc()
	e.logger.Warn("partial failure", append([]zap.Field{zap.String("operation", op), zap.Error(err)}, fields...)...)
}
