// Package metrics provides Prometheus metrics for genai-news.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RetryAttemptsTotal counts backoff executor attempt outcomes.
	RetryAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "genai_news",
			Name:      "retry_attempts_total",
			Help:      "Total number of external call attempts by outcome",
		},
		[]string{"operation", "outcome"},
	)

	// RefreshTotal counts refresh runs by trigger reason and result.
	RefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "genai_news",
			Name:      "refresh_total",
			Help:      "Total number of refresh runs",
		},
		[]string{"reason", "status"},
	)

	// RefreshDuration measures refresh duration.
	RefreshDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "genai_news",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of refresh runs in seconds",
			Buckets:   []float64{1, 5, 10, 20, 30, 60, 120, 300},
		},
		[]string{"reason"},
	)

	// ItemFailuresTotal counts per-item pipeline failures by stage.
	ItemFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "genai_news",
			Name:      "item_failures_total",
			Help:      "Total number of skipped or degraded pipeline items",
		},
		[]string{"stage"},
	)

	// BatchArticles tracks the size of the batch currently served.
	BatchArticles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "genai_news",
			Name:      "batch_articles",
			Help:      "Number of articles in the current batch",
		},
	)

	// FallbackActive is 1 while the fallback batch is served.
	FallbackActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "genai_news",
			Name:      "fallback_active",
			Help:      "Whether the fallback batch is being served (1 = fallback, 0 = live)",
		},
	)
)

// Refresh status label values.
const (
	StatusSuccess  = "success"
	StatusFallback = "fallback"
	StatusError    = "error"
)

// Recorder adapts the package-level collectors to the interfaces used by
// the retry, service and refresh packages.
type Recorder struct{}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (*Recorder) RecordRetryAttempt(operation, outcome string) {
	RetryAttemptsTotal.WithLabelValues(operation, outcome).Inc()
}

func (*Recorder) RecordItemFailure(stage string) {
	ItemFailuresTotal.WithLabelValues(stage).Inc()
}

// RecordRefresh records a completed refresh run.
func (*Recorder) RecordRefresh(reason, status string, articles int, duration float64) {
	RefreshTotal.WithLabelValues(reason, status).Inc()
	RefreshDuration.WithLabelValues(reason).Observe(duration)

	if status == StatusError {
		return
	}
	BatchArticles.Set(float64(articles))
	if status == StatusFallback {
		FallbackActive.Set(1)
	} else {
		FallbackActive.Set(0)
	}
}
