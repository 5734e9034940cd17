// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Resolutions counts resolver results by request kind and provenance.
	Resolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_resolutions_total",
			Help: "Total number of resolved requests by kind and provenance",
		},
		[]string{"kind", "provenance"}, // provenance: n8n|static|fallback
	)

	WebhookCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_webhook_calls_total",
			Help: "Total number of n8n webhook calls",
		},
		[]string{"endpoint", "outcome"}, // outcome: ok|timeout|http_error|network_error
	)

	WebhookDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentiment_webhook_duration_seconds",
			Help:    "n8n webhook call latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"endpoint"},
	)

	WebhookUp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentiment_webhook_up",
			Help: "1 when the last n8n health check succeeded",
		},
	)

	AnalyticsEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_analytics_events_total",
			Help: "Analytics events published by the resolver",
		},
		[]string{"event", "status"}, // status: success|error
	)

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_cache_lookups_total",
			Help: "Webhook response cache lookups",
		},
		[]string{"result"}, // result: hit|miss|error
	)

	JobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_job_runs_total",
			Help: "Scheduled job executions",
		},
		[]string{"job", "status"},
	)
)

var registerOnce sync.Once

// Init registers all collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			Resolutions,
			WebhookCalls,
			WebhookDuration,
			WebhookUp,
			AnalyticsEvents,
			CacheLookups,
			JobRuns,
		)
	})
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveWebhook records one webhook round trip.
func ObserveWebhook(endpoint, outcome string, d time.Duration) {
	WebhookCalls.WithLabelValues(endpoint, outcome).Inc()
	WebhookDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// RecordResolution records which rung of the fallback ladder answered.
func RecordResolution(kind, provenance string) {
	Resolutions.WithLabelValues(kind, provenance).Inc()
}

// RecordHealth sets the webhook-up gauge.
func RecordHealth(healthy bool) {
	if healthy {
		WebhookUp.Set(1)
		return
	}
	WebhookUp.Set(0)
}

// RecordAnalytics records an analytics publish outcome.
func RecordAnalytics(event string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	AnalyticsEvents.WithLabelValues(event, status).Inc()
}

// RecordJob records a scheduled job execution.
func RecordJob(job string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	JobRuns.WithLabelValues(job, status).Inc()
}
