package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"sentiment_backend/internal/platform/metrics"
)

func TestRecordResolution(t *testing.T) {
	before := testutil.ToFloat64(metrics.Resolutions.WithLabelValues("sentiment", "fallback"))
	metrics.RecordResolution("sentiment", "fallback")
	after := testutil.ToFloat64(metrics.Resolutions.WithLabelValues("sentiment", "fallback"))
	assert.Equal(t, before+1, after)
}

func TestRecordHealth(t *testing.T) {
	metrics.RecordHealth(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WebhookUp))
	metrics.RecordHealth(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.WebhookUp))
}

func TestRecordAnalytics(t *testing.T) {
	before := testutil.ToFloat64(metrics.AnalyticsEvents.WithLabelValues("fallback-usage", "error"))
	metrics.RecordAnalytics("fallback-usage", errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.AnalyticsEvents.WithLabelValues("fallback-usage", "error")))
}

func TestObserveWebhook(t *testing.T) {
	before := testutil.ToFloat64(metrics.WebhookCalls.WithLabelValues("api:mentions", "ok"))
	metrics.ObserveWebhook("api:mentions", "ok", 120*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.WebhookCalls.WithLabelValues("api:mentions", "ok")))
}

func TestInitAndHandler(t *testing.T) {
	metrics.Init()
	metrics.Init()

	metrics.RecordJob("health-probe", nil)
	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sentiment_job_runs_total")
}
