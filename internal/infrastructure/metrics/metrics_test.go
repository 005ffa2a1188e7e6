package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Analytics-api/internal/infrastructure/upstream"
)

func TestNewCollector_NamespacePorDefecto(t *testing.T) {
	c := NewCollector("")
	require.NotNil(t, c.Registry())

	c.PageFetched()
	families, err := c.Registry().Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "analytics_report_order_pages_fetched_total")
}

func TestCollector_HTTP(t *testing.T) {
	c := NewCollector("test")

	c.RequestStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpInFlight))

	c.ObserveRequest("GET", "/api/analytics/sales-report", 200, 120*time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(c.httpInFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/api/analytics/sales-report", "200")))
}

func TestCollector_Upstream(t *testing.T) {
	c := NewCollector("test")

	c.UpstreamCall("order-service", upstream.OutcomeOK, 10*time.Millisecond)
	c.UpstreamCall("order-service", upstream.OutcomeOK, 12*time.Millisecond)
	c.UpstreamCall("order-service", upstream.OutcomeStatus, 3*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.upstreamCalls.WithLabelValues("order-service", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.upstreamCalls.WithLabelValues("order-service", "status")))
}

func TestCollector_Reportes(t *testing.T) {
	c := NewCollector("test")

	c.PageFetched()
	c.PageFetched()
	c.FetchTruncated()
	c.ReportGenerated("sales_report", time.Second, true)
	c.ReportGenerated("sales_report", time.Second, false)
	c.ReportGenerated("dashboard_stats", time.Second, false)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.pagesFetched))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.fetchTruncated))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.reportsTotal.WithLabelValues("sales_report", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.reportsTotal.WithLabelValues("dashboard_stats", "false")))
	assert.Greater(t, testutil.ToFloat64(c.lastReportUnixS.WithLabelValues("sales_report")), 0.0)
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("test")
	c.FetchTruncated()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "test_report_fetch_truncated_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}
