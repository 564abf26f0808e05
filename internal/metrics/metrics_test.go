package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMiddlewareCountsByRoute(t *testing.T) {
	m := New(prometheus.NewRegistry())
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/v1/events/:id", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	for _, id := range []string{"a", "b"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/events/"+id, nil))
	}
	assert.Contains(t, scrape(t, m), `ticketing_gateway_requests_total{method="GET",route="/v1/events/:id",status="204"} 2`)
}

func TestObservePublish(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObservePublish("report.deleted", nil)
	m.ObservePublish("report.deleted", errors.New("down"))
	out := scrape(t, m)
	assert.Contains(t, out, `ticketing_activity_published_total{kind="report.deleted",outcome="error"} 1`)
	assert.Contains(t, out, `ticketing_activity_published_total{kind="report.deleted",outcome="ok"} 1`)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var none *Metrics
	assert.NotPanics(t, func() {
		none.ObservePublish("x", nil)
		none.ObserveUpstream("x", 200, time.Second)
	})
}

func TestObserveUpstream(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveUpstream("report.get", 0, 10*time.Millisecond)
	assert.Contains(t, scrape(t, m), `ticketing_backend_call_duration_seconds_count{operation="report.get",status="error"} 1`)
}
