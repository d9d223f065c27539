package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRender(t *testing.T) {
	m := NewMetrics()

	m.RecordRender("success", 2*time.Second)
	m.RecordRender("error", time.Second)
	m.RecordRender("success", 3*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Renders.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Renders.WithLabelValues("error")))
	assert.Equal(t, int64(3), m.Snapshot().Renders)
}

func TestInFlightGauge(t *testing.T) {
	m := NewMetrics()

	m.GenerationStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationsInFlight))
	m.GenerationFinished()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.GenerationsInFlight))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordRender("success", time.Second)
		m.IncMessages("user")
		m.SetSessions(3)
		m.RecordPersistWrite(10)
		m.IncWSConnections()
	})
	assert.Equal(t, MetricsSnapshot{}, m.Snapshot())
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/api/sessions/:id", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions/sess_123", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/sessions/:id", "404")))
	snap := m.Snapshot()
	assert.Equal(t, int64(1), snap.TotalRequests)
	assert.Equal(t, int64(1), snap.TotalErrors)
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := NewMetrics()
	m.IncMessages("assistant")

	w := httptest.NewRecorder()
	Handler(m).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "studio_messages_total")
	assert.Contains(t, w.Body.String(), "studio_uptime_seconds")
}
