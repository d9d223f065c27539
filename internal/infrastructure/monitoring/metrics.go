package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and records
// nothing, so components can run without a collector in tests.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Generation metrics
	Renders             *prometheus.CounterVec
	GenerationDuration  *prometheus.HistogramVec
	GenerationsInFlight prometheus.Gauge
	GenerationsRejected prometheus.Counter
	Edits               *prometheus.CounterVec

	// Store metrics
	Sessions    prometheus.Gauge
	Messages    *prometheus.CounterVec
	Collections prometheus.Gauge

	// Persistence metrics
	PersistWrites prometheus.Counter
	PersistErrors *prometheus.CounterVec
	PersistBytes  prometheus.Histogram

	// Upload metrics
	Uploads *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.GaugeFunc
	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests     int64   `json:"totalRequests"`
	TotalErrors       int64   `json:"totalErrors"`
	ActiveConnections int64   `json:"activeConnections"`
	TotalDuration     float64 `json:"totalDurationSeconds"` // sum of all request durations
	RequestCount      int64   `json:"requestCount"`         // count for averaging
	Renders           int64   `json:"renders"`
	PersistWrites     int64   `json:"persistWrites"`
}

// NewMetrics creates a metrics collector on its own registry, including the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewMetricsWithRegistry(reg)
}

// NewMetricsWithRegistry creates a metrics collector registering on reg
func NewMetricsWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studio_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "studio_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "studio_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "studio_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		// Generation metrics
		Renders: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studio_renders_total",
				Help: "Total number of renders produced, by outcome",
			},
			[]string{"outcome"},
		),
		GenerationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "studio_generation_duration_seconds",
				Help:    "Generation cycle duration in seconds",
				Buckets: []float64{.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
			},
			[]string{"outcome"},
		),
		GenerationsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "studio_generations_in_flight",
				Help: "Number of generation cycles in flight",
			},
		),
		GenerationsRejected: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "studio_generations_rejected_total",
				Help: "Generation requests rejected because one was already running",
			},
		),
		Edits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studio_edits_total",
				Help: "Total number of edit requests, by result",
			},
			[]string{"result"},
		),

		// Store metrics
		Sessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "studio_sessions",
				Help: "Number of chat sessions in the store",
			},
		),
		Messages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studio_messages_total",
				Help: "Total number of chat messages appended",
			},
			[]string{"role"},
		),
		Collections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "studio_collections",
				Help: "Number of collections in the store",
			},
		),

		// Persistence metrics
		PersistWrites: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "studio_persist_writes_total",
				Help: "Total number of snapshot writes",
			},
		),
		PersistErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studio_persist_errors_total",
				Help: "Total number of snapshot read or write failures",
			},
			[]string{"op"},
		),
		PersistBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "studio_persist_bytes",
				Help:    "Encoded snapshot size in bytes",
				Buckets: prometheus.ExponentialBuckets(256, 4, 8),
			},
		),

		// Upload metrics
		Uploads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studio_uploads_total",
				Help: "Total number of uploads, by result",
			},
			[]string{"result"},
		),

		// WebSocket metrics
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "studio_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studio_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	m.Uptime = factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "studio_uptime_seconds",
			Help: "Service uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry returns the registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.RequestCount++
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordRender records the outcome and duration of a generation cycle
func (m *Metrics) RecordRender(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.Renders.WithLabelValues(outcome).Inc()
	m.GenerationDuration.WithLabelValues(outcome).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.Renders++
	m.mu.Unlock()
}

// GenerationStarted increments the in-flight gauge
func (m *Metrics) GenerationStarted() {
	if m == nil {
		return
	}
	m.GenerationsInFlight.Inc()
}

// GenerationFinished decrements the in-flight gauge
func (m *Metrics) GenerationFinished() {
	if m == nil {
		return
	}
	m.GenerationsInFlight.Dec()
}

// IncGenerationsRejected counts a generation refused while another ran
func (m *Metrics) IncGenerationsRejected() {
	if m == nil {
		return
	}
	m.GenerationsRejected.Inc()
}

// RecordEdit records an edit request result
func (m *Metrics) RecordEdit(result string) {
	if m == nil {
		return
	}
	m.Edits.WithLabelValues(result).Inc()
}

// SetSessions sets the number of sessions
func (m *Metrics) SetSessions(count int) {
	if m == nil {
		return
	}
	m.Sessions.Set(float64(count))
}

// IncMessages counts an appended chat message
func (m *Metrics) IncMessages(role string) {
	if m == nil {
		return
	}
	m.Messages.WithLabelValues(role).Inc()
}

// SetCollections sets the number of collections
func (m *Metrics) SetCollections(count int) {
	if m == nil {
		return
	}
	m.Collections.Set(float64(count))
}

// RecordPersistWrite records a successful snapshot write of size bytes
func (m *Metrics) RecordPersistWrite(size int) {
	if m == nil {
		return
	}
	m.PersistWrites.Inc()
	m.PersistBytes.Observe(float64(size))

	m.mu.Lock()
	m.snapshot.PersistWrites++
	m.mu.Unlock()
}

// RecordPersistError records a snapshot failure for op ("read" or "write")
func (m *Metrics) RecordPersistError(op string) {
	if m == nil {
		return
	}
	m.PersistErrors.WithLabelValues(op).Inc()
}

// RecordUpload records an upload result
func (m *Metrics) RecordUpload(result string) {
	if m == nil {
		return
	}
	m.Uploads.WithLabelValues(result).Inc()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	if m == nil {
		return
	}
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// Snapshot returns the current JSON-friendly metric values
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// UptimeDuration returns how long the collector has been running
func (m *Metrics) UptimeDuration() time.Duration {
	if m == nil {
		return 0
	}
	return time.Since(m.startTime)
}
