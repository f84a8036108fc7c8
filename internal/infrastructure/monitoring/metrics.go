package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Workspace operation metrics
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	OperationErrors   *prometheus.CounterVec

	// Index metrics
	IndexRecords prometheus.Gauge
	IndexBytes   prometheus.Gauge

	// Recycle bin metrics
	RecycleItems       prometheus.Gauge
	RecycleBytes       prometheus.Gauge
	RecycleOrphans     prometheus.Gauge
	RecycleOrphanBytes prometheus.Gauge
	ManifestWrites     *prometheus.CounterVec

	startTime time.Time

	// Snapshot for JSON API
	snapshot MetricsSnapshot
	mu       sync.RWMutex
}

// MetricsSnapshot holds current metric values for the JSON API
type MetricsSnapshot struct {
	TotalRequests   int64   `json:"total_requests"`
	TotalErrors     int64   `json:"total_errors"`
	TotalOperations int64   `json:"total_operations"`
	FailedOps       int64   `json:"failed_operations"`
	IndexRecords    int64   `json:"index_records"`
	RecycleItems    int64   `json:"recycle_items"`
	RecycleBytes    int64   `json:"recycle_bytes"`
	TotalDuration   float64 `json:"total_duration_seconds"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
}

// NewMetrics creates a metrics collector on its own registry, so that
// several collectors can coexist in one process.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fms_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fms_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fms_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fms_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		// Workspace operation metrics
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fms_operations_total",
				Help: "Total number of workspace operations",
			},
			[]string{"operation", "status"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fms_operation_duration_seconds",
				Help:    "Workspace operation duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"operation"},
		),
		OperationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fms_operation_errors_total",
				Help: "Total number of failed workspace operations by error kind",
			},
			[]string{"operation", "kind"},
		),

		// Index metrics
		IndexRecords: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "fms_index_records",
				Help: "Number of records in the file index",
			},
		),
		IndexBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "fms_index_bytes",
				Help: "Total cached content size of indexed files",
			},
		),

		// Recycle bin metrics
		RecycleItems: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "fms_recycle_items",
				Help: "Number of items staged in the recycle bin",
			},
		),
		RecycleBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "fms_recycle_bytes",
				Help: "Bytes staged in the recycle bin",
			},
		),
		RecycleOrphans: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "fms_recycle_orphans",
				Help: "Untracked backups awaiting reclamation",
			},
		),
		RecycleOrphanBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "fms_recycle_orphan_bytes",
				Help: "Bytes held by untracked backups",
			},
		),
		ManifestWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fms_manifest_writes_total",
				Help: "Total number of manifest writes",
			},
			[]string{"status"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "fms_uptime_seconds",
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
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordOperation records a workspace operation. kind is empty on success.
func (m *Metrics) RecordOperation(operation, kind string, duration time.Duration) {
	status := "success"
	if kind != "" {
		status = "error"
		m.OperationErrors.WithLabelValues(operation, kind).Inc()
	}
	m.Operations.WithLabelValues(operation, status).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalOperations++
	if kind != "" {
		m.snapshot.FailedOps++
	}
	m.mu.Unlock()
}

// RecordManifestWrite records a manifest write outcome
func (m *Metrics) RecordManifestWrite(err error) {
	if err != nil {
		m.ManifestWrites.WithLabelValues("error").Inc()
		return
	}
	m.ManifestWrites.WithLabelValues("success").Inc()
}

// SetIndex sets the index gauges
func (m *Metrics) SetIndex(records int, bytes int64) {
	m.IndexRecords.Set(float64(records))
	m.IndexBytes.Set(float64(bytes))

	m.mu.Lock()
	m.snapshot.IndexRecords = int64(records)
	m.mu.Unlock()
}

// SetRecycle sets the recycle bin gauges
func (m *Metrics) SetRecycle(items int, bytes int64, orphans int, orphanBytes int64) {
	m.RecycleItems.Set(float64(items))
	m.RecycleBytes.Set(float64(bytes))
	m.RecycleOrphans.Set(float64(orphans))
	m.RecycleOrphanBytes.Set(float64(orphanBytes))

	m.mu.Lock()
	m.snapshot.RecycleItems = int64(items)
	m.snapshot.RecycleBytes = bytes
	m.mu.Unlock()
}

// Snapshot returns the current values for the JSON API
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.snapshot
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
