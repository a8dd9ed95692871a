package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the reporting service.
type Metrics struct {
	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec

	// Ingestion metrics
	RowsIngested   *prometheus.CounterVec
	RowsDropped    *prometheus.CounterVec
	ImportChunks   *prometheus.CounterVec
	ImportFailures *prometheus.CounterVec
	ImportLatency  *prometheus.HistogramVec

	// Reporting metrics
	ReportsGenerated *prometheus.CounterVec
	ReportsSent      *prometheus.CounterVec

	// Record lifecycle
	RecordsDeleted *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests by path and status",
			},
			[]string{"path", "method", "status"},
		),
		HTTPLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_latency_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"path"},
		),

		RowsIngested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_ingested_total",
				Help:      "Metric rows written by imports",
			},
			[]string{"platform", "source"}, // source: csv, daily, range
		),
		RowsDropped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_dropped_total",
				Help:      "Source rows dropped during normalization",
			},
			[]string{"platform", "reason"},
		),
		ImportChunks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "import_chunks_total",
				Help:      "Upsert chunks sent to storage",
			},
			[]string{"platform"},
		),
		ImportFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "import_failures_total",
				Help:      "Imports aborted on a failing chunk",
			},
			[]string{"platform"},
		),
		ImportLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "import_latency_seconds",
				Help:      "End-to-end import commit latency",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15},
			},
			[]string{"source"},
		),

		ReportsGenerated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reports_generated_total",
				Help:      "Report snapshots generated",
			},
			[]string{"client_id"},
		),
		ReportsSent: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reports_sent_total",
				Help:      "Report snapshots handed to the mailer",
			},
			[]string{"client_id"},
		),

		RecordsDeleted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_deleted_total",
				Help:      "Metric rows removed by filtered deletes",
			},
			[]string{"platform"},
		),

		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limit_hits_total",
				Help:      "Rate limit rejections",
			},
			[]string{"endpoint"},
		),
	}
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordImport records a committed import.
func (m *Metrics) RecordImport(platform, source string, rows, chunks int, took time.Duration) {
	m.RowsIngested.WithLabelValues(platform, source).Add(float64(rows))
	m.ImportChunks.WithLabelValues(platform).Add(float64(chunks))
	m.ImportLatency.WithLabelValues(source).Observe(took.Seconds())
}

// RecordImportFailure records an import aborted mid-batch.
func (m *Metrics) RecordImportFailure(platform string) {
	m.ImportFailures.WithLabelValues(platform).Inc()
}

// RecordHTTP records one served request.
func (m *Metrics) RecordHTTP(path, method, status string, took time.Duration) {
	m.HTTPRequests.WithLabelValues(path, method, status).Inc()
	m.HTTPLatency.WithLabelValues(path).Observe(took.Seconds())
}
