package storage

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds the Prometheus metrics for a Store
type Metrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	decodeFailures    prometheus.Counter
	notesTotal        prometheus.Gauge
	diskBytes         prometheus.Gauge
}

// NewMetrics creates the store metrics and registers them with reg. A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		operationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notedb_store_operations_total",
				Help: "Total number of store operations",
			},
			[]string{"operation", "status"},
		),

		operationDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "notedb_store_operation_duration_seconds",
				Help:    "Store operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		decodeFailures: f.NewCounter(
			prometheus.CounterOpts{
				Name: "notedb_decode_failures_total",
				Help: "Total number of events that could not be decoded",
			},
		),

		notesTotal: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "notedb_notes_total",
				Help: "Number of notes in the store",
			},
		),

		diskBytes: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "notedb_disk_usage_bytes",
				Help: "Disk space used by the store",
			},
		),
	}
}

// RecordOperation records a store operation
func (m *Metrics) RecordOperation(operation string, success bool, duration time.Duration) {
	status := statusSuccess
	if !success {
		status = statusError
	}

	m.operationsTotal.WithLabelValues(operation, status).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *Metrics) RecordDecodeFailure() {
	m.decodeFailures.Inc()
}

// UpdateStats updates the size gauges
func (m *Metrics) UpdateStats(s Stats) {
	m.notesTotal.Set(float64(s.Notes))
	m.diskBytes.Set(float64(s.DiskUsage))
}
