package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the portal.
type Metrics struct {
	ClientsCreated  prometheus.Counter
	ClientsDeleted  prometheus.Counter
	ProgressFlushes prometheus.Counter
	FlushDuration   prometheus.Histogram
	Exports         *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ClientsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "portal_clients_created_total",
			Help: "Total number of merchant records created",
		}),
		ClientsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "portal_clients_deleted_total",
			Help: "Total number of merchant records deleted (certifications finalized)",
		}),
		ProgressFlushes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "portal_progress_flushes_total",
			Help: "Total number of progress flushes to persistent storage",
		}),
		FlushDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "portal_progress_flush_duration_seconds",
			Help:    "Latency of progress flushes",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		Exports: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_exports_total",
			Help: "Export attempts by kind and outcome",
		}, []string{"kind", "status"}),
	}
}

// The increment helpers tolerate a nil receiver so unit tests can skip
// registry wiring entirely.

func (m *Metrics) IncClientsCreated() {
	if m != nil {
		m.ClientsCreated.Inc()
	}
}

func (m *Metrics) IncClientsDeleted() {
	if m != nil {
		m.ClientsDeleted.Inc()
	}
}

func (m *Metrics) ObserveFlush(seconds float64) {
	if m != nil {
		m.ProgressFlushes.Inc()
		m.FlushDuration.Observe(seconds)
	}
}

func (m *Metrics) IncExport(kind, status string) {
	if m != nil {
		m.Exports.WithLabelValues(kind, status).Inc()
	}
}
