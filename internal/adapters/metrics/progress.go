package metrics

import "github.com/prometheus/client_golang/prometheus"

// ProgressMetrics holds Prometheus metrics for progress updates.
type ProgressMetrics struct {
	BatchesTotal *prometheus.CounterVec
	ItemsTotal   *prometheus.CounterVec
	Duration     prometheus.Histogram
}

// NewProgressMetrics creates and registers progress metrics on the given registry.
func NewProgressMetrics(reg prometheus.Registerer) *ProgressMetrics {
	m := &ProgressMetrics{
		BatchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "progress",
			Name:      "batches_total",
			Help:      "Total number of progress batches, by team and result.",
		}, []string{"team", "result"}),
		ItemsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "progress",
			Name:      "items_total",
			Help:      "Total number of per-item progress updates, by outcome.",
		}, []string{"outcome"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "progress",
			Name:      "batch_duration_seconds",
			Help:      "Duration of progress batches in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}),
	}

	reg.MustRegister(m.BatchesTotal, m.ItemsTotal, m.Duration)
	return m
}
