package persistence

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names.
const (
	MetricUpdatesTotal        = "autoenv_persist_updates_total"
	MetricSkippedUpdatesTotal = "autoenv_persist_skipped_updates_total"
	MetricWritesTotal         = "autoenv_persist_writes_total"
)

// Write outcomes used as the "status" label of WritesTotal.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics holds the Prometheus counters of every Writer sharing it. Each
// series is labelled with the persistence file path.
type Metrics struct {
	UpdatesTotal        *prometheus.CounterVec
	SkippedUpdatesTotal *prometheus.CounterVec
	WritesTotal         *prometheus.CounterVec
}

// NewMetrics creates the persistence counters and registers them with
// registry when it is not nil.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		UpdatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricUpdatesTotal,
				Help: "Total number of updates that changed persisted data",
			},
			[]string{"file"},
		),
		SkippedUpdatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricSkippedUpdatesTotal,
				Help: "Total number of updates skipped because the value was unchanged",
			},
			[]string{"file"},
		),
		WritesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricWritesTotal,
				Help: "Total number of persistence file writes",
			},
			[]string{"file", "status"},
		),
	}

	if registry != nil {
		registry.MustRegister(
			m.UpdatesTotal,
			m.SkippedUpdatesTotal,
			m.WritesTotal,
		)
	}

	return m
}

func (m *Metrics) recordUpdate(file string, changed bool) {
	if m == nil {
		return
	}
	if changed {
		m.UpdatesTotal.WithLabelValues(file).Inc()
		return
	}
	m.SkippedUpdatesTotal.WithLabelValues(file).Inc()
}

func (m *Metrics) recordWrite(file string, err error) {
	if m == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}
	m.WritesTotal.WithLabelValues(file, status).Inc()
}
