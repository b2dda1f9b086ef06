package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "commission"

// Metrics holds the Prometheus collectors for the report service.
type Metrics struct {
	decompositions         *prometheus.CounterVec
	reconciliationFailures prometheus.Counter
	reportDuration         *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		decompositions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decompositions_total",
			Help:      "Gross payments decomposed, by currency.",
		}, []string{"currency"}),
		reconciliationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciliation_failures_total",
			Help:      "Breakdowns that failed the accounting identity check.",
		}),
		reportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_generation_duration_seconds",
			Help:      "Time to build a report, by kind.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}

	reg.MustRegister(m.decompositions, m.reconciliationFailures, m.reportDuration)
	return m
}

func (m *Metrics) Decomposed(currency string) {
	m.decompositions.WithLabelValues(currency).Inc()
}

func (m *Metrics) ReconciliationFailed() {
	m.reconciliationFailures.Inc()
}

// ObserveReport records the time since start for a report of the given kind.
// Meant to be deferred: defer m.ObserveReport("receipt", time.Now()).
func (m *Metrics) ObserveReport(kind string, start time.Time) {
	m.reportDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
