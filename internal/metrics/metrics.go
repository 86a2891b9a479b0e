// Package metrics defines the Prometheus collectors exported by the engine.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "tipsplit"

// Label values.
const (
	ModeEven     = "even"
	ModeItemized = "itemized"

	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics groups every collector. A nil *Metrics is not valid; use New(nil)
// for collectors that are never registered.
type Metrics struct {
	Recomputations         *prometheus.CounterVec
	HistoryRecords         *prometheus.CounterVec
	Mismatches             prometheus.Counter
	PersistFailures        *prometheus.CounterVec
	Aggregations           prometheus.Counter
	AggregatedParticipants prometheus.Gauge
	Exports                *prometheus.CounterVec
}

// New creates the collectors and registers them with reg when reg is non-nil.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Recomputations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recomputations_total",
			Help:      "Derived-total recomputations, by calculator mode.",
		}, []string{"mode"}),
		HistoryRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_records_total",
			Help:      "History record attempts, by outcome.",
		}, []string{"outcome"}),
		Mismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "itemized_mismatches_total",
			Help:      "Itemized recomputations whose subtotal missed the expected total.",
		}),
		PersistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_failures_total",
			Help:      "Failed writes to the store, by key kind.",
		}, []string{"kind"}),
		Aggregations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_aggregations_total",
			Help:      "Shared-session aggregation runs.",
		}),
		AggregatedParticipants: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_participants",
			Help:      "Participants found by the most recent aggregation.",
		}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_exports_total",
			Help:      "Snapshot image exports, by result.",
		}, []string{"result"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Recomputations,
			m.HistoryRecords,
			m.Mismatches,
			m.PersistFailures,
			m.Aggregations,
			m.AggregatedParticipants,
			m.Exports,
		)
	}
	return m
}
