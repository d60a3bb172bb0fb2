package observability

import (
	"time"

	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes used as the "outcome" label.
const (
	OutcomeDAG         = "dag"
	OutcomeCyclic      = "cyclic"
	OutcomeRejected    = "rejected"
	OutcomeUnreachable = "unreachable"
	OutcomeBusy        = "busy"
)

// Metrics groups the collectors exported by flowboard.
type Metrics struct {
	GraphEvents    *prometheus.CounterVec
	Submissions    *prometheus.CounterVec
	SubmitDuration prometheus.Histogram
	ActiveSessions prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		GraphEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flowboard",
				Name:      "graph_events_total",
				Help:      "Graph store mutations by event type.",
			},
			[]string{"type"},
		),
		Submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flowboard",
				Name:      "submissions_total",
				Help:      "Pipeline submissions by outcome.",
			},
			[]string{"outcome"},
		),
		SubmitDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "flowboard",
				Name:      "submit_duration_seconds",
				Help:      "Round-trip time of pipeline submissions.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		ActiveSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "flowboard",
				Name:      "active_sessions",
				Help:      "Editing sessions currently held in memory.",
			},
		),
	}
	reg.MustRegister(m.GraphEvents, m.Submissions, m.SubmitDuration, m.ActiveSessions)
	return m
}

// ObserveEvent counts a graph store event. It has the shape of a store listener.
func (m *Metrics) ObserveEvent(ev domain.Event) {
	if m == nil {
		return
	}
	m.GraphEvents.WithLabelValues(string(ev.Type)).Inc()
}

// ObserveSubmission records the outcome of one submission attempt.
// Busy submissions never reach the network and have no duration.
func (m *Metrics) ObserveSubmission(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(outcome).Inc()
	if outcome != OutcomeBusy {
		m.SubmitDuration.Observe(d.Seconds())
	}
}

// SessionOpened increments the active session gauge.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.ActiveSessions.Inc()
}

// SessionClosed decrements the active session gauge.
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.ActiveSessions.Dec()
}
