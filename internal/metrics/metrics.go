// Package metrics exposes history activity as Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rewind"

// Operation labels.
const (
	OpRecord = "record"
	OpUndo   = "undo"
	OpRedo   = "redo"
	OpJump   = "jump"
	OpClear  = "clear"
	OpSkip   = "skip"
)

// Metrics holds the collectors of one history-tracked store.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	transitions *prometheus.CounterVec
	failures    *prometheus.CounterVec
	batchSize   prometheus.Histogram
	depth       *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg.
// A nil registerer leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "transitions_total",
			Help:      "History transitions by operation.",
		}, []string{"op"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "failures_total",
			Help:      "Transitions that left the state unchanged because of an error.",
		}, []string{"op"}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "batch_changes",
			Help:      "Number of change records per recorded batch.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 200, 500},
		}),
		depth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "depth",
			Help:      "Number of batches available to undo (prev) and redo (next).",
		}, []string{"queue"}),
	}

	if reg != nil {
		reg.MustRegister(m.transitions, m.failures, m.batchSize, m.depth)
	}
	return m
}

// Transition counts a transition of kind op.
func (m *Metrics) Transition(op string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(op).Inc()
}

// Failure counts a transition of kind op that failed.
func (m *Metrics) Failure(op string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(op).Inc()
}

// Recorded observes the size of a newly recorded batch.
func (m *Metrics) Recorded(changes int) {
	if m == nil {
		return
	}
	m.batchSize.Observe(float64(changes))
}

// Depth sets the current queue lengths.
func (m *Metrics) Depth(prev, next int) {
	if m == nil {
		return
	}
	m.depth.WithLabelValues("prev").Set(float64(prev))
	m.depth.WithLabelValues("next").Set(float64(next))
}
