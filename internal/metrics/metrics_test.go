package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func labelled(f *dto.MetricFamily, name, value string) *dto.Metric {
	for _, m := range f.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == name && l.GetValue() == value {
				return m
			}
		}
	}
	return nil
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	m := New(reg)

	m.Transition(OpRecord)
	m.Transition(OpRecord)
	m.Transition(OpUndo)
	m.Failure(OpRedo)
	m.Recorded(3)
	m.Depth(4, 1)

	families := gather(t, reg)

	transitions := families["rewind_history_transitions_total"]
	require.NotNil(t, transitions)
	assert.Equal(t, 2.0, labelled(transitions, "op", OpRecord).GetCounter().GetValue())
	assert.Equal(t, 1.0, labelled(transitions, "op", OpUndo).GetCounter().GetValue())

	failures := families["rewind_history_failures_total"]
	require.NotNil(t, failures)
	assert.Equal(t, 1.0, labelled(failures, "op", OpRedo).GetCounter().GetValue())

	sizes := families["rewind_history_batch_changes"]
	require.NotNil(t, sizes)
	h := sizes.GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(1), h.GetSampleCount())
	assert.Equal(t, 3.0, h.GetSampleSum())

	depth := families["rewind_history_depth"]
	require.NotNil(t, depth)
	assert.Equal(t, 4.0, labelled(depth, "queue", "prev").GetGauge().GetValue())
	assert.Equal(t, 1.0, labelled(depth, "queue", "next").GetGauge().GetValue())
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Transition(OpJump)
		m.Failure(OpJump)
		m.Recorded(1)
		m.Depth(0, 0)
	})
}

func TestNew_Unregistered(t *testing.T) {
	m := New(nil)
	assert.NotPanics(t, func() { m.Transition(OpClear) })
}
