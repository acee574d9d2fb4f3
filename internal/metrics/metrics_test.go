package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/stoploss/sim"
)

func TestObserve(t *testing.T) {
	res, err := sim.Simulate(nil,
		[]float64{1.0, 0.8, 1.1, 1.2},
		[]float64{1, 1, 1, 1},
		sim.Config{ProtectedFraction: 0.9}, nil)
	require.NoError(t, err)

	m := New()
	m.Observe(res)
	m.Observe(res)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.runs))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.steps))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.switches.WithLabelValues("safe")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.switches.WithLabelValues("risky")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.shocks))
	assert.Equal(t, 1, testutil.CollectAndCount(m.finalNet))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	res, err := sim.Simulate(nil, []float64{1, 1.1}, []float64{1, 1}, sim.Config{ProtectedFraction: 0.9}, nil)
	require.NoError(t, err)
	m.Observe(res)

	path := filepath.Join(t.TempDir(), "stoploss.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "stoploss_runs_total 1")
	assert.Contains(t, string(data), "stoploss_final_net_value_count 1")
}
