package sim

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBatchPreservesOrder(t *testing.T) {
	risky := randomWalk(9, 250, 0.02)
	safe := randomWalk(10, 250, 0.002)

	var jobs []Job
	for i, pf := range []float64{0.5, 0.6, 0.7, 0.8, 0.9, 1.0} {
		jobs = append(jobs, Job{
			Name:   fmt.Sprintf("pf=%.1f", pf),
			Risky:  risky,
			Safe:   safe,
			Config: Config{ProtectedFraction: pf, StressEnabled: true},
			Seed:   int64(i + 1),
		})
	}

	results, err := RunBatch(context.Background(), jobs, 3)
	require.NoError(t, err)
	require.Len(t, results, len(jobs))

	for i, res := range results {
		require.NotNil(t, res)
		assert.Equal(t, jobs[i].Config.ProtectedFraction, res.Config.ProtectedFraction)

		want, err := Simulate(nil, risky, safe, jobs[i].Config, NewRand(jobs[i].Seed))
		require.NoError(t, err)
		assert.Equal(t, want.Gross, res.Gross, "job %s", jobs[i].Name)
	}
}

func TestRunBatchError(t *testing.T) {
	jobs := []Job{
		{Name: "ok", Risky: flat(3), Safe: flat(3), Config: Config{ProtectedFraction: 0.9}, Seed: 1},
		{Name: "bad", Risky: flat(3), Safe: flat(2), Config: Config{ProtectedFraction: 0.9}, Seed: 2},
	}

	_, err := RunBatch(context.Background(), jobs, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrData))
	assert.Contains(t, err.Error(), "bad")
}

func TestRunBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := []Job{{Name: "a", Risky: flat(3), Safe: flat(3), Seed: 1}}
	_, err := RunBatch(ctx, jobs, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
