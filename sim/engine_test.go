package sim

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqRand replays a fixed sequence of uniform draws.
type seqRand struct {
	vals []float64
	i    int
}

func (r *seqRand) Float64() float64 {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

func flat(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

// randomWalk returns a strictly positive cumulative return path starting at 1.
func randomWalk(seed int64, n int, sigma float64) []float64 {
	r := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	out[0] = 1
	for i := 1; i < n; i++ {
		out[i] = out[i-1] * (1 + 0.0004 + sigma*r.NormFloat64())
	}
	return out
}

func mustSimulate(t *testing.T, risky, safe []float64, cfg Config) *Result {
	t.Helper()
	res, err := Simulate(nil, risky, safe, cfg, nil)
	require.NoError(t, err)
	return res
}

func TestSimulateSwitchesToSafeBelowFloor(t *testing.T) {
	res := mustSimulate(t, []float64{1.0, 0.80}, []float64{1.0, 1.0}, Config{ProtectedFraction: 0.9})

	assert.InDeltaSlice(t, []float64{0.9, 0.9}, res.Floor, 1e-12)
	assert.Equal(t, []float64{1.0, 1.0}, res.Gross)
	assert.Equal(t, []float64{1.0, 1.0}, res.Net)
	assert.Equal(t, []Holding{HoldingRisky, HoldingSafe}, res.Holdings)
	assert.Equal(t, []Switch{{Index: 1, From: HoldingRisky, To: HoldingSafe}}, res.Switches)
}

func TestSimulateTransactionCostOnSwitchDay(t *testing.T) {
	res := mustSimulate(t, []float64{1.0, 0.80}, []float64{1.0, 1.0}, Config{
		ProtectedFraction: 0.9,
		TransactionCost:   0.01,
	})
	assert.InDelta(t, 0.99, res.Gross[1], 1e-12)
	assert.InDelta(t, 0.99, res.Net[1], 1e-12)
}

func TestSimulateFloor(t *testing.T) {
	risky := randomWalk(7, 500, 0.02)
	safe := randomWalk(8, 500, 0.002)
	cfg := Config{ProtectedFraction: 0.85, LockInDays: 5, BehavioralLatencyDays: 2, TransactionCost: 0.002}

	res := mustSimulate(t, risky, safe, cfg)

	peak := risky[0]
	for i := range risky {
		peak = math.Max(peak, risky[i])
		assert.Equal(t, cfg.ProtectedFraction*peak, res.Floor[i], "floor formula at %d", i)
		if i > 0 {
			assert.GreaterOrEqual(t, res.Floor[i], res.Floor[i-1], "floor decreased at %d", i)
		}
	}
}

func TestSimulateLockInCoveringHorizonNeverSwitches(t *testing.T) {
	risky := randomWalk(11, 300, 0.03)
	safe := flat(300)

	res := mustSimulate(t, risky, safe, Config{ProtectedFraction: 1.0, LockInDays: 300})

	assert.Empty(t, res.Switches)
	for i := range risky {
		assert.Equal(t, HoldingRisky, res.Holdings[i])
		assert.InDelta(t, risky[i], res.Gross[i], 1e-9, "gross at %d", i)
	}
}

func TestSimulateLockIn(t *testing.T) {
	res := mustSimulate(t, []float64{1, 0.8, 0.8, 0.8}, flat(4), Config{ProtectedFraction: 0.9, LockInDays: 2})

	assert.Equal(t, []Switch{{Index: 2, From: HoldingRisky, To: HoldingSafe}}, res.Switches)
	// Held risky through the drop on day 1.
	assert.InDelta(t, 0.8, res.Gross[1], 1e-12)
	assert.InDelta(t, 0.8, res.Gross[3], 1e-12)
}

func TestSimulateTaxNeverExceedsGain(t *testing.T) {
	risky := randomWalk(3, 400, 0.015)
	safe := randomWalk(4, 400, 0.001)

	res := mustSimulate(t, risky, safe, Config{ProtectedFraction: 0.9, TaxRate: 0.3, TransactionCost: 0.002})

	for i := range res.Gross {
		assert.LessOrEqual(t, res.Net[i], res.Gross[i])
		if res.Gross[i] <= 1 {
			assert.Equal(t, res.Gross[i], res.Net[i])
		}
	}
}

func TestSimulateTaxOnGain(t *testing.T) {
	res := mustSimulate(t, []float64{1.0, 1.2}, []float64{1.0, 1.0}, Config{ProtectedFraction: 0.5, TaxRate: 0.3})

	assert.InDelta(t, 1.2, res.Gross[1], 1e-12)
	assert.InDelta(t, 1.14, res.Net[1], 1e-12)
}

func TestSimulateCooldown(t *testing.T) {
	risky := []float64{1.0, 0.8, 1.0, 0.8, 1.0, 1.0}
	res := mustSimulate(t, risky, flat(len(risky)), Config{ProtectedFraction: 0.9, BehavioralLatencyDays: 2})

	// Day 2 would re-enter (1.0 > 0.9) but is still cooling down.
	assert.Equal(t, []Switch{
		{Index: 1, From: HoldingRisky, To: HoldingSafe},
		{Index: 4, From: HoldingSafe, To: HoldingRisky},
	}, res.Switches)
}

func TestSimulateCooldownHoldsOnRandomPaths(t *testing.T) {
	for _, latency := range []int{0, 1, 3, 10} {
		risky := randomWalk(int64(20+latency), 800, 0.025)
		res := mustSimulate(t, risky, flat(len(risky)), Config{ProtectedFraction: 0.95, BehavioralLatencyDays: latency})

		for i := 1; i < len(res.Switches); i++ {
			gap := res.Switches[i].Index - res.Switches[i-1].Index
			assert.Greater(t, gap, latency, "latency %d: switches at %d and %d",
				latency, res.Switches[i-1].Index, res.Switches[i].Index)
		}
	}
}

func TestSimulateStickyAtFloor(t *testing.T) {
	t.Run("risky stays risky", func(t *testing.T) {
		res := mustSimulate(t, []float64{1.0, 0.9}, flat(2), Config{ProtectedFraction: 0.9})
		assert.Empty(t, res.Switches)
		assert.Equal(t, HoldingRisky, res.Holdings[1])
	})

	t.Run("safe stays safe", func(t *testing.T) {
		res := mustSimulate(t, []float64{1.0, 0.8, 0.9}, flat(3), Config{ProtectedFraction: 0.9})
		assert.Len(t, res.Switches, 1)
		assert.Equal(t, HoldingSafe, res.Holdings[2])
	})
}

func TestSimulateFeeAndInflation(t *testing.T) {
	cfg := Config{
		ProtectedFraction:   0.9,
		AnnualManagementFee: 0.0252,
		DailyInflation:      0.001,
	}
	res := mustSimulate(t, []float64{1.0, 0.8, 0.8}, []float64{1.0, 1.0, 1.0}, cfg)

	day := (1 - 0.0001) * (1 - 0.001)
	assert.InDelta(t, day, res.Gross[1], 1e-12)
	assert.InDelta(t, day*day, res.Gross[2], 1e-12)
}

func TestSimulateInflationWhileRisky(t *testing.T) {
	cfg := Config{ProtectedFraction: 0.5, AnnualManagementFee: 0.02, DailyInflation: 0.01}
	res := mustSimulate(t, []float64{1.0, 1.1}, []float64{1.0, 1.0}, cfg)

	// No management fee while holding risky.
	assert.InDelta(t, 1.1*0.99, res.Gross[1], 1e-12)
}

func TestSimulateGuardsZeroPreviousValue(t *testing.T) {
	res := mustSimulate(t, []float64{1, 0, 1}, flat(3), Config{ProtectedFraction: 0.9, LockInDays: 10})

	for i, v := range res.Gross {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "gross[%d] = %v", i, v)
	}
	assert.Equal(t, 0.0, res.Gross[2])
}

func TestSimulateStressShock(t *testing.T) {
	rng := &seqRand{vals: []float64{0.005, 0.5, 0.5}}
	res, err := Simulate(nil, flat(3), flat(3), Config{ProtectedFraction: 0.9, StressEnabled: true}, rng)
	require.NoError(t, err)

	assert.InDelta(t, 0.935, res.Gross[1], 1e-12)
	assert.InDelta(t, 0.935, res.Gross[2], 1e-12)
	assert.Equal(t, []int{1}, res.Shocks)
}

func TestSimulateStressIgnoredWhenDisabled(t *testing.T) {
	rng := &seqRand{vals: []float64{0}}
	res, err := Simulate(nil, flat(5), flat(5), Config{ProtectedFraction: 0.9}, rng)
	require.NoError(t, err)

	assert.Empty(t, res.Shocks)
	assert.Equal(t, 0, rng.i)
}

func TestSimulateDeterministicReplay(t *testing.T) {
	risky := randomWalk(1, 1000, 0.01)
	safe := randomWalk(2, 1000, 0.002)
	cfg := Config{ProtectedFraction: 0.9, StressEnabled: true, TaxRate: 0.3}

	a, err := Simulate(nil, risky, safe, cfg, NewRand(42))
	require.NoError(t, err)
	b, err := Simulate(nil, risky, safe, cfg, NewRand(42))
	require.NoError(t, err)

	assert.Equal(t, a.Gross, b.Gross)
	assert.Equal(t, a.Shocks, b.Shocks)
}

func TestSimulateDoesNotModifyInputs(t *testing.T) {
	risky := randomWalk(5, 100, 0.02)
	safe := randomWalk(6, 100, 0.002)
	r0 := append([]float64(nil), risky...)
	s0 := append([]float64(nil), safe...)

	_ = mustSimulate(t, risky, safe, Config{ProtectedFraction: 0.9, TransactionCost: 0.01})

	assert.Equal(t, r0, risky)
	assert.Equal(t, s0, safe)
}

func TestSimulateInputErrors(t *testing.T) {
	day := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		dates  []time.Time
		risky  []float64
		safe   []float64
		target error
	}{
		{"empty", nil, nil, nil, ErrData},
		{"length mismatch", nil, []float64{1, 1}, []float64{1}, ErrData},
		{"dates mismatch", []time.Time{day}, []float64{1, 1}, []float64{1, 1}, ErrData},
		{"zero risky start", nil, []float64{0, 1}, []float64{1, 1}, ErrDomain},
		{"negative safe start", nil, []float64{1, 1}, []float64{-1, 1}, ErrDomain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Simulate(tt.dates, tt.risky, tt.safe, Config{ProtectedFraction: 0.9}, nil)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestDomainErrorFields(t *testing.T) {
	_, err := Simulate(nil, []float64{1, 1}, []float64{0, 1}, Config{}, nil)

	var de *DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "safe", de.Series)
	assert.Equal(t, 0, de.Index)
	assert.Contains(t, err.Error(), "safe[0]")
}

func TestSimulateSingleStep(t *testing.T) {
	res := mustSimulate(t, []float64{1}, []float64{1}, Config{ProtectedFraction: 0.8})

	assert.Equal(t, []float64{0.8}, res.Floor)
	assert.Equal(t, []float64{1}, res.Gross)
	assert.Equal(t, []float64{1}, res.Net)
}
