package sim

import (
	"fmt"
	"time"
)

// Result holds the aligned output series of a run. Risky and Safe are the
// input return series passed through for reference.
type Result struct {
	Config Config

	Dates []time.Time
	Risky []float64
	Safe  []float64

	Floor []float64
	Gross []float64
	Net   []float64

	// Holdings[t] is the asset held over step t (after any switch at t).
	Holdings []Holding
	Switches []Switch
	// Shocks lists the steps hit by a stress shock.
	Shocks []int
}

// Len returns the number of steps in the run.
func (r *Result) Len() int { return len(r.Gross) }

// Simulate runs the stop-loss recurrence over the risky and safe return
// series. Dates may be nil; when given they must be aligned with the
// series. rng is only consulted when cfg.StressEnabled is set; a nil rng
// is then replaced by a time-seeded source.
func Simulate(dates []time.Time, risky, safe []float64, cfg Config, rng Rand) (*Result, error) {
	if err := checkInputs(dates, risky, safe); err != nil {
		return nil, err
	}
	if cfg.StressEnabled && rng == nil {
		rng = NewRand(0)
	}

	n := len(risky)
	res := &Result{
		Config:   cfg,
		Dates:    dates,
		Risky:    risky,
		Safe:     safe,
		Floor:    make([]float64, n),
		Gross:    make([]float64, n),
		Net:      make([]float64, n),
		Holdings: make([]Holding, n),
	}

	st := state{peak: risky[0], holding: HoldingRisky}
	res.Floor[0] = cfg.ProtectedFraction * st.peak
	res.Gross[0] = 1
	res.Net[0] = 1
	res.Holdings[0] = st.holding

	fee := cfg.dailyFee()

	for t := 1; t < n; t++ {
		if risky[t] > st.peak {
			st.peak = risky[t]
		}
		floor := cfg.ProtectedFraction * st.peak
		res.Floor[t] = floor

		allowed := st.switchAllowed(t, cfg.LockInDays)

		next, switched := Transition(st.holding, allowed, risky[t], floor)

		var g float64
		if next == HoldingRisky {
			g = risky[t] / guard(risky[t-1])
		} else {
			g = safe[t] / guard(safe[t-1])
		}
		if switched {
			g *= 1 - cfg.TransactionCost
			st.cooldown = cfg.BehavioralLatencyDays
			res.Switches = append(res.Switches, Switch{Index: t, From: st.holding, To: next})
		}
		st.holding = next
		res.Holdings[t] = next

		if next == HoldingSafe {
			g *= 1 - fee
		}

		g *= 1 - cfg.DailyInflation

		if cfg.StressEnabled {
			if f, hit := Shock(rng); hit {
				g *= f
				res.Shocks = append(res.Shocks, t)
			}
		}

		gross := res.Gross[t-1] * g
		res.Gross[t] = gross
		res.Net[t] = afterTax(gross, cfg.TaxRate)
	}

	return res, nil
}

// afterTax deducts tax on the gain over the initial capital of 1.
func afterTax(gross, rate float64) float64 {
	gain := gross - 1
	if gain > 0 {
		return gross - rate*gain
	}
	return gross
}

// guard keeps the previous-day division total: a zero denominator is read as 1.
func guard(prev float64) float64 {
	if prev == 0 {
		return 1
	}
	return prev
}

func checkInputs(dates []time.Time, risky, safe []float64) error {
	if len(risky) == 0 || len(safe) == 0 {
		return &DataError{Reason: "return series must not be empty"}
	}
	if len(risky) != len(safe) {
		return &DataError{Reason: fmt.Sprintf("risky has %d values, safe has %d", len(risky), len(safe))}
	}
	if dates != nil && len(dates) != len(risky) {
		return &DataError{Reason: fmt.Sprintf("%d dates for %d return values", len(dates), len(risky))}
	}
	if risky[0] <= 0 {
		return &DomainError{Series: "risky", Index: 0, Value: risky[0]}
	}
	if safe[0] <= 0 {
		return &DomainError{Series: "safe", Index: 0, Value: safe[0]}
	}
	return nil
}
