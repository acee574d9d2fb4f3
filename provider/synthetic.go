package provider

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rustyeddy/stoploss/market"
)

// Walk parameterizes a Gaussian daily return.
type Walk struct {
	Mean   float64
	StdDev float64
}

var (
	DefaultRiskyWalk = Walk{Mean: 0.0004, StdDev: 0.01}
	DefaultSafeWalk  = Walk{Mean: 0.0001, StdDev: 0.002}

	DefaultSyntheticStart = time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
)

const DefaultSyntheticDays = 1000

// Synthetic generates random-walk cumulative returns on business days.
type Synthetic struct {
	Days  int
	Start time.Time
	// Seed for the generator; zero means time-seeded.
	Seed int64

	RiskyWalk Walk
	SafeWalk  Walk
}

// NewSynthetic returns a generator using the default walks.
func NewSynthetic(days int, start time.Time, seed int64) *Synthetic {
	if days <= 0 {
		days = DefaultSyntheticDays
	}
	if start.IsZero() {
		start = DefaultSyntheticStart
	}
	return &Synthetic{
		Days:      days,
		Start:     start,
		Seed:      seed,
		RiskyWalk: DefaultRiskyWalk,
		SafeWalk:  DefaultSafeWalk,
	}
}

func (s *Synthetic) Name() string {
	return fmt.Sprintf("synthetic:%d", s.Seed)
}

// Fetch draws both legs from one seeded source, risky then safe per day.
// Both series start at exactly 1.0.
func (s *Synthetic) Fetch(ctx context.Context) (market.Series, error) {
	if err := ctx.Err(); err != nil {
		return market.Series{}, err
	}
	if s.Days <= 0 {
		return market.Series{}, fmt.Errorf("synthetic: days must be positive, got %d", s.Days)
	}

	seed := s.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))

	out := market.Series{
		Dates: BusinessDays(s.Start, s.Days),
		Risky: make([]float64, s.Days),
		Safe:  make([]float64, s.Days),
	}
	out.Risky[0], out.Safe[0] = 1, 1
	for i := 1; i < s.Days; i++ {
		out.Risky[i] = out.Risky[i-1] * (1 + s.RiskyWalk.Mean + s.RiskyWalk.StdDev*r.NormFloat64())
		out.Safe[i] = out.Safe[i-1] * (1 + s.SafeWalk.Mean + s.SafeWalk.StdDev*r.NormFloat64())
	}

	if err := out.Validate(); err != nil {
		return market.Series{}, fmt.Errorf("synthetic: %w", err)
	}
	return out, nil
}

// BusinessDays returns n consecutive weekdays starting at start (or the
// next weekday after it).
func BusinessDays(start time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	d := market.Day(start)
	for len(out) < n {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			out = append(out, d)
		}
		d = d.AddDate(0, 0, 1)
	}
	return out
}
