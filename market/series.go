package market

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrEmptySeries    = errors.New("series is empty")
	ErrLengthMismatch = errors.New("series lengths differ")
	ErrNonPositive    = errors.New("series value must be positive")
)

// Close is one daily closing price.
type Close struct {
	Date  time.Time
	Value float64
}

// Series holds two cumulative return series aligned on the same dates.
// Values are normalized so that index 0 is 1.0.
type Series struct {
	Dates []time.Time
	Risky []float64
	Safe  []float64
}

func (s Series) Len() int { return len(s.Risky) }

// Validate checks the provider contract: non-empty, equal length, aligned
// dates and strictly positive values.
func (s Series) Validate() error {
	if len(s.Risky) == 0 || len(s.Safe) == 0 {
		return ErrEmptySeries
	}
	if len(s.Risky) != len(s.Safe) {
		return fmt.Errorf("%w: risky=%d safe=%d", ErrLengthMismatch, len(s.Risky), len(s.Safe))
	}
	if len(s.Dates) != len(s.Risky) {
		return fmt.Errorf("%w: dates=%d values=%d", ErrLengthMismatch, len(s.Dates), len(s.Risky))
	}
	for i := range s.Risky {
		if s.Risky[i] <= 0 {
			return fmt.Errorf("%w: risky[%d]=%g", ErrNonPositive, i, s.Risky[i])
		}
		if s.Safe[i] <= 0 {
			return fmt.Errorf("%w: safe[%d]=%g", ErrNonPositive, i, s.Safe[i])
		}
	}
	return nil
}

// Start and End return the first and last dates, or zero times.
func (s Series) Start() time.Time {
	if len(s.Dates) == 0 {
		return time.Time{}
	}
	return s.Dates[0]
}

func (s Series) End() time.Time {
	if len(s.Dates) == 0 {
		return time.Time{}
	}
	return s.Dates[len(s.Dates)-1]
}

// Normalize divides every price by the first one.
func Normalize(prices []float64) ([]float64, error) {
	if len(prices) == 0 {
		return nil, ErrEmptySeries
	}
	if prices[0] <= 0 {
		return nil, fmt.Errorf("%w: first price %g", ErrNonPositive, prices[0])
	}
	out := make([]float64, len(prices))
	for i, p := range prices {
		out[i] = p / prices[0]
	}
	return out, nil
}

// Day truncates t to its UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Join inner-joins two close lists on calendar date and normalizes both
// legs. Duplicate dates keep the last close seen.
func Join(risky, safe []Close) (Series, error) {
	safeByDay := make(map[time.Time]float64, len(safe))
	for _, c := range safe {
		safeByDay[Day(c.Date)] = c.Value
	}
	riskyByDay := make(map[time.Time]float64, len(risky))
	for _, c := range risky {
		riskyByDay[Day(c.Date)] = c.Value
	}

	var dates []time.Time
	for d := range riskyByDay {
		if _, ok := safeByDay[d]; ok {
			dates = append(dates, d)
		}
	}
	if len(dates) == 0 {
		return Series{}, fmt.Errorf("join: %w: no common dates", ErrEmptySeries)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	rp := make([]float64, len(dates))
	sp := make([]float64, len(dates))
	for i, d := range dates {
		rp[i] = riskyByDay[d]
		sp[i] = safeByDay[d]
	}

	r, err := Normalize(rp)
	if err != nil {
		return Series{}, fmt.Errorf("join risky: %w", err)
	}
	s, err := Normalize(sp)
	if err != nil {
		return Series{}, fmt.Errorf("join safe: %w", err)
	}

	out := Series{Dates: dates, Risky: r, Safe: s}
	if err := out.Validate(); err != nil {
		return Series{}, fmt.Errorf("join: %w", err)
	}
	return out, nil
}
