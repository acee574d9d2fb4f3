package provider

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticDeterministic(t *testing.T) {
	ctx := context.Background()

	a, err := NewSynthetic(1000, time.Time{}, 42).Fetch(ctx)
	require.NoError(t, err)
	b, err := NewSynthetic(1000, time.Time{}, 42).Fetch(ctx)
	require.NoError(t, err)
	c, err := NewSynthetic(1000, time.Time{}, 43).Fetch(ctx)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a.Risky, c.Risky)
}

func TestSyntheticShape(t *testing.T) {
	s, err := NewSynthetic(0, time.Time{}, 7).Fetch(context.Background())
	require.NoError(t, err)

	require.Equal(t, DefaultSyntheticDays, s.Len())
	require.NoError(t, s.Validate())
	assert.Equal(t, 1.0, s.Risky[0])
	assert.Equal(t, 1.0, s.Safe[0])
	assert.Equal(t, DefaultSyntheticStart, s.Dates[0])
	for _, d := range s.Dates {
		assert.NotEqual(t, time.Saturday, d.Weekday())
		assert.NotEqual(t, time.Sunday, d.Weekday())
	}
	assert.Equal(t, "synthetic:7", NewSynthetic(0, time.Time{}, 7).Name())
}

func TestSyntheticRejectsNonPositiveDays(t *testing.T) {
	s := &Synthetic{Days: 0, RiskyWalk: DefaultRiskyWalk, SafeWalk: DefaultSafeWalk}
	_, err := s.Fetch(context.Background())
	assert.Error(t, err)
}

func TestBusinessDays(t *testing.T) {
	// 2019-01-04 is a Friday.
	days := BusinessDays(time.Date(2019, 1, 4, 15, 0, 0, 0, time.UTC), 3)
	assert.Equal(t, []time.Time{
		time.Date(2019, 1, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2019, 1, 7, 0, 0, 0, 0, time.UTC),
		time.Date(2019, 1, 8, 0, 0, 0, 0, time.UTC),
	}, days)

	// Starting on a Saturday moves to Monday.
	days = BusinessDays(time.Date(2019, 1, 5, 0, 0, 0, 0, time.UTC), 1)
	assert.Equal(t, time.Monday, days[0].Weekday())
}
