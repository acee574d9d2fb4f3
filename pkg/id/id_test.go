package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsSortable(t *testing.T) {
	prev := New()
	for i := 0; i < 100; i++ {
		next := New()
		assert.Less(t, prev, next)
		prev = next
	}
	assert.Len(t, prev, 26)
}

func TestSeed(t *testing.T) {
	runID := New()

	a, err := Seed(runID)
	require.NoError(t, err)
	b, err := Seed(runID)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Positive(t, a)

	_, err = Seed("not-a-ulid")
	assert.Error(t, err)
}

func TestTime(t *testing.T) {
	before := time.Now().Add(-time.Second)
	ts, err := Time(New())
	require.NoError(t, err)

	assert.True(t, ts.After(before))
	assert.WithinDuration(t, time.Now(), ts, 5*time.Second)
}
