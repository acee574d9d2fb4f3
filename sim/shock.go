package sim

import (
	"math/rand"
	"time"
)

const (
	// ShockProbability is the per-step chance of a stress shock.
	ShockProbability = 0.01
	// ShockMin and ShockMax bound the multiplicative hit of a shock.
	ShockMin = 0.90
	ShockMax = 0.97
)

// Rand is the random source used for stress shocks. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// NewRand returns a seeded source. A zero seed is replaced by the current
// time so that unseeded runs still differ.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Shock draws one uniform value and, with probability ShockProbability,
// a second uniform in [ShockMin, ShockMax] that is returned as the factor.
// Otherwise the factor is 1.
func Shock(r Rand) (factor float64, hit bool) {
	if r.Float64() >= ShockProbability {
		return 1, false
	}
	return ShockMin + (ShockMax-ShockMin)*r.Float64(), true
}
