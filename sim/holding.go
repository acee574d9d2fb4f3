package sim

// Holding is the asset the portfolio is fully invested in on a given day.
type Holding int

const (
	HoldingRisky Holding = iota
	HoldingSafe
)

func (h Holding) String() string {
	switch h {
	case HoldingRisky:
		return "risky"
	case HoldingSafe:
		return "safe"
	default:
		return "unknown"
	}
}

// Transition decides the holding for a step given whether switching is
// allowed and where the risky return sits relative to the floor.
//
// Both guards are strict: a risky return exactly equal to the floor keeps
// the current holding.
func Transition(h Holding, allowed bool, risky, floor float64) (next Holding, switched bool) {
	if !allowed {
		return h, false
	}
	switch h {
	case HoldingRisky:
		if risky < floor {
			return HoldingSafe, true
		}
	case HoldingSafe:
		if risky > floor {
			return HoldingRisky, true
		}
	}
	return h, false
}

// Switch records a change of holding at step Index.
type Switch struct {
	Index int
	From  Holding
	To    Holding
}

// state is the mutable part of the recurrence. A fresh state is created
// per run and never shared.
type state struct {
	peak     float64
	holding  Holding
	cooldown int
}

// switchAllowed reports whether step t may switch. Lock-in is checked
// first and does not consume cooldown.
func (s *state) switchAllowed(t, lockIn int) bool {
	if t < lockIn {
		return false
	}
	if s.cooldown > 0 {
		s.cooldown--
		return false
	}
	return true
}
