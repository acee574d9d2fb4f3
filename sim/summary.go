package sim

// Summary holds the scalars reported at the end of a run.
type Summary struct {
	FinalGross float64
	FinalNet   float64
	FinalFloor float64
	GrossGain  float64
	TaxPaid    float64
	// NetSurplus is the final net value above the final floor.
	NetSurplus float64

	Switches   int
	DaysInSafe int
	Shocks     int
}

// Summary derives the end-of-horizon figures.
func (r *Result) Summary() Summary {
	last := r.Len() - 1
	if last < 0 {
		return Summary{}
	}

	s := Summary{
		FinalGross: r.Gross[last],
		FinalNet:   r.Net[last],
		FinalFloor: r.Floor[last],
		GrossGain:  r.Gross[last] - 1,
		Switches:   len(r.Switches),
		Shocks:     len(r.Shocks),
	}
	if r.Gross[last] > 1 {
		s.TaxPaid = r.Config.TaxRate * s.GrossGain
	}
	s.NetSurplus = r.Net[last] - r.Floor[last]

	for _, h := range r.Holdings {
		if h == HoldingSafe {
			s.DaysInSafe++
		}
	}
	return s
}
