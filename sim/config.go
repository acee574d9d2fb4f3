package sim

// TradingDaysPerYear converts annual rates into per-step rates.
const TradingDaysPerYear = 252

// Config holds the parameters of a single stop-loss simulation.
// Rates are fractions (0.01 = 1%), not percentages.
type Config struct {
	// ProtectedFraction of the running peak risky return that sets the floor.
	ProtectedFraction float64

	// TaxRate applied to positive gross gain against the initial capital.
	TaxRate float64

	// TransactionCost is charged on the growth factor of a switch day only.
	TransactionCost float64

	// AnnualManagementFee is charged daily (divided by TradingDaysPerYear)
	// while the safe asset is held.
	AnnualManagementFee float64

	// DailyInflation is charged every step regardless of holdings.
	DailyInflation float64

	// LockInDays is the number of initial steps during which no switch may occur.
	LockInDays int

	// BehavioralLatencyDays is the cooldown imposed after every switch.
	BehavioralLatencyDays int

	// StressEnabled turns on random adverse shocks (see Shock).
	StressEnabled bool
}

// DailyRate converts an annual rate into the per-step rate used by the
// simulator.
func DailyRate(annual float64) float64 {
	return annual / TradingDaysPerYear
}

func (c Config) dailyFee() float64 {
	return c.AnnualManagementFee / TradingDaysPerYear
}
