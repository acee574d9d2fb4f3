// journal/journal.go
package journal

import (
	"time"

	"github.com/rustyeddy/stoploss/sim"
)

// RunRecord is the parameters and end-of-horizon figures of one simulation.
type RunRecord struct {
	RunID   string
	Created time.Time
	Source  string
	Seed    int64

	Start time.Time
	End   time.Time
	Steps int

	// Parameters
	ProtectedFraction     float64
	TaxRate               float64
	TransactionCost       float64
	AnnualManagementFee   float64
	DailyInflation        float64
	LockInDays            int
	BehavioralLatencyDays int
	StressEnabled         bool

	// Results
	FinalGross float64
	FinalNet   float64
	FinalFloor float64
	GrossGain  float64
	TaxPaid    float64
	NetSurplus float64
	Switches   int
	DaysInSafe int
	Shocks     int
}

// PointRecord is one day of a run.
type PointRecord struct {
	RunID   string
	Index   int
	Date    time.Time
	Risky   float64
	Safe    float64
	Floor   float64
	Gross   float64
	Net     float64
	Holding string
}

type Journal interface {
	RecordRun(RunRecord) error
	RecordPoints([]PointRecord) error
	Close() error
}

// NewRunRecord builds the record of a finished run.
func NewRunRecord(runID, source string, seed int64, res *sim.Result) RunRecord {
	cfg := res.Config
	sum := res.Summary()

	rec := RunRecord{
		RunID:   runID,
		Created: time.Now().UTC(),
		Source:  source,
		Seed:    seed,
		Steps:   res.Len(),

		ProtectedFraction:     cfg.ProtectedFraction,
		TaxRate:               cfg.TaxRate,
		TransactionCost:       cfg.TransactionCost,
		AnnualManagementFee:   cfg.AnnualManagementFee,
		DailyInflation:        cfg.DailyInflation,
		LockInDays:            cfg.LockInDays,
		BehavioralLatencyDays: cfg.BehavioralLatencyDays,
		StressEnabled:         cfg.StressEnabled,

		FinalGross: sum.FinalGross,
		FinalNet:   sum.FinalNet,
		FinalFloor: sum.FinalFloor,
		GrossGain:  sum.GrossGain,
		TaxPaid:    sum.TaxPaid,
		NetSurplus: sum.NetSurplus,
		Switches:   sum.Switches,
		DaysInSafe: sum.DaysInSafe,
		Shocks:     sum.Shocks,
	}
	if n := len(res.Dates); n > 0 {
		rec.Start = res.Dates[0]
		rec.End = res.Dates[n-1]
	}
	return rec
}

// SimConfig returns the simulator parameters the run was made with.
func (r RunRecord) SimConfig() sim.Config {
	return sim.Config{
		ProtectedFraction:     r.ProtectedFraction,
		TaxRate:               r.TaxRate,
		TransactionCost:       r.TransactionCost,
		AnnualManagementFee:   r.AnnualManagementFee,
		DailyInflation:        r.DailyInflation,
		LockInDays:            r.LockInDays,
		BehavioralLatencyDays: r.BehavioralLatencyDays,
		StressEnabled:         r.StressEnabled,
	}
}

// Points flattens the output series of a run into per-day records.
func Points(runID string, res *sim.Result) []PointRecord {
	out := make([]PointRecord, res.Len())
	for i := range out {
		p := PointRecord{
			RunID:   runID,
			Index:   i,
			Risky:   res.Risky[i],
			Safe:    res.Safe[i],
			Floor:   res.Floor[i],
			Gross:   res.Gross[i],
			Net:     res.Net[i],
			Holding: res.Holdings[i].String(),
		}
		if res.Dates != nil {
			p.Date = res.Dates[i]
		}
		out[i] = p
	}
	return out
}

// Record writes the run and its points to j.
func Record(j Journal, rec RunRecord, res *sim.Result) error {
	if err := j.RecordRun(rec); err != nil {
		return err
	}
	return j.RecordPoints(Points(rec.RunID, res))
}
