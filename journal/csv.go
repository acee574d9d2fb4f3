package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

var (
	runsHeader = []string{
		"run_id", "created", "source", "seed", "start", "end", "steps",
		"protected_fraction", "tax_rate", "transaction_cost", "annual_management_fee", "daily_inflation",
		"lock_in_days", "behavioral_latency_days", "stress_enabled",
		"final_gross", "final_net", "final_floor", "gross_gain", "tax_paid", "net_surplus",
		"switches", "days_in_safe", "shocks",
	}
	seriesHeader = []string{"run_id", "index", "date", "risky", "safe", "floor", "gross", "net", "holding"}
)

// CSV writes runs and their daily series to two files.
type CSV struct {
	runs   *csv.Writer
	series *csv.Writer
	rf, sf *os.File
}

func NewCSV(runsPath, seriesPath string) (*CSV, error) {
	rf, err := os.Create(runsPath)
	if err != nil {
		return nil, err
	}
	sf, err := os.Create(seriesPath)
	if err != nil {
		rf.Close()
		return nil, err
	}

	j := &CSV{runs: csv.NewWriter(rf), series: csv.NewWriter(sf), rf: rf, sf: sf}
	if err := j.write(j.runs, runsHeader); err != nil {
		j.Close()
		return nil, err
	}
	if err := j.write(j.series, seriesHeader); err != nil {
		j.Close()
		return nil, err
	}
	return j, nil
}

func (j *CSV) RecordRun(r RunRecord) error {
	return j.write(j.runs, []string{
		r.RunID,
		r.Created.Format(time.RFC3339),
		r.Source,
		strconv.FormatInt(r.Seed, 10),
		date(r.Start),
		date(r.End),
		strconv.Itoa(r.Steps),
		f(r.ProtectedFraction),
		f(r.TaxRate),
		f(r.TransactionCost),
		f(r.AnnualManagementFee),
		f(r.DailyInflation),
		strconv.Itoa(r.LockInDays),
		strconv.Itoa(r.BehavioralLatencyDays),
		strconv.FormatBool(r.StressEnabled),
		f(r.FinalGross),
		f(r.FinalNet),
		f(r.FinalFloor),
		f(r.GrossGain),
		f(r.TaxPaid),
		f(r.NetSurplus),
		strconv.Itoa(r.Switches),
		strconv.Itoa(r.DaysInSafe),
		strconv.Itoa(r.Shocks),
	})
}

func (j *CSV) RecordPoints(points []PointRecord) error {
	for _, p := range points {
		err := j.series.Write([]string{
			p.RunID,
			strconv.Itoa(p.Index),
			date(p.Date),
			f(p.Risky),
			f(p.Safe),
			f(p.Floor),
			f(p.Gross),
			f(p.Net),
			p.Holding,
		})
		if err != nil {
			return err
		}
	}
	j.series.Flush()
	return j.series.Error()
}

func (j *CSV) Close() error {
	j.runs.Flush()
	if err := j.runs.Error(); err != nil {
		return err
	}
	j.series.Flush()
	if err := j.series.Error(); err != nil {
		return err
	}

	if err := j.rf.Close(); err != nil {
		return err
	}
	if err := j.sf.Close(); err != nil {
		return err
	}
	return nil
}

func (j *CSV) write(w *csv.Writer, row []string) error {
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

func date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
