package journal

import (
	"database/sql"
	"errors"
	"fmt"
)

const runColumns = `run_id, created, source, seed, start_date, end_date, steps,
	protected_fraction, tax_rate, transaction_cost, annual_management_fee, daily_inflation,
	lock_in_days, behavioral_latency_days, stress_enabled,
	final_gross, final_net, final_floor, gross_gain, tax_paid, net_surplus,
	switches, days_in_safe, shocks`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (RunRecord, error) {
	var r RunRecord
	err := s.Scan(
		&r.RunID, &r.Created, &r.Source, &r.Seed, &r.Start, &r.End, &r.Steps,
		&r.ProtectedFraction, &r.TaxRate, &r.TransactionCost, &r.AnnualManagementFee, &r.DailyInflation,
		&r.LockInDays, &r.BehavioralLatencyDays, &r.StressEnabled,
		&r.FinalGross, &r.FinalNet, &r.FinalFloor, &r.GrossGain, &r.TaxPaid, &r.NetSurplus,
		&r.Switches, &r.DaysInSafe, &r.Shocks,
	)
	return r, err
}

// GetRun returns a single run record by ID.
func (j *SQLite) GetRun(runID string) (RunRecord, error) {
	row := j.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)

	rec, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRecord{}, err
	}
	return rec, nil
}

// ListRuns returns the most recent runs first. A non-positive limit
// returns every run.
func (j *SQLite) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.Query(`SELECT `+runColumns+` FROM runs ORDER BY created DESC, run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPoints returns the per-day records of a run in order.
func (j *SQLite) ListPoints(runID string) ([]PointRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, idx, date, risky, safe, floor, gross, net, holding
		FROM points
		WHERE run_id = ?
		ORDER BY idx ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PointRecord
	for rows.Next() {
		var p PointRecord
		if err := rows.Scan(&p.RunID, &p.Index, &p.Date, &p.Risky, &p.Safe, &p.Floor, &p.Gross, &p.Net, &p.Holding); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
