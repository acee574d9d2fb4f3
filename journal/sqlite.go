package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, source, seed, start_date, end_date, steps,
		 protected_fraction, tax_rate, transaction_cost, annual_management_fee, daily_inflation,
		 lock_in_days, behavioral_latency_days, stress_enabled,
		 final_gross, final_net, final_floor, gross_gain, tax_paid, net_surplus,
		 switches, days_in_safe, shocks)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Source, r.Seed, r.Start, r.End, r.Steps,
		r.ProtectedFraction, r.TaxRate, r.TransactionCost, r.AnnualManagementFee, r.DailyInflation,
		r.LockInDays, r.BehavioralLatencyDays, r.StressEnabled,
		r.FinalGross, r.FinalNet, r.FinalFloor, r.GrossGain, r.TaxPaid, r.NetSurplus,
		r.Switches, r.DaysInSafe, r.Shocks,
	)
	return err
}

// RecordPoints inserts all points in a single transaction.
func (j *SQLite) RecordPoints(points []PointRecord) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO points
		(run_id, idx, date, risky, safe, floor, gross, net, holding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.Exec(p.RunID, p.Index, p.Date, p.Risky, p.Safe, p.Floor, p.Gross, p.Net, p.Holding); err != nil {
			tx.Rollback()
			return fmt.Errorf("point %d: %w", p.Index, err)
		}
	}
	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
