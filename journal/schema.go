// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	source TEXT NOT NULL,
	seed INTEGER NOT NULL,
	start_date DATETIME NOT NULL,
	end_date DATETIME NOT NULL,
	steps INTEGER NOT NULL,
	protected_fraction REAL NOT NULL,
	tax_rate REAL NOT NULL,
	transaction_cost REAL NOT NULL,
	annual_management_fee REAL NOT NULL,
	daily_inflation REAL NOT NULL,
	lock_in_days INTEGER NOT NULL,
	behavioral_latency_days INTEGER NOT NULL,
	stress_enabled BOOLEAN NOT NULL,
	final_gross REAL NOT NULL,
	final_net REAL NOT NULL,
	final_floor REAL NOT NULL,
	gross_gain REAL NOT NULL,
	tax_paid REAL NOT NULL,
	net_surplus REAL NOT NULL,
	switches INTEGER NOT NULL,
	days_in_safe INTEGER NOT NULL,
	shocks INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS points (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	idx INTEGER NOT NULL,
	date DATETIME NOT NULL,
	risky REAL NOT NULL,
	safe REAL NOT NULL,
	floor REAL NOT NULL,
	gross REAL NOT NULL,
	net REAL NOT NULL,
	holding TEXT NOT NULL,
	PRIMARY KEY (run_id, idx)
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created);
`
