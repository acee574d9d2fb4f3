package cmd

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/rustyeddy/stoploss/config"
	"github.com/rustyeddy/stoploss/journal"
	"github.com/rustyeddy/stoploss/provider"
)

// simFlags are the strategy and data flags shared by run and sweep. Only
// flags set on the command line override the loaded config.
type simFlags struct {
	protected float64
	tax       float64
	cost      float64
	fee       float64
	inflation float64
	lockIn    int
	latency   int
	stress    bool
	seed      int64

	source string
	risky  string
	safe   string
	start  string
	end    string
	days   int
	csv    string

	journal    string
	db         string
	runsFile   string
	seriesFile string
}

func (f *simFlags) register(fs *pflag.FlagSet) {
	d := config.Default()

	fs.Float64VarP(&f.protected, "protected", "p", d.Strategy.ProtectedFraction, "fraction of the risky peak protected by the floor (0.5-1.0)")
	fs.Float64Var(&f.tax, "tax", d.Strategy.TaxRate, "tax rate on positive gains (0-0.5)")
	fs.Float64Var(&f.cost, "cost", d.Strategy.TransactionCost, "transaction cost per switch (0-0.01)")
	fs.Float64Var(&f.fee, "fee", d.Strategy.AnnualManagementFee, "annual management fee on the safe asset (0-0.02)")
	fs.Float64Var(&f.inflation, "inflation", d.Strategy.AnnualInflation, "annual inflation rate (0-0.10)")
	fs.IntVar(&f.lockIn, "lock-in", d.Strategy.LockInDays, "initial days during which no switch occurs (0-365)")
	fs.IntVar(&f.latency, "latency", d.Strategy.BehavioralLatencyDays, "cooldown days after each switch (0-10)")
	fs.BoolVar(&f.stress, "stress", d.Strategy.StressEnabled, "enable random adverse market shocks")
	fs.Int64Var(&f.seed, "seed", 0, "random seed for stress shocks and synthetic data (0 = derived from run ID)")

	fs.StringVarP(&f.source, "source", "s", d.Data.Source, "data source: historical, synthetic or csv")
	fs.StringVar(&f.risky, "risky", d.Data.RiskySymbol, "historical: risky asset symbol")
	fs.StringVar(&f.safe, "safe", d.Data.SafeSymbol, "historical: safe asset symbol")
	fs.StringVar(&f.start, "start", d.Data.Start, "first date (YYYY-MM-DD)")
	fs.StringVar(&f.end, "end", "", "end date, exclusive (YYYY-MM-DD)")
	fs.IntVar(&f.days, "days", d.Data.Days, "synthetic: number of business days")
	fs.StringVar(&f.csv, "csv", "", "csv: path to date,risky,safe closes")

	fs.StringVarP(&f.journal, "journal", "j", d.Journal.Type, "journal type: none, csv or sqlite")
	fs.StringVarP(&f.db, "db", "d", "./stoploss.sqlite", "sqlite: journal database path")
	fs.StringVar(&f.runsFile, "runs-file", "./runs.csv", "csv: runs file")
	fs.StringVar(&f.seriesFile, "series-file", "./series.csv", "csv: daily series file")
}

// apply copies changed flags onto c and validates the result.
func (f *simFlags) apply(fs *pflag.FlagSet, c *config.Config) error {
	set := func(name string, fn func()) {
		if fs.Changed(name) {
			fn()
		}
	}

	set("protected", func() { c.Strategy.ProtectedFraction = f.protected })
	set("tax", func() { c.Strategy.TaxRate = f.tax })
	set("cost", func() { c.Strategy.TransactionCost = f.cost })
	set("fee", func() { c.Strategy.AnnualManagementFee = f.fee })
	set("inflation", func() { c.Strategy.AnnualInflation = f.inflation })
	set("lock-in", func() { c.Strategy.LockInDays = f.lockIn })
	set("latency", func() { c.Strategy.BehavioralLatencyDays = f.latency })
	set("stress", func() { c.Strategy.StressEnabled = f.stress })
	set("seed", func() { c.Strategy.Seed = f.seed })

	set("source", func() { c.Data.Source = f.source })
	set("risky", func() { c.Data.RiskySymbol = f.risky })
	set("safe", func() { c.Data.SafeSymbol = f.safe })
	set("start", func() { c.Data.Start = f.start })
	set("end", func() { c.Data.End = f.end })
	set("days", func() { c.Data.Days = f.days })
	set("csv", func() {
		c.Data.Path = f.csv
		if !fs.Changed("source") {
			c.Data.Source = config.SourceCSV
		}
	})

	set("journal", func() { c.Journal.Type = f.journal })
	if c.Journal.Type == config.JournalSQLite && (fs.Changed("db") || c.Journal.DBPath == "") {
		c.Journal.DBPath = f.db
	}
	if c.Journal.Type == config.JournalCSV {
		if fs.Changed("runs-file") || c.Journal.RunsFile == "" {
			c.Journal.RunsFile = f.runsFile
		}
		if fs.Changed("series-file") || c.Journal.SeriesFile == "" {
			c.Journal.SeriesFile = f.seriesFile
		}
	}

	return c.Validate()
}

// newProvider builds the series provider selected by the data config.
func newProvider(c *config.Config, seed int64) (provider.SeriesProvider, error) {
	d := c.Data
	start, err := d.StartDate()
	if err != nil {
		return nil, err
	}
	end, err := d.EndDate()
	if err != nil {
		return nil, err
	}

	switch d.Source {
	case config.SourceHistorical:
		timeout, err := d.ParseTimeout()
		if err != nil {
			return nil, err
		}
		client := provider.NewClient(provider.ClientOptions{
			BaseURL:           d.BaseURL,
			Timeout:           timeout,
			RequestsPerSecond: d.RequestsPerSecond,
			Logger:            log.With().Str("component", "history").Logger(),
		})
		return provider.NewHistorical(client, d.RiskySymbol, d.SafeSymbol, start, end), nil
	case config.SourceSynthetic:
		return provider.NewSynthetic(d.Days, start, seed), nil
	case config.SourceCSV:
		return provider.NewCSV(d.Path, start, end), nil
	default:
		return nil, fmt.Errorf("unknown data source %q", d.Source)
	}
}

// fetchHint adds the offline fallback suggestion to historical fetch failures.
func fetchHint(c *config.Config, err error) error {
	if c.Data.Source == config.SourceHistorical {
		return fmt.Errorf("fetch series: %w (no network? try --source synthetic)", err)
	}
	return fmt.Errorf("fetch series: %w", err)
}

// openJournal returns nil when journaling is disabled.
func openJournal(c *config.Config) (journal.Journal, error) {
	switch c.Journal.Type {
	case "", config.JournalNone:
		return nil, nil
	case config.JournalCSV:
		return journal.NewCSV(c.Journal.RunsFile, c.Journal.SeriesFile)
	case config.JournalSQLite:
		return journal.NewSQLite(c.Journal.DBPath)
	default:
		return nil, errors.New("unknown journal type " + c.Journal.Type)
	}
}

func closeJournal(j journal.Journal) {
	if j == nil {
		return
	}
	if err := j.Close(); err != nil {
		log.Error().Err(err).Msg("close journal")
	}
}
