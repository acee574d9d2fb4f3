package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/stoploss/sim"
)

// Data sources
const (
	SourceHistorical = "historical"
	SourceSynthetic  = "synthetic"
	SourceCSV        = "csv"
)

// Journal types
const (
	JournalNone   = "none"
	JournalCSV    = "csv"
	JournalSQLite = "sqlite"
)

// Config represents the complete run configuration
type Config struct {
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// StrategyConfig contains the stop-loss parameters. Rates are fractions.
type StrategyConfig struct {
	ProtectedFraction     float64 `json:"protected_fraction" yaml:"protected_fraction"`
	TaxRate               float64 `json:"tax_rate" yaml:"tax_rate"`
	TransactionCost       float64 `json:"transaction_cost" yaml:"transaction_cost"`
	AnnualManagementFee   float64 `json:"annual_management_fee" yaml:"annual_management_fee"`
	AnnualInflation       float64 `json:"annual_inflation" yaml:"annual_inflation"`
	LockInDays            int     `json:"lock_in_days" yaml:"lock_in_days"`
	BehavioralLatencyDays int     `json:"behavioral_latency_days" yaml:"behavioral_latency_days"`
	StressEnabled         bool    `json:"stress_enabled" yaml:"stress_enabled"`
	Seed                  int64   `json:"seed,omitempty" yaml:"seed,omitempty"` // 0 = derived from the run id
}

// DataConfig selects and parameterizes the series provider
type DataConfig struct {
	Source string `json:"source" yaml:"source"` // "historical", "synthetic" or "csv"

	RiskySymbol       string  `json:"risky_symbol,omitempty" yaml:"risky_symbol,omitempty"`
	SafeSymbol        string  `json:"safe_symbol,omitempty" yaml:"safe_symbol,omitempty"`
	Start             string  `json:"start,omitempty" yaml:"start,omitempty"` // e.g. "2019-01-01"
	End               string  `json:"end,omitempty" yaml:"end,omitempty"`
	BaseURL           string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Timeout           string  `json:"timeout,omitempty" yaml:"timeout,omitempty"` // e.g. "30s"
	RequestsPerSecond float64 `json:"requests_per_second,omitempty" yaml:"requests_per_second,omitempty"`

	Days int `json:"days,omitempty" yaml:"days,omitempty"`

	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	RunsFile   string `json:"runs_file,omitempty" yaml:"runs_file,omitempty"`
	SeriesFile string `json:"series_file,omitempty" yaml:"series_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LogConfig contains logging parameters
type LogConfig struct {
	Level   string `json:"level" yaml:"level"` // debug|info|warn|error
	Console bool   `json:"console" yaml:"console"`
}

// StartDate parses Start; an empty value yields the zero time.
func (d DataConfig) StartDate() (time.Time, error) { return parseDate(d.Start) }

// EndDate parses End; an empty value yields the zero time.
func (d DataConfig) EndDate() (time.Time, error) { return parseDate(d.End) }

// ParseTimeout converts the timeout string to time.Duration
func (d DataConfig) ParseTimeout() (time.Duration, error) {
	if d.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(d.Timeout)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, s)
}

// SimConfig converts the user-facing parameters into the simulator's.
func (s StrategyConfig) SimConfig() sim.Config {
	return sim.Config{
		ProtectedFraction:     s.ProtectedFraction,
		TaxRate:               s.TaxRate,
		TransactionCost:       s.TransactionCost,
		AnnualManagementFee:   s.AnnualManagementFee,
		DailyInflation:        sim.DailyRate(s.AnnualInflation),
		LockInDays:            s.LockInDays,
		BehavioralLatencyDays: s.BehavioralLatencyDays,
		StressEnabled:         s.StressEnabled,
	}
}

// ZerologLevel maps Level onto zerolog, defaulting to info.
func (l LogConfig) ZerologLevel() (zerolog.Level, error) {
	if l.Level == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(strings.ToLower(l.Level))
}

// LoadFromFile loads configuration from a file (JSON or YAML based on extension)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks the accepted configuration bounds.
func (c *Config) Validate() error {
	s := c.Strategy
	if s.ProtectedFraction < 0.5 || s.ProtectedFraction > 1 {
		return fmt.Errorf("strategy.protected_fraction must be between 0.5 and 1")
	}
	if s.TaxRate < 0 || s.TaxRate > 0.5 {
		return fmt.Errorf("strategy.tax_rate must be between 0 and 0.5")
	}
	if s.TransactionCost < 0 || s.TransactionCost > 0.01 {
		return fmt.Errorf("strategy.transaction_cost must be between 0 and 0.01")
	}
	if s.AnnualManagementFee < 0 || s.AnnualManagementFee > 0.02 {
		return fmt.Errorf("strategy.annual_management_fee must be between 0 and 0.02")
	}
	if s.AnnualInflation < 0 || s.AnnualInflation > 0.10 {
		return fmt.Errorf("strategy.annual_inflation must be between 0 and 0.10")
	}
	if s.LockInDays < 0 || s.LockInDays > 365 {
		return fmt.Errorf("strategy.lock_in_days must be between 0 and 365")
	}
	if s.BehavioralLatencyDays < 0 || s.BehavioralLatencyDays > 10 {
		return fmt.Errorf("strategy.behavioral_latency_days must be between 0 and 10")
	}

	d := c.Data
	switch d.Source {
	case SourceHistorical:
		if d.RiskySymbol == "" || d.SafeSymbol == "" {
			return fmt.Errorf("data.risky_symbol and data.safe_symbol required for historical source")
		}
		if d.RequestsPerSecond < 0 {
			return fmt.Errorf("data.requests_per_second must not be negative")
		}
		if _, err := d.ParseTimeout(); err != nil {
			return fmt.Errorf("data.timeout: %w", err)
		}
	case SourceSynthetic:
		if d.Days < 2 {
			return fmt.Errorf("data.days must be at least 2")
		}
	case SourceCSV:
		if d.Path == "" {
			return fmt.Errorf("data.path required for csv source")
		}
	default:
		return fmt.Errorf("data.source must be 'historical', 'synthetic' or 'csv'")
	}
	start, err := d.StartDate()
	if err != nil {
		return fmt.Errorf("data.start: %w", err)
	}
	end, err := d.EndDate()
	if err != nil {
		return fmt.Errorf("data.end: %w", err)
	}
	if !start.IsZero() && !end.IsZero() && !end.After(start) {
		return fmt.Errorf("data.end must be after data.start")
	}

	j := c.Journal
	switch j.Type {
	case "", JournalNone:
	case JournalCSV:
		if j.RunsFile == "" || j.SeriesFile == "" {
			return fmt.Errorf("journal runs_file and series_file required for CSV type")
		}
	case JournalSQLite:
		if j.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	if _, err := c.Log.ZerologLevel(); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Strategy: StrategyConfig{
			ProtectedFraction:     0.90,
			TaxRate:               0.30,
			TransactionCost:       0.002,
			AnnualManagementFee:   0.005,
			AnnualInflation:       0.02,
			LockInDays:            30,
			BehavioralLatencyDays: 1,
			StressEnabled:         false,
		},
		Data: DataConfig{
			Source:            SourceHistorical,
			RiskySymbol:       "^GSPC",
			SafeSymbol:        "VBISX",
			Start:             "2019-01-01",
			Timeout:           "30s",
			RequestsPerSecond: 2,
			Days:              1000,
		},
		Journal: JournalConfig{
			Type: JournalNone,
		},
		Log: LogConfig{
			Level:   "info",
			Console: true,
		},
	}
}
