package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/stoploss/config"
	"github.com/rustyeddy/stoploss/internal/metrics"
)

var rootCmd = &cobra.Command{
	Use:   "stoploss",
	Short: "Dynamic stop-loss strategy simulator",
	Long: `Stoploss simulates a strategy that switches daily between a risky and a
safe asset around a trailing floor set at a fraction of the risky asset's peak.

It provides tools for:
  - Running a simulation on historical, synthetic or CSV price data
  - Sweeping the protected fraction over a grid
  - Journaling runs to CSV or SQLite and reporting them
  - Transaction costs, management fees, inflation, stress shocks and tax`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if metricsOut == "" {
			return nil
		}
		if err := runMetrics.WriteTextfile(metricsOut); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		log.Debug().Str("path", metricsOut).Msg("metrics written")
		return nil
	},
}

var (
	cfgFile    string
	logLevel   string
	metricsOut string

	// cfg is loaded by setup before any command runs.
	cfg        *config.Config
	runMetrics *metrics.Metrics
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON); defaults are used when empty")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&metricsOut, "metrics-out", "", "write Prometheus metrics to this textfile after the command")
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = config.Default()
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	lvl, err := cfg.Log.ZerologLevel()
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Log.Console {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen})
	} else {
		log.Logger = zerolog.New(cmd.ErrOrStderr()).With().Timestamp().Logger()
	}

	runMetrics = metrics.New()
	return nil
}
