package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/stoploss/config"
	"github.com/rustyeddy/stoploss/market"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage configuration files for simulations.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  stoploss config init -o my-config.yaml
  stoploss config validate -f my-config.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Long: `Create a new configuration file with default settings.

Example:
  stoploss config init -o simulation.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Check if a configuration file is valid and can be loaded.

Example:
  stoploss config validate -f simulation.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "simulation.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := config.Default().SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Created default configuration: %s\n", configInitOutput)
	fmt.Fprintln(out, "\nEdit the file and run with:")
	fmt.Fprintf(out, "  stoploss run --config %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	c, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	s := c.Strategy
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Configuration valid: %s\n", configValidatePath)
	fmt.Fprintf(out, "  Strategy: floor %.0f%% of peak, lock-in %d days, latency %d days\n",
		s.ProtectedFraction*100, s.LockInDays, s.BehavioralLatencyDays)
	fmt.Fprintf(out, "  Costs: tax %.1f%%, switch %.2f%%, fee %.2f%%/yr, inflation %.2f%%/yr\n",
		s.TaxRate*100, s.TransactionCost*100, s.AnnualManagementFee*100, s.AnnualInflation*100)
	switch c.Data.Source {
	case config.SourceHistorical:
		fmt.Fprintf(out, "  Data: %s vs %s from %s\n",
			market.Describe(c.Data.RiskySymbol), market.Describe(c.Data.SafeSymbol), c.Data.Start)
	case config.SourceSynthetic:
		fmt.Fprintf(out, "  Data: synthetic, %d days\n", c.Data.Days)
	case config.SourceCSV:
		fmt.Fprintf(out, "  Data: %s\n", c.Data.Path)
	}
	fmt.Fprintf(out, "  Journal: %s\n", c.Journal.Type)
	return nil
}
