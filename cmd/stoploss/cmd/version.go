package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the stoploss CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "stoploss version %s\n", version)
		fmt.Fprintln(cmd.OutOrStdout(), "Dynamic stop-loss strategy simulator")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
