package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/stoploss/journal"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Query journaled runs",
	Long: `Query runs recorded in a SQLite journal.

Subcommands:
  list - List recent runs
  show - Show one run, optionally as an Org-mode entry

Examples:
  stoploss runs list -n 20
  stoploss runs show <run-id> --org`,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a run summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var (
	runsDBPath string
	runsLimit  int
	runsOrg    bool
	runsSeries bool
)

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)

	runsCmd.PersistentFlags().StringVarP(&runsDBPath, "db", "d", "./stoploss.sqlite", "path to SQLite journal DB")
	runsListCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "maximum runs to list (0 = all)")
	runsShowCmd.Flags().BoolVar(&runsOrg, "org", false, "print as an Org-mode entry")
	runsShowCmd.Flags().BoolVar(&runsSeries, "series", false, "also print the daily series")
}

func runRunsList(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(runsDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runs, err := j.ListRuns(runsLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tCREATED\tSOURCE\tPROTECTED\tNET\tSURPLUS\tSWITCHES")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.3f\t%.3f\t%d\n",
			r.RunID, r.Created.Format(time.DateTime), r.Source,
			r.ProtectedFraction, r.FinalNet, r.NetSurplus, r.Switches)
	}
	return w.Flush()
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(runsDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	rec, err := j.GetRun(args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}

	out := cmd.OutOrStdout()
	if runsOrg {
		s, err := journal.FormatRunOrg(rec)
		if err != nil {
			return fmt.Errorf("format run: %w", err)
		}
		fmt.Fprint(out, s)
	} else {
		journal.PrintRun(out, rec)
	}

	if !runsSeries {
		return nil
	}
	points, err := j.ListPoints(rec.RunID)
	if err != nil {
		return fmt.Errorf("list points: %w", err)
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tRISKY\tSAFE\tFLOOR\tGROSS\tNET\tHOLDING")
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%s\n",
			p.Date.Format(time.DateOnly), p.Risky, p.Safe, p.Floor, p.Gross, p.Net, p.Holding)
	}
	return w.Flush()
}
