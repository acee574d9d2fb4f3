package cmd

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/stoploss/journal"
	"github.com/rustyeddy/stoploss/pkg/id"
	"github.com/rustyeddy/stoploss/sim"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep the protected fraction over a grid",
	Long: `Run one simulation per protected fraction in [from, to] on the same
series and print one summary line per run. Runs execute in parallel; each
gets its own stress seed.

Example:
  stoploss sweep --source synthetic --seed 7 --from 0.5 --to 1.0 --step 0.05`,
	Args: cobra.NoArgs,
	RunE: runSweep,
}

var (
	sweepFlags   simFlags
	sweepFrom    float64
	sweepTo      float64
	sweepStep    float64
	sweepWorkers int
)

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepFlags.register(sweepCmd.Flags())
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0.5, "first protected fraction")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 1.0, "last protected fraction")
	sweepCmd.Flags().Float64Var(&sweepStep, "step", 0.05, "protected fraction increment")
	sweepCmd.Flags().IntVarP(&sweepWorkers, "workers", "w", runtime.NumCPU(), "parallel simulations")
}

// grid returns from, from+step, ... up to to inclusive, tolerating float drift.
func grid(from, to, step float64) ([]float64, error) {
	if step <= 0 {
		return nil, fmt.Errorf("step must be positive")
	}
	if to < from {
		return nil, fmt.Errorf("to (%g) must not be below from (%g)", to, from)
	}
	if from < 0.5 || to > 1 {
		return nil, fmt.Errorf("protected fractions must lie within 0.5 and 1")
	}
	n := int(math.Floor((to-from)/step+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Round((from+float64(i)*step)*1e9) / 1e9
	}
	return out, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	if err := sweepFlags.apply(cmd.Flags(), cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	fractions, err := grid(sweepFrom, sweepTo, sweepStep)
	if err != nil {
		return fmt.Errorf("grid: %w", err)
	}

	seed, err := runSeed(id.New(), cfg.Strategy.Seed)
	if err != nil {
		return err
	}
	p, err := newProvider(cfg, seed)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	series, err := p.Fetch(ctx)
	if err != nil {
		return fetchHint(cfg, err)
	}

	base := cfg.Strategy.SimConfig()
	jobs := make([]sim.Job, len(fractions))
	for i, pf := range fractions {
		c := base
		c.ProtectedFraction = pf
		jobs[i] = sim.Job{
			Name:   fmt.Sprintf("pf=%.3f", pf),
			Dates:  series.Dates,
			Risky:  series.Risky,
			Safe:   series.Safe,
			Config: c,
			Seed:   stressSeed(seed, i),
		}
	}

	log.Info().Str("source", p.Name()).Int("runs", len(jobs)).Int("workers", sweepWorkers).Msg("sweep starting")
	results, err := sim.RunBatch(ctx, jobs, sweepWorkers)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	j, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer closeJournal(j)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "protected\tgross\tnet\tfloor\ttax\tsurplus\tswitches\tsafe days\t")
	for i, res := range results {
		runMetrics.Observe(res)

		rec := journal.NewRunRecord(id.New(), p.Name(), seed, res)
		if j != nil {
			if err := journal.Record(j, rec, res); err != nil {
				return fmt.Errorf("record run %s: %w", jobs[i].Name, err)
			}
		}
		fmt.Fprintf(w, "%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%d\t%d\t\n",
			rec.ProtectedFraction, rec.FinalGross, rec.FinalNet, rec.FinalFloor,
			rec.TaxPaid, rec.NetSurplus, rec.Switches, rec.DaysInSafe)
	}
	return w.Flush()
}
