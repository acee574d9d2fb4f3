package sim

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Job is one independent run of a batch. Jobs may share the same input
// slices; Simulate never writes to them.
type Job struct {
	Name   string
	Dates  []time.Time
	Risky  []float64
	Safe   []float64
	Config Config
	// Seed for the stress source. Every job gets its own source.
	Seed int64
}

// RunBatch runs jobs on at most workers goroutines and returns results
// in job order. The context is checked before each run starts; the first
// error cancels the remaining jobs.
func RunBatch(ctx context.Context, jobs []Job, workers int) ([]*Result, error) {
	if workers <= 0 {
		workers = 1
	}

	results := make([]*Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		i, job := i, job
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := Simulate(job.Dates, job.Risky, job.Safe, job.Config, NewRand(job.Seed))
			if err != nil {
				return fmt.Errorf("job %d (%s): %w", i, job.Name, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
