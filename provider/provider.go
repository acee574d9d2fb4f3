// Package provider supplies the aligned risky/safe return series that feed
// the simulator.
package provider

import (
	"context"

	"github.com/rustyeddy/stoploss/market"
)

// SeriesProvider yields a validated, normalized series pair. Fetch either
// returns a series satisfying market.Series.Validate or an error.
type SeriesProvider interface {
	Fetch(ctx context.Context) (market.Series, error)
	// Name identifies the data source in journals and reports.
	Name() string
}
