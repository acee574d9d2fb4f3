package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/stoploss/market"
)

const (
	DefaultRiskySymbol = "^GSPC"
	DefaultSafeSymbol  = "VBISX"
)

var DefaultHistoricalStart = time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)

// Historical downloads daily closes of a risky and a safe instrument,
// keeps the dates both traded on and normalizes each leg by its first
// close.
type Historical struct {
	Client      *Client
	RiskySymbol string
	SafeSymbol  string
	Start       time.Time
	End         time.Time
}

func NewHistorical(c *Client, risky, safe string, start, end time.Time) *Historical {
	if risky == "" {
		risky = DefaultRiskySymbol
	}
	if safe == "" {
		safe = DefaultSafeSymbol
	}
	if start.IsZero() {
		start = DefaultHistoricalStart
	}
	return &Historical{Client: c, RiskySymbol: risky, SafeSymbol: safe, Start: start, End: end}
}

func (h *Historical) Name() string {
	return fmt.Sprintf("historical:%s/%s", h.RiskySymbol, h.SafeSymbol)
}

func (h *Historical) Fetch(ctx context.Context) (market.Series, error) {
	risky, err := h.Client.DailyCloses(ctx, h.RiskySymbol, h.Start, h.End)
	if err != nil {
		return market.Series{}, fmt.Errorf("historical risky: %w", err)
	}
	safe, err := h.Client.DailyCloses(ctx, h.SafeSymbol, h.Start, h.End)
	if err != nil {
		return market.Series{}, fmt.Errorf("historical safe: %w", err)
	}

	s, err := market.Join(risky, safe)
	if err != nil {
		return market.Series{}, fmt.Errorf("historical %s/%s: %w", h.RiskySymbol, h.SafeSymbol, err)
	}
	return s, nil
}
