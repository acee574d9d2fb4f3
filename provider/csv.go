package provider

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/stoploss/market"
)

// CSV reads dated closing prices of both legs from a file:
//
//	date,risky,safe
//
// where date is 2006-01-02 or RFC3339. A header row ("date,...") is
// allowed, short or blank rows are skipped and rows outside [From, To)
// are ignored when those bounds are set. Prices are normalized on load.
type CSV struct {
	Path string
	From time.Time
	To   time.Time
}

func NewCSV(path string, from, to time.Time) *CSV {
	return &CSV{Path: path, From: from, To: to}
}

func (c *CSV) Name() string { return "csv:" + c.Path }

func (c *CSV) Fetch(ctx context.Context) (market.Series, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return market.Series{}, err
	}
	defer f.Close()

	risky, safe, err := readCloses(ctx, f, c.From, c.To)
	if err != nil {
		return market.Series{}, fmt.Errorf("csv %s: %w", c.Path, err)
	}
	s, err := market.Join(risky, safe)
	if err != nil {
		return market.Series{}, fmt.Errorf("csv %s: %w", c.Path, err)
	}
	return s, nil
}

func readCloses(ctx context.Context, rd io.Reader, from, to time.Time) (risky, safe []market.Close, err error) {
	r := csv.NewReader(rd)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	sawFirst := false
	for line := 1; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		row, err := r.Read()
		if err == io.EOF {
			return risky, safe, nil
		}
		if err != nil {
			return nil, nil, err
		}

		// Allow a single header row
		if !sawFirst {
			sawFirst = true
			if len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "date") {
				continue
			}
		}

		d, rv, sv, ok, err := parseCloseRow(row)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}
		if !ok || !inRange(d, from, to) {
			continue
		}
		risky = append(risky, market.Close{Date: d, Value: rv})
		safe = append(safe, market.Close{Date: d, Value: sv})
	}
}

func parseCloseRow(row []string) (d time.Time, risky, safe float64, ok bool, err error) {
	if len(row) < 3 {
		return d, 0, 0, false, nil
	}
	ds := strings.TrimSpace(row[0])
	if ds == "" {
		return d, 0, 0, false, nil
	}

	d, err = parseDate(ds)
	if err != nil {
		return d, 0, 0, false, err
	}
	risky, err = strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	if err != nil {
		return d, 0, 0, false, fmt.Errorf("bad risky close %q: %w", row[1], err)
	}
	safe, err = strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil {
		return d, 0, 0, false, fmt.Errorf("bad safe close %q: %w", row[2], err)
	}
	return d, risky, safe, true, nil
}

// parseDate accepts 2006-01-02, RFC3339 or RFC3339Nano.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339Nano, s)
		if err2 != nil {
			return time.Time{}, fmt.Errorf("bad date %q: %w", s, err)
		}
		t = t2
	}
	return t, nil
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}
