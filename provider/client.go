package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/rustyeddy/stoploss/market"
)

// DefaultBaseURL serves the chart endpoint of the public quote API.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

const userAgent = "stoploss/1.0 (+https://github.com/rustyeddy/stoploss)"

// ClientOptions configures a Client. Zero values pick defaults.
type ClientOptions struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Logger            zerolog.Logger
}

// Client fetches daily closes over HTTP. Requests are paced by a token
// bucket and guarded by a circuit breaker so that a failing upstream is
// not hammered during a sweep.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	log        zerolog.Logger
}

func NewClient(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 2
	}

	c := &Client{
		baseURL:    opts.BaseURL,
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		log:        opts.Logger,
	}

	st := gobreaker.Settings{Name: "history"}
	st.Interval = 60 * time.Second
	st.Timeout = 30 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= 3
	}
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		c.log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
	}
	c.breaker = gobreaker.NewCircuitBreaker(st)

	return c
}

// chartResponse mirrors the subset of the chart API payload we read.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol   string `json:"symbol"`
		Currency string `json:"currency"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// DailyCloses returns the daily closes of symbol over [start, end). A zero
// end means now. Adjusted closes are preferred when the API returns them;
// days without a close are skipped.
func (c *Client) DailyCloses(ctx context.Context, symbol string, start, end time.Time) ([]market.Close, error) {
	if symbol == "" {
		return nil, errors.New("symbol is required")
	}
	if end.IsZero() {
		end = time.Now()
	}

	q := url.Values{}
	q.Set("period1", strconv.FormatInt(start.Unix(), 10))
	q.Set("period2", strconv.FormatInt(end.Unix(), 10))
	q.Set("interval", "1d")
	q.Set("events", "history")
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), q.Encode())

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.get(ctx, u)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	resp := out.(*chartResponse)

	closes, err := resp.closes()
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	c.log.Debug().Str("symbol", symbol).Int("closes", len(closes)).Msg("daily closes fetched")
	return closes, nil
}

func (c *Client) get(ctx context.Context, u string) (*chartResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	c.log.Debug().Str("method", req.Method).Str("host", req.URL.Host).Str("path", req.URL.Path).Int("status", resp.StatusCode).Msg("http")

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http GET %s: %s: %s", req.URL.Path, resp.Status, truncate(string(body), 200))
	}

	var cr chartResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("decode chart response: %w", err)
	}
	return &cr, nil
}

func (cr *chartResponse) closes() ([]market.Close, error) {
	if e := cr.Chart.Error; e != nil {
		return nil, fmt.Errorf("api error %s: %s", e.Code, e.Description)
	}
	if len(cr.Chart.Result) == 0 {
		return nil, errors.New("empty chart result")
	}
	res := cr.Chart.Result[0]

	var values []*float64
	switch {
	case len(res.Indicators.AdjClose) > 0 && len(res.Indicators.AdjClose[0].AdjClose) == len(res.Timestamp):
		values = res.Indicators.AdjClose[0].AdjClose
	case len(res.Indicators.Quote) > 0 && len(res.Indicators.Quote[0].Close) == len(res.Timestamp):
		values = res.Indicators.Quote[0].Close
	default:
		return nil, fmt.Errorf("chart has %d timestamps but no matching close series", len(res.Timestamp))
	}

	out := make([]market.Close, 0, len(values))
	for i, v := range values {
		if v == nil || *v <= 0 {
			continue
		}
		out = append(out, market.Close{
			Date:  time.Unix(res.Timestamp[i], 0).UTC(),
			Value: *v,
		})
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
