// Package yahoo implements the market.Provider contract over the public
// Yahoo Finance chart and quote endpoints.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"financeeye-api/pkg/market"
	"financeeye-api/pkg/retry"
)

const (
	defaultBaseURL     = "https://query1.finance.yahoo.com"
	defaultHTTPTimeout = 10 * time.Second
	// The chart endpoint rejects requests without a browser-looking agent.
	defaultUserAgent = "Mozilla/5.0"

	handleCacheTTL = 24 * time.Hour
)

// Client wraps access to the Yahoo Finance public API. Every network call
// runs through the retry handler so transient feed failures are absorbed
// before errors reach callers.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      *retry.Handler
	logger     *log.Logger
	handles    *market.TTLStore[*Ticker]
}

// Option configures a new Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL overrides the default endpoint host.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = strings.TrimSuffix(url, "/")
		}
	}
}

// WithRetry replaces the default retry handler.
func WithRetry(handler *retry.Handler) Option {
	return func(c *Client) {
		if handler != nil {
			c.retry = handler
		}
	}
}

// WithLogger injects a custom logger (defaults to log.Default()).
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient constructs a Yahoo Finance API client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		retry:      retry.New(retry.Config{}),
		logger:     log.Default(),
		handles:    market.NewTTLStore[*Ticker](handleCacheTTL),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Ticker is a cached per-symbol handle. The handle itself is cheap; caching
// it keeps one resolved entry point per symbol for repeated metadata
// lookups, mirroring the provider's session object.
type Ticker struct {
	client *Client
	symbol string
}

// Ticker returns the cached handle for symbol, creating one on first use.
func (c *Client) Ticker(symbol string) *Ticker {
	key := strings.ToUpper(strings.TrimSpace(symbol))
	if handle, ok := c.handles.Get(key); ok {
		return handle
	}
	handle := &Ticker{client: c, symbol: key}
	c.handles.Put(key, handle)
	return handle
}

// Symbol returns the normalized symbol this handle is bound to.
func (t *Ticker) Symbol() string {
	return t.symbol
}

// Quote fetches the raw metadata mapping for the handle's symbol.
func (t *Ticker) Quote(ctx context.Context) (market.CompanyInfo, error) {
	return t.client.fetchQuote(ctx, t.symbol)
}

// History fetches the daily OHLCV series for symbol, retrying transient
// failures. Bars come back ascending by date with duplicates removed.
func (c *Client) History(ctx context.Context, symbol string, q market.HistoryQuery) ([]market.Bar, error) {
	endpoint := c.chartURL(symbol, q)

	var bars []market.Bar
	err := c.retry.Do(ctx, "yahoo history "+symbol, func() error {
		payload, err := c.get(ctx, endpoint)
		if err != nil {
			return err
		}
		parsed, err := parseChart(symbol, payload)
		if err != nil {
			return err
		}
		bars = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Printf("yahoo: fetched %d bars for %s (%s)", len(bars), symbol, q.Describe())
	return bars, nil
}

func (c *Client) fetchQuote(ctx context.Context, symbol string) (market.CompanyInfo, error) {
	params := url.Values{}
	params.Set("symbols", symbol)
	endpoint := fmt.Sprintf("%s/v7/finance/quote?%s", c.baseURL, params.Encode())

	var info market.CompanyInfo
	err := c.retry.Do(ctx, "yahoo quote "+symbol, func() error {
		payload, err := c.get(ctx, endpoint)
		if err != nil {
			return err
		}
		parsed, err := parseQuote(symbol, payload)
		if err != nil {
			return err
		}
		info = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

func (c *Client) chartURL(symbol string, q market.HistoryQuery) string {
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("includePrePost", "false")
	if q.UsesRange() {
		params.Set("period1", fmt.Sprintf("%d", q.Start.Unix()))
		params.Set("period2", fmt.Sprintf("%d", q.End.Unix()))
	} else {
		params.Set("range", string(q.Period))
	}
	return fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("yahoo: build request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("yahoo: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("yahoo: http status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// parseChart flattens a chart payload into bars. Multi-symbol responses
// group columns per result entry; only the first entry is consumed, which
// collapses the grouping for the single-symbol requests this client makes.
func parseChart(symbol string, payload []byte) ([]market.Bar, error) {
	var resp chartResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("yahoo: malformed response: %w", err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo: api error %s: %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo: %w for %s", market.ErrEmptyHistory, symbol)
	}

	result := resp.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: %w for %s", market.ErrEmptyHistory, symbol)
	}

	quote := result.Indicators.Quote[0]
	if len(quote.Close) != len(result.Timestamp) {
		return nil, fmt.Errorf("yahoo: malformed response: misaligned columns for %s", symbol)
	}

	bars := make([]market.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if quote.Close[i] == nil {
			continue // null row (holiday, halted session)
		}
		bars = append(bars, market.Bar{
			Date:   time.Unix(ts, 0).UTC(),
			Open:   deref(quote.Open, i),
			High:   deref(quote.High, i),
			Low:    deref(quote.Low, i),
			Close:  *quote.Close[i],
			Volume: deref(quote.Volume, i),
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo: %w for %s", market.ErrEmptyHistory, symbol)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return dedupeByDay(bars), nil
}

func parseQuote(symbol string, payload []byte) (market.CompanyInfo, error) {
	var resp quoteResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("yahoo: malformed response: %w", err)
	}
	if resp.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("yahoo: api error %s: %s",
			resp.QuoteResponse.Error.Code, resp.QuoteResponse.Error.Description)
	}
	if len(resp.QuoteResponse.Result) == 0 {
		// Matches the transient lookup signature: the quote endpoint
		// intermittently answers with an empty result set for listed
		// symbols under load.
		return nil, fmt.Errorf("yahoo: failed to get ticker %s: empty quote result", symbol)
	}
	return market.CompanyInfo(resp.QuoteResponse.Result[0]), nil
}

func deref(values []*float64, i int) float64 {
	if i >= len(values) || values[i] == nil {
		return 0
	}
	return *values[i]
}

// dedupeByDay drops repeated calendar dates, keeping the first occurrence.
// Input must already be sorted ascending.
func dedupeByDay(bars []market.Bar) []market.Bar {
	out := bars[:0]
	lastDay := ""
	for _, bar := range bars {
		day := bar.Date.Format("2006-01-02")
		if day == lastDay {
			continue
		}
		out = append(out, bar)
		lastDay = day
	}
	return out
}
