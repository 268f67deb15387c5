// Package piquette implements the market.Provider contract on top of the
// piquette/finance-go client library. It is the configured alternative to
// the in-house Yahoo client for deployments that prefer a maintained SDK.
package piquette

import (
	"context"
	"errors"
	"fmt"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/zeromicro/go-zero/core/logx"

	"financeeye-api/pkg/market"
	"financeeye-api/pkg/retry"
)

const (
	defaultTimeout = 15 * time.Second

	historyCacheTTL = time.Hour
	infoCacheTTL    = 24 * time.Hour
)

// Provider serves daily history and company metadata through the
// finance-go SDK, with the same cache and retry discipline as the other
// backends.
type Provider struct {
	timeout time.Duration
	retry   *retry.Handler

	history *market.TTLStore[*market.PriceSeries]
	info    *market.TTLStore[market.CompanyInfo]
}

// NewProvider constructs a finance-go backed market provider.
func NewProvider(timeout time.Duration, handler *retry.Handler) *Provider {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if handler == nil {
		handler = retry.New(retry.Config{})
	}
	return &Provider{
		timeout: timeout,
		retry:   handler,
		history: market.NewTTLStore[*market.PriceSeries](historyCacheTTL),
		info:    market.NewTTLStore[market.CompanyInfo](infoCacheTTL),
	}
}

func init() {
	market.RegisterProvider("piquette", func(name string, cfg *market.ProviderConfig) (market.Provider, error) {
		var handler *retry.Handler
		if cfg.MaxRetries > 0 || cfg.InitialBackoff > 0 {
			handler = retry.New(retry.Config{
				MaxAttempts:    cfg.MaxRetries,
				InitialBackoff: cfg.InitialBackoff,
			})
		}
		return NewProvider(cfg.Timeout, handler), nil
	})
}

// History implements market.Provider.
func (p *Provider) History(ctx context.Context, symbol string, query market.HistoryQuery) (*market.PriceSeries, error) {
	query = query.Normalize()
	if err := query.Validate(); err != nil {
		return nil, err
	}

	key := market.HistoryKey(symbol, query)
	if series, ok := p.history.Get(key); ok {
		return series.Clone(), nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var bars []market.Bar
	err := p.retry.Do(ctx, "piquette history "+symbol, func() error {
		fetched, err := fetchBars(symbol, query)
		if err != nil {
			return err
		}
		bars = fetched
		return nil
	})
	if err != nil {
		if retry.IsTransient(err) || errors.Is(err, market.ErrEmptyHistory) {
			return nil, &market.DataUnavailableError{Symbol: symbol, Period: query.Describe(), Err: err}
		}
		return nil, err
	}

	series := &market.PriceSeries{Symbol: symbol, Bars: bars}
	p.history.Put(key, series)
	return series.Clone(), nil
}

// CompanyInfo implements market.Provider. Failures degrade to the fallback
// mapping and the result is cached either way.
func (p *Provider) CompanyInfo(ctx context.Context, symbol string) (market.CompanyInfo, error) {
	key := market.InfoKey(symbol)
	if info, ok := p.info.Get(key); ok {
		return info, nil
	}

	info, err := fetchInfo(symbol)
	if err != nil {
		logx.WithContext(ctx).Errorf("piquette: company info for %s unavailable, falling back: %v", symbol, err)
		info = nil
	}

	normalized := market.NormalizeInfo(info, symbol)
	p.info.Put(key, normalized)
	return normalized, nil
}

// fetchBars runs one SDK chart iteration. The SDK manages its own HTTP
// transport, so timeouts only bound the retry loop, not the call in flight.
func fetchBars(symbol string, query market.HistoryQuery) ([]market.Bar, error) {
	start, end := queryBounds(query)

	params := &chart.Params{
		Symbol:   symbol,
		Interval: datetime.OneDay,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
	}

	iter := chart.Get(params)
	var bars []market.Bar
	for iter.Next() {
		b := iter.Bar()
		if b == nil {
			continue
		}
		closePrice, _ := b.Close.Float64()
		open, _ := b.Open.Float64()
		high, _ := b.High.Float64()
		low, _ := b.Low.Float64()
		bars = append(bars, market.Bar{
			Date:   time.Unix(int64(b.Timestamp), 0).UTC(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: float64(b.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("piquette: failed to get ticker %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("piquette: %w for %s", market.ErrEmptyHistory, symbol)
	}
	return bars, nil
}

// queryBounds converts either query form to explicit epoch bounds, since the
// SDK chart API has no relative-range parameter.
func queryBounds(query market.HistoryQuery) (time.Time, time.Time) {
	if query.UsesRange() {
		return query.Start, query.End
	}

	now := time.Now().UTC()
	switch query.Period {
	case market.Period1D:
		return now.AddDate(0, 0, -1), now
	case market.Period5D:
		return now.AddDate(0, 0, -5), now
	case market.Period1Mo:
		return now.AddDate(0, -1, 0), now
	case market.Period3Mo:
		return now.AddDate(0, -3, 0), now
	case market.Period6Mo:
		return now.AddDate(0, -6, 0), now
	case market.Period1Y:
		return now.AddDate(-1, 0, 0), now
	case market.Period2Y:
		return now.AddDate(-2, 0, 0), now
	case market.Period5Y:
		return now.AddDate(-5, 0, 0), now
	case market.Period10Y:
		return now.AddDate(-10, 0, 0), now
	case market.PeriodYTD:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), now
	case market.PeriodMax:
		return time.Unix(0, 0).UTC(), now
	default:
		return now.AddDate(0, -6, 0), now
	}
}

func fetchInfo(symbol string) (market.CompanyInfo, error) {
	eq, err := equity.Get(symbol)
	if err != nil {
		return nil, fmt.Errorf("piquette: failed to get ticker %s: %w", symbol, err)
	}
	if eq == nil {
		return nil, fmt.Errorf("piquette: failed to get ticker %s: empty quote result", symbol)
	}
	return infoFromQuote(eq), nil
}

func infoFromQuote(q *finance.Equity) market.CompanyInfo {
	return market.CompanyInfo{
		market.KeySymbol:     q.Symbol,
		market.KeyShortName:  q.ShortName,
		market.KeyLongName:   q.LongName,
		"fullExchangeName":   q.FullExchangeName,
		"regularMarketPrice": q.RegularMarketPrice,
		"currency":           q.CurrencyID,
	}
}
