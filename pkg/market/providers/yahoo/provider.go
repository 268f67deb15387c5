package yahoo

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"financeeye-api/pkg/market"
	"financeeye-api/pkg/retry"
)

const (
	defaultProviderTimeout = 15 * time.Second

	historyCacheTTL = time.Hour
	infoCacheTTL    = 24 * time.Hour
)

// Provider adapts the Yahoo client to the market.Provider contract and adds
// the TTL caches: price history for an hour keyed by request parameters,
// company metadata for a day keyed by symbol.
type Provider struct {
	client     *Client
	timeout    time.Duration
	providerID string

	history *market.TTLStore[*market.PriceSeries]
	info    *market.TTLStore[market.CompanyInfo]
}

type providerConfig struct {
	timeout       time.Duration
	clientOptions []Option
}

// ProviderOption customises the Yahoo provider.
type ProviderOption func(*providerConfig)

// WithTimeout overrides the default per-call timeout.
func WithTimeout(timeout time.Duration) ProviderOption {
	return func(cfg *providerConfig) {
		if timeout > 0 {
			cfg.timeout = timeout
		}
	}
}

// WithClientOptions passes options to the underlying client.
func WithClientOptions(options ...Option) ProviderOption {
	return func(cfg *providerConfig) {
		cfg.clientOptions = append(cfg.clientOptions, options...)
	}
}

// NewProvider constructs a Yahoo market provider.
func NewProvider(opts ...ProviderOption) *Provider {
	cfg := &providerConfig{timeout: defaultProviderTimeout}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Provider{
		client:  NewClient(cfg.clientOptions...),
		timeout: cfg.timeout,
		history: market.NewTTLStore[*market.PriceSeries](historyCacheTTL),
		info:    market.NewTTLStore[market.CompanyInfo](infoCacheTTL),
	}
}

func init() {
	market.RegisterProvider("yahoo", func(name string, cfg *market.ProviderConfig) (market.Provider, error) {
		opts := []ProviderOption{}
		clientOptions := []Option{}
		if cfg.Timeout > 0 {
			opts = append(opts, WithTimeout(cfg.Timeout))
		}
		if cfg.HTTPTimeout > 0 {
			clientOptions = append(clientOptions, WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
		}
		if cfg.BaseURL != "" {
			clientOptions = append(clientOptions, WithBaseURL(cfg.BaseURL))
		}
		if cfg.MaxRetries > 0 || cfg.InitialBackoff > 0 {
			clientOptions = append(clientOptions, WithRetry(retry.New(retry.Config{
				MaxAttempts:    cfg.MaxRetries,
				InitialBackoff: cfg.InitialBackoff,
			})))
		}
		if len(clientOptions) > 0 {
			opts = append(opts, WithClientOptions(clientOptions...))
		}
		provider := NewProvider(opts...)
		provider.providerID = name
		return provider, nil
	})
}

// History implements market.Provider. Identical requests within the cache
// window never touch the network.
func (p *Provider) History(ctx context.Context, symbol string, query market.HistoryQuery) (*market.PriceSeries, error) {
	query = query.Normalize()
	if err := query.Validate(); err != nil {
		return nil, err
	}

	key := market.HistoryKey(symbol, query)
	if series, ok := p.history.Get(key); ok {
		return series.Clone(), nil
	}

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	bars, err := p.client.History(ctx, symbol, query)
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

// CompanyInfo implements market.Provider. Metadata failures degrade to the
// fallback mapping; the fallback is cached too, so a struggling feed is not
// hammered for a cosmetic field.
func (p *Provider) CompanyInfo(ctx context.Context, symbol string) (market.CompanyInfo, error) {
	key := market.InfoKey(symbol)
	if info, ok := p.info.Get(key); ok {
		return info, nil
	}

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	info, err := p.client.Ticker(symbol).Quote(ctx)
	if err != nil {
		logx.WithContext(ctx).Errorf("yahoo: company info for %s unavailable, falling back: %v", symbol, err)
		info = nil
	}

	normalized := market.NormalizeInfo(info, symbol)
	p.info.Put(key, normalized)
	return normalized, nil
}

func (p *Provider) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, p.timeout)
}
