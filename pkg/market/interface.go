package market

import "context"

// Provider exposes venue-agnostic access to one market data backend.
type Provider interface {
	// History returns the daily OHLCV series for the normalized symbol.
	// The result is cached by request parameters; an empty or unreachable
	// result surfaces as a DataUnavailableError.
	History(ctx context.Context, symbol string, query HistoryQuery) (*PriceSeries, error)
	// CompanyInfo returns descriptive metadata for the symbol. It never
	// fails outward: when the provider has nothing usable it degrades to
	// the fallback mapping, since the display name is cosmetic.
	CompanyInfo(ctx context.Context, symbol string) (CompanyInfo, error)
}
