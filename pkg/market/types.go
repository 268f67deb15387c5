package market

import (
	"fmt"
	"strings"
	"time"
)

// Bar is a single daily OHLCV record.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries holds ordered price history for one symbol. Bars are strictly
// ascending by date with no duplicates.
type PriceSeries struct {
	Symbol string `json:"symbol"`
	Bars   []Bar  `json:"bars"`
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// Clone returns a copy whose bar slice is independent of the receiver, so
// cached series can be handed out without aliasing.
func (s *PriceSeries) Clone() *PriceSeries {
	if s == nil {
		return nil
	}
	bars := make([]Bar, len(s.Bars))
	copy(bars, s.Bars)
	return &PriceSeries{Symbol: s.Symbol, Bars: bars}
}

// Period is a provider-relative lookback window.
type Period string

// Periods accepted by the history endpoint.
const (
	Period1D  Period = "1d"
	Period5D  Period = "5d"
	Period1Mo Period = "1mo"
	Period3Mo Period = "3mo"
	Period6Mo Period = "6mo"
	Period1Y  Period = "1y"
	Period2Y  Period = "2y"
	Period5Y  Period = "5y"
	Period10Y Period = "10y"
	PeriodYTD Period = "ytd"
	PeriodMax Period = "max"
)

// DefaultPeriod is used when a query specifies neither dates nor period.
const DefaultPeriod = Period6Mo

var validPeriods = map[Period]struct{}{
	Period1D: {}, Period5D: {}, Period1Mo: {}, Period3Mo: {}, Period6Mo: {},
	Period1Y: {}, Period2Y: {}, Period5Y: {}, Period10Y: {}, PeriodYTD: {}, PeriodMax: {},
}

// Valid reports whether p is one of the supported lookback windows.
func (p Period) Valid() bool {
	_, ok := validPeriods[p]
	return ok
}

// ValidPeriods lists the supported lookback windows in ascending order.
func ValidPeriods() []Period {
	return []Period{
		Period1D, Period5D, Period1Mo, Period3Mo, Period6Mo,
		Period1Y, Period2Y, Period5Y, Period10Y, PeriodYTD, PeriodMax,
	}
}

// HistoryQuery selects either an explicit date range or a relative period.
// The range form wins whenever Start is set.
type HistoryQuery struct {
	Start  time.Time
	End    time.Time
	Period Period
}

// UsesRange reports whether the explicit date-range form applies.
func (q HistoryQuery) UsesRange() bool {
	return !q.Start.IsZero()
}

// Normalize fills in the default period for queries that specify neither
// form, and defaults a missing end date to now for range queries.
func (q HistoryQuery) Normalize() HistoryQuery {
	if q.UsesRange() {
		if q.End.IsZero() {
			q.End = time.Now().UTC()
		}
		return q
	}
	if q.Period == "" {
		q.Period = DefaultPeriod
	}
	return q
}

// Validate checks the active query form.
func (q HistoryQuery) Validate() error {
	if q.UsesRange() {
		if !q.Start.Before(q.End) {
			return fmt.Errorf("market: history start %s must be before end %s",
				q.Start.Format("2006-01-02"), q.End.Format("2006-01-02"))
		}
		return nil
	}
	if !q.Period.Valid() {
		return fmt.Errorf("market: unsupported period %q", q.Period)
	}
	return nil
}

// Describe renders the query for error messages and cache keys.
func (q HistoryQuery) Describe() string {
	if q.UsesRange() {
		return q.Start.Format("2006-01-02") + ".." + q.End.Format("2006-01-02")
	}
	return string(q.Period)
}

// ReturnMetric is a trailing percentage return over a trading-day window.
// Valid is false when the series is too short or the endpoint prices do not
// allow a meaningful computation.
type ReturnMetric struct {
	WindowDays int     `json:"windowDays"`
	Percent    float64 `json:"percent"`
	Valid      bool    `json:"valid"`
}

// CompanyInfo is a heterogeneous metadata mapping for a symbol. After
// NormalizeInfo it always carries a longName entry.
type CompanyInfo map[string]any

// Well-known CompanyInfo keys.
const (
	KeySymbol    = "symbol"
	KeyShortName = "shortName"
	KeyLongName  = "longName"
)

// DisplayName returns the long display name, which NormalizeInfo guarantees
// to be present and non-empty.
func (c CompanyInfo) DisplayName() string {
	if name := stringValue(c[KeyLongName]); name != "" {
		return name
	}
	if name := stringValue(c[KeyShortName]); name != "" {
		return name
	}
	return stringValue(c[KeySymbol])
}

// FallbackInfo builds the minimal mapping used when provider metadata is
// missing or unusable.
func FallbackInfo(symbol string) CompanyInfo {
	return CompanyInfo{KeyLongName: symbol}
}

// NormalizeInfo enforces the CompanyInfo guarantees: a mapping lacking an
// identity field collapses to the fallback (preserving a short name when one
// exists), and a missing or empty long name is backfilled from the short
// name, then from the symbol itself.
func NormalizeInfo(info CompanyInfo, symbol string) CompanyInfo {
	if info == nil {
		return FallbackInfo(symbol)
	}
	if stringValue(info[KeySymbol]) == "" {
		if short := stringValue(info[KeyShortName]); short != "" {
			return CompanyInfo{KeyLongName: short}
		}
		return FallbackInfo(symbol)
	}
	if stringValue(info[KeyLongName]) == "" {
		if short := stringValue(info[KeyShortName]); short != "" {
			info[KeyLongName] = short
		} else {
			info[KeyLongName] = symbol
		}
	}
	return info
}

func stringValue(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
