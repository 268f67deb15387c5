package types

import "financeeye-api/pkg/chart"

// DashboardRequest selects a symbol on a market plus an optional date range
// or relative period and a chart style.
type DashboardRequest struct {
	Market    string `form:"market"`
	Symbol    string `form:"symbol"`
	Start     string `form:"start,optional"`
	End       string `form:"end,optional"`
	Period    string `form:"period,optional"`
	ChartType string `form:"chartType,optional"`
}

// BarView is one daily OHLCV row as rendered to clients.
type BarView struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// ReturnView is one trailing-return cell. Percent is nil when the series is
// too short for the window; Display then reads "N/A".
type ReturnView struct {
	WindowDays int      `json:"windowDays"`
	Label      string   `json:"label"`
	Display    string   `json:"display"`
	Percent    *float64 `json:"percent,omitempty"`
}

// DashboardResponse is the full dashboard payload for one symbol.
type DashboardResponse struct {
	Symbol      string        `json:"symbol"`
	CompanyName string        `json:"companyName"`
	Bars        []BarView     `json:"bars"`
	Returns     []ReturnView  `json:"returns"`
	Chart       *chart.Figure `json:"chart"`
}

// MarketOption is one selectable market venue.
type MarketOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// MarketsResponse enumerates the selectable inputs for building a
// dashboard request.
type MarketsResponse struct {
	Markets       []MarketOption `json:"markets"`
	Periods       []string       `json:"periods"`
	ChartTypes    []string       `json:"chartTypes"`
	ReturnWindows []int          `json:"returnWindows"`
}

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}
