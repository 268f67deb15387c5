// Package chart renders price history into a plotly-compatible figure
// document that the dashboard frontend feeds straight to its plotting
// library.
package chart

import (
	"fmt"
	"strings"

	"financeeye-api/pkg/market"
)

// Type selects the visual style of the price trace.
type Type string

const (
	TypeLine        Type = "line"
	TypeArea        Type = "area"
	TypeCandlestick Type = "candlestick"
)

// DefaultType is used when a request omits the chart type.
const DefaultType = TypeLine

// ParseType maps a user-supplied chart type string to a Type. An empty
// string selects the default.
func ParseType(raw string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		return DefaultType, nil
	case TypeLine:
		return TypeLine, nil
	case TypeArea:
		return TypeArea, nil
	case TypeCandlestick:
		return TypeCandlestick, nil
	default:
		return "", fmt.Errorf("chart: unsupported chart type %q", raw)
	}
}

// Types lists the supported chart types.
func Types() []Type {
	return []Type{TypeLine, TypeArea, TypeCandlestick}
}

// Figure is a serialized plotly figure: a set of traces plus layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace holds one plotted series. Field usage depends on the trace type:
// scatter traces fill X/Y, candlestick traces fill X plus the four price
// columns.
type Trace struct {
	Type  string    `json:"type"`
	Name  string    `json:"name,omitempty"`
	X     []string  `json:"x"`
	Y     []float64 `json:"y,omitempty"`
	Open  []float64 `json:"open,omitempty"`
	High  []float64 `json:"high,omitempty"`
	Low   []float64 `json:"low,omitempty"`
	Close []float64 `json:"close,omitempty"`
	Mode  string    `json:"mode,omitempty"`
	Fill  string    `json:"fill,omitempty"`
}

// Layout mirrors the subset of plotly layout options the dashboard uses.
type Layout struct {
	Title     string `json:"title"`
	XAxis     Axis   `json:"xaxis"`
	YAxis     Axis   `json:"yaxis"`
	HoverMode string `json:"hovermode"`
	Template  string `json:"template"`
}

// Axis carries an axis title.
type Axis struct {
	Title string `json:"title"`
}

// Render builds a figure for the series. The title carries the symbol and,
// when known, the company display name.
func Render(series *market.PriceSeries, symbol, displayName string, typ Type) (*Figure, error) {
	if series.Len() == 0 {
		return nil, fmt.Errorf("chart: no data to plot for %s", symbol)
	}

	dates := make([]string, 0, series.Len())
	for _, bar := range series.Bars {
		dates = append(dates, bar.Date.Format("2006-01-02"))
	}

	var trace Trace
	switch typ {
	case TypeLine:
		trace = Trace{Type: "scatter", Mode: "lines", Name: symbol, X: dates, Y: closes(series)}
	case TypeArea:
		trace = Trace{Type: "scatter", Mode: "lines", Fill: "tozeroy", Name: symbol, X: dates, Y: closes(series)}
	case TypeCandlestick:
		trace = Trace{
			Type:  "candlestick",
			Name:  symbol,
			X:     dates,
			Open:  column(series, func(b market.Bar) float64 { return b.Open }),
			High:  column(series, func(b market.Bar) float64 { return b.High }),
			Low:   column(series, func(b market.Bar) float64 { return b.Low }),
			Close: closes(series),
		}
	default:
		return nil, fmt.Errorf("chart: unsupported chart type %q", typ)
	}

	title := "Price History – " + symbol
	if displayName != "" && displayName != symbol {
		title += " — " + displayName
	}

	return &Figure{
		Data: []Trace{trace},
		Layout: Layout{
			Title:     title,
			XAxis:     Axis{Title: "Date"},
			YAxis:     Axis{Title: "Price"},
			HoverMode: "x unified",
			Template:  "plotly_white",
		},
	}, nil
}

func closes(series *market.PriceSeries) []float64 {
	return column(series, func(b market.Bar) float64 { return b.Close })
}

func column(series *market.PriceSeries, pick func(market.Bar) float64) []float64 {
	out := make([]float64, 0, series.Len())
	for _, bar := range series.Bars {
		out = append(out, pick(bar))
	}
	return out
}
