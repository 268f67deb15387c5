package market

import "math"

// DefaultReturnWindows are the trailing trading-day windows shown on the
// dashboard.
var DefaultReturnWindows = []int{30, 90, 365}

// ComputeReturns calculates trailing percentage returns for each window.
// Pure function of an already-fetched series; no I/O, no caching.
func ComputeReturns(series *PriceSeries, windows []int) []ReturnMetric {
	metrics := make([]ReturnMetric, 0, len(windows))
	for _, window := range windows {
		metrics = append(metrics, trailingReturn(series, window))
	}
	return metrics
}

// trailingReturn compares the last close against the close `window` bars
// earlier. Windows longer than the series, NaN endpoints, and a zero past
// price all yield an invalid metric rather than a bogus number.
func trailingReturn(series *PriceSeries, window int) ReturnMetric {
	metric := ReturnMetric{WindowDays: window}
	if window <= 0 || series.Len() <= window {
		return metric
	}
	bars := series.Bars
	last := bars[len(bars)-1].Close
	past := bars[len(bars)-1-window].Close
	if math.IsNaN(last) || math.IsNaN(past) || past == 0 {
		return metric
	}
	metric.Percent = (last/past - 1) * 100
	metric.Valid = true
	return metric
}
