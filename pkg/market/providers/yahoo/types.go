package yahoo

// chartResponse mirrors the v8 chart endpoint payload. Quote arrays use
// pointers because the feed emits null for holidays and halted sessions.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Currency             string  `json:"currency"`
		Symbol               string  `json:"symbol"`
		ExchangeName         string  `json:"exchangeName"`
		Timezone             string  `json:"timezone"`
		ExchangeTimezoneName string  `json:"exchangeTimezoneName"`
		RegularMarketPrice   float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []quoteBlock `json:"quote"`
	} `json:"indicators"`
}

type quoteBlock struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// quoteResponse mirrors the v7 quote endpoint payload. Results stay as raw
// maps so the heterogeneous metadata reaches callers unfiltered.
type quoteResponse struct {
	QuoteResponse struct {
		Result []map[string]any `json:"result"`
		Error  *apiError        `json:"error"`
	} `json:"quoteResponse"`
}
