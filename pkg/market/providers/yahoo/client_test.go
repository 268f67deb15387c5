package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"financeeye-api/pkg/market"
	"financeeye-api/pkg/retry"
)

func chartPayload(timestamps []int64, closes []string) string {
	ts := ""
	for i, t := range timestamps {
		if i > 0 {
			ts += ","
		}
		ts += fmt.Sprintf("%d", t)
	}
	cl := ""
	for i, c := range closes {
		if i > 0 {
			cl += ","
		}
		cl += c
	}
	return fmt.Sprintf(`{"chart":{"result":[{"meta":{"symbol":"TEST","currency":"USD"},
		"timestamp":[%s],
		"indicators":{"quote":[{
			"open":[%s],"high":[%s],"low":[%s],"close":[%s],"volume":[%s]}]}}],
		"error":null}}`, ts, cl, cl, cl, cl, cl)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(
		WithBaseURL(server.URL),
		WithRetry(retry.New(retry.Config{MaxAttempts: 3, InitialBackoff: time.Millisecond})),
	)
}

func TestHistoryParsesAndSorts(t *testing.T) {
	// Out of order, with a null row and a same-day duplicate.
	day1 := time.Date(2025, 6, 2, 13, 30, 0, 0, time.UTC).Unix()
	day2 := time.Date(2025, 6, 3, 13, 30, 0, 0, time.UTC).Unix()
	day2dup := time.Date(2025, 6, 3, 20, 0, 0, 0, time.UTC).Unix()
	day3 := time.Date(2025, 6, 4, 13, 30, 0, 0, time.UTC).Unix()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartPayload(
			[]int64{day2, day1, day3, day2dup},
			[]string{"101", "100", "null", "103"},
		))
	})

	bars, err := client.History(context.Background(), "TEST", market.HistoryQuery{Period: market.Period1Mo})
	require.NoError(t, err)
	require.Len(t, bars, 2)
	require.Equal(t, "2025-06-02", bars[0].Date.Format("2006-01-02"))
	require.Equal(t, 100.0, bars[0].Close)
	require.Equal(t, "2025-06-03", bars[1].Date.Format("2006-01-02"))
	require.Equal(t, 101.0, bars[1].Close)
}

func TestHistoryRetriesRateLimit(t *testing.T) {
	day := time.Date(2025, 6, 2, 13, 30, 0, 0, time.UTC).Unix()

	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, chartPayload([]int64{day}, []string{"100"}))
	})

	bars, err := client.History(context.Background(), "TEST", market.HistoryQuery{Period: market.Period1Mo})
	require.NoError(t, err)
	require.Len(t, bars, 1)
	require.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestHistoryAPIErrorNotRetried(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	})

	_, err := client.History(context.Background(), "NOPE", market.HistoryQuery{Period: market.Period1Mo})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Not Found")
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestHistoryEmptyResultIsRetriedThenWrapped(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `{"chart":{"result":[],"error":null}}`)
	})

	_, err := client.History(context.Background(), "TEST", market.HistoryQuery{Period: market.Period1Mo})
	require.ErrorIs(t, err, market.ErrEmptyHistory)
	require.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestHistoryMalformedPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>rate limited</html>")
	})

	_, err := client.History(context.Background(), "TEST", market.HistoryQuery{Period: market.Period1Mo})
	require.Error(t, err)
	require.Contains(t, err.Error(), "malformed response")
}

func TestChartURLForms(t *testing.T) {
	client := NewClient(WithBaseURL("https://example.test"))

	periodURL := client.chartURL("AAPL", market.HistoryQuery{Period: market.Period6Mo})
	require.Contains(t, periodURL, "/v8/finance/chart/AAPL")
	require.Contains(t, periodURL, "range=6mo")
	require.Contains(t, periodURL, "interval=1d")

	rangeURL := client.chartURL("AAPL", market.HistoryQuery{
		Start: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
	})
	require.Contains(t, rangeURL, "period1=")
	require.Contains(t, rangeURL, "period2=")
	require.NotContains(t, rangeURL, "range=")
}

func TestQuoteEmptyResultTransient(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `{"quoteResponse":{"result":[],"error":null}}`)
	})

	_, err := client.Ticker("NOPE").Quote(context.Background())
	require.Error(t, err)
	require.True(t, retry.IsTransient(err))
	require.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestQuoteReturnsRawFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"quoteResponse":{"result":[{
			"symbol":"PETR4.SA","shortName":"PETROBRAS PN","longName":"Petróleo Brasileiro S.A. - Petrobras",
			"fullExchangeName":"São Paulo"}],"error":null}}`)
	})

	info, err := client.Ticker("petr4.sa").Quote(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Petróleo Brasileiro S.A. - Petrobras", info.DisplayName())
	require.Equal(t, "São Paulo", info["fullExchangeName"])
}

func TestTickerHandleCached(t *testing.T) {
	client := NewClient()
	first := client.Ticker("aapl")
	second := client.Ticker(" AAPL ")
	require.Same(t, first, second)
	require.Equal(t, "AAPL", first.Symbol())
}
