package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"financeeye-api/internal/config"
	"financeeye-api/internal/svc"
	"financeeye-api/internal/types"
	"financeeye-api/pkg/market"
)

type stubProvider struct {
	series     *market.PriceSeries
	historyErr error
}

func (s *stubProvider) History(ctx context.Context, symbol string, query market.HistoryQuery) (*market.PriceSeries, error) {
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	return s.series.Clone(), nil
}

func (s *stubProvider) CompanyInfo(ctx context.Context, symbol string) (market.CompanyInfo, error) {
	return market.FallbackInfo(symbol), nil
}

func stubSeries() *market.PriceSeries {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, 0, 40)
	for i := 0; i < 40; i++ {
		bars = append(bars, market.Bar{Date: start.AddDate(0, 0, i), Close: 10 + float64(i)})
	}
	return &market.PriceSeries{Symbol: "AAPL", Bars: bars}
}

func serveDashboard(t *testing.T, provider market.Provider, target string) *httptest.ResponseRecorder {
	t.Helper()
	svcCtx := &svc.ServiceContext{
		Config:        config.Config{Env: "test"},
		DefaultMarket: provider,
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	DashboardHandler(svcCtx)(rec, req)
	return rec
}

func TestDashboardHandlerOK(t *testing.T) {
	rec := serveDashboard(t, &stubProvider{series: stubSeries()},
		"/api/dashboard?market=us&symbol=aapl&period=1mo")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.DashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "AAPL", resp.Symbol)
	require.Len(t, resp.Bars, 40)
	require.NotNil(t, resp.Chart)
}

func TestDashboardHandlerValidationIs400(t *testing.T) {
	rec := serveDashboard(t, &stubProvider{series: stubSeries()},
		"/api/dashboard?market=moon&symbol=aapl")

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body types.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body.Error, "unknown market")
}

func TestDashboardHandlerDataUnavailableIs422(t *testing.T) {
	provider := &stubProvider{
		historyErr: &market.DataUnavailableError{Symbol: "XXXX4.SA", Period: "6mo"},
	}
	rec := serveDashboard(t, provider, "/api/dashboard?market=b3&symbol=xxxx4")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body types.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body.Error, "XXXX4.SA")
	require.Contains(t, body.Hint, "PETR4")
}

func TestDashboardHandlerUnexpectedIs500(t *testing.T) {
	provider := &stubProvider{historyErr: errors.New("pq: connection reset")}
	rec := serveDashboard(t, provider, "/api/dashboard?market=us&symbol=aapl")

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body types.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	// Internal detail stays in the logs.
	require.Equal(t, "unexpected error while fetching data", body.Error)
	require.NotContains(t, body.Error, "pq:")
}

func TestMarketsHandler(t *testing.T) {
	svcCtx := &svc.ServiceContext{Config: config.Config{Env: "test"}}
	req := httptest.NewRequest(http.MethodGet, "/api/markets", nil)
	rec := httptest.NewRecorder()
	MarketsHandler(svcCtx)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.MarketsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Markets, 2)
	require.Contains(t, resp.Periods, "6mo")
	require.Contains(t, resp.ChartTypes, "candlestick")
	require.Equal(t, []int{30, 90, 365}, resp.ReturnWindows)
}

func TestHealthHandler(t *testing.T) {
	svcCtx := &svc.ServiceContext{Config: config.Config{Env: "test"}}
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	HealthHandler(svcCtx)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)
}
