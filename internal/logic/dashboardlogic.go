package logic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"financeeye-api/internal/svc"
	"financeeye-api/internal/types"
	"financeeye-api/pkg/chart"
	"financeeye-api/pkg/market"
)

const dateLayout = "2006-01-02"

type DashboardLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewDashboardLogic(ctx context.Context, svcCtx *svc.ServiceContext) *DashboardLogic {
	return &DashboardLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Dashboard assembles the full payload for one symbol: company metadata,
// daily bars, trailing returns and the chart figure. All request validation
// happens up front so a bad request never reaches the provider.
func (l *DashboardLogic) Dashboard(req *types.DashboardRequest) (*types.DashboardResponse, error) {
	venue, err := market.ParseVenue(req.Market)
	if err != nil {
		return nil, validationf("unknown market %q", req.Market)
	}
	if strings.TrimSpace(req.Symbol) == "" {
		return nil, validationf("symbol is required")
	}

	query, err := parseQuery(req)
	if err != nil {
		return nil, err
	}

	chartType, err := chart.ParseType(req.ChartType)
	if err != nil {
		return nil, validationf("unsupported chart type %q", req.ChartType)
	}

	symbol := market.NormalizeSymbol(req.Symbol, venue)
	provider := l.svcCtx.DefaultMarket

	info, err := provider.CompanyInfo(l.ctx, symbol)
	if err != nil {
		// The contract says metadata never fails outward; treat a violation
		// as the fallback rather than a dead dashboard.
		l.Errorf("company info for %s returned error despite fallback contract: %v", symbol, err)
		info = market.FallbackInfo(symbol)
	}

	if pause := l.svcCtx.Config.ProviderPause(); pause > 0 {
		select {
		case <-l.ctx.Done():
			return nil, l.ctx.Err()
		case <-time.After(pause):
		}
	}

	series, err := provider.History(l.ctx, symbol, query)
	if err != nil {
		return nil, err
	}

	returns := market.ComputeReturns(series, l.svcCtx.Config.ReturnWindowsOrDefault())

	figure, err := chart.Render(series, symbol, info.DisplayName(), chartType)
	if err != nil {
		return nil, err
	}

	l.Infof("dashboard built for %s (%s): %d bars", symbol, query.Describe(), series.Len())

	return &types.DashboardResponse{
		Symbol:      symbol,
		CompanyName: info.DisplayName(),
		Bars:        barViews(series),
		Returns:     returnViews(returns),
		Chart:       figure,
	}, nil
}

func parseQuery(req *types.DashboardRequest) (market.HistoryQuery, error) {
	var query market.HistoryQuery

	if req.Start != "" {
		start, err := time.Parse(dateLayout, req.Start)
		if err != nil {
			return query, validationf("invalid start date %q, want YYYY-MM-DD", req.Start)
		}
		query.Start = start
	}
	if req.End != "" {
		end, err := time.Parse(dateLayout, req.End)
		if err != nil {
			return query, validationf("invalid end date %q, want YYYY-MM-DD", req.End)
		}
		query.End = end
	}
	if query.UsesRange() {
		query = query.Normalize()
		if !query.Start.Before(query.End) {
			return query, validationf("start date %s must be before end date %s", req.Start, req.End)
		}
		return query, nil
	}
	if !query.End.IsZero() {
		return query, validationf("end date requires a start date")
	}

	if req.Period != "" {
		query.Period = market.Period(req.Period)
		if !query.Period.Valid() {
			return query, validationf("unsupported period %q", req.Period)
		}
	}
	return query.Normalize(), nil
}

func barViews(series *market.PriceSeries) []types.BarView {
	views := make([]types.BarView, 0, series.Len())
	for _, bar := range series.Bars {
		views = append(views, types.BarView{
			Date:   bar.Date.Format(dateLayout),
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: bar.Volume,
		})
	}
	return views
}

func returnViews(metrics []market.ReturnMetric) []types.ReturnView {
	views := make([]types.ReturnView, 0, len(metrics))
	for _, metric := range metrics {
		view := types.ReturnView{
			WindowDays: metric.WindowDays,
			Label:      fmt.Sprintf("%d days", metric.WindowDays),
			Display:    "N/A",
		}
		if metric.Valid {
			pct := metric.Percent
			view.Percent = &pct
			view.Display = fmt.Sprintf("%.2f%%", pct)
		}
		views = append(views, view)
	}
	return views
}

// VenueHint suggests a plausible symbol for the selected market, for error
// messages on empty lookups.
func VenueHint(marketStr string) string {
	venue, err := market.ParseVenue(marketStr)
	if err != nil {
		return ""
	}
	switch venue {
	case market.VenueB3:
		return "check the ticker (e.g. PETR4) and that the Brazil market is selected"
	default:
		return "check the ticker (e.g. AAPL) and that the US market is selected"
	}
}
