package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"financeeye-api/internal/svc"
	"financeeye-api/internal/types"
	"financeeye-api/pkg/chart"
	"financeeye-api/pkg/market"
)

type MarketsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewMarketsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *MarketsLogic {
	return &MarketsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

var venueLabels = map[market.Venue]string{
	market.VenueB3: "Brazil (B3)",
	market.VenueUS: "United States (NYSE/NASDAQ)",
}

// Markets enumerates the selectable request inputs so the frontend can build
// its pickers without hardcoding them.
func (l *MarketsLogic) Markets() *types.MarketsResponse {
	venues := market.Venues()
	options := make([]types.MarketOption, 0, len(venues))
	for _, venue := range venues {
		options = append(options, types.MarketOption{
			ID:    string(venue),
			Label: venueLabels[venue],
		})
	}

	periods := make([]string, 0)
	for _, p := range market.ValidPeriods() {
		periods = append(periods, string(p))
	}

	chartTypes := make([]string, 0)
	for _, t := range chart.Types() {
		chartTypes = append(chartTypes, string(t))
	}

	return &types.MarketsResponse{
		Markets:       options,
		Periods:       periods,
		ChartTypes:    chartTypes,
		ReturnWindows: l.svcCtx.Config.ReturnWindowsOrDefault(),
	}
}
