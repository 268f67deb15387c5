// Command fetch is a terminal client for the market data layer: it resolves
// a symbol on a venue, pulls history and metadata through the configured
// provider, and prints the trailing returns. Useful for poking at provider
// behavior without running the API server.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"financeeye-api/internal/config"
	"financeeye-api/pkg/market"

	// Import for side-effects: registers the market providers
	_ "financeeye-api/pkg/market/providers/piquette"
	_ "financeeye-api/pkg/market/providers/yahoo"
)

const fetchTimeout = 60 * time.Second

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	var (
		configPath = flag.String("config", "", "path to market.yaml (default: project etc/market.yaml)")
		marketFlag = flag.String("market", "us", "market venue: b3 | us")
		symbolFlag = flag.String("symbol", "", "ticker symbol (required)")
		periodFlag = flag.String("period", "", "relative period, e.g. 6mo, 1y")
		startFlag  = flag.String("start", "", "range start, YYYY-MM-DD")
		endFlag    = flag.String("end", "", "range end, YYYY-MM-DD")
	)
	flag.Parse()

	if *symbolFlag == "" {
		log.Fatal("[main] -symbol is required")
	}

	venue, err := market.ParseVenue(*marketFlag)
	if err != nil {
		log.Fatalf("[main] %v", err)
	}
	symbol := market.NormalizeSymbol(*symbolFlag, venue)

	query, err := buildQuery(*periodFlag, *startFlag, *endFlag)
	if err != nil {
		log.Fatalf("[main] %v", err)
	}

	var marketCfg *market.Config
	if *configPath != "" {
		marketCfg, err = market.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("[main] Failed to load market config: %v", err)
		}
	} else {
		marketCfg = config.MustLoadMarket()
	}

	providers, err := marketCfg.BuildProviders()
	if err != nil {
		log.Fatalf("[main] Failed to build market providers: %v", err)
	}
	provider := providers[marketCfg.Default]
	if provider == nil {
		log.Fatalf("[main] No default provider configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	info, _ := provider.CompanyInfo(ctx, symbol)
	log.Printf("[main] %s — %s", symbol, info.DisplayName())

	series, err := provider.History(ctx, symbol, query)
	if err != nil {
		log.Fatalf("[main] History fetch failed: %v", err)
	}

	last := series.Bars[series.Len()-1]
	log.Printf("[main] %d bars (%s), last close %.2f on %s",
		series.Len(), query.Describe(), last.Close, last.Date.Format("2006-01-02"))

	for _, metric := range market.ComputeReturns(series, market.DefaultReturnWindows) {
		if metric.Valid {
			log.Printf("[main]   %3dd return: %+.2f%%", metric.WindowDays, metric.Percent)
		} else {
			log.Printf("[main]   %3dd return: N/A", metric.WindowDays)
		}
	}
}

func buildQuery(period, start, end string) (market.HistoryQuery, error) {
	var query market.HistoryQuery
	if start != "" {
		t, err := time.Parse("2006-01-02", start)
		if err != nil {
			return query, err
		}
		query.Start = t
	}
	if end != "" {
		t, err := time.Parse("2006-01-02", end)
		if err != nil {
			return query, err
		}
		query.End = t
	}
	if period != "" {
		query.Period = market.Period(period)
	}
	query = query.Normalize()
	return query, query.Validate()
}
