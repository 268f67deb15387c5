package svc

import (
	"log"

	"financeeye-api/internal/config"
	marketpkg "financeeye-api/pkg/market"
	_ "financeeye-api/pkg/market/providers/piquette"
	_ "financeeye-api/pkg/market/providers/yahoo"
)

type ServiceContext struct {
	Config config.Config

	MarketConfig    *marketpkg.Config
	MarketProviders map[string]marketpkg.Provider
	DefaultMarket   marketpkg.Provider
}

func NewServiceContext(c config.Config) *ServiceContext {
	svc := &ServiceContext{
		Config: c,
	}

	marketCfg := c.Market.Value
	if marketCfg == nil {
		marketCfg = config.MustLoadMarket()
	}

	providers, err := marketCfg.BuildProviders()
	if err != nil {
		log.Fatalf("failed to build market providers: %v", err)
	}

	svc.MarketConfig = marketCfg
	svc.MarketProviders = providers
	if marketCfg.Default != "" {
		svc.DefaultMarket = providers[marketCfg.Default]
	}
	if svc.DefaultMarket == nil {
		for _, provider := range providers {
			svc.DefaultMarket = provider
			break
		}
	}
	return svc
}
