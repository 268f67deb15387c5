// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package main

import (
	"flag"
	"fmt"

	"financeeye-api/internal/cli"
	"financeeye-api/internal/config"
	"financeeye-api/internal/handler"
	"financeeye-api/internal/svc"
	"financeeye-api/internal/warmup"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"
)

var configFile = flag.String("f", "etc/financeeye.yaml", "the config file")

func main() {
	flag.Parse()

	cfg := config.MustLoad(*configFile)
	cli.LogConfigSummary(cfg)

	server := rest.MustNewServer(cfg.RestConf)
	defer server.Stop()

	ctx := svc.NewServiceContext(*cfg)
	handler.RegisterHandlers(server, ctx)

	if cfg.Warmup.Enabled {
		refresher, err := warmup.New(ctx.DefaultMarket, cfg.Warmup)
		if err != nil {
			logx.Must(err)
		}
		refresher.Start()
		defer refresher.Stop()
	}

	fmt.Printf("Starting server at %s:%d...\n", cfg.Host, cfg.Port)
	server.Start()
}
