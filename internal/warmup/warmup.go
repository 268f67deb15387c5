// Package warmup keeps the provider caches populated for a configured set
// of symbols so first requests after a cache expiry do not pay the upstream
// latency.
package warmup

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/zeromicro/go-zero/core/logx"

	"financeeye-api/internal/config"
	"financeeye-api/pkg/market"
)

const refreshTimeout = 30 * time.Second

// Refresher periodically re-fetches history for the configured symbols.
// Failures are logged and skipped; a warmup miss only costs latency on the
// next live request.
type Refresher struct {
	provider market.Provider
	symbols  []string
	period   market.Period
	cron     *cron.Cron
	entry    cron.EntryID
}

// New builds a Refresher from warmup configuration. The schedule is parsed
// eagerly so a bad expression fails at startup, not at first tick.
func New(provider market.Provider, cfg config.WarmupConf) (*Refresher, error) {
	if provider == nil {
		return nil, fmt.Errorf("warmup: provider is required")
	}
	period := market.Period(cfg.Period)
	if !period.Valid() {
		return nil, fmt.Errorf("warmup: unsupported period %q", cfg.Period)
	}

	r := &Refresher{
		provider: provider,
		symbols:  append([]string(nil), cfg.Symbols...),
		period:   period,
		cron:     cron.New(),
	}

	entry, err := r.cron.AddFunc(cfg.Schedule, r.refresh)
	if err != nil {
		return nil, fmt.Errorf("warmup: invalid schedule %q: %w", cfg.Schedule, err)
	}
	r.entry = entry
	return r, nil
}

// Start runs the first refresh immediately and then follows the schedule.
func (r *Refresher) Start() {
	go r.refresh()
	r.cron.Start()
	logx.Infof("warmup: scheduled refresh for %d symbols", len(r.symbols))
}

// Stop halts the schedule and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

func (r *Refresher) refresh() {
	query := market.HistoryQuery{Period: r.period}
	for _, symbol := range r.symbols {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		series, err := r.provider.History(ctx, symbol, query)
		cancel()
		if err != nil {
			logx.Errorf("warmup: refresh %s failed: %v", symbol, err)
			continue
		}
		logx.Infof("warmup: refreshed %s, %d bars", symbol, series.Len())
	}
}
