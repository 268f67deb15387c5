package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/rest"

	"financeeye-api/pkg/confkit"
	marketpkg "financeeye-api/pkg/market"
)

// WarmupConf controls the background cache refresher. Disabled by default;
// when enabled it walks the symbol list on the cron schedule so the first
// dashboard request of the hour hits a warm cache.
type WarmupConf struct {
	Enabled  bool     `json:",default=false"`
	Schedule string   `json:",default=@hourly"`
	Symbols  []string `json:",optional"`
	Period   string   `json:",default=6mo"`
}

type Config struct {
	rest.RestConf
	// Env indicates the running environment: test | dev | prod
	Env string `json:",default=dev"`

	// ReturnWindows lists the trailing-return windows in days. Empty means
	// the standard 30/90/365 set.
	ReturnWindows []int `json:",optional"`

	// ProviderPauseMs is the pause between the metadata and history calls
	// for one dashboard request, to stay polite with the upstream feed.
	ProviderPauseMs int `json:",default=250"`

	Market confkit.Section[marketpkg.Config] `json:",optional"`

	Warmup WarmupConf `json:",optional"`

	mainPath string
	baseDir  string
}

func (c *Config) IsTestEnv() bool {
	return c.Env == "test"
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func Load(path string) (*Config, error) {
	confkit.LoadDotenvOnce()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path %s: %w", path, err)
	}

	var cfg Config
	if err := conf.Load(absPath, &cfg, conf.UseEnv()); err != nil {
		return nil, fmt.Errorf("load config %s: %w", absPath, err)
	}

	cfg.mainPath = absPath
	cfg.baseDir = filepath.Dir(absPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.hydrateSections(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "", "test", "dev", "prod":
		if strings.TrimSpace(c.Env) == "" {
			c.Env = "dev"
		}
	default:
		return errors.New("config: env must be one of test|dev|prod")
	}
	for _, window := range c.ReturnWindows {
		if window <= 0 {
			return fmt.Errorf("config: return window must be positive, got %d", window)
		}
	}
	if c.ProviderPauseMs < 0 {
		return errors.New("config: providerPauseMs cannot be negative")
	}
	return c.validateWarmup()
}

func (c *Config) validateWarmup() error {
	if !c.Warmup.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Warmup.Schedule) == "" {
		return errors.New("config: warmup.schedule is required when warmup is enabled")
	}
	if len(c.Warmup.Symbols) == 0 {
		return errors.New("config: warmup.symbols is required when warmup is enabled")
	}
	if !marketpkg.Period(c.Warmup.Period).Valid() {
		return fmt.Errorf("config: warmup.period %q is not a supported period", c.Warmup.Period)
	}
	return nil
}

func (c *Config) hydrateSections() error {
	if err := c.Market.Hydrate(c.baseDir, marketpkg.LoadConfig); err != nil {
		return fmt.Errorf("load market config: %w", err)
	}
	return nil
}

// ReturnWindowsOrDefault resolves the configured trailing-return windows.
func (c *Config) ReturnWindowsOrDefault() []int {
	if len(c.ReturnWindows) > 0 {
		return c.ReturnWindows
	}
	return marketpkg.DefaultReturnWindows
}

// ProviderPause resolves the inter-call pause as a duration.
func (c *Config) ProviderPause() time.Duration {
	return time.Duration(c.ProviderPauseMs) * time.Millisecond
}

func (c *Config) MainPath() string {
	return c.mainPath
}

func (c *Config) BaseDir() string {
	return c.baseDir
}
