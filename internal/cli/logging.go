package cli

import (
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"financeeye-api/internal/config"
	"financeeye-api/pkg/confkit"
)

// ConfigSummaryLines returns human readable lines describing the loaded app config.
func ConfigSummaryLines(cfg *config.Config) []string {
	if cfg == nil {
		return []string{"Configuration: <nil>"}
	}

	windows := make([]string, 0, len(cfg.ReturnWindowsOrDefault()))
	for _, w := range cfg.ReturnWindowsOrDefault() {
		windows = append(windows, fmt.Sprintf("%dd", w))
	}

	lines := []string{
		fmt.Sprintf("Environment: %s", cfg.Env),
		fmt.Sprintf("Return windows: %s", strings.Join(windows, " / ")),
		fmt.Sprintf("Provider pause: %s", cfg.ProviderPause()),
		fmt.Sprintf("Warmup: %s", warmupLine(cfg.Warmup)),
		sectionLine("Market config", cfg.Market),
	}

	return lines
}

// LogConfigSummary emits the configuration summary using logx.
func LogConfigSummary(cfg *config.Config) {
	lines := ConfigSummaryLines(cfg)
	if len(lines) == 0 {
		return
	}
	logx.Info("configuration summary")
	for _, line := range lines {
		logx.Infof("config • %s", line)
	}
}

func warmupLine(w config.WarmupConf) string {
	if !w.Enabled {
		return "disabled"
	}
	return fmt.Sprintf("%s, %d symbols, period %s", w.Schedule, len(w.Symbols), w.Period)
}

func sectionLine[T any](name string, section confkit.Section[T]) string {
	switch {
	case strings.TrimSpace(section.File) != "":
		return fmt.Sprintf("%s: %s", name, section.File)
	case section.Value != nil:
		return fmt.Sprintf("%s: inline", name)
	default:
		return fmt.Sprintf("%s: not configured", name)
	}
}
