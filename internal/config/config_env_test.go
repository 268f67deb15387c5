package config

import (
	"os"
	"path/filepath"
	"testing"

	"financeeye-api/pkg/market"
	_ "financeeye-api/pkg/market/providers/yahoo"
)

// Test_marketConfig_envExpansion verifies that the market config expands
// environment variables when loaded via its LoadConfig function.
func Test_marketConfig_envExpansion(t *testing.T) {
	dir := t.TempDir()

	marketYAML := []byte(`
default: yahoo
providers:
  yahoo:
    type: yahoo
    base_url: ${FE_YAHOO_BASE}
    timeout: ${FE_YAHOO_TIMEOUT}
    http_timeout: ${FE_YAHOO_HTTP_TIMEOUT}
    max_retries: 2
`)
	mktPath := filepath.Join(dir, "market.yaml")
	if err := os.WriteFile(mktPath, marketYAML, 0o600); err != nil {
		t.Fatalf("write market.yaml: %v", err)
	}

	t.Setenv("FE_YAHOO_BASE", "https://query2.finance.yahoo.com")
	t.Setenv("FE_YAHOO_TIMEOUT", "7s")
	t.Setenv("FE_YAHOO_HTTP_TIMEOUT", "11s")

	cfg, err := market.LoadConfig(mktPath)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	provider := cfg.Providers["yahoo"]
	if provider.BaseURL != "https://query2.finance.yahoo.com" {
		t.Fatalf("base_url not expanded: %s", provider.BaseURL)
	}
	if provider.Timeout.Seconds() != 7 {
		t.Fatalf("timeout not expanded: %s", provider.Timeout)
	}
	if provider.HTTPTimeout.Seconds() != 11 {
		t.Fatalf("http_timeout not expanded: %s", provider.HTTPTimeout)
	}
}
