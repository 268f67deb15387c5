package confkit_test

import (
	"os"
	"path/filepath"
	"testing"

	"financeeye-api/pkg/confkit"
)

func TestResolvePath(t *testing.T) {
	t.Run("absolute path passes through", func(t *testing.T) {
		got := confkit.ResolvePath("/base/dir", "/abs/market.yaml")
		if got != "/abs/market.yaml" {
			t.Errorf("ResolvePath() = %v", got)
		}
	})

	t.Run("relative path joins base", func(t *testing.T) {
		got := confkit.ResolvePath("/base/dir", "market.yaml")
		if got != "/base/dir/market.yaml" {
			t.Errorf("ResolvePath() = %v", got)
		}
	})

	t.Run("env vars expanded before joining", func(t *testing.T) {
		t.Setenv("FE_CONF_DIR", "conf")
		got := confkit.ResolvePath("/base", "${FE_CONF_DIR}/market.yaml")
		if got != filepath.Join("/base", "conf", "market.yaml") {
			t.Errorf("ResolvePath() = %v", got)
		}
	})
}

func TestBaseDir(t *testing.T) {
	if got := confkit.BaseDir("/etc/config/app.yaml"); got != "/etc/config" {
		t.Errorf("BaseDir() = %v", got)
	}
	if got := confkit.BaseDir("config/app.yaml"); got != "config" {
		t.Errorf("BaseDir() = %v", got)
	}
}

func TestLoadFile(t *testing.T) {
	type sample struct {
		Name string
		Port int `json:",default=8080"`
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "sample.yaml")
	if err := os.WriteFile(path, []byte("Name: financeeye\n"), 0o600); err != nil {
		t.Fatalf("write sample: %v", err)
	}

	cfg, err := confkit.LoadFile[sample](path, false)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.Name != "financeeye" || cfg.Port != 8080 {
		t.Errorf("LoadFile() = %+v", cfg)
	}

	if _, err := confkit.LoadFile[sample](filepath.Join(dir, "missing.yaml"), false); err == nil {
		t.Error("LoadFile() should fail for a missing file")
	}
}

func TestSection_Hydrate(t *testing.T) {
	t.Run("empty file leaves section untouched", func(t *testing.T) {
		section := &confkit.Section[string]{}
		err := section.Hydrate("/base", func(path string) (*string, error) {
			t.Error("loader should not be called for empty file")
			return nil, nil
		})
		if err != nil {
			t.Errorf("Hydrate() error: %v", err)
		}
		if section.Value != nil {
			t.Error("Value should remain nil for empty file")
		}
	})

	t.Run("hydration resolves path and stores value", func(t *testing.T) {
		section := &confkit.Section[string]{File: "market.yaml"}
		expected := "loaded"

		err := section.Hydrate("/base", func(path string) (*string, error) {
			if path != "/base/market.yaml" {
				t.Errorf("loader received path %v", path)
			}
			return &expected, nil
		})
		if err != nil {
			t.Errorf("Hydrate() error: %v", err)
		}
		if section.Value == nil || *section.Value != expected {
			t.Errorf("Value = %v", section.Value)
		}
		if section.File != "/base/market.yaml" {
			t.Errorf("File = %v", section.File)
		}
	})
}
