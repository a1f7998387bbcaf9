package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	cfg.DataDir = t.TempDir()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.DataDir, cfg.Cache.Dir)); err != nil {
		t.Fatalf("expected cache dir created under data dir: %v", err)
	}
}

func TestValidateRejectsOutOfRangeTerm(t *testing.T) {
	cfg := Default()
	cfg.DataDir = t.TempDir()
	cfg.DefaultTerm = 21
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for out-of-range term")
	}
}

func TestValidateRejectsBadThreshold(t *testing.T) {
	cfg := Default()
	cfg.DataDir = t.TempDir()
	cfg.Detection.DedupJaccardThreshold = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for out-of-range dedup threshold")
	}
}

func TestLoadFromFileMissingIsNotError(t *testing.T) {
	cfg := Default()
	if err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "does-not-exist.yaml")); err != nil {
		t.Fatalf("missing config file should not error: %v", err)
	}
}

func TestLoadFromFileOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "default_term: 7\nhttp:\n  base_url: https://example.test\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	cfg := Default()
	if err := cfg.LoadFromFile(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultTerm != 7 {
		t.Errorf("DefaultTerm = %d, want 7", cfg.DefaultTerm)
	}
	if cfg.HTTP.BaseURL != "https://example.test" {
		t.Errorf("BaseURL = %q, want https://example.test", cfg.HTTP.BaseURL)
	}
}

func TestLoadFromEnvOverridesAPIKey(t *testing.T) {
	cfg := Default()
	t.Setenv("PAID_A_API_KEY", "secret-key")
	t.Setenv("DEFAULT_TERM", "9")
	cfg.LoadFromEnv()
	if cfg.AI.Providers["paid_a"].APIKey != "secret-key" {
		t.Fatalf("expected paid_a API key to be overridden from env")
	}
	if cfg.DefaultTerm != 9 {
		t.Errorf("DefaultTerm = %d, want 9", cfg.DefaultTerm)
	}
}
