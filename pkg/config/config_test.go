package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const minimalYAML = `
environment: test
server:
  port: 8080
postgres:
  dsn: postgres://localhost/marketlens
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Finnhub.BaseURL != "https://finnhub.io/api/v1" {
		t.Fatalf("base url = %q", cfg.Finnhub.BaseURL)
	}
	if cfg.Finnhub.RequestInterval != 300*time.Millisecond {
		t.Fatalf("request interval = %v", cfg.Finnhub.RequestInterval)
	}
	if cfg.Jobs.AlertSweepSpec != "@every 5m" {
		t.Fatalf("alert sweep spec = %q", cfg.Jobs.AlertSweepSpec)
	}
}

func TestLoadMissingAPIKeyIsNotAnError(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Finnhub.APIKey != "" {
		t.Fatalf("api key should be empty")
	}
}

func TestLoadRejectsMissingDSN(t *testing.T) {
	_, err := Load(writeConfig(t, "environment: test\nserver:\n  port: 8080\n"))
	if err == nil {
		t.Fatalf("expected validation error for missing dsn")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("FINNHUB_API_KEY", "env-key")
	t.Setenv("STREAM_SYMBOLS", "AAPL,TSLA")

	cfg, err := LoadWithEnv(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Finnhub.APIKey != "env-key" {
		t.Fatalf("api key = %q", cfg.Finnhub.APIKey)
	}
	if len(cfg.Finnhub.StreamSymbols) != 2 || cfg.Finnhub.StreamSymbols[1] != "TSLA" {
		t.Fatalf("stream symbols = %v", cfg.Finnhub.StreamSymbols)
	}
}
