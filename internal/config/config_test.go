package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Symbols) != 3 {
		t.Fatalf("expected 3 default symbols, got %d", len(cfg.Symbols))
	}
	if cfg.Symbols[0].Symbol != "BTC" || cfg.Symbols[0].CoinGeckoID != "bitcoin" {
		t.Errorf("unexpected first default symbol: %+v", cfg.Symbols[0])
	}
	if cfg.PollInterval() != 30*time.Second {
		t.Errorf("default interval = %v, want 30s", cfg.PollInterval())
	}
	if cfg.FetchTimeout() != 10*time.Second {
		t.Errorf("default timeout = %v, want 10s", cfg.FetchTimeout())
	}
	if cfg.Output.PricesCSV == "" || cfg.Output.AlertsCSV == "" {
		t.Error("output paths should have defaults")
	}
	if cfg.Database.SQLitePath != "" {
		t.Errorf("sqlite path should stay empty by default, got %s", cfg.Database.SQLitePath)
	}
	if cfg.TelegramTimeout() != 30*time.Second {
		t.Errorf("default telegram timeout = %v, want 30s", cfg.TelegramTimeout())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_EmptySQLitePathDisablesRecorder(t *testing.T) {
	path := writeConfig(t, `
database:
  sqlite_path: ""
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.SQLitePath != "" {
		t.Errorf("empty sqlite path must stay empty, got %s", cfg.Database.SQLitePath)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
symbols:
  - symbol: SOL
    coingecko_id: solana
    band_low: 150
    band_high: 250
poll:
  interval: 1m
`)
	t.Setenv("POLL_INTERVAL", "45s")
	t.Setenv("SQLITE_PATH", "/tmp/override.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Symbols) != 1 || cfg.Symbols[0].Symbol != "SOL" {
		t.Fatalf("unexpected symbols: %+v", cfg.Symbols)
	}
	if cfg.PollInterval() != 45*time.Second {
		t.Errorf("env override lost: interval = %v, want 45s", cfg.PollInterval())
	}
	if cfg.Database.SQLitePath != "/tmp/override.db" {
		t.Errorf("env override lost: sqlite path = %s", cfg.Database.SQLitePath)
	}
}

func TestSymbolConfig_Band(t *testing.T) {
	s := SymbolConfig{Symbol: "DOGE", CoinGeckoID: "dogecoin", BandLow: 0.20, BandHigh: 0.23}
	b := s.Band()
	if b.Low.String() != "0.2" {
		t.Errorf("band low = %s, want 0.2", b.Low)
	}
	if b.High.String() != "0.23" {
		t.Errorf("band high = %s, want 0.23", b.High)
	}
}

func TestValidate_Errors(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		cfg.Symbols = DefaultSymbols()
		cfg.Poll.Interval = "30s"
		cfg.Fetch.Timeout = "10s"
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no symbols", func(c *Config) { c.Symbols = nil }},
		{"inverted band", func(c *Config) { c.Symbols[0].BandLow = 113000; c.Symbols[0].BandHigh = 110000 }},
		{"empty band", func(c *Config) { c.Symbols[0].BandLow = 110000; c.Symbols[0].BandHigh = 110000 }},
		{"missing coingecko id", func(c *Config) { c.Symbols[1].CoinGeckoID = "" }},
		{"duplicate symbol", func(c *Config) { c.Symbols[1].Symbol = c.Symbols[0].Symbol }},
		{"bad interval", func(c *Config) { c.Poll.Interval = "soon" }},
		{"zero interval", func(c *Config) { c.Poll.Interval = "0s" }},
		{"bad timeout", func(c *Config) { c.Fetch.Timeout = "later" }},
		{"negative samples", func(c *Config) { c.Poll.Samples = -1 }},
		{"bad telegram timeout", func(c *Config) { c.Telegram.Timeout = "whenever" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestBands_MatchesSymbols(t *testing.T) {
	cfg := &Config{Symbols: DefaultSymbols()}
	bands := cfg.Bands()
	if len(bands) != len(cfg.Symbols) {
		t.Fatalf("expected %d bands, got %d", len(cfg.Symbols), len(bands))
	}
	for _, s := range cfg.Symbols {
		b, ok := bands[s.Symbol]
		if !ok {
			t.Errorf("%s missing from bands", s.Symbol)
			continue
		}
		if b.Low.GreaterThanOrEqual(b.High) {
			t.Errorf("%s: band not ordered: [%s, %s]", s.Symbol, b.Low, b.High)
		}
	}
}
