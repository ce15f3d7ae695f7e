package config

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"CoinSentry/internal/model"
)

// SymbolConfig maps a display symbol to its CoinGecko id and alert band.
type SymbolConfig struct {
	Symbol      string  `yaml:"symbol"`
	CoinGeckoID string  `yaml:"coingecko_id"`
	BandLow     float64 `yaml:"band_low"`
	BandHigh    float64 `yaml:"band_high"`
}

// Band returns the symbol's alert band as decimals.
func (s SymbolConfig) Band() model.Band {
	return model.Band{
		Low:  decimal.NewFromFloat(s.BandLow),
		High: decimal.NewFromFloat(s.BandHigh),
	}
}

// Config holds all application configuration.
type Config struct {
	Symbols []SymbolConfig `yaml:"symbols"`
	Poll    struct {
		Interval string `yaml:"interval"` // Go duration string, e.g. "30s"
		Samples  int    `yaml:"samples"`  // 0 = run until interrupted
	} `yaml:"poll"`
	Fetch struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"fetch"`
	Output struct {
		PricesCSV   string `yaml:"prices_csv"`
		AlertsCSV   string `yaml:"alerts_csv"`
		SessionJSON string `yaml:"session_json"`
	} `yaml:"output"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
		Timeout  string `yaml:"timeout"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("COINGECKO_BASE_URL"); v != "" {
		cfg.Fetch.BaseURL = v
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		cfg.Poll.Interval = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = DefaultSymbols()
	}
	if cfg.Poll.Interval == "" {
		cfg.Poll.Interval = "30s"
	}
	if cfg.Fetch.Timeout == "" {
		cfg.Fetch.Timeout = "10s"
	}
	if cfg.Fetch.BaseURL == "" {
		cfg.Fetch.BaseURL = "https://api.coingecko.com"
	}
	if cfg.Output.PricesCSV == "" {
		cfg.Output.PricesCSV = "data/prices.csv"
	}
	if cfg.Output.AlertsCSV == "" {
		cfg.Output.AlertsCSV = "data/alerts.csv"
	}
	if cfg.Output.SessionJSON == "" {
		cfg.Output.SessionJSON = "data/session.json"
	}
	if cfg.Telegram.Timeout == "" {
		cfg.Telegram.Timeout = "30s"
	}
	// database.sqlite_path has no default: empty disables the SQLite recorder.

	return cfg, nil
}

// DefaultSymbols is the tracked set used when the config lists none.
func DefaultSymbols() []SymbolConfig {
	return []SymbolConfig{
		{Symbol: "BTC", CoinGeckoID: "bitcoin", BandLow: 110000, BandHigh: 113000},
		{Symbol: "ETH", CoinGeckoID: "ethereum", BandLow: 4000, BandHigh: 4100},
		{Symbol: "DOGE", CoinGeckoID: "dogecoin", BandLow: 0.20, BandHigh: 0.23},
	}
}

// Validate checks that all required fields are set and every band is well formed.
// A band with low >= high refuses to start; misconfiguration is a setup error.
func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("at least one symbol is required")
	}
	seen := make(map[string]bool, len(c.Symbols))
	for _, s := range c.Symbols {
		if s.Symbol == "" {
			return fmt.Errorf("symbol name is required")
		}
		if s.CoinGeckoID == "" {
			return fmt.Errorf("%s: coingecko_id is required", s.Symbol)
		}
		if seen[s.Symbol] {
			return fmt.Errorf("%s: duplicate symbol", s.Symbol)
		}
		seen[s.Symbol] = true
		if s.BandLow >= s.BandHigh {
			return fmt.Errorf("%s: band_low (%v) must be less than band_high (%v)", s.Symbol, s.BandLow, s.BandHigh)
		}
	}
	if _, err := time.ParseDuration(c.Poll.Interval); err != nil {
		return fmt.Errorf("poll.interval: %w", err)
	}
	if c.PollInterval() <= 0 {
		return fmt.Errorf("poll.interval must be positive, got %s", c.Poll.Interval)
	}
	if _, err := time.ParseDuration(c.Fetch.Timeout); err != nil {
		return fmt.Errorf("fetch.timeout: %w", err)
	}
	if c.FetchTimeout() <= 0 {
		return fmt.Errorf("fetch.timeout must be positive, got %s", c.Fetch.Timeout)
	}
	if c.Poll.Samples < 0 {
		return fmt.Errorf("poll.samples must not be negative, got %d", c.Poll.Samples)
	}
	if c.Telegram.Timeout != "" {
		if _, err := time.ParseDuration(c.Telegram.Timeout); err != nil {
			return fmt.Errorf("telegram.timeout: %w", err)
		}
	}
	return nil
}

// PollInterval returns the parsed poll interval. Call Validate first.
func (c *Config) PollInterval() time.Duration {
	d, _ := time.ParseDuration(c.Poll.Interval)
	return d
}

// FetchTimeout returns the parsed per-request fetch timeout. Call Validate first.
func (c *Config) FetchTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Fetch.Timeout)
	return d
}

// TelegramTimeout returns the parsed Telegram request timeout, falling back to
// 30 seconds when unset.
func (c *Config) TelegramTimeout() time.Duration {
	d, err := time.ParseDuration(c.Telegram.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// Bands returns the symbol to band mapping.
func (c *Config) Bands() map[string]model.Band {
	bands := make(map[string]model.Band, len(c.Symbols))
	for _, s := range c.Symbols {
		bands[s.Symbol] = s.Band()
	}
	return bands
}
