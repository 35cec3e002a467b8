// Package config loads the application configuration.
//
// Values come from, in increasing priority: defaults, an optional TOML file,
// a ".env" file in the working directory, and TWFOLIO_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds application configuration
type Config struct {
	Ledger  LedgerConfig  `toml:"ledger"`
	Names   NamesConfig   `toml:"names"`
	Prices  PricesConfig  `toml:"prices"`
	Quotes  QuotesConfig  `toml:"quotes"`
	Server  ServerConfig  `toml:"server"`
	Logging LoggingConfig `toml:"logging"`
}

type LedgerConfig struct {
	Backend string `toml:"backend"` // jsonl or sqlite
	Path    string `toml:"path"`
	TTL     string `toml:"ttl"` // duration of the in memory ledger cache
}

// GetTTL returns the ledger cache TTL, 5 minutes by default.
func (c *LedgerConfig) GetTTL() time.Duration { return duration(c.TTL, 5*time.Minute) }

type NamesConfig struct {
	Path string `toml:"path"`
}

type PricesConfig struct {
	SheetURL  string `toml:"sheet_url"`
	SheetPath string `toml:"sheet_path"`
	TTL       string `toml:"ttl"`
	Refresh   string `toml:"refresh"` // cron schedule of the snapshot refresh
}

// GetTTL returns the price cache TTL, 30 minutes by default.
func (c *PricesConfig) GetTTL() time.Duration { return duration(c.TTL, 30*time.Minute) }

type QuotesConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
	Disable bool   `toml:"disable"`
}

// GetTimeout returns the live quote timeout, 10 seconds by default.
func (c *QuotesConfig) GetTimeout() time.Duration { return duration(c.Timeout, 10*time.Second) }

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

func duration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// NewDefaultConfig returns the configuration used when nothing is set.
func NewDefaultConfig() *Config {
	return &Config{
		Ledger: LedgerConfig{
			Backend: "jsonl",
			Path:    "transactions.jsonl",
			TTL:     "5m",
		},
		Names: NamesConfig{Path: "stock_names.csv"},
		Prices: PricesConfig{
			TTL:     "30m",
			Refresh: "@every 30m",
		},
		Quotes: QuotesConfig{
			BaseURL: "https://query1.finance.yahoo.com",
			Timeout: "10s",
		},
		Server:  ServerConfig{Addr: ":5000"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads the configuration. path is an optional TOML file; a missing
// file is not an error.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	// Load .env file if it exists
	_ = godotenv.Load()
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Ledger.Path == "" {
		return fmt.Errorf("ledger path is required")
	}
	switch c.Ledger.Backend {
	case "jsonl", "sqlite":
	default:
		return fmt.Errorf("unknown ledger backend %q", c.Ledger.Backend)
	}
	return nil
}

func applyEnvOverrides(c *Config) {
	c.Ledger.Backend = getEnv("TWFOLIO_LEDGER_BACKEND", c.Ledger.Backend)
	c.Ledger.Path = getEnv("TWFOLIO_LEDGER_PATH", c.Ledger.Path)
	c.Ledger.TTL = getEnv("TWFOLIO_LEDGER_TTL", c.Ledger.TTL)
	c.Names.Path = getEnv("TWFOLIO_NAMES_PATH", c.Names.Path)
	c.Prices.SheetURL = getEnv("TWFOLIO_PRICES_SHEET_URL", c.Prices.SheetURL)
	c.Prices.SheetPath = getEnv("TWFOLIO_PRICES_SHEET_PATH", c.Prices.SheetPath)
	c.Prices.TTL = getEnv("TWFOLIO_PRICES_TTL", c.Prices.TTL)
	c.Prices.Refresh = getEnv("TWFOLIO_PRICES_REFRESH", c.Prices.Refresh)
	c.Quotes.BaseURL = getEnv("TWFOLIO_QUOTES_BASE_URL", c.Quotes.BaseURL)
	c.Quotes.Timeout = getEnv("TWFOLIO_QUOTES_TIMEOUT", c.Quotes.Timeout)
	c.Quotes.Disable = getEnvAsBool("TWFOLIO_QUOTES_DISABLE", c.Quotes.Disable)
	c.Server.Addr = getEnv("TWFOLIO_SERVER_ADDR", c.Server.Addr)
	c.Logging.Level = getEnv("TWFOLIO_LOG_LEVEL", c.Logging.Level)
	c.Logging.Pretty = getEnvAsBool("TWFOLIO_LOG_PRETTY", c.Logging.Pretty)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
