// Package common provides shared utilities for ValutaHub
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for ValutaHub.
type Config struct {
	Environment  string           `toml:"environment"`
	DataPath     string           `toml:"data_path"`
	BaseCurrency string           `toml:"base_currency"`
	Cache        CacheConfig      `toml:"cache"`
	Clients      ClientsConfig    `toml:"clients"`
	Currencies   CurrenciesConfig `toml:"currencies"`
	Logging      LoggingConfig    `toml:"logging"`
}

// CacheConfig holds the rate cache freshness contract.
type CacheConfig struct {
	TTLSeconds int `toml:"ttl_seconds"`
}

// TTL returns the cache freshness window.
func (c *CacheConfig) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return 300 * time.Second
	}
	return time.Duration(c.TTLSeconds) * time.Second
}

// ClientsConfig holds rate source client configurations.
type ClientsConfig struct {
	CoinGecko    CoinGeckoConfig    `toml:"coingecko"`
	ExchangeRate ExchangeRateConfig `toml:"exchangerate"`
}

// CoinGeckoConfig holds CoinGecko API configuration. No API key is required
// for the simple price endpoint.
type CoinGeckoConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration.
func (c *CoinGeckoConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// ExchangeRateConfig holds ExchangeRate-API configuration.
type ExchangeRateConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration.
func (c *ExchangeRateConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// CurrenciesConfig lists the tracked currencies and their provider-specific
// identifiers.
type CurrenciesConfig struct {
	Fiat      []string          `toml:"fiat"`
	Crypto    []string          `toml:"crypto"`
	CryptoIDs map[string]string `toml:"crypto_ids"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Environment:  "development",
		DataPath:     "data",
		BaseCurrency: "USD",
		Cache: CacheConfig{
			TTLSeconds: 300,
		},
		Clients: ClientsConfig{
			CoinGecko: CoinGeckoConfig{
				BaseURL:   "https://api.coingecko.com/api/v3",
				RateLimit: 5,
				Timeout:   "10s",
			},
			ExchangeRate: ExchangeRateConfig{
				BaseURL:   "https://v6.exchangerate-api.com/v6",
				RateLimit: 5,
				Timeout:   "10s",
			},
		},
		Currencies: CurrenciesConfig{
			Fiat:   []string{"EUR", "GBP", "RUB"},
			Crypto: []string{"BTC", "ETH", "SOL"},
			CryptoIDs: map[string]string{
				"BTC": "bitcoin",
				"ETH": "ethereum",
				"SOL": "solana",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("VALUTAHUB_ENV"); env != "" {
		config.Environment = env
	}
	if path := os.Getenv("VALUTAHUB_DATA_PATH"); path != "" {
		config.DataPath = path
	}
	if level := os.Getenv("VALUTAHUB_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if base := os.Getenv("VALUTAHUB_BASE_CURRENCY"); base != "" {
		config.BaseCurrency = base
	}
	if ttl := os.Getenv("VALUTAHUB_RATES_TTL"); ttl != "" {
		if v, err := strconv.Atoi(ttl); err == nil && v > 0 {
			config.Cache.TTLSeconds = v
		}
	}
	if timeout := os.Getenv("VALUTAHUB_REQUEST_TIMEOUT"); timeout != "" {
		if _, err := time.ParseDuration(timeout); err == nil {
			config.Clients.CoinGecko.Timeout = timeout
			config.Clients.ExchangeRate.Timeout = timeout
		}
	}
	if key := ResolveAPIKey("exchangerate_api_key", config.Clients.ExchangeRate.APIKey); key != "" {
		config.Clients.ExchangeRate.APIKey = key
	}
}

// ResolveAPIKey resolves an API key from the environment, falling back to the
// configured value.
func ResolveAPIKey(name string, fallback string) string {
	keyToEnvMapping := map[string][]string{
		"exchangerate_api_key": {"EXCHANGERATE_API_KEY", "VALUTAHUB_EXCHANGERATE_API_KEY"},
	}
	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if v := os.Getenv(envVarName); v != "" {
				return v
			}
		}
	}
	return fallback
}

// FilePath resolves a data file name against the configured data path.
func (c *Config) FilePath(name string) string {
	return filepath.Join(c.DataPath, name)
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
