// Package config loads the tracker configuration from TOML files with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/tracker"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the tracker.
type Config struct {
	Ledger  LedgerConfig  `toml:"ledger"`
	Logging LoggingConfig `toml:"logging"`
	Chart   ChartConfig   `toml:"chart"`
}

// LedgerConfig holds the defaults of a new ledger.
type LedgerConfig struct {
	ExchangeRate float64 `toml:"exchange_rate"` // KRW per USD
	TaxRate      float64 `toml:"tax_rate"`      // applied to foreign gains when a sell omits it
	FundMarker   string  `toml:"fund_marker"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

// ChartConfig holds the size of generated charts, in pixels.
type ChartConfig struct {
	Width          int     `toml:"width"`
	Height         int     `toml:"height"`
	OtherThreshold float64 `toml:"other_threshold"` // holdings below this percentage are grouped
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Ledger: LedgerConfig{
			ExchangeRate: tracker.DefaultExchangeRate,
			TaxRate:      tracker.DefaultTaxRate,
			FundMarker:   tracker.DefaultFundMarker,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Chart: ChartConfig{
			Width:          800,
			Height:         600,
			OtherThreshold: 1,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Files are merged in order, later files override earlier ones, and
// missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if rate := os.Getenv("TRK_EXCHANGE_RATE"); rate != "" {
		if r, err := strconv.ParseFloat(rate, 64); err == nil {
			config.Ledger.ExchangeRate = r
		}
	}

	if tax := os.Getenv("TRK_TAX_RATE"); tax != "" {
		if r, err := strconv.ParseFloat(tax, 64); err == nil {
			config.Ledger.TaxRate = r
		}
	}

	if marker := os.Getenv("TRK_FUND_MARKER"); marker != "" {
		config.Ledger.FundMarker = marker
	}

	if level := os.Getenv("TRK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// Validate returns every invalid setting, joined.
func (c *Config) Validate() error {
	var errs []error
	if c.Ledger.ExchangeRate <= 0 {
		errs = append(errs, fmt.Errorf("ledger.exchange_rate must be positive, got %v", c.Ledger.ExchangeRate))
	}
	if c.Ledger.TaxRate < 0 || c.Ledger.TaxRate > 1 {
		errs = append(errs, fmt.Errorf("ledger.tax_rate must be within [0, 1], got %v", c.Ledger.TaxRate))
	}
	if strings.TrimSpace(c.Ledger.FundMarker) == "" {
		errs = append(errs, errors.New("ledger.fund_marker is empty"))
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format))
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		errs = append(errs, fmt.Errorf("chart size must be positive, got %dx%d", c.Chart.Width, c.Chart.Height))
	}
	if c.Chart.OtherThreshold < 0 || c.Chart.OtherThreshold >= 100 {
		errs = append(errs, fmt.Errorf("chart.other_threshold must be within [0, 100), got %v", c.Chart.OtherThreshold))
	}
	return errors.Join(errs...)
}

// LedgerOptions returns the options that configure a new ledger.
func (c *Config) LedgerOptions() []tracker.Option {
	return []tracker.Option{
		tracker.WithExchangeRate(tracker.Rate(c.Ledger.ExchangeRate)),
		tracker.WithTaxRate(c.Ledger.TaxRate),
		tracker.WithFundMarker(c.Ledger.FundMarker),
	}
}
