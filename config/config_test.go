package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, 1300.0, cfg.Ledger.ExchangeRate)
	assert.Equal(t, 0.22, cfg.Ledger.TaxRate)
	assert.Equal(t, "ETF", cfg.Ledger.FundMarker)
	assert.Equal(t, 1.0, cfg.Chart.OtherThreshold)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_MergesFilesInOrder(t *testing.T) {
	base := writeFile(t, "base.toml", `
[ledger]
exchange_rate = 1350.5
tax_rate = 0.15

[chart]
width = 1024
`)
	local := writeFile(t, "local.toml", `
[ledger]
tax_rate = 0.2
`)

	cfg, err := LoadConfig(base, filepath.Join(t.TempDir(), "missing.toml"), "", local)
	require.NoError(t, err)
	assert.Equal(t, 1350.5, cfg.Ledger.ExchangeRate)
	assert.Equal(t, 0.2, cfg.Ledger.TaxRate)
	assert.Equal(t, "ETF", cfg.Ledger.FundMarker)
	assert.Equal(t, 1024, cfg.Chart.Width)
	assert.Equal(t, 600, cfg.Chart.Height)
}

func TestLoadConfig_ParseError(t *testing.T) {
	path := writeFile(t, "bad.toml", "[ledger\nexchange_rate = ")
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	path := writeFile(t, "invalid.toml", `
[ledger]
exchange_rate = -1
tax_rate = 1.5

[logging]
format = "xml"
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	for _, want := range []string{"exchange_rate", "tax_rate", "logging.format"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("TRK_EXCHANGE_RATE", "1400")
	t.Setenv("TRK_TAX_RATE", "0.1")
	t.Setenv("TRK_FUND_MARKER", "KODEX")
	t.Setenv("TRK_LOG_LEVEL", "debug")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, 1400.0, cfg.Ledger.ExchangeRate)
	assert.Equal(t, 0.1, cfg.Ledger.TaxRate)
	assert.Equal(t, "KODEX", cfg.Ledger.FundMarker)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestConfig_EnvOverrideIgnoresGarbage(t *testing.T) {
	t.Setenv("TRK_EXCHANGE_RATE", "lots")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, 1300.0, cfg.Ledger.ExchangeRate)
}

func TestConfig_LedgerOptions(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Ledger.ExchangeRate = 1400
	cfg.Ledger.TaxRate = 0.5
	cfg.Ledger.FundMarker = "KODEX"

	l := tracker.NewLedger(cfg.LedgerOptions()...)
	assert.True(t, l.ExchangeRate().Equal(tracker.Rate(1400)))
	assert.Equal(t, 0.5, l.TaxRate())
	assert.Equal(t, "KODEX", l.FundMarker())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(LoggingConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	log.Info().Msg("hidden")
	log.Warn().Str("ticker", "X").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"ticker":"X"`)
	assert.Equal(t, 1, strings.Count(out, "\n"))

	_, err = NewLogger(LoggingConfig{Level: "loud"}, &buf)
	assert.Error(t, err)
}
