package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"QUOTE_PROVIDER", "ALPHAVANTAGE_API_KEY", "QUOTE_BASE_URL", "PORTFOLIO_FILE", "SQLITE_PATH",
	"REFRESH_CRON", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "HTTPS_PROXY", "LOG_LEVEL",
	"QUOTE_TIMEOUT", "QUOTE_REQUESTS_PER_MINUTE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ProviderAlphaVantage, cfg.Quote.Provider)
	assert.Equal(t, 10*time.Second, cfg.Quote.Timeout)
	assert.Equal(t, 5, cfg.Quote.RequestsPerMinute)
	assert.Equal(t, "portfolio.json", cfg.Portfolio.File)
	assert.Equal(t, "", cfg.Database.SQLitePath)
	assert.Equal(t, "0 */15 9-16 * * 1-5", cfg.Schedule.RefreshCron)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
quote:
  provider: Yahoo
  timeout: 3s
  requests_per_minute: 75
portfolio:
  file: data/holdings.json
database:
  sqlite_path: data/journal.db
telegram:
  bot_token: abc
  chat_id: "123"
log_level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderYahoo, cfg.Quote.Provider)
	assert.Equal(t, 3*time.Second, cfg.Quote.Timeout)
	assert.Equal(t, 75, cfg.Quote.RequestsPerMinute)
	assert.Equal(t, "data/holdings.json", cfg.Portfolio.File)
	assert.Equal(t, "data/journal.db", cfg.Database.SQLitePath)
	assert.True(t, cfg.TelegramEnabled())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "quote:\n  api_key: from-file\nportfolio:\n  file: a.json\n")
	t.Setenv("ALPHAVANTAGE_API_KEY", "from-env")
	t.Setenv("PORTFOLIO_FILE", "b.json")
	t.Setenv("QUOTE_TIMEOUT", "750ms")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Quote.APIKey)
	assert.Equal(t, "b.json", cfg.Portfolio.File)
	assert.Equal(t, 750*time.Millisecond, cfg.Quote.Timeout)
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "quote: [unterminated"))
	assert.Error(t, err)
}

func TestLoad_ZeroRequestsPerMinuteDisablesLimit(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, "quote:\n  requests_per_minute: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Quote.RequestsPerMinute)

	cfg, err = Load(writeConfig(t, "quote:\n  provider: yahoo\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Quote.RequestsPerMinute, "absent key keeps the default")

	t.Setenv("QUOTE_REQUESTS_PER_MINUTE", "0")
	cfg, err = Load(writeConfig(t, "quote:\n  requests_per_minute: 30\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Quote.RequestsPerMinute)
}

func TestLoad_MalformedEnvNumbers(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"QUOTE_TIMEOUT", "ten seconds"},
		{"QUOTE_REQUESTS_PER_MINUTE", "many"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid alphavantage", func(c *Config) { c.Quote.APIKey = "real-key" }, false},
		{"missing key", func(c *Config) {}, true},
		{"placeholder key", func(c *Config) { c.Quote.APIKey = PlaceholderAPIKey }, true},
		{"yahoo needs no key", func(c *Config) { c.Quote.Provider = ProviderYahoo }, false},
		{"unknown provider", func(c *Config) { c.Quote.Provider = "bloomberg"; c.Quote.APIKey = "k" }, true},
		{"half telegram", func(c *Config) { c.Quote.APIKey = "k"; c.Telegram.BotToken = "t" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
