package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Quote provider names.
const (
	ProviderAlphaVantage = "alphavantage"
	ProviderYahoo        = "yahoo"
)

// PlaceholderAPIKey is the sample key that must be replaced before use.
const PlaceholderAPIKey = "YOUR_ALPHA_VANTAGE_API_KEY"

// Config holds all application configuration.
type Config struct {
	Quote struct {
		Provider          string        `yaml:"provider"`
		BaseURL           string        `yaml:"base_url"`
		APIKey            string        `yaml:"api_key"`
		Timeout           time.Duration `yaml:"timeout"`
		RequestsPerMinute int           `yaml:"requests_per_minute"`
	} `yaml:"quote"`
	Portfolio struct {
		File string `yaml:"file"`
	} `yaml:"portfolio"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy    string `yaml:"proxy"`
	LogLevel string `yaml:"log_level"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	// Zero is meaningful here (no limit), so the default is set before decoding.
	cfg.Quote.RequestsPerMinute = 5

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
	if v := os.Getenv("QUOTE_PROVIDER"); v != "" {
		cfg.Quote.Provider = v
	}
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.Quote.APIKey = v
	}
	if v := os.Getenv("QUOTE_BASE_URL"); v != "" {
		cfg.Quote.BaseURL = v
	}
	if v := os.Getenv("PORTFOLIO_FILE"); v != "" {
		cfg.Portfolio.File = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("QUOTE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse QUOTE_TIMEOUT: %w", err)
		}
		cfg.Quote.Timeout = d
	}
	if v := os.Getenv("QUOTE_REQUESTS_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse QUOTE_REQUESTS_PER_MINUTE: %w", err)
		}
		cfg.Quote.RequestsPerMinute = n
	}

	// Defaults
	cfg.Quote.Provider = strings.ToLower(strings.TrimSpace(cfg.Quote.Provider))
	if cfg.Quote.Provider == "" {
		cfg.Quote.Provider = ProviderAlphaVantage
	}
	if cfg.Quote.Timeout == 0 {
		cfg.Quote.Timeout = 10 * time.Second
	}
	if cfg.Portfolio.File == "" {
		cfg.Portfolio.File = "portfolio.json"
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 */15 9-16 * * 1-5"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.Quote.Provider {
	case ProviderAlphaVantage:
		key := strings.TrimSpace(c.Quote.APIKey)
		if key == "" {
			return fmt.Errorf("quote.api_key is required for the %s provider (get one at https://www.alphavantage.co/)", ProviderAlphaVantage)
		}
		if key == PlaceholderAPIKey {
			return fmt.Errorf("quote.api_key is still the placeholder %q, replace it with a real Alpha Vantage key", PlaceholderAPIKey)
		}
	case ProviderYahoo:
	default:
		return fmt.Errorf("quote.provider %q is not supported (use %s or %s)", c.Quote.Provider, ProviderAlphaVantage, ProviderYahoo)
	}
	if c.Quote.Timeout < 0 {
		return fmt.Errorf("quote.timeout must not be negative")
	}
	if c.Portfolio.File == "" {
		return fmt.Errorf("portfolio.file is required")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// TelegramEnabled reports whether watch mode should push to Telegram.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
