package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/phuslu/log"

	"PortfolioTracker/internal/config"
	"PortfolioTracker/internal/portfolio"
	"PortfolioTracker/internal/quote"
	"PortfolioTracker/internal/recorder"
)

var configPath = flag.String("config", defaultConfigPath(), "Path to the YAML config file (env CONFIG_PATH)")

func defaultConfigPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}

// app bundles what every command needs. As a CLI it lives for one command.
type app struct {
	cfg      *config.Config
	manager  *portfolio.Manager
	recorder recorder.Recorder
}

// openApp loads and validates config, then loads the portfolio.
// Storage corruption is reported as is so callers can refuse to start.
func openApp() (*app, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	setupLogging(cfg.LogLevel)

	provider := newProvider(cfg)
	log.Debug().Str("provider", provider.Name()).Msg("quote provider ready")

	rec := openRecorder(cfg)
	m, err := portfolio.NewManager(portfolio.NewFileStore(cfg.Portfolio.File), provider, portfolio.WithRecorder(rec))
	if err != nil {
		rec.Close()
		return nil, err
	}
	return &app{cfg: cfg, manager: m, recorder: rec}, nil
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		log.Warn().Err(err).Msg("close recorder")
	}
}

func newProvider(cfg *config.Config) quote.Provider {
	if cfg.Quote.Provider == config.ProviderYahoo {
		p := quote.NewYahooProvider(cfg.Proxy, cfg.Quote.Timeout)
		if cfg.Quote.BaseURL != "" {
			p.BaseURL = cfg.Quote.BaseURL
		}
		return p
	}
	opts := []quote.AlphaVantageOption{
		quote.WithTimeout(cfg.Quote.Timeout),
		quote.WithProxy(cfg.Proxy),
		quote.WithRateLimit(cfg.Quote.RequestsPerMinute),
	}
	if cfg.Quote.BaseURL != "" {
		opts = append(opts, quote.WithBaseURL(cfg.Quote.BaseURL))
	}
	return quote.NewAlphaVantageProvider(cfg.Quote.APIKey, opts...)
}

func openRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

// reportOpenError prints why the tracker cannot start.
func reportOpenError(err error) {
	if errors.Is(err, portfolio.ErrStorageCorrupt) {
		log.Error().Err(err).Msg("portfolio storage corrupt")
		fmt.Fprintf(os.Stderr, "Refusing to start: %v\nFix or move the portfolio file aside; it was not modified.\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// describeError turns an operation error into a message for the user.
func describeError(err error) string {
	switch {
	case errors.Is(err, portfolio.ErrDuplicateSymbol):
		return fmt.Sprintf("%v. Use 'update' to modify it.", err)
	case errors.Is(err, portfolio.ErrSymbolNotFound):
		return err.Error() + "."
	case errors.Is(err, portfolio.ErrPriceUnavailable):
		return fmt.Sprintf("Could not fetch current price (%v). Not added to portfolio.", err)
	case errors.Is(err, portfolio.ErrInvalidNumericInput):
		return "Invalid input. Please enter non-negative numeric values for shares and price."
	case errors.Is(err, portfolio.ErrInvalidSymbol):
		return "Invalid symbol. Please enter a ticker such as AAPL."
	case errors.Is(err, portfolio.ErrStorageWrite):
		return fmt.Sprintf("Change applied in memory but not saved (%v).", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
