package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	AlphaVantageBaseURL = "https://www.alphavantage.co"
	// DefaultRequestsPerMinute matches the free tier burst limit.
	DefaultRequestsPerMinute = 5
)

// AlphaVantageProvider implements Provider using the GLOBAL_QUOTE function.
type AlphaVantageProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	limiter *rate.Limiter
}

// AlphaVantageOption configures the provider.
type AlphaVantageOption func(*AlphaVantageProvider)

// WithBaseURL overrides the service root, mostly for tests.
func WithBaseURL(baseURL string) AlphaVantageOption {
	return func(p *AlphaVantageProvider) {
		p.BaseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) AlphaVantageOption {
	return func(p *AlphaVantageProvider) {
		if timeout > 0 {
			p.Client.Timeout = timeout
		}
	}
}

// WithProxy routes requests through an HTTP proxy.
func WithProxy(proxyURL string) AlphaVantageOption {
	return func(p *AlphaVantageProvider) {
		timeout := p.Client.Timeout
		p.Client = newHTTPClient(proxyURL, timeout)
	}
}

// WithRateLimit caps outgoing requests. A non-positive value disables the limiter.
func WithRateLimit(requestsPerMinute int) AlphaVantageOption {
	return func(p *AlphaVantageProvider) {
		if requestsPerMinute <= 0 {
			p.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		p.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute)
	}
}

// NewAlphaVantageProvider creates a provider for the given API key.
func NewAlphaVantageProvider(apiKey string, opts ...AlphaVantageOption) *AlphaVantageProvider {
	p := &AlphaVantageProvider{
		BaseURL: AlphaVantageBaseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient("", DefaultTimeout),
		limiter: rate.NewLimiter(rate.Every(time.Minute/DefaultRequestsPerMinute), DefaultRequestsPerMinute),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *AlphaVantageProvider) Name() string { return "alphavantage" }

// avGlobalQuote is the GLOBAL_QUOTE response. On throttling or bad input the
// service answers 200 with one of the message fields instead of the quote.
type avGlobalQuote struct {
	Quote        map[string]string `json:"Global Quote"`
	Note         string            `json:"Note"`
	Information  string            `json:"Information"`
	ErrorMessage string            `json:"Error Message"`
}

func (p *AlphaVantageProvider) FetchPrice(ctx context.Context, symbol string) (float64, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("%w: %s: rate limit wait: %v", ErrQuoteUnavailable, symbol, err)
	}

	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", symbol)
	params.Set("apikey", p.APIKey)
	endpoint := fmt.Sprintf("%s/query?%s", p.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrQuoteUnavailable, symbol, err)
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: fetch: %v", ErrQuoteUnavailable, symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: read body: %v", ErrQuoteUnavailable, symbol, err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: %s: status %d", ErrQuoteUnavailable, symbol, resp.StatusCode)
	}

	var result avGlobalQuote
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, fmt.Errorf("%w: %s: decode: %v", ErrQuoteUnavailable, symbol, err)
	}
	switch {
	case result.Note != "":
		return 0, fmt.Errorf("%w: %s: %s", ErrQuoteUnavailable, symbol, result.Note)
	case result.Information != "":
		return 0, fmt.Errorf("%w: %s: %s", ErrQuoteUnavailable, symbol, result.Information)
	case result.ErrorMessage != "":
		return 0, fmt.Errorf("%w: %s: %s", ErrQuoteUnavailable, symbol, result.ErrorMessage)
	}

	raw, ok := result.Quote["05. price"]
	if !ok || raw == "" {
		return 0, fmt.Errorf("%w: %s: no quote returned", ErrQuoteUnavailable, symbol)
	}
	return parsePrice(symbol, raw)
}

func parsePrice(symbol, raw string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: bad price %q", ErrQuoteUnavailable, symbol, raw)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, fmt.Errorf("%w: %s: non-positive price %v", ErrQuoteUnavailable, symbol, price)
	}
	return price, nil
}
