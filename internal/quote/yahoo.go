package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const YahooBaseURL = "https://query1.finance.yahoo.com"

// YahooProvider implements Provider using Yahoo Finance public chart API.
type YahooProvider struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // optional portfolio symbol to Yahoo ticker aliases
}

// NewYahooProvider creates a new Yahoo Finance provider.
func NewYahooProvider(proxyURL string, timeout time.Duration) *YahooProvider {
	return &YahooProvider{
		BaseURL:   YahooBaseURL,
		Client:    newHTTPClient(proxyURL, timeout),
		SymbolMap: map[string]string{},
	}
}

func (f *YahooProvider) Name() string { return "yahoo" }

func (f *YahooProvider) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (f *YahooProvider) FetchPrice(ctx context.Context, symbol string) (float64, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d",
		strings.TrimRight(f.BaseURL, "/"), url.PathEscape(f.yahooSymbol(symbol)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrQuoteUnavailable, symbol, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: yahoo fetch: %v", ErrQuoteUnavailable, symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: yahoo read body: %v", ErrQuoteUnavailable, symbol, err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: %s: yahoo status %d", ErrQuoteUnavailable, symbol, resp.StatusCode)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return 0, fmt.Errorf("%w: %s: yahoo decode: %v", ErrQuoteUnavailable, symbol, err)
	}
	if chart.Chart.Error != nil {
		return 0, fmt.Errorf("%w: %s: yahoo api error: %s", ErrQuoteUnavailable, symbol, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return 0, fmt.Errorf("%w: %s: yahoo: no data returned", ErrQuoteUnavailable, symbol)
	}

	result := chart.Chart.Result[0]
	if p := result.Meta.RegularMarketPrice; p != nil && *p > 0 {
		return *p, nil
	}
	// Fall back to the last non-null close (holidays leave nulls).
	for _, q := range result.Indicators.Quote {
		for i := len(q.Close) - 1; i >= 0; i-- {
			if c := q.Close[i]; c != nil && *c > 0 {
				return *c, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %s: yahoo: no price data", ErrQuoteUnavailable, symbol)
}
