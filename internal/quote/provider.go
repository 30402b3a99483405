package quote

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"
)

// ErrQuoteUnavailable is wrapped by every Provider failure.
var ErrQuoteUnavailable = errors.New("quote unavailable")

// DefaultTimeout bounds a single quote round trip.
const DefaultTimeout = 10 * time.Second

// Provider fetches the latest traded price of a symbol. One attempt per call.
type Provider interface {
	FetchPrice(ctx context.Context, symbol string) (float64, error)
	Name() string
}

func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
