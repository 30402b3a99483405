package quote

import (
	"context"
	"fmt"
	"sync"
)

// MockProvider returns controllable fixed prices for development and testing.
type MockProvider struct {
	mu     sync.Mutex
	Prices map[string]float64
	Errs   map[string]error
	Calls  []string
}

// NewMockProvider creates a mock serving the given prices.
func NewMockProvider(prices map[string]float64) *MockProvider {
	if prices == nil {
		prices = map[string]float64{}
	}
	return &MockProvider{Prices: prices, Errs: map[string]error{}}
}

func (m *MockProvider) Name() string { return "mock" }

// SetPrice changes the price served for symbol and clears any injected error.
func (m *MockProvider) SetPrice(symbol string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prices[symbol] = price
	delete(m.Errs, symbol)
}

// Fail makes every fetch of symbol fail.
func (m *MockProvider) Fail(symbol string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errs[symbol] = fmt.Errorf("%w: %s: mock failure", ErrQuoteUnavailable, symbol)
}

// CallCount reports how many fetches were made for symbol.
func (m *MockProvider) CallCount(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.Calls {
		if s == symbol {
			n++
		}
	}
	return n
}

func (m *MockProvider) FetchPrice(ctx context.Context, symbol string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, symbol)
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrQuoteUnavailable, symbol, err)
	}
	if err, ok := m.Errs[symbol]; ok {
		return 0, err
	}
	price, ok := m.Prices[symbol]
	if !ok {
		return 0, fmt.Errorf("%w: %s: unknown symbol", ErrQuoteUnavailable, symbol)
	}
	return price, nil
}
