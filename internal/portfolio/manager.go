package portfolio

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/phuslu/log"

	"PortfolioTracker/internal/calculator"
	"PortfolioTracker/internal/model"
	"PortfolioTracker/internal/quote"
	"PortfolioTracker/internal/recorder"
)

// Manager owns the in-memory portfolio and is the only path that mutates it.
// Every mutation is persisted through the Store before returning.
type Manager struct {
	mu        sync.Mutex
	portfolio model.Portfolio
	store     Store
	provider  quote.Provider
	recorder  recorder.Recorder
	now       func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithRecorder journals every mutation to rec.
func WithRecorder(rec recorder.Recorder) Option {
	return func(m *Manager) {
		if rec != nil {
			m.recorder = rec
		}
	}
}

// WithClock overrides the clock used for purchase dates.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager, loading the portfolio from store.
func NewManager(store Store, provider quote.Provider, opts ...Option) (*Manager, error) {
	p, err := store.Load()
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = model.Portfolio{}
	}
	m := &Manager{
		portfolio: p,
		store:     store,
		provider:  provider,
		recorder:  recorder.NewNoopRecorder(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	log.Info().Int("positions", len(p)).Str("provider", provider.Name()).Msg("portfolio loaded")
	return m, nil
}

// Positions returns a copy of the current portfolio.
func (m *Manager) Positions() model.Portfolio {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.portfolio.Clone()
}

// Get returns the position held for symbol.
func (m *Manager) Get(symbol string) (model.Position, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return model.Position{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	pos, ok := m.portfolio[sym]
	if !ok {
		return model.Position{}, fmt.Errorf("%w: %s", ErrSymbolNotFound, sym)
	}
	return pos, nil
}

// Add buys a new position at the current market price. A nil purchasePrice
// means the fetched price is used as the cost basis.
func (m *Manager) Add(ctx context.Context, symbol string, shares float64, purchasePrice *float64) (model.Position, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return model.Position{}, err
	}
	if err := checkAmount(shares); err != nil {
		return model.Position{}, fmt.Errorf("shares: %w", err)
	}
	if purchasePrice != nil {
		if err := checkAmount(*purchasePrice); err != nil {
			return model.Position{}, fmt.Errorf("purchase price: %w", err)
		}
	}

	if m.holds(sym) {
		return model.Position{}, fmt.Errorf("%w: %s", ErrDuplicateSymbol, sym)
	}

	// The quote is fetched without holding mu so readers are not blocked.
	current, err := m.provider.FetchPrice(ctx, sym)
	if err != nil {
		return model.Position{}, fmt.Errorf("%w: %w", ErrPriceUnavailable, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.portfolio[sym]; ok {
		return model.Position{}, fmt.Errorf("%w: %s", ErrDuplicateSymbol, sym)
	}

	pos := model.Position{
		Shares:        shares,
		PurchasePrice: current,
		CurrentPrice:  current,
		PurchaseDate:  m.now().Format(model.DateLayout),
	}
	if purchasePrice != nil {
		pos.PurchasePrice = *purchasePrice
	}
	m.portfolio[sym] = pos
	log.Info().Str("symbol", sym).Float64("shares", shares).Float64("price", current).Msg("position added")

	m.recordPosition(recorder.EventAdd, sym, pos)
	if err := m.save(); err != nil {
		return pos, err
	}
	return pos, nil
}

// Remove deletes the position held for symbol.
func (m *Manager) Remove(symbol string) error {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	pos, ok := m.portfolio[sym]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSymbolNotFound, sym)
	}
	delete(m.portfolio, sym)
	log.Info().Str("symbol", sym).Msg("position removed")

	m.recordPosition(recorder.EventRemove, sym, pos)
	return m.save()
}

// Update overwrites shares and/or purchase price of an existing position.
// Nil arguments leave the field as is; the purchase date never changes.
func (m *Manager) Update(symbol string, shares, purchasePrice *float64) (model.Position, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return model.Position{}, err
	}
	if shares != nil {
		if err := checkAmount(*shares); err != nil {
			return model.Position{}, fmt.Errorf("shares: %w", err)
		}
	}
	if purchasePrice != nil {
		if err := checkAmount(*purchasePrice); err != nil {
			return model.Position{}, fmt.Errorf("purchase price: %w", err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	pos, ok := m.portfolio[sym]
	if !ok {
		return model.Position{}, fmt.Errorf("%w: %s", ErrSymbolNotFound, sym)
	}
	if shares != nil {
		pos.Shares = *shares
	}
	if purchasePrice != nil {
		pos.PurchasePrice = *purchasePrice
	}
	m.portfolio[sym] = pos
	log.Info().Str("symbol", sym).Float64("shares", pos.Shares).Float64("purchase_price", pos.PurchasePrice).Msg("position updated")

	m.recordPosition(recorder.EventUpdate, sym, pos)
	if err := m.save(); err != nil {
		return pos, err
	}
	return pos, nil
}

// RefreshPrices fetches a new quote for every held symbol. A failed fetch keeps
// the last known price and never fails the batch; the portfolio is saved once
// at the end. The returned error is only ever a save failure.
//
// Quotes are fetched without holding the lock. Prices are applied only to
// symbols still held once the fetches finish.
func (m *Manager) RefreshPrices(ctx context.Context) (model.RefreshResult, error) {
	m.mu.Lock()
	symbols := make([]string, 0, len(m.portfolio))
	for sym := range m.portfolio {
		symbols = append(symbols, sym)
	}
	m.mu.Unlock()
	sort.Strings(symbols)

	result := model.RefreshResult{Failed: map[string]error{}}
	prices := make(map[string]float64, len(symbols))
	for _, sym := range symbols {
		if err := ctx.Err(); err != nil {
			result.Failed[sym] = err
			continue
		}
		price, err := m.provider.FetchPrice(ctx, sym)
		if err != nil {
			log.Warn().Err(err).Str("symbol", sym).Msg("price refresh failed, keeping last price")
			result.Failed[sym] = err
			continue
		}
		prices[sym] = price
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sym := range symbols {
		price, ok := prices[sym]
		if !ok {
			continue
		}
		pos, held := m.portfolio[sym]
		if !held {
			log.Debug().Str("symbol", sym).Msg("removed during refresh, price dropped")
			continue
		}
		pos.CurrentPrice = price
		m.portfolio[sym] = pos
		result.Updated = append(result.Updated, sym)
	}
	log.Info().Int("updated", len(result.Updated)).Int("failed", len(result.Failed)).Msg("portfolio prices refreshed")

	failed := make([]string, 0, len(result.Failed))
	for sym := range result.Failed {
		failed = append(failed, sym)
	}
	sort.Strings(failed)
	if err := m.recorder.RecordRefresh(&recorder.RefreshEvent{
		Total:      result.Total(),
		Updated:    len(result.Updated),
		Failed:     len(result.Failed),
		FailedList: failed,
		TotalValue: calculator.Valuate(m.portfolio).TotalValue,
	}); err != nil {
		log.Error().Err(err).Msg("record refresh")
	}

	return result, m.save()
}

// Valuation computes the report for the current portfolio. It performs no I/O.
func (m *Manager) Valuation() model.ValuationReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return calculator.Valuate(m.portfolio)
}

// Flush re-attempts persisting the in-memory portfolio, e.g. after a failed save.
func (m *Manager) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.save()
}

func (m *Manager) holds(sym string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.portfolio[sym]
	return ok
}

// save must be called with mu held. On failure the in-memory state is kept.
func (m *Manager) save() error {
	if err := m.store.Save(m.portfolio); err != nil {
		log.Error().Err(err).Msg("failed to save portfolio")
		return err
	}
	return nil
}

func (m *Manager) recordPosition(eventType, sym string, pos model.Position) {
	if err := m.recorder.RecordPositionEvent(&recorder.PositionEvent{
		EventType:     eventType,
		Symbol:        sym,
		Shares:        pos.Shares,
		PurchasePrice: pos.PurchasePrice,
		CurrentPrice:  pos.CurrentPrice,
		PurchaseDate:  pos.PurchaseDate,
	}); err != nil {
		log.Error().Err(err).Str("symbol", sym).Msg("record position event")
	}
}
