package scheduler

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioTracker/internal/model"
	"PortfolioTracker/internal/portfolio"
	"PortfolioTracker/internal/quote"
)

type captureNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (c *captureNotifier) Notify(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, text)
	return nil
}

func newTestScheduler(t *testing.T) (*Scheduler, *quote.MockProvider, *captureNotifier) {
	t.Helper()
	store := portfolio.NewFileStore(filepath.Join(t.TempDir(), "portfolio.json"))
	require.NoError(t, store.Save(model.Portfolio{
		"AAPL": {Shares: 10, PurchasePrice: 150, CurrentPrice: 150, PurchaseDate: "2025-04-13"},
		"MSFT": {Shares: 1, PurchasePrice: 300, CurrentPrice: 300, PurchaseDate: "2025-04-13"},
	}))
	provider := quote.NewMockProvider(map[string]float64{"AAPL": 160, "MSFT": 310})
	m, err := portfolio.NewManager(store, provider)
	require.NoError(t, err)
	n := &captureNotifier{}
	return NewScheduler(context.Background(), m, n), provider, n
}

func TestRunNow_RefreshesAndNotifies(t *testing.T) {
	s, provider, n := newTestScheduler(t)
	provider.Fail("MSFT")

	s.RunNow()

	require.Len(t, n.msgs, 1)
	assert.Contains(t, n.msgs[0], "Portfolio prices updated (1/2). Kept last price for: MSFT")
	assert.Contains(t, n.msgs[0], "Total Portfolio Value: $1900.00")
	assert.Equal(t, 160.0, s.Manager.Positions()["AAPL"].CurrentPrice)
}

func TestHandleCommand(t *testing.T) {
	s, provider, _ := newTestScheduler(t)

	view := s.HandleCommand(context.Background(), "/portfolio")
	assert.Contains(t, view, "Total Portfolio Value: $1800.00")
	assert.Empty(t, provider.Calls, "viewing must not fetch quotes")

	refreshed := s.HandleCommand(context.Background(), "/refresh")
	assert.Contains(t, refreshed, "Total Portfolio Value: $1910.00")

	help := s.HandleCommand(context.Background(), "hello")
	assert.Contains(t, help, "/portfolio")
}

func TestRegisterRefresh(t *testing.T) {
	s, _, _ := newTestScheduler(t)

	require.NoError(t, s.RegisterRefresh("0 */15 9-16 * * 1-5"))
	assert.Len(t, s.Cron.Entries(), 1)

	assert.Error(t, s.RegisterRefresh("not a cron"))
}
