package recorder

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRecorder_RecordsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.db")
	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.RecordPositionEvent(&PositionEvent{
		EventType: EventAdd, Symbol: "AAPL", Shares: 10, PurchasePrice: 150, CurrentPrice: 150, PurchaseDate: "2025-04-13",
	}))
	require.NoError(t, r.RecordPositionEvent(&PositionEvent{EventType: EventRemove, Symbol: "AAPL"}))
	require.NoError(t, r.RecordRefresh(&RefreshEvent{Total: 2, Updated: 1, Failed: 1, FailedList: []string{"MSFT"}, TotalValue: 1600}))

	var n int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM position_events WHERE symbol = 'AAPL'`).Scan(&n))
	assert.Equal(t, 2, n)

	var failedList string
	var total float64
	require.NoError(t, r.db.QueryRow(`SELECT failed_list, total_value FROM refresh_runs`).Scan(&failedList, &total))
	assert.Equal(t, "MSFT", failedList)
	assert.Equal(t, 1600.0, total)
}

func TestSQLiteRecorder_ReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r.RecordPositionEvent(&PositionEvent{EventType: EventAdd, Symbol: "MSFT"}))
	require.NoError(t, r.Close())

	r, err = NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()

	var n int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM position_events`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordPositionEvent(&PositionEvent{}))
	assert.NoError(t, r.RecordRefresh(&RefreshEvent{}))
	assert.NoError(t, r.Close())
}
