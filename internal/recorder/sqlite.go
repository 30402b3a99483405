package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/phuslu/log"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the activity journal to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets external readers query the journal while the tracker writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS position_events (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			event_type     TEXT NOT NULL,
			symbol         TEXT NOT NULL,
			shares         REAL,
			purchase_price REAL,
			current_price  REAL,
			purchase_date  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_position_events_ts ON position_events(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_position_events_symbol ON position_events(symbol)`,

		`CREATE TABLE IF NOT EXISTS refresh_runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			total       INTEGER,
			updated     INTEGER,
			failed      INTEGER,
			failed_list TEXT,
			total_value REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_runs_ts ON refresh_runs(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordPositionEvent(evt *PositionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO position_events
		(timestamp, event_type, symbol, shares, purchase_price, current_price, purchase_date)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.EventType, evt.Symbol,
		evt.Shares, evt.PurchasePrice, evt.CurrentPrice, evt.PurchaseDate,
	)
	return err
}

func (r *SQLiteRecorder) RecordRefresh(evt *RefreshEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO refresh_runs
		(timestamp, total, updated, failed, failed_list, total_value)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Total, evt.Updated, evt.Failed,
		strings.Join(evt.FailedList, ","), evt.TotalValue,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
