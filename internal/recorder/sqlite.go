package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"

	"CoinSentry/internal/model"
)

// SQLiteRecorder persists observations and alerts to a SQLite database.
// Prices are stored as decimal strings to keep them exact.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so readers don't block the per-tick writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS quotes (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			observed_at    INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			usd_price      TEXT NOT NULL,
			classification TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quotes_ts ON quotes(observed_at)`,

		`CREATE TABLE IF NOT EXISTS alerts (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			observed_at    INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			usd_price      TEXT NOT NULL,
			alert_type     TEXT NOT NULL,
			threshold_low  TEXT NOT NULL,
			threshold_high TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_ts ON alerts(observed_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordObservations(observations []model.Observation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, obs := range observations {
		_, err := r.db.Exec(`INSERT INTO quotes
			(observed_at, symbol, usd_price, classification)
			VALUES (?,?,?,?)`,
			obs.Quote.ObservedAt.Unix(), obs.Quote.Symbol,
			obs.Quote.Price.String(), obs.Classification.String(),
		)
		if err != nil {
			return fmt.Errorf("insert quote %s: %w", obs.Quote.Symbol, err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordAlerts(alerts []model.AlertEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, evt := range alerts {
		_, err := r.db.Exec(`INSERT INTO alerts
			(observed_at, symbol, usd_price, alert_type, threshold_low, threshold_high)
			VALUES (?,?,?,?,?,?)`,
			evt.ObservedAt.Unix(), evt.Symbol, evt.Price.String(),
			evt.Classification.String(), evt.Band.Low.String(), evt.Band.High.String(),
		)
		if err != nil {
			return fmt.Errorf("insert alert %s: %w", evt.Symbol, err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
