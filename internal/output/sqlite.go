package output

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"quotescraper/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS quotes (
	run_id        TEXT    NOT NULL,
	scraped_at    INTEGER NOT NULL,
	code          INTEGER NOT NULL,
	name          TEXT    NOT NULL,
	currency      TEXT    NOT NULL,
	prev_close    REAL    NOT NULL,
	closing       REAL    NOT NULL,
	ask           REAL    NOT NULL,
	bid           REAL    NOT NULL,
	high          REAL    NOT NULL,
	low           REAL    NOT NULL,
	shares_traded INTEGER NOT NULL,
	turnover      INTEGER NOT NULL,
	PRIMARY KEY (run_id, code)
);
CREATE INDEX IF NOT EXISTS idx_quotes_code ON quotes(code, scraped_at);
`

// SQLiteWriter stores records in a quotes table, one row per stock and run.
// Unavailable values are stored as -1 like in the CSV output.
type SQLiteWriter struct {
	db    *sql.DB
	runID string
	now   func() time.Time
}

// OpenSQLite opens (or creates) the database at path. Rows written through
// the returned writer are tagged with runID.
func OpenSQLite(path, runID string) (*SQLiteWriter, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	// a single connection keeps :memory: databases alive across statements
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode = WAL", "PRAGMA busy_timeout = 10000"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteWriter{db: db, runID: runID, now: time.Now}, nil
}

func (w *SQLiteWriter) Write(rec models.StockRecord) error {
	_, err := w.db.Exec(`INSERT INTO quotes
		(run_id, scraped_at, code, name, currency, prev_close, closing, ask, bid, high, low, shares_traded, turnover)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.runID, w.now().Unix(), rec.Code, rec.Name, rec.Currency,
		rec.PrevClose, rec.Closing, rec.Ask, rec.Bid, rec.High, rec.Low,
		rec.SharesTraded, rec.Turnover,
	)
	if err != nil {
		return fmt.Errorf("failed to insert stock %d: %w", rec.Code, err)
	}
	return nil
}

// Records returns the rows written for runID, ordered as they were written.
func (w *SQLiteWriter) Records(ctx context.Context, runID string) ([]models.StockRecord, error) {
	rows, err := w.db.QueryContext(ctx, `SELECT code, name, currency, prev_close, closing, ask, bid, high, low, shares_traded, turnover
		FROM quotes WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.StockRecord
	for rows.Next() {
		var r models.StockRecord
		if err := rows.Scan(&r.Code, &r.Name, &r.Currency, &r.PrevClose, &r.Closing, &r.Ask, &r.Bid,
			&r.High, &r.Low, &r.SharesTraded, &r.Turnover); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// LatestRun returns the id of the most recent run, or "" for an empty table.
func (w *SQLiteWriter) LatestRun(ctx context.Context) (string, error) {
	var runID string
	err := w.db.QueryRowContext(ctx, `SELECT run_id FROM quotes ORDER BY scraped_at DESC, rowid DESC LIMIT 1`).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return runID, err
}

func (w *SQLiteWriter) Close() error {
	return w.db.Close()
}
