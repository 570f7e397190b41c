package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Tiliavir/toggl-timesheet/internal/model"
	"github.com/Tiliavir/toggl-timesheet/internal/timecalc"

	_ "modernc.org/sqlite"
)

// DB is the silver-tier sqlite database holding daily summaries.
type DB struct {
	*sql.DB
}

// Open opens (or creates) the database at path and applies migrations.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	store := &DB{db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return store, nil
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS daily_summaries (
			date TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			description_count INTEGER NOT NULL,
			source TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}

	return nil
}

// SaveSummaries upserts one row per day in a single transaction. Re-running
// an aggregation replaces the days it covers.
func (db *DB) SaveSummaries(source string, summaries []model.DailySummary) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO daily_summaries (date, description, description_count, source, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET
			description = excluded.description,
			description_count = excluded.description_count,
			source = excluded.source,
			updated_at = excluded.updated_at`,
	)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, s := range summaries {
		if _, err := stmt.Exec(
			s.Date.Format(timecalc.DateLayout),
			s.Joined,
			len(s.Descriptions),
			source,
			now,
		); err != nil {
			return fmt.Errorf("saving summary for %s: %w", s.Date.Format(timecalc.DateLayout), err)
		}
	}

	return tx.Commit()
}

// Summaries returns every stored day in ascending date order.
func (db *DB) Summaries() ([]model.DailySummary, error) {
	rows, err := db.Query(`SELECT date, description FROM daily_summaries ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying summaries: %w", err)
	}
	defer rows.Close()

	var out []model.DailySummary
	for rows.Next() {
		var dateStr, joined string
		if err := rows.Scan(&dateStr, &joined); err != nil {
			return nil, fmt.Errorf("scanning summary: %w", err)
		}
		date, err := time.Parse(timecalc.DateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing stored date %q: %w", dateStr, err)
		}
		out = append(out, model.DailySummary{Date: date, Joined: joined})
	}
	return out, rows.Err()
}
