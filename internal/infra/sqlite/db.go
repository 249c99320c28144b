// Package sqlite provides SQLite-based persistent storage for Ember.
// Uses WAL mode for concurrent reads and crash-safe writes. It implements
// domain.Store.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/ember.db.
// Enables WAL mode, foreign keys, and a 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "ember.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS habits (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			emoji       TEXT NOT NULL DEFAULT '',
			category    TEXT NOT NULL DEFAULT '',
			time_of_day TEXT NOT NULL DEFAULT '',
			frequency   TEXT NOT NULL DEFAULT 'daily',
			track_time  BOOLEAN NOT NULL DEFAULT 0,
			is_active   BOOLEAN NOT NULL DEFAULT 1,
			created_at  INTEGER NOT NULL,
			edit_count  INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_habits_active ON habits(is_active)`,

		// One row per (habit, day) — the primary key carries the ledger's
		// uniqueness invariant. Days are stored as YYYY-MM-DD so date
		// arithmetic stays calendar-based.
		`CREATE TABLE IF NOT EXISTS completions (
			habit_id     TEXT NOT NULL,
			day          TEXT NOT NULL,
			completed    BOOLEAN NOT NULL DEFAULT 0,
			xp_earned    INTEGER NOT NULL DEFAULT 0,
			time_spent   INTEGER NOT NULL DEFAULT 0,
			note         TEXT NOT NULL DEFAULT '',
			completed_at INTEGER,
			PRIMARY KEY (habit_id, day)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_completions_day ON completions(day)`,

		// Singleton progression state, always row id=1.
		`CREATE TABLE IF NOT EXISTS user_stats (
			id             INTEGER PRIMARY KEY CHECK (id = 1),
			xp             INTEGER NOT NULL DEFAULT 0,
			level          INTEGER NOT NULL DEFAULT 1,
			total_streaks  INTEGER NOT NULL DEFAULT 0,
			longest_streak INTEGER NOT NULL DEFAULT 0
		)`,
		`INSERT OR IGNORE INTO user_stats (id, xp, level) VALUES (1, 0, 1)`,

		// Named behavioural counters (shares, recoveries, edits, ...).
		`CREATE TABLE IF NOT EXISTS counters (
			name  TEXT PRIMARY KEY,
			value INTEGER NOT NULL DEFAULT 0
		)`,

		// Unlocked achievements. Unlocks are one-way; a row never leaves.
		`CREATE TABLE IF NOT EXISTS achievements (
			id          TEXT PRIMARY KEY,
			unlocked_at INTEGER NOT NULL
		)`,

		// Focus timer snapshots, one per habit, discarded on stop.
		`CREATE TABLE IF NOT EXISTS sessions (
			habit_id     TEXT PRIMARY KEY,
			started_at   INTEGER NOT NULL,
			paused_at    INTEGER,
			paused_accum INTEGER NOT NULL DEFAULT 0
		)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
