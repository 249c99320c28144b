package sqlite

import (
	"database/sql"
	"time"

	"github.com/ember-labs/ember/internal/domain"
)

// ─── Completion ledger ──────────────────────────────────────────────────────

// UpsertCompletion writes a day's completion state. The (habit_id, day)
// primary key makes this an overwrite, never an append; note and
// time_spent survive the overwrite so toggling does not erase journaling.
func (d *DB) UpsertCompletion(rec domain.CompletionRecord) error {
	_, err := d.db.Exec(
		`INSERT INTO completions (habit_id, day, completed, xp_earned, time_spent, note, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(habit_id, day) DO UPDATE SET
			completed=excluded.completed,
			xp_earned=excluded.xp_earned,
			completed_at=excluded.completed_at`,
		rec.HabitID, domain.DayKey(rec.Day), rec.Completed, rec.XPEarned,
		rec.TimeSpent, rec.Note, nullableUnix(rec.CompletedAt),
	)
	return err
}

// GetCompletion retrieves the record for (habit, day). (nil, nil) if absent.
func (d *DB) GetCompletion(habitID string, day time.Time) (*domain.CompletionRecord, error) {
	row := d.db.QueryRow(
		`SELECT habit_id, day, completed, xp_earned, time_spent, note, completed_at
		 FROM completions WHERE habit_id = ? AND day = ?`,
		habitID, domain.DayKey(day),
	)
	return scanCompletion(row)
}

// SetCompletionNote attaches a note to a day's record, creating an empty
// row when none exists yet.
func (d *DB) SetCompletionNote(habitID string, day time.Time, note string) error {
	_, err := d.db.Exec(
		`INSERT INTO completions (habit_id, day, note) VALUES (?, ?, ?)
		 ON CONFLICT(habit_id, day) DO UPDATE SET note=excluded.note`,
		habitID, domain.DayKey(day), note,
	)
	return err
}

// SetCompletionTime records tracked seconds on a day's record, if one exists.
func (d *DB) SetCompletionTime(habitID string, day time.Time, seconds int) error {
	_, err := d.db.Exec(
		`UPDATE completions SET time_spent = ? WHERE habit_id = ? AND day = ?`,
		seconds, habitID, domain.DayKey(day),
	)
	return err
}

// CompletedDays returns the habit's completed days, newest first.
func (d *DB) CompletedDays(habitID string) ([]time.Time, error) {
	rows, err := d.db.Query(
		`SELECT day FROM completions WHERE habit_id = ? AND completed = 1
		 ORDER BY day DESC`, habitID,
	)
	if err != nil {
		return nil, err
	}
	return collectDays(rows)
}

// AllCompletedDays returns distinct completed days across all habits,
// newest first.
func (d *DB) AllCompletedDays() ([]time.Time, error) {
	rows, err := d.db.Query(
		`SELECT DISTINCT day FROM completions WHERE completed = 1 ORDER BY day DESC`)
	if err != nil {
		return nil, err
	}
	return collectDays(rows)
}

// LastCompletedDayBefore returns the habit's most recent completed day
// strictly before the given day, or the zero time when none exists.
func (d *DB) LastCompletedDayBefore(habitID string, day time.Time) (time.Time, error) {
	var key string
	err := d.db.QueryRow(
		`SELECT day FROM completions WHERE habit_id = ? AND completed = 1 AND day < ?
		 ORDER BY day DESC LIMIT 1`,
		habitID, domain.DayKey(day),
	).Scan(&key)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return domain.ParseDay(key)
}

// ─── Aggregate queries ──────────────────────────────────────────────────────

// TotalCompletions counts completed records all-time.
func (d *DB) TotalCompletions() (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM completions WHERE completed = 1`).Scan(&n)
	return n, err
}

// CompletionsOnDay counts completions across all habits for one day.
func (d *DB) CompletionsOnDay(day time.Time) (int, error) {
	var n int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM completions WHERE completed = 1 AND day = ?`,
		domain.DayKey(day),
	).Scan(&n)
	return n, err
}

// CompletionsInRange counts completions with day in [from, to] inclusive.
func (d *DB) CompletionsInRange(from, to time.Time) (int, error) {
	var n int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM completions WHERE completed = 1 AND day >= ? AND day <= ?`,
		domain.DayKey(from), domain.DayKey(to),
	).Scan(&n)
	return n, err
}

// CompletionCountsByDay returns completion counts grouped by day within
// [from, to] inclusive, keyed by YYYY-MM-DD. Days without completions are
// simply absent; the aggregator zero-fills.
func (d *DB) CompletionCountsByDay(from, to time.Time) (map[string]int, error) {
	rows, err := d.db.Query(
		`SELECT day, COUNT(*) FROM completions
		 WHERE completed = 1 AND day >= ? AND day <= ?
		 GROUP BY day`,
		domain.DayKey(from), domain.DayKey(to),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

// CountNotes counts records carrying a note.
func (d *DB) CountNotes() (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM completions WHERE note != ''`).Scan(&n)
	return n, err
}

// CountTimedCompletions counts completed records with tracked time.
func (d *DB) CountTimedCompletions() (int, error) {
	var n int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM completions WHERE completed = 1 AND time_spent > 0`,
	).Scan(&n)
	return n, err
}

// CountNightCompletions counts completions toggled between 00:00 and 05:00
// (UTC wall clock of the toggle, not the ledger day).
func (d *DB) CountNightCompletions() (int, error) {
	var n int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM completions
		 WHERE completed = 1 AND completed_at IS NOT NULL
		   AND CAST(strftime('%H', completed_at, 'unixepoch') AS INTEGER) < 5`,
	).Scan(&n)
	return n, err
}

// CountWeekendCompletions counts completions whose ledger day falls on a
// Saturday or Sunday.
func (d *DB) CountWeekendCompletions() (int, error) {
	var n int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM completions
		 WHERE completed = 1 AND strftime('%w', day) IN ('0', '6')`,
	).Scan(&n)
	return n, err
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func scanCompletion(s scanner) (*domain.CompletionRecord, error) {
	var rec domain.CompletionRecord
	var key string
	var completedAt sql.NullInt64

	err := s.Scan(&rec.HabitID, &key, &rec.Completed, &rec.XPEarned,
		&rec.TimeSpent, &rec.Note, &completedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec.Day, err = domain.ParseDay(key)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		rec.CompletedAt = time.Unix(completedAt.Int64, 0).UTC()
	}
	return &rec, nil
}

func collectDays(rows *sql.Rows) ([]time.Time, error) {
	defer rows.Close()
	var days []time.Time
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		day, err := domain.ParseDay(key)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

func nullableUnix(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}
