package sqlite

import (
	"database/sql"
	"time"

	"github.com/ember-labs/ember/internal/domain"
)

// ─── Habit repository ───────────────────────────────────────────────────────

const habitColumns = `id, title, description, emoji, category, time_of_day,
	frequency, track_time, is_active, created_at, edit_count`

// UpsertHabit inserts or updates a habit record.
func (d *DB) UpsertHabit(h domain.Habit) error {
	_, err := d.db.Exec(
		`INSERT INTO habits (id, title, description, emoji, category, time_of_day,
			frequency, track_time, is_active, created_at, edit_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title,
			description=excluded.description,
			emoji=excluded.emoji,
			category=excluded.category,
			time_of_day=excluded.time_of_day,
			frequency=excluded.frequency,
			track_time=excluded.track_time,
			is_active=excluded.is_active,
			edit_count=excluded.edit_count`,
		h.ID, h.Title, h.Description, h.Emoji, h.Category, h.TimeOfDay,
		h.Frequency, h.TrackTime, h.IsActive, h.CreatedAt.Unix(), h.EditCount,
	)
	return err
}

// GetHabit retrieves a single habit by ID. Returns (nil, nil) when absent.
func (d *DB) GetHabit(id string) (*domain.Habit, error) {
	row := d.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	return scanHabit(row)
}

// ListHabits returns habits ordered by creation time, optionally active only.
func (d *DB) ListHabits(activeOnly bool) ([]domain.Habit, error) {
	q := `SELECT ` + habitColumns + ` FROM habits`
	if activeOnly {
		q += ` WHERE is_active = 1`
	}
	q += ` ORDER BY created_at ASC, id ASC`

	rows, err := d.db.Query(q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []domain.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

// SetHabitActive flips the soft-delete flag.
func (d *DB) SetHabitActive(id string, active bool) error {
	result, err := d.db.Exec(`UPDATE habits SET is_active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrHabitNotFound
	}
	return nil
}

// CountHabits returns the number of habits ever created, archived included.
func (d *DB) CountHabits() (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM habits`).Scan(&n)
	return n, err
}

// OldestActiveHabit returns the longest-lived active habit, or (nil, nil).
func (d *DB) OldestActiveHabit() (*domain.Habit, error) {
	row := d.db.QueryRow(
		`SELECT ` + habitColumns + ` FROM habits WHERE is_active = 1
		 ORDER BY created_at ASC LIMIT 1`)
	return scanHabit(row)
}

func scanHabit(s scanner) (*domain.Habit, error) {
	var h domain.Habit
	var createdAt int64

	err := s.Scan(&h.ID, &h.Title, &h.Description, &h.Emoji, &h.Category,
		&h.TimeOfDay, &h.Frequency, &h.TrackTime, &h.IsActive,
		&createdAt, &h.EditCount)
	if err == sql.ErrNoRows {
		return nil, nil // not found, no error
	}
	if err != nil {
		return nil, err
	}
	h.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &h, nil
}
