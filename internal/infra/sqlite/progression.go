package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ember-labs/ember/internal/domain"
)

// ─── User stats singleton ───────────────────────────────────────────────────

// GetUserStats reads the single progression row (id=1). The row is seeded
// by the migrations, so it always exists.
func (d *DB) GetUserStats() (domain.UserStats, error) {
	var s domain.UserStats
	err := d.db.QueryRow(
		`SELECT xp, level, total_streaks, longest_streak FROM user_stats WHERE id = 1`,
	).Scan(&s.XP, &s.Level, &s.TotalStreaks, &s.LongestStreak)
	return s, err
}

// SaveUserStats writes the whole stats row in one statement, so XP and
// level can never be persisted out of step.
func (d *DB) SaveUserStats(s domain.UserStats) error {
	_, err := d.db.Exec(
		`UPDATE user_stats SET xp = ?, level = ?, total_streaks = ?, longest_streak = ?
		 WHERE id = 1`,
		s.XP, s.Level, s.TotalStreaks, s.LongestStreak,
	)
	return err
}

// ─── Named counters ─────────────────────────────────────────────────────────

// GetCounter returns a named counter's value, 0 when unset.
func (d *DB) GetCounter(name string) (int, error) {
	var v int
	err := d.db.QueryRow(`SELECT value FROM counters WHERE name = ?`, name).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return v, err
}

// IncrementCounter adds delta to a named counter and returns the new value.
func (d *DB) IncrementCounter(name string, delta int) (int, error) {
	_, err := d.db.Exec(
		`INSERT INTO counters (name, value) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = value + excluded.value`,
		name, delta,
	)
	if err != nil {
		return 0, err
	}
	return d.GetCounter(name)
}

// ─── Achievements ───────────────────────────────────────────────────────────

// UnlockAchievement records an achievement as unlocked. Returns false when
// it was already unlocked — the stored unlocked_at is never overwritten.
func (d *DB) UnlockAchievement(id string, at time.Time) (bool, error) {
	result, err := d.db.Exec(
		`INSERT OR IGNORE INTO achievements (id, unlocked_at) VALUES (?, ?)`,
		id, at.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

// IsAchievementUnlocked checks whether an achievement has been unlocked.
func (d *DB) IsAchievementUnlocked(id string) (bool, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM achievements WHERE id = ?`, id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListUnlockedAchievements returns all unlocks, newest first.
func (d *DB) ListUnlockedAchievements() ([]domain.UnlockedAchievement, error) {
	rows, err := d.db.Query(
		`SELECT id, unlocked_at FROM achievements ORDER BY unlocked_at DESC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UnlockedAchievement
	for rows.Next() {
		var a domain.UnlockedAchievement
		var at int64
		if err := rows.Scan(&a.ID, &at); err != nil {
			return nil, err
		}
		a.UnlockedAt = time.Unix(at, 0).UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

// ─── Timer sessions ─────────────────────────────────────────────────────────

// SaveSession persists a session snapshot (insert or overwrite).
func (d *DB) SaveSession(s domain.Session) error {
	_, err := d.db.Exec(
		`INSERT INTO sessions (habit_id, started_at, paused_at, paused_accum)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(habit_id) DO UPDATE SET
			started_at=excluded.started_at,
			paused_at=excluded.paused_at,
			paused_accum=excluded.paused_accum`,
		s.HabitID, s.StartedAt.Unix(), nullableUnix(s.PausedAt),
		int64(s.PausedAccum/time.Second),
	)
	return err
}

// GetSession returns the habit's session snapshot, or (nil, nil).
func (d *DB) GetSession(habitID string) (*domain.Session, error) {
	row := d.db.QueryRow(
		`SELECT habit_id, started_at, paused_at, paused_accum FROM sessions
		 WHERE habit_id = ?`, habitID)
	return scanSession(row)
}

// DeleteSession discards a session snapshot.
func (d *DB) DeleteSession(habitID string) error {
	_, err := d.db.Exec(`DELETE FROM sessions WHERE habit_id = ?`, habitID)
	return err
}

// ListSessions returns every persisted session snapshot.
func (d *DB) ListSessions() ([]domain.Session, error) {
	rows, err := d.db.Query(
		`SELECT habit_id, started_at, paused_at, paused_accum FROM sessions ORDER BY started_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func scanSession(s scanner) (*domain.Session, error) {
	var sess domain.Session
	var startedAt int64
	var pausedAt sql.NullInt64
	var accumSec int64

	err := s.Scan(&sess.HabitID, &startedAt, &pausedAt, &accumSec)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sess.StartedAt = time.Unix(startedAt, 0).UTC()
	if pausedAt.Valid {
		sess.PausedAt = time.Unix(pausedAt.Int64, 0).UTC()
	}
	sess.PausedAccum = time.Duration(accumSec) * time.Second
	return &sess, nil
}

// ─── Invariant checks ───────────────────────────────────────────────────────

// IntegrityCheck verifies ledger invariants that correct single-writer use
// can never violate: completion rows pointing at missing habits and
// negative XP awards. Used by the health checker.
func (d *DB) IntegrityCheck() error {
	var orphans int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM completions c
		 WHERE NOT EXISTS (SELECT 1 FROM habits h WHERE h.id = c.habit_id)`,
	).Scan(&orphans)
	if err != nil {
		return err
	}
	if orphans > 0 {
		return fmt.Errorf("%d completion rows reference missing habits", orphans)
	}

	var negative int
	if err := d.db.QueryRow(
		`SELECT COUNT(*) FROM completions WHERE xp_earned < 0`,
	).Scan(&negative); err != nil {
		return err
	}
	if negative > 0 {
		return fmt.Errorf("%d completion rows carry negative xp", negative)
	}
	return nil
}
