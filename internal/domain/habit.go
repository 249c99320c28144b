// Package domain defines the core types of the Ember habit tracker.
// Domain types are pure — no infrastructure dependency.
package domain

import "time"

// FrequencyDaily is the only supported habit frequency.
const FrequencyDaily = "daily"

// Habit is a single tracked habit. Habits are soft-deleted: archiving
// sets IsActive=false so historical completion logs stay valid.
type Habit struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Emoji       string    `json:"emoji"`
	Category    string    `json:"category"`
	TimeOfDay   string    `json:"time_of_day"` // "HH:MM" reminder slot
	Frequency   string    `json:"frequency"`
	TrackTime   bool      `json:"track_time"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	EditCount   int       `json:"edit_count"`
}

// CompletionRecord is the per-habit per-day ledger entry.
// Invariant: at most one record per (HabitID, Day) — a toggle overwrites
// this unique record, never appends a duplicate.
type CompletionRecord struct {
	HabitID     string    `json:"habit_id"`
	Day         time.Time `json:"day"` // UTC midnight
	Completed   bool      `json:"completed"`
	XPEarned    int       `json:"xp_earned"`
	TimeSpent   int       `json:"time_spent,omitempty"` // seconds; only meaningful when habit.TrackTime
	Note        string    `json:"note,omitempty"`
	CompletedAt time.Time `json:"completed_at"` // wall clock of the completing toggle
}

// Session is an in-flight time-tracking timer for one habit.
// It is ephemeral: persisted only to survive process restarts and
// discarded on stop.
type Session struct {
	HabitID     string        `json:"habit_id"`
	StartedAt   time.Time     `json:"started_at"`
	PausedAt    time.Time     `json:"paused_at"`    // zero while running
	PausedAccum time.Duration `json:"paused_accum"` // total time spent paused
}

// Running reports whether the session is currently accumulating time.
func (s Session) Running() bool {
	return s.PausedAt.IsZero()
}

// Elapsed returns the active (non-paused) duration as of now.
func (s Session) Elapsed(now time.Time) time.Duration {
	end := now
	if !s.Running() {
		end = s.PausedAt
	}
	d := end.Sub(s.StartedAt) - s.PausedAccum
	if d < 0 {
		d = 0
	}
	return d
}

// ─── Calendar-day helpers ───────────────────────────────────────────────────
// Streak and ledger math uses calendar-date differences, not wall-clock 24h
// spans, to avoid DST and timezone skew.

// dayKeyFormat is the canonical storage format for ledger days.
const dayKeyFormat = "2006-01-02"

// Day truncates a time to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayKey formats a day as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return Day(t).Format(dayKeyFormat)
}

// ParseDay parses a YYYY-MM-DD day key.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(dayKeyFormat, s, time.UTC)
}

// DaysBetween returns the number of whole calendar days from b to a
// (positive when a is later than b).
func DaysBetween(a, b time.Time) int {
	return int(Day(a).Sub(Day(b)) / (24 * time.Hour))
}
