package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Lookups of absent records return zero values, not errors. These sentinels
// cover the cases where an operation requires the entity to exist or where
// a ledger invariant would be violated.

var (
	// Habit errors
	ErrHabitNotFound = errors.New("habit not found")
	ErrHabitArchived = errors.New("habit is archived")
	ErrEmptyTitle    = errors.New("habit title must not be empty")

	// Ledger errors
	ErrAlreadyCompleted    = errors.New("habit already completed for this day")
	ErrDuplicateCompletion = errors.New("duplicate completion rows for one habit-day")

	// Timer errors
	ErrSessionRunning   = errors.New("a timer session is already running for this habit")
	ErrNoSession        = errors.New("no timer session for this habit")
	ErrSessionPaused    = errors.New("timer session is already paused")
	ErrSessionNotPaused = errors.New("timer session is not paused")

	// Aggregation errors
	ErrBadGranularity = errors.New("granularity must be day, week, month or year")
)
