package domain

import "time"

// ─── Storage Interface ──────────────────────────────────────────────────────
// Store is the narrow persistence boundary the progression engine depends
// on. Infrastructure implements it; the application layer never sees SQL.
// The engine operates on records by value: fetch, compute, write back.

// Store is implemented by infra/sqlite.DB.
type Store interface {
	// Habits. GetHabit returns (nil, nil) when absent.
	UpsertHabit(h Habit) error
	GetHabit(id string) (*Habit, error)
	ListHabits(activeOnly bool) ([]Habit, error)
	SetHabitActive(id string, active bool) error
	CountHabits() (int, error) // habits ever created, archived included
	OldestActiveHabit() (*Habit, error)

	// Completion ledger. One row per (habit, day); UpsertCompletion
	// overwrites. GetCompletion returns (nil, nil) when absent.
	GetCompletion(habitID string, day time.Time) (*CompletionRecord, error)
	UpsertCompletion(rec CompletionRecord) error
	SetCompletionNote(habitID string, day time.Time, note string) error
	SetCompletionTime(habitID string, day time.Time, seconds int) error
	CompletedDays(habitID string) ([]time.Time, error)   // descending
	AllCompletedDays() ([]time.Time, error)              // distinct, all habits, descending
	LastCompletedDayBefore(habitID string, day time.Time) (time.Time, error) // zero time when none

	// Aggregates for stats and achievement snapshots.
	TotalCompletions() (int, error)
	CompletionsOnDay(day time.Time) (int, error)
	CompletionsInRange(from, to time.Time) (int, error)
	CompletionCountsByDay(from, to time.Time) (map[string]int, error)
	CountNotes() (int, error)
	CountTimedCompletions() (int, error)
	CountNightCompletions() (int, error)   // completed between 00:00 and 05:00
	CountWeekendCompletions() (int, error)

	// User stats singleton and named counters.
	GetUserStats() (UserStats, error)
	SaveUserStats(s UserStats) error
	GetCounter(name string) (int, error)
	IncrementCounter(name string, delta int) (int, error)

	// Achievements. UnlockAchievement is idempotent and reports whether
	// the unlock was new.
	IsAchievementUnlocked(id string) (bool, error)
	UnlockAchievement(id string, at time.Time) (bool, error)
	ListUnlockedAchievements() ([]UnlockedAchievement, error)

	// Timer sessions. GetSession returns (nil, nil) when absent.
	SaveSession(s Session) error
	GetSession(habitID string) (*Session, error)
	DeleteSession(habitID string) error
	ListSessions() ([]Session, error)

	// IntegrityCheck verifies ledger invariants (orphan completion rows,
	// negative XP). Violations are should-not-happen conditions surfaced
	// by the health checker, not recoverable paths.
	IntegrityCheck() error
}

// Publisher is the event-bus boundary the engine notifies after each
// mutating operation. Implemented by infra/bus.Bus.
type Publisher interface {
	Publish(e Event)
}
