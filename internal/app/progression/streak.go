package progression

import (
	"fmt"
	"sort"
	"time"

	"github.com/ember-labs/ember/internal/domain"
)

// ─── Streak calculator ──────────────────────────────────────────────────────
// A streak is a run of consecutive calendar days ending at a reference
// date. "Consecutive" means exactly one calendar day apart — calendar-date
// difference, never wall-clock 24h spans.

// CurrentStreak returns the habit's consecutive-day streak ending at asOf.
// Completed days are walked newest-first: the i-th most recent completion
// must fall exactly i days before asOf, so an unbroken chain must reach
// asOf itself. Yields 0 when asOf is not completed.
func (e *Engine) CurrentStreak(habitID string, asOf time.Time) (int, error) {
	days, err := e.store.CompletedDays(habitID)
	if err != nil {
		return 0, fmt.Errorf("completed days: %w", err)
	}
	return streakEndingAt(days, asOf), nil
}

// streakEndingAt walks descending completed days against a reference day.
func streakEndingAt(daysDesc []time.Time, asOf time.Time) int {
	ref := domain.Day(asOf)
	streak := 0
	for _, d := range daysDesc {
		if d.After(ref) {
			continue // completions logged for future days don't break the chain
		}
		if domain.DaysBetween(ref, d) == streak {
			streak++
		} else {
			break
		}
	}
	return streak
}

// LongestStreak returns the longest run of consecutive days in the given
// completion dates, regardless of where it ends. Empty input yields 0,
// a single date yields 1.
func LongestStreak(days []time.Time) int {
	if len(days) == 0 {
		return 0
	}

	sorted := make([]time.Time, len(days))
	for i, d := range days {
		sorted[i] = domain.Day(d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		switch domain.DaysBetween(sorted[i], sorted[i-1]) {
		case 0:
			// duplicate day — run unchanged
		case 1:
			run++
		default:
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// LongestStreakFor recomputes the longest-ever streak for one habit from
// its full ledger history.
func (e *Engine) LongestStreakFor(habitID string) (int, error) {
	days, err := e.store.CompletedDays(habitID)
	if err != nil {
		return 0, fmt.Errorf("completed days: %w", err)
	}
	return LongestStreak(days), nil
}
