package progression

import (
	"fmt"
	"time"

	"github.com/ember-labs/ember/internal/domain"
	"github.com/ember-labs/ember/internal/infra/metrics"
)

// ─── Completion ledger ──────────────────────────────────────────────────────
// Per-habit per-day completion records. Toggling is idempotent per
// (habit, day): each call fully overwrites that day's state, so repeated
// toggles never compound XP.

// baseXP is awarded for every completion; streakBonusXP is added once per
// full week of streak held *before* the completed day, so the first
// bonus-eligible day is the 8th consecutive day.
const (
	baseXP        = 10
	streakBonusXP = 5
)

// xpForStreak derives the XP award from the streak of prior consecutive days.
func xpForStreak(priorStreak int) int {
	return baseXP + (priorStreak/7)*streakBonusXP
}

// Toggle flips the completion state of (habitID, day) and returns the
// resulting ledger outcome: XP delta applied and any newly unlocked
// achievement IDs.
func (e *Engine) Toggle(habitID string, day time.Time) (domain.ToggleResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	done, err := e.isCompleted(habitID, day)
	if err != nil {
		return domain.ToggleResult{}, err
	}
	if done {
		return e.uncomplete(habitID, day)
	}
	return e.complete(habitID, day)
}

// IsCompleted reports whether the habit is completed on the given day.
// Absence of a record is false, not an error.
func (e *Engine) IsCompleted(habitID string, day time.Time) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isCompleted(habitID, day)
}

func (e *Engine) isCompleted(habitID string, day time.Time) (bool, error) {
	rec, err := e.store.GetCompletion(habitID, domain.Day(day))
	if err != nil {
		return false, fmt.Errorf("get completion: %w", err)
	}
	return rec != nil && rec.Completed, nil
}

// complete records a completion, awards XP and evaluates achievements.
// The streak driving the XP formula is the one held *before* this day,
// so it is measured as of the previous calendar day.
func (e *Engine) complete(habitID string, day time.Time) (domain.ToggleResult, error) {
	var res domain.ToggleResult

	habit, err := e.store.GetHabit(habitID)
	if err != nil {
		return res, fmt.Errorf("get habit: %w", err)
	}
	if habit == nil {
		return res, domain.ErrHabitNotFound
	}

	d := domain.Day(day)
	now := e.now()

	priorStreak, err := e.CurrentStreak(habitID, d.AddDate(0, 0, -1))
	if err != nil {
		return res, err
	}
	xp := xpForStreak(priorStreak)

	// A fresh run that follows a single missed day is a streak recovery.
	recovered := false
	if priorStreak == 0 {
		last, err := e.store.LastCompletedDayBefore(habitID, d)
		if err != nil {
			return res, fmt.Errorf("last completed day: %w", err)
		}
		if !last.IsZero() && domain.DaysBetween(d, last) == 2 {
			recovered = true
			if _, err := e.store.IncrementCounter(counterRecoveries, 1); err != nil {
				return res, fmt.Errorf("count recovery: %w", err)
			}
		}
	}

	err = e.store.UpsertCompletion(domain.CompletionRecord{
		HabitID:     habitID,
		Day:         d,
		Completed:   true,
		XPEarned:    xp,
		CompletedAt: now,
	})
	if err != nil {
		return res, fmt.Errorf("write completion: %w", err)
	}

	stats, leveledUp, err := e.applyXPDelta(xp)
	if err != nil {
		return res, err
	}

	// Maintain streak aggregates on the stats row.
	streakNow := priorStreak + 1
	dirty := false
	if priorStreak == 0 {
		stats.TotalStreaks++
		dirty = true
	}
	if streakNow > stats.LongestStreak {
		stats.LongestStreak = streakNow
		dirty = true
	}
	if dirty {
		if err := e.store.SaveUserStats(stats); err != nil {
			return res, fmt.Errorf("save streak stats: %w", err)
		}
	}

	metrics.CompletionsRecorded.Inc()
	e.publish(domain.EventHabitCompleted, habitID, map[string]any{
		"day": domain.DayKey(d), "xp_earned": xp, "streak": streakNow,
	})
	if leveledUp {
		e.publish(domain.EventLevelUp, habitID, map[string]any{"level": stats.Level})
	}

	unlocked, err := e.evaluateAchievements(habitID, d, now, streakNow, recovered)
	if err != nil {
		return res, err
	}

	// Achievement rewards may themselves level the user up; report the
	// final level, not the mid-toggle one.
	stats, err = e.store.GetUserStats()
	if err != nil {
		return res, fmt.Errorf("get user stats: %w", err)
	}

	res = domain.ToggleResult{
		Completed:     true,
		XPEarned:      xp,
		Level:         stats.Level,
		LeveledUp:     leveledUp,
		NewlyUnlocked: unlocked,
	}
	return res, nil
}

// uncomplete is the exact inverse of complete for the same day: the
// record's completed flag and XP are zeroed (the row persists for audit)
// and the previously awarded XP is revoked. Achievement unlocks are
// one-way and are not re-evaluated.
func (e *Engine) uncomplete(habitID string, day time.Time) (domain.ToggleResult, error) {
	var res domain.ToggleResult

	d := domain.Day(day)
	rec, err := e.store.GetCompletion(habitID, d)
	if err != nil {
		return res, fmt.Errorf("get completion: %w", err)
	}
	if rec == nil || !rec.Completed {
		return res, nil // nothing to undo
	}

	prevXP := rec.XPEarned
	rec.Completed = false
	rec.XPEarned = 0
	rec.CompletedAt = time.Time{}
	if err := e.store.UpsertCompletion(*rec); err != nil {
		return res, fmt.Errorf("write completion: %w", err)
	}

	stats, _, err := e.applyXPDelta(-prevXP)
	if err != nil {
		return res, err
	}

	metrics.CompletionsRevoked.Inc()
	e.publish(domain.EventHabitUncompleted, habitID, map[string]any{
		"day": domain.DayKey(d), "xp_revoked": prevXP,
	})

	res = domain.ToggleResult{
		Completed: false,
		XPEarned:  -prevXP,
		Level:     stats.Level,
	}
	return res, nil
}
