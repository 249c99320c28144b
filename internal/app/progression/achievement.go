package progression

import (
	"fmt"
	"time"

	"github.com/ember-labs/ember/internal/domain"
	"github.com/ember-labs/ember/internal/infra/metrics"
)

// ─── Achievement engine ─────────────────────────────────────────────────────
// One state machine per achievement: locked → unlocked, terminal. The
// catalog is evaluated after every completion event; already-unlocked
// entries are skipped before their predicate runs, so rewards can never
// be re-applied.

// evaluateAchievements runs the catalog against a fresh snapshot and
// returns the IDs of every achievement unlocked by this event. Each unlock
// applies its XP reward through the same atomic stats update as
// completions. All mutation happens under the engine mutex.
func (e *Engine) evaluateAchievements(habitID string, day, clock time.Time, streak int, recovered bool) ([]string, error) {
	snap, err := e.buildSnapshot(habitID, day, clock, streak, recovered)
	if err != nil {
		return nil, err
	}

	var unlocked []string
	for _, def := range e.catalog {
		done, err := e.store.IsAchievementUnlocked(def.ID)
		if err != nil {
			return nil, fmt.Errorf("achievement %s: %w", def.ID, err)
		}
		if done {
			continue // pure short-circuit, predicate not recomputed
		}
		if def.Predicate == nil || !def.Predicate(snap) {
			continue
		}

		isNew, err := e.store.UnlockAchievement(def.ID, clock)
		if err != nil {
			return nil, fmt.Errorf("unlock %s: %w", def.ID, err)
		}
		if !isNew {
			continue
		}
		if _, _, err := e.applyXPDelta(def.RewardXP); err != nil {
			return nil, err
		}
		unlocked = append(unlocked, def.ID)
		metrics.AchievementsUnlocked.Inc()
		e.publish(domain.EventAchievementUnlocked, habitID, map[string]any{
			"achievement_id": def.ID, "tier": string(def.Tier), "reward_xp": def.RewardXP,
		})
	}
	return unlocked, nil
}

// Achievements returns the full catalog annotated with unlock state.
type AchievementStatus struct {
	domain.AchievementDef
	Unlocked   bool      `json:"unlocked"`
	UnlockedAt time.Time `json:"unlocked_at,omitempty"`
}

// AchievementList reports every defined achievement and its unlock state.
func (e *Engine) AchievementList() ([]AchievementStatus, error) {
	rows, err := e.store.ListUnlockedAchievements()
	if err != nil {
		return nil, fmt.Errorf("list unlocked: %w", err)
	}
	when := make(map[string]time.Time, len(rows))
	for _, r := range rows {
		when[r.ID] = r.UnlockedAt
	}

	out := make([]AchievementStatus, len(e.catalog))
	for i, def := range e.catalog {
		at, ok := when[def.ID]
		out[i] = AchievementStatus{AchievementDef: def, Unlocked: ok, UnlockedAt: at}
	}
	return out, nil
}

// buildSnapshot assembles the aggregate state achievement predicates run
// against. All values come from the ledger or the counter table; the
// snapshot is a plain value so predicates stay pure and unit-testable.
func (e *Engine) buildSnapshot(habitID string, day, clock time.Time, streak int, recovered bool) (domain.Snapshot, error) {
	var snap domain.Snapshot

	stats, err := e.store.GetUserStats()
	if err != nil {
		return snap, fmt.Errorf("user stats: %w", err)
	}

	habits, err := e.store.ListHabits(true)
	if err != nil {
		return snap, fmt.Errorf("active habits: %w", err)
	}
	created, err := e.store.CountHabits()
	if err != nil {
		return snap, fmt.Errorf("count habits: %w", err)
	}

	total, err := e.store.TotalCompletions()
	if err != nil {
		return snap, fmt.Errorf("total completions: %w", err)
	}
	today, err := e.store.CompletionsOnDay(day)
	if err != nil {
		return snap, fmt.Errorf("completions today: %w", err)
	}

	allDays, err := e.store.AllCompletedDays()
	if err != nil {
		return snap, fmt.Errorf("all completed days: %w", err)
	}

	snap = domain.Snapshot{
		Level:   stats.Level,
		TotalXP: stats.XP,

		Streak:          streak,
		LongestStreak:   stats.LongestStreak,
		StreakRecovered: recovered,

		TotalCompletions: total,
		CompletionsToday: today,
		HabitsCreated:    created,
		ActiveHabits:     len(habits),
		NoZeroRun:        streakEndingAt(allDays, day),

		Date:      day,
		ClockTime: clock,
	}

	if h, err := e.store.OldestActiveHabit(); err != nil {
		return snap, fmt.Errorf("oldest habit: %w", err)
	} else if h != nil {
		snap.OldestHabitDays = domain.DaysBetween(day, h.CreatedAt)
	}

	snap.Consistency30, err = e.consistency(day, len(habits), 30)
	if err != nil {
		return snap, err
	}
	snap.Consistency90, err = e.consistency(day, len(habits), 90)
	if err != nil {
		return snap, err
	}

	snap.PerfectMonth, err = e.perfectMonth(day, len(habits))
	if err != nil {
		return snap, err
	}

	// Gold-tier unlocks already on the books.
	unlockedRows, err := e.store.ListUnlockedAchievements()
	if err != nil {
		return snap, fmt.Errorf("list unlocked: %w", err)
	}
	tiers := make(map[string]domain.Tier, len(e.catalog))
	for _, def := range e.catalog {
		tiers[def.ID] = def.Tier
	}
	for _, row := range unlockedRows {
		if tiers[row.ID] == domain.TierGold {
			snap.GoldUnlocked++
		}
	}

	// Behavioural counters and ledger shape counts.
	for name, dst := range map[string]*int{
		counterShares:     &snap.SocialShares,
		counterRecoveries: &snap.StreakRecoveries,
		counterFocus:      &snap.FocusSessions,
		counterEdits:      &snap.HabitEdits,
		counterRevivals:   &snap.HabitRevivals,
	} {
		v, err := e.store.GetCounter(name)
		if err != nil {
			return snap, fmt.Errorf("counter %s: %w", name, err)
		}
		*dst = v
	}
	if snap.NotesLogged, err = e.store.CountNotes(); err != nil {
		return snap, fmt.Errorf("count notes: %w", err)
	}
	if snap.TimedCompletions, err = e.store.CountTimedCompletions(); err != nil {
		return snap, fmt.Errorf("count timed: %w", err)
	}
	if snap.NightCompletions, err = e.store.CountNightCompletions(); err != nil {
		return snap, fmt.Errorf("count night: %w", err)
	}
	if snap.WeekendCompletions, err = e.store.CountWeekendCompletions(); err != nil {
		return snap, fmt.Errorf("count weekend: %w", err)
	}

	return snap, nil
}

// consistency is the completion rate over a rolling window: completions
// recorded in the last `window` days against the ideal of every active
// habit completed every day.
func (e *Engine) consistency(day time.Time, activeHabits, window int) (float64, error) {
	if activeHabits == 0 {
		return 0, nil
	}
	from := domain.Day(day).AddDate(0, 0, -(window - 1))
	n, err := e.store.CompletionsInRange(from, domain.Day(day))
	if err != nil {
		return 0, fmt.Errorf("completions in range: %w", err)
	}
	pct := float64(n) / float64(activeHabits*window) * 100.0
	if pct > 100 {
		pct = 100
	}
	return pct, nil
}

// perfectMonth reports whether every active habit has been completed on
// every elapsed day of the current calendar month.
func (e *Engine) perfectMonth(day time.Time, activeHabits int) (bool, error) {
	if activeHabits == 0 {
		return false, nil
	}
	d := domain.Day(day)
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	elapsed := d.Day() // days of the month including today
	n, err := e.store.CompletionsInRange(first, d)
	if err != nil {
		return false, fmt.Errorf("completions in month: %w", err)
	}
	return n >= activeHabits*elapsed, nil
}
