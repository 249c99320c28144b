package progression

import (
	"fmt"
	"math"

	"github.com/ember-labs/ember/internal/domain"
	"github.com/ember-labs/ember/internal/infra/metrics"
)

// ─── XP / Level model ───────────────────────────────────────────────────────
// Quadratic curve: level L spans total XP [((L-1)²·50), (L²·50)−1].
// Level 1 covers 0–49, level 2 covers 50–199, and so on.

// LevelForXP returns the level for a given total XP amount.
// Monotonic non-decreasing; never below 1.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return int(math.Floor(math.Sqrt(float64(xp)/50.0))) + 1
}

// XPThresholdForLevel returns the total accumulated XP required to
// complete the given level (i.e. to reach level+1).
func XPThresholdForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return level * level * 50
}

// ProgressWithinLevel returns XP progress inside the current level.
// The percentage is clamped at 100 defensively; it cannot exceed it when
// level was computed from the same xp.
func ProgressWithinLevel(xp, level int) domain.XPProgress {
	if level < 1 {
		level = 1
	}
	floor := (level - 1) * (level - 1) * 50
	ceiling := XPThresholdForLevel(level)

	p := domain.XPProgress{
		Current: xp - floor,
		Needed:  ceiling - floor,
	}
	if p.Current < 0 {
		p.Current = 0
	}
	if p.Needed > 0 {
		p.Percentage = float64(p.Current) / float64(p.Needed) * 100.0
	}
	if p.Percentage > 100 {
		p.Percentage = 100
	}
	return p
}

// Progress returns the user's current level and XP progress within it.
func (e *Engine) Progress() (domain.UserStats, domain.XPProgress, error) {
	stats, err := e.store.GetUserStats()
	if err != nil {
		return stats, domain.XPProgress{}, fmt.Errorf("get user stats: %w", err)
	}
	return stats, ProgressWithinLevel(stats.XP, stats.Level), nil
}

// applyXPDelta applies an XP delta to the user stats singleton.
// newXP = max(0, xp+delta); level is re-derived and both fields are
// written in a single logical update. Returns the updated stats and
// whether a level boundary was crossed upward.
func (e *Engine) applyXPDelta(delta int) (domain.UserStats, bool, error) {
	stats, err := e.store.GetUserStats()
	if err != nil {
		return stats, false, fmt.Errorf("get user stats: %w", err)
	}

	oldLevel := stats.Level
	newXP := stats.XP + delta
	if newXP < 0 {
		newXP = 0
	}
	stats.XP = newXP
	stats.Level = LevelForXP(newXP)

	if err := e.store.SaveUserStats(stats); err != nil {
		return stats, false, fmt.Errorf("save user stats: %w", err)
	}

	if delta > 0 {
		metrics.XPAwarded.Add(float64(delta))
	}
	metrics.UserLevel.Set(float64(stats.Level))

	return stats, stats.Level > oldLevel, nil
}
