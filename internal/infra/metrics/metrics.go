// Package metrics provides Prometheus metrics for Ember — counters and
// gauges for the completion ledger, XP flow, achievements, and timers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Ledger ─────────────────────────────────────────────────────────────────

// CompletionsRecorded counts habit completions written to the ledger.
var CompletionsRecorded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ember",
	Name:      "completions_recorded_total",
	Help:      "Total habit completions recorded.",
})

// CompletionsRevoked counts completions undone via toggle.
var CompletionsRevoked = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ember",
	Name:      "completions_revoked_total",
	Help:      "Total habit completions revoked.",
})

// ─── Progression ────────────────────────────────────────────────────────────

// XPAwarded counts XP granted by completions and achievement rewards.
var XPAwarded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ember",
	Name:      "xp_awarded_total",
	Help:      "Total XP awarded.",
})

// UserLevel tracks the current user level.
var UserLevel = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "ember",
	Name:      "user_level",
	Help:      "Current user level.",
})

// AchievementsUnlocked counts achievement unlocks.
var AchievementsUnlocked = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ember",
	Name:      "achievements_unlocked_total",
	Help:      "Total achievements unlocked.",
})

// ─── Habits & timers ────────────────────────────────────────────────────────

// HabitsCreated counts habits ever created.
var HabitsCreated = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ember",
	Name:      "habits_created_total",
	Help:      "Total habits created.",
})

// ActiveSessions tracks currently running focus timer sessions.
var ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "ember",
	Name:      "focus_sessions_active",
	Help:      "Number of focus timer sessions in flight.",
})
