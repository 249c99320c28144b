package domain

import "time"

// ─── User stats ─────────────────────────────────────────────────────────────

// UserStats is the single-row (id=1) progression state. XP and Level are
// kept consistent at all times: Level is derived from XP and the pair is
// written as one logical update, never independently.
type UserStats struct {
	Level         int `json:"level"`
	XP            int `json:"xp"`
	TotalStreaks  int `json:"total_streaks"`  // streaks ever started
	LongestStreak int `json:"longest_streak"` // best run across all habits
}

// XPProgress describes progress within the current level.
type XPProgress struct {
	Current    int     `json:"current"` // XP earned inside this level
	Needed     int     `json:"needed"`  // XP span of this level
	Percentage float64 `json:"percentage"`
}

// ─── Achievements ───────────────────────────────────────────────────────────

// Tier is the cosmetic achievement tier.
type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

// AchievementDef defines one unlockable milestone. The predicate is a pure
// function over a Snapshot; unlocks are one-way and never re-evaluated.
type AchievementDef struct {
	ID          string              `json:"id"`
	Tier        Tier                `json:"tier"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Icon        string              `json:"icon"`
	RewardXP    int                 `json:"reward_xp"`
	Predicate   func(Snapshot) bool `json:"-"`
}

// UnlockedAchievement records when an achievement was earned.
type UnlockedAchievement struct {
	ID         string    `json:"id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// Snapshot is the aggregate state fed to achievement predicates after a
// completion event. Every field is derived from the ledger or the counter
// table; predicates never touch storage themselves.
type Snapshot struct {
	Level   int
	TotalXP int

	Streak          int  // streak of the habit just completed, including today
	LongestStreak   int
	StreakRecovered bool // this completion resumed a run after exactly one missed day

	TotalCompletions int
	CompletionsToday int
	HabitsCreated    int // habits ever created, archived included
	ActiveHabits     int
	OldestHabitDays  int // age in days of the longest-lived active habit

	Consistency30 float64 // completion rate over the last 30 days, 0–100
	Consistency90 float64 // same over 90 days
	PerfectMonth  bool    // every active habit completed every day so far this month
	NoZeroRun     int     // consecutive days, across all habits, with ≥1 completion

	GoldUnlocked int // gold-tier achievements already unlocked

	SocialShares       int
	NotesLogged        int
	StreakRecoveries   int
	WeekendCompletions int
	NightCompletions   int
	TimedCompletions   int
	FocusSessions      int
	HabitEdits         int
	HabitRevivals      int

	Date      time.Time // calendar day being completed
	ClockTime time.Time // wall clock of the toggle
}

// ToggleResult is returned to the UI layer after a completion toggle.
type ToggleResult struct {
	Completed     bool     `json:"completed"` // state after the toggle
	XPEarned      int      `json:"xp_earned"` // negative when uncompleting
	Level         int      `json:"level"`
	LeveledUp     bool     `json:"leveled_up"`
	NewlyUnlocked []string `json:"newly_unlocked_achievement_ids"`
}

// ─── Activity series ────────────────────────────────────────────────────────

// Granularity selects the bucket size for activity aggregation.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// ActivityPoint is one chart point: completions counted within a period.
// Series are chronologically ordered and zero-filled.
type ActivityPoint struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}
