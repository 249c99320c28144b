package progression

import (
	"time"

	"github.com/ember-labs/ember/internal/domain"
)

// ─── Achievement catalog ────────────────────────────────────────────────────
// Every milestone is a tagged predicate over a Snapshot, so the engine can
// evaluate them table-driven and each one can be unit-tested in isolation.
// Tiers are cosmetic; XP rewards are not.

// AllAchievements returns the full achievement catalog.
func AllAchievements() []domain.AchievementDef {
	return []domain.AchievementDef{
		// ── Levels & XP ────────────────────────────────────────────────
		{
			ID: "level_5", Tier: domain.TierBronze, Title: "Getting Warmer",
			Description: "Reach level 5", Icon: "🌡️", RewardXP: 100,
			Predicate: func(s domain.Snapshot) bool { return s.Level >= 5 },
		},
		{
			ID: "level_15", Tier: domain.TierGold, Title: "Seasoned",
			Description: "Reach level 15", Icon: "🏅", RewardXP: 500,
			Predicate: func(s domain.Snapshot) bool { return s.Level >= 15 },
		},
		{
			ID: "total_xp_10000", Tier: domain.TierGold, Title: "Ten Thousand Sparks",
			Description: "Accumulate 10,000 XP", Icon: "✨", RewardXP: 1000,
			Predicate: func(s domain.Snapshot) bool { return s.TotalXP >= 10000 },
		},

		// ── Streaks ────────────────────────────────────────────────────
		{
			ID: "streak_start", Tier: domain.TierBronze, Title: "First Spark",
			Description: "Start your first streak", Icon: "🔥", RewardXP: 25,
			Predicate: func(s domain.Snapshot) bool { return s.Streak >= 1 },
		},
		{
			ID: "streak_7", Tier: domain.TierBronze, Title: "Week Warrior",
			Description: "Hold a 7-day streak", Icon: "🗓️", RewardXP: 150,
			Predicate: func(s domain.Snapshot) bool { return s.Streak >= 7 },
		},
		{
			ID: "streak_30", Tier: domain.TierSilver, Title: "Monthly Machine",
			Description: "Hold a 30-day streak", Icon: "💪", RewardXP: 500,
			Predicate: func(s domain.Snapshot) bool { return s.Streak >= 30 },
		},
		{
			ID: "mega_streak_100", Tier: domain.TierPlatinum, Title: "Centurion",
			Description: "Hold a 100-day streak", Icon: "🏛️", RewardXP: 2000,
			Predicate: func(s domain.Snapshot) bool { return s.Streak >= 100 },
		},
		{
			ID: "streak_recovery", Tier: domain.TierBronze, Title: "Back on Track",
			Description: "Resume a habit after missing a single day", Icon: "🩹", RewardXP: 75,
			Predicate: func(s domain.Snapshot) bool { return s.StreakRecovered || s.StreakRecoveries >= 1 },
		},
		{
			ID: "streak_comeback", Tier: domain.TierGold, Title: "Phoenix",
			Description: "Rebuild a 7-day streak after losing one", Icon: "🐦‍🔥", RewardXP: 500,
			Predicate: func(s domain.Snapshot) bool { return s.StreakRecoveries >= 1 && s.Streak >= 7 },
		},

		// ── Completions ────────────────────────────────────────────────
		{
			ID: "habits_completed_50", Tier: domain.TierSilver, Title: "Half Century",
			Description: "Log 50 completions all-time", Icon: "☑️", RewardXP: 300,
			Predicate: func(s domain.Snapshot) bool { return s.TotalCompletions >= 50 },
		},
		{
			ID: "habits_completed_500", Tier: domain.TierGold, Title: "Relentless",
			Description: "Log 500 completions all-time", Icon: "🏆", RewardXP: 1500,
			Predicate: func(s domain.Snapshot) bool { return s.TotalCompletions >= 500 },
		},
		{
			ID: "habits_per_day_5", Tier: domain.TierBronze, Title: "Full House",
			Description: "Complete 5 habits in a single day", Icon: "🃏", RewardXP: 100,
			Predicate: func(s domain.Snapshot) bool { return s.CompletionsToday >= 5 },
		},
		{
			ID: "no_zero_days_30", Tier: domain.TierGold, Title: "No Zero Days",
			Description: "30 consecutive days with at least one completion", Icon: "📈", RewardXP: 800,
			Predicate: func(s domain.Snapshot) bool { return s.NoZeroRun >= 30 },
		},

		// ── Consistency ────────────────────────────────────────────────
		{
			ID: "consistency_80", Tier: domain.TierSilver, Title: "Steady Hand",
			Description: "80% completion rate over 30 days", Icon: "⚖️", RewardXP: 400,
			Predicate: func(s domain.Snapshot) bool { return s.Consistency30 >= 80 },
		},
		{
			ID: "consistency_quarter", Tier: domain.TierGold, Title: "Quarter Master",
			Description: "80% completion rate over 90 days", Icon: "🧭", RewardXP: 800,
			Predicate: func(s domain.Snapshot) bool { return s.Consistency90 >= 80 },
		},
		{
			ID: "monthly_perfect", Tier: domain.TierPlatinum, Title: "Flawless Month",
			Description: "Complete every habit every day of a month", Icon: "💎", RewardXP: 1500,
			Predicate: func(s domain.Snapshot) bool { return s.PerfectMonth && s.Date.Day() >= 28 },
		},

		// ── Habit collection ───────────────────────────────────────────
		{
			ID: "habits_created_5", Tier: domain.TierBronze, Title: "Collector",
			Description: "Create 5 habits", Icon: "🗂️", RewardXP: 75,
			Predicate: func(s domain.Snapshot) bool { return s.HabitsCreated >= 5 },
		},
		{
			ID: "habit_veteran_60", Tier: domain.TierSilver, Title: "Old Faithful",
			Description: "Keep one habit active for 60 days", Icon: "⏳", RewardXP: 300,
			Predicate: func(s domain.Snapshot) bool { return s.OldestHabitDays >= 60 },
		},
		{
			ID: "habit_edits_5", Tier: domain.TierBronze, Title: "Tinkerer",
			Description: "Edit your habits 5 times", Icon: "🔧", RewardXP: 50,
			Predicate: func(s domain.Snapshot) bool { return s.HabitEdits >= 5 },
		},
		{
			ID: "habit_revival", Tier: domain.TierBronze, Title: "Second Wind",
			Description: "Revive an archived habit", Icon: "🌱", RewardXP: 100,
			Predicate: func(s domain.Snapshot) bool { return s.HabitRevivals >= 1 },
		},

		// ── Time & context ─────────────────────────────────────────────
		{
			ID: "night_owl_10", Tier: domain.TierSilver, Title: "Night Owl",
			Description: "Log 10 completions between midnight and 5 AM", Icon: "🦉", RewardXP: 200,
			Predicate: func(s domain.Snapshot) bool { return s.NightCompletions >= 10 },
		},
		{
			ID: "weekend_warrior_10", Tier: domain.TierSilver, Title: "Weekend Warrior",
			Description: "Log 10 weekend completions", Icon: "🏖️", RewardXP: 200,
			Predicate: func(s domain.Snapshot) bool { return s.WeekendCompletions >= 10 },
		},
		{
			ID: "clockwork_10", Tier: domain.TierBronze, Title: "Clockwork",
			Description: "Log 10 time-tracked completions", Icon: "⏱️", RewardXP: 150,
			Predicate: func(s domain.Snapshot) bool { return s.TimedCompletions >= 10 },
		},
		{
			ID: "zen_mode_10", Tier: domain.TierSilver, Title: "Zen Master",
			Description: "Finish 10 focus timer sessions", Icon: "🧘", RewardXP: 250,
			Predicate: func(s domain.Snapshot) bool { return s.FocusSessions >= 10 },
		},
		{
			ID: "fresh_start", Tier: domain.TierBronze, Title: "Fresh Start",
			Description: "Complete a habit on New Year's Day", Icon: "🎆", RewardXP: 100,
			Predicate: func(s domain.Snapshot) bool {
				return s.Date.Month() == time.January && s.Date.Day() == 1
			},
		},

		// ── Social & journaling ────────────────────────────────────────
		{
			ID: "social_share_1", Tier: domain.TierBronze, Title: "Show and Tell",
			Description: "Share your progress once", Icon: "📣", RewardXP: 50,
			Predicate: func(s domain.Snapshot) bool { return s.SocialShares >= 1 },
		},
		{
			ID: "chronicler_10", Tier: domain.TierBronze, Title: "Chronicler",
			Description: "Attach notes to 10 completions", Icon: "📓", RewardXP: 100,
			Predicate: func(s domain.Snapshot) bool { return s.NotesLogged >= 10 },
		},

		// ── Meta ───────────────────────────────────────────────────────
		{
			ID: "gilded_3", Tier: domain.TierPlatinum, Title: "Gilded",
			Description: "Unlock 3 gold achievements", Icon: "👑", RewardXP: 1000,
			Predicate: func(s domain.Snapshot) bool { return s.GoldUnlocked >= 3 },
		},
	}
}
