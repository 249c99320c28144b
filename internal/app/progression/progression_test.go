package progression_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ember-labs/ember/internal/app/progression"
	"github.com/ember-labs/ember/internal/domain"
	"github.com/ember-labs/ember/internal/infra/sqlite"
)

// testDB creates a temporary SQLite database for testing.
func testDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// testEngine builds an engine with a fixed clock (2025-07-15 12:00 UTC,
// a Tuesday) so night/weekend/new-year achievements stay out of the way.
func testEngine(t *testing.T) (*progression.Engine, time.Time) {
	t.Helper()
	clock := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	e := progression.NewEngine(testDB(t), nil)
	e.SetClock(func() time.Time { return clock })
	return e, clock
}

func mustHabit(t *testing.T, e *progression.Engine, title string) domain.Habit {
	t.Helper()
	h, err := e.CreateHabit(domain.Habit{Title: title})
	if err != nil {
		t.Fatalf("create habit: %v", err)
	}
	return h
}

func mustToggle(t *testing.T, e *progression.Engine, habitID string, day time.Time) domain.ToggleResult {
	t.Helper()
	res, err := e.Toggle(habitID, day)
	if err != nil {
		t.Fatalf("toggle %s: %v", day.Format("2006-01-02"), err)
	}
	return res
}

// ═══════════════════════════════════════════════════════════════════════════
// Level Curve Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestLevelForXP_Boundaries(t *testing.T) {
	cases := []struct {
		xp   int
		want int
	}{
		{0, 1}, {49, 1},
		{50, 2}, {199, 2},
		{200, 3}, {449, 3},
		{450, 4},
		{-10, 1},
	}
	for _, c := range cases {
		if got := progression.LevelForXP(c.xp); got != c.want {
			t.Errorf("LevelForXP(%d) = %d, want %d", c.xp, got, c.want)
		}
	}
}

func TestLevelForXP_Monotonic(t *testing.T) {
	prev := 0
	for xp := 0; xp <= 5000; xp += 7 {
		level := progression.LevelForXP(xp)
		if level < prev {
			t.Fatalf("level decreased at xp=%d: %d -> %d", xp, prev, level)
		}
		prev = level
	}
}

func TestXPThresholdForLevel(t *testing.T) {
	cases := []struct {
		level int
		want  int
	}{
		{1, 50}, {2, 200}, {3, 450}, {10, 5000},
	}
	for _, c := range cases {
		if got := progression.XPThresholdForLevel(c.level); got != c.want {
			t.Errorf("XPThresholdForLevel(%d) = %d, want %d", c.level, got, c.want)
		}
	}

	// Crossing the threshold is exactly what bumps the level.
	for level := 1; level < 20; level++ {
		at := progression.XPThresholdForLevel(level)
		if progression.LevelForXP(at-1) != level {
			t.Errorf("xp=%d should still be level %d", at-1, level)
		}
		if progression.LevelForXP(at) != level+1 {
			t.Errorf("xp=%d should be level %d", at, level+1)
		}
	}
}

func TestProgressWithinLevel(t *testing.T) {
	p := progression.ProgressWithinLevel(100, 2)
	if p.Current != 50 {
		t.Errorf("current = %d, want 50", p.Current)
	}
	if p.Needed != 150 {
		t.Errorf("needed = %d, want 150", p.Needed)
	}
	if p.Percentage < 33.0 || p.Percentage > 34.0 {
		t.Errorf("percentage = %f, want ~33.3", p.Percentage)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Streak Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestCurrentStreak_ConsecutiveDays(t *testing.T) {
	e, _ := testEngine(t)
	h := mustHabit(t, e, "Read")

	base := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		mustToggle(t, e, h.ID, base.AddDate(0, 0, i))
	}

	streak, err := e.CurrentStreak(h.ID, base.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("streak: %v", err)
	}
	if streak != 3 {
		t.Errorf("streak = %d, want 3", streak)
	}
}

func TestCurrentStreak_ZeroWhenReferenceDayMissed(t *testing.T) {
	e, _ := testEngine(t)
	h := mustHabit(t, e, "Read")

	base := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		mustToggle(t, e, h.ID, base.AddDate(0, 0, i))
	}

	// Two days after the last completion the chain no longer reaches asOf.
	streak, err := e.CurrentStreak(h.ID, base.AddDate(0, 0, 4))
	if err != nil {
		t.Fatalf("streak: %v", err)
	}
	if streak != 0 {
		t.Errorf("streak = %d, want 0", streak)
	}
}

func TestCurrentStreak_GapRestarts(t *testing.T) {
	e, _ := testEngine(t)
	h := mustHabit(t, e, "Read")

	base := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	mustToggle(t, e, h.ID, base)
	mustToggle(t, e, h.ID, base.AddDate(0, 0, 1))
	mustToggle(t, e, h.ID, base.AddDate(0, 0, 3)) // gap on day 2

	streak, err := e.CurrentStreak(h.ID, base.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("streak: %v", err)
	}
	if streak != 1 {
		t.Errorf("streak = %d, want 1", streak)
	}
}

func TestLongestStreak(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
	}

	cases := []struct {
		name string
		days []time.Time
		want int
	}{
		{"empty", nil, 0},
		{"single", []time.Time{day(1)}, 1},
		{"run of three then two", []time.Time{day(1), day(2), day(3), day(5), day(6)}, 3},
		{"longer run at the end", []time.Time{day(1), day(3), day(4), day(5), day(6)}, 4},
		{"duplicates ignored", []time.Time{day(1), day(1), day(2)}, 2},
		{"unsorted input", []time.Time{day(6), day(4), day(5)}, 3},
	}
	for _, c := range cases {
		if got := progression.LongestStreak(c.days); got != c.want {
			t.Errorf("%s: LongestStreak = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestLongestStreakFor_SurvivesBrokenStreak(t *testing.T) {
	e, _ := testEngine(t)
	h := mustHabit(t, e, "Read")

	base := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		mustToggle(t, e, h.ID, base.AddDate(0, 0, i))
	}
	mustToggle(t, e, h.ID, base.AddDate(0, 0, 10))

	longest, err := e.LongestStreakFor(h.ID)
	if err != nil {
		t.Fatalf("longest: %v", err)
	}
	if longest != 4 {
		t.Errorf("longest = %d, want 4", longest)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Ledger / XP Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestToggle_BaseXP(t *testing.T) {
	e, clock := testEngine(t)
	h := mustHabit(t, e, "Meditate")

	res := mustToggle(t, e, h.ID, clock)
	if !res.Completed {
		t.Error("expected completed")
	}
	if res.XPEarned != 10 {
		t.Errorf("xp = %d, want 10", res.XPEarned)
	}
}

func TestToggle_UnknownHabit(t *testing.T) {
	e, clock := testEngine(t)

	_, err := e.Toggle("nope", clock)
	if !errors.Is(err, domain.ErrHabitNotFound) {
		t.Errorf("err = %v, want ErrHabitNotFound", err)
	}
}

func TestToggle_StreakBonusStartsOnEighthDay(t *testing.T) {
	e, _ := testEngine(t)
	h := mustHabit(t, e, "Run")

	base := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		mustToggle(t, e, h.ID, base.AddDate(0, 0, i))
	}

	// 7th consecutive day: six prior days, still below a full week.
	day7 := mustToggle(t, e, h.ID, base.AddDate(0, 0, 6))
	if day7.XPEarned != 10 {
		t.Errorf("day 7 xp = %d, want 10", day7.XPEarned)
	}

	// 8th consecutive day: a full prior week earns the bonus.
	day8 := mustToggle(t, e, h.ID, base.AddDate(0, 0, 7))
	if day8.XPEarned != 15 {
		t.Errorf("day 8 xp = %d, want 15", day8.XPEarned)
	}
}

func TestToggle_UncompleteRestoresXP(t *testing.T) {
	e, _ := testEngine(t)
	h := mustHabit(t, e, "Write")

	base := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	// Burn the first-completion unlocks so their rewards don't skew the
	// round-trip comparison.
	mustToggle(t, e, h.ID, base)

	before, _, err := e.Progress()
	if err != nil {
		t.Fatalf("progress: %v", err)
	}

	day2 := base.AddDate(0, 0, 1)
	done := mustToggle(t, e, h.ID, day2)
	undone := mustToggle(t, e, h.ID, day2)

	if undone.Completed {
		t.Error("expected uncompleted after second toggle")
	}
	if undone.XPEarned != -done.XPEarned {
		t.Errorf("revoked %d, want %d", undone.XPEarned, -done.XPEarned)
	}

	after, _, err := e.Progress()
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if after.XP != before.XP {
		t.Errorf("xp = %d, want %d restored", after.XP, before.XP)
	}
	if after.Level != before.Level {
		t.Errorf("level = %d, want %d restored", after.Level, before.Level)
	}
}

func TestToggle_RepeatedTogglesDoNotCompound(t *testing.T) {
	e, _ := testEngine(t)
	h := mustHabit(t, e, "Stretch")

	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	mustToggle(t, e, h.ID, day) // complete (+ first unlocks)

	stats1, _, _ := e.Progress()

	mustToggle(t, e, h.ID, day) // uncomplete
	mustToggle(t, e, h.ID, day) // complete again

	stats2, _, _ := e.Progress()
	if stats2.XP != stats1.XP {
		t.Errorf("xp = %d after re-toggle, want %d", stats2.XP, stats1.XP)
	}

	done, err := e.IsCompleted(h.ID, day)
	if err != nil {
		t.Fatalf("is completed: %v", err)
	}
	if !done {
		t.Error("expected completed after odd number of toggles")
	}
}

func TestToggle_StreakRecovery(t *testing.T) {
	e, _ := testEngine(t)
	h := mustHabit(t, e, "Journal")

	base := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	mustToggle(t, e, h.ID, base)
	// Miss exactly one day, then come back.
	res := mustToggle(t, e, h.ID, base.AddDate(0, 0, 2))

	found := false
	for _, id := range res.NewlyUnlocked {
		if id == "streak_recovery" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected streak_recovery unlock, got %v", res.NewlyUnlocked)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Achievement Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestAchievements_FirstCompletionUnlocksStreakStart(t *testing.T) {
	e, clock := testEngine(t)
	h := mustHabit(t, e, "Read")

	res := mustToggle(t, e, h.ID, clock)
	found := false
	for _, id := range res.NewlyUnlocked {
		if id == "streak_start" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected streak_start in %v", res.NewlyUnlocked)
	}
}

func TestAchievements_UnlockIsOneWay(t *testing.T) {
	e, clock := testEngine(t)
	h := mustHabit(t, e, "Read")

	mustToggle(t, e, h.ID, clock) // unlock streak_start
	mustToggle(t, e, h.ID, clock) // uncomplete
	res := mustToggle(t, e, h.ID, clock)

	for _, id := range res.NewlyUnlocked {
		if id == "streak_start" {
			t.Error("streak_start unlocked twice")
		}
	}

	list, err := e.AchievementList()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, a := range list {
		if a.ID == "streak_start" && !a.Unlocked {
			t.Error("streak_start should stay unlocked after uncomplete")
		}
	}
}

func TestAchievements_WeekStreakUnlock(t *testing.T) {
	e, _ := testEngine(t)
	h := mustHabit(t, e, "Run")

	base := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	var last domain.ToggleResult
	for i := 0; i < 7; i++ {
		last = mustToggle(t, e, h.ID, base.AddDate(0, 0, i))
	}

	found := false
	for _, id := range last.NewlyUnlocked {
		if id == "streak_7" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected streak_7 after 7 consecutive days, got %v", last.NewlyUnlocked)
	}
}

func TestAchievements_RewardXPApplied(t *testing.T) {
	e, clock := testEngine(t)
	h := mustHabit(t, e, "Read")

	mustToggle(t, e, h.ID, clock)

	stats, _, err := e.Progress()
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	// 10 base + 25 streak_start reward.
	if stats.XP != 35 {
		t.Errorf("xp = %d, want 35", stats.XP)
	}
}

func TestAchievements_CatalogIDsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, def := range progression.AllAchievements() {
		if seen[def.ID] {
			t.Errorf("duplicate achievement id %s", def.ID)
		}
		seen[def.ID] = true
		if def.Predicate == nil {
			t.Errorf("achievement %s has no predicate", def.ID)
		}
		if def.RewardXP <= 0 {
			t.Errorf("achievement %s has no reward", def.ID)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Habit Lifecycle Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestCreateHabit_EmptyTitle(t *testing.T) {
	e, _ := testEngine(t)
	if _, err := e.CreateHabit(domain.Habit{Title: "   "}); !errors.Is(err, domain.ErrEmptyTitle) {
		t.Errorf("err = %v, want ErrEmptyTitle", err)
	}
}

func TestEditHabit_BumpsEditCount(t *testing.T) {
	e, _ := testEngine(t)
	h := mustHabit(t, e, "Read")

	h.Title = "Read more"
	updated, err := e.EditHabit(h)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if updated.EditCount != 1 {
		t.Errorf("edit count = %d, want 1", updated.EditCount)
	}
	if updated.Title != "Read more" {
		t.Errorf("title = %q", updated.Title)
	}
}

func TestArchiveAndRevive(t *testing.T) {
	e, _ := testEngine(t)
	h := mustHabit(t, e, "Read")

	if err := e.ArchiveHabit(h.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	active, err := e.Habits(false)
	if err != nil {
		t.Fatalf("habits: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("active habits = %d, want 0", len(active))
	}

	all, err := e.Habits(true)
	if err != nil {
		t.Fatalf("habits: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("all habits = %d, want 1", len(all))
	}

	if err := e.ReviveHabit(h.ID); err != nil {
		t.Fatalf("revive: %v", err)
	}
	active, _ = e.Habits(false)
	if len(active) != 1 {
		t.Errorf("active after revive = %d, want 1", len(active))
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Activity Aggregator Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestActivitySeries_DailyZeroFill(t *testing.T) {
	e, clock := testEngine(t)
	h := mustHabit(t, e, "Read")

	mustToggle(t, e, h.ID, clock)                   // Jul 15
	mustToggle(t, e, h.ID, clock.AddDate(0, 0, -1)) // Jul 14
	mustToggle(t, e, h.ID, clock.AddDate(0, 0, -5)) // Jul 10

	points, err := e.ActivitySeries(domain.GranularityDay, 7)
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if len(points) != 7 {
		t.Fatalf("points = %d, want 7", len(points))
	}

	want := []int{0, 1, 0, 0, 0, 1, 1} // Jul 9 .. Jul 15
	for i, p := range points {
		if p.Value != want[i] {
			t.Errorf("point %d (%s) = %d, want %d", i, p.Label, p.Value, want[i])
		}
	}
	if points[6].Label != "Jul 15" {
		t.Errorf("last label = %q, want Jul 15", points[6].Label)
	}
}

func TestActivitySeries_MultipleHabitsSameDay(t *testing.T) {
	e, clock := testEngine(t)
	a := mustHabit(t, e, "Read")
	b := mustHabit(t, e, "Run")

	mustToggle(t, e, a.ID, clock)
	mustToggle(t, e, b.ID, clock)

	points, err := e.ActivitySeries(domain.GranularityDay, 1)
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if len(points) != 1 || points[0].Value != 2 {
		t.Errorf("points = %+v, want single bucket of 2", points)
	}
}

func TestActivitySeries_BadGranularity(t *testing.T) {
	e, _ := testEngine(t)
	if _, err := e.ActivitySeries("fortnight", 5); !errors.Is(err, domain.ErrBadGranularity) {
		t.Errorf("err = %v, want ErrBadGranularity", err)
	}
}

func TestActivitySeries_EmptyCount(t *testing.T) {
	e, _ := testEngine(t)
	points, err := e.ActivitySeries(domain.GranularityDay, 0)
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("points = %d, want 0", len(points))
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Focus Timer Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestTimer_PauseExcludedFromElapsed(t *testing.T) {
	db := testDB(t)
	e := progression.NewEngine(db, nil)
	h := mustHabit(t, e, "Deep work")

	now := time.Date(2025, 7, 15, 9, 0, 0, 0, time.UTC)
	timer := progression.NewTimer(db)
	timer.SetClock(func() time.Time { return now })

	if _, err := timer.Start(h.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	now = now.Add(10 * time.Minute)
	if _, err := timer.Pause(h.ID); err != nil {
		t.Fatalf("pause: %v", err)
	}

	now = now.Add(5 * time.Minute)
	if _, err := timer.Resume(h.ID); err != nil {
		t.Fatalf("resume: %v", err)
	}

	now = now.Add(5 * time.Minute)
	seconds, err := timer.Stop(h.ID)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if seconds != 15*60 {
		t.Errorf("elapsed = %ds, want %ds", seconds, 15*60)
	}
}

func TestTimer_OnlyOneSessionPerHabit(t *testing.T) {
	db := testDB(t)
	e := progression.NewEngine(db, nil)
	h := mustHabit(t, e, "Deep work")

	timer := progression.NewTimer(db)
	if _, err := timer.Start(h.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := timer.Start(h.ID); !errors.Is(err, domain.ErrSessionRunning) {
		t.Errorf("err = %v, want ErrSessionRunning", err)
	}
}

func TestTimer_StopWithoutSession(t *testing.T) {
	db := testDB(t)
	e := progression.NewEngine(db, nil)
	h := mustHabit(t, e, "Deep work")

	timer := progression.NewTimer(db)
	if _, err := timer.Stop(h.ID); !errors.Is(err, domain.ErrNoSession) {
		t.Errorf("err = %v, want ErrNoSession", err)
	}
}

func TestTimer_RecordsTimeOnTrackedHabit(t *testing.T) {
	db := testDB(t)
	e := progression.NewEngine(db, nil)
	h, err := e.CreateHabit(domain.Habit{Title: "Practice", TrackTime: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	now := time.Date(2025, 7, 15, 9, 0, 0, 0, time.UTC)
	timer := progression.NewTimer(db)
	timer.SetClock(func() time.Time { return now })

	// Completion exists for today, so Stop can attach the duration.
	if _, err := e.Toggle(h.ID, now); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if _, err := timer.Start(h.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	now = now.Add(30 * time.Minute)
	if _, err := timer.Stop(h.ID); err != nil {
		t.Fatalf("stop: %v", err)
	}

	rec, err := db.GetCompletion(h.ID, domain.Day(now))
	if err != nil {
		t.Fatalf("get completion: %v", err)
	}
	if rec == nil || rec.TimeSpent != 30*60 {
		t.Errorf("time_spent = %+v, want %ds", rec, 30*60)
	}
}
