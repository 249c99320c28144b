// Package progression implements the Ember progression and consistency
// engine: the rules that convert raw completion events into XP, levels,
// streaks, and achievement unlocks, plus the time-series aggregation used
// for statistics.
package progression

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ember-labs/ember/internal/domain"
	"github.com/ember-labs/ember/internal/infra/metrics"
)

// Counter names kept in the store's counter table.
const (
	counterShares     = "social_shares"
	counterRecoveries = "streak_recoveries"
	counterFocus      = "focus_sessions"
	counterEdits      = "habit_edits"
	counterRevivals   = "habit_revivals"
)

// Engine is the progression engine. All ledger/XP/achievement mutations go
// through it; a single mutex serializes them because the read-modify-write
// sequence (read streak → compute XP → write record → update stats →
// evaluate achievements) is not atomic against concurrent mutation.
type Engine struct {
	mu      sync.Mutex
	store   domain.Store
	bus     domain.Publisher
	catalog []domain.AchievementDef
	now     func() time.Time
}

// NewEngine creates a progression engine over the given store.
// The publisher may be nil when no subscribers exist.
func NewEngine(store domain.Store, bus domain.Publisher) *Engine {
	return &Engine{
		store:   store,
		bus:     bus,
		catalog: AllAchievements(),
		now:     time.Now,
	}
}

// SetClock overrides the engine's clock. Test hook.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

func (e *Engine) publish(t domain.EventType, habitID string, payload map[string]any) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(domain.Event{Type: t, HabitID: habitID, At: e.now(), Payload: payload})
}

// ─── Habit lifecycle ────────────────────────────────────────────────────────

// CreateHabit registers a new habit and returns it with an assigned ID.
func (e *Engine) CreateHabit(h domain.Habit) (domain.Habit, error) {
	if strings.TrimSpace(h.Title) == "" {
		return h, domain.ErrEmptyTitle
	}
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.Frequency == "" {
		h.Frequency = domain.FrequencyDaily
	}
	h.IsActive = true
	if h.CreatedAt.IsZero() {
		h.CreatedAt = e.now()
	}

	if err := e.store.UpsertHabit(h); err != nil {
		return h, fmt.Errorf("create habit: %w", err)
	}
	metrics.HabitsCreated.Inc()
	e.publish(domain.EventHabitCreated, h.ID, map[string]any{"title": h.Title})
	return h, nil
}

// EditHabit updates a habit's user-editable fields and bumps its edit
// counter. The ID, creation date and active flag are not editable here.
func (e *Engine) EditHabit(h domain.Habit) (domain.Habit, error) {
	if strings.TrimSpace(h.Title) == "" {
		return h, domain.ErrEmptyTitle
	}
	existing, err := e.store.GetHabit(h.ID)
	if err != nil {
		return h, fmt.Errorf("get habit: %w", err)
	}
	if existing == nil {
		return h, domain.ErrHabitNotFound
	}

	existing.Title = h.Title
	existing.Description = h.Description
	existing.Emoji = h.Emoji
	existing.Category = h.Category
	existing.TimeOfDay = h.TimeOfDay
	existing.TrackTime = h.TrackTime
	existing.EditCount++

	if err := e.store.UpsertHabit(*existing); err != nil {
		return h, fmt.Errorf("edit habit: %w", err)
	}
	if _, err := e.store.IncrementCounter(counterEdits, 1); err != nil {
		return h, fmt.Errorf("count edit: %w", err)
	}
	return *existing, nil
}

// ArchiveHabit soft-deletes a habit. Its completion history stays valid.
func (e *Engine) ArchiveHabit(id string) error {
	h, err := e.store.GetHabit(id)
	if err != nil {
		return fmt.Errorf("get habit: %w", err)
	}
	if h == nil {
		return domain.ErrHabitNotFound
	}
	if err := e.store.SetHabitActive(id, false); err != nil {
		return fmt.Errorf("archive habit: %w", err)
	}
	e.publish(domain.EventHabitArchived, id, nil)
	return nil
}

// ReviveHabit re-activates an archived habit.
func (e *Engine) ReviveHabit(id string) error {
	h, err := e.store.GetHabit(id)
	if err != nil {
		return fmt.Errorf("get habit: %w", err)
	}
	if h == nil {
		return domain.ErrHabitNotFound
	}
	if h.IsActive {
		return nil // already active
	}
	if err := e.store.SetHabitActive(id, true); err != nil {
		return fmt.Errorf("revive habit: %w", err)
	}
	if _, err := e.store.IncrementCounter(counterRevivals, 1); err != nil {
		return fmt.Errorf("count revival: %w", err)
	}
	e.publish(domain.EventHabitRevived, id, nil)
	return nil
}

// Habits lists habits, active only unless includeArchived is set.
func (e *Engine) Habits(includeArchived bool) ([]domain.Habit, error) {
	return e.store.ListHabits(!includeArchived)
}

// Habit fetches a single habit by ID.
func (e *Engine) Habit(id string) (domain.Habit, error) {
	h, err := e.store.GetHabit(id)
	if err != nil {
		return domain.Habit{}, fmt.Errorf("get habit: %w", err)
	}
	if h == nil {
		return domain.Habit{}, domain.ErrHabitNotFound
	}
	return *h, nil
}

// ─── Auxiliary counters ─────────────────────────────────────────────────────

// RecordShare increments the social-share counter. The UI calls this after
// its share sheet succeeds.
func (e *Engine) RecordShare() (int, error) {
	return e.store.IncrementCounter(counterShares, 1)
}

// AddNote attaches a free-text note to a day's completion record.
// A missing record is not an error: the note lands on an empty row and
// survives a later toggle.
func (e *Engine) AddNote(habitID string, day time.Time, note string) error {
	h, err := e.store.GetHabit(habitID)
	if err != nil {
		return fmt.Errorf("get habit: %w", err)
	}
	if h == nil {
		return domain.ErrHabitNotFound
	}
	return e.store.SetCompletionNote(habitID, domain.Day(day), note)
}
