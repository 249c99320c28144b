package domain

import "time"

// EventType categorizes progression events published after mutations.
type EventType string

const (
	EventHabitCompleted      EventType = "habit_completed"
	EventHabitUncompleted    EventType = "habit_uncompleted"
	EventLevelUp             EventType = "level_up"
	EventAchievementUnlocked EventType = "achievement_unlocked"
	EventHabitCreated        EventType = "habit_created"
	EventHabitArchived       EventType = "habit_archived"
	EventHabitRevived        EventType = "habit_revived"
)

// Event is a single progression event. Subscribers (chart views, stat
// panels, the SSE feed) receive it after the mutation has been persisted.
type Event struct {
	Type    EventType      `json:"type"`
	HabitID string         `json:"habit_id,omitempty"`
	At      time.Time      `json:"at"`
	Payload map[string]any `json:"payload,omitempty"`
}
