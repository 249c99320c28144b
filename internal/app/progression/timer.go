package progression

import (
	"fmt"
	"time"

	"github.com/ember-labs/ember/internal/domain"
	"github.com/ember-labs/ember/internal/infra/metrics"
)

// ─── Focus timer ────────────────────────────────────────────────────────────
// Time-tracking sessions are independent of the ledger's concurrency
// concerns: they accumulate elapsed time and only touch the ledger at
// session stop. Sessions are persisted as snapshots so a killed process
// can resume them; stop discards the snapshot.

// Timer manages per-habit focus sessions.
type Timer struct {
	store domain.Store
	now   func() time.Time
}

// NewTimer creates a focus timer over the given store.
func NewTimer(store domain.Store) *Timer {
	return &Timer{store: store, now: time.Now}
}

// SetClock overrides the timer's clock. Test hook.
func (t *Timer) SetClock(now func() time.Time) { t.now = now }

// Start begins a session for the habit. Only one session per habit.
func (t *Timer) Start(habitID string) (domain.Session, error) {
	var s domain.Session

	h, err := t.store.GetHabit(habitID)
	if err != nil {
		return s, fmt.Errorf("get habit: %w", err)
	}
	if h == nil {
		return s, domain.ErrHabitNotFound
	}

	existing, err := t.store.GetSession(habitID)
	if err != nil {
		return s, fmt.Errorf("get session: %w", err)
	}
	if existing != nil {
		return s, domain.ErrSessionRunning
	}

	s = domain.Session{HabitID: habitID, StartedAt: t.now()}
	if err := t.store.SaveSession(s); err != nil {
		return s, fmt.Errorf("save session: %w", err)
	}
	metrics.ActiveSessions.Inc()
	return s, nil
}

// Pause suspends the session's clock.
func (t *Timer) Pause(habitID string) (domain.Session, error) {
	s, err := t.session(habitID)
	if err != nil {
		return domain.Session{}, err
	}
	if !s.Running() {
		return s, domain.ErrSessionPaused
	}
	s.PausedAt = t.now()
	if err := t.store.SaveSession(s); err != nil {
		return s, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

// Resume restarts a paused session, folding the pause into PausedAccum.
func (t *Timer) Resume(habitID string) (domain.Session, error) {
	s, err := t.session(habitID)
	if err != nil {
		return domain.Session{}, err
	}
	if s.Running() {
		return s, domain.ErrSessionNotPaused
	}
	s.PausedAccum += t.now().Sub(s.PausedAt)
	s.PausedAt = time.Time{}
	if err := t.store.SaveSession(s); err != nil {
		return s, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

// Elapsed reports the session's active duration without stopping it.
func (t *Timer) Elapsed(habitID string) (time.Duration, error) {
	s, err := t.session(habitID)
	if err != nil {
		return 0, err
	}
	return s.Elapsed(t.now()), nil
}

// Stop ends the session and returns the elapsed seconds. For habits with
// time tracking enabled, the duration is written onto today's completion
// record if one exists; stopping never completes a habit by itself.
func (t *Timer) Stop(habitID string) (int, error) {
	s, err := t.session(habitID)
	if err != nil {
		return 0, err
	}

	now := t.now()
	seconds := int(s.Elapsed(now) / time.Second)

	if err := t.store.DeleteSession(habitID); err != nil {
		return 0, fmt.Errorf("delete session: %w", err)
	}
	metrics.ActiveSessions.Dec()

	if _, err := t.store.IncrementCounter(counterFocus, 1); err != nil {
		return seconds, fmt.Errorf("count session: %w", err)
	}

	h, err := t.store.GetHabit(habitID)
	if err != nil {
		return seconds, fmt.Errorf("get habit: %w", err)
	}
	if h != nil && h.TrackTime {
		if err := t.store.SetCompletionTime(habitID, domain.Day(now), seconds); err != nil {
			return seconds, fmt.Errorf("record time: %w", err)
		}
	}
	return seconds, nil
}

// Sessions lists persisted sessions (used on startup to surface resumable
// timers after a crash or suspension).
func (t *Timer) Sessions() ([]domain.Session, error) {
	return t.store.ListSessions()
}

func (t *Timer) session(habitID string) (domain.Session, error) {
	s, err := t.store.GetSession(habitID)
	if err != nil {
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}
	if s == nil {
		return domain.Session{}, domain.ErrNoSession
	}
	return *s, nil
}
