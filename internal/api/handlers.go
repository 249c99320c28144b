package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ember-labs/ember/internal/domain"
)

// ─── Habits ─────────────────────────────────────────────────────────────────

func (s *Server) handleListHabits(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("archived") == "true"
	habits, err := s.engine.Habits(includeArchived)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if habits == nil {
		habits = []domain.Habit{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"habits": habits})
}

type habitRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
	Category    string `json:"category"`
	TimeOfDay   string `json:"time_of_day"`
	Frequency   string `json:"frequency"`
	TrackTime   bool   `json:"track_time"`
}

func (s *Server) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	var req habitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h, err := s.engine.CreateHabit(domain.Habit{
		Title:       req.Title,
		Description: req.Description,
		Emoji:       req.Emoji,
		Category:    req.Category,
		TimeOfDay:   req.TimeOfDay,
		Frequency:   req.Frequency,
		TrackTime:   req.TrackTime,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h)
}

func (s *Server) handleGetHabit(w http.ResponseWriter, r *http.Request) {
	h, err := s.engine.Habit(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleEditHabit(w http.ResponseWriter, r *http.Request) {
	var req habitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h, err := s.engine.EditHabit(domain.Habit{
		ID:          chi.URLParam(r, "id"),
		Title:       req.Title,
		Description: req.Description,
		Emoji:       req.Emoji,
		Category:    req.Category,
		TimeOfDay:   req.TimeOfDay,
		TrackTime:   req.TrackTime,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.ArchiveHabit(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "archived"})
}

func (s *Server) handleRevive(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.ReviveHabit(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "active"})
}

// ─── Ledger ─────────────────────────────────────────────────────────────────

type dayRequest struct {
	Date string `json:"date"` // YYYY-MM-DD, default today
	Note string `json:"note,omitempty"`
}

// parseDay resolves an optional YYYY-MM-DD string, defaulting to today.
func parseDay(raw string) (time.Time, error) {
	if raw == "" {
		return domain.Day(time.Now()), nil
	}
	return domain.ParseDay(raw)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req dayRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	day, err := parseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}

	res, err := s.engine.Toggle(chi.URLParam(r, "id"), day)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	day, err := parseDay(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}

	current, err := s.engine.CurrentStreak(id, day)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	longest, err := s.engine.LongestStreakFor(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"habit_id": id,
		"current":  current,
		"longest":  longest,
	})
}

func (s *Server) handleNote(w http.ResponseWriter, r *http.Request) {
	var req dayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	day, err := parseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}

	if err := s.engine.AddNote(chi.URLParam(r, "id"), day, req.Note); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "noted"})
}

// ─── Progression ────────────────────────────────────────────────────────────

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	stats, prog, err := s.engine.Progress()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"level":          stats.Level,
		"xp":             stats.XP,
		"total_streaks":  stats.TotalStreaks,
		"longest_streak": stats.LongestStreak,
		"progress":       prog,
	})
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	list, err := s.engine.AchievementList()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	unlocked := 0
	for _, a := range list {
		if a.Unlocked {
			unlocked++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"achievements": list,
		"unlocked":     unlocked,
		"total":        len(list),
	})
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	g := domain.Granularity(r.URL.Query().Get("granularity"))
	if g == "" {
		g = domain.GranularityDay
	}

	count := 30
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 366 {
			writeError(w, http.StatusBadRequest, "count must be 1-366")
			return
		}
		count = n
	}

	points, err := s.engine.ActivitySeries(g, count)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"granularity": g,
		"points":      points,
	})
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	total, err := s.engine.RecordShare()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"shares": total})
}

// ─── Focus timer ────────────────────────────────────────────────────────────

func (s *Server) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	sess, err := s.timer.Start(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleTimerPause(w http.ResponseWriter, r *http.Request) {
	sess, err := s.timer.Pause(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleTimerResume(w http.ResponseWriter, r *http.Request) {
	sess, err := s.timer.Resume(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleTimerStop(w http.ResponseWriter, r *http.Request) {
	seconds, err := s.timer.Stop(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"seconds": seconds})
}

func (s *Server) handleTimerStatus(w http.ResponseWriter, r *http.Request) {
	elapsed, err := s.timer.Elapsed(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"elapsed_seconds": int(elapsed.Seconds())})
}
