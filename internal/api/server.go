// Package api provides the HTTP server for Ember.
// It exposes the habit ledger, progression state and achievement catalog
// as a small JSON REST API plus a live SSE event feed.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ember-labs/ember/internal/app/progression"
	"github.com/ember-labs/ember/internal/domain"
	"github.com/ember-labs/ember/internal/health"
)

// Server is the Ember HTTP API server.
type Server struct {
	engine         *progression.Engine
	timer          *progression.Timer
	checker        *health.Checker
	hub            *EventHub
	version        string
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(engine *progression.Engine, timer *progression.Timer, checker *health.Checker) *Server {
	return &Server{engine: engine, timer: timer, checker: checker, version: "dev"}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetVersion sets the version string reported by /api/version.
func (s *Server) SetVersion(v string) { s.version = v }

// SetEventHub attaches the live SSE event hub.
func (s *Server) SetEventHub(h *EventHub) { s.hub = h }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/habits", func(r chi.Router) {
			r.Get("/", s.handleListHabits)
			r.Post("/", s.handleCreateHabit)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetHabit)
				r.Put("/", s.handleEditHabit)
				r.Patch("/", s.handleEditHabit)
				r.Post("/toggle", s.handleToggle)
				r.Post("/archive", s.handleArchive)
				r.Post("/revive", s.handleRevive)
				r.Get("/streak", s.handleStreak)
				r.Post("/note", s.handleNote)

				r.Route("/timer", func(r chi.Router) {
					r.Get("/", s.handleTimerStatus)
					r.Post("/start", s.handleTimerStart)
					r.Post("/pause", s.handleTimerPause)
					r.Post("/resume", s.handleTimerResume)
					r.Post("/stop", s.handleTimerStop)
				})
			})
		})

		r.Get("/progress", s.handleProgress)
		r.Get("/achievements", s.handleAchievements)
		r.Get("/activity", s.handleActivity)
		r.Post("/share", s.handleShare)
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Live progression event feed
	if s.hub != nil {
		r.Get("/api/events", s.hub.HandleSSE)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.checker == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	status := http.StatusOK
	if !s.checker.IsHealthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"healthy": s.checker.IsHealthy(),
		"checks":  s.checker.Statuses(),
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeDomainError maps domain sentinel errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrHabitNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEmptyTitle),
		errors.Is(err, domain.ErrBadGranularity),
		errors.Is(err, domain.ErrHabitArchived):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrSessionRunning),
		errors.Is(err, domain.ErrNoSession),
		errors.Is(err, domain.ErrSessionPaused),
		errors.Is(err, domain.ErrSessionNotPaused):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
