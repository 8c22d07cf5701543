// Package web implements the kickabout JSON web service.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"github.com/negz/kickabout/internal/db"
	"github.com/negz/kickabout/internal/league"
	"github.com/negz/kickabout/internal/strategy/matchup"
	"github.com/negz/kickabout/internal/strategy/player"
)

// Store is the set of queries needed by the web service. It composes the
// strategy package store interfaces with the league and user queries.
type Store interface {
	player.Store
	matchup.Store

	ListLeagueSummaries(ctx context.Context, search string) ([]db.LeagueSummary, error)
	ListLeagues(ctx context.Context) ([]league.League, error)
	GetLeague(ctx context.Context, id string) (league.League, error)
	ListUsers(ctx context.Context, search string) ([]league.User, error)
}

// Server serves the kickabout JSON API.
type Server struct {
	store Store
	log   *slog.Logger
}

// NewServer returns a new Server.
func NewServer(store Store, log *slog.Logger) *Server {
	return &Server{store: store, log: log}
}

// Handler returns an http.Handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("GET /leagues", s.handleLeagues)
	mux.HandleFunc("GET /l/{league}", s.handleLeague)
	mux.HandleFunc("GET /l/{league}/table", s.handleTable)
	mux.HandleFunc("GET /l/{league}/trophies", s.handleLeagueTrophies)
	mux.HandleFunc("GET /trophies", s.handleTrophies)

	mux.HandleFunc("GET /users", s.handleUsers)
	mux.HandleFunc("GET /u/{user}", s.handlePlayer)
	mux.HandleFunc("GET /u/{user}/history", s.handleHistory)
	mux.HandleFunc("GET /u/{user}/badges", s.handleBadges)
	mux.HandleFunc("GET /u/{user}/trophies", s.handlePlayerTrophies)
	mux.HandleFunc("GET /u/{user}/vs/{other}", s.handleMatchup)

	mux.HandleFunc("GET /", func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	return mux
}

type statusRecorder struct {
	http.ResponseWriter

	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// WithLogging wraps an http.Handler to log each request's method, path,
// status code, and duration.
func WithLogging(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info("request", "method", r.Method, "path", r.URL.RequestURI(), "status", rec.status, "duration", time.Since(start))
	})
}

// WithCacheControl wraps an http.Handler to set a Cache-Control header on
// every response.
func WithCacheControl(next http.Handler, value string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", value)
		next.ServeHTTP(w, r)
	})
}

// Sync runs a data sync using the provided function, then repeats every
// interval. It blocks until the context is cancelled.
func Sync(ctx context.Context, syncFn func(context.Context) error, interval time.Duration, log *slog.Logger) {
	if err := syncFn(ctx); err != nil {
		log.Error("initial sync failed", "err", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := syncFn(ctx); err != nil {
				log.Error("periodic sync failed", "err", err)
			}
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigStd.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// fail writes an error response, logging errors that aren't the caller's
// fault.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.log.Error("request failed", "path", r.URL.Path, "err", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}
