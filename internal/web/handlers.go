package web

import (
	"net/http"

	"github.com/negz/kickabout/internal/badge"
	"github.com/negz/kickabout/internal/db"
	"github.com/negz/kickabout/internal/history"
	"github.com/negz/kickabout/internal/league"
	"github.com/negz/kickabout/internal/stats"
	"github.com/negz/kickabout/internal/strategy/matchup"
	"github.com/negz/kickabout/internal/strategy/player"
	"github.com/negz/kickabout/internal/trophy"
)

// Leagues.

func (s *Server) handleLeagues(w http.ResponseWriter, r *http.Request) {
	ls, err := s.store.ListLeagueSummaries(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if ls == nil {
		ls = []db.LeagueSummary{}
	}
	writeJSON(w, http.StatusOK, ls)
}

type leagueData struct {
	league.League

	Complete bool `json:"complete"`
}

func (s *Server) handleLeague(w http.ResponseWriter, r *http.Request) {
	l, err := s.store.GetLeague(r.Context(), r.PathValue("league"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, leagueData{League: l, Complete: l.IsComplete()})
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	l, err := s.store.GetLeague(r.Context(), r.PathValue("league"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats.Table(l))
}

func (s *Server) handleLeagueTrophies(w http.ResponseWriter, r *http.Request) {
	l, err := s.store.GetLeague(r.Context(), r.PathValue("league"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trophy.ForLeague(l))
}

func (s *Server) handleTrophies(w http.ResponseWriter, r *http.Request) {
	ls, err := s.store.ListLeagues(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ts := trophy.ForLeagues(ls)
	if ts == nil {
		ts = []trophy.Trophy{}
	}
	writeJSON(w, http.StatusOK, ts)
}

// Users.

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	us, err := s.store.ListUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if us == nil {
		us = []league.User{}
	}
	writeJSON(w, http.StatusOK, us)
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	var opts []player.Option
	if l := r.URL.Query().Get("league"); l != "" {
		opts = append(opts, player.InLeague(l))
	}

	res, err := player.Analyze(r.Context(), s.store, r.PathValue("user"), opts...)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) userLeagues(w http.ResponseWriter, r *http.Request) (string, []league.League, bool) {
	id := r.PathValue("user")
	if _, err := s.store.GetUser(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return "", nil, false
	}
	ls, err := s.store.LeaguesForUser(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return "", nil, false
	}
	return id, ls, true
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, ls, ok := s.userLeagues(w, r)
	if !ok {
		return
	}
	hs := history.Summarize(ls, id)
	if r.URL.Query().Get("flat") != "" {
		writeJSON(w, http.StatusOK, history.Flatten(hs))
		return
	}
	writeJSON(w, http.StatusOK, hs)
}

type badgesData struct {
	Badges  []badge.Badge `json:"badges"`
	TotalXP int           `json:"totalXp"`
}

func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	id, ls, ok := s.userLeagues(w, r)
	if !ok {
		return
	}
	bs := badge.Evaluate(history.Summarize(ls, id))
	writeJSON(w, http.StatusOK, badgesData{Badges: bs, TotalXP: badge.TotalXP(bs)})
}

func (s *Server) handlePlayerTrophies(w http.ResponseWriter, r *http.Request) {
	id, ls, ok := s.userLeagues(w, r)
	if !ok {
		return
	}
	ts := trophy.WonBy(trophy.ForLeagues(ls), id)
	if ts == nil {
		ts = []trophy.Trophy{}
	}
	writeJSON(w, http.StatusOK, ts)
}

func (s *Server) handleMatchup(w http.ResponseWriter, r *http.Request) {
	id1, id2 := r.PathValue("user"), r.PathValue("other")
	if id1 == id2 {
		writeError(w, http.StatusBadRequest, "cannot compare a player with themselves")
		return
	}

	res, err := matchup.Matchup(r.Context(), s.store, id1, id2)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
