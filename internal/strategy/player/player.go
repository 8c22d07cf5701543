// Package player builds a player's card: their record across leagues, trophy
// cabinet, match history, and badges.
package player

import (
	"context"
	"fmt"

	"github.com/negz/kickabout/internal/badge"
	"github.com/negz/kickabout/internal/history"
	"github.com/negz/kickabout/internal/league"
	"github.com/negz/kickabout/internal/stats"
	"github.com/negz/kickabout/internal/trophy"
)

// Store is the set of queries needed for a player card.
type Store interface {
	GetUser(ctx context.Context, id string) (league.User, error)
	LeaguesForUser(ctx context.Context, userID string) ([]league.League, error)
}

// LeagueStats is a player's record in one league.
type LeagueStats struct {
	LeagueID   string            `json:"leagueId"`
	LeagueName string            `json:"leagueName"`
	Position   int               `json:"position"` // Table position, or zero if the player isn't in the table yet.
	Complete   bool              `json:"complete"`
	Stats      stats.PlayerStats `json:"stats"`
	WinPercent int               `json:"winPercent"`
}

// Result is the output of a player card query.
type Result struct {
	User       league.User             `json:"user"`
	Position   string                  `json:"position"`
	Totals     stats.PlayerStats       `json:"totals"`
	WinPercent int                     `json:"winPercent"`
	XP         int                     `json:"xp"`
	Leagues    []LeagueStats           `json:"leagues"`
	Trophies   []trophy.Trophy         `json:"trophies"`
	History    []history.LeagueHistory `json:"history"`
	Badges     []badge.Badge           `json:"badges"`
	BadgeXP    int                     `json:"badgeXp"`
}

// Option configures a player card query.
type Option func(*Options)

// Options holds optional parameters for a player card query.
type Options struct {
	league string
}

// InLeague restricts the card to a single league.
func InLeague(id string) Option {
	return func(o *Options) {
		o.league = id
	}
}

// Analyze returns a player's card.
func Analyze(ctx context.Context, s Store, userID string, opts ...Option) (*Result, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load player: %w", err)
	}

	leagues, err := s.LeaguesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load player leagues: %w", err)
	}

	if o.league != "" {
		leagues = onlyLeague(leagues, o.league)
	}

	r := &Result{
		User:     u,
		Position: u.ClassifiedPosition().String(),
		Leagues:  make([]LeagueStats, 0, len(leagues)),
		Trophies: trophy.WonBy(trophy.ForLeagues(leagues), userID),
		History:  history.Summarize(leagues, userID),
	}

	all := make([]stats.PlayerStats, 0, len(leagues))
	for _, l := range leagues {
		ls := leagueStats(l, userID)
		r.Leagues = append(r.Leagues, ls)
		all = append(all, ls.Stats)
	}

	r.Totals = stats.Combine(all...)
	r.WinPercent = stats.WinPercent(r.Totals)
	r.XP = stats.XP(r.Totals)
	r.Badges = badge.Evaluate(r.History)
	r.BadgeXP = badge.TotalXP(r.Badges)

	return r, nil
}

func leagueStats(l league.League, userID string) LeagueStats {
	out := LeagueStats{
		LeagueID:   l.ID,
		LeagueName: l.Name,
		Complete:   l.IsComplete(),
	}
	for _, row := range stats.Table(l) {
		if row.User.ID != userID {
			continue
		}
		out.Position = row.Position
		out.Stats = row.Stats
		out.WinPercent = row.WinPercent
		break
	}
	return out
}

func onlyLeague(ls []league.League, id string) []league.League {
	for _, l := range ls {
		if l.ID == id {
			return []league.League{l}
		}
	}
	return nil
}
