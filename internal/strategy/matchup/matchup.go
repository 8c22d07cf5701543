// Package matchup compares two players head to head across the leagues they
// share.
package matchup

import (
	"context"
	"fmt"

	"github.com/negz/kickabout/internal/league"
)

// Store is the set of queries needed for a head-to-head comparison.
type Store interface {
	GetUser(ctx context.Context, id string) (league.User, error)
	LeaguesForUser(ctx context.Context, userID string) ([]league.League, error)
}

// Record counts results from the first player's point of view.
type Record struct {
	Played int `json:"played"`
	Wins   int `json:"wins"`
	Draws  int `json:"draws"`
	Losses int `json:"losses"`
}

func (r *Record) add(o league.Outcome) {
	r.Played++
	switch o {
	case league.Win:
		r.Wins++
	case league.Draw:
		r.Draws++
	case league.Loss:
		r.Losses++
	}
}

// A Meeting is a completed match both players were rostered in.
type Meeting struct {
	LeagueID   string         `json:"leagueId"`
	LeagueName string         `json:"leagueName"`
	MatchID    string         `json:"matchId"`
	SameSide   bool           `json:"sameSide"`
	Result     league.Outcome `json:"result"` // From the first player's point of view.
	Goals1     int            `json:"goals1"`
	Goals2     int            `json:"goals2"`
}

// Result is the output of a Matchup query.
type Result struct {
	Player1  league.User `json:"player1"`
	Player2  league.User `json:"player2"`
	Together Record      `json:"together"` // Matches on the same side.
	Against  Record      `json:"against"`  // Matches on opposing sides.
	Meetings []Meeting   `json:"meetings"`
}

// Matchup compares two players in every completed match they both played, in
// league then match order.
func Matchup(ctx context.Context, s Store, id1, id2 string) (*Result, error) {
	if id1 == id2 {
		return nil, fmt.Errorf("cannot compare player %s with themselves", id1)
	}

	p1, err := s.GetUser(ctx, id1)
	if err != nil {
		return nil, fmt.Errorf("load player %s: %w", id1, err)
	}
	p2, err := s.GetUser(ctx, id2)
	if err != nil {
		return nil, fmt.Errorf("load player %s: %w", id2, err)
	}

	leagues, err := s.LeaguesForUser(ctx, id1)
	if err != nil {
		return nil, fmt.Errorf("load leagues for %s: %w", id1, err)
	}

	r := &Result{Player1: p1, Player2: p2, Meetings: []Meeting{}}
	for _, l := range leagues {
		for _, m := range l.CompletedMatches() {
			mt, ok := meet(l, m, id1, id2)
			if !ok {
				continue
			}
			if mt.SameSide {
				r.Together.add(mt.Result)
			} else {
				r.Against.add(mt.Result)
			}
			r.Meetings = append(r.Meetings, mt)
		}
	}
	return r, nil
}

func meet(l league.League, m league.Match, id1, id2 string) (Meeting, bool) {
	s1, s2 := m.Side(id1), m.Side(id2)
	if s1 == league.SideNone || s2 == league.SideNone {
		return Meeting{}, false
	}

	result := m.Outcome()
	if s1 == league.SideAway {
		result = result.Invert()
	}

	return Meeting{
		LeagueID:   l.ID,
		LeagueName: l.Name,
		MatchID:    m.ID,
		SameSide:   s1 == s2,
		Result:     result,
		Goals1:     m.Stats(id1).Goals,
		Goals2:     m.Stats(id2).Goals,
	}, true
}
