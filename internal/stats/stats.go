// Package stats folds a league's completed matches into per-player counters
// and ranks players into a league table.
package stats

import (
	"cmp"
	"math"
	"slices"

	"github.com/negz/kickabout/internal/league"
)

// PlayerStats are a player's accumulated counters within one league.
type PlayerStats struct {
	Played            int `json:"played"`
	Wins              int `json:"wins"`
	Draws             int `json:"draws"`
	Losses            int `json:"losses"`
	Goals             int `json:"goals"`
	Assists           int `json:"assists"`
	MOTMVotes         int `json:"motmVotes"`
	TeamGoalsConceded int `json:"teamGoalsConceded"`
}

// Aggregate returns every player's stats for the league, keyed by player ID.
// Every member has an entry, even without matches. Only completed matches
// count.
func Aggregate(l league.League) map[string]*PlayerStats {
	s := make(map[string]*PlayerStats, len(l.Members))
	get := func(id string) *PlayerStats {
		ps, ok := s[id]
		if !ok {
			ps = &PlayerStats{}
			s[id] = ps
		}
		return ps
	}

	for _, u := range l.Members {
		get(u.ID)
	}

	for _, m := range l.CompletedMatches() {
		home := m.Outcome()
		apply(m, m.HomeTeamUsers, home, m.AwayTeamGoals, get)
		apply(m, m.AwayTeamUsers, home.Invert(), m.HomeTeamGoals, get)

		// Votes count for whoever received them, rostered or not.
		for id, n := range m.TallyVotes() {
			get(id).MOTMVotes += n
		}
	}

	return s
}

func apply(m league.Match, side []league.User, o league.Outcome, conceded int, get func(string) *PlayerStats) {
	for _, u := range side {
		ps := get(u.ID)
		ps.Played++
		ps.TeamGoalsConceded += conceded

		st := m.Stats(u.ID)
		ps.Goals += st.Goals
		ps.Assists += st.Assists

		switch o {
		case league.Win:
			ps.Wins++
		case league.Draw:
			ps.Draws++
		case league.Loss:
			ps.Losses++
		}
	}
}

// Order returns the IDs of the league's players, members first then anyone
// else rostered, in first-appearance order. Only they take part in the
// standings.
func Order(l league.League, s map[string]*PlayerStats) []string {
	ids := make([]string, 0, len(s))
	for _, u := range l.Players() {
		if _, ok := s[u.ID]; !ok {
			continue
		}
		ids = append(ids, u.ID)
	}
	return ids
}

// Everyone returns the IDs of every player with stats: Order, followed by
// anyone who isn't a league player, for example a vote recipient who never
// played, sorted by ID.
func Everyone(l league.League, s map[string]*PlayerStats) []string {
	ids := Order(l, s)
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}

	var rest []string
	for id := range s {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	slices.Sort(rest)

	return append(ids, rest...)
}

// Rank orders player IDs by standing, highest first: most wins, then most
// draws, then fewest losses. Players tied on all three keep their input
// order. Players missing from s rank as if they had zero stats.
func Rank(ids []string, s map[string]*PlayerStats) []string {
	out := slices.Clone(ids)
	get := func(id string) PlayerStats {
		if ps, ok := s[id]; ok && ps != nil {
			return *ps
		}
		return PlayerStats{}
	}

	slices.SortStableFunc(out, func(a, b string) int {
		pa, pb := get(a), get(b)
		if c := cmp.Compare(pb.Wins, pa.Wins); c != 0 {
			return c
		}
		if c := cmp.Compare(pb.Draws, pa.Draws); c != 0 {
			return c
		}
		return cmp.Compare(pa.Losses, pb.Losses)
	})
	return out
}

// WinPercent returns the rounded percentage of played matches won.
func WinPercent(ps PlayerStats) int {
	if ps.Played == 0 {
		return 0
	}
	return int(math.Round(float64(ps.Wins) / float64(ps.Played) * 100))
}

// XP weights for the quick view player card.
const (
	xpPerPlayed   = 10
	xpPerWin      = 50
	xpPerDraw     = 20
	xpPerGoal     = 100
	xpPerAssist   = 70
	xpPerMOTMVote = 120
)

// XP scores a player's stats for the quick view player card. It is unrelated
// to badge XP.
func XP(ps PlayerStats) int {
	return ps.Played*xpPerPlayed +
		ps.Wins*xpPerWin +
		ps.Draws*xpPerDraw +
		ps.Goals*xpPerGoal +
		ps.Assists*xpPerAssist +
		ps.MOTMVotes*xpPerMOTMVote
}

// Combine sums stats, for example one player's stats across leagues.
func Combine(all ...PlayerStats) PlayerStats {
	var out PlayerStats
	for _, ps := range all {
		out.Played += ps.Played
		out.Wins += ps.Wins
		out.Draws += ps.Draws
		out.Losses += ps.Losses
		out.Goals += ps.Goals
		out.Assists += ps.Assists
		out.MOTMVotes += ps.MOTMVotes
		out.TeamGoalsConceded += ps.TeamGoalsConceded
	}
	return out
}
