// Package history reconstructs one player's match by match timeline across
// leagues.
package history

import (
	"github.com/negz/kickabout/internal/league"
)

// A Summary is one player's view of one completed match.
type Summary struct {
	MatchID   string         `json:"matchId"`
	LeagueID  string         `json:"leagueId"`
	Goals     int            `json:"goals"`
	Assists   int            `json:"assists"`
	Conceded  int            `json:"conceded"`
	Result    league.Outcome `json:"result"`
	MOTMVotes int            `json:"motmVotes"`
}

// Win returns true if the player's side won.
func (s Summary) Win() bool {
	return s.Result == league.Win
}

// CleanSheetWin returns true if the player's side won without conceding.
func (s Summary) CleanSheetWin() bool {
	return s.Win() && s.Conceded == 0
}

// A LeagueHistory is a player's completed matches in one league, in the order
// the league lists them.
type LeagueHistory struct {
	LeagueID   string    `json:"leagueId"`
	LeagueName string    `json:"leagueName"`
	Matches    []Summary `json:"matches"`
}

// Summarize returns the user's history in every league they play in, in
// league order. A league the user plays in but has no completed matches in
// still gets an (empty) entry.
func Summarize(ls []league.League, userID string) []LeagueHistory {
	out := make([]LeagueHistory, 0, len(ls))
	for _, l := range ls {
		if !l.Plays(userID) {
			continue
		}
		out = append(out, ForLeague(l, userID))
	}
	return out
}

// ForLeague returns the user's history in one league.
func ForLeague(l league.League, userID string) LeagueHistory {
	h := LeagueHistory{LeagueID: l.ID, LeagueName: l.Name, Matches: []Summary{}}
	for _, m := range l.CompletedMatches() {
		s, ok := summarize(m, userID)
		if !ok {
			continue
		}
		s.LeagueID = l.ID
		h.Matches = append(h.Matches, s)
	}
	return h
}

func summarize(m league.Match, userID string) (Summary, bool) {
	var (
		conceded int
		result   league.Outcome
	)
	switch m.Side(userID) {
	case league.SideHome:
		conceded = m.AwayTeamGoals
		result = m.Outcome()
	case league.SideAway:
		conceded = m.HomeTeamGoals
		result = m.Outcome().Invert()
	default:
		return Summary{}, false
	}

	st := m.Stats(userID)
	return Summary{
		MatchID:   m.ID,
		Goals:     st.Goals,
		Assists:   st.Assists,
		Conceded:  conceded,
		Result:    result,
		MOTMVotes: m.TallyVotes(userID)[userID],
	}, true
}

// Flatten concatenates histories into one timeline, in league then match
// order.
func Flatten(hs []LeagueHistory) []Summary {
	n := 0
	for _, h := range hs {
		n += len(h.Matches)
	}
	out := make([]Summary, 0, n)
	for _, h := range hs {
		out = append(out, h.Matches...)
	}
	return out
}
