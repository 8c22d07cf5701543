// Package trophy derives a league's end of season awards.
package trophy

import (
	"cmp"
	"math"
	"slices"

	"github.com/negz/kickabout/internal/league"
	"github.com/negz/kickabout/internal/stats"
)

// Winner labels for trophies without a winner.
const (
	NoWinner = "No Winner"
	Pending  = "TBC"
)

// A Definition is a trophy definition.
type Definition struct {
	Title       string
	Description string
	Image       string
	Color       string
}

// Award titles.
const (
	TitleChampion   = "League Champion"
	TitleRunnerUp   = "Runner-Up"
	TitleBallonDor  = "Ballon D'or"
	TitleGOAT       = "GOAT"
	TitleGoldenBoot = "Golden Boot"
	TitlePlaymaker  = "King Playmaker"
	TitleShield     = "Legendary Shield"
	TitleDarkHorse  = "The Dark Horse"
)

// Catalog is every award, in display order.
var Catalog = []Definition{
	{TitleChampion, "Finished top of the league table.", "trophies/league-champion.png", "#FFD700"},
	{TitleRunnerUp, "Finished second in the league table.", "trophies/runner-up.png", "#C0C0C0"},
	{TitleBallonDor, "Received the most man of the match votes.", "trophies/ballon-dor.png", "#DAA520"},
	{TitleGOAT, "Best win ratio in the league.", "trophies/goat.png", "#8A2BE2"},
	{TitleGoldenBoot, "Scored the most goals.", "trophies/golden-boot.png", "#FFC300"},
	{TitlePlaymaker, "Provided the most assists.", "trophies/king-playmaker.png", "#1E90FF"},
	{TitleShield, "Defender or goalkeeper who conceded the fewest goals per match.", "trophies/legendary-shield.png", "#2E8B57"},
	{TitleDarkHorse, "Most man of the match votes outside the top three.", "trophies/dark-horse.png", "#4B0082"},
}

// A Trophy is an award resolved for one league.
type Trophy struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Color       string `json:"color"`
	Winner      string `json:"winner"`
	WinnerID    string `json:"winnerId,omitempty"`
	LeagueID    string `json:"leagueId"`
	LeagueName  string `json:"leagueName"`
}

// Won returns true if the trophy has a winner.
func (t Trophy) Won() bool {
	return t.WinnerID != ""
}

// darkHorseFrom is the first table index eligible for The Dark Horse, i.e.
// fourth place.
const darkHorseFrom = 3

// Award computes every trophy in the catalog for the league. The same player
// may win several trophies. Ties on any metric go to the player listed first
// in the league's members.
func Award(l league.League) []Trophy {
	s := stats.Aggregate(l)
	order := stats.Order(l, s)
	ranking := stats.Rank(order, s)

	// Votes count even for people who never played.
	voted := stats.Everyone(l, s)

	users := make(map[string]league.User, len(order))
	for _, u := range l.Players() {
		users[u.ID] = u
	}

	defensive := make([]string, 0, len(order))
	for _, id := range order {
		if users[id].ClassifiedPosition().Defensive() {
			defensive = append(defensive, id)
		}
	}

	var darkHorses []string
	if len(ranking) > darkHorseFrom {
		darkHorses = ranking[darkHorseFrom:]
	}

	winners := map[string]string{
		TitleChampion:   at(ranking, 0),
		TitleRunnerUp:   at(ranking, 1),
		TitleBallonDor:  best(voted, s, byDesc(func(ps stats.PlayerStats) int { return ps.MOTMVotes })),
		TitleGOAT:       best(order, s, byWinRatio),
		TitleGoldenBoot: best(order, s, byDesc(func(ps stats.PlayerStats) int { return ps.Goals })),
		TitlePlaymaker:  best(order, s, byDesc(func(ps stats.PlayerStats) int { return ps.Assists })),
		TitleShield:     best(defensive, s, byConcededPerMatch),
		TitleDarkHorse:  best(darkHorses, s, byDesc(func(ps stats.PlayerStats) int { return ps.MOTMVotes })),
	}

	out := make([]Trophy, len(Catalog))
	for i, a := range Catalog {
		t := newTrophy(a, l)
		t.Winner = NoWinner
		if id := winners[a.Title]; id != "" {
			t.WinnerID = id
			t.Winner = displayName(users, id)
		}
		out[i] = t
	}
	return out
}

// Placeholders returns every trophy in the catalog for the league with its
// winner still to be decided.
func Placeholders(l league.League) []Trophy {
	out := make([]Trophy, len(Catalog))
	for i, a := range Catalog {
		t := newTrophy(a, l)
		t.Winner = Pending
		out[i] = t
	}
	return out
}

// ForLeague returns the league's trophies if it is complete, or placeholders
// if it is not.
func ForLeague(l league.League) []Trophy {
	if !l.IsComplete() {
		return Placeholders(l)
	}
	return Award(l)
}

// ForLeagues returns the trophies of every complete league. Incomplete
// leagues contribute nothing.
func ForLeagues(ls []league.League) []Trophy {
	var out []Trophy
	for _, l := range ls {
		if !l.IsComplete() {
			continue
		}
		out = append(out, Award(l)...)
	}
	return out
}

// WonBy returns the trophies won by the user.
func WonBy(ts []Trophy, userID string) []Trophy {
	var out []Trophy
	for _, t := range ts {
		if t.WinnerID != "" && t.WinnerID == userID {
			out = append(out, t)
		}
	}
	return out
}

func newTrophy(a Definition, l league.League) Trophy {
	return Trophy{
		Title:       a.Title,
		Description: a.Description,
		Image:       a.Image,
		Color:       a.Color,
		LeagueID:    l.ID,
		LeagueName:  l.Name,
	}
}

func displayName(users map[string]league.User, id string) string {
	if n := users[id].Name(); n != "" {
		return n
	}
	return id
}

func at(ids []string, i int) string {
	if i >= len(ids) {
		return ""
	}
	return ids[i]
}

// best returns the first candidate after a stable sort by compare. Candidates
// are expected in member order, which therefore breaks any remaining tie. It
// returns an empty string if there are no candidates.
func best(candidates []string, s map[string]*stats.PlayerStats, compare func(a, b stats.PlayerStats) int) string {
	if len(candidates) == 0 {
		return ""
	}
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, func(a, b string) int {
		return compare(get(s, a), get(s, b))
	})
	return sorted[0]
}

func get(s map[string]*stats.PlayerStats, id string) stats.PlayerStats {
	if ps, ok := s[id]; ok && ps != nil {
		return *ps
	}
	return stats.PlayerStats{}
}

func byDesc(metric func(stats.PlayerStats) int) func(a, b stats.PlayerStats) int {
	return func(a, b stats.PlayerStats) int {
		return cmp.Compare(metric(b), metric(a))
	}
}

func winRatio(ps stats.PlayerStats) float64 {
	if ps.Played == 0 {
		return 0
	}
	return float64(ps.Wins) / float64(ps.Played)
}

func byWinRatio(a, b stats.PlayerStats) int {
	if c := cmp.Compare(winRatio(b), winRatio(a)); c != 0 {
		return c
	}
	return cmp.Compare(b.MOTMVotes, a.MOTMVotes)
}

// concededPerMatch is infinite for players who have not played, so they sort
// last.
func concededPerMatch(ps stats.PlayerStats) float64 {
	if ps.Played == 0 {
		return math.Inf(1)
	}
	return float64(ps.TeamGoalsConceded) / float64(ps.Played)
}

func byConcededPerMatch(a, b stats.PlayerStats) int {
	return cmp.Compare(concededPerMatch(a), concededPerMatch(b))
}
