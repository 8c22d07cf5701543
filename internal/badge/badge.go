// Package badge evaluates a player's match history against a catalog of
// unlockable badges.
package badge

import (
	"fmt"

	"github.com/negz/kickabout/internal/history"
)

// NotTracked is the progress text of badges whose metric isn't recorded.
const NotTracked = "Not tracked yet"

// A Scope determines which slice of a player's history a badge's metric is
// computed over.
type Scope int

// Badge scopes.
const (
	// ScopeNone badges can't be earned yet. They're always locked.
	ScopeNone Scope = iota

	// ScopeBestLeague metrics are computed per league. The best league
	// counts.
	ScopeBestLeague

	// ScopeAllLeagues metrics are computed over every league as one
	// timeline.
	ScopeAllLeagues
)

// A Metric measures one player's history.
type Metric func(ms []history.Summary) int

// A Definition describes a badge in the catalog.
type Definition struct {
	ID          string
	Title       string
	Description string
	Image       string
	Color       string
	Threshold   int
	XP          int

	Scope  Scope
	Metric Metric

	// Unit names what the metric counts, singular then plural.
	Unit [2]string
}

// A Badge is a definition evaluated for one player.
type Badge struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	Color        string `json:"color"`
	Count        int    `json:"count"`
	XP           int    `json:"xp"`
	Unlocked     bool   `json:"unlocked"`
	Progress     int    `json:"progress"`
	Threshold    int    `json:"threshold"`
	ProgressText string `json:"progressText"`
}

// hatTrick is the number of goals in one match that make a hat-trick.
const hatTrick = 3

var matches = [2]string{"match", "matches"}

// Catalog is every badge, in display order.
var Catalog = []Definition{
	{
		ID:          "hat-trick-hero",
		Title:       "Hat-trick Hero",
		Description: "Score a hat-trick in three matches.",
		Image:       "badges/hat-trick-hero.png",
		Color:       "#E63946",
		Threshold:   3,
		XP:          500,
		Scope:       ScopeAllLeagues,
		Metric:      Count(func(s history.Summary) bool { return s.Goals >= hatTrick }),
		Unit:        [2]string{"hat-trick", "hat-tricks"},
	},
	{
		ID:          "playmaker",
		Title:       "Playmaker",
		Description: "Assist in three matches in a row within a league.",
		Image:       "badges/playmaker.png",
		Color:       "#1D8FE1",
		Threshold:   3,
		XP:          300,
		Scope:       ScopeBestLeague,
		Metric:      Streak(func(s history.Summary) bool { return s.Assists > 0 }),
		Unit:        matches,
	},
	{
		ID:          "hot-streak",
		Title:       "Hot Streak",
		Description: "Score in five matches in a row within a league.",
		Image:       "badges/hot-streak.png",
		Color:       "#F77F00",
		Threshold:   5,
		XP:          400,
		Scope:       ScopeBestLeague,
		Metric:      Streak(func(s history.Summary) bool { return s.Goals > 0 }),
		Unit:        matches,
	},
	{
		ID:          "unstoppable",
		Title:       "Unstoppable",
		Description: "Win five matches in a row within a league.",
		Image:       "badges/unstoppable.png",
		Color:       "#2A9D8F",
		Threshold:   5,
		XP:          350,
		Scope:       ScopeBestLeague,
		Metric:      Streak(history.Summary.Win),
		Unit:        matches,
	},
	{
		ID:          "crowd-favourite",
		Title:       "Crowd Favourite",
		Description: "Receive a man of the match vote in three matches in a row.",
		Image:       "badges/crowd-favourite.png",
		Color:       "#FFB703",
		Threshold:   3,
		XP:          450,
		Scope:       ScopeAllLeagues,
		Metric:      Streak(func(s history.Summary) bool { return s.MOTMVotes > 0 }),
		Unit:        matches,
	},
	{
		ID:          "iron-wall",
		Title:       "Iron Wall",
		Description: "Win three matches in a row without conceding.",
		Image:       "badges/iron-wall.png",
		Color:       "#457B9D",
		Threshold:   3,
		XP:          400,
		Scope:       ScopeAllLeagues,
		Metric:      Streak(history.Summary.CleanSheetWin),
		Unit:        matches,
	},
	{
		ID:          "captains-pick",
		Title:       "Captain's Pick",
		Description: "Be picked first by a captain ten times.",
		Image:       "badges/captains-pick.png",
		Color:       "#6A4C93",
		Threshold:   10,
		XP:          250,
	},
	{
		ID:          "skipper",
		Title:       "Skipper",
		Description: "Win five matches as captain.",
		Image:       "badges/skipper.png",
		Color:       "#264653",
		Threshold:   5,
		XP:          300,
	},
	{
		ID:          "summit",
		Title:       "Summit",
		Description: "Top a league table for four weeks.",
		Image:       "badges/summit.png",
		Color:       "#B5838D",
		Threshold:   4,
		XP:          600,
	},
}

// LongestStreak returns the length of the longest run of consecutive matches
// that satisfy the predicate.
func LongestStreak(ms []history.Summary, pred func(history.Summary) bool) int {
	longest, current := 0, 0
	for _, m := range ms {
		if !pred(m) {
			current = 0
			continue
		}
		current++
		longest = max(longest, current)
	}
	return longest
}

// Streak returns a metric that measures the longest streak of matches that
// satisfy the predicate.
func Streak(pred func(history.Summary) bool) Metric {
	return func(ms []history.Summary) int {
		return LongestStreak(ms, pred)
	}
}

// Count returns a metric that counts the matches that satisfy the predicate.
func Count(pred func(history.Summary) bool) Metric {
	return func(ms []history.Summary) int {
		n := 0
		for _, m := range ms {
			if pred(m) {
				n++
			}
		}
		return n
	}
}

// Measure computes the definition's metric over the supplied histories.
func (d Definition) Measure(hs []history.LeagueHistory) int {
	switch d.Scope {
	case ScopeBestLeague:
		best := 0
		for _, h := range hs {
			best = max(best, d.Metric(h.Matches))
		}
		return best
	case ScopeAllLeagues:
		return d.Metric(history.Flatten(hs))
	default:
		return 0
	}
}

// Tracked returns true if the badge can be earned.
func (d Definition) Tracked() bool {
	return d.Scope != ScopeNone && d.Metric != nil && d.Threshold > 0
}

// Evaluate returns every badge in the catalog evaluated against one player's
// histories.
func Evaluate(hs []history.LeagueHistory) []Badge {
	out := make([]Badge, len(Catalog))
	for i, d := range Catalog {
		out[i] = d.Evaluate(hs)
	}
	return out
}

// Evaluate the definition against one player's histories.
func (d Definition) Evaluate(hs []history.LeagueHistory) Badge {
	if !d.Tracked() {
		return d.badge()
	}
	return d.evaluateMetric(d.Measure(hs))
}

func (d Definition) evaluateMetric(metric int) Badge {
	b := d.badge()
	b.Progress = metric
	b.Count = metric / d.Threshold
	b.Unlocked = metric >= d.Threshold
	b.ProgressText = d.progressText(metric)
	return b
}

func (d Definition) badge() Badge {
	return Badge{
		ID:           d.ID,
		Title:        d.Title,
		Description:  d.Description,
		Image:        d.Image,
		Color:        d.Color,
		XP:           d.XP,
		Threshold:    d.Threshold,
		ProgressText: NotTracked,
	}
}

func (d Definition) progressText(metric int) string {
	remaining := d.Threshold - metric%d.Threshold
	unit := d.Unit[1]
	if remaining == 1 {
		unit = d.Unit[0]
	}
	if metric < d.Threshold {
		return fmt.Sprintf("%d more %s to unlock", remaining, unit)
	}
	return fmt.Sprintf("%d more %s to earn again", remaining, unit)
}

// TotalXP returns the XP earned across badges. Each badge earns its XP once
// per count.
func TotalXP(bs []Badge) int {
	total := 0
	for _, b := range bs {
		total += b.Count * b.XP
	}
	return total
}

// Unlocked returns only the unlocked badges.
func Unlocked(bs []Badge) []Badge {
	var out []Badge
	for _, b := range bs {
		if b.Unlocked {
			out = append(out, b)
		}
	}
	return out
}
