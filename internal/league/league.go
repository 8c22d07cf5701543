// Package league models a snapshot of an amateur football league: its members
// and the matches they played.
package league

import (
	"strings"
)

// Status is the lifecycle state of a match.
type Status string

// Match statuses. Only completed matches count towards statistics.
const (
	StatusScheduled Status = "scheduled"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
)

// A User is a player registered on the platform.
type User struct {
	ID        string `json:"id"                 validate:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Position  string `json:"position,omitempty"`
}

// Name returns the user's display name.
func (u User) Name() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// PlayerMatchStats is a player's individual contribution to one match.
type PlayerMatchStats struct {
	Goals   int `json:"goals"   validate:"min=0"`
	Assists int `json:"assists" validate:"min=0"`
}

// A Match between two sides of league members.
type Match struct {
	ID            string `json:"id"            validate:"required"`
	HomeTeamGoals int    `json:"homeTeamGoals" validate:"min=0"`
	AwayTeamGoals int    `json:"awayTeamGoals" validate:"min=0"`
	HomeTeamUsers []User `json:"homeTeamUsers" validate:"dive"`
	AwayTeamUsers []User `json:"awayTeamUsers" validate:"dive"`

	// ManOfTheMatchVotes maps voter ID to the ID of the player they voted for.
	ManOfTheMatchVotes map[string]string `json:"manOfTheMatchVotes,omitempty"`

	// PlayerStats maps player ID to their stats for this match. Players
	// without an entry contributed nothing.
	PlayerStats map[string]PlayerMatchStats `json:"playerStats,omitempty" validate:"dive"`

	Status Status `json:"status" validate:"oneof=scheduled ongoing completed"`
}

// Completed returns true if the match has been played to completion.
func (m Match) Completed() bool {
	return m.Status == StatusCompleted
}

// Outcome is a match result from one side's point of view.
type Outcome string

// Match outcomes.
const (
	Win  Outcome = "W"
	Draw Outcome = "D"
	Loss Outcome = "L"
)

// Invert returns the outcome from the other side's point of view.
func (o Outcome) Invert() Outcome {
	switch o {
	case Win:
		return Loss
	case Loss:
		return Win
	default:
		return o
	}
}

// Outcome returns the home side's result.
func (m Match) Outcome() Outcome {
	switch {
	case m.HomeTeamGoals > m.AwayTeamGoals:
		return Win
	case m.HomeTeamGoals < m.AwayTeamGoals:
		return Loss
	default:
		return Draw
	}
}

// Side is the side of a match a player was rostered on.
type Side int

// Match sides.
const (
	SideNone Side = iota
	SideHome
	SideAway
)

// Side returns which side the user played for. Home wins if a user somehow
// appears in both rosters.
func (m Match) Side(userID string) Side {
	for _, u := range m.HomeTeamUsers {
		if u.ID == userID {
			return SideHome
		}
	}
	for _, u := range m.AwayTeamUsers {
		if u.ID == userID {
			return SideAway
		}
	}
	return SideNone
}

// Stats returns the player's stats for the match. A missing entry is zero.
func (m Match) Stats(userID string) PlayerMatchStats {
	return m.PlayerStats[userID]
}

// TallyVotes counts man of the match votes by recipient. With no scope every
// recipient is counted. Otherwise only votes for the supplied IDs are counted.
// Recipients need not appear in either roster.
func (m Match) TallyVotes(scope ...string) map[string]int {
	var in map[string]bool
	if len(scope) > 0 {
		in = make(map[string]bool, len(scope))
		for _, id := range scope {
			in[id] = true
		}
	}

	out := make(map[string]int)
	for _, votedFor := range m.ManOfTheMatchVotes {
		if votedFor == "" {
			continue
		}
		if in != nil && !in[votedFor] {
			continue
		}
		out[votedFor]++
	}
	return out
}

// A League is a read-only snapshot of a league and its matches. Matches are
// ordered as delivered by the platform, which is chronological.
type League struct {
	ID       string  `json:"id"                 validate:"required"`
	Name     string  `json:"name"               validate:"required"`
	Members  []User  `json:"members"            validate:"dive"`
	Matches  []Match `json:"matches"            validate:"dive"`
	MaxGames *int    `json:"maxGames,omitempty" validate:"omitnil,min=1"`
}

// CompletedMatches returns the league's completed matches in order.
func (l League) CompletedMatches() []Match {
	out := make([]Match, 0, len(l.Matches))
	for _, m := range l.Matches {
		if m.Completed() {
			out = append(out, m)
		}
	}
	return out
}

// IsComplete returns true if the league has finished. A league with MaxGames
// is complete once that many matches are completed. A league without it is
// considered complete as soon as any match is completed.
func (l League) IsComplete() bool {
	n := len(l.CompletedMatches())
	if l.MaxGames != nil {
		return n >= *l.MaxGames
	}
	return n > 0
}

// HasMember returns true if the user is a member of the league.
func (l League) HasMember(userID string) bool {
	for _, u := range l.Members {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// Plays returns true if the user is a member or appears in any match roster.
func (l League) Plays(userID string) bool {
	if l.HasMember(userID) {
		return true
	}
	for _, m := range l.Matches {
		if m.Side(userID) != SideNone {
			return true
		}
	}
	return false
}

// Players returns every member followed by any player rostered for a
// completed match who is not a member, in order of first appearance. Each
// player appears once.
func (l League) Players() []User {
	seen := make(map[string]bool, len(l.Members))
	out := make([]User, 0, len(l.Members))
	add := func(u User) {
		if u.ID == "" || seen[u.ID] {
			return
		}
		seen[u.ID] = true
		out = append(out, u)
	}

	for _, u := range l.Members {
		add(u)
	}
	for _, m := range l.CompletedMatches() {
		for _, u := range m.HomeTeamUsers {
			add(u)
		}
		for _, u := range m.AwayTeamUsers {
			add(u)
		}
	}
	return out
}
