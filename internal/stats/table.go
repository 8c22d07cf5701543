package stats

import (
	"github.com/negz/kickabout/internal/league"
)

// A Row is one line of a league table.
type Row struct {
	Position   int         `json:"position"`
	User       league.User `json:"user"`
	Stats      PlayerStats `json:"stats"`
	WinPercent int         `json:"winPercent"`
}

// Table returns the league table, highest standing first. Positions start at
// one. Only league players appear.
func Table(l league.League) []Row {
	s := Aggregate(l)
	ranked := Rank(Order(l, s), s)

	users := make(map[string]league.User, len(ranked))
	for _, u := range l.Players() {
		users[u.ID] = u
	}

	rows := make([]Row, len(ranked))
	for i, id := range ranked {
		u := users[id]
		rows[i] = Row{
			Position:   i + 1,
			User:       u,
			Stats:      *s[id],
			WinPercent: WinPercent(*s[id]),
		}
	}
	return rows
}
