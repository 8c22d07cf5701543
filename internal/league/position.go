package league

import (
	"strings"
	"unicode"
)

// Position is a classified playing position.
type Position int

// Positions.
const (
	PositionUnknown Position = iota
	PositionGoalkeeper
	PositionDefender
	PositionMidfielder
	PositionForward
)

func (p Position) String() string {
	switch p {
	case PositionGoalkeeper:
		return "Goalkeeper"
	case PositionDefender:
		return "Defender"
	case PositionMidfielder:
		return "Midfielder"
	case PositionForward:
		return "Forward"
	default:
		return "Unknown"
	}
}

// Defensive returns true for goalkeepers and defenders.
func (p Position) Defensive() bool {
	return p == PositionGoalkeeper || p == PositionDefender
}

// positionRule classifies a free-text position. Words match anywhere in the
// lowercased text. Abbreviations only match whole letter-only tokens, so "CB"
// matches "Center-Back (CB)" but not "Cbx".
type positionRule struct {
	position      Position
	words         []string
	abbreviations []string
}

// Rules are evaluated in order, so "Wing-Back" is a defender before it can be
// a winger.
var positionRules = []positionRule{
	{
		position:      PositionGoalkeeper,
		words:         []string{"goalkeeper", "keeper", "goalie"},
		abbreviations: []string{"gk"},
	},
	{
		position:      PositionDefender,
		words:         []string{"defender", "back", "sweeper"},
		abbreviations: []string{"cb", "lb", "rb", "lwb", "rwb", "def"},
	},
	{
		position:      PositionMidfielder,
		words:         []string{"midfield"},
		abbreviations: []string{"cm", "cdm", "cam", "dm", "am", "lm", "rm", "mid"},
	},
	{
		position:      PositionForward,
		words:         []string{"forward", "striker", "winger", "wing"},
		abbreviations: []string{"st", "cf", "fw", "lw", "rw", "fwd"},
	},
}

// ClassifyPosition classifies a free-text position such as "Defender",
// "goalkeeper" or "Center-Back (CB)".
func ClassifyPosition(s string) Position {
	text := strings.ToLower(strings.TrimSpace(s))
	if text == "" {
		return PositionUnknown
	}

	tokens := make(map[string]bool)
	for _, t := range strings.FieldsFunc(text, func(r rune) bool { return !unicode.IsLetter(r) }) {
		tokens[t] = true
	}

	for _, r := range positionRules {
		for _, w := range r.words {
			if strings.Contains(text, w) {
				return r.position
			}
		}
		for _, a := range r.abbreviations {
			if tokens[a] {
				return r.position
			}
		}
	}
	return PositionUnknown
}

// ClassifiedPosition returns the user's classified position.
func (u User) ClassifiedPosition() Position {
	return ClassifyPosition(u.Position)
}
