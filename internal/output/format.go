package output

import (
	"fmt"

	"github.com/negz/kickabout/internal/badge"
	"github.com/negz/kickabout/internal/history"
	"github.com/negz/kickabout/internal/stats"
	"github.com/negz/kickabout/internal/trophy"
)

// FormatPercent formats a whole percentage, e.g. "67%".
func FormatPercent(pct int) string {
	return fmt.Sprintf("%d%%", pct)
}

// FormatRecord formats wins, draws, and losses as "W-D-L".
func FormatRecord(ps stats.PlayerStats) string {
	return fmt.Sprintf("%d-%d-%d", ps.Wins, ps.Draws, ps.Losses)
}

// FormatWinner formats a trophy's winner. Trophies without a winner show
// their placeholder label in parentheses, so "(TBC)" or "(No Winner)".
func FormatWinner(t trophy.Trophy) string {
	if t.Won() {
		return t.Winner
	}
	return "(" + t.Winner + ")"
}

// FormatBadge formats whether a badge is unlocked, and how many times.
func FormatBadge(b badge.Badge) string {
	switch {
	case !b.Unlocked:
		return "Locked"
	case b.Count > 1:
		return fmt.Sprintf("Unlocked x%d", b.Count)
	default:
		return "Unlocked"
	}
}

// FormatProgress formats a badge's progress towards its threshold, e.g.
// "2/3". Untracked badges have no progress.
func FormatProgress(b badge.Badge) string {
	if b.ProgressText == badge.NotTracked {
		return "-"
	}
	return fmt.Sprintf("%d/%d", b.Progress, b.Threshold)
}

// FormatContribution formats a player's goals and assists in one match, e.g.
// "2G 1A". A match without either is "-".
func FormatContribution(s history.Summary) string {
	switch {
	case s.Goals > 0 && s.Assists > 0:
		return fmt.Sprintf("%dG %dA", s.Goals, s.Assists)
	case s.Goals > 0:
		return fmt.Sprintf("%dG", s.Goals)
	case s.Assists > 0:
		return fmt.Sprintf("%dA", s.Assists)
	default:
		return "-"
	}
}
