package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/negz/kickabout/internal/badge"
	"github.com/negz/kickabout/internal/history"
	"github.com/negz/kickabout/internal/stats"
	"github.com/negz/kickabout/internal/trophy"
)

func TestFormatPercent(t *testing.T) {
	cases := map[string]struct {
		reason string
		pct    int
		want   string
	}{
		"Zero": {
			reason: "Zero should render as 0%.",
			pct:    0,
			want:   "0%",
		},
		"TwoThirds": {
			reason: "A rounded percentage should render with a percent sign.",
			pct:    67,
			want:   "67%",
		},
		"All": {
			reason: "A perfect record should render as 100%.",
			pct:    100,
			want:   "100%",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := FormatPercent(tc.pct)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("\n%s\nFormatPercent(...): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestFormatRecord(t *testing.T) {
	got := FormatRecord(stats.PlayerStats{Played: 6, Wins: 3, Draws: 2, Losses: 1})
	if diff := cmp.Diff("3-2-1", got); diff != "" {
		t.Errorf("FormatRecord(...): -want, +got:\n%s", diff)
	}
}

func TestFormatWinner(t *testing.T) {
	cases := map[string]struct {
		reason string
		trophy trophy.Trophy
		want   string
	}{
		"Won": {
			reason: "A won trophy should show the winner's name.",
			trophy: trophy.Trophy{Winner: "Bob Baker", WinnerID: "u2"},
			want:   "Bob Baker",
		},
		"Pending": {
			reason: "A trophy for an unfinished league should show the pending label in parentheses.",
			trophy: trophy.Trophy{Winner: trophy.Pending},
			want:   "(TBC)",
		},
		"NoWinner": {
			reason: "A trophy nobody qualified for should show the no winner label in parentheses.",
			trophy: trophy.Trophy{Winner: trophy.NoWinner},
			want:   "(No Winner)",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := FormatWinner(tc.trophy)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("\n%s\nFormatWinner(...): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestFormatBadge(t *testing.T) {
	cases := map[string]struct {
		reason   string
		badge    badge.Badge
		want     string
		progress string
	}{
		"Locked": {
			reason:   "A locked badge should say so and show progress.",
			badge:    badge.Badge{Progress: 1, Threshold: 3, ProgressText: "2 more matches to unlock"},
			want:     "Locked",
			progress: "1/3",
		},
		"UnlockedOnce": {
			reason:   "A badge unlocked once should not show a count.",
			badge:    badge.Badge{Unlocked: true, Count: 1, Progress: 4, Threshold: 3, ProgressText: "2 more matches to earn again"},
			want:     "Unlocked",
			progress: "4/3",
		},
		"UnlockedTwice": {
			reason:   "A badge unlocked more than once should show its count.",
			badge:    badge.Badge{Unlocked: true, Count: 2, Progress: 6, Threshold: 3, ProgressText: "3 more matches to earn again"},
			want:     "Unlocked x2",
			progress: "6/3",
		},
		"NotTracked": {
			reason:   "A badge that isn't tracked should have no progress.",
			badge:    badge.Badge{Threshold: 10, ProgressText: badge.NotTracked},
			want:     "Locked",
			progress: "-",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, FormatBadge(tc.badge)); diff != "" {
				t.Errorf("\n%s\nFormatBadge(...): -want, +got:\n%s", tc.reason, diff)
			}
			if diff := cmp.Diff(tc.progress, FormatProgress(tc.badge)); diff != "" {
				t.Errorf("\n%s\nFormatProgress(...): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestFormatContribution(t *testing.T) {
	cases := map[string]struct {
		reason  string
		summary history.Summary
		want    string
	}{
		"Both":        {reason: "Goals and assists should both show.", summary: history.Summary{Goals: 2, Assists: 1}, want: "2G 1A"},
		"GoalsOnly":   {reason: "Goals alone should show.", summary: history.Summary{Goals: 3}, want: "3G"},
		"AssistsOnly": {reason: "Assists alone should show.", summary: history.Summary{Assists: 2}, want: "2A"},
		"Nothing":     {reason: "No contribution should show a dash.", summary: history.Summary{}, want: "-"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := FormatContribution(tc.summary)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("\n%s\nFormatContribution(...): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	if err := Table(&buf, []string{"Player", "Goals"}, [][]string{{"Bob Baker", "7"}}); err != nil {
		t.Fatalf("Table(...): %v", err)
	}
	for _, want := range []string{"Bob Baker", "7"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Table(...): want output to contain %q, got:\n%s", want, buf.String())
		}
	}
}

func TestCard(t *testing.T) {
	var buf bytes.Buffer
	if err := Card(&buf, [][2]string{{"Name", "Alice Archer"}, {"Win %", "67%"}}); err != nil {
		t.Fatalf("Card(...): %v", err)
	}
	for _, want := range []string{"Name", "Alice Archer", "Win %", "67%"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Card(...): want output to contain %q, got:\n%s", want, buf.String())
		}
	}
}
