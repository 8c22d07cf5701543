package history

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/negz/kickabout/internal/league"
)

var (
	alice = league.User{ID: "u1", FirstName: "Alice"}
	bob   = league.User{ID: "u2", FirstName: "Bob"}
	carol = league.User{ID: "u3", FirstName: "Carol"}
)

func TestSummarize(t *testing.T) {
	type args struct {
		leagues []league.League
		userID  string
	}

	type want struct {
		histories []LeagueHistory
	}

	cases := map[string]struct {
		reason string
		args   args
		want   want
	}{
		"HomeAndAway": {
			reason: "Conceded goals and results should be taken from the user's side.",
			args: args{
				userID: "u1",
				leagues: []league.League{{
					ID:      "l1",
					Name:    "Sunday League",
					Members: []league.User{alice, bob},
					Matches: []league.Match{
						{
							ID:                 "m1",
							Status:             league.StatusCompleted,
							HomeTeamGoals:      3,
							AwayTeamGoals:      1,
							HomeTeamUsers:      []league.User{alice},
							AwayTeamUsers:      []league.User{bob},
							PlayerStats:        map[string]league.PlayerMatchStats{"u1": {Goals: 3, Assists: 1}},
							ManOfTheMatchVotes: map[string]string{"u2": "u1", "u1": "u2"},
						},
						{
							ID:            "m2",
							Status:        league.StatusCompleted,
							HomeTeamGoals: 2,
							HomeTeamUsers: []league.User{bob},
							AwayTeamUsers: []league.User{alice},
						},
						{
							ID:            "m3",
							Status:        league.StatusScheduled,
							HomeTeamUsers: []league.User{alice},
							AwayTeamUsers: []league.User{bob},
						},
						{
							ID:            "m4",
							Status:        league.StatusCompleted,
							AwayTeamGoals: 1,
							HomeTeamUsers: []league.User{bob},
							AwayTeamUsers: []league.User{alice},
						},
					},
				}},
			},
			want: want{histories: []LeagueHistory{{
				LeagueID:   "l1",
				LeagueName: "Sunday League",
				Matches: []Summary{
					{MatchID: "m1", LeagueID: "l1", Goals: 3, Assists: 1, Conceded: 1, Result: league.Win, MOTMVotes: 1},
					{MatchID: "m2", LeagueID: "l1", Conceded: 2, Result: league.Loss},
					{MatchID: "m4", LeagueID: "l1", Result: league.Win},
				},
			}}},
		},
		"SkipsMatchesWithoutUser": {
			reason: "Matches the user was not rostered for should be skipped, even if they received votes.",
			args: args{
				userID: "u1",
				leagues: []league.League{{
					ID:      "l1",
					Members: []league.User{alice, bob, carol},
					Matches: []league.Match{{
						ID:                 "m1",
						Status:             league.StatusCompleted,
						HomeTeamUsers:      []league.User{bob},
						AwayTeamUsers:      []league.User{carol},
						ManOfTheMatchVotes: map[string]string{"u2": "u1"},
					}},
				}},
			},
			want: want{histories: []LeagueHistory{{LeagueID: "l1", Matches: []Summary{}}}},
		},
		"SkipsOtherLeagues": {
			reason: "Leagues the user neither belongs to nor played in should be omitted.",
			args: args{
				userID: "u1",
				leagues: []league.League{
					{ID: "l1", Members: []league.User{bob}},
					{
						ID:      "l2",
						Members: []league.User{bob},
						Matches: []league.Match{{
							ID:            "m1",
							Status:        league.StatusCompleted,
							HomeTeamUsers: []league.User{alice},
							AwayTeamUsers: []league.User{bob},
						}},
					},
				},
			},
			want: want{histories: []LeagueHistory{{
				LeagueID: "l2",
				Matches:  []Summary{{MatchID: "m1", LeagueID: "l2", Result: league.Draw}},
			}}},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := Summarize(tc.args.leagues, tc.args.userID)
			if diff := cmp.Diff(tc.want.histories, got); diff != "" {
				t.Errorf("\n%s\nSummarize(...): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestFlatten(t *testing.T) {
	hs := []LeagueHistory{
		{LeagueID: "l1", Matches: []Summary{{MatchID: "a"}, {MatchID: "b"}}},
		{LeagueID: "l2", Matches: []Summary{}},
		{LeagueID: "l3", Matches: []Summary{{MatchID: "c"}}},
	}

	want := []Summary{{MatchID: "a"}, {MatchID: "b"}, {MatchID: "c"}}
	if diff := cmp.Diff(want, Flatten(hs)); diff != "" {
		t.Errorf("Flatten(...): -want, +got:\n%s", diff)
	}
}

func TestCleanSheetWin(t *testing.T) {
	cases := map[string]struct {
		s    Summary
		want bool
	}{
		"CleanWin":     {s: Summary{Result: league.Win}, want: true},
		"LeakyWin":     {s: Summary{Result: league.Win, Conceded: 1}, want: false},
		"GoallessDraw": {s: Summary{Result: league.Draw}, want: false},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, tc.s.CleanSheetWin()); diff != "" {
				t.Errorf("CleanSheetWin(): -want, +got:\n%s", diff)
			}
		})
	}
}
