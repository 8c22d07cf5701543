package db

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/negz/kickabout/internal/league"
)

var (
	alice = league.User{ID: "u1", FirstName: "Alice", LastName: "Archer", Position: "Defender"}
	bob   = league.User{ID: "u2", FirstName: "Bob", LastName: "Baker", Position: "Striker"}
	carol = league.User{ID: "u3", FirstName: "Carol", LastName: "Cole", Position: "Goalkeeper"}
	dave  = league.User{ID: "u4", FirstName: "Dave", LastName: "Dunn"}
)

func ptr[T any](v T) *T { return &v }

// sunday is a league with every kind of child row.
func sunday() league.League {
	return league.League{
		ID:       "l1",
		Name:     "Sunday League",
		MaxGames: ptr(10),
		Members:  []league.User{alice, bob, carol},
		Matches: []league.Match{
			{
				ID:                 "m1",
				Status:             league.StatusCompleted,
				HomeTeamGoals:      2,
				AwayTeamGoals:      1,
				HomeTeamUsers:      []league.User{alice, bob},
				AwayTeamUsers:      []league.User{carol, dave},
				PlayerStats:        map[string]league.PlayerMatchStats{"u2": {Goals: 2}, "u1": {Assists: 1}, "u4": {Goals: 1}},
				ManOfTheMatchVotes: map[string]string{"u1": "u2", "u3": "u2", "u4": "u3"},
			},
			{
				ID:            "m2",
				Status:        league.StatusScheduled,
				HomeTeamUsers: []league.User{carol},
				AwayTeamUsers: []league.User{alice},
			},
		},
	}
}

// friday is a league without a match limit that Dave plays in without being a
// member.
func friday() league.League {
	return league.League{
		ID:      "l2",
		Name:    "Friday Five",
		Members: []league.User{bob},
		Matches: []league.Match{{
			ID:            "m3",
			Status:        league.StatusCompleted,
			HomeTeamUsers: []league.User{bob},
			AwayTeamUsers: []league.User{dave},
		}},
	}
}

// newTestStore returns an initialized in-memory SQLiteStore seeded with two
// leagues:
//
//	l1 Sunday League (max 10 games): members Alice, Bob, Carol
//	  m1 completed 2-1, Alice & Bob vs Carol & Dave, with stats and votes
//	  m2 scheduled, Carol vs Alice
//	l2 Friday Five: member Bob
//	  m3 completed 0-0, Bob vs Dave
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	ctx := context.Background()
	s, err := Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}

	for _, l := range []league.League{sunday(), friday()} {
		if err := s.UpsertLeague(ctx, l); err != nil {
			t.Fatalf("UpsertLeague %s: %v", l.ID, err)
		}
	}

	if err := s.SetMetadata(ctx, "api_last_sync", "2026-01-15T00:00:00Z"); err != nil {
		t.Fatalf("SetMetadata: %v", err)
	}

	return s
}

func TestGetLeague(t *testing.T) {
	type args struct {
		id string
	}
	type want struct {
		league league.League
		err    error
	}
	cases := map[string]struct {
		reason string
		args   args
		want   want
	}{
		"RoundTrip": {
			reason: "A stored league should read back exactly as it was written.",
			args:   args{id: "l1"},
			want:   want{league: sunday()},
		},
		"NoMaxGames": {
			reason: "A league without a match limit should read back without one.",
			args:   args{id: "l2"},
			want:   want{league: friday()},
		},
		"NotFound": {
			reason: "A missing league should return ErrNotFound.",
			args:   args{id: "nope"},
			want:   want{err: ErrNotFound},
		},
	}

	s := newTestStore(t)
	ctx := context.Background()

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := s.GetLeague(ctx, tc.args.id)
			if diff := cmp.Diff(tc.want.err, err, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("\n%s\nGetLeague(...): -want error, +got error:\n%s", tc.reason, diff)
			}
			if diff := cmp.Diff(tc.want.league, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("\n%s\nGetLeague(...): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestUpsertLeagueReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	l := sunday()
	l.Name = "Sunday League II"
	l.MaxGames = nil
	l.Members = []league.User{carol, alice}
	l.Matches = []league.Match{{
		ID:            "m9",
		Status:        league.StatusOngoing,
		HomeTeamUsers: []league.User{carol},
		AwayTeamUsers: []league.User{alice},
	}}

	if err := s.UpsertLeague(ctx, l); err != nil {
		t.Fatalf("UpsertLeague: %v", err)
	}

	got, err := s.GetLeague(ctx, "l1")
	if err != nil {
		t.Fatalf("GetLeague: %v", err)
	}
	if diff := cmp.Diff(l, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("GetLeague(...) after re-import: -want, +got:\n%s", diff)
	}

	// Re-importing shouldn't move the league.
	all, err := s.ListLeagueSummaries(ctx, "")
	if err != nil {
		t.Fatalf("ListLeagueSummaries: %v", err)
	}
	if diff := cmp.Diff("l1", all[0].ID); diff != "" {
		t.Errorf("ListLeagueSummaries(...)[0]: -want, +got:\n%s", diff)
	}
}

func TestUpsertLeagueSharedMatchIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Match IDs are only unique within a league.
	wednesday := league.League{
		ID:      "l3",
		Name:    "Wednesday Walking Football",
		Members: []league.User{dave},
		Matches: []league.Match{{
			ID:                 "m1",
			Status:             league.StatusCompleted,
			HomeTeamGoals:      4,
			HomeTeamUsers:      []league.User{dave},
			AwayTeamUsers:      []league.User{carol},
			PlayerStats:        map[string]league.PlayerMatchStats{"u4": {Goals: 4}},
			ManOfTheMatchVotes: map[string]string{"u3": "u4"},
		}},
	}
	if err := s.UpsertLeague(ctx, wednesday); err != nil {
		t.Fatalf("UpsertLeague: %v", err)
	}

	for _, want := range []league.League{sunday(), wednesday} {
		got, err := s.GetLeague(ctx, want.ID)
		if err != nil {
			t.Fatalf("GetLeague(%q): %v", want.ID, err)
		}
		if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("GetLeague(%q): -want, +got:\n%s", want.ID, diff)
		}
	}
}

func TestUpsertUserKeepsKnownFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.UpsertUser(ctx, league.User{ID: "u1"}); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	if err := s.UpsertUser(ctx, league.User{ID: "u4", Position: "Midfielder"}); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}

	got, err := s.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if diff := cmp.Diff(alice, got); diff != "" {
		t.Errorf("GetUser(u1): -want, +got:\n%s", diff)
	}

	got, err = s.GetUser(ctx, "u4")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	want := dave
	want.Position = "Midfielder"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetUser(u4): -want, +got:\n%s", diff)
	}
}

func TestListLeagueSummaries(t *testing.T) {
	type args struct {
		search string
	}
	type want struct {
		leagues []LeagueSummary
	}
	cases := map[string]struct {
		reason string
		args   args
		want   want
	}{
		"All": {
			reason: "Without a search term every league should be returned in the order it was stored.",
			args:   args{},
			want: want{leagues: []LeagueSummary{
				{ID: "l1", Name: "Sunday League", MaxGames: 10, Members: 3, Matches: 2, Completed: 1},
				{ID: "l2", Name: "Friday Five", Members: 1, Matches: 1, Completed: 1},
			}},
		},
		"SearchName": {
			reason: "Search should match league names case-insensitively.",
			args:   args{search: "FRIDAY"},
			want: want{leagues: []LeagueSummary{
				{ID: "l2", Name: "Friday Five", Members: 1, Matches: 1, Completed: 1},
			}},
		},
		"NoMatch": {
			reason: "A search term matching nothing should return no leagues.",
			args:   args{search: "saturday"},
			want:   want{},
		},
	}

	s := newTestStore(t)
	ctx := context.Background()

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := s.ListLeagueSummaries(ctx, tc.args.search)
			if err != nil {
				t.Fatalf("ListLeagueSummaries: %v", err)
			}
			if diff := cmp.Diff(tc.want.leagues, got); diff != "" {
				t.Errorf("\n%s\nListLeagueSummaries(...): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestListLeagues(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	got, err := s.ListLeagues(ctx)
	if err != nil {
		t.Fatalf("ListLeagues: %v", err)
	}

	want := []league.League{sunday(), friday()}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("ListLeagues(): -want, +got:\n%s", diff)
	}
}

func TestLeaguesForUser(t *testing.T) {
	type args struct {
		userID string
	}
	type want struct {
		ids []string
	}
	cases := map[string]struct {
		reason string
		args   args
		want   want
	}{
		"Member": {
			reason: "A member should get every league they belong to.",
			args:   args{userID: "u2"},
			want:   want{ids: []string{"l1", "l2"}},
		},
		"RosteredOnly": {
			reason: "A player rostered in a league's matches should get it even if they're not a member.",
			args:   args{userID: "u4"},
			want:   want{ids: []string{"l1", "l2"}},
		},
		"OneLeague": {
			reason: "A player should only get the leagues they play in.",
			args:   args{userID: "u3"},
			want:   want{ids: []string{"l1"}},
		},
		"Stranger": {
			reason: "An unknown user should get no leagues.",
			args:   args{userID: "u99"},
			want:   want{},
		},
	}

	s := newTestStore(t)
	ctx := context.Background()

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			ls, err := s.LeaguesForUser(ctx, tc.args.userID)
			if err != nil {
				t.Fatalf("LeaguesForUser: %v", err)
			}
			var got []string
			for _, l := range ls {
				got = append(got, l.ID)
			}
			if diff := cmp.Diff(tc.want.ids, got); diff != "" {
				t.Errorf("\n%s\nLeaguesForUser(...): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestListUsers(t *testing.T) {
	type args struct {
		search string
	}
	type want struct {
		users []league.User
	}
	cases := map[string]struct {
		reason string
		args   args
		want   want
	}{
		"All": {
			reason: "Every user should be returned ordered by name, including non-members.",
			args:   args{},
			want:   want{users: []league.User{alice, bob, carol, dave}},
		},
		"SearchFullName": {
			reason: "Search should match first and last name together.",
			args:   args{search: "bob baker"},
			want:   want{users: []league.User{bob}},
		},
		"SearchPosition": {
			reason: "Search should match positions.",
			args:   args{search: "keeper"},
			want:   want{users: []league.User{carol}},
		},
	}

	s := newTestStore(t)
	ctx := context.Background()

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := s.ListUsers(ctx, tc.args.search)
			if err != nil {
				t.Fatalf("ListUsers: %v", err)
			}
			if diff := cmp.Diff(tc.want.users, got); diff != "" {
				t.Errorf("\n%s\nListUsers(...): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), "u99")
	if diff := cmp.Diff(ErrNotFound, err, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("GetUser(u99): -want error, +got error:\n%s", diff)
	}
}

func TestPruneLeagues(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pruned, err := s.PruneLeagues(ctx, []string{"l2"})
	if err != nil {
		t.Fatalf("PruneLeagues: %v", err)
	}
	if diff := cmp.Diff([]string{"l1"}, pruned); diff != "" {
		t.Errorf("PruneLeagues(...): -want, +got:\n%s", diff)
	}

	_, err = s.GetLeague(ctx, "l1")
	if diff := cmp.Diff(ErrNotFound, err, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("GetLeague(l1) after prune: -want error, +got error:\n%s", diff)
	}

	// Users outlive the leagues they played in.
	if _, err := s.GetUser(ctx, "u1"); err != nil {
		t.Errorf("GetUser(u1) after prune: %v", err)
	}
}

func TestGetMetadata(t *testing.T) {
	type args struct {
		key string
	}
	type want struct {
		value string
	}
	cases := map[string]struct {
		reason string
		args   args
		want   want
	}{
		"Exists": {
			reason: "Should return the stored value for an existing key.",
			args:   args{key: "api_last_sync"},
			want:   want{value: "2026-01-15T00:00:00Z"},
		},
		"Missing": {
			reason: "Should return empty string for a missing key.",
			args:   args{key: "nonexistent"},
			want:   want{value: ""},
		},
	}

	s := newTestStore(t)
	ctx := context.Background()

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := s.GetMetadata(ctx, tc.args.key)
			if err != nil {
				t.Fatalf("GetMetadata: %v", err)
			}
			if diff := cmp.Diff(tc.want.value, got); diff != "" {
				t.Errorf("\n%s\nGetMetadata(...): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}
