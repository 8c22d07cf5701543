package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/negz/kickabout/internal/league"
)

// Roster sides, as stored in match_rosters.
const (
	sideHome = "home"
	sideAway = "away"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// UpsertUser inserts or updates a user. Empty fields never overwrite known
// ones, since match rosters sometimes carry only a user's ID.
func (s *SQLiteStore) UpsertUser(ctx context.Context, u league.User) error {
	return upsertUser(ctx, s.db, u)
}

func upsertUser(ctx context.Context, e execer, u league.User) error {
	if _, err := e.ExecContext(ctx, `
		INSERT INTO users (id, first_name, last_name, position)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = COALESCE(NULLIF(excluded.first_name, ''), users.first_name),
			last_name = COALESCE(NULLIF(excluded.last_name, ''), users.last_name),
			position = COALESCE(NULLIF(excluded.position, ''), users.position)
	`, u.ID, u.FirstName, u.LastName, u.Position); err != nil {
		return fmt.Errorf("upsert user %s: %w", u.ID, err)
	}
	return nil
}

// UpsertLeague replaces the stored snapshot of a league, including its
// members and matches. A league keeps the position it was first stored at.
func (s *SQLiteStore) UpsertLeague(ctx context.Context, l league.League) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit.

	if err := upsertLeague(ctx, tx, l); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit league %s: %w", l.ID, err)
	}
	return nil
}

func upsertLeague(ctx context.Context, tx *sql.Tx, l league.League) error {
	for _, u := range l.Members {
		if err := upsertUser(ctx, tx, u); err != nil {
			return err
		}
	}
	for _, m := range l.Matches {
		for _, u := range append(append([]league.User{}, m.HomeTeamUsers...), m.AwayTeamUsers...) {
			if err := upsertUser(ctx, tx, u); err != nil {
				return err
			}
		}
	}

	var maxGames sql.NullInt64
	if l.MaxGames != nil {
		maxGames = sql.NullInt64{Int64: int64(*l.MaxGames), Valid: true}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO leagues (id, name, max_games, seq)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM leagues))
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			max_games = excluded.max_games
	`, l.ID, l.Name, maxGames); err != nil {
		return fmt.Errorf("upsert league %s: %w", l.ID, err)
	}

	if err := deleteLeagueChildren(ctx, tx, l.ID); err != nil {
		return err
	}

	for i, u := range l.Members {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO league_members (league_id, user_id, seq) VALUES (?, ?, ?)
			ON CONFLICT(league_id, user_id) DO NOTHING
		`, l.ID, u.ID, i); err != nil {
			return fmt.Errorf("insert member %s of league %s: %w", u.ID, l.ID, err)
		}
	}

	for i, m := range l.Matches {
		if err := insertMatch(ctx, tx, l.ID, i, m); err != nil {
			return err
		}
	}

	return nil
}

func insertMatch(ctx context.Context, tx *sql.Tx, leagueID string, seq int, m league.Match) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO matches (league_id, id, seq, status, home_goals, away_goals)
		VALUES (?, ?, ?, ?, ?, ?)
	`, leagueID, m.ID, seq, string(m.Status), m.HomeTeamGoals, m.AwayTeamGoals); err != nil {
		return fmt.Errorf("insert match %s: %w", m.ID, err)
	}

	for side, users := range map[string][]league.User{sideHome: m.HomeTeamUsers, sideAway: m.AwayTeamUsers} {
		for i, u := range users {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO match_rosters (league_id, match_id, user_id, side, seq) VALUES (?, ?, ?, ?, ?)
				ON CONFLICT(league_id, match_id, side, user_id) DO NOTHING
			`, leagueID, m.ID, u.ID, side, i); err != nil {
				return fmt.Errorf("insert %s roster of match %s: %w", side, m.ID, err)
			}
		}
	}

	for userID, st := range m.PlayerStats {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO match_player_stats (league_id, match_id, user_id, goals, assists) VALUES (?, ?, ?, ?, ?)
		`, leagueID, m.ID, userID, st.Goals, st.Assists); err != nil {
			return fmt.Errorf("insert stats of %s in match %s: %w", userID, m.ID, err)
		}
	}

	for voterID, votedFor := range m.ManOfTheMatchVotes {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO motm_votes (league_id, match_id, voter_id, voted_for_id) VALUES (?, ?, ?, ?)
		`, leagueID, m.ID, voterID, votedFor); err != nil {
			return fmt.Errorf("insert vote of %s in match %s: %w", voterID, m.ID, err)
		}
	}

	return nil
}

// deleteLeagueChildren deletes a league's members and matches (for
// re-import). It doesn't rely on ON DELETE CASCADE because foreign keys are
// only enforced on connections that enabled them.
func deleteLeagueChildren(ctx context.Context, e execer, leagueID string) error {
	for _, q := range []struct {
		what  string
		query string
	}{
		{"votes", "DELETE FROM motm_votes WHERE league_id = ?"},
		{"player stats", "DELETE FROM match_player_stats WHERE league_id = ?"},
		{"rosters", "DELETE FROM match_rosters WHERE league_id = ?"},
		{"matches", "DELETE FROM matches WHERE league_id = ?"},
		{"members", "DELETE FROM league_members WHERE league_id = ?"},
	} {
		if _, err := e.ExecContext(ctx, q.query, leagueID); err != nil {
			return fmt.Errorf("delete %s of league %s: %w", q.what, leagueID, err)
		}
	}
	return nil
}

// DeleteLeague deletes a league and everything in it. Users are kept.
func (s *SQLiteStore) DeleteLeague(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit.

	if err := deleteLeagueChildren(ctx, tx, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM leagues WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete league %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete of league %s: %w", id, err)
	}
	return nil
}

// PruneLeagues deletes every league whose ID isn't in keep. It returns the
// IDs of the deleted leagues.
func (s *SQLiteStore) PruneLeagues(ctx context.Context, keep []string) ([]string, error) {
	ids, err := s.leagueIDs(ctx)
	if err != nil {
		return nil, err
	}

	k := make(map[string]bool, len(keep))
	for _, id := range keep {
		k[id] = true
	}

	var pruned []string
	for _, id := range ids {
		if k[id] {
			continue
		}
		if err := s.DeleteLeague(ctx, id); err != nil {
			return pruned, err
		}
		pruned = append(pruned, id)
	}
	return pruned, nil
}
