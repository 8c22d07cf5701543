package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/negz/kickabout/internal/league"
)

// LeagueSummary contains league info for display.
type LeagueSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MaxGames  int    `json:"maxGames"` // Zero if open ended.
	Members   int    `json:"members"`
	Matches   int    `json:"matches"`
	Completed int    `json:"completed"`
}

// ListLeagueSummaries returns every league, optionally filtered by a
// case-insensitive search term matching ID or name.
func (s *SQLiteStore) ListLeagueSummaries(ctx context.Context, search string) ([]LeagueSummary, error) {
	query := `
		SELECT
			l.id,
			l.name,
			COALESCE(l.max_games, 0),
			(SELECT COUNT(*) FROM league_members lm WHERE lm.league_id = l.id),
			(SELECT COUNT(*) FROM matches m WHERE m.league_id = l.id),
			(SELECT COUNT(*) FROM matches m WHERE m.league_id = l.id AND m.status = 'completed')
		FROM leagues l
		WHERE 1=1
	`
	var args []any

	if search != "" {
		query += " AND (LOWER(l.id) LIKE ? OR LOWER(l.name) LIKE ?)"
		pattern := "%" + strings.ToLower(search) + "%"
		args = append(args, pattern, pattern)
	}

	query += " ORDER BY l.seq"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leagues: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only query.

	var result []LeagueSummary
	for rows.Next() {
		var l LeagueSummary
		if err := rows.Scan(&l.ID, &l.Name, &l.MaxGames, &l.Members, &l.Matches, &l.Completed); err != nil {
			return nil, fmt.Errorf("scan league: %w", err)
		}
		result = append(result, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leagues: %w", err)
	}

	return result, nil
}

// ListLeagues returns a snapshot of every league, in the order they were
// first stored.
func (s *SQLiteStore) ListLeagues(ctx context.Context) ([]league.League, error) {
	ids, err := s.leagueIDs(ctx)
	if err != nil {
		return nil, err
	}
	return s.getLeagues(ctx, ids)
}

// LeaguesForUser returns a snapshot of every league the user is a member of
// or has been rostered in.
func (s *SQLiteStore) LeaguesForUser(ctx context.Context, userID string) ([]league.League, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id
		FROM leagues l
		WHERE l.id IN (SELECT league_id FROM league_members WHERE user_id = ?)
		   OR l.id IN (
			SELECT league_id FROM match_rosters WHERE user_id = ?
		   )
		ORDER BY l.seq
	`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("query leagues for user %s: %w", userID, err)
	}

	ids, err := scanIDs(rows)
	if err != nil {
		return nil, fmt.Errorf("leagues for user %s: %w", userID, err)
	}
	return s.getLeagues(ctx, ids)
}

// GetLeague returns a snapshot of one league. It returns an error that wraps
// ErrNotFound if there's no such league.
func (s *SQLiteStore) GetLeague(ctx context.Context, id string) (league.League, error) {
	l := league.League{ID: id}

	var maxGames sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT name, max_games FROM leagues WHERE id = ?", id).Scan(&l.Name, &maxGames)
	if errors.Is(err, sql.ErrNoRows) {
		return league.League{}, fmt.Errorf("league %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return league.League{}, fmt.Errorf("get league %s: %w", id, err)
	}
	if maxGames.Valid {
		n := int(maxGames.Int64)
		l.MaxGames = &n
	}

	if l.Members, err = s.getMembers(ctx, id); err != nil {
		return league.League{}, err
	}
	if l.Matches, err = s.getMatches(ctx, id); err != nil {
		return league.League{}, err
	}

	return l, nil
}

func (s *SQLiteStore) getLeagues(ctx context.Context, ids []string) ([]league.League, error) {
	out := make([]league.League, 0, len(ids))
	for _, id := range ids {
		l, err := s.GetLeague(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func (s *SQLiteStore) leagueIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM leagues ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("query league IDs: %w", err)
	}
	ids, err := scanIDs(rows)
	if err != nil {
		return nil, fmt.Errorf("league IDs: %w", err)
	}
	return ids, nil
}

func scanIDs(rows *sql.Rows) ([]string, error) {
	defer rows.Close() //nolint:errcheck // Read-only query.

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate IDs: %w", err)
	}

	return ids, nil
}

func (s *SQLiteStore) getMembers(ctx context.Context, leagueID string) ([]league.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.first_name, u.last_name, u.position
		FROM league_members lm
		JOIN users u ON u.id = lm.user_id
		WHERE lm.league_id = ?
		ORDER BY lm.seq
	`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("query members of league %s: %w", leagueID, err)
	}
	defer rows.Close() //nolint:errcheck // Read-only query.

	var result []league.User
	for rows.Next() {
		var u league.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Position); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		result = append(result, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}

	return result, nil
}

// getMatches loads a league's matches. Each child table is read in one
// query and attached to its match by ID.
func (s *SQLiteStore) getMatches(ctx context.Context, leagueID string) ([]league.Match, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, status, home_goals, away_goals
		FROM matches
		WHERE league_id = ?
		ORDER BY seq
	`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("query matches of league %s: %w", leagueID, err)
	}
	defer rows.Close() //nolint:errcheck // Read-only query.

	var result []league.Match
	idx := map[string]int{}
	for rows.Next() {
		var m league.Match
		var status string
		if err := rows.Scan(&m.ID, &status, &m.HomeTeamGoals, &m.AwayTeamGoals); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.Status = league.Status(status)
		idx[m.ID] = len(result)
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	rows.Close() //nolint:errcheck // Release the connection before the next query.

	if len(result) == 0 {
		return nil, nil
	}

	if err := s.attachRosters(ctx, leagueID, result, idx); err != nil {
		return nil, err
	}
	if err := s.attachPlayerStats(ctx, leagueID, result, idx); err != nil {
		return nil, err
	}
	if err := s.attachVotes(ctx, leagueID, result, idx); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *SQLiteStore) attachRosters(ctx context.Context, leagueID string, ms []league.Match, idx map[string]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.match_id, r.side, u.id, u.first_name, u.last_name, u.position
		FROM match_rosters r
		JOIN matches m ON m.league_id = r.league_id AND m.id = r.match_id
		JOIN users u ON u.id = r.user_id
		WHERE r.league_id = ?
		ORDER BY m.seq, r.side, r.seq
	`, leagueID)
	if err != nil {
		return fmt.Errorf("query rosters of league %s: %w", leagueID, err)
	}
	defer rows.Close() //nolint:errcheck // Read-only query.

	for rows.Next() {
		var matchID, side string
		var u league.User
		if err := rows.Scan(&matchID, &side, &u.ID, &u.FirstName, &u.LastName, &u.Position); err != nil {
			return fmt.Errorf("scan roster: %w", err)
		}
		m := &ms[idx[matchID]]
		switch side {
		case sideHome:
			m.HomeTeamUsers = append(m.HomeTeamUsers, u)
		case sideAway:
			m.AwayTeamUsers = append(m.AwayTeamUsers, u)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate rosters: %w", err)
	}
	return nil
}

func (s *SQLiteStore) attachPlayerStats(ctx context.Context, leagueID string, ms []league.Match, idx map[string]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ps.match_id, ps.user_id, ps.goals, ps.assists
		FROM match_player_stats ps
		WHERE ps.league_id = ?
	`, leagueID)
	if err != nil {
		return fmt.Errorf("query player stats of league %s: %w", leagueID, err)
	}
	defer rows.Close() //nolint:errcheck // Read-only query.

	for rows.Next() {
		var matchID, userID string
		var st league.PlayerMatchStats
		if err := rows.Scan(&matchID, &userID, &st.Goals, &st.Assists); err != nil {
			return fmt.Errorf("scan player stats: %w", err)
		}
		m := &ms[idx[matchID]]
		if m.PlayerStats == nil {
			m.PlayerStats = map[string]league.PlayerMatchStats{}
		}
		m.PlayerStats[userID] = st
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate player stats: %w", err)
	}
	return nil
}

func (s *SQLiteStore) attachVotes(ctx context.Context, leagueID string, ms []league.Match, idx map[string]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.match_id, v.voter_id, v.voted_for_id
		FROM motm_votes v
		WHERE v.league_id = ?
	`, leagueID)
	if err != nil {
		return fmt.Errorf("query votes of league %s: %w", leagueID, err)
	}
	defer rows.Close() //nolint:errcheck // Read-only query.

	for rows.Next() {
		var matchID, voterID, votedFor string
		if err := rows.Scan(&matchID, &voterID, &votedFor); err != nil {
			return fmt.Errorf("scan vote: %w", err)
		}
		m := &ms[idx[matchID]]
		if m.ManOfTheMatchVotes == nil {
			m.ManOfTheMatchVotes = map[string]string{}
		}
		m.ManOfTheMatchVotes[voterID] = votedFor
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate votes: %w", err)
	}
	return nil
}

// ListUsers returns every user, optionally filtered by a case-insensitive
// search term matching ID, name or position.
func (s *SQLiteStore) ListUsers(ctx context.Context, search string) ([]league.User, error) {
	query := "SELECT id, first_name, last_name, position FROM users WHERE 1=1"
	var args []any

	if search != "" {
		query += ` AND (LOWER(id) LIKE ?
			OR LOWER(first_name || ' ' || last_name) LIKE ?
			OR LOWER(position) LIKE ?)`
		pattern := "%" + strings.ToLower(search) + "%"
		args = append(args, pattern, pattern, pattern)
	}

	query += " ORDER BY first_name, last_name, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only query.

	var result []league.User
	for rows.Next() {
		var u league.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Position); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		result = append(result, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return result, nil
}

// GetUser returns one user. It returns an error that wraps ErrNotFound if
// there's no such user.
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (league.User, error) {
	var u league.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, first_name, last_name, position FROM users WHERE id = ?", id).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return league.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return league.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}
