// Package db implements SQLite storage for league snapshots.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // SQL driver registration.
)

// ErrNotFound is returned when a league or user doesn't exist.
var ErrNotFound = errors.New("not found")

// SQLiteStore is a SQLite database of league snapshots.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Every connection to :memory: is a different database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable foreign keys and WAL mode for better performance.
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;"); err != nil {
		db.Close() //nolint:errcheck // Already returning an error.
		return nil, fmt.Errorf("set pragmas: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for direct queries.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Init creates the database schema.
func (s *SQLiteStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Schema returns the documented database schema.
func Schema() string {
	return schema
}

// GetMetadata returns the value stored under key, or an empty string if there
// is none.
func (s *SQLiteStore) GetMetadata(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get metadata %s: %w", key, err)
	}
	return v, nil
}

// SetMetadata stores value under key.
func (s *SQLiteStore) SetMetadata(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value); err != nil {
		return fmt.Errorf("set metadata %s: %w", key, err)
	}
	return nil
}

const schema = `
-- Registered players
--
-- Example: id='u1', first_name='Alice', last_name='Archer', position='Center-Back (CB)'
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,            -- Platform user ID
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    position TEXT NOT NULL DEFAULT '' -- Free text, e.g. 'Defender', 'Striker'
);

-- Leagues
CREATE TABLE IF NOT EXISTS leagues (
    id TEXT PRIMARY KEY,            -- Platform league ID
    name TEXT NOT NULL,
    max_games INTEGER,              -- Completed matches needed to finish, NULL if open ended
    seq INTEGER NOT NULL            -- Order the league was first seen in
);

-- League membership, in the order the platform lists members
CREATE TABLE IF NOT EXISTS league_members (
    league_id TEXT NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES users(id),
    seq INTEGER NOT NULL,
    PRIMARY KEY (league_id, user_id)
);

-- Matches, in the (chronological) order the platform lists them. Match IDs
-- are only unique within a league.
CREATE TABLE IF NOT EXISTS matches (
    league_id TEXT NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
    id TEXT NOT NULL,               -- Platform match ID
    seq INTEGER NOT NULL,
    status TEXT NOT NULL,           -- 'scheduled', 'ongoing' or 'completed'
    home_goals INTEGER NOT NULL DEFAULT 0,
    away_goals INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (league_id, id)
);

-- Players on each side of a match
CREATE TABLE IF NOT EXISTS match_rosters (
    league_id TEXT NOT NULL,
    match_id TEXT NOT NULL,
    user_id TEXT NOT NULL REFERENCES users(id),
    side TEXT NOT NULL,             -- 'home' or 'away'
    seq INTEGER NOT NULL,
    PRIMARY KEY (league_id, match_id, side, user_id),
    FOREIGN KEY (league_id, match_id) REFERENCES matches(league_id, id) ON DELETE CASCADE
);

-- Individual contributions to a match. Players without a row contributed
-- nothing.
CREATE TABLE IF NOT EXISTS match_player_stats (
    league_id TEXT NOT NULL,
    match_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    goals INTEGER NOT NULL DEFAULT 0,
    assists INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (league_id, match_id, user_id),
    FOREIGN KEY (league_id, match_id) REFERENCES matches(league_id, id) ON DELETE CASCADE
);

-- Man of the match votes. Each voter gets one vote per match. The recipient
-- needn't have played.
CREATE TABLE IF NOT EXISTS motm_votes (
    league_id TEXT NOT NULL,
    match_id TEXT NOT NULL,
    voter_id TEXT NOT NULL,
    voted_for_id TEXT NOT NULL,
    PRIMARY KEY (league_id, match_id, voter_id),
    FOREIGN KEY (league_id, match_id) REFERENCES matches(league_id, id) ON DELETE CASCADE
);

-- Sync bookkeeping
--
-- Example: key='api_last_sync', value='2026-01-15T00:00:00Z'
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

-- Indexes for common query patterns
CREATE INDEX IF NOT EXISTS idx_league_members_user ON league_members(user_id);
CREATE INDEX IF NOT EXISTS idx_match_rosters_user ON match_rosters(user_id);
`
