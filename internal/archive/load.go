package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/negz/kickabout/internal/league"
)

// A Store loads league data.
type Store interface {
	UpsertLeague(ctx context.Context, l league.League) error
	PruneLeagues(ctx context.Context, keep []string) ([]string, error)
	GetMetadata(ctx context.Context, key string) (string, error)
	SetMetadata(ctx context.Context, key, value string) error
}

// League extracts, transforms, and loads one league export.
type League struct {
	raw leagueJSON
}

type leagueJSON struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	MaxGames *int        `json:"maxGames"`
	Members  []userJSON  `json:"members"`
	Matches  []matchJSON `json:"matches"`
}

type userJSON struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Position  string `json:"position"`
}

type matchJSON struct {
	ID                 string                     `json:"id"`
	Status             string                     `json:"status"`
	HomeTeamGoals      *int                       `json:"homeTeamGoals"`
	AwayTeamGoals      *int                       `json:"awayTeamGoals"`
	HomeTeamUsers      []userJSON                 `json:"homeTeamUsers"`
	AwayTeamUsers      []userJSON                 `json:"awayTeamUsers"`
	ManOfTheMatchVotes map[string]string          `json:"manOfTheMatchVotes"`
	PlayerStats        map[string]playerStatsJSON `json:"playerStats"`
}

// The platform records more per player stats than goals and assists. Only
// these two are kept.
type playerStatsJSON struct {
	Goals   *int `json:"goals"`
	Assists *int `json:"assists"`
}

// Extract reads and decodes a league export from a JSON file.
func (l *League) Extract(path string) error {
	return decodeJSONFile(path, &l.raw)
}

// Transform returns a clean league snapshot from the raw JSON data. Missing
// numbers become zero. Users without an ID and empty votes are dropped.
func (l *League) Transform() league.League {
	out := league.League{
		ID:       strings.TrimSpace(l.raw.ID),
		Name:     strings.TrimSpace(l.raw.Name),
		MaxGames: l.raw.MaxGames,
		Members:  users(l.raw.Members),
	}
	for _, m := range l.raw.Matches {
		out.Matches = append(out.Matches, m.transform())
	}
	return out
}

func (m matchJSON) transform() league.Match {
	out := league.Match{
		ID:            strings.TrimSpace(m.ID),
		Status:        league.Status(strings.ToLower(strings.TrimSpace(m.Status))),
		HomeTeamGoals: deref(m.HomeTeamGoals),
		AwayTeamGoals: deref(m.AwayTeamGoals),
		HomeTeamUsers: users(m.HomeTeamUsers),
		AwayTeamUsers: users(m.AwayTeamUsers),
	}

	for voter, votedFor := range m.ManOfTheMatchVotes {
		if voter == "" || votedFor == "" {
			continue
		}
		if out.ManOfTheMatchVotes == nil {
			out.ManOfTheMatchVotes = map[string]string{}
		}
		out.ManOfTheMatchVotes[voter] = votedFor
	}

	for id, st := range m.PlayerStats {
		if id == "" {
			continue
		}
		if out.PlayerStats == nil {
			out.PlayerStats = map[string]league.PlayerMatchStats{}
		}
		out.PlayerStats[id] = league.PlayerMatchStats{Goals: deref(st.Goals), Assists: deref(st.Assists)}
	}

	return out
}

func users(in []userJSON) []league.User {
	var out []league.User
	for _, u := range in {
		id := strings.TrimSpace(u.ID)
		if id == "" {
			continue
		}
		out = append(out, league.User{
			ID:        id,
			FirstName: strings.TrimSpace(u.FirstName),
			LastName:  strings.TrimSpace(u.LastName),
			Position:  strings.TrimSpace(u.Position),
		})
	}
	return out
}

func deref(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

// Load validates the transformed league and upserts it into the store.
func (l *League) Load(ctx context.Context, s Store) error {
	data := l.Transform()
	if err := data.Validate(); err != nil {
		return err
	}
	if err := s.UpsertLeague(ctx, data); err != nil {
		return fmt.Errorf("upsert league %s: %w", data.ID, err)
	}
	return nil
}

func decodeJSONFile(path string, v any) error {
	f, err := os.Open(path) //nolint:gosec // Internal archive path.
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close() //nolint:errcheck // Read-only file.
	return sonic.ConfigStd.NewDecoder(f).Decode(v)
}
