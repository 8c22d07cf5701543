// Package history implements the history command.
package history

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/negz/kickabout/internal/cache"
	"github.com/negz/kickabout/internal/history"
	"github.com/negz/kickabout/internal/output"
)

// Command shows a player's match history.
type Command struct {
	User string `arg:"" help:"User ID."`
}

// Run executes the history command.
func (c *Command) Run(d *cache.DB) error {
	ctx := context.Background()
	store, err := d.SyncedStore(ctx)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	if _, err := store.GetUser(ctx, c.User); err != nil {
		return fmt.Errorf("look up %s: %w", c.User, err)
	}

	ls, err := store.LeaguesForUser(ctx, c.User)
	if err != nil {
		return fmt.Errorf("list leagues: %w", err)
	}

	hs := history.Summarize(ls, c.User)
	names := make(map[string]string, len(hs))
	for _, h := range hs {
		names[h.LeagueID] = h.LeagueName
	}

	matches := history.Flatten(hs)
	if len(matches) == 0 {
		fmt.Printf("No completed matches for %s\n", c.User)
		return nil
	}

	rows := make([][]string, len(matches))
	for i, m := range matches {
		rows[i] = []string{
			names[m.LeagueID],
			m.MatchID,
			string(m.Result),
			output.FormatContribution(m),
			strconv.Itoa(m.Conceded),
			strconv.Itoa(m.MOTMVotes),
		}
	}

	return output.Table(os.Stdout, []string{"League", "Match", "Result", "G/A", "Conceded", "MOTM"}, rows)
}
