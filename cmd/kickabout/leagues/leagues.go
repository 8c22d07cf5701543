// Package leagues implements the leagues command.
package leagues

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/negz/kickabout/internal/cache"
	"github.com/negz/kickabout/internal/output"
)

// Command lists leagues.
type Command struct {
	Search string `arg:"" help:"Search term (matches ID or name)." optional:""`
}

// Run executes the leagues command.
func (c *Command) Run(d *cache.DB) error {
	ctx := context.Background()
	store, err := d.SyncedStore(ctx)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	leagues, err := store.ListLeagueSummaries(ctx, c.Search)
	if err != nil {
		return fmt.Errorf("list leagues: %w", err)
	}

	rows := make([][]string, len(leagues))
	for i, l := range leagues {
		games := "-"
		if l.MaxGames > 0 {
			games = strconv.Itoa(l.MaxGames)
		}
		rows[i] = []string{
			l.ID,
			l.Name,
			strconv.Itoa(l.Members),
			fmt.Sprintf("%d/%d", l.Completed, l.Matches),
			games,
		}
	}

	return output.Table(os.Stdout, []string{"ID", "Name", "Members", "Played", "Max Games"}, rows)
}
