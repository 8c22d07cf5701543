// Package trophies implements the trophies command.
package trophies

import (
	"context"
	"fmt"
	"os"

	"github.com/negz/kickabout/internal/cache"
	"github.com/negz/kickabout/internal/output"
	"github.com/negz/kickabout/internal/trophy"
)

// Command shows trophies for one league, or for every complete league.
type Command struct {
	League string `arg:"" help:"League ID. Omit to show every complete league." optional:""`
}

// Run executes the trophies command.
func (c *Command) Run(d *cache.DB) error {
	ctx := context.Background()
	store, err := d.SyncedStore(ctx)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	var ts []trophy.Trophy
	if c.League != "" {
		l, err := store.GetLeague(ctx, c.League)
		if err != nil {
			return fmt.Errorf("look up league: %w", err)
		}
		ts = trophy.ForLeague(l)
	} else {
		ls, err := store.ListLeagues(ctx)
		if err != nil {
			return fmt.Errorf("list leagues: %w", err)
		}
		ts = trophy.ForLeagues(ls)
	}

	if len(ts) == 0 {
		fmt.Println("No complete leagues yet.")
		return nil
	}

	rows := make([][]string, len(ts))
	for i, t := range ts {
		rows[i] = []string{t.LeagueName, t.Title, output.FormatWinner(t), t.Description}
	}

	return output.Table(os.Stdout, []string{"League", "Trophy", "Winner", "For"}, rows)
}
