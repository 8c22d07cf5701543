// Package table implements the table command.
package table

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/negz/kickabout/internal/cache"
	"github.com/negz/kickabout/internal/output"
	"github.com/negz/kickabout/internal/stats"
)

// Command shows a league table.
type Command struct {
	League string `arg:"" help:"League ID."`
}

// Run executes the table command.
func (c *Command) Run(d *cache.DB) error {
	ctx := context.Background()
	store, err := d.SyncedStore(ctx)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	l, err := store.GetLeague(ctx, c.League)
	if err != nil {
		return fmt.Errorf("look up league: %w", err)
	}

	table := stats.Table(l)
	rows := make([][]string, len(table))
	for i, r := range table {
		rows[i] = []string{
			strconv.Itoa(r.Position),
			r.User.Name(),
			strconv.Itoa(r.Stats.Played),
			strconv.Itoa(r.Stats.Wins),
			strconv.Itoa(r.Stats.Draws),
			strconv.Itoa(r.Stats.Losses),
			strconv.Itoa(r.Stats.Goals),
			strconv.Itoa(r.Stats.Assists),
			strconv.Itoa(r.Stats.MOTMVotes),
			output.FormatPercent(r.WinPercent),
		}
	}

	fmt.Printf("%s\n\n", l.Name)
	return output.Table(os.Stdout, []string{"#", "Player", "P", "W", "D", "L", "G", "A", "MOTM", "Win %"}, rows)
}
