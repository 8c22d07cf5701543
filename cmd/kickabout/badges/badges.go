// Package badges implements the badges command.
package badges

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/negz/kickabout/internal/badge"
	"github.com/negz/kickabout/internal/cache"
	"github.com/negz/kickabout/internal/history"
	"github.com/negz/kickabout/internal/output"
)

// Command shows a player's badges.
type Command struct {
	User     string `arg:""                          help:"User ID."`
	Unlocked bool   `help:"Only show unlocked badges." short:"u"`
}

// Run executes the badges command.
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

	bs := badge.Evaluate(history.Summarize(ls, c.User))
	total := badge.TotalXP(bs)
	if c.Unlocked {
		bs = badge.Unlocked(bs)
	}

	rows := make([][]string, len(bs))
	for i, b := range bs {
		rows[i] = []string{
			b.Title,
			output.FormatBadge(b),
			output.FormatProgress(b),
			strconv.Itoa(b.Count * b.XP),
			b.ProgressText,
		}
	}

	if err := output.Table(os.Stdout, []string{"Badge", "Status", "Progress", "XP", "Next"}, rows); err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	fmt.Printf("\nTotal XP: %d\n", total)
	return nil
}
