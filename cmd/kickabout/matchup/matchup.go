// Package matchup implements the matchup command.
package matchup

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/negz/kickabout/internal/cache"
	"github.com/negz/kickabout/internal/output"
	"github.com/negz/kickabout/internal/strategy/matchup"
)

// Command compares two players head to head.
type Command struct {
	User1 string `arg:"" help:"First user ID."`
	User2 string `arg:"" help:"Second user ID."`
}

// Run executes the matchup command.
func (c *Command) Run(d *cache.DB) error {
	ctx := context.Background()
	store, err := d.SyncedStore(ctx)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	r, err := matchup.Matchup(ctx, store, c.User1, c.User2)
	if err != nil {
		return fmt.Errorf("compare players: %w", err)
	}

	if len(r.Meetings) == 0 {
		fmt.Printf("%s and %s haven't played in the same match.\n", r.Player1.Name(), r.Player2.Name())
		return nil
	}

	rows := make([][]string, len(r.Meetings))
	for i, m := range r.Meetings {
		side := "Against"
		if m.SameSide {
			side = "Together"
		}
		rows[i] = []string{m.LeagueName, m.MatchID, side, string(m.Result), strconv.Itoa(m.Goals1), strconv.Itoa(m.Goals2)}
	}

	headers := []string{"League", "Match", "Side", "Result", r.Player1.Name() + " G", r.Player2.Name() + " G"}
	if err := output.Table(os.Stdout, headers, rows); err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	fmt.Println()
	fmt.Printf("Together: %s (%d played)\n", record(r.Together), r.Together.Played)
	fmt.Printf("Against:  %s (%d played, from %s's side)\n", record(r.Against), r.Against.Played, r.Player1.Name())
	return nil
}

func record(r matchup.Record) string {
	return fmt.Sprintf("%d-%d-%d", r.Wins, r.Draws, r.Losses)
}
