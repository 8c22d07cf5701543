// Package player implements the player command.
package player

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/negz/kickabout/internal/cache"
	"github.com/negz/kickabout/internal/output"
	"github.com/negz/kickabout/internal/strategy/player"
)

// Command shows a player's card.
type Command struct {
	User   string `arg:""                                help:"User ID."`
	League string `help:"Only include a specific league." short:"l"`
}

// Run executes the player command.
func (c *Command) Run(d *cache.DB) error {
	ctx := context.Background()
	store, err := d.SyncedStore(ctx)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	var opts []player.Option
	if c.League != "" {
		opts = append(opts, player.InLeague(c.League))
	}

	r, err := player.Analyze(ctx, store, c.User, opts...)
	if err != nil {
		return fmt.Errorf("look up %s: %w", c.User, err)
	}

	if err := output.Card(os.Stdout, card(r)); err != nil {
		return fmt.Errorf("write card: %w", err)
	}

	if len(r.Leagues) > 0 {
		fmt.Println()
		if err := output.Table(os.Stdout, leagueHeaders(), leagueRows(r.Leagues)); err != nil {
			return fmt.Errorf("write table: %w", err)
		}
	}

	if len(r.Trophies) > 0 {
		fmt.Println()
		rows := make([][]string, len(r.Trophies))
		for i, t := range r.Trophies {
			rows[i] = []string{t.Title, t.LeagueName}
		}
		if err := output.Table(os.Stdout, []string{"Trophy", "League"}, rows); err != nil {
			return fmt.Errorf("write table: %w", err)
		}
	}

	return nil
}

func card(r *player.Result) [][2]string {
	return [][2]string{
		{"Name", r.User.Name()},
		{"Position", r.Position},
		{"Record", output.FormatRecord(r.Totals)},
		{"Win %", output.FormatPercent(r.WinPercent)},
		{"Goals", strconv.Itoa(r.Totals.Goals)},
		{"Assists", strconv.Itoa(r.Totals.Assists)},
		{"MOTM votes", strconv.Itoa(r.Totals.MOTMVotes)},
		{"XP", strconv.Itoa(r.XP)},
		{"Badge XP", strconv.Itoa(r.BadgeXP)},
		{"Trophies", strconv.Itoa(len(r.Trophies))},
	}
}

func leagueHeaders() []string {
	return []string{"League", "#", "P", "W-D-L", "Win %", "Status"}
}

func leagueRows(ls []player.LeagueStats) [][]string {
	rows := make([][]string, len(ls))
	for i, l := range ls {
		pos := "-"
		if l.Position > 0 {
			pos = strconv.Itoa(l.Position)
		}
		status := "In progress"
		if l.Complete {
			status = "Complete"
		}
		rows[i] = []string{
			l.LeagueName,
			pos,
			strconv.Itoa(l.Stats.Played),
			output.FormatRecord(l.Stats),
			output.FormatPercent(l.WinPercent),
			status,
		}
	}
	return rows
}
