// Package main implements the kickabout CLI for league tables, trophies, and
// badges.
package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/negz/kickabout/cmd/kickabout/badges"
	"github.com/negz/kickabout/cmd/kickabout/db"
	"github.com/negz/kickabout/cmd/kickabout/history"
	"github.com/negz/kickabout/cmd/kickabout/leagues"
	"github.com/negz/kickabout/cmd/kickabout/matchup"
	"github.com/negz/kickabout/cmd/kickabout/player"
	"github.com/negz/kickabout/cmd/kickabout/serve"
	"github.com/negz/kickabout/cmd/kickabout/sync"
	"github.com/negz/kickabout/cmd/kickabout/table"
	"github.com/negz/kickabout/cmd/kickabout/trophies"
	"github.com/negz/kickabout/cmd/kickabout/users"
	"github.com/negz/kickabout/internal/cache"
	"github.com/negz/kickabout/internal/version"
)

type cli struct {
	Data cache.DB `embed:""`

	Debug   bool             `help:"Log debug output." short:"d"`
	Version kong.VersionFlag `help:"Print the version and exit."`

	Leagues  leagues.Command  `cmd:"" help:"List leagues."`
	Table    table.Command    `cmd:"" help:"Show a league table."`
	Trophies trophies.Command `cmd:"" help:"Show trophies for one league, or every complete league."`
	Users    users.Command    `cmd:"" help:"List players."`
	Player   player.Command   `cmd:"" help:"Show a player's card."`
	History  history.Command  `cmd:"" help:"Show a player's match history."`
	Badges   badges.Command   `cmd:"" help:"Show a player's badges."`
	Matchup  matchup.Command  `cmd:"" help:"Compare two players head to head."`
	Sync     sync.Command     `cmd:"" help:"Sync leagues to the local database."`
	Serve    serve.Command    `cmd:"" help:"Start the JSON web service."`
	DB       db.Command       `cmd:"" help:"Database utilities." name:"db"`
}

func main() {
	level := new(slog.LevelVar)
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	c := &cli{}
	ctx := kong.Parse(c,
		kong.Name("kickabout"),
		kong.Description("Amateur football league statistics and awards."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
		kong.Bind(&c.Data, log),
	)

	if c.Debug {
		level.Set(slog.LevelDebug)
	}
	c.Data.SetLogger(log)

	err := ctx.Run()
	c.Data.Close() //nolint:errcheck // Nothing to do with error on program exit.
	ctx.FatalIfErrorf(err)
}
