// Package users implements the users command.
package users

import (
	"context"
	"fmt"
	"os"

	"github.com/negz/kickabout/internal/cache"
	"github.com/negz/kickabout/internal/output"
)

// Command lists players.
type Command struct {
	Search string `arg:"" help:"Search term (matches ID, name, or position)." optional:""`
}

// Run executes the users command.
func (c *Command) Run(d *cache.DB) error {
	ctx := context.Background()
	store, err := d.SyncedStore(ctx)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	users, err := store.ListUsers(ctx, c.Search)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	rows := make([][]string, len(users))
	for i, u := range users {
		rows[i] = []string{u.ID, u.Name(), u.Position, u.ClassifiedPosition().String()}
	}

	return output.Table(os.Stdout, []string{"ID", "Name", "Position", "Plays As"}, rows)
}
