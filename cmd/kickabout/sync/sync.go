// Package sync implements the sync command.
package sync

import (
	"context"
	"fmt"

	"github.com/negz/kickabout/internal/cache"
)

// Command syncs league data to the local database, ignoring staleness.
type Command struct{}

// Run executes the sync command.
func (c *Command) Run(d *cache.DB) error {
	d.ForceSync = true

	if _, err := d.SyncedStore(context.Background()); err != nil {
		return fmt.Errorf("sync leagues: %w", err)
	}

	fmt.Println("Sync complete.")
	return nil
}
