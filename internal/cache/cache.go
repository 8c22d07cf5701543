// Package cache manages the local league data cache.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/negz/kickabout/internal/api"
	"github.com/negz/kickabout/internal/archive"
	"github.com/negz/kickabout/internal/db"
)

// Data sources.
const (
	SourceArchive = "archive"
	SourceAPI     = "api"
)

// Dir returns the kickabout cache directory.
//
// It uses os.UserCacheDir, which respects XDG_CACHE_HOME on Linux, uses
// ~/Library/Caches on macOS, and %LocalAppData% on Windows. If the user cache
// directory can't be determined it falls back to the system temp directory.
func Dir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "kickabout")
	}
	return filepath.Join(base, "kickabout")
}

// DB provides access to a league database.
// It lazily opens the database on first use.
type DB struct {
	Source     string        `default:"api"                          enum:"archive,api"           env:"KICKABOUT_SOURCE"  help:"Where to sync leagues from (${enum})."`
	ArchiveURL string        `env:"KICKABOUT_ARCHIVE_URL"            help:"League export git repo URL." hidden:""`
	APIURL     string        `default:"https://api.kickabout.app/v1" env:"KICKABOUT_API_URL"           help:"Platform API base URL." hidden:""`
	APIToken   string        `env:"KICKABOUT_API_TOKEN"              help:"Platform API token."`
	APITTL     time.Duration `default:"15m"                          env:"KICKABOUT_API_TTL"           help:"How long synced API data stays fresh." hidden:""`
	ForceSync  bool          `help:"Sync data before running command." name:"sync"                    short:"s"`

	log   *slog.Logger
	store *db.SQLiteStore
}

// SetLogger configures the logger for sync progress.
func (d *DB) SetLogger(log *slog.Logger) {
	d.log = log
}

func (d *DB) logger() *slog.Logger {
	if d.log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.log
}

// Store returns the database store, opening it if needed. It does not sync
// data. Use SyncedStore when the caller needs fresh data before proceeding.
func (d *DB) Store(ctx context.Context) (*db.SQLiteStore, error) {
	if d.store != nil {
		return d.store, nil
	}

	cacheDir := Dir()

	if err := os.MkdirAll(cacheDir, 0o750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	dbPath := filepath.Join(cacheDir, "kickabout.db")
	store, err := db.Open(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := store.Init(ctx); err != nil {
		store.Close() //nolint:errcheck // Already returning error.
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	d.store = store
	return d.store, nil
}

// SyncedStore returns the database store, syncing data from the configured
// source first.
func (d *DB) SyncedStore(ctx context.Context) (*db.SQLiteStore, error) {
	store, err := d.Store(ctx)
	if err != nil {
		return nil, err
	}

	if err := d.Sync(ctx); err != nil {
		d.store.Close() //nolint:errcheck // Already returning error.
		d.store = nil
		return nil, err
	}

	return store, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.store == nil {
		return nil
	}
	return d.store.Close()
}

// A Syncer loads leagues into the store if they're stale.
type Syncer interface {
	SyncIfStale(ctx context.Context, force bool) error
}

// Sync synchronizes leagues from the configured source.
// It respects staleness unless ForceSync is set.
func (d *DB) Sync(ctx context.Context) error {
	s, err := d.Syncer()
	if err != nil {
		return err
	}
	return s.SyncIfStale(ctx, d.ForceSync)
}

// Syncer returns a Syncer for the configured source. The store must already
// be open.
func (d *DB) Syncer() (Syncer, error) {
	if d.store == nil {
		return nil, fmt.Errorf("database is not open")
	}

	switch d.Source {
	case SourceArchive:
		return archive.NewClient(filepath.Join(Dir(), "league-archive"),
			archive.WithRepoURL(d.ArchiveURL),
			archive.WithLogger(d.logger()),
			archive.WithStore(d.store),
		), nil
	case SourceAPI, "":
		c, err := api.NewClient(api.ClientConfig{
			BaseURL:    d.APIURL,
			Token:      d.APIToken,
			MaxRetries: 2,
			Logger:     d.logger(),
		})
		if err != nil {
			return nil, err
		}
		return api.NewSyncer(c,
			api.WithStore(d.store),
			api.WithTTL(d.APITTL),
			api.WithLogger(d.logger()),
		), nil
	default:
		return nil, fmt.Errorf("unknown data source %q", d.Source)
	}
}
