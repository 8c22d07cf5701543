package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/negz/kickabout/internal/league"
)

// DefaultTTL is how long API data is considered fresh before re-syncing.
const DefaultTTL = 15 * time.Minute

// MetadataKey records when the API was last synced.
const MetadataKey = "api_last_sync"

// LeagueStore is the interface for storing league snapshots.
type LeagueStore interface {
	UpsertLeague(ctx context.Context, l league.League) error
	PruneLeagues(ctx context.Context, keep []string) ([]string, error)
}

// MetadataStore is the interface for storing sync metadata.
type MetadataStore interface {
	GetMetadata(ctx context.Context, key string) (string, error)
	SetMetadata(ctx context.Context, key, value string) error
}

// Store combines the interfaces needed by the Syncer.
type Store interface {
	LeagueStore
	MetadataStore
}

// A Fetcher returns a snapshot of every league.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]league.League, error)
}

// SyncerOption configures a Syncer.
type SyncerOption func(*Syncer)

// WithStore sets the store leagues are loaded into.
func WithStore(s Store) SyncerOption {
	return func(sy *Syncer) {
		sy.store = s
	}
}

// WithTTL sets how long synced data is considered fresh. Non-positive
// durations keep the default.
func WithTTL(d time.Duration) SyncerOption {
	return func(sy *Syncer) {
		if d > 0 {
			sy.ttl = d
		}
	}
}

// WithLogger sets the logger for progress output.
func WithLogger(l *slog.Logger) SyncerOption {
	return func(sy *Syncer) {
		sy.log = l
	}
}

// Syncer loads API league snapshots into a store.
type Syncer struct {
	fetcher Fetcher
	store   Store
	ttl     time.Duration
	log     *slog.Logger
	now     func() time.Time
}

// NewSyncer returns a Syncer that fetches leagues using the supplied Fetcher.
func NewSyncer(f Fetcher, opts ...SyncerOption) *Syncer {
	sy := &Syncer{
		fetcher: f,
		ttl:     DefaultTTL,
		log:     slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, o := range opts {
		o(sy)
	}
	return sy
}

// SyncIfStale fetches and loads every league if the last sync is older than
// the TTL, or if forced. Leagues the API no longer lists are removed from the
// store.
func (sy *Syncer) SyncIfStale(ctx context.Context, force bool) error {
	if sy.store == nil {
		return errors.New("no store configured")
	}

	stale, err := sy.isStale(ctx, force)
	if err != nil {
		return err
	}
	if !stale {
		sy.log.DebugContext(ctx, "API data is fresh")
		return nil
	}

	sy.log.InfoContext(ctx, "Syncing leagues from API")

	leagues, err := sy.fetcher.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("fetch leagues: %w", err)
	}

	// Invalid leagues are still kept, so the last good snapshot survives.
	keep := make([]string, 0, len(leagues))
	for _, l := range leagues {
		keep = append(keep, l.ID)
		if err := l.Validate(); err != nil {
			sy.log.WarnContext(ctx, "Skipping invalid league", "league", l.ID, "error", err)
			continue
		}
		if err := sy.store.UpsertLeague(ctx, l); err != nil {
			return fmt.Errorf("upsert league %s: %w", l.ID, err)
		}
	}

	pruned, err := sy.store.PruneLeagues(ctx, keep)
	if err != nil {
		return fmt.Errorf("prune leagues: %w", err)
	}
	for _, id := range pruned {
		sy.log.InfoContext(ctx, "Removed league no longer listed by API", "league", id)
	}

	if err := sy.store.SetMetadata(ctx, MetadataKey, sy.now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("update API sync time: %w", err)
	}
	return nil
}

// isStale returns true if the API data needs refreshing.
func (sy *Syncer) isStale(ctx context.Context, force bool) (bool, error) {
	if force {
		return true, nil
	}

	lastSync, err := sy.store.GetMetadata(ctx, MetadataKey)
	if err != nil {
		return false, fmt.Errorf("check API sync time: %w", err)
	}
	if lastSync == "" {
		return true, nil
	}

	t, err := time.Parse(time.RFC3339, lastSync)
	if err != nil {
		return true, nil //nolint:nilerr // Unparseable timestamp treated as stale.
	}
	return sy.now().Sub(t) > sy.ttl, nil
}
