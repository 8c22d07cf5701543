package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/negz/kickabout/internal/db"
	"github.com/negz/kickabout/internal/league"
)

// Store is the set of queries needed by the web service.
type Store interface {
	ListLeagueSummaries(ctx context.Context, search string) ([]db.LeagueSummary, error)
	ListLeagues(ctx context.Context) ([]league.League, error)
	LeaguesForUser(ctx context.Context, userID string) ([]league.League, error)
	GetLeague(ctx context.Context, id string) (league.League, error)
	ListUsers(ctx context.Context, search string) ([]league.User, error)
	GetUser(ctx context.Context, id string) (league.User, error)
}

// An InMemoryStore wraps a Store, caching data that only changes when a sync
// runs. Cached methods serve from memory. All other methods pass through to
// the underlying store. Call Refresh after each sync to repopulate the cache.
type InMemoryStore struct {
	wrapped Store

	mu      sync.RWMutex // Protects everything below.
	leagues []league.League
	users   []league.User
}

// NewInMemoryStore returns an InMemoryStore that caches league snapshots and
// users in memory.
func NewInMemoryStore(s Store) *InMemoryStore {
	return &InMemoryStore{wrapped: s}
}

// Refresh repopulates the in-memory cache from the underlying store.
func (s *InMemoryStore) Refresh(ctx context.Context) error {
	leagues, err := s.wrapped.ListLeagues(ctx)
	if err != nil {
		return err
	}

	users, err := s.wrapped.ListUsers(ctx, "")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.leagues = leagues
	s.users = users

	return nil
}

// Cached methods.

// ListLeagues returns every league from the cache.
func (s *InMemoryStore) ListLeagues(_ context.Context) ([]league.League, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.leagues, nil
}

// LeaguesForUser returns the cached leagues the user is a member of or has
// been rostered in.
func (s *InMemoryStore) LeaguesForUser(_ context.Context, userID string) ([]league.League, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []league.League
	for _, l := range s.leagues {
		if l.Plays(userID) {
			out = append(out, l)
		}
	}
	return out, nil
}

// GetLeague returns a league from the cache. It returns an error that wraps
// db.ErrNotFound if there's no such league.
func (s *InMemoryStore) GetLeague(_ context.Context, id string) (league.League, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.leagues {
		if l.ID == id {
			return l, nil
		}
	}
	return league.League{}, fmt.Errorf("league %s: %w", id, db.ErrNotFound)
}

// ListUsers returns users from the cache, optionally filtered by search term.
func (s *InMemoryStore) ListUsers(_ context.Context, search string) ([]league.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if search == "" {
		return s.users, nil
	}

	search = strings.ToLower(search)
	var out []league.User
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.ID), search) ||
			strings.Contains(strings.ToLower(u.FirstName+" "+u.LastName), search) ||
			strings.Contains(strings.ToLower(u.Position), search) {
			out = append(out, u)
		}
	}
	return out, nil
}

// GetUser returns a user from the cache. It returns an error that wraps
// db.ErrNotFound if there's no such user.
func (s *InMemoryStore) GetUser(_ context.Context, id string) (league.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return league.User{}, fmt.Errorf("user %s: %w", id, db.ErrNotFound)
}

// Passthrough methods.

// ListLeagueSummaries passes through to the underlying store.
func (s *InMemoryStore) ListLeagueSummaries(ctx context.Context, search string) ([]db.LeagueSummary, error) {
	return s.wrapped.ListLeagueSummaries(ctx, search)
}
