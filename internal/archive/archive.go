// Package archive syncs and loads league exports from a git repository.
//
// The repository holds one JSON file per league under leagues/, as exported
// by the platform.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
)

// metadataKey records the archive commit that was last loaded.
const metadataKey = "archive_head"

// leaguesDir is the directory of league exports within the archive.
const leaguesDir = "leagues"

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRepoURL sets the git repository URL.
func WithRepoURL(url string) ClientOption {
	return func(c *Client) {
		c.repoURL = url
	}
}

// WithLogger sets the logger for progress output.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.log = l
	}
}

// WithStore sets the store for loading league data.
func WithStore(s Store) ClientOption {
	return func(c *Client) {
		c.store = s
	}
}

// Client syncs and loads archived league exports.
type Client struct {
	archivePath string
	repoURL     string
	log         *slog.Logger
	store       Store
}

// NewClient creates a new archive client.
func NewClient(archivePath string, opts ...ClientOption) *Client {
	c := &Client{archivePath: archivePath, log: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SyncIfStale pulls the git repo and loads every league export if the
// archive changed since it was last loaded, or if forced. Leagues that are no
// longer in the archive are removed from the store.
func (c *Client) SyncIfStale(ctx context.Context, force bool) error {
	if c.store == nil {
		return fmt.Errorf("no store configured")
	}

	if err := c.pull(ctx); err != nil {
		return fmt.Errorf("sync league archive: %w", err)
	}

	head, err := c.head()
	if err != nil {
		return fmt.Errorf("read archive head: %w", err)
	}

	loaded, err := c.store.GetMetadata(ctx, metadataKey)
	if err != nil {
		return fmt.Errorf("check loaded archive: %w", err)
	}
	if !force && loaded == head {
		c.log.Debug("League archive unchanged", "head", head)
		return nil
	}

	if err := c.Load(ctx); err != nil {
		return err
	}

	if err := c.store.SetMetadata(ctx, metadataKey, head); err != nil {
		return fmt.Errorf("update archive head: %w", err)
	}
	return nil
}

// Load reads every league export in the archive and loads it into the store,
// without pulling. Exports that can't be read or don't validate are skipped,
// and the store keeps whatever snapshot it already had for them. Leagues
// missing from the archive are pruned, unless an export couldn't be read and
// so might be one of them.
func (c *Client) Load(ctx context.Context) error {
	paths, err := findLeagueFiles(c.archivePath)
	if err != nil {
		return fmt.Errorf("find leagues: %w", err)
	}

	keep := make([]string, 0, len(paths))
	unreadable := false
	for _, path := range paths {
		var l League
		if err := l.Extract(path); err != nil {
			c.log.Warn("Failed to extract league", "file", filepath.Base(path), "error", err)
			unreadable = true
			continue
		}
		id := l.Transform().ID
		keep = append(keep, id)
		c.log.Info("Loading league", "file", filepath.Base(path))
		if err := l.Load(ctx, c.store); err != nil {
			c.log.Warn("Failed to load league", "file", filepath.Base(path), "league", id, "error", err)
		}
	}

	if unreadable {
		c.log.Warn("Not pruning leagues because some exports couldn't be read")
		return nil
	}

	pruned, err := c.store.PruneLeagues(ctx, keep)
	if err != nil {
		return fmt.Errorf("prune leagues: %w", err)
	}
	for _, id := range pruned {
		c.log.Info("Removed league no longer in archive", "league", id)
	}

	return nil
}

// findLeagueFiles returns paths to all league JSON files in the archive, in
// name order.
func findLeagueFiles(archivePath string) ([]string, error) {
	dir := filepath.Join(archivePath, leaguesDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// head returns the hash of the archive's checked out commit.
func (c *Client) head() (string, error) {
	r, err := git.PlainOpen(c.archivePath)
	if err != nil {
		return "", fmt.Errorf("open repo: %w", err)
	}
	ref, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}

// pull brings the archive up to date, cloning it on first use. A checkout of
// some other repository is replaced.
func (c *Client) pull(ctx context.Context) error {
	r, err := git.PlainOpen(c.archivePath)
	switch {
	case errors.Is(err, git.ErrRepositoryNotExists):
		return c.clone(ctx)
	case err != nil:
		return fmt.Errorf("open archive: %w", err)
	}

	if c.repoURL != "" && !fetchesFrom(r, c.repoURL) {
		c.log.Info("League archive URL changed, cloning again", "url", c.repoURL)
		if err := os.RemoveAll(c.archivePath); err != nil {
			return fmt.Errorf("remove old archive: %w", err)
		}
		return c.clone(ctx)
	}

	w, err := r.Worktree()
	if err != nil {
		return fmt.Errorf("get worktree: %w", err)
	}

	// Exports are never edited locally.
	if err := w.Reset(&git.ResetOptions{Mode: git.HardReset}); err != nil {
		return fmt.Errorf("reset worktree: %w", err)
	}

	c.log.Info("Updating league archive")
	err = w.PullContext(ctx, &git.PullOptions{RemoteName: git.DefaultRemoteName, Progress: c.progress(ctx)})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		c.log.Debug("League archive already up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("pull archive: %w", err)
	}
	return nil
}

func (c *Client) clone(ctx context.Context) error {
	if c.repoURL == "" {
		return fmt.Errorf("no archive at %s and no repository URL to clone", c.archivePath)
	}
	if err := os.MkdirAll(filepath.Dir(c.archivePath), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	c.log.Info("Cloning league archive", "url", c.repoURL)
	if _, err := git.PlainCloneContext(ctx, c.archivePath, false, &git.CloneOptions{
		URL:          c.repoURL,
		Depth:        1,
		SingleBranch: true,
		Progress:     c.progress(ctx),
	}); err != nil {
		return fmt.Errorf("clone %s: %w", c.repoURL, err)
	}
	return nil
}

// progress returns where to write git progress, if anywhere.
func (c *Client) progress(ctx context.Context) io.Writer {
	if c.log.Enabled(ctx, slog.LevelDebug) {
		return os.Stderr
	}
	return nil
}

// fetchesFrom returns true if the repository's origin remote is url.
func fetchesFrom(r *git.Repository, url string) bool {
	rm, err := r.Remote(git.DefaultRemoteName)
	if err != nil {
		return false
	}
	return slices.Contains(rm.Config().URLs, url)
}
