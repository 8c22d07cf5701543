// Package api fetches league snapshots from the platform's REST API.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/singleflight"

	"github.com/negz/kickabout/internal/league"
)

// ErrNotFound is returned when the platform has no such resource.
var ErrNotFound = errors.New("not found")

// errTransient marks failures worth retrying, which also count against the
// circuit breaker.
var errTransient = errors.New("transient platform failure")

// Client defaults.
const (
	DefaultTimeout     = 20 * time.Second
	DefaultConcurrency = 4
	DefaultBackoff     = time.Second

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 6 << 20
)

// ClientConfig configures a Client.
type ClientConfig struct {
	HTTPClient *http.Client `validate:"-"`
	Logger     *slog.Logger `validate:"-"`

	BaseURL string `validate:"required,url"`
	Token   string

	Timeout     time.Duration `validate:"min=0"`
	MaxRetries  int           `validate:"min=0,max=10"`
	Backoff     time.Duration `validate:"min=0"`
	Concurrency int           `validate:"min=0,max=64"`

	CircuitBreaker CircuitBreakerConfig
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate returns an error if the config is unusable.
func (cfg ClientConfig) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid API client config: %w", err)
	}
	return nil
}

// Client reads leagues from the platform API. Identical concurrent requests
// are deduplicated, transient failures are retried with linear backoff, and
// a circuit breaker stops requests while the platform is unhealthy.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	backoff        time.Duration
	concurrency    int
	log            *slog.Logger
	breaker        *CircuitBreaker
	circuitEnabled bool
	flight         singleflight.Group
}

// NewClient returns a client for the platform API.
func NewClient(cfg ClientConfig) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = DefaultTimeout
	}

	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = DefaultBackoff
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	breakerCfg := cfg.CircuitBreaker
	if breakerCfg == (CircuitBreakerConfig{}) {
		breakerCfg = DefaultCircuitBreakerConfig()
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     cfg.MaxRetries,
		backoff:        backoff,
		concurrency:    concurrency,
		log:            log,
		breaker:        NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}, nil
}

// A LeagueRef identifies a league without its matches.
type LeagueRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type leaguesEnvelope struct {
	Data []LeagueRef `json:"data"`
}

type leagueEnvelope struct {
	Data league.League `json:"data"`
}

// ListLeagues returns every league the token can see.
func (c *Client) ListLeagues(ctx context.Context) ([]LeagueRef, error) {
	var out leaguesEnvelope
	if err := c.doJSON(ctx, "/leagues", &out); err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	return out.Data, nil
}

// GetLeague returns a snapshot of one league, including its members and
// matches.
func (c *Client) GetLeague(ctx context.Context, id string) (league.League, error) {
	var out leagueEnvelope
	if err := c.doJSON(ctx, "/leagues/"+url.PathEscape(id), &out); err != nil {
		return league.League{}, fmt.Errorf("get league %s: %w", id, err)
	}
	return out.Data, nil
}

// FetchAll returns a snapshot of every league the token can see, in the order
// the platform lists them. Leagues are fetched concurrently. The first error
// cancels the remaining fetches.
func (c *Client) FetchAll(ctx context.Context) ([]league.League, error) {
	refs, err := c.ListLeagues(ctx)
	if err != nil {
		return nil, err
	}

	type indexed struct {
		i int
		l league.League
	}

	p := pool.NewWithResults[indexed]().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(c.concurrency)

	for i, ref := range refs {
		p.Go(func(ctx context.Context) (indexed, error) {
			l, err := c.GetLeague(ctx, ref.ID)
			return indexed{i: i, l: l}, err
		})
	}

	results, err := p.Wait()
	if err != nil {
		return nil, err
	}

	// Results arrive in completion order.
	out := make([]league.League, len(refs))
	for _, r := range results {
		out[r.i] = r.l
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	// One Allow and one Record per request, however many callers share it.
	out, err, _ := c.flight.Do(path, func() (any, error) {
		if c.circuitEnabled {
			if err := c.breaker.Allow(); err != nil {
				c.log.WarnContext(ctx, "Circuit breaker rejected request", "path", path, "state", c.breaker.State())
				return nil, err
			}
		}

		raw, err := c.executeRequest(ctx, c.baseURL+path)
		if c.circuitEnabled {
			if errors.Is(err, errTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, err
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, err := c.get(ctx, fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !errors.Is(err, errTransient) || attempt == c.maxRetries {
			break
		}

		backoff := time.Duration(attempt+1) * c.backoff
		c.log.DebugContext(ctx, "Retrying request", "url", fullURL, "attempt", attempt+1, "backoff", backoff, "error", err)
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.log.WarnContext(ctx, "Request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: send request: %w", errTransient, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Nothing useful to do with error.

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %w", errTransient, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return raw, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case isRetryableStatus(resp.StatusCode):
		return nil, fmt.Errorf("%w: %s: %s", errTransient, resp.Status, abbreviate(raw))
	default:
		return nil, fmt.Errorf("%s: %s", resp.Status, abbreviate(raw))
	}
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// abbreviate returns at most the first 200 bytes of a response body, for
// error messages.
func abbreviate(raw []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(raw))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
