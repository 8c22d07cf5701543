package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/negz/kickabout/internal/league"
)

const leagueList = `{"data": [{"id": "l1", "name": "Sunday League"}, {"id": "l2", "name": "Friday Five"}]}`

func leagueBody(id, name string) string {
	return fmt.Sprintf(`{"data": {
  "id": %q,
  "name": %q,
  "members": [{"id": "u1", "firstName": "Alice", "lastName": "Archer"}],
  "matches": [{
    "id": "%s-m1",
    "status": "completed",
    "homeTeamGoals": 2,
    "awayTeamGoals": 1,
    "homeTeamUsers": [{"id": "u1"}],
    "awayTeamUsers": [{"id": "u2"}],
    "playerStats": {"u1": {"goals": 2, "assists": 0}}
  }]
}}`, id, name, id)
}

func leagueWant(id, name string) league.League {
	return league.League{
		ID:      id,
		Name:    name,
		Members: []league.User{{ID: "u1", FirstName: "Alice", LastName: "Archer"}},
		Matches: []league.Match{{
			ID:            id + "-m1",
			Status:        league.StatusCompleted,
			HomeTeamGoals: 2,
			AwayTeamGoals: 1,
			HomeTeamUsers: []league.User{{ID: "u1"}},
			AwayTeamUsers: []league.User{{ID: "u2"}},
			PlayerStats:   map[string]league.PlayerMatchStats{"u1": {Goals: 2}},
		}},
	}
}

// newTestServer serves the league list and the two leagues it names.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /leagues", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, leagueList) //nolint:errcheck // Test server.
	})
	mux.HandleFunc("GET /leagues/l1", func(w http.ResponseWriter, _ *http.Request) {
		// Make the first league the slowest, so results complete out of order.
		time.Sleep(20 * time.Millisecond)
		fmt.Fprint(w, leagueBody("l1", "Sunday League")) //nolint:errcheck // Test server.
	})
	mux.HandleFunc("GET /leagues/l2", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, leagueBody("l2", "Friday Five")) //nolint:errcheck // Test server.
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, baseURL string, cfg ClientConfig) *Client {
	t.Helper()

	cfg.BaseURL = baseURL
	if cfg.Backoff == 0 {
		cfg.Backoff = time.Millisecond
	}
	c, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient(...): %v", err)
	}
	return c
}

func TestNewClient(t *testing.T) {
	cases := map[string]struct {
		reason string
		cfg    ClientConfig
		want   error
	}{
		"Valid": {
			reason: "A config with a base URL should be valid.",
			cfg:    ClientConfig{BaseURL: "https://api.example.org/v1"},
		},
		"MissingBaseURL": {
			reason: "A base URL is required.",
			cfg:    ClientConfig{},
			want:   cmpopts.AnyError,
		},
		"TooManyRetries": {
			reason: "Retries should be bounded.",
			cfg:    ClientConfig{BaseURL: "https://api.example.org/v1", MaxRetries: 11},
			want:   cmpopts.AnyError,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewClient(tc.cfg)
			if diff := cmp.Diff(tc.want, err, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("\n%s\nNewClient(...): -want error, +got error:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestFetchAll(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv.URL, ClientConfig{Token: "secret", Concurrency: 2})

	got, err := c.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll(...): %v", err)
	}

	want := []league.League{
		leagueWant("l1", "Sunday League"),
		leagueWant("l2", "Friday Five"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FetchAll(...): -want, +got:\n%s", diff)
	}
}

func TestGetLeague(t *testing.T) {
	type want struct {
		league league.League
		err    error
	}

	cases := map[string]struct {
		reason  string
		handler http.HandlerFunc
		retries int
		want    want
		calls   int32
	}{
		"Success": {
			reason: "A league should be decoded from the response envelope.",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, leagueBody("l1", "Sunday League")) //nolint:errcheck // Test server.
			},
			want:  want{league: leagueWant("l1", "Sunday League")},
			calls: 1,
		},
		"NotFound": {
			reason: "A 404 should be returned as ErrNotFound without retrying.",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.NotFound(w, nil)
			},
			retries: 2,
			want:    want{err: ErrNotFound},
			calls:   1,
		},
		"ClientError": {
			reason: "A 400 should not be retried.",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "bad request", http.StatusBadRequest)
			},
			retries: 2,
			want:    want{err: cmpopts.AnyError},
			calls:   1,
		},
		"ServerErrorExhaustsRetries": {
			reason: "A 503 should be retried until retries are exhausted.",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
			},
			retries: 2,
			want:    want{err: errTransient},
			calls:   3,
		},
		"BadJSON": {
			reason: "A malformed body should return an error.",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{"data": `) //nolint:errcheck // Test server.
			},
			want:  want{err: cmpopts.AnyError},
			calls: 1,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				tc.handler(w, r)
			}))
			t.Cleanup(srv.Close)

			c := newTestClient(t, srv.URL, ClientConfig{MaxRetries: tc.retries})
			got, err := c.GetLeague(context.Background(), "l1")

			if diff := cmp.Diff(tc.want.err, err, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("\n%s\nGetLeague(...): -want error, +got error:\n%s", tc.reason, diff)
			}
			if diff := cmp.Diff(tc.want.league, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("\n%s\nGetLeague(...): -want, +got:\n%s", tc.reason, diff)
			}
			if diff := cmp.Diff(tc.calls, calls.Load()); diff != "" {
				t.Errorf("\n%s\nGetLeague(...) requests: -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestGetLeagueRecovers(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, leagueBody("l1", "Sunday League")) //nolint:errcheck // Test server.
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL, ClientConfig{MaxRetries: 1})
	got, err := c.GetLeague(context.Background(), "l1")
	if err != nil {
		t.Fatalf("GetLeague(...): %v", err)
	}
	if diff := cmp.Diff(leagueWant("l1", "Sunday League"), got); diff != "" {
		t.Errorf("GetLeague(...) after a 429: -want, +got:\n%s", diff)
	}
}

func TestCircuitOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "broken", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL, ClientConfig{
		CircuitBreaker: CircuitBreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Hour},
	})

	if _, err := c.GetLeague(context.Background(), "l1"); err == nil {
		t.Fatal("GetLeague(...): want error from failing server, got nil")
	}

	_, err := c.GetLeague(context.Background(), "l1")
	if diff := cmp.Diff(ErrCircuitOpen, err, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("GetLeague(...) with open circuit: -want error, +got error:\n%s", diff)
	}
	if diff := cmp.Diff(int32(1), calls.Load()); diff != "" {
		t.Errorf("GetLeague(...) requests: -want, +got:\n%s", diff)
	}
}

func TestCircuitClosesAfterSharedRequests(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "broken", http.StatusInternalServerError)
			return
		}
		time.Sleep(20 * time.Millisecond)
		fmt.Fprint(w, leagueBody("l1", "Sunday League")) //nolint:errcheck // Test server.
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL, ClientConfig{
		CircuitBreaker: CircuitBreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Minute, HalfOpenMaxReq: 2},
	})
	clock := &fakeClock{t: time.Unix(0, 0)}
	c.breaker.now = clock.Now

	if _, err := c.GetLeague(context.Background(), "l1"); err == nil {
		t.Fatal("GetLeague(...): want error from failing server, got nil")
	}
	if diff := cmp.Diff(CircuitStateOpen, c.breaker.State()); diff != "" {
		t.Fatalf("State() after failure: -want, +got:\n%s", diff)
	}

	clock.Advance(time.Minute)

	// Concurrent requests for the same league may share one HTTP request.
	errs := make(chan error, 2)
	for range 2 {
		go func() {
			_, err := c.GetLeague(context.Background(), "l1")
			errs <- err
		}()
	}
	for range 2 {
		if err := <-errs; err != nil {
			t.Fatalf("concurrent GetLeague(...): %v", err)
		}
	}

	for range 2 {
		if _, err := c.GetLeague(context.Background(), "l1"); err != nil {
			t.Fatalf("GetLeague(...): %v", err)
		}
	}

	if diff := cmp.Diff(CircuitStateClosed, c.breaker.State()); diff != "" {
		t.Errorf("State() after successful requests: -want, +got:\n%s", diff)
	}
}

func TestAbbreviate(t *testing.T) {
	got := abbreviate([]byte(strings.Repeat("x", 250)))
	if diff := cmp.Diff(strings.Repeat("x", 200)+"...", got); diff != "" {
		t.Errorf("abbreviate(...): -want, +got:\n%s", diff)
	}
}
