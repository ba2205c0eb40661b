package githubapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/pkg/log"
)

// fakeClock is both the transport's clock and its sleeper: sleeping moves
// the clock forward and records the wait.
type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	waits []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waits = append(f.waits, d)
	f.now = f.now.Add(d)
	return ctx.Err()
}

func (f *fakeClock) Waits() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]time.Duration, len(f.waits))
	copy(out, f.waits)
	return out
}

func testConfig(baseUrl, token string) *cfg.Config {
	return (&cfg.Config{
		App: cfg.App{Name: "github-user-crawler-test"},
		GithubApi: cfg.GithubApi{
			AccessToken: token,
			BaseUrl:     baseUrl,
			TimeoutSec:  5,
			MaxRetries:  5,
		},
	}).Defaults()
}

func newTestTransport(t *testing.T, config *cfg.Config, clock *fakeClock) *Transport {
	t.Helper()
	return NewTransport(log.NewNopLogger(), config,
		WithSleeper(clock),
		WithClock(clock.Now),
		WithRateLimiter(nil),
	)
}

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}
