package githubapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/internal/limiter"
	"github.com/thep200/github-user-crawler/pkg/log"
)

const (
	rateLimitMinWait  = 10 * time.Second
	rateLimitSafety   = 3 * time.Second
	retryAfterDefault = "5"
)

// AttemptKind classifies a single HTTP attempt.
type AttemptKind int

const (
	AttemptSuccess AttemptKind = iota
	AttemptNotFound
	AttemptRateLimited
	AttemptTooManyRequests
	AttemptTransient
)

func (k AttemptKind) String() string {
	switch k {
	case AttemptSuccess:
		return "success"
	case AttemptNotFound:
		return "not_found"
	case AttemptRateLimited:
		return "rate_limited"
	case AttemptTooManyRequests:
		return "too_many_requests"
	default:
		return "transient"
	}
}

// OutcomeKind is the terminal result of a logical request.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeNotFound
	OutcomeFailure
)

type Outcome struct {
	Kind     OutcomeKind
	Status   int
	Body     []byte
	Attempts int
	Err      error
}

// Error maps the outcome onto the package sentinels; nil on success.
func (o Outcome) Error() error {
	switch o.Kind {
	case OutcomeSuccess:
		return nil
	case OutcomeNotFound:
		return ErrNotFound
	default:
		if o.Err != nil {
			return o.Err
		}
		return ErrRetriesExhausted
	}
}

type Request struct {
	Method string
	URL    string
	Body   interface{}
	// Label names the request in logs, e.g. "user detail octocat".
	Label string
}

type TransportOption func(*Transport)

func WithSleeper(s limiter.Sleeper) TransportOption {
	return func(t *Transport) { t.sleeper = s }
}

func WithClock(now func() time.Time) TransportOption {
	return func(t *Transport) { t.now = now }
}

func WithRateLimiter(r *limiter.RateLimiter) TransportOption {
	return func(t *Transport) { t.limiter = r }
}

// Transport issues one logical request with up to maxAttempts attempts.
// It is safe for concurrent use; a rate-limit pause seen by any caller
// holds back every caller until the reported reset.
type Transport struct {
	Logger        log.Logger
	client        *resty.Client
	maxAttempts   int
	throttleDelay time.Duration
	resetGap      time.Duration
	limiter       *limiter.RateLimiter
	sleeper       limiter.Sleeper
	now           func() time.Time

	mu           sync.Mutex
	blockedUntil time.Time
}

func NewTransport(logger log.Logger, config *cfg.Config, opts ...TransportOption) *Transport {
	client := resty.New().
		SetTimeout(time.Duration(config.GithubApi.TimeoutSec)*time.Second).
		SetHeader("Accept", "application/vnd.github+json").
		SetHeader("X-GitHub-Api-Version", "2022-11-28").
		SetHeader("User-Agent", config.App.Name).
		SetRetryCount(0)
	if config.HasToken() {
		client.SetAuthToken(config.GithubApi.AccessToken)
	}

	t := &Transport{
		Logger:        logger,
		client:        client,
		maxAttempts:   config.GithubApi.MaxRetries,
		throttleDelay: time.Duration(config.GithubApi.ThrottleDelay) * time.Millisecond,
		resetGap:      time.Duration(config.GithubApi.RateLimitResetMin) * time.Minute,
		limiter:       limiter.NewRateLimiter(config.GithubApi.RequestsPerSecond),
		sleeper:       limiter.NewTimerSleeper(),
		now:           time.Now,
	}
	if t.maxAttempts <= 0 {
		t.maxAttempts = 5
	}
	if t.resetGap <= 0 {
		t.resetGap = time.Minute
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Execute runs req until it succeeds, hits a 404 or runs out of attempts.
// No sleep follows the final attempt.
func (t *Transport) Execute(ctx context.Context, req Request) Outcome {
	label := req.Label
	if label == "" {
		label = req.URL
	}

	var lastErr error
	lastStatus := 0
	for attempt := 0; attempt < t.maxAttempts; attempt++ {
		if err := t.waitTurn(ctx); err != nil {
			return Outcome{Kind: OutcomeFailure, Attempts: attempt, Err: fmt.Errorf("%w: %s: %v", ErrRetriesExhausted, label, err)}
		}

		kind, status, body, wait, err := t.attempt(ctx, req, attempt)
		lastStatus = status
		switch kind {
		case AttemptSuccess:
			return Outcome{Kind: OutcomeSuccess, Status: status, Body: body, Attempts: attempt + 1}
		case AttemptNotFound:
			t.Logger.Warn(ctx, "Not found: %s", label)
			return Outcome{Kind: OutcomeNotFound, Status: status, Attempts: attempt + 1, Err: ErrNotFound}
		case AttemptRateLimited:
			t.Logger.Warn(ctx, "Rate limit exceeded on %s, waiting %s", label, wait)
			t.block(wait)
		case AttemptTooManyRequests:
			t.Logger.Warn(ctx, "429 Too Many Requests on %s, sleeping %s (attempt %d)", label, wait, attempt+1)
		default:
			t.Logger.Warn(ctx, "Error fetching %s (attempt %d): %v", label, attempt+1, err)
		}
		lastErr = err

		if attempt == t.maxAttempts-1 {
			break
		}
		if err := t.sleeper.Sleep(ctx, wait); err != nil {
			return Outcome{Kind: OutcomeFailure, Status: status, Attempts: attempt + 1, Err: fmt.Errorf("%w: %s: %v", ErrRetriesExhausted, label, err)}
		}
	}

	t.Logger.Warn(ctx, "Failed to fetch %s after %d attempts", label, t.maxAttempts)
	return Outcome{
		Kind:     OutcomeFailure,
		Status:   lastStatus,
		Attempts: t.maxAttempts,
		Err:      fmt.Errorf("%w: %s: %v", ErrRetriesExhausted, label, lastErr),
	}
}

// attempt performs one HTTP call and decides how long to wait before the
// next one.
func (t *Transport) attempt(ctx context.Context, req Request, attempt int) (AttemptKind, int, []byte, time.Duration, error) {
	backoff := time.Duration(1<<uint(attempt)) * time.Second

	r := t.client.R().SetContext(ctx)
	if req.Body != nil {
		r.SetBody(req.Body)
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	resp, err := r.Execute(method, req.URL)
	if err != nil {
		return AttemptTransient, 0, nil, backoff, err
	}

	status := resp.StatusCode()
	switch {
	case status == http.StatusNotFound:
		return AttemptNotFound, status, nil, 0, ErrNotFound

	case status == http.StatusForbidden && strings.Contains(strings.ToLower(resp.String()), "rate limit"):
		return AttemptRateLimited, status, nil, t.rateLimitWait(resp.Header()), fmt.Errorf("rate limited: %s", resp.Status())

	case status == http.StatusTooManyRequests:
		retryAfter := resp.Header().Get("Retry-After")
		if retryAfter == "" {
			retryAfter = retryAfterDefault
		}
		secs, convErr := strconv.Atoi(strings.TrimSpace(retryAfter))
		if convErr != nil || secs < 0 {
			return AttemptTransient, status, nil, backoff, fmt.Errorf("bad Retry-After %q: %v", retryAfter, convErr)
		}
		return AttemptTooManyRequests, status, nil, time.Duration(secs) * time.Second, fmt.Errorf("too many requests: %s", resp.Status())

	case status >= 200 && status < 300:
		return AttemptSuccess, status, resp.Body(), 0, nil

	default:
		return AttemptTransient, status, nil, backoff, fmt.Errorf("unexpected status: %s", resp.Status())
	}
}

// rateLimitWait is max(reset - now, 10s) plus a safety margin. A missing or
// unreadable reset header counts as a reset RateLimitResetMin from now.
func (t *Transport) rateLimitWait(header http.Header) time.Duration {
	now := t.now()
	reset := now.Add(t.resetGap)
	if raw := header.Get("X-RateLimit-Reset"); raw != "" {
		if ts, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
			reset = time.Unix(ts, 0)
		}
	}

	wait := reset.Sub(now).Truncate(time.Second)
	if wait < rateLimitMinWait {
		wait = rateLimitMinWait
	}
	return wait + rateLimitSafety
}

func (t *Transport) block(wait time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	until := t.now().Add(wait)
	if until.After(t.blockedUntil) {
		t.blockedUntil = until
	}
}

// waitTurn holds the caller while another caller's rate-limit pause is in
// effect, then applies the per-second request cap.
func (t *Transport) waitTurn(ctx context.Context) error {
	t.mu.Lock()
	remaining := t.blockedUntil.Sub(t.now())
	t.mu.Unlock()

	if remaining > 0 {
		if err := t.sleeper.Sleep(ctx, remaining); err != nil {
			return err
		}
	}
	if t.limiter == nil {
		return ctx.Err()
	}
	return t.limiter.Wait(ctx, t.sleeper, t.throttleDelay)
}
