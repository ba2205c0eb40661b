package limiter

import (
	"context"
	"sync"
	"time"
)

// RateLimiter caps the number of requests started within any one-second window.
type RateLimiter struct {
	requestTimes []time.Time
	maxRequests  int
	mu           sync.Mutex
	now          func() time.Time
}

func NewRateLimiter(maxRequests int) *RateLimiter {
	if maxRequests <= 0 {
		maxRequests = 1
	}
	return &RateLimiter{
		requestTimes: make([]time.Time, 0, maxRequests),
		maxRequests:  maxRequests,
		now:          time.Now,
	}
}

// Allow records a request and returns true if the window still has room.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	oneSecondAgo := now.Add(-1 * time.Second)

	// Drop requests older than one second
	validTimes := make([]time.Time, 0, len(r.requestTimes))
	for _, t := range r.requestTimes {
		if t.After(oneSecondAgo) {
			validTimes = append(validTimes, t)
		}
	}
	r.requestTimes = validTimes

	if len(r.requestTimes) < r.maxRequests {
		r.requestTimes = append(r.requestTimes, now)
		return true
	}

	return false
}

// Wait blocks until Allow succeeds, polling every delay, or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context, sleeper Sleeper, delay time.Duration) error {
	if delay <= 0 {
		delay = 10 * time.Millisecond
	}
	for !r.Allow() {
		if err := sleeper.Sleep(ctx, delay); err != nil {
			return err
		}
	}
	return nil
}
