package limiter

import (
	"context"
	"sync"
	"time"
)

// Sleeper is the single place the crawler waits: retry backoff, rate-limit
// resets and pacing between users all go through it so a run can be
// cancelled mid-wait and tests can observe waits without taking them.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type TimerSleeper struct{}

func NewTimerSleeper() *TimerSleeper { return &TimerSleeper{} }

func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RecordingSleeper returns immediately and remembers every requested wait.
type RecordingSleeper struct {
	mu    sync.Mutex
	Waits []time.Duration
}

func (s *RecordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.Waits = append(s.Waits, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *RecordingSleeper) Recorded() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, len(s.Waits))
	copy(out, s.Waits)
	return out
}
