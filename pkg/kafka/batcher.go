package kafka

import (
	"context"
	"time"

	"github.com/thep200/github-user-crawler/pkg/log"
)

// Batcher groups items from a channel and hands them to Flush when the batch
// is full, when Timeout passes without a full batch, or when the input ends.
type Batcher[T any] struct {
	Logger  log.Logger
	Size    int
	Timeout time.Duration
	Flush   func(ctx context.Context, batch []T) error
}

// Run blocks until in is closed or ctx is done, flushing what is left in both cases.
func (b *Batcher[T]) Run(ctx context.Context, in <-chan T) {
	batch := make([]T, 0, b.Size)
	timer := time.NewTimer(b.Timeout)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		// the parent ctx may already be cancelled on shutdown
		if err := b.Flush(context.WithoutCancel(ctx), batch); err != nil {
			b.Logger.Error(ctx, "Failed to flush batch of %d: %v", len(batch), err)
		} else {
			b.Logger.Info(ctx, "Flushed batch of %d", len(batch))
		}
		batch = make([]T, 0, b.Size)
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return

		case item, ok := <-in:
			if !ok {
				flush()
				return
			}
			batch = append(batch, item)
			if len(batch) >= b.Size {
				flush()
				timer.Reset(b.Timeout)
			}

		case <-timer.C:
			flush()
			timer.Reset(b.Timeout)
		}
	}
}
