package ringbuf

import (
	"context"

	"github.com/korken89/defmt-persist/internal/waiter"
)

// chanWaker adapts a buffered channel to waiter.Waker: Wake is a
// non-blocking send, so a producer that wakes a consumer that never shows
// up to receive never stalls.
type chanWaker chan struct{}

func (c chanWaker) Wake() {
	select {
	case c <- struct{}{}:
	default:
	}
}

// WaitForData blocks until the ring is non-empty or ctx is done. Multiple
// source variants disagree on whether to re-check emptiness after
// registering the waker; this implementation does, closing the race where
// the producer appends and wakes between the first IsEmpty check and
// registration — treating "register, then check" as a single step, per the
// resolution adopted here.
func (c *Consumer) WaitForData(ctx context.Context, w *waiter.Waiter) error {
	if !c.IsEmpty() {
		return nil
	}

	ch := make(chanWaker, 1)
	w.Register(ch)

	if !c.IsEmpty() {
		return nil
	}

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
