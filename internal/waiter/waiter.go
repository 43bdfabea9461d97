// Package waiter implements the single-slot, cross-context data-ready
// waker: the consumer registers a Waker before it goes to sleep, and
// the producer side wakes it (at most once) on frame boundary.
package waiter

import "github.com/korken89/defmt-persist/internal/xsection"

// Waker is notified, at most once, the next time Wake is called after it
// registered.
type Waker interface {
	Wake()
}

// Waiter holds at most one registered Waker. Register and Wake are both
// safe to call from any goroutine; the critical section they share is what
// makes the "atomically replace/drop" and "atomically take-and-wake"
// operations race-free, so Wake can be called from a context that preempts
// Register.
type Waiter struct {
	sec  *xsection.Section
	slot Waker
}

// New constructs an empty Waiter guarded by the given critical section.
func New(sec *xsection.Section) *Waiter {
	return &Waiter{sec: sec}
}

// Register atomically replaces any previously registered waker with w.
// A waker dropped this way is never woken: the prior caller is expected to
// have already lost interest, e.g. it timed out via its own context.
func (w *Waiter) Register(waker Waker) {
	tok := w.sec.Acquire()
	w.slot = waker
	w.sec.Release(tok)
}

// Wake atomically takes the registered waker, if any, and wakes it. It is
// idempotent: calling Wake with nothing registered is a no-op.
func (w *Waiter) Wake() {
	tok := w.sec.Acquire()
	waker := w.slot
	w.slot = nil
	w.sec.Release(tok)

	if waker != nil {
		waker.Wake()
	}
}
