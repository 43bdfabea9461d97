//go:build linux

package xsection

import (
	"sync"

	"golang.org/x/sys/unix"
)

// unixPlatform masks SIGINT/SIGTERM/SIGUSR1 for the duration of the critical
// section — the host analogue of masking interrupts on a microcontroller —
// composed with a mutex, which is what actually excludes concurrent
// goroutines. Signal masking alone does nothing for goroutine exclusion on a
// preemptive host scheduler; it is carried for texture faithful to the
// embedded original, not for correctness.
type unixPlatform struct {
	mu sync.Mutex
}

func newPlatform() platform {
	return &unixPlatform{}
}

var maskedSignals = unix.Sigset_t{}

func init() {
	for _, sig := range []unix.Signal{unix.SIGINT, unix.SIGTERM, unix.SIGUSR1} {
		// Sigset_t is a bitmask indexed (1-based) by signal number; see
		// sigaddset(3). golang.org/x/sys/unix does not expose sigaddset
		// directly for all platforms, so the bit is set by hand.
		bit := uint(sig) - 1
		word := bit / 64
		maskedSignals.Val[word] |= 1 << (bit % 64)
	}
}

func (p *unixPlatform) acquire() (any, func(any)) {
	p.mu.Lock()

	var old unix.Sigset_t
	_ = unix.Sigprocmask(unix.SIG_BLOCK, &maskedSignals, &old)

	return old, func(prev any) {
		old := prev.(unix.Sigset_t)
		_ = unix.Sigprocmask(unix.SIG_SETMASK, &old, nil)
		p.mu.Unlock()
	}
}
