// Package initentry is the single public entry point that turns a raw
// memory region into a running Producer/Consumer pair and a logger
// Frontend. It owns the process-wide once-flag: a second call in the same
// boot observes ErrAlreadyInitialized rather than re-running recovery over
// a region another caller may already be writing to.
package initentry

import (
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/korken89/defmt-persist/internal/frontend"
	"github.com/korken89/defmt-persist/internal/ringbuf"
	"github.com/korken89/defmt-persist/internal/waiter"
	"github.com/korken89/defmt-persist/internal/xsection"
)

// ErrAlreadyInitialized is returned by Init on any call after the first,
// successful or not: the once-flag is set before recovery runs and is never
// cleared, since a failed geometry check means the caller's region
// parameters are wrong, not transiently wrong, and retrying against the
// same bytes is not safe to offer implicitly.
var ErrAlreadyInitialized = errors.New("initentry: already initialized")

var initialized atomic.Bool

// Result is what Init hands back to a successful caller.
type Result struct {
	// Consumer is the read-side handle; the caller owns it for the
	// lifetime of the process.
	Consumer *ringbuf.Consumer
	// RecoveredBytesLen is the number of unread bytes recovery found
	// already sitting in the ring, read via an unreleased peek so the
	// bytes are still there for the real consumer to read afterwards.
	RecoveredBytesLen int
	// RecoveredIdentifier is the identifier tag read from the region
	// before Init overwrote it with the caller's new one.
	RecoveredIdentifier ringbuf.Identifier
	// Outcome classifies how recovery brought the region up.
	Outcome ringbuf.Outcome
}

// Init runs recovery over mem exactly once per process. newIdentifier is
// handed the identifier recovered from mem and returns the identifier to
// stamp in its place (e.g. a hash of the current firmware build, so a
// later boot can tell whether the ring was last written by this build or
// an older one).
//
// encoder, sinks and sinkPatterns configure the logger Frontend this Init
// call constructs and installs; log receives diagnostics from the
// Frontend's best-effort paths (encoder/sink errors, which never abort a
// write).
func Init(
	mem []byte,
	newIdentifier func(recovered ringbuf.Identifier) ringbuf.Identifier,
	encoder frontend.Encoder,
	sinks []frontend.Sink,
	sinkPatterns []string,
	log *zap.SugaredLogger,
) (*Result, *frontend.Frontend, error) {
	if !initialized.CompareAndSwap(false, true) {
		return nil, nil, ErrAlreadyInitialized
	}

	producer, consumer, outcome, recoveredIdentifier, err := ringbuf.Recover(mem, newIdentifier)
	if err != nil {
		return nil, nil, err
	}

	w := waiter.New(xsection.New())
	fe, err := frontend.New(producer, w, encoder, sinks, sinkPatterns, log)
	if err != nil {
		return nil, nil, err
	}

	recoveredLen := 0
	if grant, err := consumer.Read(); err == nil {
		recoveredLen = grant.Len()
		// Not released: the bytes recovery found are still unread data,
		// left in place for the real consumer loop to read and release.
		if err := grant.Discard(); err != nil {
			log.Warnw("initentry: discarding recovered-bytes peek", "error", err)
		}
	}

	return &Result{
		Consumer:            consumer,
		RecoveredBytesLen:   recoveredLen,
		RecoveredIdentifier: recoveredIdentifier,
		Outcome:             outcome,
	}, fe, nil
}

// Reset clears the once-flag. It exists only for tests: a real process
// calls Init exactly once per boot and never needs to undo that.
func Reset() {
	initialized.Store(false)
}
