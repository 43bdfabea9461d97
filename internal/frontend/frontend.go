package frontend

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/korken89/defmt-persist/internal/ringbuf"
	"github.com/korken89/defmt-persist/internal/waiter"
	"github.com/korken89/defmt-persist/internal/xsection"
)

// Frontend is the process-wide singleton that owns the Producer. It
// funnels every caller through one critical section and a depth counter:
// the outer Acquire (depth 0→1) takes the section and opens a frame;
// nested Acquire calls (e.g. a Sink.Write implementation that tries to log
// through the same Frontend, or a second goroutine racing the first) only
// bump the counter, and Write/Flush calls made while nested are silently
// dropped rather than corrupting the frame already in progress.
//
// depth is an atomic counter rather than a plain int: the outer/nested
// determination is the fetch-and-compare itself, not a load followed by a
// separate store, so two goroutines calling Acquire at the same instant
// can never both observe themselves as the outer caller.
type Frontend struct {
	sec   *xsection.Section
	depth atomic.Int32
	token xsection.Token

	encoder  Encoder
	producer *ringbuf.Producer
	waiter   *waiter.Waiter
	sinks    []Sink
	log      *zap.SugaredLogger
}

// New constructs a Frontend. sinkPatterns selects, by glob match against
// each Sink's Name(), which configured sinks receive frames in addition to
// the persistent ring; pass ["*"] to route to all of them.
func New(producer *ringbuf.Producer, w *waiter.Waiter, encoder Encoder, sinks []Sink, sinkPatterns []string, log *zap.SugaredLogger) (*Frontend, error) {
	routed, err := routeSinks(sinks, sinkPatterns)
	if err != nil {
		return nil, err
	}

	return &Frontend{
		sec:      xsection.New(),
		encoder:  encoder,
		producer: producer,
		waiter:   w,
		sinks:    routed,
		log:      log,
	}, nil
}

// Acquire opens (or, if already open, re-enters) a log frame. It must be
// paired with exactly one Release.
func (f *Frontend) Acquire() {
	// fetch-add: whichever caller bumps depth 0→1 is the outer caller,
	// decided by the atomic op itself rather than a prior load, so a
	// second goroutine calling in at the same instant is guaranteed to
	// see a post-add value > 1 and take the nested path instead.
	if f.depth.Add(1) != 1 {
		return
	}

	f.token = f.sec.Acquire()
	if err := f.encoder.StartFrame(f.sinkFunc); err != nil {
		f.log.Warnw("frontend: start frame failed", "error", err)
	}
}

// Write encodes p into the currently open frame. Called while nested
// (depth > 1), it is silently dropped rather than corrupting the frame
// already in progress.
func (f *Frontend) Write(p []byte) {
	if f.depth.Load() != 1 {
		return
	}
	if err := f.encoder.Write(f.sinkFunc, p); err != nil {
		f.log.Warnw("frontend: encoder write failed", "error", err)
	}
}

// Flush is a hook for an encoder that buffers internally; COBSEncoder has
// nothing to flush early, so this is a no-op unless called while nested, in
// which case it is dropped like Write.
func (f *Frontend) Flush() {
	if f.depth.Load() != 1 {
		return
	}
}

// Release closes the innermost nesting level. On the outermost Release
// (depth 1→0) it closes the frame, wakes any registered waiter, and leaves
// the critical section.
func (f *Frontend) Release() {
	depth := f.depth.Add(-1)
	if depth < 0 {
		// Unbalanced call: a Release with no matching Acquire. Restore
		// the counter and ignore rather than leaving it permanently
		// negative, which would wedge every future Acquire as nested.
		f.depth.Add(1)
		return
	}
	if depth != 0 {
		return
	}

	if err := f.encoder.EndFrame(f.sinkFunc); err != nil {
		f.log.Warnw("frontend: end frame failed", "error", err)
	}
	f.waiter.Wake()
	f.sec.Release(f.token)
}

// sinkFunc is handed to the encoder: every chunk of framed output is
// appended to the persistent ring and routed to every matching live sink.
func (f *Frontend) sinkFunc(b []byte) {
	f.producer.Append(b)

	for _, s := range f.sinks {
		if err := s.Write(b); err != nil {
			f.log.Warnw("frontend: sink write failed", "sink", s.Name(), "error", err)
		}
	}
}
