// Package transport provides frontend.Sink implementations for the
// physical transports a firmware build forwards log frames over in
// addition to the persistent ring: UART, RTT, and host stdio for
// semihosting. A transport's underlying device write can fail transiently
// (a full UART FIFO, a disconnected debug probe); rather than block the
// frontend's critical section retrying in place, each sink spawns its
// retry onto a background worker and returns to the caller immediately,
// dropping the frame if the retry budget is exhausted.
package transport

import (
	"context"
	"io"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Writer is the underlying device handle a sink retries writes against:
// a serial port, an RTT channel, or os.Stdout for the host build.
type Writer interface {
	io.Writer
}

// DeviceSink adapts a Writer to frontend.Sink, retrying a failed Write
// with exponential backoff on a background goroutine so a momentarily
// stalled transport never blocks the caller.
type DeviceSink struct {
	name   string
	w      Writer
	log    *zap.SugaredLogger
	maxAge time.Duration
}

// NewDeviceSink wraps w as a named Sink. maxAge bounds how long a single
// frame's retries may run before it is dropped; zero means
// backoff.DefaultMaxElapsedTime.
func NewDeviceSink(name string, w Writer, log *zap.SugaredLogger, maxAge time.Duration) *DeviceSink {
	return &DeviceSink{name: name, w: w, log: log, maxAge: maxAge}
}

func (s *DeviceSink) Name() string {
	return s.name
}

// Write hands p to the background retry loop and returns immediately: the
// frontend's critical section must never block on a slow or wedged
// transport.
func (s *DeviceSink) Write(p []byte) error {
	frame := append([]byte(nil), p...)
	go s.retryWrite(frame)
	return nil
}

func (s *DeviceSink) retryWrite(frame []byte) {
	ctx := context.Background()
	if s.maxAge > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.maxAge)
		defer cancel()
	}

	operation := func() (struct{}, error) {
		_, err := s.w.Write(frame)
		return struct{}{}, err
	}

	if _, err := backoff.Retry(ctx, operation, backoff.WithBackOff(backoff.NewExponentialBackOff())); err != nil {
		s.log.Warnw("transport: dropping frame after exhausting retries", "sink", s.name, "error", err)
	}
}

// UART returns a Sink named "uart" + suffix writing frames to w, matching
// the glob pattern a Config would use to route to every UART-like
// transport ("uart*").
func UART(suffix string, w Writer, log *zap.SugaredLogger) *DeviceSink {
	return NewDeviceSink("uart"+suffix, w, log, 5*time.Second)
}

// RTT returns a Sink named "rtt" + suffix writing frames to w. RTT probes
// reconnect faster than a UART cable, so its retry budget is shorter.
func RTT(suffix string, w Writer, log *zap.SugaredLogger) *DeviceSink {
	return NewDeviceSink("rtt"+suffix, w, log, time.Second)
}

// Stdio returns a Sink named "stdio" writing frames to w (typically
// os.Stdout), the semihosting-equivalent transport for the host
// simulator. Its maxAge is zero, so a failed write is retried under the
// default backoff budget (backoff.DefaultMaxElapsedTime) before the frame
// is dropped.
func Stdio(w Writer, log *zap.SugaredLogger) *DeviceSink {
	return NewDeviceSink("stdio", w, log, 0)
}

// Closer is a transport's underlying device handle, when closing it on
// shutdown matters (a serial port fd, an RTT session). DeviceSink itself
// has no Close: callers that built it around a Closer should close that
// handle directly, typically through CloseAll for several at once.
type Closer interface {
	Close() error
}

// CloseAll closes every non-nil closer and aggregates every failure into
// a single error via multierr, so one stuck transport does not hide
// another's close error during shutdown.
func CloseAll(closers ...Closer) error {
	var err error
	for _, c := range closers {
		if c == nil {
			continue
		}
		err = multierr.Append(err, c.Close())
	}
	return err
}
