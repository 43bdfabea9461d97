package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/korken89/defmt-persist/internal/frontend"
	"github.com/korken89/defmt-persist/internal/hostmem"
	"github.com/korken89/defmt-persist/internal/logging"
	"github.com/korken89/defmt-persist/internal/ringbuf"
)

// followPollInterval is how often --follow checks a followed region for
// new data. A waiter.Waiter cannot serve this: it is a single in-process
// slot, and the writer appending to the region is a separate firmware
// process (or, on a host simulator, a separate process entirely) that
// holds no reference to this process's Waiter, so it has no way to wake
// it. Polling the region's indices is the only mechanism that works across
// that process boundary.
const followPollInterval = 100 * time.Millisecond

func newReplayCmd() *cobra.Command {
	var follow bool
	var logLevel string

	cmd := &cobra.Command{
		Use:   "replay <region-file>",
		Short: "Recover a region and print its frames, optionally following new ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runReplay(args[0], follow, logLevel)
		},
	}

	cmd.Flags().BoolVar(&follow, "follow", false, "keep the process alive and poll for newly appended frames")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level for --follow diagnostics (debug|info|warn|error); SIGUSR1 toggles debug at runtime")
	return cmd
}

func runReplay(path string, follow bool, logLevel string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("ringtool replay: stat %q: %w", path, err)
	}

	region, err := hostmem.Open(path, datasize.ByteSize(info.Size()))
	if err != nil {
		return fmt.Errorf("ringtool replay: %w", err)
	}
	defer region.Close()

	_, consumer, _, _, err := ringbuf.Recover(region.Bytes(), func(id ringbuf.Identifier) ringbuf.Identifier {
		return id // replaying attaches as a reader; it does not claim a new build identity
	})
	if err != nil {
		return fmt.Errorf("ringtool replay: %w", err)
	}

	if err := drainOnce(consumer); err != nil {
		return err
	}
	if !follow {
		return nil
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("ringtool replay: --log-level %q: %w", logLevel, err)
	}
	log, _, stopVerbosityToggle, err := logging.Init(level)
	if err != nil {
		return fmt.Errorf("ringtool replay: %w", err)
	}
	defer stopVerbosityToggle()
	defer log.Sync()

	ctx := context.Background()
	wg, ctx := errgroup.WithContext(ctx)

	wg.Go(func() error {
		ticker := time.NewTicker(followPollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if consumer.IsEmpty() {
					continue
				}
				if err := drainOnce(consumer); err != nil {
					return err
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})
	wg.Go(func() error {
		err := waitInterrupted(ctx)
		log.Infof("%v", err)
		return err
	})

	err = wg.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func drainOnce(consumer *ringbuf.Consumer) error {
	grant, err := consumer.Read()
	if err != nil {
		return fmt.Errorf("ringtool replay: %w", err)
	}
	defer grant.Discard()

	a, b := grant.Bufs()
	full := append(append([]byte{}, a...), b...)
	for i, frame := range splitFrames(full) {
		decoded := frontend.DecodeCOBS(frame)
		text, _ := renderWide(decoded)
		fmt.Printf("frame %d: %s\n", i, text)
	}
	return grant.ReleaseAll()
}

// waitInterrupted blocks until SIGINT/SIGTERM or ctx is canceled,
// returning ctx.Err() in the latter case so the caller can tell a clean
// shutdown request from the interrupt that triggered it.
func waitInterrupted(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		return fmt.Errorf("ringtool replay: caught signal: %v", sig)
	case <-ctx.Done():
		return ctx.Err()
	}
}
