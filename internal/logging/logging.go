// Package logging builds the process-wide structured logger: console-encoded,
// colorized when attached to a terminal, with a runtime-adjustable level.
//
// Unlike a restartable control-plane service, a host process sitting on a
// live Persist Region (ringtool replay --follow) cannot be bounced to pick
// up a verbosity change without interrupting its follow loop, so Init also
// starts a SIGUSR1 toggle: each signal flips the
// level between the configured base and debug, and the returned stop func
// tears the toggle down when the caller is done.
package logging

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// Init builds a *zap.SugaredLogger at the given base level and returns the
// zap.AtomicLevel backing it plus a stop func that must be called to
// release the SIGUSR1 toggle once the logger is no longer needed.
func Init(level zapcore.Level) (*zap.SugaredLogger, zap.AtomicLevel, func(), error) {
	encoderConfig := zap.NewDevelopmentEncoderConfig()

	if term.IsTerminal(int(os.Stderr.Fd())) {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := config.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, nil, fmt.Errorf("logging: build logger: %w", err)
	}

	stop := startVerbosityToggle(config.Level, level)
	return logger.Sugar(), config.Level, stop, nil
}

// startVerbosityToggle registers a SIGUSR1 handler that alternates level
// between base and zapcore.DebugLevel on each signal received, and returns
// a func that unregisters it. base is restored on every even-numbered
// signal, so an even number of `kill -USR1`s always leaves the base level.
func startVerbosityToggle(level zap.AtomicLevel, base zapcore.Level) func() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGUSR1)
	done := make(chan struct{})

	var debugging atomic.Bool
	go func() {
		for {
			select {
			case <-sigCh:
				if debugging.CompareAndSwap(false, true) {
					level.SetLevel(zapcore.DebugLevel)
				} else {
					debugging.Store(false)
					level.SetLevel(base)
				}
			case <-done:
				return
			}
		}
	}()

	var stopOnce sync.Once
	return func() {
		stopOnce.Do(func() {
			signal.Stop(sigCh)
			close(done)
		})
	}
}
