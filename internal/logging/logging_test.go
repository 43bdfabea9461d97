package logging

import (
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitBuildsLoggerAtRequestedLevel(t *testing.T) {
	log, level, stop, err := Init(zapcore.WarnLevel)
	require.NoError(t, err)
	defer stop()

	require.NotNil(t, log)
	assert.Equal(t, zapcore.WarnLevel, level.Level())
}

func TestInitSIGUSR1TogglesAndRestoresLevel(t *testing.T) {
	_, level, stop, err := Init(zapcore.InfoLevel)
	require.NoError(t, err)
	defer stop()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))
	require.Eventually(t, func() bool {
		return level.Level() == zapcore.DebugLevel
	}, time.Second, time.Millisecond)

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))
	require.Eventually(t, func() bool {
		return level.Level() == zapcore.InfoLevel
	}, time.Second, time.Millisecond)
}

func TestStopStopsFurtherToggling(t *testing.T) {
	_, level, stop, err := Init(zapcore.InfoLevel)
	require.NoError(t, err)
	stop()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, zapcore.InfoLevel, level.Level(), "signal sent after stop must not toggle the level")
}
