package ringbuf

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korken89/defmt-persist/internal/waiter"
	"github.com/korken89/defmt-persist/internal/xsection"
)

func TestWaitForDataReturnsImmediatelyWhenNonEmpty(t *testing.T) {
	p, c, _ := recoverFresh(t, 8)
	p.Append([]byte("x"))

	w := waiter.New(xsection.New())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, c.WaitForData(ctx, w))
}

func TestWaitForDataWakesOnAppend(t *testing.T) {
	p, c, _ := recoverFresh(t, 8)
	w := waiter.New(xsection.New())

	done := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		done <- c.WaitForData(ctx, w)
	}()

	time.Sleep(20 * time.Millisecond)
	p.Append([]byte("y"))
	w.Wake()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("WaitForData did not return after Wake")
	}
}

func TestWaitForDataRespectsContextCancellation(t *testing.T) {
	_, c, _ := recoverFresh(t, 8)
	w := waiter.New(xsection.New())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := c.WaitForData(ctx, w)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
