package waiter

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korken89/defmt-persist/internal/xsection"
)

type chanWaker chan struct{}

func (c chanWaker) Wake() { close(c) }

func TestWakeWithNoRegistrationIsNoop(t *testing.T) {
	w := New(xsection.New())
	assert.NotPanics(t, func() { w.Wake() })
}

func TestRegisterThenWake(t *testing.T) {
	w := New(xsection.New())
	ch := make(chanWaker)
	w.Register(ch)

	w.Wake()

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("waker was not woken")
	}
}

func TestRegisterReplacesPriorWaker(t *testing.T) {
	w := New(xsection.New())
	first := make(chanWaker)
	second := make(chanWaker)

	w.Register(first)
	w.Register(second)
	w.Wake()

	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("second waker was not woken")
	}

	select {
	case <-first:
		t.Fatal("first waker should never be woken after being replaced")
	default:
	}
}

func TestWakeIsAtMostOncePerRegistration(t *testing.T) {
	w := New(xsection.New())
	var wakes atomic.Int64
	w.Register(funcWaker(func() { wakes.Add(1) }))

	w.Wake()
	w.Wake()

	require.Equal(t, int64(1), wakes.Load())
}

type funcWaker func()

func (f funcWaker) Wake() { f() }
