//go:build !linux

package xsection

import "sync"

// genericPlatform provides goroutine exclusion without signal masking on
// platforms where golang.org/x/sys/unix's Sigset_t layout isn't the simple
// word-indexed bitmask Sigprocmask wants (or isn't available at all).
type genericPlatform struct {
	mu sync.Mutex
}

func newPlatform() platform {
	return &genericPlatform{}
}

func (p *genericPlatform) acquire() (any, func(any)) {
	p.mu.Lock()
	return nil, func(any) { p.mu.Unlock() }
}
