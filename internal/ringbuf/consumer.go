package ringbuf

import (
	"errors"
	"sync/atomic"
)

// ErrGrantOutstanding is returned by Read when a previously returned Grant
// has not yet been released or discarded. A careless port of the Rust
// GrantR (which is consumed by value, making a double grant a compile
// error) would reach for a panic here; returning an error instead lets a
// caller recover and keeps the consumer side usable from code that cannot
// structurally guarantee single ownership the way Rust's borrow checker
// does.
var ErrGrantOutstanding = errors.New("ringbuf: a grant is already outstanding")

// Consumer is the exclusive read-side handle to a Region.
type Consumer struct {
	region      *Region
	outstanding atomic.Bool
}

// IsEmpty reports whether the ring currently holds no unread bytes.
func (c *Consumer) IsEmpty() bool {
	read := c.region.readIndexPtr().Load()
	write := c.region.writeIndexPtr().Load()
	return read == write
}

// Identifier returns the identifier currently stamped on the region.
func (c *Consumer) Identifier() Identifier {
	return c.region.loadIdentifier()
}

// Read grants read-only access to the currently available bytes. The
// returned Grant must be released (Release, ReleaseAll) or abandoned
// (Discard) before the next call to Read; until then Read returns
// ErrGrantOutstanding.
//
// The grant is two slices rather than one because the available bytes may
// wrap around the end of the data area; Bufs returns both in read order.
func (c *Consumer) Read() (*Grant, error) {
	if !c.outstanding.CompareAndSwap(false, true) {
		return nil, ErrGrantOutstanding
	}

	region := c.region
	dataLen := uint32(region.dataLen)
	read := region.readIndexPtr().Load()
	// write is owned by the producer; acquire orders this load after the
	// producer's release-store of write.
	write := region.writeIndexPtr().Load()

	data := region.data()
	var a, b []byte
	if write >= read {
		a = data[read:write]
	} else {
		a = data[read:dataLen]
		b = data[0:write]
	}

	return &Grant{consumer: c, a: a, b: b}, nil
}

// Grant is a transient, exclusive view of the consumer's readable region.
// It must be released or discarded exactly once.
type Grant struct {
	consumer *Consumer
	a, b     []byte
	done     bool
}

// Bufs returns the granted bytes as up to two slices in read order. The
// second slice is non-empty only when the readable range wraps the end of
// the data area.
func (g *Grant) Bufs() ([]byte, []byte) {
	return g.a, g.b
}

// Len returns the total number of granted bytes across both slices.
func (g *Grant) Len() int {
	return len(g.a) + len(g.b)
}

// Release advances the read index past the first n granted bytes and ends
// the grant. An n larger than Len() is clamped to Len() and is deliberately
// not an error — see ReleaseAll. A negative n is an error and leaves the
// grant outstanding.
func (g *Grant) Release(n int) error {
	if g.done {
		return errors.New("ringbuf: grant already released")
	}
	if n < 0 {
		return errors.New("ringbuf: release amount out of range")
	}
	if n > g.Len() {
		n = g.Len()
	}

	region := g.consumer.region
	dataLen := uint32(region.dataLen)
	read := region.readIndexPtr().Load()
	newRead := (read + uint32(n)) % dataLen
	region.readIndexPtr().Store(newRead)
	eccFlush(region.mem, FieldRead)

	g.done = true
	g.consumer.outstanding.Store(false)
	return nil
}

// ReleaseAll releases the entire grant.
func (g *Grant) ReleaseAll() error {
	return g.Release(g.Len())
}

// Discard ends the grant without advancing the read index, leaving the
// bytes available for the next Read.
func (g *Grant) Discard() error {
	if g.done {
		return errors.New("ringbuf: grant already released")
	}
	g.done = true
	g.consumer.outstanding.Store(false)
	return nil
}
