package ringbuf

import "sync/atomic"

// fenceWord backs the full-fence emulation below. It is never meaningfully
// read; only ever CAS'd against itself.
var fenceWord atomic.Uint64

// fullFence emulates a full (SeqCst) fence. Go's memory model does not
// expose a standalone fence primitive the way core::sync::atomic::fence
// does; a CompareAndSwap that always succeeds is the idiomatic workaround —
// it carries full sequential-consistency semantics as an atomic
// read-modify-write, without depending on the specific value involved. Used
// at the points recovery brackets its mutation of the header/indices with a
// full fence.
func fullFence() {
	v := fenceWord.Load()
	fenceWord.CompareAndSwap(v, v)
}
