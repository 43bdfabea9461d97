package ringbuf

import (
	"sync/atomic"
	"unsafe"
)

// ptrAt returns an unsafe.Pointer into mem at the given byte offset. All
// typed accessors below go through this single choke point: the region is
// outside the Go abstract machine on first boot (it may carry bytes from a
// previous process), so every field access is raw pointer arithmetic over
// the backing array rather than a normal Go value read, matching the
// interior-mutability-by-raw-pointer discipline the persisted layout
// requires.
func ptrAt(mem []byte, off int) unsafe.Pointer {
	return unsafe.Pointer(&mem[off])
}

// Region is a typed view over a raw byte range holding a Persist Region of
// the compiled-in layout variant. It owns no memory itself — mem is supplied
// by the caller (a host-backed mapping, or a plain slice in tests) and must
// outlive the Region.
type Region struct {
	mem     []byte
	dataOff int
	dataLen int
}

// NewRegion validates the geometry of mem against the compiled-in layout
// variant and, if valid, returns a Region over it. It does not
// touch the contents of mem.
func NewRegion(mem []byte) (*Region, error) {
	base := uintptr(unsafe.Pointer(&mem[0]))
	if base%uintptr(current.regionAlign) != 0 {
		return nil, ErrBadAlignment
	}
	if len(mem) <= current.headerSize {
		return nil, ErrTooSmall
	}

	dataLen := len(mem) - current.headerSize
	if dataLen >= maxDataLen {
		return nil, ErrTooLarge
	}

	if variantName == "ecc64" {
		end := base + uintptr(len(mem))
		if end%8 != 0 {
			return nil, ErrBadAlignment
		}
	}

	return &Region{
		mem:     mem,
		dataOff: current.headerSize,
		dataLen: dataLen,
	}, nil
}

// DataLen returns the number of bytes in the data area (capacity is
// DataLen()-1, per the ring invariant that one slot always stays empty).
func (r *Region) DataLen() int {
	return r.dataLen
}

// data returns the raw data-area slice. Byte-level access within it is
// governed entirely by the SPSC ownership discipline in producer.go /
// consumer.go, never by a mutex.
func (r *Region) data() []byte {
	return r.mem[r.dataOff : r.dataOff+r.dataLen]
}

// headerVolatileLoad reads the 128-bit header as two 64-bit atomic loads.
// Go has no 128-bit atomic and no volatile keyword; atomic loads are the
// closest equivalent and, combined with the full fences bracketing recovery,
// give the same "not elided, not reordered across the fence" guarantee the
// spec asks of a volatile read.
func (r *Region) headerVolatileLoad() (lo, hi uint64) {
	lo = (*atomic.Uint64)(ptrAt(r.mem, 0)).Load()
	hi = (*atomic.Uint64)(ptrAt(r.mem, 8)).Load()
	return lo, hi
}

func (r *Region) headerIsMagic() bool {
	lo, hi := r.headerVolatileLoad()
	return lo == current.magicLo && hi == current.magicHi
}

// headerVolatileStore stamps the header with MAGIC, marking the region
// initialized. This happens last in the fresh path, after
// read/write have already been zeroed and a full fence issued.
func (r *Region) headerVolatileStore() {
	(*atomic.Uint64)(ptrAt(r.mem, 0)).Store(current.magicLo)
	(*atomic.Uint64)(ptrAt(r.mem, 8)).Store(current.magicHi)
	eccFlush(r.mem, FieldHeader)
}

// identifierBytes returns the raw 16-byte identifier slot.
func (r *Region) identifierBytes() []byte {
	return r.mem[current.identifierOff : current.identifierOff+IdentifierSize]
}

func (r *Region) loadIdentifier() Identifier {
	var id Identifier
	copy(id[:], r.identifierBytes())
	return id
}

func (r *Region) storeIdentifier(id Identifier) {
	copy(r.identifierBytes(), id[:])
	eccFlush(r.mem, FieldIdentifier)
}

func (r *Region) readIndexPtr() *atomic.Uint32 {
	return (*atomic.Uint32)(ptrAt(r.mem, current.readOff))
}

func (r *Region) writeIndexPtr() *atomic.Uint32 {
	return (*atomic.Uint32)(ptrAt(r.mem, current.writeOff))
}
