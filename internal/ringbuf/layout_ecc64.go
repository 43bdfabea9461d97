//go:build ecc64

package ringbuf

import "sync/atomic"

// ECC-64 layout: header | identifier | read | pad | write | pad | data.
//
// read and write each get their own 64-bit ECC word; the pad slot
// immediately after each is what forces that word's commit. Data writes
// need no explicit flush: the subsequent write-index update lives in a
// distinct 64-bit word and implicitly commits the previous one.
const variantName = "ecc64"

var current = layout{
	magicLo: 0x4f1d_0a9c_7b3e_2d61,
	magicHi: 0x9c6a_2f08_e4b7_1a35,

	headerSize:  48,
	regionAlign: 8,

	identifierOff: 16,
	readOff:       32,
	writeOff:      40,
}

const (
	padReadOff  = 36
	padWriteOff = 44
)

// eccFlush writes the padding slot adjacent to whichever index was just
// written. Header and identifier writes are not followed by an explicit
// flush in this variant: they are each two full 64-bit words with nothing
// immediately after them in the same word, so a reset between writing them
// and the next commit simply leaves the header non-committed, which is safe
// — the region is then treated as fresh on the next boot.
func eccFlush(mem []byte, field Field) {
	switch field {
	case FieldRead:
		(*atomic.Uint32)(ptrAt(mem, padReadOff)).Store(1)
	case FieldWrite:
		(*atomic.Uint32)(ptrAt(mem, padWriteOff)).Store(1)
	}
}
