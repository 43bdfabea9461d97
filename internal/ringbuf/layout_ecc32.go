//go:build ecc32

package ringbuf

import "sync/atomic"

// ECC-32 layout: header | identifier | read | write | flush | data.
//
// `flush` is a single-byte cell living in its own 32-bit word, distinct from
// the header/identifier/read/write words. An unaligned volatile write to it
// forces the ECC engine to commit whatever partial word was written
// immediately before — see eccFlush.
const variantName = "ecc32"

var current = layout{
	magicLo: 0x1019_6bda_2f5e_7ac3,
	magicHi: 0x7e0a_44b1_9c5d_3f82,

	headerSize:  44,
	regionAlign: 8,

	identifierOff: 16,
	readOff:       32,
	writeOff:      36,
}

// flushOff is the byte offset of the single-byte flush cell. It lies in the
// 32-bit word [40,44), disjoint from the header (words covering [0,32)) and
// from read/write (words [32,36) and [36,40)).
const flushOff = 40

// eccFlush performs the volatile write that commits the ECC write-cache,
// after every index or header write (per the ECC-32 flush discipline). The
// value stored is irrelevant; only the write itself matters. It is an
// atomic store (rather than the single unaligned byte write the hardware
// actually needs) so that concurrent producer and consumer flushes of this
// shared cell stay well-defined under the Go memory model.
func eccFlush(mem []byte, field Field) {
	(*atomic.Uint32)(ptrAt(mem, flushOff&^3)).Store(1)
}
