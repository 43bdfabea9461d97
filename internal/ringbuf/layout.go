// Package ringbuf implements the persistent, reset-resilient single-producer /
// single-consumer byte ring buffer sited on a fixed memory region.
//
// The region is accessed through raw pointer arithmetic over a backing
// []byte (see [Region]), exactly as the C-compatible layout is accessed from
// raw memory in the systems this is ported from: a typed view for the
// header/indices, and owner-driven discipline instead of a mutex for the
// data area.
package ringbuf

import "fmt"

// IndexSize is the width in bytes of the read and write index fields.
const IndexSize = 4

// IdentifierSize is the width in bytes of the opaque identifier tag.
const IdentifierSize = 16

// Identifier is a 16-byte opaque tag versioning the contents of a region
// across firmware builds. The zero Identifier is what a never-before-used
// region reads back as its recovered identifier.
type Identifier [IdentifierSize]byte

// layout describes the compile-time-selected field geometry of a Persist
// Region variant. Exactly one implementation is compiled in, chosen by the
// ecc32/ecc64 build tags (see layout_plain.go, layout_ecc32.go,
// layout_ecc64.go) — switching variants is a reflash event, not a runtime
// choice, so each variant picks its own MAGIC and the others are simply not
// compiled.
type layout struct {
	// magic is the 128-bit sentinel (as two 64-bit halves) distinguishing an
	// initialized region of this variant from a fresh one, and from the
	// other variants.
	magicLo, magicHi uint64

	// headerSize is the total size, in bytes, of everything before the data
	// area: header + identifier + indices + any ECC padding.
	headerSize int

	// regionAlign is the alignment required of both the start and the end of
	// the region.
	regionAlign int

	// identifierOff, readOff, writeOff are byte offsets from the region base.
	identifierOff int
	readOff       int
	writeOff      int
}

// Offsets exported for test tooling (corruption injection).
const (
	OffsetHeader = 0
)

// Variant-exported offsets and the compiled-in variant's name, read by
// cmd/ringtool corrupt to target the right bytes without duplicating the
// layout logic.
func CompiledLayout() (name string, headerOff, identifierOff, readOff, writeOff, headerSize int) {
	l := current
	return variantName, OffsetHeader, l.identifierOff, l.readOff, l.writeOff, l.headerSize
}

// ErrTooSmall and friends mirror the init entry point error kinds; defined
// here because layout validation is the first thing Recover does.
var (
	ErrBadAlignment = fmt.Errorf("ringbuf: region base or end not aligned to %d bytes", current.regionAlign)
	ErrTooSmall     = fmt.Errorf("ringbuf: region length must exceed header size (%d bytes)", current.headerSize)
	ErrTooLarge     = fmt.Errorf("ringbuf: data length must be less than 2^30 bytes")
)

// maxDataLen keeps all index arithmetic inside signed 32-bit range.
const maxDataLen = 1 << 30

// Field identifies which part of the region was just written, so the
// variant-specific eccFlush can decide which (if any) flush cell to touch.
type Field int

const (
	FieldHeader Field = iota
	FieldIdentifier
	FieldRead
	FieldWrite
)
