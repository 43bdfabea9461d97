//go:build !ecc32 && !ecc64

package ringbuf

// Plain layout: header | identifier | read | write | data.
//
// No ECC quirk to work around, so no flush cells and no special alignment
// beyond what lets the header be read as two 64-bit words.
const variantName = "plain"

var current = layout{
	magicLo: 0xcbc1_502c_09c1_fd6e,
	magicHi: 0xb528_c25f_90c6_16af,

	headerSize:  40,
	regionAlign: 8,

	identifierOff: 16,
	readOff:       32,
	writeOff:      36,
}

// eccFlush is a no-op for the plain layout: nothing needs to be forced to
// commit because there is no ECC write-cache to flush.
func eccFlush(mem []byte, field Field) {}
