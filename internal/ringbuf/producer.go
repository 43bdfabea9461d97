package ringbuf

import "sync/atomic"

// Producer is the exclusive write-side handle to a Region. A process must
// never construct more than one: Recover hands out exactly one Producer and
// one Consumer per region, and nothing in this package re-derives another
// from the same mem.
type Producer struct {
	region *Region

	// dropped counts bytes that Append could not fit and silently discarded:
	// the "how much did we lose" counter a firmware log sink needs to report
	// back upstream (e.g. as a dropped-bytes watermark in the next flushed
	// frame).
	dropped atomic.Uint64
}

// Append copies as much of data as currently fits into the ring and returns
// the number of bytes written. If the ring is full, or data is longer than
// the available space, the remainder is dropped — Append never blocks and
// never waits for the consumer: a producer must never be made to wait on a
// consumer.
func (p *Producer) Append(data []byte) int {
	if len(data) == 0 {
		return 0
	}

	region := p.region
	dataLen := uint32(region.dataLen)

	// read is owned by the consumer; acquire orders this load after any
	// index store the consumer issued with release semantics.
	read := region.readIndexPtr().Load()
	// write is owned by the producer; relaxed is enough since no other
	// goroutine ever writes it.
	write := region.writeIndexPtr().Load()

	var used uint32
	if write >= read {
		used = write - read
	} else {
		used = dataLen - read + write
	}
	avail := dataLen - 1 - used

	n := uint32(len(data))
	if n > avail {
		n = avail
	}
	if n < uint32(len(data)) {
		p.dropped.Add(uint64(len(data)) - uint64(n))
	}
	if n == 0 {
		return 0
	}

	dst := region.data()
	firstLen := n
	if room := dataLen - write; room < firstLen {
		firstLen = room
	}
	copy(dst[write:write+firstLen], data[:firstLen])
	if n > firstLen {
		copy(dst[0:n-firstLen], data[firstLen:n])
	}

	// Flush before advancing the index: forces commit of whatever ECC word
	// the tail of the copy just landed in, so a reset between here and the
	// index store can never observe a committed write index pointing past
	// uncommitted data.
	eccFlush(region.mem, FieldWrite)

	newWrite := (write + n) % dataLen
	region.writeIndexPtr().Store(newWrite)
	eccFlush(region.mem, FieldWrite)

	return int(n)
}

// LastDropped returns the cumulative number of bytes Append has discarded
// for lack of room, since the region was last recovered.
func (p *Producer) LastDropped() uint64 {
	return p.dropped.Load()
}
