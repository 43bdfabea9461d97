// Package hostmem is the host-testable stand-in for a linker-reserved
// on-chip RAM range excluded from bss/data initialization: it mmaps (or
// creates) a file of a fixed size, giving internal/ringbuf a []byte that
// survives process restart the same way persisted RAM survives a
// microcontroller reset.
package hostmem

import (
	"fmt"
	"os"

	"github.com/c2h5oh/datasize"
	"golang.org/x/sys/unix"
)

// Region is a memory-mapped, file-backed byte range. Its contents persist
// across process restarts as long as the backing file is not removed.
type Region struct {
	mem  []byte
	file *os.File
}

// Open mmaps size bytes backed by the file at path, creating and
// zero-extending it on first use. A size mismatch against an existing file
// is an error: silently truncating or growing a region that may already
// carry a persisted ring would violate the "never misrepresent the region"
// guarantee the rest of this package relies on.
func Open(path string, size datasize.ByteSize) (*Region, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("hostmem: open %q: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("hostmem: stat %q: %w", path, err)
	}

	want := int64(size.Bytes())
	switch {
	case info.Size() == 0:
		if err := f.Truncate(want); err != nil {
			f.Close()
			return nil, fmt.Errorf("hostmem: truncate %q to %s: %w", path, size, err)
		}
	case info.Size() != want:
		f.Close()
		return nil, fmt.Errorf("hostmem: %q is %d bytes, expected %s", path, info.Size(), size)
	}

	mem, err := unix.Mmap(int(f.Fd()), 0, int(want), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("hostmem: mmap %q: %w", path, err)
	}

	return &Region{mem: mem, file: f}, nil
}

// Bytes returns the mapped region as a []byte. Writes through it are
// visible to any other process mapping the same file once Sync is called
// (or, eventually, once the kernel flushes the mapping on its own).
func (r *Region) Bytes() []byte {
	return r.mem
}

// Sync forces the mapping's dirty pages out to the backing file, the host
// analogue of a reset that preserves RAM contents: without it, a killed
// process may lose writes the kernel hadn't yet flushed.
func (r *Region) Sync() error {
	if err := unix.Msync(r.mem, unix.MS_SYNC); err != nil {
		return fmt.Errorf("hostmem: msync: %w", err)
	}
	return nil
}

// Close unmaps the region and closes the backing file. The file itself is
// left in place so a later Open recovers its contents.
func (r *Region) Close() error {
	if err := unix.Munmap(r.mem); err != nil {
		r.file.Close()
		return fmt.Errorf("hostmem: munmap: %w", err)
	}
	return r.file.Close()
}
