package ringbuf

// Snapshot is a read-only view of a region's header, identifier, indices
// and data, taken without running recovery's repair path. It exists for
// tooling (cmd/ringtool) that wants to report what a region holds without
// mutating it the way Recover always does.
type Snapshot struct {
	HeaderValid bool
	Identifier  Identifier
	Read, Write uint32
	DataLen     uint32
	Data        []byte
}

// Inspect validates mem's geometry and reads its header, identifier and
// indices back without touching them.
func Inspect(mem []byte) (*Snapshot, error) {
	region, err := NewRegion(mem)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		HeaderValid: region.headerIsMagic(),
		Identifier:  region.loadIdentifier(),
		Read:        region.readIndexPtr().Load(),
		Write:       region.writeIndexPtr().Load(),
		DataLen:     uint32(region.dataLen),
		Data:        region.data(),
	}, nil
}

// Bytes returns the readable bytes implied by Read/Write, in read order,
// as up to two slices. If either index is out of range (an unrepaired
// region), both returned slices are nil: only Recover's repair path
// assigns meaning to an out-of-range index.
func (s *Snapshot) Bytes() ([]byte, []byte) {
	if s.Read >= s.DataLen || s.Write >= s.DataLen {
		return nil, nil
	}
	if s.Write >= s.Read {
		return s.Data[s.Read:s.Write], nil
	}
	return s.Data[s.Read:s.DataLen], s.Data[0:s.Write]
}
