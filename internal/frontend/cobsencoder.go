package frontend

// COBSEncoder is a reference Encoder implementation: Consistent Overhead
// Byte Stuffing framing with a zero-byte delimiter (leading placeholder code
// byte, byte-stuffed payload, trailing zero delimiter). It stands in for the
// external framing encoder a real firmware image would supply.
type COBSEncoder struct {
	out     []byte
	codeIdx int
	code    byte
}

// NewCOBSEncoder returns a ready-to-use COBSEncoder.
func NewCOBSEncoder() *COBSEncoder {
	return &COBSEncoder{}
}

func (e *COBSEncoder) StartFrame(sink func([]byte)) error {
	e.out = e.out[:0]
	e.out = append(e.out, 0) // placeholder for the first code byte
	e.codeIdx = 0
	e.code = 1
	return nil
}

func (e *COBSEncoder) Write(sink func([]byte), p []byte) error {
	for _, b := range p {
		if b == 0 {
			e.out[e.codeIdx] = e.code
			e.codeIdx = len(e.out)
			e.out = append(e.out, 0)
			e.code = 1
			continue
		}

		e.out = append(e.out, b)
		e.code++
		if e.code == 0xFF {
			e.out[e.codeIdx] = e.code
			e.codeIdx = len(e.out)
			e.out = append(e.out, 0)
			e.code = 1
		}
	}
	return nil
}

func (e *COBSEncoder) EndFrame(sink func([]byte)) error {
	e.out[e.codeIdx] = e.code
	sink(e.out)
	sink([]byte{0x00})
	return nil
}

// DecodeCOBS reverses COBSEncoder's framing over a single delimited frame
// (the trailing 0x00 already stripped by the caller). Used by the host
// decoder (cmd/ringtool dump).
func DecodeCOBS(frame []byte) []byte {
	out := make([]byte, 0, len(frame))

	i := 0
	for i < len(frame) {
		code := int(frame[i])
		i++

		for j := 1; j < code && i < len(frame); j++ {
			out = append(out, frame[i])
			i++
		}

		if code != 0xFF && i != len(frame) {
			out = append(out, 0)
		}
	}

	return out
}
