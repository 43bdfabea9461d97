package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeFrame(t *testing.T, data []byte) []byte {
	t.Helper()
	e := NewCOBSEncoder()
	require.NoError(t, e.StartFrame(nil))

	var out []byte
	sink := func(b []byte) { out = append(out, b...) }

	require.NoError(t, e.Write(sink, data))
	require.NoError(t, e.EndFrame(sink))
	return out
}

func TestCOBSRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{1, 2, 3},
		{0},
		{1, 0, 2},
		{0, 0, 0},
		[]byte("the quick brown fox"),
	}

	for _, data := range cases {
		frame := encodeFrame(t, data)
		require.NotEmpty(t, frame)
		require.Equal(t, byte(0), frame[len(frame)-1], "frame must end in the delimiter")

		decoded := DecodeCOBS(frame[:len(frame)-1])
		assert.Equal(t, data, decoded)
	}
}

func TestCOBSEncodedPayloadHasNoZeroBytesExceptDelimiter(t *testing.T) {
	data := []byte{1, 0, 2, 0, 0, 3}
	frame := encodeFrame(t, data)

	for i, b := range frame[:len(frame)-1] {
		assert.NotZero(t, b, "byte %d of the encoded payload must not be zero", i)
	}
	assert.Equal(t, byte(0), frame[len(frame)-1])
}

func TestCOBSLongRunOfNonZeroBytes(t *testing.T) {
	data := make([]byte, 400)
	for i := range data {
		data[i] = byte(i%254 + 1)
	}

	frame := encodeFrame(t, data)
	decoded := DecodeCOBS(frame[:len(frame)-1])
	assert.Equal(t, data, decoded)
}
