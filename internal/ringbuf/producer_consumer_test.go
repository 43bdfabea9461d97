package ringbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recoverFresh builds a fresh region with the given data_len and splits it
// (capacity data_len-1, since one slot always stays empty).
func recoverFresh(t *testing.T, dataLen int) (*Producer, *Consumer, *Region) {
	t.Helper()
	mem := make([]byte, current.headerSize+dataLen)
	p, c, outcome, _, err := Recover(mem, func(Identifier) Identifier { return Identifier{} })
	require.NoError(t, err)
	require.Equal(t, OutcomeFresh, outcome)
	return p, c, c.region
}

func TestScenario1_FreshAppendReadRelease(t *testing.T) {
	p, c, _ := recoverFresh(t, 4)

	n := p.Append([]byte{1, 2, 3})
	assert.Equal(t, 3, n)

	g, err := c.Read()
	require.NoError(t, err)
	a, b := g.Bufs()
	assert.Equal(t, []byte{1, 2, 3}, a)
	assert.Empty(t, b)

	require.NoError(t, g.Release(3))

	g2, err := c.Read()
	require.NoError(t, err)
	a2, b2 := g2.Bufs()
	assert.Empty(t, a2)
	assert.Empty(t, b2)
}

func TestScenario2_WrapAroundRelease(t *testing.T) {
	p, c, region := recoverFresh(t, 4)

	region.readIndexPtr().Store(2)
	region.writeIndexPtr().Store(2)

	n := p.Append([]byte{1, 2, 3})
	assert.Equal(t, 3, n)

	g, err := c.Read()
	require.NoError(t, err)
	a, b := g.Bufs()
	assert.Equal(t, []byte{1, 2}, a)
	assert.Equal(t, []byte{3}, b)

	require.NoError(t, g.Release(2))

	g2, err := c.Read()
	require.NoError(t, err)
	a2, b2 := g2.Bufs()
	assert.Equal(t, []byte{3}, a2)
	assert.Empty(t, b2)

	require.NoError(t, g2.Release(1))
	assert.True(t, c.IsEmpty())
}

func TestScenario3_OverflowDiscardsTail(t *testing.T) {
	p, c, _ := recoverFresh(t, 4)

	n := p.Append([]byte{1, 2, 3, 4, 5, 6, 7})
	assert.Equal(t, 3, n)
	assert.Equal(t, uint64(4), p.LastDropped())

	g, err := c.Read()
	require.NoError(t, err)
	a, b := g.Bufs()
	assert.Equal(t, []byte{1, 2, 3}, a)
	assert.Empty(t, b)
}

func TestAppendZeroLengthIsNoop(t *testing.T) {
	p, _, _ := recoverFresh(t, 4)
	assert.Equal(t, 0, p.Append(nil))
	assert.Equal(t, uint64(0), p.LastDropped())
}

func TestAppendFullRing(t *testing.T) {
	p, c, _ := recoverFresh(t, 4)

	n := p.Append([]byte{1, 2, 3})
	require.Equal(t, 3, n)

	// Ring is now full (capacity == data_len-1); a further append drops
	// everything until the consumer releases some bytes.
	n = p.Append([]byte{9})
	assert.Equal(t, 0, n)
	assert.Equal(t, uint64(1), p.LastDropped())

	g, err := c.Read()
	require.NoError(t, err)
	require.NoError(t, g.Release(1))

	n = p.Append([]byte{9})
	assert.Equal(t, 1, n)
}

func TestGrantOutstandingUntilReleased(t *testing.T) {
	p, c, _ := recoverFresh(t, 4)
	p.Append([]byte{1})

	g, err := c.Read()
	require.NoError(t, err)

	_, err = c.Read()
	assert.ErrorIs(t, err, ErrGrantOutstanding)

	require.NoError(t, g.ReleaseAll())

	_, err = c.Read()
	assert.NoError(t, err)
}

func TestGrantDiscardLeavesReadUnchanged(t *testing.T) {
	p, c, region := recoverFresh(t, 4)
	p.Append([]byte{1, 2})

	before := region.readIndexPtr().Load()

	g, err := c.Read()
	require.NoError(t, err)
	require.NoError(t, g.Discard())

	assert.Equal(t, before, region.readIndexPtr().Load())

	// A fresh Read after Discard sees the same bytes again.
	g2, err := c.Read()
	require.NoError(t, err)
	a, _ := g2.Bufs()
	assert.Equal(t, []byte{1, 2}, a)
}

func TestGrantDoubleReleaseErrors(t *testing.T) {
	p, c, _ := recoverFresh(t, 4)
	p.Append([]byte{1})

	g, err := c.Read()
	require.NoError(t, err)
	require.NoError(t, g.ReleaseAll())
	assert.Error(t, g.ReleaseAll())
}

func TestReleaseClampsPastLen(t *testing.T) {
	p, c, _ := recoverFresh(t, 4)
	p.Append([]byte{1, 2})

	g, err := c.Read()
	require.NoError(t, err)
	require.NoError(t, g.Release(1000))
	assert.True(t, c.IsEmpty())
}

func TestWrapSliceLengthsSumToReadable(t *testing.T) {
	p, c, region := recoverFresh(t, 8)

	region.readIndexPtr().Store(6)
	region.writeIndexPtr().Store(6)
	n := p.Append([]byte{1, 2, 3, 4, 5})
	require.Equal(t, 5, n)

	g, err := c.Read()
	require.NoError(t, err)
	a, b := g.Bufs()

	dataLen := uint32(region.DataLen())
	read := uint32(6)
	write := region.writeIndexPtr().Load()
	readable := (write - read + dataLen) % dataLen
	assert.Equal(t, int(readable), len(a)+len(b))
}
