package hostmem

import (
	"path/filepath"
	"testing"

	"github.com/c2h5oh/datasize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesAndZeroFills(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.bin")

	r, err := Open(path, 4*datasize.KB)
	require.NoError(t, err)
	defer r.Close()

	mem := r.Bytes()
	require.Len(t, mem, 4096)
	for _, b := range mem {
		require.Equal(t, byte(0), b)
	}
}

func TestOpenSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.bin")

	r1, err := Open(path, 4*datasize.KB)
	require.NoError(t, err)
	r1.Bytes()[0] = 0xAB
	r1.Bytes()[4095] = 0xCD
	require.NoError(t, r1.Sync())
	require.NoError(t, r1.Close())

	r2, err := Open(path, 4*datasize.KB)
	require.NoError(t, err)
	defer r2.Close()

	assert.Equal(t, byte(0xAB), r2.Bytes()[0])
	assert.Equal(t, byte(0xCD), r2.Bytes()[4095])
}

func TestOpenRejectsSizeMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.bin")

	r1, err := Open(path, 4*datasize.KB)
	require.NoError(t, err)
	require.NoError(t, r1.Close())

	_, err = Open(path, 8*datasize.KB)
	assert.Error(t, err)
}
