package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/c2h5oh/datasize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korken89/defmt-persist/internal/frontend"
	"github.com/korken89/defmt-persist/internal/hostmem"
	"github.com/korken89/defmt-persist/internal/ringbuf"
)

// captureStdout redirects os.Stdout for the duration of fn and returns
// everything written to it; runReplay prints directly to os.Stdout rather
// than taking a writer, the same way dump.go and ident.go do.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stdout
	os.Stdout = w
	fn()
	os.Stdout = orig
	require.NoError(t, w.Close())

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestRunReplayWithoutFollowPrintsExistingFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.persist")

	region, err := hostmem.Open(path, datasize.ByteSize(40+256))
	require.NoError(t, err)

	p, _, _, _, err := ringbuf.Recover(region.Bytes(), func(ringbuf.Identifier) ringbuf.Identifier {
		return ringbuf.Identifier{}
	})
	require.NoError(t, err)

	enc := frontend.NewCOBSEncoder()
	require.NoError(t, enc.StartFrame(func(b []byte) { p.Append(b) }))
	require.NoError(t, enc.Write(func(b []byte) { p.Append(b) }, []byte("hello")))
	require.NoError(t, enc.EndFrame(func(b []byte) { p.Append(b) }))
	require.NoError(t, region.Close())

	out := captureStdout(t, func() {
		require.NoError(t, runReplay(path, false, "info"))
	})

	assert.Contains(t, out, "hello")
}

func TestSeparateMappingSeesFramesAppendedByAnotherHandle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.persist")
	size := datasize.ByteSize(40 + 256)

	writerRegion, err := hostmem.Open(path, size)
	require.NoError(t, err)
	p, _, _, _, err := ringbuf.Recover(writerRegion.Bytes(), func(ringbuf.Identifier) ringbuf.Identifier {
		return ringbuf.Identifier{}
	})
	require.NoError(t, err)

	enc := frontend.NewCOBSEncoder()
	require.NoError(t, enc.StartFrame(func(b []byte) { p.Append(b) }))
	require.NoError(t, enc.Write(func(b []byte) { p.Append(b) }, []byte("first")))
	require.NoError(t, enc.EndFrame(func(b []byte) { p.Append(b) }))

	// The follower opens its own separate mapping of the same backing
	// file: this stands in for the writer and the reader being distinct
	// processes, which is exactly why --follow cannot rely on an
	// in-process waiter.Waiter to learn about "first" above.
	followerRegion, err := hostmem.Open(path, size)
	require.NoError(t, err)
	_, consumer, _, _, err := ringbuf.Recover(followerRegion.Bytes(), func(id ringbuf.Identifier) ringbuf.Identifier {
		return id
	})
	require.NoError(t, err)

	require.False(t, consumer.IsEmpty(), "follower must observe the writer's append through the shared backing file")

	grant, err := consumer.Read()
	require.NoError(t, err)
	a, b := grant.Bufs()
	got := frontend.DecodeCOBS(append(append([]byte{}, a...), b...)[:len(a)+len(b)-1])
	assert.Equal(t, []byte("first"), got)
	require.NoError(t, grant.ReleaseAll())

	require.NoError(t, writerRegion.Close())
	require.NoError(t, followerRegion.Close())
}
