package frame

import (
	"testing"

	"github.com/gocaterva/bstore/ctx"
	"github.com/gocaterva/bstore/ioplugin"
	"github.com/gocaterva/bstore/schunk"
	"github.com/stretchr/testify/require"
)

func newContiguousTestSChunk(t *testing.T) *schunk.SChunk {
	t.Helper()
	cp, err := ctx.NewCParams(ctx.WithTypesize(4))
	require.NoError(t, err)

	s := schunk.New(cp, ctx.DefaultDParams(), 0)
	require.NoError(t, s.MetaAdd("caterva", []byte{1, 2, 3}))
	require.NoError(t, s.VLMetaAdd("notes", []byte("hello frame")))

	for i := 0; i < 4; i++ {
		buf := make([]byte, 40)
		for j := range buf {
			buf[j] = byte(i*40 + j)
		}
		_, err := s.AppendChunk(buf)
		require.NoError(t, err)
	}

	return s
}

func TestWriteReadContiguous_RoundTrip(t *testing.T) {
	s := newContiguousTestSChunk(t)

	io := ioplugin.NewMemory()
	require.NoError(t, WriteContiguous(io, s, nil))

	got, err := ReadContiguous(io)
	require.NoError(t, err)

	require.Equal(t, s.NumChunks(), got.NumChunks())
	require.Equal(t, s.NBytes(), got.NBytes())

	v, ok := got.MetaGet("caterva")
	require.True(t, ok)
	require.Equal(t, []byte{1, 2, 3}, v)

	vl, ok := got.VLMetaGet("notes")
	require.True(t, ok)
	require.Equal(t, "hello frame", string(vl))

	for i := 0; i < s.NumChunks(); i++ {
		want, err := s.DecompressChunk(i, nil)
		require.NoError(t, err)
		gotBuf, err := got.DecompressChunk(i, nil)
		require.NoError(t, err)
		require.Equal(t, want, gotBuf)
	}
}

func TestReadContiguous_RejectsWrongFrameType(t *testing.T) {
	s := newContiguousTestSChunk(t)

	io := ioplugin.NewMemory()
	require.NoError(t, WriteContiguous(io, s, nil))

	size, err := io.Size()
	require.NoError(t, err)
	buf := make([]byte, size)
	_, err = io.ReadAt(buf, 0)
	require.NoError(t, err)

	// Flip the frame-type byte to sparse so the contiguous reader's type
	// check fires before anything else is parsed.
	buf[29] = 1
	require.NoError(t, io.Truncate(0))
	_, err = io.WriteAt(buf, 0)
	require.NoError(t, err)

	_, err = ReadContiguous(io)
	require.Error(t, err)
}
