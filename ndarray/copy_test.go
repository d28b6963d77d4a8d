package ndarray

import (
	"testing"

	"github.com/gocaterva/bstore/ctx"
	"github.com/stretchr/testify/require"
)

func TestCopy_SameStorage_ImportsChunksDirectly(t *testing.T) {
	storage := Storage{ChunkShape: []int32{4}, BlockShape: []int32{2}}
	src, err := FromBuffer(sequentialBytes(16), []int64{4}, storage, 4, ctx.DefaultCParams(), ctx.DefaultDParams())
	require.NoError(t, err)

	dst, err := Copy(src, storage, ctx.DefaultCParams(), ctx.DefaultDParams())
	require.NoError(t, err)

	out, err := dst.ToBuffer()
	require.NoError(t, err)

	srcBuf, err := src.ToBuffer()
	require.NoError(t, err)
	require.Equal(t, srcBuf, out)
}

func TestCopy_DifferentStorage_RebuildsFromBuffer(t *testing.T) {
	src, err := FromBuffer(sequentialBytes(64), []int64{8}, Storage{ChunkShape: []int32{4}, BlockShape: []int32{2}}, 4, ctx.DefaultCParams(), ctx.DefaultDParams())
	require.NoError(t, err)

	newStorage := Storage{ChunkShape: []int32{2}, BlockShape: []int32{1}}
	dst, err := Copy(src, newStorage, ctx.DefaultCParams(), ctx.DefaultDParams())
	require.NoError(t, err)

	srcBuf, err := src.ToBuffer()
	require.NoError(t, err)
	dstBuf, err := dst.ToBuffer()
	require.NoError(t, err)
	require.Equal(t, srcBuf, dstBuf)
}

func sequentialBytes(n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(i)
	}

	return buf
}
