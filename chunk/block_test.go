package chunk

import (
	"testing"

	"github.com/gocaterva/bstore/codec"
	"github.com/gocaterva/bstore/filter"
	"github.com/gocaterva/bstore/format"
	"github.com/stretchr/testify/require"
)

func TestDefaultBlockSize(t *testing.T) {
	require.Equal(t, 16*1024, defaultBlockSize(1<<20, 4))
	require.Equal(t, 100, defaultBlockSize(100, 4))
	require.Equal(t, 4, defaultBlockSize(2, 4))
}

func TestDecideSplit(t *testing.T) {
	require.True(t, decideSplit(format.SplitAlways, 1, 1, format.CodecZstd))
	require.False(t, decideSplit(format.SplitNever, 1<<20, 4, format.CodecBloscLZ))
	require.False(t, decideSplit(format.SplitForwardCompat, 1<<20, 4, format.CodecBloscLZ))
	require.True(t, decideSplit(format.SplitAuto, 16*1024, 4, format.CodecBloscLZ))
	require.True(t, decideSplit(format.SplitAuto, 64, 4, format.CodecLZ4))
	require.False(t, decideSplit(format.SplitAuto, 63, 4, format.CodecLZ4))
	require.False(t, decideSplit(format.SplitAuto, 16*1024, 3, format.CodecBloscLZ))
	require.False(t, decideSplit(format.SplitAuto, 16*1024, 4, format.CodecZstd))
	require.False(t, decideSplit(format.SplitAuto, 16*1024, 4, format.CodecZlib))
}

func TestCompressDecompressBlock_SplitRoundTrip(t *testing.T) {
	cdc, err := codec.Get(format.CodecZstd)
	require.NoError(t, err)

	n := 4000
	src := make([]byte, n*4)
	for i := 0; i < n; i++ {
		v := uint32(i / 7)
		src[i*4] = byte(v)
		src[i*4+1] = byte(v >> 8)
	}

	pipeline := filter.Pipeline{Stages: []filter.Stage{{ID: format.FilterShuffle}}}

	block, err := compressBlock(cdc, pipeline, 4, src, true, 5)
	require.NoError(t, err)

	dst := make([]byte, len(src))
	require.NoError(t, decompressBlock(cdc, pipeline, 4, block, dst, true))
	require.Equal(t, src, dst)
}

func TestCompressDecompressBlock_NoSplitRoundTrip(t *testing.T) {
	cdc, err := codec.Get(format.CodecLZ4)
	require.NoError(t, err)

	src := []byte("the quick brown fox jumps over the lazy dog, repeated, repeated, repeated")
	pipeline := filter.Pipeline{}

	block, err := compressBlock(cdc, pipeline, 1, src, false, 5)
	require.NoError(t, err)

	dst := make([]byte, len(src))
	require.NoError(t, decompressBlock(cdc, pipeline, 1, block, dst, false))
	require.Equal(t, src, dst)
}

func TestDecompressBlock_CorruptTag(t *testing.T) {
	cdc, err := codec.Get(format.CodecZstd)
	require.NoError(t, err)

	dst := make([]byte, 8)
	err = decompressBlock(cdc, filter.Pipeline{}, 4, []byte{0xFF, 1, 2, 3}, dst, false)
	require.Error(t, err)
}

func TestDecompressBlock_EmptyPayload(t *testing.T) {
	cdc, err := codec.Get(format.CodecZstd)
	require.NoError(t, err)

	err = decompressBlock(cdc, filter.Pipeline{}, 4, nil, make([]byte, 4), false)
	require.Error(t, err)
}
