package ndarray

import (
	"testing"

	"github.com/gocaterva/bstore/ctx"
	"github.com/stretchr/testify/require"
)

func testStorage() Storage {
	return Storage{ChunkShape: []int32{4, 4}, BlockShape: []int32{2, 2}}
}

func TestUninit_HasCatervaMetalayer(t *testing.T) {
	a, err := Uninit([]int64{8, 8}, testStorage(), 4, ctx.DefaultCParams(), ctx.DefaultDParams())
	require.NoError(t, err)

	require.True(t, a.SChunk.MetaExists(MetalayerName))
	require.EqualValues(t, 64, a.Shape.NItems())
}

func TestZeros_ReadsAsAllZero(t *testing.T) {
	a, err := Zeros([]int64{4, 4}, testStorage(), 4, ctx.DefaultCParams(), ctx.DefaultDParams())
	require.NoError(t, err)

	buf, err := a.ToBuffer()
	require.NoError(t, err)
	require.Equal(t, make([]byte, 4*4*4), buf)
}

func TestFull_ReadsAsFillValue(t *testing.T) {
	fill := []byte{1, 2, 3, 4}
	a, err := Full([]int64{4, 4}, testStorage(), 4, fill, ctx.DefaultCParams(), ctx.DefaultDParams())
	require.NoError(t, err)

	buf, err := a.ToBuffer()
	require.NoError(t, err)
	for i := 0; i < len(buf); i += 4 {
		require.Equal(t, fill, buf[i:i+4])
	}
}

func TestFull_RejectsMismatchedFillValue(t *testing.T) {
	_, err := Full([]int64{4}, Storage{ChunkShape: []int32{4}, BlockShape: []int32{2}}, 4, []byte{1, 2}, ctx.DefaultCParams(), ctx.DefaultDParams())
	require.Error(t, err)
}

func TestFromBuffer_RoundTrip(t *testing.T) {
	shape := []int64{4, 4}
	storage := testStorage()

	src := make([]byte, 4*4*4)
	for i := range src {
		src[i] = byte(i)
	}

	a, err := FromBuffer(src, shape, storage, 4, ctx.DefaultCParams(), ctx.DefaultDParams())
	require.NoError(t, err)

	out, err := a.ToBuffer()
	require.NoError(t, err)
	require.Equal(t, src, out)
}

func TestFromSChunk_ReconstructsShape(t *testing.T) {
	a, err := Zeros([]int64{6, 6}, testStorage(), 4, ctx.DefaultCParams(), ctx.DefaultDParams())
	require.NoError(t, err)

	view, err := FromSChunk(a.SChunk)
	require.NoError(t, err)
	require.Equal(t, a.Shape.NDim, view.Shape.NDim)
	require.Equal(t, a.Shape.Shape, view.Shape.Shape)

	view.Free()
	require.NotNil(t, a.SChunk)
}

func TestFromSChunk_RejectsCorruptMetalayer(t *testing.T) {
	a, err := Zeros([]int64{4}, Storage{ChunkShape: []int32{4}, BlockShape: []int32{2}}, 4, ctx.DefaultCParams(), ctx.DefaultDParams())
	require.NoError(t, err)

	meta, ok := a.SChunk.MetaGet(MetalayerName)
	require.True(t, ok)
	broken := append([]byte(nil), meta...)
	broken[0] = 0x00
	require.NoError(t, a.SChunk.MetaUpdate(MetalayerName, broken))

	_, err = FromSChunk(a.SChunk)
	require.Error(t, err)
}

func TestFree_DiscardsOwnedSChunk(t *testing.T) {
	a, err := Zeros([]int64{4}, Storage{ChunkShape: []int32{4}, BlockShape: []int32{2}}, 4, ctx.DefaultCParams(), ctx.DefaultDParams())
	require.NoError(t, err)

	a.Free()
	require.Nil(t, a.SChunk)
}
