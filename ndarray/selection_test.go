package ndarray

import (
	"testing"

	"github.com/gocaterva/bstore/ctx"
	"github.com/stretchr/testify/require"
)

func TestGetOrthogonalSelection_GathersCartesianProduct(t *testing.T) {
	a, err := FromBuffer(sequentialBytes(4*4*4), []int64{4, 4}, Storage{ChunkShape: []int32{2, 2}, BlockShape: []int32{1, 1}}, 4, ctx.DefaultCParams(), ctx.DefaultDParams())
	require.NoError(t, err)

	rowIdx := []int64{0, 2}
	colIdx := []int64{1, 3}
	dst := make([]byte, 2*2*4)

	require.NoError(t, a.GetOrthogonalSelection([][]int64{rowIdx, colIdx}, dst))

	full, err := a.ToBuffer()
	require.NoError(t, err)

	// Row stride is 4 items * 4 bytes = 16; expect (row,col) pairs in
	// row-major order over the two index lists.
	want := make([]byte, 0, len(dst))
	for _, r := range rowIdx {
		for _, c := range colIdx {
			off := (r*4 + c) * 4
			want = append(want, full[off:off+4]...)
		}
	}
	require.Equal(t, want, dst)
}

func TestGetOrthogonalSelection_RejectsUnsortedIndices(t *testing.T) {
	a, err := Zeros([]int64{4}, Storage{ChunkShape: []int32{4}, BlockShape: []int32{2}}, 4, ctx.DefaultCParams(), ctx.DefaultDParams())
	require.NoError(t, err)

	err = a.GetOrthogonalSelection([][]int64{{2, 0}}, make([]byte, 8))
	require.Error(t, err)
}

func TestGetOrthogonalSelection_RejectsOutOfRangeIndex(t *testing.T) {
	a, err := Zeros([]int64{4}, Storage{ChunkShape: []int32{4}, BlockShape: []int32{2}}, 4, ctx.DefaultCParams(), ctx.DefaultDParams())
	require.NoError(t, err)

	err = a.GetOrthogonalSelection([][]int64{{0, 5}}, make([]byte, 8))
	require.Error(t, err)
}

func TestGetOrthogonalSelection_RejectsSmallDst(t *testing.T) {
	a, err := Zeros([]int64{4}, Storage{ChunkShape: []int32{4}, BlockShape: []int32{2}}, 4, ctx.DefaultCParams(), ctx.DefaultDParams())
	require.NoError(t, err)

	err = a.GetOrthogonalSelection([][]int64{{0, 1}}, make([]byte, 4))
	require.Error(t, err)
}
