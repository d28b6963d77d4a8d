package schunk

import (
	"testing"

	"github.com/gocaterva/bstore/ctx"
	"github.com/gocaterva/bstore/format"
	"github.com/stretchr/testify/require"
)

func newTestSChunk(t *testing.T, chunkSize int) *SChunk {
	t.Helper()
	cp, err := ctx.NewCParams(ctx.WithTypesize(4))
	require.NoError(t, err)

	return New(cp, ctx.DefaultDParams(), chunkSize)
}

func ramp(n int) []byte {
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		v := uint32(i)
		buf[i*4] = byte(v)
		buf[i*4+1] = byte(v >> 8)
	}

	return buf
}

func TestAppendAndDecompressChunk(t *testing.T) {
	s := newTestSChunk(t, 0)

	src := ramp(1000)
	idx, err := s.AppendChunk(src)
	require.NoError(t, err)
	require.Equal(t, 0, idx)
	require.Equal(t, 1, s.NumChunks())

	out, err := s.DecompressChunk(idx, nil)
	require.NoError(t, err)
	require.Equal(t, src, out)
	require.EqualValues(t, len(src), s.NBytes())
}

func TestAppendChunk_RejectsOversizedChunk(t *testing.T) {
	s := newTestSChunk(t, 400)

	_, err := s.AppendChunk(ramp(100))
	require.NoError(t, err)

	_, err = s.AppendChunk(ramp(101))
	require.Error(t, err)
}

func TestAppendChunk_AllowsOneShortTrailingChunk(t *testing.T) {
	s := newTestSChunk(t, 400)

	_, err := s.AppendChunk(ramp(100))
	require.NoError(t, err)

	_, err = s.AppendChunk(ramp(50))
	require.NoError(t, err)
	require.EqualValues(t, 600, s.NBytes())
}

func TestAppendChunk_RejectsFullSizeChunkAfterShortChunk(t *testing.T) {
	s := newTestSChunk(t, 400)

	_, err := s.AppendChunk(ramp(100))
	require.NoError(t, err)

	_, err = s.AppendChunk(ramp(50))
	require.NoError(t, err)

	_, err = s.AppendChunk(ramp(100))
	require.Error(t, err)
	require.Equal(t, 2, s.NumChunks())
}

func TestAppendChunk_RejectsSecondConsecutiveShortChunk(t *testing.T) {
	s := newTestSChunk(t, 400)

	_, err := s.AppendChunk(ramp(100))
	require.NoError(t, err)

	_, err = s.AppendChunk(ramp(50))
	require.NoError(t, err)

	_, err = s.AppendChunk(ramp(10))
	require.Error(t, err)
}

func TestInsertChunk(t *testing.T) {
	s := newTestSChunk(t, 0)
	_, err := s.AppendChunk(ramp(10))
	require.NoError(t, err)
	_, err = s.AppendChunk(ramp(20))
	require.NoError(t, err)

	_, err = s.InsertChunk(1, ramp(15))
	require.NoError(t, err)
	require.Equal(t, 3, s.NumChunks())

	out, err := s.DecompressChunk(1, nil)
	require.NoError(t, err)
	require.Equal(t, ramp(15), out)
}

func TestInsertChunk_OutOfRange(t *testing.T) {
	s := newTestSChunk(t, 0)
	_, err := s.InsertChunk(5, ramp(10))
	require.Error(t, err)
}

func TestUpdateChunk(t *testing.T) {
	s := newTestSChunk(t, 0)
	idx, err := s.AppendChunk(ramp(30))
	require.NoError(t, err)

	_, err = s.UpdateChunk(idx, ramp(40))
	require.NoError(t, err)

	out, err := s.DecompressChunk(idx, nil)
	require.NoError(t, err)
	require.Equal(t, ramp(40), out)
}

func TestUpdateChunk_OutOfRange(t *testing.T) {
	s := newTestSChunk(t, 0)
	_, err := s.UpdateChunk(0, ramp(10))
	require.Error(t, err)
}

func TestDeleteChunk(t *testing.T) {
	s := newTestSChunk(t, 0)
	_, _ = s.AppendChunk(ramp(5))
	_, _ = s.AppendChunk(ramp(6))
	_, _ = s.AppendChunk(ramp(7))

	require.NoError(t, s.DeleteChunk(1))
	require.Equal(t, 2, s.NumChunks())

	out, err := s.DecompressChunk(1, nil)
	require.NoError(t, err)
	require.Equal(t, ramp(7), out)
}

func TestDeleteChunk_OutOfRange(t *testing.T) {
	s := newTestSChunk(t, 0)
	require.Error(t, s.DeleteChunk(0))
}

func TestReorderOffsets(t *testing.T) {
	s := newTestSChunk(t, 0)
	_, _ = s.AppendChunk(ramp(1))
	_, _ = s.AppendChunk(ramp(2))
	_, _ = s.AppendChunk(ramp(3))

	require.NoError(t, s.ReorderOffsets([]int{2, 0, 1}))

	out0, _ := s.DecompressChunk(0, nil)
	out1, _ := s.DecompressChunk(1, nil)
	out2, _ := s.DecompressChunk(2, nil)
	require.Equal(t, ramp(3), out0)
	require.Equal(t, ramp(1), out1)
	require.Equal(t, ramp(2), out2)
}

func TestReorderOffsets_InvalidPermutation(t *testing.T) {
	s := newTestSChunk(t, 0)
	_, _ = s.AppendChunk(ramp(1))
	_, _ = s.AppendChunk(ramp(2))

	require.Error(t, s.ReorderOffsets([]int{0, 0}))
	require.Error(t, s.ReorderOffsets([]int{0}))
}

func TestFillSpecial(t *testing.T) {
	s := newTestSChunk(t, 400)

	require.NoError(t, s.FillSpecial(format.SpecialZero, 1000, nil))
	require.Equal(t, 3, s.NumChunks())

	out, err := s.DecompressChunk(0, nil)
	require.NoError(t, err)
	require.Equal(t, make([]byte, 400), out)
}

func TestFillSpecial_RejectsNonEmpty(t *testing.T) {
	s := newTestSChunk(t, 0)
	_, _ = s.AppendChunk(ramp(1))

	require.Error(t, s.FillSpecial(format.SpecialZero, 100, nil))
}

func TestImportChunk(t *testing.T) {
	src := newTestSChunk(t, 0)
	_, err := src.AppendChunk(ramp(9))
	require.NoError(t, err)

	c, err := src.GetChunk(0)
	require.NoError(t, err)

	dst := newTestSChunk(t, 0)
	require.NoError(t, dst.ImportChunk(c))
	require.Equal(t, 1, dst.NumChunks())

	out, err := dst.DecompressChunk(0, nil)
	require.NoError(t, err)
	require.Equal(t, ramp(9), out)
}
