package ctx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCompressContext(t *testing.T) {
	cp := DefaultCParams().Freeze()
	c := NewCompressContext(cp)

	require.Equal(t, ModeCompress, c.Mode)
	require.NotNil(t, c.Arena)
	require.Nil(t, c.Op.Err())
}

func TestNewDecompressContext(t *testing.T) {
	dp := DefaultDParams()
	c := NewDecompressContext(dp)

	require.Equal(t, ModeDecompress, c.Mode)
	require.NotNil(t, c.Arena)
}

func TestContext_MaskoutLifecycle(t *testing.T) {
	c := NewDecompressContext(DefaultDParams())

	c.ResetMaskout(4)
	require.False(t, c.IsSkipped(0))

	c.SkipBlock(2)
	require.True(t, c.IsSkipped(2))
	require.False(t, c.IsSkipped(1))

	c.ResetMaskout(4)
	require.False(t, c.IsSkipped(2))
}

func TestContext_SkipBlock_OutOfRangeIsNoop(t *testing.T) {
	c := NewDecompressContext(DefaultDParams())
	c.ResetMaskout(2)

	c.SkipBlock(5)
	require.False(t, c.IsSkipped(5))
}

func TestContext_ResetMaskout_ReusesCapacity(t *testing.T) {
	c := NewDecompressContext(DefaultDParams())
	c.ResetMaskout(8)
	c.SkipBlock(0)

	buf := c.Maskout
	c.ResetMaskout(4)

	require.Len(t, c.Maskout, 4)
	require.False(t, c.IsSkipped(0))
	require.Equal(t, cap(buf), cap(c.Maskout))
}

func TestContext_Release(t *testing.T) {
	c := NewCompressContext(DefaultCParams().Freeze())
	require.NotPanics(t, c.Release)
}
