package ctx

import (
	"testing"

	"github.com/gocaterva/bstore/filter"
	"github.com/gocaterva/bstore/format"
	"github.com/stretchr/testify/require"
)

func TestDefaultCParams(t *testing.T) {
	cp := DefaultCParams()

	require.Equal(t, format.CodecBloscLZ, cp.Codec)
	require.Equal(t, 5, cp.CodecLevel)
	require.Equal(t, 1, cp.Typesize)
	require.Len(t, cp.Pipeline.Stages, 1)
	require.Equal(t, format.FilterShuffle, cp.Pipeline.Stages[0].ID)
}

func TestNewCParams_Options(t *testing.T) {
	cp, err := NewCParams(
		WithCodec(format.CodecZstd),
		WithCodecLevel(9),
		WithTypesize(8),
		WithNThreads(4),
		WithBlockSize(1024),
		WithSplitMode(format.SplitAlways),
		WithDict(true),
		WithChecksum(true),
		WithTuner("btune"),
	)
	require.NoError(t, err)

	require.Equal(t, format.CodecZstd, cp.Codec)
	require.Equal(t, 9, cp.CodecLevel)
	require.Equal(t, 8, cp.Typesize)
	require.Equal(t, 4, cp.NThreads)
	require.Equal(t, 1024, cp.BlockSize)
	require.Equal(t, format.SplitAlways, cp.SplitMode)
	require.True(t, cp.UseDict)
	require.True(t, cp.UseChecksum)
	require.Equal(t, "btune", cp.TunerID)
}

func TestWithCodecLevel_Invalid(t *testing.T) {
	_, err := NewCParams(WithCodecLevel(10))
	require.Error(t, err)
}

func TestWithTypesize_Invalid(t *testing.T) {
	_, err := NewCParams(WithTypesize(0))
	require.Error(t, err)

	_, err = NewCParams(WithTypesize(format.MaxTypesize + 1))
	require.Error(t, err)
}

func TestWithNThreads_Invalid(t *testing.T) {
	_, err := NewCParams(WithNThreads(0))
	require.Error(t, err)
}

func TestWithFilters_TooMany(t *testing.T) {
	stages := make([]filter.Stage, format.MaxFilters+1)
	_, err := NewCParams(WithFilters(stages...))
	require.Error(t, err)
}

func TestCParams_Freeze_IsIndependentOfLaterMutation(t *testing.T) {
	cp, err := NewCParams(WithFilters(filter.Stage{ID: format.FilterShuffle}))
	require.NoError(t, err)

	frozen := cp.Freeze()

	cp.Pipeline.Stages[0].ID = format.FilterDelta

	require.Equal(t, format.FilterShuffle, frozen.Pipeline.Stages[0].ID)
}

func TestDefaultDParams(t *testing.T) {
	dp := DefaultDParams()
	require.Equal(t, 1, dp.NThreads)
	require.Nil(t, dp.PostFilter)
}

func TestNewDParams_Options(t *testing.T) {
	called := false
	dp, err := NewDParams(
		WithDNThreads(3),
		WithPostFilter(func(int, []byte) error { called = true; return nil }),
	)
	require.NoError(t, err)
	require.Equal(t, 3, dp.NThreads)

	require.NoError(t, dp.PostFilter(0, nil))
	require.True(t, called)
}

func TestWithDNThreads_Invalid(t *testing.T) {
	_, err := NewDParams(WithDNThreads(0))
	require.Error(t, err)
}
