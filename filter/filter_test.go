package filter

import (
	"math/rand"
	"testing"

	"github.com/gocaterva/bstore/format"
	"github.com/stretchr/testify/require"
)

func sampleBytes(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	b := make([]byte, n)
	r.Read(b)

	return b
}

func TestGet_AllRegisteredIDs(t *testing.T) {
	require.NotNil(t, Get(format.FilterShuffle))
	require.NotNil(t, Get(format.FilterBitShuffle))
	require.NotNil(t, Get(format.FilterDelta))
	require.NotNil(t, Get(format.FilterTrunc))
	require.Nil(t, Get(format.FilterNone))
}

func TestShuffleFilter_RoundTrip(t *testing.T) {
	for _, typesize := range []int{1, 2, 4, 8} {
		src := sampleBytes(100*typesize+3, int64(typesize))
		f := Get(format.FilterShuffle)

		shuffled := make([]byte, len(src))
		require.NoError(t, f.Forward(shuffled, src, typesize, 0))

		back := make([]byte, len(src))
		require.NoError(t, f.Inverse(back, shuffled, typesize, 0))

		require.Equal(t, src, back)
	}
}

func TestBitShuffleFilter_RoundTrip(t *testing.T) {
	for _, typesize := range []int{1, 2, 4, 8} {
		src := sampleBytes(64*typesize+typesize*3, int64(typesize+100))
		f := Get(format.FilterBitShuffle)

		shuffled := make([]byte, len(src))
		require.NoError(t, f.Forward(shuffled, src, typesize, 0))

		back := make([]byte, len(src))
		require.NoError(t, f.Inverse(back, shuffled, typesize, 0))

		require.Equal(t, src, back)
	}
}

func TestDeltaFilter_RoundTrip(t *testing.T) {
	src := sampleBytes(37*4, 7)
	f := Get(format.FilterDelta)

	encoded := make([]byte, len(src))
	require.NoError(t, f.Forward(encoded, src, 4, 0))

	back := make([]byte, len(src))
	require.NoError(t, f.Inverse(back, encoded, 4, 0))

	require.Equal(t, src, back)
}

func TestDeltaFilter_EmptyInput(t *testing.T) {
	f := Get(format.FilterDelta)

	var dst []byte
	require.NoError(t, f.Forward(dst, nil, 4, 0))
}

func TestTruncFilter_InverseIsCopy(t *testing.T) {
	f := Get(format.FilterTrunc)
	src := sampleBytes(16, 3)

	truncated := make([]byte, len(src))
	require.NoError(t, f.Forward(truncated, src, 4, 8))

	back := make([]byte, len(src))
	require.NoError(t, f.Inverse(back, truncated, 4, 8))

	require.Equal(t, truncated, back)
}

func TestTruncFilter_ZerosLowBits(t *testing.T) {
	f := Get(format.FilterTrunc)
	src := []byte{0xFF, 0xFF, 0xFF, 0xFF}

	dst := make([]byte, 4)
	require.NoError(t, f.Forward(dst, src, 4, 8))

	require.Equal(t, byte(0), dst[0])
	require.Equal(t, byte(0xFF), dst[1])
}

func TestPipeline_ForwardInverseRoundTrip(t *testing.T) {
	p := Pipeline{Stages: []Stage{
		{ID: format.FilterDelta},
		{ID: format.FilterShuffle},
	}}

	src := sampleBytes(40*4, 99)

	forward, err := p.Forward(4, src)
	require.NoError(t, err)

	back, err := p.Inverse(4, forward)
	require.NoError(t, err)

	require.Equal(t, src, back)
}

func TestPipeline_Empty(t *testing.T) {
	p := Pipeline{}
	src := sampleBytes(20, 1)

	out, err := p.Forward(4, src)
	require.NoError(t, err)
	require.Equal(t, src, out)
}

func TestShuffleEligible(t *testing.T) {
	require.True(t, ShuffleEligible(1))
	require.True(t, ShuffleEligible(format.MaxTypesize))
	require.False(t, ShuffleEligible(0))
	require.False(t, ShuffleEligible(format.MaxTypesize+1))
}
