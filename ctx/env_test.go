package ctx

import (
	"os"
	"testing"

	"github.com/gocaterva/bstore/format"
	"github.com/stretchr/testify/require"
)

func clearBloscEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"BLOSC_CLEVEL", "BLOSC_SHUFFLE", "BLOSC_DELTA", "BLOSC_TYPESIZE",
		"BLOSC_COMPRESSOR", "BLOSC_NTHREADS", "BLOSC_BLOCKSIZE",
		"BTUNE_TRADEOFF", "BLOSC_NOLOCK",
	} {
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestApplyEnvOverrides_Clevel(t *testing.T) {
	clearBloscEnv(t)
	defer clearBloscEnv(t)
	t.Setenv("BLOSC_CLEVEL", "3")

	cp := DefaultCParams()
	ApplyEnvOverrides(&cp)

	require.Equal(t, 3, cp.CodecLevel)
}

func TestApplyEnvOverrides_ShuffleModes(t *testing.T) {
	clearBloscEnv(t)
	defer clearBloscEnv(t)

	t.Setenv("BLOSC_SHUFFLE", "NOSHUFFLE")
	cp := DefaultCParams()
	ApplyEnvOverrides(&cp)
	require.Empty(t, cp.Pipeline.Stages)

	t.Setenv("BLOSC_SHUFFLE", "BITSHUFFLE")
	cp = DefaultCParams()
	ApplyEnvOverrides(&cp)
	require.Equal(t, format.FilterBitShuffle, cp.Pipeline.Stages[0].ID)
}

func TestApplyEnvOverrides_Delta(t *testing.T) {
	clearBloscEnv(t)
	defer clearBloscEnv(t)
	t.Setenv("BLOSC_DELTA", "1")

	cp := DefaultCParams()
	ApplyEnvOverrides(&cp)

	last := cp.Pipeline.Stages[len(cp.Pipeline.Stages)-1]
	require.Equal(t, format.FilterDelta, last.ID)
}

func TestApplyEnvOverrides_Compressor(t *testing.T) {
	clearBloscEnv(t)
	defer clearBloscEnv(t)
	t.Setenv("BLOSC_COMPRESSOR", "ZSTD")

	cp := DefaultCParams()
	ApplyEnvOverrides(&cp)

	require.Equal(t, format.CodecZstd, cp.Codec)
}

func TestApplyEnvOverrides_UnknownCompressorIgnored(t *testing.T) {
	clearBloscEnv(t)
	defer clearBloscEnv(t)
	t.Setenv("BLOSC_COMPRESSOR", "NOT_A_CODEC")

	cp := DefaultCParams()
	ApplyEnvOverrides(&cp)

	require.Equal(t, format.CodecBloscLZ, cp.Codec)
}

func TestApplyEnvOverrides_NThreadsAndBlockSize(t *testing.T) {
	clearBloscEnv(t)
	defer clearBloscEnv(t)
	t.Setenv("BLOSC_NTHREADS", "6")
	t.Setenv("BLOSC_BLOCKSIZE", "2048")

	cp := DefaultCParams()
	ApplyEnvOverrides(&cp)

	require.Equal(t, 6, cp.NThreads)
	require.Equal(t, 2048, cp.BlockSize)
}

func TestApplyEnvOverrides_Tuner(t *testing.T) {
	clearBloscEnv(t)
	defer clearBloscEnv(t)
	t.Setenv("BTUNE_TRADEOFF", "2.5")

	cp := DefaultCParams()
	ApplyEnvOverrides(&cp)

	require.Equal(t, "btune", cp.TunerID)
}

func TestNoLock(t *testing.T) {
	clearBloscEnv(t)
	defer clearBloscEnv(t)

	require.False(t, NoLock())

	t.Setenv("BLOSC_NOLOCK", "1")
	require.True(t, NoLock())
}
