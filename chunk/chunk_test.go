package chunk

import (
	"math/rand"
	"testing"

	"github.com/gocaterva/bstore/ctx"
	"github.com/gocaterva/bstore/errs"
	"github.com/gocaterva/bstore/format"
	"github.com/stretchr/testify/require"
)

func newCompressCtx(t *testing.T, opts ...ctx.CParamsOption) *ctx.Context {
	t.Helper()
	cp, err := ctx.NewCParams(opts...)
	require.NoError(t, err)

	return ctx.NewCompressContext(cp.Freeze())
}

func sampleInt32Ramp(n int) []byte {
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		v := uint32(i / 13)
		buf[i*4+0] = byte(v)
		buf[i*4+1] = byte(v >> 8)
		buf[i*4+2] = byte(v >> 16)
		buf[i*4+3] = byte(v >> 24)
	}

	return buf
}

func TestCompressDecompress_RoundTrip(t *testing.T) {
	src := sampleInt32Ramp(20000)

	cctx := newCompressCtx(t, ctx.WithTypesize(4), ctx.WithCodec(format.CodecZstd))
	c, err := Compress(cctx, src)
	require.NoError(t, err)
	require.Less(t, len(c.Data), len(src))

	dctx := ctx.NewDecompressContext(ctx.DefaultDParams())
	out, err := Decompress(dctx, c, nil)
	require.NoError(t, err)
	require.Equal(t, src, out)
}

func TestCompressDecompress_WithChecksum(t *testing.T) {
	src := sampleInt32Ramp(5000)

	cctx := newCompressCtx(t, ctx.WithTypesize(4), ctx.WithChecksum(true))
	c, err := Compress(cctx, src)
	require.NoError(t, err)
	require.True(t, c.Header.Flags.HasChecksum)

	require.NoError(t, Validate(c.Data))

	dctx := ctx.NewDecompressContext(ctx.DefaultDParams())
	out, err := Decompress(dctx, c, nil)
	require.NoError(t, err)
	require.Equal(t, src, out)
}

func TestCompress_UniformZeroBecomesSpecial(t *testing.T) {
	src := make([]byte, 4096)

	cctx := newCompressCtx(t, ctx.WithTypesize(4))
	c, err := Compress(cctx, src)
	require.NoError(t, err)
	require.Equal(t, format.SpecialZero, c.SpecialKind())
	require.Less(t, len(c.Data), len(src))

	dctx := ctx.NewDecompressContext(ctx.DefaultDParams())
	out, err := Decompress(dctx, c, nil)
	require.NoError(t, err)
	require.Equal(t, src, out)
}

func TestCompress_UniformValueBecomesSpecial(t *testing.T) {
	n := 1000
	src := make([]byte, n*4)
	for i := 0; i < n; i++ {
		src[i*4] = 0x2a
		src[i*4+1] = 0x01
	}

	cctx := newCompressCtx(t, ctx.WithTypesize(4))
	c, err := Compress(cctx, src)
	require.NoError(t, err)
	require.Equal(t, format.SpecialValue, c.SpecialKind())

	dctx := ctx.NewDecompressContext(ctx.DefaultDParams())
	out, err := Decompress(dctx, c, nil)
	require.NoError(t, err)
	require.Equal(t, src, out)
}

func TestCompress_IncompressibleFallsBackToMemcpy(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	src := make([]byte, 8192)
	r.Read(src)

	cctx := newCompressCtx(t, ctx.WithTypesize(1), ctx.WithCodecLevel(9))
	c, err := Compress(cctx, src)
	require.NoError(t, err)

	dctx := ctx.NewDecompressContext(ctx.DefaultDParams())
	out, err := Decompress(dctx, c, nil)
	require.NoError(t, err)
	require.Equal(t, src, out)
}

func TestCompress_InvalidTypesize(t *testing.T) {
	cctx := newCompressCtx(t)
	cctx.CParams.Typesize = 0

	_, err := Compress(cctx, []byte{1, 2, 3})
	require.Error(t, err)
}

func TestCompress_MisalignedSrc(t *testing.T) {
	cctx := newCompressCtx(t, ctx.WithTypesize(4))

	_, err := Compress(cctx, []byte{1, 2, 3})
	require.Error(t, err)
}

func TestParse_RejectsTruncatedHeader(t *testing.T) {
	_, err := Parse([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestParse_RejectsCBytesBeyondData(t *testing.T) {
	src := sampleInt32Ramp(100)
	cctx := newCompressCtx(t, ctx.WithTypesize(4))
	c, err := Compress(cctx, src)
	require.NoError(t, err)

	truncated := c.Data[:len(c.Data)-1]
	_, err = Parse(truncated)
	require.Error(t, err)
}

func TestValidate_ChecksumMismatch(t *testing.T) {
	src := sampleInt32Ramp(2000)
	cctx := newCompressCtx(t, ctx.WithTypesize(4), ctx.WithChecksum(true))
	c, err := Compress(cctx, src)
	require.NoError(t, err)

	corrupted := append([]byte(nil), c.Data...)
	corrupted[len(corrupted)-1] ^= 0xFF

	err = Validate(corrupted)
	require.ErrorIs(t, err, errs.ErrChecksumMismatch)
}

func TestGetItem_PartialDecompress(t *testing.T) {
	n := 50000
	src := sampleInt32Ramp(n)

	cctx := newCompressCtx(t, ctx.WithTypesize(4), ctx.WithBlockSize(8192))
	c, err := Compress(cctx, src)
	require.NoError(t, err)

	dctx := ctx.NewDecompressContext(ctx.DefaultDParams())
	out, err := GetItem(dctx, c, 1000, 200, nil)
	require.NoError(t, err)
	require.Equal(t, src[1000*4:1200*4], out)
}

func TestGetItem_ZeroItems(t *testing.T) {
	src := sampleInt32Ramp(100)
	cctx := newCompressCtx(t, ctx.WithTypesize(4))
	c, err := Compress(cctx, src)
	require.NoError(t, err)

	dctx := ctx.NewDecompressContext(ctx.DefaultDParams())
	out, err := GetItem(dctx, c, 10, 0, nil)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestGetItem_OnSpecialChunk(t *testing.T) {
	src := make([]byte, 4000)
	cctx := newCompressCtx(t, ctx.WithTypesize(4))
	c, err := Compress(cctx, src)
	require.NoError(t, err)
	require.Equal(t, format.SpecialZero, c.SpecialKind())

	dctx := ctx.NewDecompressContext(ctx.DefaultDParams())
	out, err := GetItem(dctx, c, 5, 10, nil)
	require.NoError(t, err)
	require.Equal(t, make([]byte, 40), out)
}

func TestDecompress_SkippedBlocksLeftUntouched(t *testing.T) {
	n := 40000
	src := sampleInt32Ramp(n)

	cctx := newCompressCtx(t, ctx.WithTypesize(4), ctx.WithBlockSize(4096))
	c, err := Compress(cctx, src)
	require.NoError(t, err)

	dctx := ctx.NewDecompressContext(ctx.DefaultDParams())
	dst := make([]byte, len(src))
	for i := range dst {
		dst[i] = 0xAB
	}

	dctx.ResetMaskout(len(c.BlockOffsets))
	dctx.SkipBlock(0)

	out, err := Decompress(dctx, c, dst)
	require.NoError(t, err)
	require.Equal(t, byte(0xAB), out[0])
}
