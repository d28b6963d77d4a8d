package codec

import (
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/gocaterva/bstore/format"
)

// lz4CompressorPool pools lz4.Compressor instances; lz4.Compressor keeps an
// internal hash table that benefits from reuse across calls.
var lz4CompressorPool = sync.Pool{
	New: func() any { return &lz4.Compressor{} },
}

var lz4HCCompressorPool = sync.Pool{
	New: func() any { return &lz4.CompressorHC{Level: lz4.Level9} },
}

// lz4Codec backs both format.CodecLZ4 and format.CodecLZ4HC; the only
// difference between them is which pierrec/lz4 compressor type is used.
type lz4Codec struct {
	highCompression bool
}

var _ Codec = lz4Codec{}

func (c lz4Codec) ID() format.CodecID {
	if c.highCompression {
		return format.CodecLZ4HC
	}

	return format.CodecLZ4
}

func (c lz4Codec) Compress(dst, src []byte, _ int) ([]byte, error) {
	needed := lz4.CompressBlockBound(len(src))
	if cap(dst) < needed {
		dst = make([]byte, needed)
	}
	dst = dst[:needed]

	var (
		n   int
		err error
	)

	if c.highCompression {
		hc, _ := lz4HCCompressorPool.Get().(*lz4.CompressorHC)
		defer lz4HCCompressorPool.Put(hc)
		n, err = hc.CompressBlock(src, dst)
	} else {
		lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
		defer lz4CompressorPool.Put(lc)
		n, err = lc.CompressBlock(src, dst)
	}

	if err != nil {
		return nil, fmt.Errorf("codec: lz4 compress: %w", err)
	}

	return dst[:n], nil
}

// Decompress decompresses src into dst. Unlike a general-purpose lz4 wrapper,
// the chunk codec always knows the exact uncompressed size ahead of time
// (the block's nbytes from the header), so dst is expected to already be
// sized to fit and no adaptive buffer growth is needed.
func (lz4Codec) Decompress(dst, src []byte) ([]byte, error) {
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return nil, fmt.Errorf("codec: lz4 decompress: %w", err)
	}

	return dst[:n], nil
}
