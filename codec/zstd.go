//go:build !blosc2_cgo

package codec

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/gocaterva/bstore/format"
)

// zstdDecoderPool pools zstd decoders for reuse to eliminate allocation
// overhead; klauspost/compress/zstd is explicitly designed for decoder
// reuse once warmed up.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			panic(fmt.Sprintf("codec: failed to create zstd decoder: %v", err))
		}

		return dec
	},
}

var zstdEncoderPools [zstd.SpeedBestCompression + 1]sync.Pool

func zstdEncoderPool(level zstd.EncoderLevel) *sync.Pool {
	return &zstdEncoderPools[level]
}

func init() {
	for lvl := zstd.SpeedFastest; lvl <= zstd.SpeedBestCompression; lvl++ {
		lvl := lvl
		zstdEncoderPools[lvl] = sync.Pool{
			New: func() any {
				enc, err := zstd.NewWriter(nil,
					zstd.WithEncoderLevel(lvl),
					zstd.WithEncoderCRC(false),
				)
				if err != nil {
					panic(fmt.Sprintf("codec: failed to create zstd encoder: %v", err))
				}

				return enc
			},
		}
	}
}

// zstdLevel maps blosc2's 0..9 clevel onto klauspost/compress/zstd's four
// speed tiers.
func zstdLevel(level int) zstd.EncoderLevel {
	switch {
	case level <= 1:
		return zstd.SpeedFastest
	case level <= 4:
		return zstd.SpeedDefault
	case level <= 7:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedBestCompression
	}
}

type zstdCodec struct{}

var _ Codec = zstdCodec{}

func (zstdCodec) ID() format.CodecID { return format.CodecZstd }

func (zstdCodec) Compress(dst, src []byte, level int) ([]byte, error) {
	lvl := zstdLevel(level)
	pool := zstdEncoderPool(lvl)
	enc, _ := pool.Get().(*zstd.Encoder)
	defer pool.Put(enc)

	return enc.EncodeAll(src, dst[:0]), nil
}

func (zstdCodec) Decompress(dst, src []byte) ([]byte, error) {
	dec, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(dec)

	out, err := dec.DecodeAll(src, dst[:0])
	if err != nil {
		return nil, fmt.Errorf("codec: zstd decompress: %w", err)
	}

	return out, nil
}
