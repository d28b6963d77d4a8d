//go:build blosc2_cgo

package codec

import (
	"github.com/valyala/gozstd"

	"github.com/gocaterva/bstore/format"
)

// zstdCodec backed by the cgo libzstd bindings, selected with the
// blosc2_cgo build tag for environments where a faster native zstd is
// preferable to the pure-Go port in zstd.go.
type zstdCodec struct{}

var _ Codec = zstdCodec{}

func (zstdCodec) ID() format.CodecID { return format.CodecZstd }

func (zstdCodec) Compress(dst, src []byte, level int) ([]byte, error) {
	if level <= 0 {
		level = 3
	}

	return gozstd.CompressLevel(dst[:0], src, level), nil
}

func (zstdCodec) Decompress(dst, src []byte) ([]byte, error) {
	return gozstd.Decompress(dst[:0], src)
}
