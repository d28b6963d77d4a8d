// Package codec implements the concrete byte-level compressors that back the
// chunk codec's CodecID enum (format.CodecID). Compressors are treated as
// an external collaborator specified only by the contract
//
//	compress(src, dst) -> csize | incompressible
//	decompress(src, dst) -> dsize | error
//
// this package is that collaborator, backed by real third-party libraries
// rather than a reimplementation of LZ4/Zstd/etc.
package codec

import (
	"fmt"

	"github.com/gocaterva/bstore/format"
)

// Compressor compresses a block of already-filtered bytes. Whether the
// result is small enough to keep is decided by the caller, which compares
// its length against the input.
type Compressor interface {
	// Compress appends the compressed form of src to dst[:0]'s capacity (or a
	// freshly allocated buffer if dst is nil) and returns the compressed
	// bytes. Implementations never mutate src.
	Compress(dst, src []byte, level int) ([]byte, error)
}

// Decompressor decompresses a block produced by the matching Compressor and
// returns the decompressed bytes, reusing dst's storage where it can. The
// lz4 codec decodes into len(dst), so for it dst must already have the
// decompressed length.
type Decompressor interface {
	Decompress(dst, src []byte) ([]byte, error)
}

// Codec combines both directions. Every format.CodecID maps to exactly one
// Codec via Get.
type Codec interface {
	Compressor
	Decompressor
	ID() format.CodecID
}

var registry = map[format.CodecID]Codec{
	format.CodecBloscLZ: blocLZCodec{},
	format.CodecLZ4:     lz4Codec{highCompression: false},
	format.CodecLZ4HC:   lz4Codec{highCompression: true},
	format.CodecZlib:    zlibCodec{},
	format.CodecZstd:    zstdCodec{},
	format.CodecSnappy:  snappyCodec{},
}

// Get returns the built-in Codec registered for id.
func Get(id format.CodecID) (Codec, error) {
	c, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("codec: unsupported codec id %d", id)
	}

	return c, nil
}

// Register installs or overrides the Codec used for id. It exists so a
// caller can plug in a different library for a given id without forking this
// package; the core itself never calls Register.
func Register(id format.CodecID, c Codec) {
	registry[id] = c
}
