// Package bstore provides a blocked, shuffled, parallel-compression
// container: data is split into blocks, each block optionally passed
// through a shuffle/delta filter and a pluggable codec, and blocks are
// grouped into chunks that a super-chunk collects in order.
//
// # Basic usage
//
// Compressing and decompressing one chunk directly:
//
//	cp, _ := ctx.NewCParams(ctx.WithTypesize(4), ctx.WithCodec(format.CodecZstd))
//	data, _ := bstore.Compress(cp, src)
//	out, _ := bstore.Decompress(ctx.DefaultDParams(), data, nil)
//
// Building a super-chunk and saving it as a frame:
//
//	sc := bstore.NewSChunk(cp, ctx.DefaultDParams(), 0)
//	sc.AppendChunk(block0)
//	sc.AppendChunk(block1)
//	bstore.SaveContiguous("out.b2frame", sc, nil)
//
// Reopening it later:
//
//	sc2, _ := bstore.OpenContiguous("out.b2frame")
//
// For N-dimensional arrays, see the ndarray package directly; for sparse
// (directory-backed) frames and custom I/O plugins, see frame and ioplugin.
package bstore

import (
	"github.com/gocaterva/bstore/chunk"
	"github.com/gocaterva/bstore/ctx"
	"github.com/gocaterva/bstore/frame"
	"github.com/gocaterva/bstore/hooks"
	"github.com/gocaterva/bstore/ioplugin"
	"github.com/gocaterva/bstore/schunk"
)

// Compress compresses src into one wire-format chunk under cp.
func Compress(cp ctx.CParams, src []byte) ([]byte, error) {
	cctx := ctx.NewCompressContext(cp.Freeze())
	c, err := chunk.Compress(cctx, src)
	if err != nil {
		return nil, err
	}

	return c.Data, nil
}

// Decompress decompresses a wire-format chunk produced by Compress into dst,
// allocating a new buffer when dst is nil or too small.
func Decompress(dp ctx.DParams, data []byte, dst []byte) ([]byte, error) {
	c, err := chunk.Parse(data)
	if err != nil {
		return nil, err
	}

	dctx := ctx.NewDecompressContext(dp)

	return chunk.Decompress(dctx, c, dst)
}

// NewSChunk creates an empty super-chunk: an ordered collection of chunks
// sharing one set of compression parameters.
func NewSChunk(cp ctx.CParams, dp ctx.DParams, chunkSize int) *schunk.SChunk {
	return schunk.New(cp, dp, chunkSize)
}

// SaveContiguous serializes sc as a single contiguous frame file at path.
func SaveContiguous(path string, sc *schunk.SChunk, hset *hooks.HookSet) error {
	io, err := ioplugin.OpenFile(path)
	if err != nil {
		return err
	}
	defer io.Close()

	return frame.WriteContiguous(io, sc, hset)
}

// OpenContiguous reopens a super-chunk from a contiguous frame file at path.
func OpenContiguous(path string) (*schunk.SChunk, error) {
	io, err := ioplugin.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer io.Close()

	return frame.ReadContiguous(io)
}

// SaveSparse serializes sc as a sparse frame directory at dir.
func SaveSparse(dir string, sc *schunk.SChunk, hset *hooks.HookSet) error {
	return frame.WriteSparse(dir, sc, hset)
}

// OpenSparse reopens a super-chunk from a sparse frame directory at dir.
func OpenSparse(dir string) (*schunk.SChunk, error) {
	return frame.ReadSparse(dir)
}
