// Package ndarray implements the N-dimensional array layer (the "caterva"
// layer) built over a super-chunk: shape/chunkshape/blockshape
// bookkeeping, slice get/set, orthogonal selection, and resize/insert/
// append/delete/squeeze along one axis.
package ndarray

import (
	"github.com/gocaterva/bstore/errs"
	"github.com/gocaterva/bstore/format"
)

// Shape holds the dimension metadata of an Array: the logical shape, the
// per-chunk and per-block shapes, and the derived extended shapes padded up
// to a whole number of chunks/blocks — everything caterva_update_shape
// computes for the C struct, grouped into one value so Array can hold it by
// value and copy it cheaply on resize.
type Shape struct {
	NDim       int
	Shape      [format.MaxDim]int64
	ChunkShape [format.MaxDim]int32
	BlockShape [format.MaxDim]int32

	ExtShape      [format.MaxDim]int64
	ExtChunkShape [format.MaxDim]int32

	// Strides, one array per stride table: item->array,
	// item→extchunk, item→chunk, item→block, block→chunk, chunk→array.
	ItemArrayStrides    [format.MaxDim]int64
	ItemExtChunkStrides [format.MaxDim]int64
	ItemChunkStrides    [format.MaxDim]int64
	ItemBlockStrides    [format.MaxDim]int64
	BlockChunkStrides   [format.MaxDim]int64
	ChunkArrayStrides   [format.MaxDim]int64
}

// NItems returns the product of Shape[:NDim].
func (s *Shape) NItems() int64 {
	var n int64 = 1
	for i := 0; i < s.NDim; i++ {
		n *= s.Shape[i]
	}

	return n
}

// NChunks returns how many chunks the extended shape is divided into.
func (s *Shape) NChunks() int64 {
	var n int64 = 1
	for i := 0; i < s.NDim; i++ {
		if s.ChunkShape[i] == 0 {
			return 0
		}
		n *= s.ExtShape[i] / int64(s.ChunkShape[i])
	}

	return n
}

// ChunkNItems returns the product of ChunkShape[:NDim].
func (s *Shape) ChunkNItems() int64 {
	var n int64 = 1
	for i := 0; i < s.NDim; i++ {
		n *= int64(s.ChunkShape[i])
	}

	return n
}

// BlockNItems returns the product of BlockShape[:NDim].
func (s *Shape) BlockNItems() int64 {
	var n int64 = 1
	for i := 0; i < s.NDim; i++ {
		n *= int64(s.BlockShape[i])
	}

	return n
}

// NewShape validates and derives a Shape from ndim/shape/chunkshape/
// blockshape, matching caterva_update_shape's padding and stride rules
// (dimensions beyond ndim are logically 1).
func NewShape(shape []int64, chunkShape, blockShape []int32) (*Shape, error) {
	ndim := len(shape)
	if ndim < 1 || ndim > format.MaxDim {
		return nil, errs.ErrInvalidNDim
	}
	if len(chunkShape) != ndim || len(blockShape) != ndim {
		return nil, errs.ErrInvalidShape
	}

	s := &Shape{NDim: ndim}
	for i := 0; i < format.MaxDim; i++ {
		if i < ndim {
			if blockShape[i] > chunkShape[i] {
				return nil, errs.ErrBlockExceedsChunk
			}
			if blockShape[i] <= 0 || chunkShape[i] <= 0 || shape[i] < 0 {
				return nil, errs.ErrInvalidShape
			}

			s.Shape[i] = shape[i]
			s.ChunkShape[i] = chunkShape[i]
			s.BlockShape[i] = blockShape[i]

			if shape[i] != 0 {
				if shape[i]%int64(chunkShape[i]) == 0 {
					s.ExtShape[i] = shape[i]
				} else {
					s.ExtShape[i] = shape[i] + int64(chunkShape[i]) - shape[i]%int64(chunkShape[i])
				}
				if chunkShape[i]%blockShape[i] == 0 {
					s.ExtChunkShape[i] = chunkShape[i]
				} else {
					s.ExtChunkShape[i] = chunkShape[i] + blockShape[i] - chunkShape[i]%blockShape[i]
				}
			}
		} else {
			s.Shape[i] = 1
			s.ChunkShape[i] = 1
			s.BlockShape[i] = 1
			s.ExtShape[i] = 1
			s.ExtChunkShape[i] = 1
		}
	}

	s.computeStrides()

	return s, nil
}

func (s *Shape) computeStrides() {
	n := format.MaxDim
	s.ItemArrayStrides[n-1] = 1
	s.ItemExtChunkStrides[n-1] = 1
	s.ItemChunkStrides[n-1] = 1
	s.ItemBlockStrides[n-1] = 1
	s.BlockChunkStrides[n-1] = 1

	for i := n - 2; i >= 0; i-- {
		s.ItemArrayStrides[i] = s.ItemArrayStrides[i+1] * s.Shape[i+1]
		s.ItemExtChunkStrides[i] = s.ItemExtChunkStrides[i+1] * int64(s.ExtChunkShape[i+1])
		s.ItemChunkStrides[i] = s.ItemChunkStrides[i+1] * int64(s.ChunkShape[i+1])
		s.ItemBlockStrides[i] = s.ItemBlockStrides[i+1] * int64(s.BlockShape[i+1])
		if s.BlockShape[i+1] != 0 {
			s.BlockChunkStrides[i] = s.BlockChunkStrides[i+1] * int64(s.ExtChunkShape[i+1]/s.BlockShape[i+1])
		}
	}

	// chunk_array_strides, unlike the other tables, is rebuilt from
	// chunksInArray() (chunk counts per axis) rather than threaded through
	// the i+1 recurrence above — nchunk<->coordinate conversions in slice.go
	// need the stride to genuinely reflect "chunks per axis", and deriving it
	// straight from chunksInArray keeps that correct under ndim<MaxDim
	// padding without relying on the recurrence picking up the right base.
	chunks := s.chunksInArray()
	s.ChunkArrayStrides[n-1] = 1
	for i := n - 2; i >= 0; i-- {
		s.ChunkArrayStrides[i] = s.ChunkArrayStrides[i+1] * chunks[i+1]
	}
}

// chunksInArray returns, per axis, how many chunks the extended shape holds.
func (s *Shape) chunksInArray() [format.MaxDim]int64 {
	var out [format.MaxDim]int64
	for i := 0; i < s.NDim; i++ {
		out[i] = s.ExtShape[i] / int64(s.ChunkShape[i])
	}

	return out
}

// blocksInChunk returns, per axis, how many blocks one chunk holds.
func (s *Shape) blocksInChunk() [format.MaxDim]int64 {
	var out [format.MaxDim]int64
	for i := 0; i < s.NDim; i++ {
		out[i] = int64(s.ExtChunkShape[i]) / int64(s.BlockShape[i])
	}

	return out
}

// unravel converts a linear index into per-axis coordinates under dims,
// matching blosc2_unidim_to_multidim (most significant axis first).
func unravel(ndim int, dims [format.MaxDim]int64, idx int64, out *[format.MaxDim]int64) {
	for i := ndim - 1; i >= 0; i-- {
		if dims[i] == 0 {
			out[i] = 0
			continue
		}
		out[i] = idx % dims[i]
		idx /= dims[i]
	}
}

// ravel converts per-axis coordinates under strides back into a linear
// index, matching blosc2_multidim_to_unidim.
func ravel(ndim int, strides [format.MaxDim]int64, coord [format.MaxDim]int64) int64 {
	var idx int64
	for i := 0; i < ndim; i++ {
		idx += coord[i] * strides[i]
	}

	return idx
}
