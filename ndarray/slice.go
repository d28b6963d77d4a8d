package ndarray

import (
	"github.com/gocaterva/bstore/errs"
	"github.com/gocaterva/bstore/format"
)

// GetSliceBuffer decompresses the [start,stop) region of a into dst in
// row-major order (caterva_get_slice_buffer). Chunks entirely outside the
// region are never decompressed.
func (a *Array) GetSliceBuffer(start, stop []int64, dst []byte) error {
	if err := a.validateRange(start, stop); err != nil {
		return err
	}

	want := itemCount(a.Shape.NDim, start, stop) * int64(a.Itemsize)
	if int64(len(dst)) < want {
		return errs.ErrBufferTooSmall
	}

	return a.forEachOverlappingChunk(start, stop, func(nchunk int, chunkStart [format.MaxDim]int64) error {
		chunkData, err := a.decompressChunk(nchunk)
		if err != nil {
			return err
		}

		copyNDimRegion(a.Shape, a.Itemsize, chunkData, chunkStart, dst, start, stop, false)

		return nil
	})
}

// SetSliceBuffer writes src into the [start,stop) region of a, recompressing
// every chunk it overlaps (caterva_set_slice_buffer). When a chunk is fully
// covered by the region its previous contents are never decompressed: the
// scratch buffer starts zeroed and is overwritten wholesale.
//
// inShape is src's own shape; this implementation requires it to equal
// stop-start exactly (the source buffer supplies precisely the region being
// written, as in every caller in this package) rather than supporting
// sub-indexing a larger source buffer.
func (a *Array) SetSliceBuffer(src []byte, inShape, start, stop []int64) error {
	if err := a.validateRange(start, stop); err != nil {
		return err
	}
	if len(inShape) != a.Shape.NDim {
		return errs.ErrInvalidShape
	}
	for i := 0; i < a.Shape.NDim; i++ {
		if inShape[i] != stop[i]-start[i] {
			return errs.ErrInvalidShape
		}
	}

	want := itemCount(a.Shape.NDim, start, stop) * int64(a.Itemsize)
	if int64(len(src)) < want {
		return errs.ErrBufferTooSmall
	}

	return a.forEachOverlappingChunk(start, stop, func(nchunk int, chunkStart [format.MaxDim]int64) error {
		var chunkData []byte
		full := chunkFullyCovered(a.Shape, chunkStart, start, stop)
		if full {
			chunkData = make([]byte, int(a.Shape.ChunkNItems())*a.Itemsize)
		} else {
			var err error
			chunkData, err = a.decompressChunk(nchunk)
			if err != nil {
				return err
			}
		}

		copyNDimRegion(a.Shape, a.Itemsize, chunkData, chunkStart, src, start, stop, true)

		_, err := a.SChunk.UpdateChunk(nchunk, chunkData)

		return err
	})
}

// validateRange checks start/stop are well-formed and within bounds.
func (a *Array) validateRange(start, stop []int64) error {
	if len(start) != a.Shape.NDim || len(stop) != a.Shape.NDim {
		return errs.ErrInvalidShape
	}
	for i := 0; i < a.Shape.NDim; i++ {
		if start[i] < 0 || stop[i] < start[i] || stop[i] > a.Shape.Shape[i] {
			return errs.ErrInvalidShape
		}
	}

	return nil
}

func itemCount(ndim int, start, stop []int64) int64 {
	var n int64 = 1
	for i := 0; i < ndim; i++ {
		n *= stop[i] - start[i]
	}

	return n
}

// forEachOverlappingChunk walks every chunk whose [chunkStart,chunkStart+
// chunkshape) region intersects [start,stop), invoking fn with the chunk's
// linear index and its per-axis start coordinate.
func (a *Array) forEachOverlappingChunk(start, stop []int64, fn func(nchunk int, chunkStart [format.MaxDim]int64) error) error {
	s := a.Shape
	chunksPerAxis := s.chunksInArray()

	var coord [format.MaxDim]int64
	total := s.NChunks()
	for linear := int64(0); linear < total; linear++ {
		unravel(s.NDim, chunksPerAxis, linear, &coord)

		var chunkStart [format.MaxDim]int64
		overlaps := true
		for i := 0; i < s.NDim; i++ {
			chunkStart[i] = coord[i] * int64(s.ChunkShape[i])
			chunkStop := chunkStart[i] + int64(s.ChunkShape[i])
			if chunkStop <= start[i] || chunkStart[i] >= stop[i] {
				overlaps = false
				break
			}
		}
		if !overlaps {
			continue
		}

		if err := fn(int(linear), chunkStart); err != nil {
			return err
		}
	}

	return nil
}

// chunkFullyCovered reports whether [start,stop) fully contains the chunk
// starting at chunkStart (so its previous content can be discarded instead
// of decompressed).
func chunkFullyCovered(s *Shape, chunkStart [format.MaxDim]int64, start, stop []int64) bool {
	for i := 0; i < s.NDim; i++ {
		chunkStop := chunkStart[i] + int64(s.ChunkShape[i])
		if chunkStop > s.Shape[i] {
			chunkStop = s.Shape[i]
		}
		if start[i] > chunkStart[i] || stop[i] < chunkStop {
			return false
		}
	}

	return true
}

func (a *Array) decompressChunk(nchunk int) ([]byte, error) {
	chunkBytes := int(a.Shape.ChunkNItems()) * a.Itemsize
	dst := make([]byte, chunkBytes)

	return a.SChunk.DecompressChunk(nchunk, dst)
}

// copyNDimRegion performs the ndim-dimensional memcpy behind
// GetSliceBuffer/SetSliceBuffer: for every array coordinate in
// [start,stop) that also falls within the chunk starting at chunkStart, one
// item is copied between src (at srcBase+local-offset-within-chunk, laid out
// chunkshape-major) and dst (at dstBase+offset-within-the-slice, laid out
// slice-shape-major). When invert is true the roles of src/dst are swapped
// (used by SetSliceBuffer, where the user buffer is the source).
func copyNDimRegion(s *Shape, itemsize int, chunkBuf []byte, chunkStart [format.MaxDim]int64, sliceBuf []byte, start, stop []int64, invert bool) {
	ndim := s.NDim

	var lo, hi [format.MaxDim]int64
	for i := 0; i < ndim; i++ {
		lo[i] = max(start[i], chunkStart[i])
		chunkStop := chunkStart[i] + int64(s.ChunkShape[i])
		hi[i] = min(stop[i], chunkStop)
		if lo[i] >= hi[i] {
			return
		}
	}

	// Chunk-local strides (row-major over ChunkShape).
	var chunkStrides [format.MaxDim]int64
	chunkStrides[ndim-1] = 1
	for i := ndim - 2; i >= 0; i-- {
		chunkStrides[i] = chunkStrides[i+1] * int64(s.ChunkShape[i+1])
	}

	// Slice-local strides (row-major over stop-start).
	var sliceStrides [format.MaxDim]int64
	sliceStrides[ndim-1] = 1
	for i := ndim - 2; i >= 0; i-- {
		sliceStrides[i] = sliceStrides[i+1] * (stop[i+1] - start[i+1])
	}

	var coord [format.MaxDim]int64
	copy(coord[:], lo[:])

	for {
		var chunkOff, sliceOff int64
		for i := 0; i < ndim; i++ {
			chunkOff += (coord[i] - chunkStart[i]) * chunkStrides[i]
			sliceOff += (coord[i] - start[i]) * sliceStrides[i]
		}
		chunkByte := chunkOff * int64(itemsize)
		sliceByte := sliceOff * int64(itemsize)

		if invert {
			copy(chunkBuf[chunkByte:chunkByte+int64(itemsize)], sliceBuf[sliceByte:sliceByte+int64(itemsize)])
		} else {
			copy(sliceBuf[sliceByte:sliceByte+int64(itemsize)], chunkBuf[chunkByte:chunkByte+int64(itemsize)])
		}

		// Odometer increment over [lo,hi) across all axes.
		axis := ndim - 1
		for axis >= 0 {
			coord[axis]++
			if coord[axis] < hi[axis] {
				break
			}
			coord[axis] = lo[axis]
			axis--
		}
		if axis < 0 {
			return
		}
	}
}

