package ndarray

import (
	"github.com/gocaterva/bstore/chunk"
	"github.com/gocaterva/bstore/errs"
	"github.com/gocaterva/bstore/format"
	"github.com/gocaterva/bstore/schunk"
)

// Resize changes a's shape along exactly one axis (caterva_resize). When
// start is nil, growth is appended at the high end and shrinkage removes
// from the high end; when start is given, growth is inserted at start and
// shrinkage removes from start, and start must be a multiple of
// chunkshape[axis] unless the cut reaches the array's current end (the same
// rule caterva_resize enforces).
//
// This rewrite scopes caterva_resize's genuinely N-axis-at-once signature
// down to one axis per call — every real caller in this package (Insert,
// Append, Delete) only ever varies one axis, and supporting arbitrary
// simultaneous multi-axis resizes would require the same chunk-grid
// remapping below composed across axes, which no operation here needs.
func (a *Array) Resize(newShape []int64, start []int64) error {
	old := a.Shape
	if len(newShape) != old.NDim {
		return errs.ErrInvalidShape
	}

	axis := -1
	for i := 0; i < old.NDim; i++ {
		if newShape[i] != old.Shape[i] {
			if axis >= 0 {
				return errs.ErrInvalidParam
			}
			axis = i
		}
	}
	if axis < 0 {
		return nil
	}

	chunkLen := int64(old.ChunkShape[axis])
	growing := newShape[axis] > old.Shape[axis]

	var alignedStart int64
	if start == nil {
		if growing {
			alignedStart = old.Shape[axis]
		} else {
			alignedStart = newShape[axis]
		}
	} else {
		if len(start) != old.NDim {
			return errs.ErrInvalidShape
		}
		alignedStart = start[axis]
		atEnd := alignedStart == old.Shape[axis] || alignedStart == newShape[axis]
		if !atEnd && alignedStart%chunkLen != 0 {
			return errs.ErrUnalignedResize
		}
	}

	chunkShapeSlice := make([]int32, old.NDim)
	blockShapeSlice := make([]int32, old.NDim)
	for i := 0; i < old.NDim; i++ {
		chunkShapeSlice[i] = old.ChunkShape[i]
		blockShapeSlice[i] = old.BlockShape[i]
	}

	s2, err := NewShape(newShape, chunkShapeSlice, blockShapeSlice)
	if err != nil {
		return err
	}

	chunkShiftStart := alignedStart / chunkLen
	oldAxisChunks := old.ExtShape[axis] / chunkLen
	newAxisChunks := s2.ExtShape[axis] / chunkLen
	var shiftChunks int64
	if growing {
		shiftChunks = newAxisChunks - oldAxisChunks
	} else {
		shiftChunks = oldAxisChunks - newAxisChunks
	}

	chunkBytes := int(old.ChunkNItems()) * a.Itemsize
	sc2 := schunk.New(a.SChunk.CParams, a.SChunk.DParams, chunkBytes)

	s2ChunksPerAxis := s2.chunksInArray()

	var coord [format.MaxDim]int64
	total := s2.NChunks()
	for linear := int64(0); linear < total; linear++ {
		unravel(s2.NDim, s2ChunksPerAxis, linear, &coord)

		oldCoord := coord
		isNew := false
		if growing {
			if coord[axis] >= chunkShiftStart && coord[axis] < chunkShiftStart+shiftChunks {
				isNew = true
			} else if coord[axis] >= chunkShiftStart+shiftChunks {
				oldCoord[axis] = coord[axis] - shiftChunks
			}
		} else {
			if coord[axis] >= chunkShiftStart {
				oldCoord[axis] = coord[axis] + shiftChunks
			}
		}

		if isNew {
			data, err := chunk.MakeSpecial(format.SpecialZero, chunkBytes, a.Itemsize, nil)
			if err != nil {
				return err
			}
			c, err := chunk.Parse(data)
			if err != nil {
				return err
			}
			if err := sc2.ImportChunk(c); err != nil {
				return err
			}

			continue
		}

		oldLinear := ravel(old.NDim, old.ChunkArrayStrides, oldCoord)
		c, err := a.SChunk.GetChunk(int(oldLinear))
		if err != nil {
			return err
		}
		if err := sc2.ImportChunk(c); err != nil {
			return err
		}
	}

	for _, name := range a.SChunk.MetaNames() {
		if name == MetalayerName {
			continue
		}
		v, _ := a.SChunk.MetaGet(name)
		if err := sc2.MetaAdd(name, v); err != nil {
			return err
		}
	}
	for _, name := range a.SChunk.VLMetaNames() {
		v, _ := a.SChunk.VLMetaGet(name)
		if err := sc2.VLMetaAdd(name, v); err != nil {
			return err
		}
	}
	if err := sc2.MetaAdd(MetalayerName, EncodeMetalayer(s2)); err != nil {
		return err
	}

	a.Shape = s2
	a.SChunk = sc2

	return nil
}

// Insert grows axis by the number of items buffer represents and writes
// buffer into the newly-created region starting at insertStart
// (caterva_insert).
func (a *Array) Insert(buffer []byte, axis int, insertStart int64) error {
	if axis < 0 || axis >= a.Shape.NDim {
		return errs.ErrInvalidParam
	}

	axisItems := int64(a.Itemsize)
	for i := 0; i < a.Shape.NDim; i++ {
		if i != axis {
			axisItems *= a.Shape.Shape[i]
		}
	}
	if axisItems == 0 || int64(len(buffer))%axisItems != 0 {
		return errs.ErrInvalidParam
	}
	grow := int64(len(buffer)) / axisItems

	newShape := append([]int64(nil), a.Shape.Shape[:a.Shape.NDim]...)
	newShape[axis] += grow

	start := make([]int64, a.Shape.NDim)
	start[axis] = insertStart

	if insertStart == a.Shape.Shape[axis] {
		if err := a.Resize(newShape, nil); err != nil {
			return err
		}
	} else if err := a.Resize(newShape, start); err != nil {
		return err
	}

	stop := append([]int64(nil), a.Shape.Shape[:a.Shape.NDim]...)
	stop[axis] = start[axis] + grow

	inShape := append([]int64(nil), a.Shape.Shape[:a.Shape.NDim]...)
	inShape[axis] = grow
	for i := 0; i < a.Shape.NDim; i++ {
		if i != axis {
			inShape[i] = stop[i] - start[i]
		}
	}

	return a.SetSliceBuffer(buffer, inShape, start, stop)
}

// Append inserts buffer at the current high end of axis (caterva_append).
func (a *Array) Append(buffer []byte, axis int) error {
	if axis < 0 || axis >= a.Shape.NDim {
		return errs.ErrInvalidParam
	}

	return a.Insert(buffer, axis, a.Shape.Shape[axis])
}

// Delete removes deleteLen items from axis starting at deleteStart
// (caterva_delete).
func (a *Array) Delete(axis int, deleteStart, deleteLen int64) error {
	if axis < 0 || axis >= a.Shape.NDim {
		return errs.ErrInvalidParam
	}

	newShape := append([]int64(nil), a.Shape.Shape[:a.Shape.NDim]...)
	newShape[axis] -= deleteLen

	if deleteStart == a.Shape.Shape[axis]-deleteLen {
		return a.Resize(newShape, nil)
	}

	start := make([]int64, a.Shape.NDim)
	start[axis] = deleteStart

	return a.Resize(newShape, start)
}

// Squeeze removes unit-length dimensions, re-serializing the "caterva"
// metalayer with the surviving dimensions (caterva_squeeze).
func (a *Array) Squeeze() error {
	var shape []int64
	var chunkShape, blockShape []int32
	for i := 0; i < a.Shape.NDim; i++ {
		if a.Shape.Shape[i] != 1 {
			shape = append(shape, a.Shape.Shape[i])
			chunkShape = append(chunkShape, a.Shape.ChunkShape[i])
			blockShape = append(blockShape, a.Shape.BlockShape[i])
		}
	}
	if len(shape) == 0 {
		shape = []int64{1}
		chunkShape = []int32{1}
		blockShape = []int32{1}
	}

	s, err := NewShape(shape, chunkShape, blockShape)
	if err != nil {
		return err
	}

	if err := a.SChunk.MetaReplace(MetalayerName, EncodeMetalayer(s)); err != nil {
		return err
	}
	a.Shape = s

	return nil
}
