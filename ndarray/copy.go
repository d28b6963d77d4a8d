package ndarray

import (
	"github.com/gocaterva/bstore/ctx"
	"github.com/gocaterva/bstore/schunk"
)

// Copy creates a new array with storage's chunkshape/blockshape holding the
// same data as src (caterva_copy). When storage matches src's own
// chunkshape/blockshape exactly, every chunk is imported without a
// decompress/recompress round trip; otherwise src is decompressed whole and
// written into a new zero-filled array with one SetSliceBuffer call.
func Copy(src *Array, storage Storage, cp ctx.CParams, dp ctx.DParams) (*Array, error) {
	shape := append([]int64(nil), src.Shape.Shape[:src.Shape.NDim]...)

	if sameStorage(src.Shape, storage) {
		s2, err := NewShape(shape, storage.ChunkShape, storage.BlockShape)
		if err != nil {
			return nil, err
		}

		cp.Typesize = src.Itemsize
		chunkBytes := int(s2.ChunkNItems()) * src.Itemsize
		sc := schunk.New(cp, dp, chunkBytes)

		for i := 0; i < src.SChunk.NumChunks(); i++ {
			c, err := src.SChunk.GetChunk(i)
			if err != nil {
				return nil, err
			}
			if err := sc.ImportChunk(c); err != nil {
				return nil, err
			}
		}
		if err := sc.MetaAdd(MetalayerName, EncodeMetalayer(s2)); err != nil {
			return nil, err
		}

		return &Array{Shape: s2, Itemsize: src.Itemsize, SChunk: sc}, nil
	}

	dst, err := Zeros(shape, storage, src.Itemsize, cp, dp)
	if err != nil {
		return nil, err
	}

	buf, err := src.ToBuffer()
	if err != nil {
		return nil, err
	}

	start := make([]int64, dst.Shape.NDim)
	stop := append([]int64(nil), shape...)
	if err := dst.SetSliceBuffer(buf, stop, start, stop); err != nil {
		return nil, err
	}

	return dst, nil
}

func sameStorage(s *Shape, storage Storage) bool {
	if len(storage.ChunkShape) != s.NDim || len(storage.BlockShape) != s.NDim {
		return false
	}
	for i := 0; i < s.NDim; i++ {
		if storage.ChunkShape[i] != s.ChunkShape[i] || storage.BlockShape[i] != s.BlockShape[i] {
			return false
		}
	}

	return true
}
