package ndarray

import (
	"github.com/gocaterva/bstore/ctx"
	"github.com/gocaterva/bstore/errs"
	"github.com/gocaterva/bstore/format"
	"github.com/gocaterva/bstore/schunk"
)

// Storage groups the two parameters a caller picks independently of shape:
// how items are grouped into chunks and how chunks are grouped into blocks.
type Storage struct {
	ChunkShape []int32
	BlockShape []int32
}

// Array is the N-dimensional view over a super-chunk: the super-chunk holds
// the compressed bytes, the Array adds the shape/stride bookkeeping and the
// "caterva" metalayer that lets a later Open reconstruct it.
type Array struct {
	Shape    *Shape
	Itemsize int
	SChunk   *schunk.SChunk

	// isView marks an Array constructed over a caller-owned super-chunk
	// (FromSChunk); Free leaves the super-chunk alive for views instead of
	// discarding it, matching caterva_free's "unless constructed as a view"
	// carve-out.
	isView bool
}

func newArray(shape []int64, storage Storage, itemsize int, cp ctx.CParams, dp ctx.DParams, kind format.SpecialKind, fillValue []byte) (*Array, error) {
	s, err := NewShape(shape, storage.ChunkShape, storage.BlockShape)
	if err != nil {
		return nil, err
	}
	if itemsize <= 0 {
		return nil, errs.ErrInvalidParam
	}

	cp.Typesize = itemsize
	chunkBytes := int(s.ChunkNItems()) * itemsize
	sc := schunk.New(cp, dp, chunkBytes)

	if s.NChunks() > 0 {
		extNItems := int64(1)
		for i := 0; i < s.NDim; i++ {
			extNItems *= s.ExtShape[i]
		}
		extBytes := int(extNItems) * itemsize

		if err := sc.FillSpecial(kind, extBytes, fillValue); err != nil {
			return nil, err
		}
	}

	meta := EncodeMetalayer(s)
	if err := sc.MetaAdd(MetalayerName, meta); err != nil {
		return nil, err
	}

	return &Array{Shape: s, Itemsize: itemsize, SChunk: sc}, nil
}

// Uninit creates an array whose chunks are special "uninitialized" markers:
// reads of never-written regions are undefined, but no bytes are actually
// stored (caterva_uninit, BLOSC2_SPECIAL_UNINIT).
func Uninit(shape []int64, storage Storage, itemsize int, cp ctx.CParams, dp ctx.DParams) (*Array, error) {
	return newArray(shape, storage, itemsize, cp, dp, format.SpecialUninit, nil)
}

// Empty creates an array pre-filled with zero special chunks. The original
// implementation chose zero over uninit here specifically to avoid chunks
// reporting variable compression ratios (see caterva_empty).
func Empty(shape []int64, storage Storage, itemsize int, cp ctx.CParams, dp ctx.DParams) (*Array, error) {
	return newArray(shape, storage, itemsize, cp, dp, format.SpecialZero, nil)
}

// Zeros creates an array pre-filled with zero special chunks (caterva_zeros).
func Zeros(shape []int64, storage Storage, itemsize int, cp ctx.CParams, dp ctx.DParams) (*Array, error) {
	return newArray(shape, storage, itemsize, cp, dp, format.SpecialZero, nil)
}

// Full creates an array whose items all equal fillValue (itemsize bytes),
// by materializing every chunk as a special VALUE chunk (caterva_full).
func Full(shape []int64, storage Storage, itemsize int, fillValue []byte, cp ctx.CParams, dp ctx.DParams) (*Array, error) {
	if len(fillValue) != itemsize {
		return nil, errs.ErrInvalidParam
	}

	return newArray(shape, storage, itemsize, cp, dp, format.SpecialValue, fillValue)
}

// FromBuffer creates an array matching shape/storage and immediately fills
// it from buf via SetSliceBuffer covering the whole array (caterva_from_buffer).
func FromBuffer(buf []byte, shape []int64, storage Storage, itemsize int, cp ctx.CParams, dp ctx.DParams) (*Array, error) {
	a, err := Uninit(shape, storage, itemsize, cp, dp)
	if err != nil {
		return nil, err
	}

	start := make([]int64, a.Shape.NDim)
	stop := append([]int64(nil), a.Shape.Shape[:a.Shape.NDim]...)
	if err := a.SetSliceBuffer(buf, stop, start, stop); err != nil {
		return nil, err
	}

	return a, nil
}

// FromSChunk wraps an existing super-chunk carrying a "caterva" metalayer as
// an Array view; the super-chunk is not released by Free (caterva_from_schunk).
func FromSChunk(sc *schunk.SChunk) (*Array, error) {
	meta, ok := sc.MetaGet(MetalayerName)
	if !ok {
		return nil, errs.ErrMetalayerNotFound
	}
	s, err := DecodeMetalayer(meta)
	if err != nil {
		return nil, err
	}

	return &Array{Shape: s, Itemsize: sc.CParams.Typesize, SChunk: sc, isView: true}, nil
}

// ToBuffer decompresses the whole array into a newly-allocated buffer in
// row-major order (caterva_to_buffer via get_slice_buffer over the full
// shape).
func (a *Array) ToBuffer() ([]byte, error) {
	start := make([]int64, a.Shape.NDim)
	stop := append([]int64(nil), a.Shape.Shape[:a.Shape.NDim]...)

	n := a.Shape.NItems() * int64(a.Itemsize)
	out := make([]byte, n)
	if err := a.GetSliceBuffer(start, stop, out); err != nil {
		return nil, err
	}

	return out, nil
}

// Free releases the array's resources. For a view constructed via
// FromSChunk the backing super-chunk is left alone; for every other
// constructor it is the array's sole owner and is discarded here
// (caterva_free's "unless the array was constructed as a view").
func (a *Array) Free() {
	if a.isView {
		return
	}
	a.SChunk = nil
}
