package ndarray

import (
	"sort"

	"github.com/gocaterva/bstore/errs"
)

// GetOrthogonalSelection gathers items at the cartesian product of indices
// (one sorted, possibly-duplicate-free index list per axis) into dst, in the
// row-major order of the index lists themselves. This is the "orthogonal
// selection" mode: unlike GetSliceBuffer's contiguous range per axis, each
// axis here supplies its own arbitrary (but sorted) set of coordinates.
//
// The whole array is decompressed once up front; real caterva restricts
// per-block decompression to blocks that intersect at least one selected
// coordinate, an optimization this rewrite does not attempt.
func (a *Array) GetOrthogonalSelection(indices [][]int64, dst []byte) error {
	if len(indices) != a.Shape.NDim {
		return errs.ErrInvalidShape
	}
	for i, idx := range indices {
		if !sort.SliceIsSorted(idx, func(x, y int) bool { return idx[x] < idx[y] }) {
			return errs.ErrInvalidParam
		}
		for _, v := range idx {
			if v < 0 || v >= a.Shape.Shape[i] {
				return errs.ErrInvalidShape
			}
		}
	}

	var outItems int64 = 1
	for _, idx := range indices {
		outItems *= int64(len(idx))
	}
	want := outItems * int64(a.Itemsize)
	if int64(len(dst)) < want {
		return errs.ErrBufferTooSmall
	}

	if outItems == 0 {
		return nil
	}

	src, err := a.ToBuffer()
	if err != nil {
		return err
	}

	srcStrides := make([]int64, a.Shape.NDim)
	srcStrides[a.Shape.NDim-1] = 1
	for i := a.Shape.NDim - 2; i >= 0; i-- {
		srcStrides[i] = srcStrides[i+1] * a.Shape.Shape[i+1]
	}

	outStrides := make([]int64, a.Shape.NDim)
	outStrides[a.Shape.NDim-1] = 1
	for i := a.Shape.NDim - 2; i >= 0; i-- {
		outStrides[i] = outStrides[i+1] * int64(len(indices[i+1]))
	}

	coord := make([]int64, a.Shape.NDim)
	for {
		var srcOff, outOff int64
		for i := 0; i < a.Shape.NDim; i++ {
			srcOff += indices[i][coord[i]] * srcStrides[i]
			outOff += coord[i] * outStrides[i]
		}
		srcByte := srcOff * int64(a.Itemsize)
		outByte := outOff * int64(a.Itemsize)
		copy(dst[outByte:outByte+int64(a.Itemsize)], src[srcByte:srcByte+int64(a.Itemsize)])

		axis := a.Shape.NDim - 1
		for axis >= 0 {
			coord[axis]++
			if coord[axis] < int64(len(indices[axis])) {
				break
			}
			coord[axis] = 0
			axis--
		}
		if axis < 0 {
			return nil
		}
	}
}
