package ndarray

import (
	"github.com/gocaterva/bstore/errs"
	"github.com/gocaterva/bstore/internal/msgpack"
)

// metaVersion is the "caterva" metalayer format version.
const metaVersion = 0

// MetalayerName is the fixed name under which array metadata is stored on
// the backing super-chunk.
const MetalayerName = "caterva"

// EncodeMetalayer serializes s as the "caterva" metalayer content: a msgpack
// fixarray of 5 (version, ndim, shape, chunkshape, blockshape). msgpack
// integers are always big-endian on the wire, which is what gives this
// metalayer its BE encoding — unlike the frame header's own fixed-offset
// fields, which are packed as raw little-endian bytes.
func EncodeMetalayer(s *Shape) []byte {
	enc := msgpack.NewEncoder()
	enc.Array(5)
	enc.Uint(metaVersion)
	enc.Uint(uint64(s.NDim))

	enc.Array(s.NDim)
	for i := 0; i < s.NDim; i++ {
		enc.Int(s.Shape[i])
	}

	enc.Array(s.NDim)
	for i := 0; i < s.NDim; i++ {
		enc.Int(int64(s.ChunkShape[i]))
	}

	enc.Array(s.NDim)
	for i := 0; i < s.NDim; i++ {
		enc.Int(int64(s.BlockShape[i]))
	}

	return enc.Bytes()
}

// DecodeMetalayer parses a "caterva" metalayer back into a Shape.
func DecodeMetalayer(data []byte) (*Shape, error) {
	dec := msgpack.NewDecoder(data)

	n, err := dec.ArrayHeader()
	if err != nil || n != 5 {
		return nil, errs.ErrCorruption
	}

	version, err := dec.Uint()
	if err != nil || version != metaVersion {
		return nil, errs.ErrFormatUnsupported
	}

	ndimU, err := dec.Uint()
	if err != nil {
		return nil, err
	}
	ndim := int(ndimU)

	shape, err := decodeI64Array(dec, ndim)
	if err != nil {
		return nil, err
	}
	chunkShape, err := decodeI32Array(dec, ndim)
	if err != nil {
		return nil, err
	}
	blockShape, err := decodeI32Array(dec, ndim)
	if err != nil {
		return nil, err
	}

	return NewShape(shape, chunkShape, blockShape)
}

func decodeI64Array(dec *msgpack.Decoder, ndim int) ([]int64, error) {
	n, err := dec.ArrayHeader()
	if err != nil || n != ndim {
		return nil, errs.ErrCorruption
	}
	out := make([]int64, ndim)
	for i := range out {
		v, err := dec.Uint()
		if err != nil {
			return nil, err
		}
		out[i] = int64(v)
	}

	return out, nil
}

func decodeI32Array(dec *msgpack.Decoder, ndim int) ([]int32, error) {
	n, err := dec.ArrayHeader()
	if err != nil || n != ndim {
		return nil, errs.ErrCorruption
	}
	out := make([]int32, ndim)
	for i := range out {
		v, err := dec.Uint()
		if err != nil {
			return nil, err
		}
		out[i] = int32(v)
	}

	return out, nil
}
