// Package frame implements the on-disk/in-memory frame: the serialized form
// of a super-chunk, either as one contiguous blob or as a sparse directory of
// per-chunk files.
package frame

import (
	"github.com/gocaterva/bstore/errs"
	"github.com/gocaterva/bstore/format"
	"github.com/gocaterva/bstore/internal/msgpack"
)

var magic = [4]byte{'b', 's', 'f', '2'}

// fixedHeaderSize is the size of the fixed-offset prefix preceding the
// msgpack-encoded metalayer table.
const fixedHeaderSize = 40

// Header is the frame header: a handful of fixed-offset fields for O(1)
// access (nbytes, cbytes, chunksize, typesize, frame type, offsets-chunk
// start) followed by a msgpack-encoded metalayer table.
type Header struct {
	HeaderLen     uint32
	NBytes        int64
	CBytes        int64
	ChunkSize     uint32
	Typesize      uint8
	FrameType     format.FrameType
	HasVLMeta     bool
	OffsetsStart  int64 // byte offset of the offsets chunk within the frame

	// Metalayers preserves insertion order; values are raw content bytes.
	MetalayerNames   []string
	MetalayerValues  [][]byte
}

// encode serializes h, including its metalayer table, into a new byte slice.
func (h *Header) encode() []byte {
	enc := msgpack.NewEncoder()
	enc.Map(len(h.MetalayerNames))
	for i, name := range h.MetalayerNames {
		enc.Str(name)
		enc.Bin(h.MetalayerValues[i])
	}
	body := enc.Bytes()

	total := fixedHeaderSize + len(body)
	out := make([]byte, fixedHeaderSize, total)
	copy(out[0:4], magic[:])
	putU32(out[4:8], uint32(total))
	putI64(out[8:16], h.NBytes)
	putI64(out[16:24], h.CBytes)
	putU32(out[24:28], h.ChunkSize)
	out[28] = h.Typesize
	out[29] = byte(h.FrameType)
	if h.HasVLMeta {
		out[30] = 1
	}
	// out[31] reserved.
	putI64(out[32:40], h.OffsetsStart)

	return append(out, body...)
}

// decodeHeader parses a frame header from the start of data.
func decodeHeader(data []byte) (*Header, error) {
	if len(data) < fixedHeaderSize {
		return nil, errs.ErrInvalidHeaderSize
	}
	if string(data[0:4]) != string(magic[:]) {
		return nil, errs.ErrInvalidMagicNumber
	}

	h := &Header{}
	h.HeaderLen = getU32(data[4:8])
	h.NBytes = getI64(data[8:16])
	h.CBytes = getI64(data[16:24])
	h.ChunkSize = getU32(data[24:28])
	h.Typesize = data[28]
	h.FrameType = format.FrameType(data[29])
	h.HasVLMeta = data[30] != 0
	h.OffsetsStart = getI64(data[32:40])

	if int(h.HeaderLen) > len(data) {
		return nil, errs.ErrCorruption
	}

	dec := msgpack.NewDecoder(data[fixedHeaderSize:h.HeaderLen])
	n, err := dec.MapHeader()
	if err != nil {
		return nil, err
	}
	h.MetalayerNames = make([]string, n)
	h.MetalayerValues = make([][]byte, n)
	for i := 0; i < n; i++ {
		name, err := dec.Str()
		if err != nil {
			return nil, err
		}
		val, err := dec.Bin()
		if err != nil {
			return nil, err
		}
		h.MetalayerNames[i] = name
		h.MetalayerValues[i] = append([]byte(nil), val...)
	}

	return h, nil
}

func putU32(b []byte, v uint32) {
	b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
}

func getU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putI64(b []byte, v int64) {
	u := uint64(v)
	for i := 0; i < 8; i++ {
		b[i] = byte(u >> (8 * i))
	}
}

func getI64(b []byte) int64 {
	var u uint64
	for i := 0; i < 8; i++ {
		u |= uint64(b[i]) << (8 * i)
	}

	return int64(u)
}
