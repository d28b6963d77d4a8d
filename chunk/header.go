// Package chunk implements the blosc2 chunk codec: the 32-byte extended
// header, the filter-pipeline + codec compress/decompress path,
// and the special/lazy chunk variants.
package chunk

import (
	"github.com/gocaterva/bstore/endian"
	"github.com/gocaterva/bstore/errs"
	"github.com/gocaterva/bstore/format"
)

// headerMagic is the version byte identifying this container's chunk format;
// it occupies the same offset as blosc2's "version" field.
const headerMagic = 2

// Header is the fixed 32-byte extended chunk header. Every field is
// stored little-endian on the wire regardless of host endianness, matching
// the original C library's on-disk format.
type Header struct {
	Version    uint8
	VersionLZ  uint8
	Flags      Flags
	Typesize   uint8
	NBytes     uint32 // uncompressed size
	BlockSize  uint32
	CBytes     uint32 // total compressed size, header included
	Blosc2Meta Blosc2Meta
}

// Blosc2Meta packs the extended-header fields introduced on top of the
// original 16-byte blosc1 header: the filter pipeline and the codec id +
// sub-level used for this chunk.
type Blosc2Meta struct {
	Filters     [format.MaxFilters]format.FilterID
	FilterMetas [format.MaxFilters]byte
	Codec       format.CodecID
	CodecSubLevel uint8
}

// wireEngine is the fixed byte order of every on-disk chunk header,
// independent of host endianness or caller preference. No layer negotiates
// endianness: the frame header's fixed fields are little-endian too, and only
// the msgpack-encoded values (metalayer tables, the caterva metalayer) are
// big-endian.
var wireEngine = endian.GetLittleEndianEngine()

// Parse decodes a Header from the first format.HeaderSize bytes of data.
func (h *Header) Parse(data []byte) error {
	if len(data) < format.HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	h.Version = data[0]
	h.VersionLZ = data[1]
	if err := h.Flags.Parse(data[2]); err != nil {
		return err
	}
	h.Typesize = data[3]

	h.NBytes = wireEngine.Uint32(data[4:8])
	h.BlockSize = wireEngine.Uint32(data[8:12])
	h.CBytes = wireEngine.Uint32(data[12:16])

	for i := 0; i < format.MaxFilters; i++ {
		h.Blosc2Meta.Filters[i] = format.FilterID(data[16+i])
	}
	for i := 0; i < format.MaxFilters; i++ {
		h.Blosc2Meta.FilterMetas[i] = data[22+i]
	}
	h.Blosc2Meta.Codec = format.CodecID(data[28])
	h.Blosc2Meta.CodecSubLevel = data[29]
	// data[30:32] reserved for forward-compatible flags.

	if h.Version != headerMagic {
		return errs.ErrFormatUnsupported
	}

	return nil
}

// Bytes serializes h into a freshly allocated format.HeaderSize-byte slice.
func (h *Header) Bytes() []byte {
	b := make([]byte, format.HeaderSize)

	b[0] = h.Version
	b[1] = h.VersionLZ
	b[2] = h.Flags.Byte()
	b[3] = h.Typesize

	wireEngine.PutUint32(b[4:8], h.NBytes)
	wireEngine.PutUint32(b[8:12], h.BlockSize)
	wireEngine.PutUint32(b[12:16], h.CBytes)

	for i := 0; i < format.MaxFilters; i++ {
		b[16+i] = byte(h.Blosc2Meta.Filters[i])
	}
	for i := 0; i < format.MaxFilters; i++ {
		b[22+i] = h.Blosc2Meta.FilterMetas[i]
	}
	b[28] = byte(h.Blosc2Meta.Codec)
	b[29] = h.Blosc2Meta.CodecSubLevel

	return b
}

// NBlocks returns how many blocks h.NBytes splits into given h.BlockSize.
func (h *Header) NBlocks() int {
	if h.BlockSize == 0 {
		return 0
	}

	return int((h.NBytes + h.BlockSize - 1) / h.BlockSize)
}
