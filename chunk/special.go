package chunk

import (
	"github.com/gocaterva/bstore/errs"
	"github.com/gocaterva/bstore/format"
)

// MakeSpecial builds a special chunk: a header-only chunk (no block data)
// representing nbytes of ZERO, NaN, UNINIT, or a repeated VALUE. kind must
// not be format.SpecialNone. For SpecialValue, value must hold exactly
// typesize bytes — the single repeated element.
func MakeSpecial(kind format.SpecialKind, nbytes, typesize int, value []byte) ([]byte, error) {
	if kind == format.SpecialNone {
		return nil, errs.New(errs.ErrInvalidParam, "chunk.MakeSpecial").WithInfo("kind", kind)
	}
	if nbytes < 0 || typesize < 1 || typesize > format.MaxTypesize {
		return nil, errs.ErrInvalidParam
	}

	extra := 0
	if kind == format.SpecialValue {
		if len(value) != typesize {
			return nil, errs.New(errs.ErrInvalidParam, "chunk.MakeSpecial").
				WithInfo("want_len", typesize).WithInfo("got_len", len(value))
		}
		extra = typesize
	}

	h := Header{
		Version:   headerMagic,
		VersionLZ: headerMagic,
		Typesize:  uint8(typesize),
		NBytes:    uint32(nbytes),
		BlockSize: 0,
		CBytes:    uint32(format.HeaderSize + extra),
	}
	h.Flags.Special = uint8(kind)

	out := h.Bytes()
	if extra > 0 {
		out = append(out, value...)
	}

	return out, nil
}

// SpecialKind reports the special-chunk kind of a chunk whose header has
// already been parsed, or format.SpecialNone for an ordinary chunk.
func (c *Chunk) SpecialKind() format.SpecialKind {
	return format.SpecialKind(c.Header.Flags.Special)
}

// fillSpecial expands a special chunk of kind k into dst, which must be
// exactly c.Header.NBytes long.
func fillSpecial(dst []byte, k format.SpecialKind, typesize int, payload []byte) error {
	switch k {
	case format.SpecialZero, format.SpecialUninit:
		// UNINIT carries no defined content; zero-filling is a deterministic,
		// debuggable stand-in.
		for i := range dst {
			dst[i] = 0
		}

		return nil
	case format.SpecialNaN:
		return fillNaN(dst, typesize)
	case format.SpecialValue:
		if len(payload) != typesize {
			return errs.ErrCorruption
		}
		for off := 0; off+typesize <= len(dst); off += typesize {
			copy(dst[off:off+typesize], payload)
		}

		return nil
	default:
		return errs.New(errs.ErrInvalidParam, "chunk.fillSpecial").WithInfo("kind", k)
	}
}

// fillNaN fills dst, a buffer of typesize-wide elements, with the IEEE-754
// NaN bit pattern for typesize 4 or 8; any other typesize falls back to
// zero-fill since NaN has no defined encoding outside float32/float64.
func fillNaN(dst []byte, typesize int) error {
	switch typesize {
	case 4:
		pattern := [4]byte{0x00, 0x00, 0xc0, 0x7f} // float32 NaN, little-endian
		for off := 0; off+4 <= len(dst); off += 4 {
			copy(dst[off:off+4], pattern[:])
		}
	case 8:
		pattern := [8]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xf8, 0x7f} // float64 NaN, little-endian
		for off := 0; off+8 <= len(dst); off += 8 {
			copy(dst[off:off+8], pattern[:])
		}
	default:
		for i := range dst {
			dst[i] = 0
		}
	}

	return nil
}
