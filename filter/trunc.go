package filter

import "github.com/gocaterva/bstore/format"

// truncFilter zeroes the low meta bits of every little-endian typesize-wide
// element. For float32/float64 typesizes this drops mantissa precision in
// exchange for a more compressible bit pattern; it is lossy and therefore
// has no true Inverse — Inverse is a no-op copy, matching the source
// library's documented behaviour that precision-truncate is one-way and the
// decompressed data is only an approximation of the original.
type truncFilter struct{}

func (truncFilter) ID() format.FilterID { return format.FilterTrunc }

func (truncFilter) Forward(dst, src []byte, typesize int, meta byte) error {
	copy(dst, src)
	bits := int(meta)
	if bits <= 0 {
		return nil
	}

	n := len(dst) / typesize
	for e := 0; e < n; e++ {
		zeroLowBits(dst[e*typesize:(e+1)*typesize], bits)
	}

	return nil
}

// Inverse is a straight copy: truncation is lossy, so there is nothing to
// undo beyond passing the (already truncated) bytes through.
func (truncFilter) Inverse(dst, src []byte, _ int, _ byte) error {
	copy(dst, src)

	return nil
}

// zeroLowBits clears the low `bits` bits of a little-endian multi-byte
// value, starting from byte 0.
func zeroLowBits(b []byte, bits int) {
	for i := 0; i < len(b) && bits > 0; i++ {
		if bits >= 8 {
			b[i] = 0
			bits -= 8

			continue
		}
		mask := byte(0xFF << uint(bits))
		b[i] &= mask
		bits = 0
	}
}
