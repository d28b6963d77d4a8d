package filter

import "github.com/gocaterva/bstore/format"

// deltaFilter replaces each element (after the first) with the difference
// from its predecessor, modulo 2^(8*typesize), operating on raw
// little-endian byte-wise arithmetic so it works for any element width, not
// just 2/4/8-byte integers.
type deltaFilter struct{}

func (deltaFilter) ID() format.FilterID { return format.FilterDelta }

func (deltaFilter) Forward(dst, src []byte, typesize int, _ byte) error {
	n := len(src) / typesize
	if n == 0 {
		copy(dst, src)

		return nil
	}

	copy(dst[:typesize], src[:typesize])
	for e := 1; e < n; e++ {
		cur := src[e*typesize : (e+1)*typesize]
		prev := src[(e-1)*typesize : e*typesize]
		subLE(dst[e*typesize:(e+1)*typesize], cur, prev)
	}
	copy(dst[n*typesize:], src[n*typesize:])

	return nil
}

func (deltaFilter) Inverse(dst, src []byte, typesize int, _ byte) error {
	n := len(src) / typesize
	if n == 0 {
		copy(dst, src)

		return nil
	}

	copy(dst[:typesize], src[:typesize])
	for e := 1; e < n; e++ {
		d := src[e*typesize : (e+1)*typesize]
		prev := dst[(e-1)*typesize : e*typesize]
		addLE(dst[e*typesize:(e+1)*typesize], d, prev)
	}
	copy(dst[n*typesize:], src[n*typesize:])

	return nil
}

// subLE computes out = a - b as little-endian multi-byte unsigned integers,
// modulo 2^(8*len), with borrow propagating from low byte to high byte.
func subLE(out, a, b []byte) {
	var borrow int
	for i := range a {
		d := int(a[i]) - int(b[i]) - borrow
		if d < 0 {
			d += 256
			borrow = 1
		} else {
			borrow = 0
		}
		out[i] = byte(d)
	}
}

// addLE computes out = a + b as little-endian multi-byte unsigned integers,
// modulo 2^(8*len), with carry propagating from low byte to high byte.
func addLE(out, a, b []byte) {
	var carry int
	for i := range a {
		s := int(a[i]) + int(b[i]) + carry
		out[i] = byte(s)
		carry = s >> 8
	}
}
