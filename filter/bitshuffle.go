package filter

import "github.com/gocaterva/bstore/format"

// bitShuffleFilter implements a bit-level shuffle: within each group of 8
// consecutive elements it transposes the bit matrix so that bit-plane p of
// all 8 elements is packed into a single output byte. This exposes
// cross-element bit-level redundancy (e.g. a shared exponent range in
// floating point data) that the byte-granular shuffleFilter cannot.
//
// Elements that don't form a full group of 8 (the remainder after
// len(src)/typesize/8 full groups, plus any final partial-element tail) are
// passed through unshuffled, mirroring shuffleFilter's tail handling so the
// transform always produces exactly len(src) bytes.
type bitShuffleFilter struct{}

func (bitShuffleFilter) ID() format.FilterID { return format.FilterBitShuffle }

func (bitShuffleFilter) Forward(dst, src []byte, typesize int, _ byte) error {
	bitTranspose(dst, src, typesize, true)

	return nil
}

func (bitShuffleFilter) Inverse(dst, src []byte, typesize int, _ byte) error {
	bitTranspose(dst, src, typesize, false)

	return nil
}

func bitTranspose(dst, src []byte, typesize int, forward bool) {
	groupBytes := 8 * typesize
	nElems := len(src) / typesize
	fullGroups := nElems / 8

	for g := 0; g < fullGroups; g++ {
		off := g * groupBytes
		in := src[off : off+groupBytes]
		out := dst[off : off+groupBytes]

		if forward {
			transposeGroupForward(out, in, typesize)
		} else {
			transposeGroupInverse(out, in, typesize)
		}
	}

	// Tail: remaining whole elements plus any final partial-element bytes,
	// copied through as-is.
	tailOff := fullGroups * groupBytes
	copy(dst[tailOff:], src[tailOff:])
}

// transposeGroupForward bit-transposes one group of 8 elements of typesize
// bytes each (groupBytes == 8*typesize bytes in, groupBytes bytes out).
func transposeGroupForward(out, in []byte, typesize int) {
	nbits := typesize * 8
	for p := 0; p < nbits; p++ {
		byteIdx := p / 8
		bitIdx := uint(p % 8)

		var packed byte
		for e := 0; e < 8; e++ {
			bit := (in[e*typesize+byteIdx] >> bitIdx) & 1
			packed |= bit << uint(e)
		}
		out[p] = packed
	}
}

func transposeGroupInverse(out, in []byte, typesize int) {
	nbits := typesize * 8
	for p := 0; p < nbits; p++ {
		byteIdx := p / 8
		bitIdx := uint(p % 8)
		packed := in[p]

		for e := 0; e < 8; e++ {
			bit := (packed >> uint(e)) & 1
			if bit != 0 {
				out[e*typesize+byteIdx] |= 1 << bitIdx
			} else {
				out[e*typesize+byteIdx] &^= 1 << bitIdx
			}
		}
	}
}
