package filter

import "github.com/gocaterva/bstore/format"

// shuffleFilter implements the byte-shuffle transform: reorders the bytes of
// an array of fixed-width elements so that all byte-0's come first, then all
// byte-1's, and so on. This groups together the bytes that tend to be most
// similar across elements (e.g. the high bytes of a slowly-varying float64
// series), which helps a downstream general-purpose compressor.
type shuffleFilter struct{}

func (shuffleFilter) ID() format.FilterID { return format.FilterShuffle }

func (shuffleFilter) Forward(dst, src []byte, typesize int, _ byte) error {
	shuffle(dst, src, typesize)

	return nil
}

func (shuffleFilter) Inverse(dst, src []byte, typesize int, _ byte) error {
	unshuffle(dst, src, typesize)

	return nil
}

// shuffle and unshuffle operate on whatever whole-elements fit in src; a
// trailing partial element (the last, short block of a chunk) is copied
// through unshuffled in its original byte order, appended after the full
// elements, matching blosc2's documented behaviour for irregular block
// tails.
func shuffle(dst, src []byte, typesize int) {
	n := len(src) / typesize
	tailStart := n * typesize

	for e := 0; e < n; e++ {
		for b := 0; b < typesize; b++ {
			dst[b*n+e] = src[e*typesize+b]
		}
	}
	copy(dst[n*typesize:], src[tailStart:])
}

func unshuffle(dst, src []byte, typesize int) {
	n := len(src) / typesize
	tailStart := n * typesize

	for e := 0; e < n; e++ {
		for b := 0; b < typesize; b++ {
			dst[e*typesize+b] = src[b*n+e]
		}
	}
	copy(dst[n*typesize:], src[tailStart:])
}
