// Package checksum provides the optional per-chunk content checksum, built
// on xxHash64 rather than introducing a second hash dependency.
package checksum

import "github.com/cespare/xxhash/v2"

// Size is the width in bytes of the checksum appended after a chunk's
// block-offset table when CParams.UseChecksum is set.
const Size = 8

// Sum64 returns the xxHash64 digest of data.
func Sum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// AppendSum64 appends the 8-byte little-endian xxHash64 digest of data to
// dst and returns the extended slice.
func AppendSum64(dst, data []byte) []byte {
	sum := xxhash.Sum64(data)

	return append(dst,
		byte(sum), byte(sum>>8), byte(sum>>16), byte(sum>>24),
		byte(sum>>32), byte(sum>>40), byte(sum>>48), byte(sum>>56))
}

// VerifySum64 reports whether the trailing Size bytes of sumBytes equal the
// xxHash64 digest of data.
func VerifySum64(data, sumBytes []byte) bool {
	if len(sumBytes) < Size {
		return false
	}
	want := Sum64(data)
	got := uint64(sumBytes[0]) | uint64(sumBytes[1])<<8 | uint64(sumBytes[2])<<16 | uint64(sumBytes[3])<<24 |
		uint64(sumBytes[4])<<32 | uint64(sumBytes[5])<<40 | uint64(sumBytes[6])<<48 | uint64(sumBytes[7])<<56

	return want == got
}
