package frame

import (
	"encoding/binary"

	"github.com/gocaterva/bstore/chunk"
	"github.com/gocaterva/bstore/ctx"
	"github.com/gocaterva/bstore/errs"
)

// specialSentinel is OR'd into an offsets-chunk entry's sign bit to mark a
// chunk as special (ZERO/NaN/UNINIT/VALUE). A special chunk is still written
// inline at its ordinary byte offset (header-only, no block data), so the
// offset value itself is unchanged; the sentinel only tells the reader not
// to expect block data following the header.
const specialSentinel = int64(1) << 63

// encodeOffsets serializes a list of (byteOffset, isSpecial) pairs into an
// int64 array, itself compressed as an ordinary chunk via cctx — the
// "offsets chunk is itself a Blosc chunk" invariant.
func encodeOffsets(cctx *ctx.Context, offsets []int64, special []bool) (*chunk.Chunk, error) {
	raw := make([]byte, 8*len(offsets))
	for i, off := range offsets {
		v := off
		if special[i] {
			v |= specialSentinel
		}
		binary.LittleEndian.PutUint64(raw[i*8:i*8+8], uint64(v))
	}

	return chunk.Compress(cctx, raw)
}

// decodeOffsets reverses encodeOffsets.
func decodeOffsets(dctx *ctx.Context, c *chunk.Chunk) ([]int64, []bool, error) {
	raw, err := chunk.Decompress(dctx, c, nil)
	if err != nil {
		return nil, nil, err
	}
	if len(raw)%8 != 0 {
		return nil, nil, errs.ErrInvalidIndexSize
	}

	n := len(raw) / 8
	offsets := make([]int64, n)
	special := make([]bool, n)
	for i := 0; i < n; i++ {
		v := int64(binary.LittleEndian.Uint64(raw[i*8 : i*8+8]))
		special[i] = v&specialSentinel != 0
		offsets[i] = v &^ specialSentinel
	}

	return offsets, special, nil
}
