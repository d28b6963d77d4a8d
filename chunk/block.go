package chunk

import (
	"github.com/gocaterva/bstore/codec"
	"github.com/gocaterva/bstore/errs"
	"github.com/gocaterva/bstore/filter"
	"github.com/gocaterva/bstore/format"
)

// Per-block leading tag byte, distinguishing a block whose payload is
// codec-compressed bytes from one stored raw because compression didn't pay
// off.
const (
	blockTagCompressed byte = 0
	blockTagMemcpy     byte = 1
)

// defaultBlockSize picks an auto blocksize:
// target roughly 16KiB of element data per block, capped at nbytes, but never
// smaller than one typesize-wide element (even when nbytes is smaller).
func defaultBlockSize(nbytes, typesize int) int {
	const target = 16 * 1024
	size := target
	if size < typesize {
		size = typesize
	}
	size -= size % typesize
	if size == 0 {
		size = typesize
	}
	if size > nbytes {
		size = nbytes
	}
	if size < typesize {
		size = typesize
	}

	return size
}

// isByteGranularityLZCodec reports whether id names a byte-oriented LZ
// compressor, the family that benefits from having its typesize-wide streams
// split and compressed independently. zstd and zlib already exploit
// cross-byte redundancy on their own and gain little from splitting, so
// auto split-mode excludes them.
func isByteGranularityLZCodec(id format.CodecID) bool {
	switch id {
	case format.CodecBloscLZ, format.CodecLZ4, format.CodecLZ4HC, format.CodecSnappy:
		return true
	default:
		return false
	}
}

// decideSplit resolves the "split decision": whether each block's
// typesize-wide streams are compressed independently. SplitAuto splits iff
// typesize is one of the power-of-two widths {1,2,4,8}, the block holds at
// least 16 elements of that width, and the codec is a byte-granularity LZ
// compressor.
func decideSplit(mode format.SplitMode, blockSize, typesize int, codecID format.CodecID) bool {
	switch mode {
	case format.SplitAlways:
		return true
	case format.SplitNever, format.SplitForwardCompat:
		return false
	default: // SplitAuto
		switch typesize {
		case 1, 2, 4, 8:
		default:
			return false
		}

		return blockSize >= 16*typesize && isByteGranularityLZCodec(codecID)
	}
}

// compressBlock filters then compresses one block of up to blockSize source
// bytes, returning its tagged wire encoding.
func compressBlock(cdc codec.Codec, pipeline filter.Pipeline, typesize int, src []byte, split bool, level int) ([]byte, error) {
	filtered, err := pipeline.Forward(typesize, src)
	if err != nil {
		return nil, err
	}

	var payload []byte
	if split && typesize > 1 {
		payload, err = compressSplit(cdc, typesize, filtered, level)
	} else {
		payload, err = compressWhole(cdc, filtered, level)
	}
	if err != nil {
		return nil, err
	}

	if len(payload) >= len(src) {
		// Compression didn't pay off; store the filtered form raw. Filtering
		// itself is still applied (it is reversible and often still helps
		// downstream codecs even when this codec didn't).
		out := make([]byte, 1+len(filtered))
		out[0] = blockTagMemcpy
		copy(out[1:], filtered)

		return out, nil
	}

	out := make([]byte, 1+len(payload))
	out[0] = blockTagCompressed
	copy(out[1:], payload)

	return out, nil
}

func compressWhole(cdc codec.Codec, src []byte, level int) ([]byte, error) {
	return cdc.Compress(nil, src, level)
}

// decompressWhole decompresses src into dst, which must already be sliced to
// the exact expected output length: some Codec implementations (lz4) take
// len(dst) itself as the decompression bound rather than growing dst, so a
// dst[:0] slice would not round-trip for those.
func decompressWhole(cdc codec.Codec, src []byte, dst []byte) error {
	out, err := cdc.Decompress(dst, src)
	if err != nil {
		return err
	}
	if len(out) != len(dst) {
		return errs.ErrCorruption
	}
	if len(out) > 0 && &out[0] != &dst[0] {
		copy(dst, out)
	}

	return nil
}

// compressSplit compresses each of the typesize byte-streams of src
// independently, each framed with a 4-byte little-endian length prefix so
// decompressSplit can find its boundaries without an auxiliary index.
func compressSplit(cdc codec.Codec, typesize int, src []byte, level int) ([]byte, error) {
	nelems := len(src) / typesize
	out := make([]byte, 0, len(src))
	stream := make([]byte, nelems)

	for s := 0; s < typesize; s++ {
		for i := 0; i < nelems; i++ {
			stream[i] = src[i*typesize+s]
		}

		compressed, err := cdc.Compress(nil, stream, level)
		if err != nil {
			return nil, err
		}

		n := len(compressed)
		out = append(out, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
		out = append(out, compressed...)
	}

	return out, nil
}

// decompressBlock reverses compressBlock: it decodes payload (tagged, as
// produced by compressBlock) into dst, then unwinds the filter pipeline.
func decompressBlock(cdc codec.Codec, pipeline filter.Pipeline, typesize int, payload []byte, dst []byte, split bool) error {
	if len(payload) == 0 {
		return errs.ErrCorruption
	}

	tag := payload[0]
	body := payload[1:]

	filtered := dst
	var err error
	switch tag {
	case blockTagMemcpy:
		if len(body) != len(dst) {
			return errs.ErrCorruption
		}
		copy(filtered, body)
	case blockTagCompressed:
		if split && typesize > 1 {
			err = decompressSplit(cdc, typesize, body, filtered)
		} else {
			err = decompressWhole(cdc, body, filtered)
		}
		if err != nil {
			return err
		}
	default:
		return errs.ErrCorruption
	}

	unfiltered, err := pipeline.Inverse(typesize, filtered)
	if err != nil {
		return err
	}
	if len(unfiltered) != len(dst) {
		return errs.ErrCorruption
	}
	copy(dst, unfiltered)

	return nil
}

func decompressSplit(cdc codec.Codec, typesize int, body []byte, dst []byte) error {
	nelems := len(dst) / typesize
	stream := make([]byte, nelems)
	pos := 0

	for s := 0; s < typesize; s++ {
		if pos+4 > len(body) {
			return errs.ErrCorruption
		}
		n := int(body[pos]) | int(body[pos+1])<<8 | int(body[pos+2])<<16 | int(body[pos+3])<<24
		pos += 4
		if pos+n > len(body) {
			return errs.ErrCorruption
		}

		if err := decompressWhole(cdc, body[pos:pos+n], stream); err != nil {
			return err
		}
		pos += n

		for i := 0; i < nelems; i++ {
			dst[i*typesize+s] = stream[i]
		}
	}

	return nil
}
