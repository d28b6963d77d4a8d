package codec

import (
	"fmt"

	"github.com/klauspost/compress/s2"

	"github.com/gocaterva/bstore/format"
)

// blocLZCodec backs format.CodecBloscLZ. There is no dedicated blosclz
// library available; s2 (klauspost/compress/s2) is a byte-oriented,
// allocation-light general compressor, so it stands in for blosclz's role: a
// cheap, always-try-first byte compressor.
type blocLZCodec struct{}

var _ Codec = blocLZCodec{}

func (blocLZCodec) ID() format.CodecID { return format.CodecBloscLZ }

func (blocLZCodec) Compress(dst, src []byte, level int) ([]byte, error) {
	if level >= 6 {
		return s2.EncodeBetter(dst[:0], src), nil
	}

	return s2.Encode(dst[:0], src), nil
}

func (blocLZCodec) Decompress(dst, src []byte) ([]byte, error) {
	n, err := s2.DecodedLen(src)
	if err != nil {
		return nil, fmt.Errorf("codec: blosclz decoded length: %w", err)
	}

	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]

	out, err := s2.Decode(dst, src)
	if err != nil {
		return nil, fmt.Errorf("codec: blosclz decompress: %w", err)
	}

	return out, nil
}

// snappyCodec backs format.CodecSnappy via s2's documented Snappy-compatible
// block format (s2.Encode output decodes with snappy readers and vice versa
// for plain blocks within the size limits s2 documents).
type snappyCodec struct{}

var _ Codec = snappyCodec{}

func (snappyCodec) ID() format.CodecID { return format.CodecSnappy }

func (snappyCodec) Compress(dst, src []byte, _ int) ([]byte, error) {
	return s2.EncodeSnappy(dst[:0], src), nil
}

func (snappyCodec) Decompress(dst, src []byte) ([]byte, error) {
	n, err := s2.DecodedLen(src)
	if err != nil {
		return nil, fmt.Errorf("codec: snappy decoded length: %w", err)
	}

	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]

	out, err := s2.Decode(dst, src)
	if err != nil {
		return nil, fmt.Errorf("codec: snappy decompress: %w", err)
	}

	return out, nil
}
