package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/gocaterva/bstore/format"
)

// zlibCodec backs format.CodecZlib. klauspost/compress/zlib is a drop-in,
// faster implementation of the same zlib stream format, and already part of
// the klauspost/compress module pulled in for s2 and zstd.
type zlibCodec struct{}

var _ Codec = zlibCodec{}

func (zlibCodec) ID() format.CodecID { return format.CodecZlib }

func (zlibCodec) Compress(dst, src []byte, level int) ([]byte, error) {
	if level <= 0 {
		level = zlib.DefaultCompression
	} else if level > 9 {
		level = 9
	}

	buf := bytes.NewBuffer(dst[:0])
	w, err := zlib.NewWriterLevel(buf, level)
	if err != nil {
		return nil, fmt.Errorf("codec: zlib writer: %w", err)
	}

	if _, err := w.Write(src); err != nil {
		return nil, fmt.Errorf("codec: zlib write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("codec: zlib close: %w", err)
	}

	return buf.Bytes(), nil
}

func (zlibCodec) Decompress(dst, src []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("codec: zlib reader: %w", err)
	}
	defer r.Close()

	buf := bytes.NewBuffer(dst[:0])
	if _, err := io.Copy(buf, r); err != nil {
		return nil, fmt.Errorf("codec: zlib read: %w", err)
	}

	return buf.Bytes(), nil
}
