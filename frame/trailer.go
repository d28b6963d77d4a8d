package frame

import (
	"github.com/gocaterva/bstore/errs"
	"github.com/gocaterva/bstore/internal/checksum"
	"github.com/gocaterva/bstore/internal/msgpack"
)

// Trailer is the frame trailer: the mutable vlmetalayer table plus a whole-
// frame fingerprint, written after the offsets chunk.
type Trailer struct {
	VLNames  []string
	VLValues [][]byte
}

// encode serializes t, appending a 4-byte little-endian trailer length and
// an 8-byte xxHash64 fingerprint of everything preceding it (header + chunks
// + offsets + trailer body + length), so a reader can validate the whole
// frame in one pass.
func (t *Trailer) encode(precedingBytes []byte) []byte {
	enc := msgpack.NewEncoder()
	enc.Map(len(t.VLNames))
	for i, name := range t.VLNames {
		enc.Str(name)
		enc.Bin(t.VLValues[i])
	}
	body := enc.Bytes()

	trailerLen := uint32(len(body) + 4)
	out := append([]byte(nil), body...)
	out = append(out, byte(trailerLen), byte(trailerLen>>8), byte(trailerLen>>16), byte(trailerLen>>24))

	fingerprintInput := append(append([]byte(nil), precedingBytes...), out...)

	return checksum.AppendSum64(out, fingerprintInput)
}

// decodeTrailer parses a trailer from the tail of data, verifying its
// fingerprint against everything preceding it.
func decodeTrailer(data []byte) (*Trailer, int, error) {
	if len(data) < checksum.Size+4 {
		return nil, 0, errs.ErrCorruption
	}

	fingerprint := data[len(data)-checksum.Size:]
	withoutFingerprint := data[:len(data)-checksum.Size]

	lenBytes := withoutFingerprint[len(withoutFingerprint)-4:]
	trailerLen := int(lenBytes[0]) | int(lenBytes[1])<<8 | int(lenBytes[2])<<16 | int(lenBytes[3])<<24

	trailerStart := len(data) - checksum.Size - trailerLen
	if trailerStart < 0 {
		return nil, 0, errs.ErrCorruption
	}

	if !checksum.VerifySum64(data[:len(data)-checksum.Size], fingerprint) {
		return nil, 0, errs.ErrChecksumMismatch
	}

	body := withoutFingerprint[trailerStart : len(withoutFingerprint)-4]
	dec := msgpack.NewDecoder(body)
	n, err := dec.MapHeader()
	if err != nil {
		return nil, 0, err
	}

	t := &Trailer{VLNames: make([]string, n), VLValues: make([][]byte, n)}
	for i := 0; i < n; i++ {
		name, err := dec.Str()
		if err != nil {
			return nil, 0, err
		}
		val, err := dec.Bin()
		if err != nil {
			return nil, 0, err
		}
		t.VLNames[i] = name
		t.VLValues[i] = append([]byte(nil), val...)
	}

	return t, trailerStart, nil
}
