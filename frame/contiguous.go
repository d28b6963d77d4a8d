package frame

import (
	"github.com/gocaterva/bstore/chunk"
	"github.com/gocaterva/bstore/ctx"
	"github.com/gocaterva/bstore/errs"
	"github.com/gocaterva/bstore/format"
	"github.com/gocaterva/bstore/hooks"
	"github.com/gocaterva/bstore/ioplugin"
	"github.com/gocaterva/bstore/schunk"
)

// WriteContiguous serializes s as one contiguous frame — header, chunk
// bytes back-to-back, the offsets chunk, then the trailer — into io,
// truncating whatever io previously held.
func WriteContiguous(io ioplugin.IO, s *schunk.SChunk, hset *hooks.HookSet) error {
	header := &Header{
		NBytes:    s.NBytes(),
		ChunkSize: uint32(s.ChunkSize),
		Typesize:  uint8(s.CParams.Typesize),
		FrameType: format.FrameContiguous,
	}
	header.MetalayerNames = s.MetaNames()
	for _, name := range header.MetalayerNames {
		v, _ := s.MetaGet(name)
		header.MetalayerValues = append(header.MetalayerValues, v)
	}

	buf := header.encode()

	offsets := make([]int64, s.NumChunks())
	special := make([]bool, s.NumChunks())
	for i := 0; i < s.NumChunks(); i++ {
		c, err := s.GetChunk(i)
		if err != nil {
			return err
		}
		offsets[i] = int64(len(buf))
		special[i] = c.SpecialKind() != format.SpecialNone
		buf = append(buf, c.Data...)
	}

	offsetsStart := int64(len(buf))

	cctx := ctx.NewCompressContext(s.CParams.Freeze())
	offsetsChunk, err := encodeOffsets(cctx, offsets, special)
	if err != nil {
		return err
	}
	buf = append(buf, offsetsChunk.Data...)

	header.CBytes = int64(len(buf))
	header.OffsetsStart = offsetsStart
	// Patch the fixed-offset fields now that they're known, without
	// re-encoding the whole header (metalayers didn't change, so its
	// variable-length part and therefore every other field's offset is
	// unaffected).
	patchI64(buf[16:24], header.CBytes)
	patchI64(buf[32:40], header.OffsetsStart)

	t := &Trailer{VLNames: nil, VLValues: nil}
	names, values := vlmetaLists(s)
	t.VLNames, t.VLValues = names, values
	buf = append(buf, t.encode(buf)...)

	if _, err := io.WriteAt(buf, 0); err != nil {
		return err
	}
	if err := io.Truncate(int64(len(buf))); err != nil {
		return err
	}

	hooks.FireFrameFlush(hset, hooks.FrameEvent{NChunks: s.NumChunks(), Bytes: int64(len(buf))})

	return nil
}

// ReadContiguous parses a contiguous frame written by WriteContiguous back
// into a super-chunk.
func ReadContiguous(io ioplugin.IO) (*schunk.SChunk, error) {
	size, err := io.Size()
	if err != nil {
		return nil, err
	}

	buf := make([]byte, size)
	if _, err := io.ReadAt(buf, 0); err != nil {
		return nil, errs.New(errs.ErrFileRead, "frame.ReadContiguous")
	}

	h, err := decodeHeader(buf)
	if err != nil {
		return nil, err
	}
	if h.FrameType != format.FrameContiguous {
		return nil, errs.ErrFrameType
	}

	// decodeTrailer verifies the fingerprint over everything preceding the
	// trailer, i.e. buf[:h.CBytes] by construction (see WriteContiguous).
	trailer, _, err := decodeTrailer(buf)
	if err != nil {
		return nil, err
	}

	offsetsStart := int(h.OffsetsStart)
	offsetsChunk, err := chunk.Parse(buf[offsetsStart:h.CBytes])
	if err != nil {
		return nil, err
	}

	s := schunk.New(defaultCParams(h), defaultDParams(), int(h.ChunkSize))
	for i, name := range h.MetalayerNames {
		if err := s.MetaAdd(name, h.MetalayerValues[i]); err != nil {
			return nil, err
		}
	}
	for i, name := range trailer.VLNames {
		if err := s.VLMetaAdd(name, trailer.VLValues[i]); err != nil {
			return nil, err
		}
	}

	dctx := ctx.NewDecompressContext(defaultDParams())
	offsets, _, err := decodeOffsets(dctx, offsetsChunk)
	if err != nil {
		return nil, err
	}

	for i, off := range offsets {
		end := offsetsStart
		if i+1 < len(offsets) {
			end = int(offsets[i+1])
		}

		c, err := chunk.Parse(buf[off:end])
		if err != nil {
			return nil, err
		}
		if err := s.ImportChunk(c); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func patchI64(b []byte, v int64) {
	u := uint64(v)
	for i := 0; i < 8; i++ {
		b[i] = byte(u >> (8 * i))
	}
}

func vlmetaLists(s *schunk.SChunk) ([]string, [][]byte) {
	var names []string
	var values [][]byte
	for _, name := range s.VLMetaNames() {
		v, _ := s.VLMetaGet(name)
		names = append(names, name)
		values = append(values, v)
	}

	return names, values
}
