package chunk

import (
	"bytes"

	"github.com/gocaterva/bstore/codec"
	"github.com/gocaterva/bstore/ctx"
	"github.com/gocaterva/bstore/errs"
	"github.com/gocaterva/bstore/filter"
	"github.com/gocaterva/bstore/format"
	"github.com/gocaterva/bstore/internal/checksum"
)

// Chunk is a parsed blosc2 chunk: its decoded header plus a view over the
// wire bytes it was built from or parsed out of.
type Chunk struct {
	Header       Header
	BlockOffsets []int32 // byte offset of block i within the block-data area; nil for special/memcpyed chunks.
	Data         []byte  // the full wire encoding, length == Header.CBytes.
}

// Compress builds a new Chunk from src under cctx's frozen CParams. It opportunistically detects a uniform element value and
// emits a special chunk instead of running the codec, stores the data as a
// whole-chunk memcpy without running the codec when CodecLevel is 0,
// and falls back to a whole-chunk memcpy when the codec pipeline doesn't
// shrink the data.
func Compress(cctx *ctx.Context, src []byte) (*Chunk, error) {
	cp := cctx.CParams
	typesize := cp.Typesize
	if typesize < 1 || typesize > format.MaxTypesize {
		return nil, errs.ErrInvalidTypesize
	}
	if len(src) > format.MaxBufferSize {
		return nil, errs.ErrSrcTooLarge
	}
	if len(src)%typesize != 0 {
		return nil, errs.New(errs.ErrInvalidParam, "chunk.Compress").
			WithInfo("len", len(src)).WithInfo("typesize", typesize)
	}

	if kind, value := detectUniform(src, typesize); kind != format.SpecialNone {
		data, err := MakeSpecial(kind, len(src), typesize, value)
		if err != nil {
			return nil, err
		}

		return Parse(data)
	}

	if cp.CodecLevel == 0 {
		return compressMemcpy(src, typesize, cp.UseChecksum)
	}

	cdc, err := codec.Get(cp.Codec)
	if err != nil {
		return nil, err
	}

	blockSize := cp.BlockSize
	if blockSize <= 0 {
		blockSize = defaultBlockSize(len(src), typesize)
	}

	nblocks := 0
	if len(src) > 0 {
		nblocks = (len(src) + blockSize - 1) / blockSize
	}
	split := decideSplit(cp.SplitMode, blockSize, typesize, cp.Codec)

	blockBufs := make([][]byte, nblocks)
	runErr := cctx.Pool.Run(nblocks, func(i int) error {
		start := i * blockSize
		end := start + blockSize
		if end > len(src) {
			end = len(src)
		}

		blk, err := compressBlock(cdc, cp.Pipeline, typesize, src[start:end], split, cp.CodecLevel)
		if err != nil {
			return err
		}
		blockBufs[i] = blk

		return nil
	})
	if runErr != nil {
		return nil, cctx.Op.Fail(errs.New(runErr, "chunk.Compress"))
	}

	offsets := make([]int32, nblocks)
	blockArea := make([]byte, 0, len(src))
	for i, blk := range blockBufs {
		offsets[i] = int32(len(blockArea))
		blockArea = append(blockArea, blk...)
	}

	splitResolved := uint8(format.SplitNever)
	if split {
		splitResolved = uint8(format.SplitAlways)
	}

	total := format.HeaderSize + 4*nblocks + len(blockArea)
	if cp.UseChecksum {
		total += checksum.Size
	}

	// Whole-chunk memcpy fallback: the codec pipeline didn't shrink the data
	// enough to be worth the block-offset table's overhead.
	if total >= len(src)+format.HeaderSize {
		return compressMemcpy(src, typesize, cp.UseChecksum)
	}

	h := Header{
		Version:   headerMagic,
		VersionLZ: headerMagic,
		Typesize:  uint8(typesize),
		NBytes:    uint32(len(src)),
		BlockSize: uint32(blockSize),
		CBytes:    uint32(total),
	}
	h.Flags.Split = splitResolved
	h.Flags.HasChecksum = cp.UseChecksum
	fillPipelineMeta(&h.Blosc2Meta, cp.Pipeline, cp.Codec)

	data := make([]byte, 0, total)
	data = append(data, h.Bytes()...)
	for _, off := range offsets {
		data = append(data, byte(off), byte(off>>8), byte(off>>16), byte(off>>24))
	}
	data = append(data, blockArea...)
	if cp.UseChecksum {
		data = checksum.AppendSum64(data, data)
	}

	return &Chunk{Header: h, BlockOffsets: offsets, Data: data}, nil
}

func compressMemcpy(src []byte, typesize int, useChecksum bool) (*Chunk, error) {
	total := format.HeaderSize + len(src)
	if useChecksum {
		total += checksum.Size
	}

	h := Header{
		Version:   headerMagic,
		VersionLZ: headerMagic,
		Typesize:  uint8(typesize),
		NBytes:    uint32(len(src)),
		BlockSize: uint32(len(src)),
		CBytes:    uint32(total),
	}
	h.Flags.Memcpyed = true
	h.Flags.HasChecksum = useChecksum

	data := make([]byte, 0, total)
	data = append(data, h.Bytes()...)
	data = append(data, src...)
	if useChecksum {
		data = checksum.AppendSum64(data, data)
	}

	return &Chunk{Header: h, Data: data}, nil
}

// fillPipelineMeta packs p's stages (left-aligned, padded with FilterNone)
// and the codec id into h.
func fillPipelineMeta(meta *Blosc2Meta, p filter.Pipeline, codecID format.CodecID) {
	for i := 0; i < format.MaxFilters; i++ {
		if i < len(p.Stages) {
			meta.Filters[i] = p.Stages[i].ID
			meta.FilterMetas[i] = p.Stages[i].Meta
		} else {
			meta.Filters[i] = format.FilterNone
		}
	}
	meta.Codec = codecID
}

// pipelineFromHeader rebuilds the filter.Pipeline a chunk was compressed
// with from its stored header metadata.
func pipelineFromHeader(meta Blosc2Meta) filter.Pipeline {
	var stages []filter.Stage
	for i := 0; i < format.MaxFilters; i++ {
		if meta.Filters[i] == format.FilterNone {
			break
		}
		stages = append(stages, filter.Stage{ID: meta.Filters[i], Meta: meta.FilterMetas[i]})
	}

	return filter.Pipeline{Stages: stages}
}

// detectUniform reports whether every element of src (typesize-wide) is
// identical, returning the special kind to emit and (for SpecialValue) the
// one repeated element. An empty src reports format.SpecialZero: no elements
// is trivially all-zero.
func detectUniform(src []byte, typesize int) (format.SpecialKind, []byte) {
	if len(src) == 0 {
		return format.SpecialZero, nil
	}

	first := src[:typesize]
	for off := typesize; off < len(src); off += typesize {
		if !bytes.Equal(src[off:off+typesize], first) {
			return format.SpecialNone, nil
		}
	}

	allZero := true
	for _, b := range first {
		if b != 0 {
			allZero = false

			break
		}
	}
	if allZero {
		return format.SpecialZero, nil
	}

	return format.SpecialValue, first
}

// Parse decodes a Chunk from raw wire bytes; it does not validate block
// contents, only the header and (for ordinary chunks) the offset table's
// bounds. Use Validate for a full structural check.
func Parse(data []byte) (*Chunk, error) {
	var h Header
	if err := h.Parse(data); err != nil {
		return nil, err
	}
	if int(h.CBytes) > len(data) {
		return nil, errs.ErrCorruption
	}
	data = data[:h.CBytes]

	c := &Chunk{Header: h, Data: data}

	if h.Flags.Special == 0 && !h.Flags.Memcpyed {
		nblocks := h.NBlocks()
		off := format.HeaderSize
		if off+4*nblocks > len(data) {
			return nil, errs.ErrCorruption
		}
		c.BlockOffsets = make([]int32, nblocks)
		for i := 0; i < nblocks; i++ {
			c.BlockOffsets[i] = int32(wireEngine.Uint32(data[off : off+4]))
			off += 4
		}
	}

	return c, nil
}

// Validate performs a structural check of data without decompressing any
// block: header sanity, offset-table bounds, and (if present) the content
// checksum.
func Validate(data []byte) error {
	c, err := Parse(data)
	if err != nil {
		return err
	}

	if c.Header.Flags.HasChecksum {
		if len(c.Data) < checksum.Size {
			return errs.ErrCorruption
		}
		body := c.Data[:len(c.Data)-checksum.Size]
		trailer := c.Data[len(c.Data)-checksum.Size:]
		if !checksum.VerifySum64(body, trailer) {
			return errs.ErrChecksumMismatch
		}
	}

	return nil
}

// blockDataArea returns the sub-slice of c.Data holding the concatenated
// block payloads (after header and offset table, before any checksum
// trailer).
func (c *Chunk) blockDataArea() []byte {
	start := format.HeaderSize + 4*len(c.BlockOffsets)
	end := len(c.Data)
	if c.Header.Flags.HasChecksum {
		end -= checksum.Size
	}

	return c.Data[start:end]
}

// Decompress expands c fully into dst, reusing dst's backing array when it
// has enough capacity. Blocks marked skipped via
// cctx.SkipBlock are left untouched in dst.
func Decompress(cctx *ctx.Context, c *Chunk, dst []byte) ([]byte, error) {
	nbytes := int(c.Header.NBytes)
	if cap(dst) < nbytes {
		dst = make([]byte, nbytes)
	} else {
		dst = dst[:nbytes]
	}

	if kind := c.SpecialKind(); kind != format.SpecialNone {
		var payload []byte
		if kind == format.SpecialValue {
			payload = c.Data[format.HeaderSize : format.HeaderSize+int(c.Header.Typesize)]
		}

		return dst, fillSpecial(dst, kind, int(c.Header.Typesize), payload)
	}

	if c.Header.Flags.Memcpyed {
		body := c.Data[format.HeaderSize:]
		if c.Header.Flags.HasChecksum {
			body = body[:len(body)-checksum.Size]
		}
		copy(dst, body)

		return dst, nil
	}

	if c.Header.Flags.HasChecksum {
		trailer := c.Data[len(c.Data)-checksum.Size:]
		if !checksum.VerifySum64(c.Data[:len(c.Data)-checksum.Size], trailer) {
			return nil, errs.ErrChecksumMismatch
		}
	}

	cdc, err := codec.Get(c.Header.Blosc2Meta.Codec)
	if err != nil {
		return nil, err
	}
	pipeline := pipelineFromHeader(c.Header.Blosc2Meta)
	split := format.SplitMode(c.Header.Flags.Split) == format.SplitAlways
	typesize := int(c.Header.Typesize)
	blockSize := int(c.Header.BlockSize)
	area := c.blockDataArea()
	nblocks := len(c.BlockOffsets)

	defer cctx.ResetMaskout(nblocks)

	runErr := cctx.Pool.Run(nblocks, func(i int) error {
		if cctx.IsSkipped(i) {
			return nil
		}

		start := i * blockSize
		end := start + blockSize
		if end > nbytes {
			end = nbytes
		}

		blkStart := int(c.BlockOffsets[i])
		var blkEnd int
		if i+1 < nblocks {
			blkEnd = int(c.BlockOffsets[i+1])
		} else {
			blkEnd = len(area)
		}
		if blkStart < 0 || blkEnd > len(area) || blkStart > blkEnd {
			return errs.ErrCorruption
		}

		return decompressBlock(cdc, pipeline, typesize, area[blkStart:blkEnd], dst[start:end], split)
	})
	if runErr != nil {
		return nil, cctx.Op.Fail(errs.New(runErr, "chunk.Decompress"))
	}

	return dst, nil
}

// GetItem decompresses only the elements in [start, start+nitems) without
// materializing the full chunk.
func GetItem(cctx *ctx.Context, c *Chunk, start, nitems int, dst []byte) ([]byte, error) {
	typesize := int(c.Header.Typesize)
	nbytes := int(c.Header.NBytes)
	if start < 0 || nitems < 0 || start*typesize+nitems*typesize > nbytes {
		return nil, errs.ErrInvalidParam
	}

	outLen := nitems * typesize
	if cap(dst) < outLen {
		dst = make([]byte, outLen)
	} else {
		dst = dst[:outLen]
	}
	if nitems == 0 {
		return dst, nil
	}

	if kind := c.SpecialKind(); kind != format.SpecialNone {
		var payload []byte
		if kind == format.SpecialValue {
			payload = c.Data[format.HeaderSize : format.HeaderSize+typesize]
		}

		return dst, fillSpecial(dst, kind, typesize, payload)
	}

	firstByte := start * typesize
	lastByte := firstByte + outLen - 1

	if c.Header.Flags.Memcpyed {
		body := c.Data[format.HeaderSize:]
		copy(dst, body[firstByte:lastByte+1])

		return dst, nil
	}

	cdc, err := codec.Get(c.Header.Blosc2Meta.Codec)
	if err != nil {
		return nil, err
	}
	pipeline := pipelineFromHeader(c.Header.Blosc2Meta)
	split := format.SplitMode(c.Header.Flags.Split) == format.SplitAlways
	blockSize := int(c.Header.BlockSize)
	area := c.blockDataArea()
	nblocks := len(c.BlockOffsets)

	firstBlock := firstByte / blockSize
	lastBlock := lastByte / blockSize

	for bi := firstBlock; bi <= lastBlock; bi++ {
		blockStart := bi * blockSize
		blockEnd := blockStart + blockSize
		if blockEnd > nbytes {
			blockEnd = nbytes
		}

		scratch := cctx.Arena.Scratch(blockEnd - blockStart)

		blkStart := int(c.BlockOffsets[bi])
		var blkEnd int
		if bi+1 < nblocks {
			blkEnd = int(c.BlockOffsets[bi+1])
		} else {
			blkEnd = len(area)
		}

		if err := decompressBlock(cdc, pipeline, int(c.Header.Typesize), area[blkStart:blkEnd], scratch, split); err != nil {
			return nil, err
		}

		overlapStart := max(blockStart, firstByte)
		overlapEnd := min(blockEnd, lastByte+1)
		copy(dst[overlapStart-firstByte:overlapEnd-firstByte], scratch[overlapStart-blockStart:overlapEnd-blockStart])
	}

	return dst, nil
}
