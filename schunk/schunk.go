// Package schunk implements the super-chunk: an ordered, mutable collection
// of chunks sharing one set of compression parameters, plus its metalayers
// and vlmetalayers.
package schunk

import (
	"github.com/gocaterva/bstore/chunk"
	"github.com/gocaterva/bstore/ctx"
	"github.com/gocaterva/bstore/errs"
	"github.com/gocaterva/bstore/format"
	"github.com/gocaterva/bstore/hooks"
)

// SChunk is an ordered collection of chunks. All chunks share the same
// CParams at append time (a later ctx.CParams mutation does not retroactively
// re-encode existing chunks), matching the "sticky until reused" model of
// the super-chunk model.
type SChunk struct {
	CParams ctx.CParams
	DParams ctx.DParams
	// ChunkSize is the nominal per-chunk nbytes; 0 means chunks may vary in
	// size.
	ChunkSize int
	Hooks     *hooks.HookSet

	chunks []*chunk.Chunk

	metalayers       map[string][]byte
	metalayerOrder   []string
	vlMetalayers     map[string][]byte
	vlMetalayerOrder []string
}

// New creates an empty super-chunk.
func New(cp ctx.CParams, dp ctx.DParams, chunkSize int) *SChunk {
	return &SChunk{
		CParams:      cp,
		DParams:      dp,
		ChunkSize:    chunkSize,
		metalayers:   make(map[string][]byte),
		vlMetalayers: make(map[string][]byte),
	}
}

// NumChunks returns the number of chunks currently held.
func (s *SChunk) NumChunks() int { return len(s.chunks) }

// NBytes returns the sum of every chunk's uncompressed size.
func (s *SChunk) NBytes() int64 {
	var total int64
	for _, c := range s.chunks {
		total += int64(c.Header.NBytes)
	}

	return total
}

// CBytes returns the sum of every chunk's compressed size.
func (s *SChunk) CBytes() int64 {
	var total int64
	for _, c := range s.chunks {
		total += int64(c.Header.CBytes)
	}

	return total
}

// lastChunkShort reports whether the current last chunk is shorter than
// ChunkSize; the super-chunk allows at most one such chunk, and it must be
// the last one.
func (s *SChunk) lastChunkShort() bool {
	if s.ChunkSize <= 0 || len(s.chunks) == 0 {
		return false
	}

	return int(s.chunks[len(s.chunks)-1].Header.NBytes) < s.ChunkSize
}

// validateAppendSize enforces ChunkSize for a chunk landing at the current
// end of the list (append, or insert/update at the last position): nbytes
// may be at most ChunkSize, and nothing may land after an already-short
// chunk, since that chunk would then no longer be last.
func (s *SChunk) validateAppendSize(nbytes int) error {
	if s.ChunkSize <= 0 {
		return nil
	}
	if s.lastChunkShort() {
		return errs.ErrChunkShortExists
	}
	if nbytes > s.ChunkSize {
		return errs.ErrChunkTooLarge
	}

	return nil
}

// validateMidSize enforces ChunkSize for a chunk landing anywhere but the
// last position: since only the last chunk may be short, nbytes must match
// ChunkSize exactly.
func (s *SChunk) validateMidSize(nbytes int) error {
	if s.ChunkSize > 0 && nbytes != s.ChunkSize {
		return errs.ErrChunkTooLarge
	}

	return nil
}

// AppendChunk compresses src under s.CParams and appends the result,
// returning its index.
func (s *SChunk) AppendChunk(src []byte) (int, error) {
	if err := s.validateAppendSize(len(src)); err != nil {
		return -1, err
	}

	c, err := s.compress(src)
	if err != nil {
		return -1, err
	}

	s.chunks = append(s.chunks, c)
	idx := len(s.chunks) - 1
	hooks.FireChunkAppend(s.Hooks, hooks.ChunkEvent{Index: idx, NBytes: len(src)})

	return idx, nil
}

// InsertChunk compresses src and inserts it at index, shifting later chunks
// up by one.
func (s *SChunk) InsertChunk(index int, src []byte) (int, error) {
	if index < 0 || index > len(s.chunks) {
		return -1, errs.ErrChunkIndexRange
	}

	var validateErr error
	if index == len(s.chunks) {
		validateErr = s.validateAppendSize(len(src))
	} else {
		validateErr = s.validateMidSize(len(src))
	}
	if validateErr != nil {
		return -1, validateErr
	}

	c, err := s.compress(src)
	if err != nil {
		return -1, err
	}

	s.chunks = append(s.chunks, nil)
	copy(s.chunks[index+1:], s.chunks[index:])
	s.chunks[index] = c

	return index, nil
}

// UpdateChunk replaces the chunk at index with a freshly compressed src,
// preserving its position.
func (s *SChunk) UpdateChunk(index int, src []byte) (int, error) {
	if index < 0 || index >= len(s.chunks) {
		return -1, errs.ErrChunkIndexRange
	}

	// Only the last chunk may shrink below ChunkSize; every other updated
	// chunk must keep exactly ChunkSize bytes.
	var validateErr error
	if index == len(s.chunks)-1 {
		if s.ChunkSize > 0 && len(src) > s.ChunkSize {
			validateErr = errs.ErrChunkTooLarge
		}
	} else {
		validateErr = s.validateMidSize(len(src))
	}
	if validateErr != nil {
		return -1, validateErr
	}

	c, err := s.compress(src)
	if err != nil {
		return -1, err
	}
	s.chunks[index] = c

	return index, nil
}

// DeleteChunk removes the chunk at index, shifting later chunks down by one.
func (s *SChunk) DeleteChunk(index int) error {
	if index < 0 || index >= len(s.chunks) {
		return errs.ErrChunkIndexRange
	}

	nbytes := int(s.chunks[index].Header.NBytes)
	s.chunks = append(s.chunks[:index], s.chunks[index+1:]...)
	hooks.FireChunkDelete(s.Hooks, hooks.ChunkEvent{Index: index, NBytes: nbytes})

	return nil
}

// ReorderOffsets permutes the chunk list in place: order[i] is the current
// index of the chunk that should end up at position i. order must be a permutation of [0, NumChunks()).
func (s *SChunk) ReorderOffsets(order []int) error {
	if len(order) != len(s.chunks) {
		return errs.ErrInvalidPermutation
	}

	seen := make([]bool, len(order))
	reordered := make([]*chunk.Chunk, len(order))
	for i, from := range order {
		if from < 0 || from >= len(s.chunks) || seen[from] {
			return errs.ErrInvalidPermutation
		}
		seen[from] = true
		reordered[i] = s.chunks[from]
	}

	s.chunks = reordered

	return nil
}

// ImportChunk appends an already-encoded chunk (e.g. one parsed back from a
// frame) without compressing it again. It bypasses ChunkSize validation
// since the chunk's size was already validated when it was first written.
func (s *SChunk) ImportChunk(c *chunk.Chunk) error {
	s.chunks = append(s.chunks, c)

	return nil
}

// VLMetaNames returns vlmetalayer names in insertion order.
func (s *SChunk) VLMetaNames() []string {
	return append([]string(nil), s.vlMetalayerOrder...)
}

// GetChunk returns the parsed chunk at index without decompressing it.
func (s *SChunk) GetChunk(index int) (*chunk.Chunk, error) {
	if index < 0 || index >= len(s.chunks) {
		return nil, errs.ErrChunkIndexRange
	}

	return s.chunks[index], nil
}

// DecompressChunk decompresses the chunk at index into dst.
func (s *SChunk) DecompressChunk(index int, dst []byte) ([]byte, error) {
	c, err := s.GetChunk(index)
	if err != nil {
		return nil, err
	}

	dctx := ctx.NewDecompressContext(s.DParams)

	return chunk.Decompress(dctx, c, dst)
}

// FillSpecial replaces an empty super-chunk's contents with nchunks special
// chunks covering nbytes total; it requires the
// super-chunk to currently hold no chunks.
func (s *SChunk) FillSpecial(kind format.SpecialKind, nbytes int, value []byte) error {
	if len(s.chunks) != 0 {
		return errs.ErrSchunkSpecial
	}

	chunkSize := s.ChunkSize
	if chunkSize <= 0 {
		chunkSize = nbytes
	}
	if chunkSize <= 0 {
		return nil
	}

	typesize := s.CParams.Typesize
	for off := 0; off < nbytes; off += chunkSize {
		n := chunkSize
		if off+n > nbytes {
			n = nbytes - off
		}

		data, err := chunk.MakeSpecial(kind, n, typesize, value)
		if err != nil {
			return err
		}

		c, err := chunk.Parse(data)
		if err != nil {
			return err
		}
		s.chunks = append(s.chunks, c)
	}

	return nil
}

func (s *SChunk) compress(src []byte) (*chunk.Chunk, error) {
	cctx := ctx.NewCompressContext(s.CParams.Freeze())
	c, err := chunk.Compress(cctx, src)
	if err != nil {
		return nil, err
	}
	hooks.FireCodecEncodeEnd(s.Hooks, hooks.CodecEvent{
		NBytes: len(src), CBytes: int(c.Header.CBytes), Typesize: s.CParams.Typesize, CodecID: uint8(s.CParams.Codec),
	})

	return c, nil
}
