package frame

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocaterva/bstore/chunk"
	"github.com/gocaterva/bstore/errs"
	"github.com/gocaterva/bstore/format"
	"github.com/gocaterva/bstore/hooks"
	"github.com/gocaterva/bstore/schunk"
)

// A sparse frame stores each chunk as its own file inside a directory,
// rather than concatenated into one contiguous blob:
// append-heavy workloads avoid rewriting the whole frame for one new chunk,
// at the cost of one open/read per chunk access.
const (
	sparseHeaderFile  = "header.bin"
	sparseTrailerFile = "trailer.bin"
	sparseChunkFmt    = "chunk-%08d.bin"
)

// WriteSparse serializes s as a sparse frame under dir, creating dir if it
// doesn't exist and overwriting any chunk files already there.
func WriteSparse(dir string, s *schunk.SChunk, hset *hooks.HookSet) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.New(errs.ErrFileOpen, "frame.WriteSparse").WithInfo("dir", dir)
	}

	header := &Header{
		NBytes:    s.NBytes(),
		ChunkSize: uint32(s.ChunkSize),
		Typesize:  uint8(s.CParams.Typesize),
		FrameType: format.FrameSparse,
	}
	header.MetalayerNames = s.MetaNames()
	for _, name := range header.MetalayerNames {
		v, _ := s.MetaGet(name)
		header.MetalayerValues = append(header.MetalayerValues, v)
	}

	for i := 0; i < s.NumChunks(); i++ {
		c, err := s.GetChunk(i)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, fmt.Sprintf(sparseChunkFmt, i))
		if err := os.WriteFile(path, c.Data, 0o644); err != nil {
			return errs.New(errs.ErrFileWrite, "frame.WriteSparse").WithInfo("path", path)
		}
	}
	header.CBytes = s.CBytes()

	headerBytes := header.encode()
	if err := os.WriteFile(filepath.Join(dir, sparseHeaderFile), headerBytes, 0o644); err != nil {
		return errs.New(errs.ErrFileWrite, "frame.WriteSparse")
	}

	names, values := vlmetaLists(s)
	t := &Trailer{VLNames: names, VLValues: values}
	trailerBytes := t.encode(headerBytes)
	if err := os.WriteFile(filepath.Join(dir, sparseTrailerFile), trailerBytes, 0o644); err != nil {
		return errs.New(errs.ErrFileWrite, "frame.WriteSparse")
	}

	hooks.FireFrameFlush(hset, hooks.FrameEvent{NChunks: s.NumChunks(), Bytes: header.CBytes})

	return nil
}

// ReadSparse parses a sparse frame directory back into a super-chunk.
func ReadSparse(dir string) (*schunk.SChunk, error) {
	headerBytes, err := os.ReadFile(filepath.Join(dir, sparseHeaderFile))
	if err != nil {
		return nil, errs.New(errs.ErrFileRead, "frame.ReadSparse").WithInfo("dir", dir)
	}
	h, err := decodeHeader(headerBytes)
	if err != nil {
		return nil, err
	}
	if h.FrameType != format.FrameSparse {
		return nil, errs.ErrFrameType
	}

	trailerBytes, err := os.ReadFile(filepath.Join(dir, sparseTrailerFile))
	if err != nil {
		return nil, errs.New(errs.ErrFileRead, "frame.ReadSparse")
	}
	combined := append(append([]byte(nil), headerBytes...), trailerBytes...)
	trailer, _, err := decodeTrailer(combined)
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

	for i := 0; ; i++ {
		path := filepath.Join(dir, fmt.Sprintf(sparseChunkFmt, i))
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			break
		}
		if err != nil {
			return nil, errs.New(errs.ErrFileRead, "frame.ReadSparse").WithInfo("path", path)
		}

		c, err := chunk.Parse(data)
		if err != nil {
			return nil, err
		}
		if err := s.ImportChunk(c); err != nil {
			return nil, err
		}
	}

	return s, nil
}
