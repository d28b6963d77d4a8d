// Package ioplugin implements the pluggable backing-store abstraction a
// frame reads and writes through: open, positional read/write (ReadAt/
// WriteAt, with no seek/tell cursor), size, truncate and close, so a frame
// (package frame) can be backed by a plain file, an
// in-memory buffer, or any other implementation a caller supplies.
package ioplugin

import (
	"io"
	"os"

	"github.com/gocaterva/bstore/errs"
)

// IO is the backing-store contract a frame writes through. It is
// deliberately narrow — the same handful of verbs as the C library's
// blosc2_io_cb — so a caller can back a frame with anything that can satisfy
// them, not just a local file.
type IO interface {
	io.ReaderAt
	io.WriterAt
	// Truncate resizes the backing store to exactly size bytes.
	Truncate(size int64) error
	// Size reports the backing store's current size in bytes.
	Size() (int64, error)
	// Close releases any resources held by the backing store. Destroying the
	// file on disk, if desired, is the caller's responsibility.
	Close() error
}

// fileIO backs IO with a plain *os.File, the default and most common
// implementation.
type fileIO struct {
	f *os.File
}

var _ IO = (*fileIO)(nil)

// OpenFile opens (creating if needed) path as a file-backed IO.
func OpenFile(path string) (IO, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, errs.New(errs.ErrFileOpen, "ioplugin.OpenFile").WithInfo("path", path)
	}

	return &fileIO{f: f}, nil
}

// OpenFileReadOnly opens an existing file read-only.
func OpenFileReadOnly(path string) (IO, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.New(errs.ErrFileOpen, "ioplugin.OpenFileReadOnly").WithInfo("path", path)
	}

	return &fileIO{f: f}, nil
}

func (fi *fileIO) ReadAt(p []byte, off int64) (int, error) {
	n, err := fi.f.ReadAt(p, off)
	if err != nil && err != io.EOF {
		return n, errs.New(errs.ErrFileRead, "ioplugin.ReadAt")
	}

	return n, err
}

func (fi *fileIO) WriteAt(p []byte, off int64) (int, error) {
	n, err := fi.f.WriteAt(p, off)
	if err != nil {
		return n, errs.New(errs.ErrFileWrite, "ioplugin.WriteAt")
	}

	return n, nil
}

func (fi *fileIO) Truncate(size int64) error {
	if err := fi.f.Truncate(size); err != nil {
		return errs.New(errs.ErrFileTruncate, "ioplugin.Truncate")
	}

	return nil
}

func (fi *fileIO) Size() (int64, error) {
	st, err := fi.f.Stat()
	if err != nil {
		return 0, errs.New(errs.ErrFileRead, "ioplugin.Size")
	}

	return st.Size(), nil
}

func (fi *fileIO) Close() error {
	return fi.f.Close()
}

// Memory backs IO with an in-memory byte slice, for sparse/in-RAM frames and
// tests that want to avoid touching a filesystem.
type Memory struct {
	buf []byte
}

var _ IO = (*Memory)(nil)

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(m.buf)) {
		return 0, errs.ErrFileRead
	}
	n := copy(p, m.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

func (m *Memory) WriteAt(p []byte, off int64) (int, error) {
	end := off + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[off:end], p)

	return len(p), nil
}

func (m *Memory) Truncate(size int64) error {
	switch {
	case size < int64(len(m.buf)):
		m.buf = m.buf[:size]
	case size > int64(len(m.buf)):
		grown := make([]byte, size)
		copy(grown, m.buf)
		m.buf = grown
	}

	return nil
}

func (m *Memory) Size() (int64, error) { return int64(len(m.buf)), nil }

func (m *Memory) Close() error { return nil }

// Bytes returns the current contents; callers must not retain it across a
// subsequent Write/Truncate.
func (m *Memory) Bytes() []byte { return m.buf }
