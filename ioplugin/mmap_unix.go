//go:build unix

package ioplugin

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/gocaterva/bstore/errs"
)

// MmapReadOnly backs IO with a read-only memory-mapped file, avoiding a
// copy through the page cache for frames opened purely for decompression.
type MmapReadOnly struct {
	f    *os.File
	data []byte
}

var _ IO = (*MmapReadOnly)(nil)

func OpenMmapReadOnly(path string) (*MmapReadOnly, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.New(errs.ErrFileOpen, "ioplugin.OpenMmapReadOnly").WithInfo("path", path)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()

		return nil, errs.New(errs.ErrFileRead, "ioplugin.OpenMmapReadOnly")
	}

	size := st.Size()
	if size == 0 {
		return &MmapReadOnly{f: f}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()

		return nil, errs.New(errs.ErrFileOpen, "ioplugin.OpenMmapReadOnly").WithInfo("errno", err.Error())
	}

	return &MmapReadOnly{f: f, data: data}, nil
}

func (m *MmapReadOnly) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(m.data)) {
		return 0, errs.ErrFileRead
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, errs.ErrFileRead
	}

	return n, nil
}

func (m *MmapReadOnly) WriteAt([]byte, int64) (int, error) {
	return 0, errs.New(errs.ErrPluginIO, "ioplugin.MmapReadOnly.WriteAt").WithInfo("reason", "read-only backend")
}

func (m *MmapReadOnly) Truncate(int64) error {
	return errs.New(errs.ErrPluginIO, "ioplugin.MmapReadOnly.Truncate").WithInfo("reason", "read-only backend")
}

func (m *MmapReadOnly) Size() (int64, error) { return int64(len(m.data)), nil }

func (m *MmapReadOnly) Close() error {
	if m.data != nil {
		if err := unix.Munmap(m.data); err != nil {
			return errs.New(errs.ErrPluginIO, "ioplugin.MmapReadOnly.Close")
		}
		m.data = nil
	}

	return m.f.Close()
}
