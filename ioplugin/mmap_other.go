//go:build !unix

package ioplugin

import "github.com/gocaterva/bstore/errs"

// MmapReadOnly is unavailable outside unix-like platforms; OpenMmapReadOnly
// always fails so callers fall back to OpenFileReadOnly.
type MmapReadOnly struct{}

func OpenMmapReadOnly(path string) (*MmapReadOnly, error) {
	return nil, errs.New(errs.ErrPluginIO, "ioplugin.OpenMmapReadOnly").WithInfo("reason", "unsupported platform")
}

func (m *MmapReadOnly) ReadAt(p []byte, off int64) (int, error) { return 0, errs.ErrPluginIO }
func (m *MmapReadOnly) WriteAt(p []byte, off int64) (int, error) { return 0, errs.ErrPluginIO }
func (m *MmapReadOnly) Truncate(size int64) error                { return errs.ErrPluginIO }
func (m *MmapReadOnly) Size() (int64, error)                     { return 0, errs.ErrPluginIO }
func (m *MmapReadOnly) Close() error                             { return nil }
