package ctx

import (
	"github.com/gocaterva/bstore/errs"
	"github.com/gocaterva/bstore/internal/pool"
)

// Mode records whether a Context was created for compression or
// decompression; using it for the wrong direction is a programmer error.
type Mode uint8

const (
	ModeCompress Mode = iota + 1
	ModeDecompress
)

// Context owns the per-operation scratch state:
// a parameter snapshot, a thread pool handle, reusable per-thread
// temporaries, the decompression maskout bitmap, and an OperationContext for
// errors/warnings. One Context is built per compress/decompress call (or
// reused across calls of the same Mode when StickyParameters is set).
type Context struct {
	Mode    Mode
	CParams FrozenCParams
	DParams DParams
	Pool    Pool
	Arena   *pool.Arena
	Op      errs.OperationContext

	// Maskout is the per-context decompression skip-bitmap: Maskout[i] true means block i is skipped and its
	// destination bytes are left untouched. It is reset by decompress_chunk
	// before returning.
	Maskout []bool

	StickyParameters bool
}

// NewCompressContext builds a Context for a single compression operation
// from a frozen parameter snapshot.
func NewCompressContext(cp FrozenCParams) *Context {
	c := &Context{
		Mode:    ModeCompress,
		CParams: cp,
		Pool:    NewPool(cp.NThreads),
		Arena:   pool.NewArena(),
	}
	c.Op.Start()

	return c
}

// NewDecompressContext builds a Context for a single decompression
// operation.
func NewDecompressContext(dp DParams) *Context {
	c := &Context{
		Mode:    ModeDecompress,
		DParams: dp,
		Pool:    NewPool(dp.NThreads),
		Arena:   pool.NewArena(),
	}
	c.Op.Start()

	return c
}

// ResetMaskout clears the per-block skip bitmap to size n, all unset — the
// default of "decompress every block".
func (c *Context) ResetMaskout(n int) {
	if cap(c.Maskout) < n {
		c.Maskout = make([]bool, n)

		return
	}
	c.Maskout = c.Maskout[:n]
	for i := range c.Maskout {
		c.Maskout[i] = false
	}
}

// SkipBlock marks block i to be skipped by the next decompress.
func (c *Context) SkipBlock(i int) {
	if i >= 0 && i < len(c.Maskout) {
		c.Maskout[i] = true
	}
}

// IsSkipped reports whether block i is masked out.
func (c *Context) IsSkipped(i int) bool {
	return i >= 0 && i < len(c.Maskout) && c.Maskout[i]
}

// Release returns the Context's arena scratch to its pool. Contexts are
// cheap enough that callers typically just let them be garbage collected,
// but Release lets a hot loop reuse the arena explicitly.
func (c *Context) Release() {
	c.Arena.Reset()
}
