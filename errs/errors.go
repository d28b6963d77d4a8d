// Package errs defines the sentinel error values and structured error types
// shared across the container's packages.
//
// Entry points return a plain sentinel wrapped with context via fmt.Errorf's
// %w verb; callers use errors.Is/errors.As as usual. The richer Error/Warning/
// OperationContext types in context.go are for call sites that need to carry
// more than a wrapped sentinel (e.g. a per-block failure during a parallel
// decompress).
package errs

import "errors"

// Header and chunk wire-format errors.
var (
	ErrInvalidHeaderSize  = errors.New("blosc2: invalid header size")
	ErrInvalidMagicNumber = errors.New("blosc2: invalid magic number")
	ErrInvalidHeaderFlags = errors.New("blosc2: invalid header flags")
	ErrCorruption         = errors.New("blosc2: corrupted chunk or frame")
	ErrChecksumMismatch   = errors.New("blosc2: content checksum mismatch")
	ErrFormatUnsupported  = errors.New("blosc2: unsupported format version")
)

// Size and parameter errors.
var (
	ErrSrcTooSmall      = errors.New("blosc2: source buffer too small")
	ErrSrcTooLarge      = errors.New("blosc2: source buffer exceeds MaxBufferSize")
	ErrDstTooSmall      = errors.New("blosc2: destination capacity too small")
	ErrInvalidParam     = errors.New("blosc2: invalid parameter")
	ErrInvalidTypesize  = errors.New("blosc2: typesize must be in [1,255]")
	ErrAllocation       = errors.New("blosc2: allocation failed")
	ErrInvalidIndexSize = errors.New("blosc2: invalid index entry size")
)

// Super-chunk mutation errors.
var (
	ErrChunkTooLarge     = errors.New("blosc2: chunk nbytes exceeds schunk chunksize")
	ErrChunkShortExists  = errors.New("blosc2: schunk already has a short chunk")
	ErrChunkIndexRange   = errors.New("blosc2: chunk index out of range")
	ErrChunkAppend       = errors.New("blosc2: chunk append rejected")
	ErrChunkInsert       = errors.New("blosc2: chunk insert rejected")
	ErrChunkUpdate       = errors.New("blosc2: chunk update rejected")
	ErrSchunkCopy        = errors.New("blosc2: schunk copy failed")
	ErrSchunkSpecial     = errors.New("blosc2: fill_special requires an empty schunk")
	ErrMetalayerExists   = errors.New("blosc2: metalayer already exists")
	ErrMetalayerNotFound = errors.New("blosc2: metalayer not found")
	ErrMetalayerTooLarge = errors.New("blosc2: metalayer update exceeds original size")
	ErrMetalayerFull     = errors.New("blosc2: metalayer table full")
	ErrInvalidPermutation = errors.New("blosc2: reorder permutation is invalid")
)

// Frame and I/O errors.
var (
	ErrFrameType    = errors.New("blosc2: frame type mismatch")
	ErrFrameSpecial = errors.New("blosc2: operation unsupported on special chunk")
	ErrFileOpen     = errors.New("blosc2: file open failed")
	ErrFileRead     = errors.New("blosc2: file read failed")
	ErrFileWrite    = errors.New("blosc2: file write failed")
	ErrFileRemove   = errors.New("blosc2: file remove failed")
	ErrFileTruncate = errors.New("blosc2: file truncate failed")
	ErrNotFound     = errors.New("blosc2: not found")
	ErrPluginIO     = errors.New("blosc2: I/O plugin error")
)

// Array-layer errors.
var (
	ErrInvalidShape       = errors.New("blosc2: invalid shape")
	ErrInvalidNDim        = errors.New("blosc2: ndim out of range [1,8]")
	ErrBlockExceedsChunk  = errors.New("blosc2: blockshape exceeds chunkshape")
	ErrBufferTooSmall     = errors.New("blosc2: buffer smaller than requested slice")
	ErrUnalignedResize    = errors.New("blosc2: shrink start is not aligned to chunkshape")
	ErrArrayIsView        = errors.New("blosc2: array is a borrowed view, schunk not released")
)

var ErrGeneric = errors.New("blosc2: generic error")
