// Package ctx holds the parameter surfaces (CParams/DParams), the frozen
// snapshot taken at the start of each operation, the thread pool wrapper, and
// the per-operation scratch Context.
package ctx

import (
	"fmt"

	"github.com/gocaterva/bstore/filter"
	"github.com/gocaterva/bstore/format"
	"github.com/gocaterva/bstore/internal/options"
)

// CParams configures one compression operation. Built with functional
// options and frozen into an immutable FrozenCParams snapshot before use.
type CParams struct {
	Codec       format.CodecID
	CodecLevel  int // 0..9; 0 means memcpy, no compression attempted.
	Typesize    int
	NThreads    int
	BlockSize   int // 0 = auto
	Pipeline    filter.Pipeline
	SplitMode   format.SplitMode
	UseDict     bool
	UseChecksum bool
	TunerID     string
}

// DefaultCParams returns the zero-value-safe baseline: BloscLZ codec,
// level 5, single filter stage (shuffle), auto blocksize, auto split.
func DefaultCParams() CParams {
	return CParams{
		Codec:      format.CodecBloscLZ,
		CodecLevel: 5,
		Typesize:   1,
		NThreads:   1,
		Pipeline:   filter.Pipeline{Stages: []filter.Stage{{ID: format.FilterShuffle}}},
		SplitMode:  format.SplitAuto,
	}
}

// CParamsOption mutates a CParams under construction.
type CParamsOption = options.Option[*CParams]

func WithCodec(id format.CodecID) CParamsOption {
	return options.NoError(func(c *CParams) { c.Codec = id })
}

func WithCodecLevel(level int) CParamsOption {
	return options.New(func(c *CParams) error {
		if level < 0 || level > 9 {
			return fmt.Errorf("ctx: codec level must be in [0,9], got %d", level)
		}
		c.CodecLevel = level

		return nil
	})
}

func WithTypesize(typesize int) CParamsOption {
	return options.New(func(c *CParams) error {
		if typesize < 1 || typesize > format.MaxTypesize {
			return fmt.Errorf("ctx: typesize must be in [1,%d], got %d", format.MaxTypesize, typesize)
		}
		c.Typesize = typesize

		return nil
	})
}

func WithNThreads(n int) CParamsOption {
	return options.New(func(c *CParams) error {
		if n < 1 {
			return fmt.Errorf("ctx: nthreads must be >= 1, got %d", n)
		}
		c.NThreads = n

		return nil
	})
}

func WithBlockSize(size int) CParamsOption {
	return options.NoError(func(c *CParams) { c.BlockSize = size })
}

func WithFilters(stages ...filter.Stage) CParamsOption {
	return options.New(func(c *CParams) error {
		if len(stages) > format.MaxFilters {
			return fmt.Errorf("ctx: at most %d filters, got %d", format.MaxFilters, len(stages))
		}
		c.Pipeline = filter.Pipeline{Stages: stages}

		return nil
	})
}

func WithSplitMode(mode format.SplitMode) CParamsOption {
	return options.NoError(func(c *CParams) { c.SplitMode = mode })
}

func WithDict(enabled bool) CParamsOption {
	return options.NoError(func(c *CParams) { c.UseDict = enabled })
}

func WithChecksum(enabled bool) CParamsOption {
	return options.NoError(func(c *CParams) { c.UseChecksum = enabled })
}

func WithTuner(id string) CParamsOption {
	return options.NoError(func(c *CParams) { c.TunerID = id })
}

// NewCParams builds a CParams from DefaultCParams plus opts, then applies any
// BLOSC_* environment overrides before returning.
func NewCParams(opts ...CParamsOption) (CParams, error) {
	cp := DefaultCParams()
	if err := options.Apply(&cp, opts...); err != nil {
		return CParams{}, err
	}
	ApplyEnvOverrides(&cp)

	return cp, nil
}

// FrozenCParams is the immutable snapshot taken at the start of a Compress
// call; a CParams may keep mutating after a chunk's compression has started
// without affecting that in-flight operation.
type FrozenCParams struct {
	CParams
}

// Freeze snapshots cp. CParams has no pointer/slice fields that a caller
// could mutate after Freeze except Pipeline.Stages, which Freeze copies.
func (cp CParams) Freeze() FrozenCParams {
	frozen := cp
	frozen.Pipeline.Stages = append([]filter.Stage(nil), cp.Pipeline.Stages...)

	return FrozenCParams{frozen}
}
