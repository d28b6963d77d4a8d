// Package filter implements the chunk codec's filter pipeline: byte shuffle,
// bit shuffle, delta, and precision truncation. Each filter is an in-place
// `apply(dir, typesize, src, dst)` transform, hand-rolled rather than pulled
// from a third-party library: these are inline, allocation-free byte-level
// kernels, not something worth a dependency.
package filter

import "github.com/gocaterva/bstore/format"

// Stage is one entry of a chunk's filter pipeline: a filter id plus its
// single meta byte.
type Stage struct {
	ID   format.FilterID
	Meta byte
}

// Filter transforms a block of bytes in place conceptually; Forward and
// Inverse both write into dst (which may alias src only when the
// implementation documents it) and must produce exactly len(src) bytes.
type Filter interface {
	ID() format.FilterID
	// Forward applies the filter during compression.
	Forward(dst, src []byte, typesize int, meta byte) error
	// Inverse undoes Forward during decompression.
	Inverse(dst, src []byte, typesize int, meta byte) error
}

var registry = map[format.FilterID]Filter{
	format.FilterShuffle:    shuffleFilter{},
	format.FilterBitShuffle: bitShuffleFilter{},
	format.FilterDelta:      deltaFilter{},
	format.FilterTrunc:      truncFilter{},
}

// Get returns the built-in Filter for id, or nil for format.FilterNone.
func Get(id format.FilterID) Filter {
	return registry[id]
}

// Pipeline is an ordered sequence of filter stages, applied start-to-end
// during compression and unwound end-to-start during decompression.
type Pipeline struct {
	Stages []Stage
}

// Forward applies every stage of the pipeline in declared order into a
// scratch buffer sized len(src), returning the final transformed bytes.
func (p Pipeline) Forward(typesize int, src []byte) ([]byte, error) {
	cur := src
	for _, st := range p.Stages {
		f := Get(st.ID)
		if f == nil {
			continue
		}

		out := make([]byte, len(cur))
		if err := f.Forward(out, cur, typesize, st.Meta); err != nil {
			return nil, err
		}
		cur = out
	}

	return cur, nil
}

// Inverse undoes Forward, applying stages in reverse order.
func (p Pipeline) Inverse(typesize int, src []byte) ([]byte, error) {
	cur := src
	for i := len(p.Stages) - 1; i >= 0; i-- {
		st := p.Stages[i]
		f := Get(st.ID)
		if f == nil {
			continue
		}

		out := make([]byte, len(cur))
		if err := f.Inverse(out, cur, typesize, st.Meta); err != nil {
			return nil, err
		}
		cur = out
	}

	return cur, nil
}

// ShuffleEligible reports whether typesize is one the shuffle/bitshuffle
// filters can operate on; out-of-range typesize silently disables shuffle.
func ShuffleEligible(typesize int) bool {
	return typesize >= 1 && typesize <= format.MaxTypesize
}
