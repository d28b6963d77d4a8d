package ctx

import (
	"os"
	"strconv"

	"github.com/gocaterva/bstore/filter"
	"github.com/gocaterva/bstore/format"
)

// ApplyEnvOverrides mutates cp in place: environment variables are
// read and applied before a compression entry point snapshots its
// parameters, so they always win over whatever the caller configured via
// options.
func ApplyEnvOverrides(cp *CParams) {
	if v, ok := envInt("BLOSC_CLEVEL"); ok && v >= 0 && v <= 9 {
		cp.CodecLevel = v
	}

	switch os.Getenv("BLOSC_SHUFFLE") {
	case "NOSHUFFLE":
		cp.Pipeline = filter.Pipeline{}
	case "SHUFFLE":
		cp.Pipeline = filter.Pipeline{Stages: []filter.Stage{{ID: format.FilterShuffle}}}
	case "BITSHUFFLE":
		cp.Pipeline = filter.Pipeline{Stages: []filter.Stage{{ID: format.FilterBitShuffle}}}
	}

	if os.Getenv("BLOSC_DELTA") == "1" {
		cp.Pipeline.Stages = append(cp.Pipeline.Stages, filter.Stage{ID: format.FilterDelta})
	}

	if v, ok := envInt("BLOSC_TYPESIZE"); ok && v >= 1 && v <= format.MaxTypesize {
		cp.Typesize = v
	}

	if id, ok := compressorNameToID(os.Getenv("BLOSC_COMPRESSOR")); ok {
		cp.Codec = id
	}

	if v, ok := envInt("BLOSC_NTHREADS"); ok && v >= 1 {
		cp.NThreads = v
	}

	if v, ok := envInt("BLOSC_BLOCKSIZE"); ok && v >= 0 {
		cp.BlockSize = v
	}

	if os.Getenv("BTUNE_TRADEOFF") != "" {
		cp.TunerID = "btune"
	}
}

func envInt(name string) (int, bool) {
	s := os.Getenv(name)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}

	return v, true
}

func compressorNameToID(name string) (format.CodecID, bool) {
	switch name {
	case "BLOSCLZ":
		return format.CodecBloscLZ, true
	case "LZ4":
		return format.CodecLZ4, true
	case "LZ4HC":
		return format.CodecLZ4HC, true
	case "LIZARD":
		// No Lizard library is wired in; fall back to the closest available
		// general-purpose codec rather than fail.
		return format.CodecZstd, true
	case "SNAPPY":
		return format.CodecSnappy, true
	case "ZLIB":
		return format.CodecZlib, true
	case "ZSTD":
		return format.CodecZstd, true
	default:
		return 0, false
	}
}

// NoLock reports whether BLOSC_NOLOCK is set: when set, operations
// behave as if the explicit-context API was used (no shared/global state).
// The core never maintains global shared state to begin with, so this is
// observed only for parity with the documented contract.
func NoLock() bool {
	return os.Getenv("BLOSC_NOLOCK") != ""
}
