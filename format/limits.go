package format

import "math"

// Compile-time library limits.
const (
	MinBufferSize = 128              // MinBufferSize is the smallest buffer the codec will bother compressing.
	MaxBufferSize = math.MaxInt32 - 32 // MaxBufferSize bounds nbytes so header fields never overflow.
	MaxTypesize   = 255
	MaxFilters    = 6
	MaxMetalayers = 16
	MetalayerNameMaxLen = 31
	MaxDim        = 8
	MaxDictSize   = 128 * 1024
	MaxOverhead   = 32
)

// HeaderSize is the fixed, 32-byte extended chunk header.
const HeaderSize = 32
