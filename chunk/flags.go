package chunk

import "github.com/gocaterva/bstore/errs"

// Bit layout of the single blosc2-flags byte:
//
//	bit 0-1  split mode    (format.SplitMode)
//	bit 2    memcpyed      whole chunk stored uncompressed
//	bit 3    has checksum  an 8-byte xxHash64 trailer follows the block offsets
//	bit 4    lazy          this is a lazy chunk
//	bit 5-7  special kind  (format.SpecialKind), valid only when bit 2 semantics allow
const (
	flagSplitMask    = 0x03
	flagMemcpyed     = 1 << 2
	flagHasChecksum  = 1 << 3
	flagLazy         = 1 << 4
	flagSpecialShift = 5
	flagSpecialMask  = 0x07 << flagSpecialShift
)

// Flags is the decoded form of the header's blosc2-flags byte.
type Flags struct {
	Split       uint8 // format.SplitMode, 2 bits
	Memcpyed    bool
	HasChecksum bool
	Lazy        bool
	Special     uint8 // format.SpecialKind, 3 bits
}

// Parse decodes b into f. No bit pattern of a single byte is invalid, so
// Parse only returns an error for symmetry with other wire-format Parse
// methods and to leave room for a future reserved-bit check.
func (f *Flags) Parse(b byte) error {
	f.Split = b & flagSplitMask
	f.Memcpyed = b&flagMemcpyed != 0
	f.HasChecksum = b&flagHasChecksum != 0
	f.Lazy = b&flagLazy != 0
	f.Special = (b & flagSpecialMask) >> flagSpecialShift

	if f.Memcpyed && f.Special != 0 {
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}

// Byte packs f into its single-byte wire form.
func (f Flags) Byte() byte {
	b := f.Split & flagSplitMask
	if f.Memcpyed {
		b |= flagMemcpyed
	}
	if f.HasChecksum {
		b |= flagHasChecksum
	}
	if f.Lazy {
		b |= flagLazy
	}
	b |= (f.Special << flagSpecialShift) & flagSpecialMask

	return b
}
