package frame

import "github.com/gocaterva/bstore/ctx"

// defaultCParams reconstructs a CParams suitable for appending new chunks to
// a super-chunk just read back from a frame. Existing chunks carry their own
// codec/filter choice in their headers (chunk.Decompress reads it from
// there, not from SChunk.CParams), so only Typesize needs to survive the
// round trip for future Append/Insert/Update calls to make sense.
func defaultCParams(h *Header) ctx.CParams {
	cp := ctx.DefaultCParams()
	cp.Typesize = int(h.Typesize)

	return cp
}

func defaultDParams() ctx.DParams {
	return ctx.DefaultDParams()
}
