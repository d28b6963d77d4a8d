// Package hooks implements the introspection waypoints of the container: a
// set of typed event callbacks, skipped entirely (no event-struct
// allocation) when nothing is installed. The super-chunk manager fires chunk
// append/delete and codec encode-end; the frame writers fire frame flush.
// No package in this module fires codec encode-start or the decode
// waypoints.
package hooks

// CodecEvent describes one compress/decompress waypoint.
type CodecEvent struct {
	NBytes   int
	CBytes   int
	Typesize int
	CodecID  uint8
}

// ChunkEvent describes an append/delete waypoint on a super-chunk.
type ChunkEvent struct {
	Index  int
	NBytes int
}

// FrameEvent describes a frame-flush waypoint.
type FrameEvent struct {
	NChunks int
	Bytes   int64
}

// HookSet holds one optional callback per waypoint; a nil field means that
// waypoint is skipped. Replaces the source's macro+varargs tracing with
// typed events on an explicit struct.
type HookSet struct {
	OnCodecEncodeStart func(CodecEvent)
	OnCodecEncodeEnd   func(CodecEvent)
	OnCodecDecodeStart func(CodecEvent)
	OnCodecDecodeEnd   func(CodecEvent)
	OnChunkAppend      func(ChunkEvent)
	OnChunkDelete      func(ChunkEvent)
	OnFrameFlush       func(FrameEvent)
}

func (h *HookSet) fireCodecEncodeStart(e CodecEvent) {
	if h != nil && h.OnCodecEncodeStart != nil {
		h.OnCodecEncodeStart(e)
	}
}

func (h *HookSet) fireCodecEncodeEnd(e CodecEvent) {
	if h != nil && h.OnCodecEncodeEnd != nil {
		h.OnCodecEncodeEnd(e)
	}
}

func (h *HookSet) fireCodecDecodeStart(e CodecEvent) {
	if h != nil && h.OnCodecDecodeStart != nil {
		h.OnCodecDecodeStart(e)
	}
}

func (h *HookSet) fireCodecDecodeEnd(e CodecEvent) {
	if h != nil && h.OnCodecDecodeEnd != nil {
		h.OnCodecDecodeEnd(e)
	}
}

// FireCodecEncodeStart fires the waypoint on a possibly-nil HookSet.
func FireCodecEncodeStart(h *HookSet, e CodecEvent) { h.fireCodecEncodeStart(e) }

// FireCodecEncodeEnd fires the waypoint on a possibly-nil HookSet.
func FireCodecEncodeEnd(h *HookSet, e CodecEvent) { h.fireCodecEncodeEnd(e) }

// FireCodecDecodeStart fires the waypoint on a possibly-nil HookSet.
func FireCodecDecodeStart(h *HookSet, e CodecEvent) { h.fireCodecDecodeStart(e) }

// FireCodecDecodeEnd fires the waypoint on a possibly-nil HookSet.
func FireCodecDecodeEnd(h *HookSet, e CodecEvent) { h.fireCodecDecodeEnd(e) }

// FireChunkAppend fires the waypoint on a possibly-nil HookSet.
func FireChunkAppend(h *HookSet, e ChunkEvent) {
	if h != nil && h.OnChunkAppend != nil {
		h.OnChunkAppend(e)
	}
}

// FireChunkDelete fires the waypoint on a possibly-nil HookSet.
func FireChunkDelete(h *HookSet, e ChunkEvent) {
	if h != nil && h.OnChunkDelete != nil {
		h.OnChunkDelete(e)
	}
}

// FireFrameFlush fires the waypoint on a possibly-nil HookSet.
func FireFrameFlush(h *HookSet, e FrameEvent) {
	if h != nil && h.OnFrameFlush != nil {
		h.OnFrameFlush(e)
	}
}
