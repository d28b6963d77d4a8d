package pool

// Arena is the per-context scratch allocator that hands out temporaries of
// the requested size (one block, for chunk.GetItem) and releases them in one
// shot on Reset rather than individually. It is a thin wrapper over
// GetByteSlice and its cleanup functions, so the buffers come from the
// shared sync.Pool rather than being allocated fresh on every call.
type Arena struct {
	taken    [][]byte
	cleanups []func()
}

func NewArena() *Arena {
	return &Arena{}
}

// Scratch returns a byte slice of exactly n bytes, owned by the arena until
// Reset is called. Each call gets its own backing slice, so scratch handed
// out earlier is never aliased. Scratch and Reset are not safe for
// concurrent use.
func (a *Arena) Scratch(n int) []byte {
	s, cleanup := GetByteSlice(n)
	a.taken = append(a.taken, s)
	a.cleanups = append(a.cleanups, cleanup)

	return s
}

// Reset returns every scratch buffer handed out since the last Reset back to
// the pool.
func (a *Arena) Reset() {
	for _, c := range a.cleanups {
		c()
	}
	a.taken = a.taken[:0]
	a.cleanups = a.cleanups[:0]
}
