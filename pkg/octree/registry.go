package octree

// vertexKey identifies a potentially-shared surface vertex by the
// index-space coordinate of the lattice edge's lower endpoint and the
// axis the edge runs along. Two leaves computing the same edge at
// their shared face arrive at the identical key, which is the whole
// point: it lets them agree on one vertex instead of emitting two
// coincident ones.
type vertexKey struct {
	pos [3]int64
	dir int
}

// vertexRegistry is a spatial hash of shared vertices, scoped to one
// sampling or CSG operation. Interior (non-face) vertices never enter it.
type vertexRegistry struct {
	entries map[vertexKey]*sharedVertex
}

func newVertexRegistry() *vertexRegistry {
	return &vertexRegistry{entries: make(map[vertexKey]*sharedVertex)}
}

// lookupOrCreate returns the existing shared vertex at key, retaining
// it, or creates and registers a new one from make() if none exists
// yet.
func (r *vertexRegistry) lookupOrCreate(key vertexKey, make_ func() Vertex) *sharedVertex {
	if sv, ok := r.entries[key]; ok {
		sv.retain()
		return sv
	}
	sv := newSharedVertex(make_())
	r.entries[key] = sv
	return sv
}

// release drops the registry's interest in sv and, if that was the
// last reference anywhere, removes it from the map.
func (r *vertexRegistry) release(key vertexKey, sv *sharedVertex) {
	if sv.release() {
		delete(r.entries, key)
	}
}
