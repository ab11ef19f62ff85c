package octree

import "github.com/chazu/octreesf/pkg/geom"

// Vertex is a surface vertex: its world-space position and unit
// normal. Material tags ride along on the sample that produced it but
// are not carried into the output mesh, matching the teacher's mesh
// type.
type Vertex struct {
	Position geom.Vec3
	Normal   geom.Vec3
}

// sharedVertex is the mutable record behind one surface-crossing
// point. Vertices that fall on a leaf's face are reference counted
// and registered in a vertexRegistry so that neighboring leaves reuse
// the identical vertex instead of each emitting their own copy of the
// same point; vertices strictly interior to a leaf are never shared
// and never touch the registry.
type sharedVertex struct {
	vertex Vertex

	// shared is true if this vertex lies on a leaf face and is (or
	// was) registered in a vertexRegistry.
	shared bool

	// refCount is the number of leaf edge slots currently pointing at
	// this vertex. Interior vertices start with a single owner; clone
	// retains them just like shared ones, and mutableVertex reads the
	// count for both kinds.
	refCount int

	// vertexIndex is this vertex's position in the output mesh's
	// vertex buffer, assigned during generateVertices and valid only
	// after it runs.
	vertexIndex int

	// marked is a transient flag used during mesh generation to visit
	// each shared vertex's contribution exactly once even though
	// multiple leaves reference it; cleared after extraction.
	marked bool
}

func newInteriorVertex(v Vertex) *sharedVertex {
	return &sharedVertex{vertex: v, refCount: 1}
}

func newSharedVertex(v Vertex) *sharedVertex {
	return &sharedVertex{vertex: v, shared: true, refCount: 1}
}

func (sv *sharedVertex) retain() {
	sv.refCount++
}

// release drops one reference, reporting whether the vertex has no
// remaining owners and should be dropped from any registry it is in.
func (sv *sharedVertex) release() bool {
	sv.refCount--
	return sv.refCount <= 0
}
