package octree

// node is the tagged sum of the octree's three node kinds. It is
// deliberately a closed, empty marker interface: every place that
// needs to act on a node does so with a type switch over
// *innerNode, *emptyNode, and *gridLeaf, not by calling an interface
// method. This mirrors the source design's polymorphism-by-switch
// rather than virtual dispatch, and keeps operations like the CSG
// rewriter and the extractor as one function each instead of spread
// across three method sets.
type node interface {
	isNode()
}

// innerNode subdivides its area into eight equal children, one per
// octant, ordered by Area.SubAreas's corner convention.
type innerNode struct {
	children [8]node
}

func (*innerNode) isNode() {}

// emptyNode is a uniformly-signed cube: no part of its area is within
// LeafExpo levels of the surface, so it carries only the sign every
// point inside it shares.
type emptyNode struct {
	sign bool
}

func (*emptyNode) isNode() {}

func (*gridLeaf) isNode() {}
