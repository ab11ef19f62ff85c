package octree

import "github.com/chazu/octreesf/pkg/implicit"

// mergeNode rewrites node, the tree occupying area, into the union of
// its own surface with solid (component C7). Regions of the tree that
// solid's surface cannot reach are left untouched; regions it does
// reach are rebuilt or refined.
func mergeNode(n node, area Area, solid implicit.Solid, registry *vertexRegistry) node {
	needsSubdivision := implicit.NeedsSubdivision(solid, area.MinReal, area.RealSize)

	switch v := n.(type) {
	case *innerNode:
		if !needsSubdivision {
			// solid is uniform over this whole area; union with a
			// uniformly-true area is the area itself.
			if solid.Sign(area.Center()) {
				return &emptyNode{sign: true}
			}
			return v
		}
		subs := area.SubAreas()
		for i, child := range v.children {
			v.children[i] = mergeNode(child, subs[i], solid, registry)
		}
		return v

	case *emptyNode:
		if v.sign {
			return v // already fully inside; union changes nothing
		}
		if !needsSubdivision {
			if solid.Sign(area.Center()) {
				return &emptyNode{sign: true}
			}
			return v
		}
		// Area was uniformly outside but solid's surface crosses it:
		// rebuild it fresh against solid alone (union with "outside
		// everywhere" is just solid's own sampling).
		return buildNode(area, solid, registry)

	case *gridLeaf:
		if !needsSubdivision {
			if solid.Sign(area.Center()) {
				v.releaseEdges(registry)
				return &emptyNode{sign: true}
			}
			return v
		}
		merged := v.mergeWithSolid(solid, registry)
		v.releaseEdges(registry)
		return merged

	default:
		panic("octree: unknown node kind in mergeNode")
	}
}

// intersectNode is mergeNode's mirror for intersection.
func intersectNode(n node, area Area, solid implicit.Solid, registry *vertexRegistry) node {
	needsSubdivision := implicit.NeedsSubdivision(solid, area.MinReal, area.RealSize)

	switch v := n.(type) {
	case *innerNode:
		if !needsSubdivision {
			if !solid.Sign(area.Center()) {
				return &emptyNode{sign: false}
			}
			return v
		}
		subs := area.SubAreas()
		for i, child := range v.children {
			v.children[i] = intersectNode(child, subs[i], solid, registry)
		}
		return v

	case *emptyNode:
		if !v.sign {
			return v
		}
		if !needsSubdivision {
			if !solid.Sign(area.Center()) {
				return &emptyNode{sign: false}
			}
			return v
		}
		return buildNode(area, solid, registry)

	case *gridLeaf:
		if !needsSubdivision {
			if !solid.Sign(area.Center()) {
				v.releaseEdges(registry)
				return &emptyNode{sign: false}
			}
			return v
		}
		merged := v.intersectWithSolid(solid, registry)
		v.releaseEdges(registry)
		return merged

	default:
		panic("octree: unknown node kind in intersectNode")
	}
}

// invertNode flips the sign of every node in the tree in place.
// Tree.SubtractAligned clones its right-hand operand and calls this
// on the clone before intersecting, so the mutation never touches a
// tree the caller still holds a reference to.
func invertNode(n node) node {
	switch v := n.(type) {
	case *innerNode:
		for i, child := range v.children {
			v.children[i] = invertNode(child)
		}
		return v
	case *emptyNode:
		v.sign = !v.sign
		return v
	case *gridLeaf:
		v.invert()
		return v
	default:
		panic("octree: unknown node kind in invertNode")
	}
}
