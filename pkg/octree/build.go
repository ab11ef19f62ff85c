package octree

import "github.com/chazu/octreesf/pkg/implicit"

// buildNode is the tree builder's single recursive step (component
// C6): subdivide while the solid's surface might pass through the
// area and the area is still coarser than a leaf, become a gridLeaf
// once it is leaf-sized and the surface still might cross it, and
// otherwise collapse to a single emptyNode carrying whichever sign
// the whole area shares.
func buildNode(area Area, solid implicit.Solid, registry *vertexRegistry) node {
	needsSubdivision := implicit.NeedsSubdivision(solid, area.MinReal, area.RealSize)

	if area.Expo <= LeafExpo && needsSubdivision {
		leaf := newGridLeaf(area)
		leaf.computeSigns(solid)
		leaf.computeEdges(solid, registry)
		return leaf
	}

	if needsSubdivision {
		inner := &innerNode{}
		subs := area.SubAreas()
		for i, sub := range subs {
			inner.children[i] = buildNode(sub, solid, registry)
		}
		return inner
	}

	return &emptyNode{sign: solid.Sign(area.Center())}
}
