package octree

// combineAlignedNode implements the aligned-tree CSG rewriter
// (component C7's counterpart operating on two trees instead of a
// tree and an implicit.Solid). "Aligned" means both trees were built
// with the same bounds and the same maximum depth, so at any given
// area both nodes are drawn from the same pair of possible kinds:
// {innerNode, emptyNode} above LeafExpo, {gridLeaf, emptyNode} at or
// below it. A gridLeaf can therefore never meet an innerNode here;
// that combination would mean the two trees were not actually
// aligned, and is treated as a caller error.
func combineAlignedNode(a, b node, area Area, union bool, registry *vertexRegistry) node {
	if ae, ok := a.(*emptyNode); ok {
		if ae.sign == union {
			// Union with "everywhere inside", or intersect with
			// "everywhere outside": the result is fixed regardless of b.
			return &emptyNode{sign: ae.sign}
		}
		// a contributes nothing (empty side of union, universal side
		// of intersect): the result is just b.
		return cloneAlignedNode(b)
	}
	if be, ok := b.(*emptyNode); ok {
		if be.sign == union {
			return &emptyNode{sign: be.sign}
		}
		return cloneAlignedNode(a)
	}

	switch av := a.(type) {
	case *innerNode:
		bv, ok := b.(*innerNode)
		if !ok {
			panic("octree: aligned CSG structural mismatch (inner vs leaf)")
		}
		subs := area.SubAreas()
		out := &innerNode{}
		for i := range av.children {
			out.children[i] = combineAlignedNode(av.children[i], bv.children[i], subs[i], union, registry)
		}
		return out

	case *gridLeaf:
		bv, ok := b.(*gridLeaf)
		if !ok {
			panic("octree: aligned CSG structural mismatch (leaf vs inner)")
		}
		if union {
			return av.mergeAligned(bv, registry)
		}
		return av.intersectAligned(bv, registry)

	default:
		panic("octree: unknown node kind in combineAlignedNode")
	}
}

// cloneAlignedNode deep-copies a subtree pulled in wholesale from one
// side of an aligned CSG operation (the other side contributed
// nothing there).
func cloneAlignedNode(n node) node {
	switch v := n.(type) {
	case *innerNode:
		out := &innerNode{}
		for i, c := range v.children {
			out.children[i] = cloneAlignedNode(c)
		}
		return out
	case *emptyNode:
		e := *v
		return &e
	case *gridLeaf:
		return v.clone()
	default:
		panic("octree: unknown node kind in cloneAlignedNode")
	}
}
