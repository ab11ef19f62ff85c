package octree

// forEachLeaf visits every gridLeaf in the tree, depth first.
func forEachLeaf(n node, visit func(*gridLeaf)) {
	switch v := n.(type) {
	case *innerNode:
		for _, c := range v.children {
			forEachLeaf(c, visit)
		}
	case *gridLeaf:
		visit(v)
	case *emptyNode:
		// no surface here
	}
}

// generateMesh extracts an IndexedMesh from the tree (component C8):
// a first pass emits every leaf's not-yet-seen vertices, a second
// pass emits every leaf's triangle indices now that all vertices
// have their final index, and a third clears the transient marked
// flag so the tree can be extracted again later.
func generateMesh(root node) *IndexedMesh {
	mesh := &IndexedMesh{}
	forEachLeaf(root, func(l *gridLeaf) { l.generateVertices(mesh) })
	forEachLeaf(root, func(l *gridLeaf) { l.generateIndices(mesh) })
	forEachLeaf(root, func(l *gridLeaf) { l.clearMarks() })
	return mesh
}
