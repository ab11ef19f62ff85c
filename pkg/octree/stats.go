package octree

// countNodes returns the total number of nodes (inner, empty, and
// leaf) in the subtree rooted at n.
func countNodes(n node) int64 {
	switch v := n.(type) {
	case *innerNode:
		total := int64(1)
		for _, c := range v.children {
			total += countNodes(c)
		}
		return total
	default:
		return 1
	}
}

// countLeaves returns the number of gridLeaf nodes in the subtree.
func countLeaves(n node) int64 {
	switch v := n.(type) {
	case *innerNode:
		var total int64
		for _, c := range v.children {
			total += countLeaves(c)
		}
		return total
	case *gridLeaf:
		return 1
	default:
		return 0
	}
}

// countMemoryBytes estimates the subtree's memory footprint. Inner
// and empty nodes are counted at their approximate struct size; leaf
// nodes delegate to gridLeaf.countMemoryBytes, which accounts for the
// sign lattice and edge maps.
func countMemoryBytes(n node) int64 {
	switch v := n.(type) {
	case *innerNode:
		total := int64(8 * 8) // eight interface-sized child slots
		for _, c := range v.children {
			total += countMemoryBytes(c)
		}
		return total
	case *emptyNode:
		return 8
	case *gridLeaf:
		return v.countMemoryBytes()
	default:
		return 0
	}
}
