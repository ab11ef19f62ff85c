package octree

import "github.com/chazu/octreesf/pkg/geom"

// centerOfMass traverses the tree accumulating volume-weighted
// position: each inside emptyNode contributes its full volume at its
// area's center, and each gridLeaf contributes an occupancy-weighted
// volume, counting sub-cells with at least half (4 or more) of their 8
// corners inside as occupied and using each occupied sub-cell's own
// center. Mass is
// proportional to accumulated volume, not vertex count.
func centerOfMass(root node, area Area) (geom.Vec3, float64) {
	sum, volume := accumulateMass(root, area)
	if volume == 0 {
		return geom.Vec3{}, 0
	}
	return sum.MulScalar(1.0 / volume), volume
}

func accumulateMass(n node, area Area) (geom.Vec3, float64) {
	switch v := n.(type) {
	case *innerNode:
		var sum geom.Vec3
		var volume float64
		subs := area.SubAreas()
		for i, c := range v.children {
			s, vol := accumulateMass(c, subs[i])
			sum = sum.Add(s)
			volume += vol
		}
		return sum, volume
	case *emptyNode:
		if !v.sign {
			return geom.Vec3{}, 0
		}
		vol := area.RealSize * area.RealSize * area.RealSize
		return area.Center().MulScalar(vol), vol
	case *gridLeaf:
		return v.occupiedMass()
	default:
		return geom.Vec3{}, 0
	}
}

// occupiedMass counts, per marching-cubes sub-cell, whether at least
// 4 of its 8 corners are inside the solid, and accumulates
// that sub-cell's volume at its own center when so.
func (g *gridLeaf) occupiedMass() (geom.Vec3, float64) {
	subVolume := g.cellSize * g.cellSize * g.cellSize
	var sum geom.Vec3
	var volume float64
	for cx := 0; cx < leafCells; cx++ {
		for cy := 0; cy < leafCells; cy++ {
			for cz := 0; cz < leafCells; cz++ {
				inside := 0
				for corner := 0; corner < 8; corner++ {
					if g.cornerSign(cx, cy, cz, corner) {
						inside++
					}
				}
				if inside < 4 {
					continue
				}
				center := g.latticePos(cx, cy, cz).Add(g.latticePos(cx+1, cy+1, cz+1)).MulScalar(0.5)
				sum = sum.Add(center.MulScalar(subVolume))
				volume += subVolume
			}
		}
	}
	return sum, volume
}
