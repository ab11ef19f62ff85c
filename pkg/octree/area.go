package octree

import "github.com/chazu/octreesf/pkg/geom"

// Area describes one cube of the octree's spatial subdivision: its
// real-space minimum corner and side length, plus an integer index
// used as a stable key for the shared-vertex registry (real
// coordinates alone are not reliable keys across floating point
// rounding at different tree depths).
type Area struct {
	// MinIndex is the minimum corner's position in units of the
	// finest possible leaf-lattice spacing, so that two areas
	// abutting at any depth compute identical index-space coordinates
	// for their shared boundary.
	MinIndex [3]int64
	// Expo is this area's size as a power of two multiple of the
	// finest lattice spacing: RealSize == cellSize * 2^Expo.
	Expo int

	MinReal  geom.Vec3
	RealSize float64
}

// ToAABB converts the area to a world-space bounding box.
func (a Area) ToAABB() geom.AABB {
	s := a.RealSize
	return geom.AABB{
		Min: a.MinReal,
		Max: geom.Vec3{X: a.MinReal.X + s, Y: a.MinReal.Y + s, Z: a.MinReal.Z + s},
	}
}

// Center returns the area's midpoint in world space.
func (a Area) Center() geom.Vec3 {
	h := a.RealSize * 0.5
	return geom.Vec3{X: a.MinReal.X + h, Y: a.MinReal.Y + h, Z: a.MinReal.Z + h}
}

// Corner returns the i-th corner, 0..7, in world space, with bit 2 of
// i selecting X, bit 1 selecting Y, and bit 0 selecting Z (min when
// the bit is 0, max when it is 1). This is the same convention as
// geom.AABB.Corner and SubAreas's child order; the marching-cubes
// corner masks built by gridLeaf.cornerSign use mctable's own,
// separate corner numbering.
func (a Area) Corner(i int) geom.Vec3 {
	p := a.MinReal
	s := a.RealSize
	if i&4 != 0 {
		p.X += s
	}
	if i&2 != 0 {
		p.Y += s
	}
	if i&1 != 0 {
		p.Z += s
	}
	return p
}

// SubAreas splits the area into its eight children, each half the
// side length, ordered by the same corner bit convention: child i
// occupies the octant nearest corner i.
func (a Area) SubAreas() [8]Area {
	var out [8]Area
	half := a.RealSize * 0.5
	childExpo := a.Expo - 1
	for i := 0; i < 8; i++ {
		min := a.MinReal
		idx := a.MinIndex
		step := int64(1) << uint(childExpo)
		if i&4 != 0 {
			min.X += half
			idx[0] += step
		}
		if i&2 != 0 {
			min.Y += half
			idx[1] += step
		}
		if i&1 != 0 {
			min.Z += half
			idx[2] += step
		}
		out[i] = Area{MinIndex: idx, Expo: childExpo, MinReal: min, RealSize: half}
	}
	return out
}
