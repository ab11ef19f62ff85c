package octree

import (
	"math"

	"github.com/chazu/octreesf/pkg/geom"
	"github.com/chazu/octreesf/pkg/implicit"
)

// combinePerAxis blends two candidate positions around an inside
// anchor point by choosing, independently on each axis, whichever
// candidate's offset from anchor has the larger magnitude
// (preferOutward true, the union rule: the surface should bulge to
// the further of the two) or the smaller magnitude (preferOutward
// false, the intersection rule: the surface should pull in to the
// nearer of the two).
func combinePerAxis(anchor, a, b geom.Vec3, preferOutward bool) geom.Vec3 {
	da := a.Sub(anchor)
	db := b.Sub(anchor)
	pick := func(x, y float64) float64 {
		if preferOutward == (math.Abs(x) >= math.Abs(y)) {
			return x
		}
		return y
	}
	return geom.Vec3{
		X: anchor.X + pick(da.X, db.X),
		Y: anchor.Y + pick(da.Y, db.Y),
		Z: anchor.Z + pick(da.Z, db.Z),
	}
}

func averageNormal(a, b geom.Vec3) geom.Vec3 {
	n := a.Add(b)
	l := n.Length()
	if l < 1e-12 {
		return a
	}
	return n.MulScalar(1.0 / l)
}

// mergeWithSolid returns a new leaf sampling the union of this leaf's
// implicit surface with other, per spec component C4's merge
// operation. Edges that already crossed and still cross under the
// combined signs keep their existing vertex; edges introduced purely
// by other are sampled fresh against it; edges present in both are
// refined by pushing outward to whichever candidate lies further from
// the (now-combined) inside side.
func (g *gridLeaf) mergeWithSolid(other implicit.Solid, registry *vertexRegistry) *gridLeaf {
	return g.combineWithSolid(other, registry, true)
}

// intersectWithSolid is mergeWithSolid's mirror for the intersection
// operation: shared edges are refined by pulling in to whichever
// candidate lies closer to the inside side.
func (g *gridLeaf) intersectWithSolid(other implicit.Solid, registry *vertexRegistry) *gridLeaf {
	return g.combineWithSolid(other, registry, false)
}

func (g *gridLeaf) combineWithSolid(other implicit.Solid, registry *vertexRegistry, union bool) *gridLeaf {
	otherSigns := make([]bool, len(g.signs))
	for x := 0; x < leafLatticeSize; x++ {
		for y := 0; y < leafLatticeSize; y++ {
			for z := 0; z < leafLatticeSize; z++ {
				otherSigns[leafIndex(x, y, z)] = other.Sign(g.latticePos(x, y, z))
			}
		}
	}

	result := newGridLeaf(g.area)
	for i := range result.signs {
		if union {
			result.signs[i] = g.signs[i] || otherSigns[i]
		} else {
			result.signs[i] = g.signs[i] && otherSigns[i]
		}
	}

	for axis := 0; axis < 3; axis++ {
		dx, dy, dz := step(axis)
		for x := 0; x < leafLatticeSize; x++ {
			for y := 0; y < leafLatticeSize; y++ {
				for z := 0; z < leafLatticeSize; z++ {
					x1, y1, z1 := x+dx, y+dy, z+dz
					if x1 >= leafLatticeSize || y1 >= leafLatticeSize || z1 >= leafLatticeSize {
						continue
					}
					i0 := leafIndex(x, y, z)
					i1 := leafIndex(x1, y1, z1)
					if result.signs[i0] == result.signs[i1] {
						continue
					}
					p0 := g.latticePos(x, y, z)
					p1 := g.latticePos(x1, y1, z1)
					ownCrosses := g.signs[i0] != g.signs[i1]
					otherCrosses := otherSigns[i0] != otherSigns[i1]
					boundary := isBoundaryEdge(x, y, z, axis)

					makeFresh := func(s implicit.Solid) func() Vertex {
						return func() Vertex { return interpolateEdge(s, p0, p1) }
					}

					var sv *sharedVertex
					switch {
					case ownCrosses && !otherCrosses:
						sv = reuseOrRegister(g.edges[axis][i0], boundary, registry, g.latticeIndexKey(x, y, z, axis))
					case otherCrosses && !ownCrosses:
						if boundary {
							sv = registry.lookupOrCreate(g.latticeIndexKey(x, y, z, axis), makeFresh(other))
						} else {
							sv = newInteriorVertex(interpolateEdge(other, p0, p1))
						}
					default:
						// Both sources cross: refine the existing vertex
						// toward whichever endpoint is now the inside one.
						anchor := p0
						if !result.signs[i0] {
							anchor = p1
						}
						existing := g.edges[axis][i0]
						ownPos := p0.Add(p1.Sub(p0).MulScalar(0.5))
						ownNormal := geom.Vec3{Z: 1}
						if existing != nil {
							ownPos = existing.vertex.Position
							ownNormal = existing.vertex.Normal
						}
						otherVertex := interpolateEdge(other, p0, p1)
						combined := combinePerAxis(anchor, ownPos, otherVertex.Position, union)
						normal := averageNormal(ownNormal, otherVertex.Normal)
						v := Vertex{Position: combined, Normal: normal}
						if boundary {
							sv = registry.lookupOrCreate(g.latticeIndexKey(x, y, z, axis), func() Vertex { return v })
						} else {
							sv = newInteriorVertex(v)
						}
					}
					result.edges[axis][i0] = sv
				}
			}
		}
	}
	return result
}

// reuseOrRegister keeps an already-computed edge vertex when the
// combined operation leaves that edge unchanged. Boundary vertices are
// retained directly so their reference count stays accurate (the
// registry and key are not consulted); interior edges are simply
// reused.
func reuseOrRegister(sv *sharedVertex, boundary bool, registry *vertexRegistry, key vertexKey) *sharedVertex {
	if sv == nil {
		return nil
	}
	if boundary {
		sv.retain()
	}
	return sv
}

// mergeAligned combines this leaf with another leaf of the same area
// (produced by an aligned second tree) into their union, without
// access to an analytic implicit.Solid for either side: the source
// this design is modeled on leaves this path unimplemented, so the
// per-axis outward-preference rule below is this package's own
// resolution, applying the same combinePerAxis logic used against an
// analytic solid but comparing the two leaves' own stored vertices.
// registry is threaded through exactly as combineWithSolid's is, so a
// boundary edge that only one side's tree crosses reuses that side's
// existing shared vertex, and a boundary edge both sides cross is
// registered once and reused by whichever neighboring leaf pair
// computes the identical lattice key next.
func (g *gridLeaf) mergeAligned(other *gridLeaf, registry *vertexRegistry) *gridLeaf {
	return g.combineAligned(other, registry, true)
}

// intersectAligned is mergeAligned's mirror for intersection.
func (g *gridLeaf) intersectAligned(other *gridLeaf, registry *vertexRegistry) *gridLeaf {
	return g.combineAligned(other, registry, false)
}

func (g *gridLeaf) combineAligned(other *gridLeaf, registry *vertexRegistry, union bool) *gridLeaf {
	result := newGridLeaf(g.area)
	for i := range result.signs {
		if union {
			result.signs[i] = g.signs[i] || other.signs[i]
		} else {
			result.signs[i] = g.signs[i] && other.signs[i]
		}
	}

	for axis := 0; axis < 3; axis++ {
		dx, dy, dz := step(axis)
		for x := 0; x < leafLatticeSize; x++ {
			for y := 0; y < leafLatticeSize; y++ {
				for z := 0; z < leafLatticeSize; z++ {
					x1, y1, z1 := x+dx, y+dy, z+dz
					if x1 >= leafLatticeSize || y1 >= leafLatticeSize || z1 >= leafLatticeSize {
						continue
					}
					i0 := leafIndex(x, y, z)
					i1 := leafIndex(x1, y1, z1)
					if result.signs[i0] == result.signs[i1] {
						continue
					}
					aCrosses := g.signs[i0] != g.signs[i1]
					bCrosses := other.signs[i0] != other.signs[i1]
					boundary := isBoundaryEdge(x, y, z, axis)
					p0 := g.latticePos(x, y, z)
					key := g.latticeIndexKey(x, y, z, axis)

					var sv *sharedVertex
					switch {
					case aCrosses && !bCrosses:
						sv = reuseOrRegister(g.edges[axis][i0], boundary, registry, key)
					case bCrosses && !aCrosses:
						sv = reuseOrRegister(other.edges[axis][i0], boundary, registry, key)
					default:
						anchor := p0
						if !result.signs[i0] {
							anchor = g.latticePos(x1, y1, z1)
						}
						av := g.edges[axis][i0].vertex
						bv := other.edges[axis][i0].vertex
						v := Vertex{
							Position: combinePerAxis(anchor, av.Position, bv.Position, union),
							Normal:   averageNormal(av.Normal, bv.Normal),
						}
						if boundary {
							sv = registry.lookupOrCreate(key, func() Vertex { return v })
						} else {
							sv = newInteriorVertex(v)
						}
					}
					result.edges[axis][i0] = sv
				}
			}
		}
	}
	return result
}
