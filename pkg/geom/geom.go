// Package geom provides the axis-aligned box, ray, and triangle
// predicates that the octree core builds on: box/box, box/point,
// box/ray, box/sphere, and box/triangle intersection tests. All
// predicates return booleans (or a boolean plus a scalar); none of
// them fail.
package geom

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vec3 is the module's single three-component vector type, reused
// directly from deadsy/sdfx rather than declared in parallel.
type Vec3 = v3.Vec

// satEpsilon dilates boxes by a small amount during the box/triangle
// separating-axis test so that surfaces exactly coplanar with a box
// face are not missed due to floating point rounding.
const satEpsilon = 1e-5

// AABB is an axis-aligned bounding box with a half-open max per the
// octree's containment convention (space belongs to the leaf whose
// area's [min, max) it falls in).
type AABB struct {
	Min, Max Vec3
}

// NewAABB builds an AABB from its minimum and maximum corners.
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).MulScalar(0.5)
}

// Size returns the box's extent along each axis.
func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Dilate grows the box by eps on every side. Used to avoid missing
// exactly-coplanar triangles in the SAT test.
func (b AABB) Dilate(eps float64) AABB {
	e := Vec3{X: eps, Y: eps, Z: eps}
	return AABB{Min: b.Min.Sub(e), Max: b.Max.Add(e)}
}

// ContainsPoint reports whether p lies in the box, half-open on max.
func (b AABB) ContainsPoint(p Vec3) bool {
	return p.X >= b.Min.X && p.X < b.Max.X &&
		p.Y >= b.Min.Y && p.Y < b.Max.Y &&
		p.Z >= b.Min.Z && p.Z < b.Max.Z
}

// ContainsPointClosed is ContainsPoint but with an inclusive max,
// used for edge inclusion tests where half-open semantics would
// incorrectly exclude the box's own far corner.
func (b AABB) ContainsPointClosed(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Intersects reports whether two boxes overlap.
func (b AABB) Intersects(o AABB) bool {
	if b.Max.X < o.Min.X || b.Min.X > o.Max.X {
		return false
	}
	if b.Max.Y < o.Min.Y || b.Min.Y > o.Max.Y {
		return false
	}
	if b.Max.Z < o.Min.Z || b.Min.Z > o.Max.Z {
		return false
	}
	return true
}

// Merge returns the smallest box containing both b and o.
func (b AABB) Merge(o AABB) AABB {
	return AABB{
		Min: Vec3{X: math.Min(b.Min.X, o.Min.X), Y: math.Min(b.Min.Y, o.Min.Y), Z: math.Min(b.Min.Z, o.Min.Z)},
		Max: Vec3{X: math.Max(b.Max.X, o.Max.X), Y: math.Max(b.Max.Y, o.Max.Y), Z: math.Max(b.Max.Z, o.Max.Z)},
	}
}

// SquaredDistance returns the squared distance from p to the box,
// zero if p is inside.
func (b AABB) SquaredDistance(p Vec3) float64 {
	dx := math.Max(math.Max(b.Min.X-p.X, 0), p.X-b.Max.X)
	dy := math.Max(math.Max(b.Min.Y-p.Y, 0), p.Y-b.Max.Y)
	dz := math.Max(math.Max(b.Min.Z-p.Z, 0), p.Z-b.Max.Z)
	return dx*dx + dy*dy + dz*dz
}

// IntersectsSphere reports whether the sphere at center with the
// given radius touches the box.
func (b AABB) IntersectsSphere(center Vec3, radius float64) bool {
	return b.SquaredDistance(center) <= radius*radius
}

// Corner returns the i-th corner of the box, 0..7, where bit 2 of i
// selects min/max on X, bit 1 on Y, and bit 0 on Z.
func (b AABB) Corner(i int) Vec3 {
	x := b.Min.X
	if i&4 != 0 {
		x = b.Max.X
	}
	y := b.Min.Y
	if i&2 != 0 {
		y = b.Max.Y
	}
	z := b.Min.Z
	if i&1 != 0 {
		z = b.Max.Z
	}
	return Vec3{X: x, Y: y, Z: z}
}

// IntersectsPlane reports whether the box straddles the plane with
// the given unit normal and offset (points p with normal.Dot(p) == d
// lie on the plane), by checking whether the box's eight corners have
// mixed signed distance to the plane.
func (b AABB) IntersectsPlane(normal Vec3, d float64) bool {
	pos, neg := false, false
	for i := 0; i < 8; i++ {
		dist := normal.Dot(b.Corner(i)) - d
		if dist >= 0 {
			pos = true
		}
		if dist <= 0 {
			neg = true
		}
	}
	return pos && neg
}

// Ray is a parametric ray p(t) = Origin + t*Dir.
type Ray struct {
	Origin, Dir Vec3
}

// PointAt evaluates the ray at parameter t.
func (r Ray) PointAt(t float64) Vec3 {
	return r.Origin.Add(r.Dir.MulScalar(t))
}

// IntersectAABB is the standard ray/slab test. It reports whether the
// ray meets the box within [tNear, tFar] and, if so, returns the
// entry and exit parameters clipped to that range.
func (r Ray) IntersectAABB(b AABB, tNear, tFar float64) (tMin, tMax float64, hit bool) {
	tMin, tMax = tNear, tFar
	comps := [3]struct{ o, d, lo, hi float64 }{
		{r.Origin.X, r.Dir.X, b.Min.X, b.Max.X},
		{r.Origin.Y, r.Dir.Y, b.Min.Y, b.Max.Y},
		{r.Origin.Z, r.Dir.Z, b.Min.Z, b.Max.Z},
	}
	for _, c := range comps {
		if math.Abs(c.d) < 1e-12 {
			if c.o < c.lo || c.o > c.hi {
				return 0, 0, false
			}
			continue
		}
		invD := 1.0 / c.d
		t0 := (c.lo - c.o) * invD
		t1 := (c.hi - c.o) * invD
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMin > tMax {
			return 0, 0, false
		}
	}
	return tMin, tMax, true
}

// Triangle is a triangle in world space, vertices in winding order.
type Triangle struct {
	A, B, C Vec3
}

// Normal returns the triangle's (unnormalized-input-tolerant) unit
// face normal following the A,B,C winding.
func (t Triangle) Normal() Vec3 {
	n := t.B.Sub(t.A).Cross(t.C.Sub(t.A))
	length := n.Length()
	if length < 1e-20 {
		return Vec3{}
	}
	return n.MulScalar(1.0 / length)
}

// IntersectsAABB is the Akenine-Möller 13-axis separating-axis test
// for triangle/box overlap: the three box face normals, the triangle
// normal, and the nine cross products of box edges with triangle
// edges. The box is dilated by satEpsilon first so an exactly
// coplanar triangle is not missed by rounding.
func (t Triangle) IntersectsAABB(box AABB) bool {
	box = box.Dilate(satEpsilon)
	c := box.Center()
	e := box.Size().MulScalar(0.5)

	v0 := t.A.Sub(c)
	v1 := t.B.Sub(c)
	v2 := t.C.Sub(c)

	f0 := v1.Sub(v0)
	f1 := v2.Sub(v1)
	f2 := v0.Sub(v2)

	boxAxes := [3]Vec3{{X: 1}, {Y: 1}, {Z: 1}}
	edges := [3]Vec3{f0, f1, f2}

	// Nine axes: box-axis cross triangle-edge.
	for _, a := range boxAxes {
		for _, f := range edges {
			axis := a.Cross(f)
			if axis.Length() < 1e-12 {
				continue
			}
			if separated(axis, v0, v1, v2, e) {
				return false
			}
		}
	}

	// Three box face-normal axes: an AABB overlap test on each axis.
	for i, a := range boxAxes {
		p0, p1, p2 := a.Dot(v0), a.Dot(v1), a.Dot(v2)
		r := e.X*math.Abs(a.X) + e.Y*math.Abs(a.Y) + e.Z*math.Abs(a.Z)
		_ = i
		if math.Max(math.Max(p0, p1), p2) < -r || math.Min(math.Min(p0, p1), p2) > r {
			return false
		}
	}

	// Triangle normal axis.
	n := f0.Cross(f1)
	if separated(n, v0, v1, v2, e) {
		return false
	}

	return true
}

// separated tests whether the box (half-extents e, centered at
// origin in the triangle-local frame) is separated from the triangle
// (vertices v0,v1,v2, same frame) along axis.
func separated(axis Vec3, v0, v1, v2, e Vec3) bool {
	p0 := axis.Dot(v0)
	p1 := axis.Dot(v1)
	p2 := axis.Dot(v2)
	r := e.X*math.Abs(axis.X) + e.Y*math.Abs(axis.Y) + e.Z*math.Abs(axis.Z)
	minP := math.Min(p0, math.Min(p1, p2))
	maxP := math.Max(p0, math.Max(p1, p2))
	return minP > r || maxP < -r
}

// IntersectRay is the Möller-Trumbore ray/triangle test, returning
// the hit distance along the ray when it lies within [tMin, tMax].
func (t Triangle) IntersectRay(r Ray, tMin, tMax float64) (dist float64, hit bool) {
	const eps = 1e-9
	edge1 := t.B.Sub(t.A)
	edge2 := t.C.Sub(t.A)
	pvec := r.Dir.Cross(edge2)
	det := edge1.Dot(pvec)
	if math.Abs(det) < eps {
		return 0, false
	}
	invDet := 1.0 / det
	tvec := r.Origin.Sub(t.A)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}
	qvec := tvec.Cross(edge1)
	v := r.Dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}
	d := edge2.Dot(qvec) * invDet
	if d < tMin || d > tMax {
		return 0, false
	}
	return d, true
}
