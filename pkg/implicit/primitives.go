package implicit

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/octreesf/pkg/geom"
)

// gradientEps is the step used for the central-difference normal
// estimate on sdfx primitives, which expose distance only.
const gradientEps = 1e-4

// sdf3Solid adapts a deadsy/sdfx sdf.SDF3 to the Solid interface. This
// is the one seam where the octree core's external contract is
// implemented on top of a real third-party CAD kernel instead of a
// hand-rolled analytic formula.
type sdf3Solid struct {
	s sdf.SDF3
}

// wrapSDF3 adapts any sdf.SDF3 (primitive, transform, or the sdfx
// library's own booleans) as an implicit.Solid.
func wrapSDF3(s sdf.SDF3) Solid {
	return &sdf3Solid{s: s}
}

func (a *sdf3Solid) evaluate(p geom.Vec3) float64 {
	return a.s.Evaluate(v3.Vec{X: p.X, Y: p.Y, Z: p.Z})
}

// gradient estimates the unit surface normal at p via central
// differences of the underlying distance function.
func (a *sdf3Solid) gradient(p geom.Vec3) geom.Vec3 {
	dx := a.evaluate(geom.Vec3{X: p.X + gradientEps, Y: p.Y, Z: p.Z}) - a.evaluate(geom.Vec3{X: p.X - gradientEps, Y: p.Y, Z: p.Z})
	dy := a.evaluate(geom.Vec3{X: p.X, Y: p.Y + gradientEps, Z: p.Z}) - a.evaluate(geom.Vec3{X: p.X, Y: p.Y - gradientEps, Z: p.Z})
	dz := a.evaluate(geom.Vec3{X: p.X, Y: p.Y, Z: p.Z + gradientEps}) - a.evaluate(geom.Vec3{X: p.X, Y: p.Y, Z: p.Z - gradientEps})
	n := geom.Vec3{X: dx, Y: dy, Z: dz}
	length := n.Length()
	if length < 1e-20 {
		return geom.Vec3{Z: 1}
	}
	return n.MulScalar(1.0 / length)
}

func (a *sdf3Solid) Sample(p geom.Vec3) Sample {
	d := a.evaluate(p)
	n := a.gradient(p)
	return Sample{
		SignedDistance:    d,
		Normal:            n,
		ClosestSurfacePos: p.Sub(n.MulScalar(d)),
	}
}

func (a *sdf3Solid) Sign(p geom.Vec3) bool {
	return a.evaluate(p) < 0
}

// IntersectsSurface uses the 1-Lipschitz property real (and
// reasonably well-behaved bound) distance fields have: if the
// distance at the box center exceeds the box's half-diagonal, no
// point in the box can be closer to the surface than that, so the
// surface cannot pass through it.
func (a *sdf3Solid) IntersectsSurface(box geom.AABB) bool {
	center := box.Center()
	d := a.evaluate(center)
	half := box.Size().MulScalar(0.5)
	radius := half.Length()
	return math.Abs(d) <= radius
}

func (a *sdf3Solid) AABB() geom.AABB {
	bb := a.s.BoundingBox()
	return geom.AABB{
		Min: geom.Vec3{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z},
		Max: geom.Vec3{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z},
	}
}

func (a *sdf3Solid) PrepareSampling(box geom.AABB, cellSize float64) {}

// Sphere returns a solid sphere of the given radius centered at the
// origin.
func Sphere(radius float64) Solid {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		panic(fmt.Sprintf("implicit.Sphere: %v", err))
	}
	return wrapSDF3(s)
}

// Box returns an axis-aligned box with the given dimensions, its
// minimum corner at the origin (matching the teacher's placement
// convention so translations behave intuitively).
func Box(x, y, z float64) Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("implicit.Box: %v", err))
	}
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return wrapSDF3(sdf.Transform3D(s, m))
}

// Cylinder returns a cylinder along the Z axis with the given height
// and radius, centered at the origin.
func Cylinder(height, radius float64) Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("implicit.Cylinder: %v", err))
	}
	return wrapSDF3(s)
}

// Translate moves a solid by (x, y, z).
func Translate(s Solid, x, y, z float64) Solid {
	if a, ok := s.(*sdf3Solid); ok {
		m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
		return wrapSDF3(sdf.Transform3D(a.s, m))
	}
	return &translated{inner: s, offset: geom.Vec3{X: x, Y: y, Z: z}}
}

// Rotate rotates a solid by Euler angles in degrees around X, Y, Z.
func Rotate(s Solid, x, y, z float64) Solid {
	xr := x * math.Pi / 180.0
	yr := y * math.Pi / 180.0
	zr := z * math.Pi / 180.0

	if a, ok := s.(*sdf3Solid); ok {
		m := sdf.RotateZ(zr).Mul(sdf.RotateY(yr)).Mul(sdf.RotateX(xr))
		return wrapSDF3(sdf.Transform3D(a.s, m))
	}
	return newRotated(s, xr, yr, zr)
}

// translated is a fallback translation wrapper for Solid
// implementations that are not backed by sdf.SDF3 (e.g. composition
// solids), applied by resampling the inner solid at the shifted
// point.
type translated struct {
	inner  Solid
	offset geom.Vec3
}

func (t *translated) Sample(p geom.Vec3) Sample {
	s := t.inner.Sample(p.Sub(t.offset))
	s.ClosestSurfacePos = s.ClosestSurfacePos.Add(t.offset)
	return s
}

func (t *translated) Sign(p geom.Vec3) bool {
	return t.inner.Sign(p.Sub(t.offset))
}

func (t *translated) IntersectsSurface(box geom.AABB) bool {
	return t.inner.IntersectsSurface(geom.AABB{Min: box.Min.Sub(t.offset), Max: box.Max.Sub(t.offset)})
}

func (t *translated) AABB() geom.AABB {
	b := t.inner.AABB()
	return geom.AABB{Min: b.Min.Add(t.offset), Max: b.Max.Add(t.offset)}
}

func (t *translated) PrepareSampling(box geom.AABB, cellSize float64) {
	t.inner.PrepareSampling(geom.AABB{Min: box.Min.Sub(t.offset), Max: box.Max.Sub(t.offset)}, cellSize)
}

// rotated is a fallback rotation wrapper for Solid implementations
// that are not backed by sdf.SDF3 (e.g. composition solids), applied
// by rotating query points into the inner solid's frame with the
// inverse rotation. Composition solids (Union, Intersect, Invert)
// never implement sdf.SDF3 directly, so a scene built with (rotate
// (union ...) ...) needs this path rather than Rotate's fast path.
type rotated struct {
	inner    Solid
	fwd, inv [3][3]float64
}

func newRotated(inner Solid, xr, yr, zr float64) *rotated {
	fwd := eulerMatrix(xr, yr, zr)
	return &rotated{inner: inner, fwd: fwd, inv: transposeMatrix(fwd)}
}

// eulerMatrix builds the same Z*Y*X rotation composition Rotate uses
// for sdfx-backed solids, so both paths agree on what "rotate x y z"
// means. The matrix is orthonormal, so its transpose is its inverse.
func eulerMatrix(xr, yr, zr float64) [3][3]float64 {
	sx, cx := math.Sin(xr), math.Cos(xr)
	sy, cy := math.Sin(yr), math.Cos(yr)
	sz, cz := math.Sin(zr), math.Cos(zr)

	rx := [3][3]float64{{1, 0, 0}, {0, cx, -sx}, {0, sx, cx}}
	ry := [3][3]float64{{cy, 0, sy}, {0, 1, 0}, {-sy, 0, cy}}
	rz := [3][3]float64{{cz, -sz, 0}, {sz, cz, 0}, {0, 0, 1}}
	return mulMatrix(mulMatrix(rz, ry), rx)
}

func mulMatrix(a, b [3][3]float64) [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[i][0]*b[0][j] + a[i][1]*b[1][j] + a[i][2]*b[2][j]
		}
	}
	return out
}

func transposeMatrix(m [3][3]float64) [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[j][i] = m[i][j]
		}
	}
	return out
}

func applyMatrix(m [3][3]float64, v geom.Vec3) geom.Vec3 {
	return geom.Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

func (r *rotated) Sample(p geom.Vec3) Sample {
	s := r.inner.Sample(applyMatrix(r.inv, p))
	s.ClosestSurfacePos = applyMatrix(r.fwd, s.ClosestSurfacePos)
	s.Normal = applyMatrix(r.fwd, s.Normal)
	return s
}

func (r *rotated) Sign(p geom.Vec3) bool {
	return r.inner.Sign(applyMatrix(r.inv, p))
}

// IntersectsSurface rotates the box's 8 corners into the inner
// solid's frame and tests their bounding box, since a rotated cube is
// no longer axis-aligned in that frame.
func (r *rotated) IntersectsSurface(box geom.AABB) bool {
	corners := box.Corner(0)
	inner := geom.AABB{Min: applyMatrix(r.inv, corners), Max: applyMatrix(r.inv, corners)}
	for i := 1; i < 8; i++ {
		p := applyMatrix(r.inv, box.Corner(i))
		inner = inner.Merge(geom.AABB{Min: p, Max: p})
	}
	return r.inner.IntersectsSurface(inner)
}

func (r *rotated) AABB() geom.AABB {
	b := r.inner.AABB()
	out := geom.AABB{Min: applyMatrix(r.fwd, b.Corner(0)), Max: applyMatrix(r.fwd, b.Corner(0))}
	for i := 1; i < 8; i++ {
		p := applyMatrix(r.fwd, b.Corner(i))
		out = out.Merge(geom.AABB{Min: p, Max: p})
	}
	return out
}

func (r *rotated) PrepareSampling(box geom.AABB, cellSize float64) {
	corners := box.Corner(0)
	inner := geom.AABB{Min: applyMatrix(r.inv, corners), Max: applyMatrix(r.inv, corners)}
	for i := 1; i < 8; i++ {
		p := applyMatrix(r.inv, box.Corner(i))
		inner = inner.Merge(geom.AABB{Min: p, Max: p})
	}
	r.inner.PrepareSampling(inner, cellSize)
}
