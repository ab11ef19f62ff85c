// Package implicit defines the ImplicitSolid contract the octree core
// samples against, plus the composition and primitive solids that
// satisfy it. This is the external collaborator boundary the octree
// never reaches past: it calls Solid methods only, never anything
// primitive- or composition-specific.
package implicit

import (
	"github.com/chazu/octreesf/pkg/geom"
)

// Sample is the result of querying a Solid at a point: the signed
// distance to the surface (negative inside), the closest point on
// the surface, its unit normal, and optional material tags.
type Sample struct {
	SignedDistance    float64
	ClosestSurfacePos geom.Vec3
	Normal            geom.Vec3

	UV            [2]float64
	HasUV         bool
	MaterialID    uint32
	HasMaterialID bool
}

// Lerp linearly interpolates between two samples. The octree's CSG
// refinement does not call it; it blends candidate positions per axis
// instead.
func (s Sample) Lerp(other Sample, t float64) Sample {
	return Sample{
		SignedDistance:    s.SignedDistance + (other.SignedDistance-s.SignedDistance)*t,
		ClosestSurfacePos: s.ClosestSurfacePos.Add(other.ClosestSurfacePos.Sub(s.ClosestSurfacePos).MulScalar(t)),
		Normal:            s.Normal.Add(other.Normal.Sub(s.Normal).MulScalar(t)),
		UV:                s.UV,
		HasUV:             s.HasUV && other.HasUV,
		MaterialID:        s.MaterialID,
		HasMaterialID:     s.HasMaterialID && other.HasMaterialID,
	}
}

// Solid is the input contract the octree core samples: an implicit
// signed distance field, defined analytically or backed by a
// sampled/mesh representation, queried at arbitrary points.
type Solid interface {
	// Sample returns the signed distance, closest surface point, and
	// normal at p. Exact for implicit solids, interpolated for
	// sampled ones.
	Sample(p geom.Vec3) Sample

	// Sign reports whether p is inside the solid.
	Sign(p geom.Vec3) bool

	// IntersectsSurface conservatively reports whether the zero
	// contour passes through box. False is a guarantee the box is
	// uniformly signed; true may be a false positive.
	IntersectsSurface(box geom.AABB) bool

	// AABB returns the bounds of the solid's surface.
	AABB() geom.AABB

	// PrepareSampling is called exactly once, before any Sample or
	// Sign call, so the solid can build an acceleration structure
	// over the region it will be queried in.
	PrepareSampling(box geom.AABB, cellSize float64)
}

// AreaAware is an optional refinement of Solid for implementations
// that can answer "does the surface pass through this cubic area"
// faster than converting to an AABB first (e.g. by caching per-depth
// bounds). cubeNeedsSubdivision defaults to IntersectsSurface(area
// converted to AABB) when a Solid does not implement this.
type AreaAware interface {
	// NeedsSubdivision reports whether the axis-aligned cube with the
	// given minimum corner and side length needs further subdivision,
	// i.e. whether the surface may pass through it.
	NeedsSubdivision(min geom.Vec3, size float64) bool
}

// NeedsSubdivision is the free function the octree core calls instead
// of a Solid method directly, so it can use the AreaAware fast path
// when available and fall back to IntersectsSurface otherwise.
func NeedsSubdivision(s Solid, min geom.Vec3, size float64) bool {
	if aa, ok := s.(AreaAware); ok {
		return aa.NeedsSubdivision(min, size)
	}
	max := geom.Vec3{X: min.X + size, Y: min.Y + size, Z: min.Z + size}
	return s.IntersectsSurface(geom.AABB{Min: min, Max: max})
}
