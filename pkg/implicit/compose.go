package implicit

import (
	"github.com/chazu/octreesf/pkg/geom"
)

// Union is the element-wise minimum of signed distance (negative
// inside) across its operands: a point is inside if it is inside any
// operand.
type Union struct {
	solids []Solid
	aabb   geom.AABB
}

// NewUnion builds a Union over the given solids. Panics if solids is
// empty, matching the teacher convention of failing fast on
// programmer error rather than returning a zero-value solid that
// would silently claim empty space.
func NewUnion(solids ...Solid) *Union {
	if len(solids) == 0 {
		panic("implicit: NewUnion requires at least one solid")
	}
	u := &Union{solids: solids, aabb: solids[0].AABB()}
	for _, s := range solids[1:] {
		u.aabb = u.aabb.Merge(s.AABB())
	}
	return u
}

func (u *Union) Sample(p geom.Vec3) Sample {
	best := u.solids[0].Sample(p)
	for _, s := range u.solids[1:] {
		sample := s.Sample(p)
		if sample.SignedDistance < best.SignedDistance {
			best = sample
		}
	}
	return best
}

func (u *Union) Sign(p geom.Vec3) bool {
	for _, s := range u.solids {
		if s.Sign(p) {
			return true
		}
	}
	return false
}

func (u *Union) IntersectsSurface(box geom.AABB) bool {
	for _, s := range u.solids {
		if s.IntersectsSurface(box) {
			return true
		}
	}
	return false
}

func (u *Union) AABB() geom.AABB { return u.aabb }

func (u *Union) PrepareSampling(box geom.AABB, cellSize float64) {
	for _, s := range u.solids {
		s.PrepareSampling(box, cellSize)
	}
}

// Intersect is the element-wise maximum of signed distance (negative
// inside) across its operands: a point is inside only if it is inside
// every operand.
type Intersect struct {
	solids []Solid
	aabb   geom.AABB
}

// NewIntersect builds an Intersect over the given solids.
func NewIntersect(solids ...Solid) *Intersect {
	if len(solids) == 0 {
		panic("implicit: NewIntersect requires at least one solid")
	}
	i := &Intersect{solids: solids, aabb: solids[0].AABB()}
	for _, s := range solids[1:] {
		i.aabb = i.aabb.Merge(s.AABB())
	}
	return i
}

func (i *Intersect) Sample(p geom.Vec3) Sample {
	worst := i.solids[0].Sample(p)
	for _, s := range i.solids[1:] {
		sample := s.Sample(p)
		if sample.SignedDistance > worst.SignedDistance {
			worst = sample
		}
	}
	return worst
}

func (i *Intersect) Sign(p geom.Vec3) bool {
	for _, s := range i.solids {
		if !s.Sign(p) {
			return false
		}
	}
	return true
}

func (i *Intersect) IntersectsSurface(box geom.AABB) bool {
	for _, s := range i.solids {
		if s.IntersectsSurface(box) {
			return true
		}
	}
	return false
}

func (i *Intersect) AABB() geom.AABB { return i.aabb }

func (i *Intersect) PrepareSampling(box geom.AABB, cellSize float64) {
	for _, s := range i.solids {
		s.PrepareSampling(box, cellSize)
	}
}

// Invert negates a solid's signed distance and normal, swapping
// inside and outside. Subtraction is implemented as intersection with
// an inverted operand.
type Invert struct {
	inner Solid
}

// NewInvert wraps a solid, inverting its sign.
func NewInvert(inner Solid) *Invert {
	return &Invert{inner: inner}
}

func (v *Invert) Sample(p geom.Vec3) Sample {
	s := v.inner.Sample(p)
	s.SignedDistance = -s.SignedDistance
	s.Normal = s.Normal.MulScalar(-1)
	return s
}

func (v *Invert) Sign(p geom.Vec3) bool {
	return !v.inner.Sign(p)
}

func (v *Invert) IntersectsSurface(box geom.AABB) bool {
	return v.inner.IntersectsSurface(box)
}

func (v *Invert) AABB() geom.AABB {
	return v.inner.AABB()
}

func (v *Invert) PrepareSampling(box geom.AABB, cellSize float64) {
	v.inner.PrepareSampling(box, cellSize)
}
