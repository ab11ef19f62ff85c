package implicit

import (
	"math"
	"testing"

	"github.com/chazu/octreesf/pkg/geom"
)

const tol = 1e-3

func TestSphereSample(t *testing.T) {
	s := Sphere(2)
	sample := s.Sample(geom.Vec3{X: 5, Y: 0, Z: 0})
	if math.Abs(sample.SignedDistance-3) > tol {
		t.Fatalf("distance = %v, want ~3", sample.SignedDistance)
	}
	if !s.Sign(geom.Vec3{X: 1, Y: 0, Z: 0}) {
		t.Fatalf("expected point inside sphere to have inside sign")
	}
	if s.Sign(geom.Vec3{X: 5, Y: 0, Z: 0}) {
		t.Fatalf("expected point outside sphere to have outside sign")
	}
}

func TestSphereIntersectsSurface(t *testing.T) {
	s := Sphere(2)
	near := geom.NewAABB(geom.Vec3{X: 1.5, Y: -0.5, Z: -0.5}, geom.Vec3{X: 2.5, Y: 0.5, Z: 0.5})
	if !s.IntersectsSurface(near) {
		t.Fatalf("expected box straddling the sphere surface to report true")
	}
	far := geom.NewAABB(geom.Vec3{X: 10, Y: 10, Z: 10}, geom.Vec3{X: 11, Y: 11, Z: 11})
	if s.IntersectsSurface(far) {
		t.Fatalf("expected distant box to report false")
	}
}

func TestUnionIsMinDistance(t *testing.T) {
	a := Sphere(1)
	b := Translate(Sphere(1), 5, 0, 0)
	u := NewUnion(a, b)

	if !u.Sign(geom.Vec3{X: 0, Y: 0, Z: 0}) {
		t.Fatalf("expected origin inside union (inside a)")
	}
	if !u.Sign(geom.Vec3{X: 5, Y: 0, Z: 0}) {
		t.Fatalf("expected (5,0,0) inside union (inside b)")
	}
	if u.Sign(geom.Vec3{X: 2.5, Y: 0, Z: 0}) {
		t.Fatalf("expected midpoint gap to be outside the union")
	}
}

func TestIntersectIsMaxDistance(t *testing.T) {
	a := Sphere(2)
	b := Translate(Sphere(2), 1, 0, 0)
	i := NewIntersect(a, b)

	if !i.Sign(geom.Vec3{X: 0.5, Y: 0, Z: 0}) {
		t.Fatalf("expected shared region to be inside the intersection")
	}
	if i.Sign(geom.Vec3{X: -1.9, Y: 0, Z: 0}) {
		t.Fatalf("expected point inside only a to be outside the intersection")
	}
}

func TestInvertTwiceIsIdentity(t *testing.T) {
	s := Sphere(2)
	inv := NewInvert(s)
	invInv := NewInvert(inv)

	pts := []geom.Vec3{{X: 0, Y: 0, Z: 0}, {X: 5, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}}
	for _, p := range pts {
		if s.Sign(p) != invInv.Sign(p) {
			t.Fatalf("double invert changed sign at %+v", p)
		}
		want := s.Sample(p).SignedDistance
		got := invInv.Sample(p).SignedDistance
		if math.Abs(want-got) > tol {
			t.Fatalf("double invert changed distance at %+v: got %v want %v", p, got, want)
		}
	}
}

func TestTranslateMovesSurface(t *testing.T) {
	s := Translate(Sphere(1), 10, 0, 0)
	if !s.Sign(geom.Vec3{X: 10, Y: 0, Z: 0}) {
		t.Fatalf("expected translated sphere center to be inside")
	}
	if s.Sign(geom.Vec3{X: 0, Y: 0, Z: 0}) {
		t.Fatalf("expected origin to be outside the translated sphere")
	}
}

func TestRotateCompositeSolidDoesNotPanic(t *testing.T) {
	composite := NewUnion(Sphere(1), Translate(Sphere(1), 3, 0, 0))
	r := Rotate(composite, 0, 0, 90)

	if !r.Sign(geom.Vec3{X: 0, Y: 3, Z: 0}) {
		t.Fatalf("expected the second lobe to land near (0,3,0) after a 90 degree Z rotation")
	}
	if r.Sign(geom.Vec3{X: 3, Y: 0, Z: 0}) {
		t.Fatalf("expected the pre-rotation lobe position to now be empty")
	}
}

func TestBoxAABB(t *testing.T) {
	b := Box(2, 3, 4)
	box := b.AABB()
	if math.Abs(box.Min.X) > tol || math.Abs(box.Max.X-2) > tol {
		t.Fatalf("box X extent = [%v, %v], want [0, 2]", box.Min.X, box.Max.X)
	}
	if math.Abs(box.Max.Z-4) > tol {
		t.Fatalf("box Z max = %v, want 4", box.Max.Z)
	}
}
