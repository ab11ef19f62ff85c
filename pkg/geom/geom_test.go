package geom

import "testing"

func TestAABBContainsPoint(t *testing.T) {
	box := NewAABB(Vec3{X: 0, Y: 0, Z: 0}, Vec3{X: 1, Y: 1, Z: 1})
	if !box.ContainsPoint(Vec3{X: 0.5, Y: 0.5, Z: 0.5}) {
		t.Fatalf("expected center to be contained")
	}
	if box.ContainsPoint(Vec3{X: 1, Y: 0.5, Z: 0.5}) {
		t.Fatalf("half-open box must not contain its max face")
	}
	if !box.ContainsPointClosed(Vec3{X: 1, Y: 1, Z: 1}) {
		t.Fatalf("closed containment must include max corner")
	}
}

func TestAABBIntersects(t *testing.T) {
	a := NewAABB(Vec3{X: 0, Y: 0, Z: 0}, Vec3{X: 1, Y: 1, Z: 1})
	b := NewAABB(Vec3{X: 0.5, Y: 0.5, Z: 0.5}, Vec3{X: 1.5, Y: 1.5, Z: 1.5})
	c := NewAABB(Vec3{X: 2, Y: 2, Z: 2}, Vec3{X: 3, Y: 3, Z: 3})
	if !a.Intersects(b) {
		t.Fatalf("overlapping boxes should intersect")
	}
	if a.Intersects(c) {
		t.Fatalf("disjoint boxes should not intersect")
	}
}

func TestAABBMerge(t *testing.T) {
	a := NewAABB(Vec3{X: 0, Y: 0, Z: 0}, Vec3{X: 1, Y: 1, Z: 1})
	b := NewAABB(Vec3{X: -1, Y: -1, Z: -1}, Vec3{X: 0.5, Y: 0.5, Z: 0.5})
	m := a.Merge(b)
	want := NewAABB(Vec3{X: -1, Y: -1, Z: -1}, Vec3{X: 1, Y: 1, Z: 1})
	if m.Min != want.Min || m.Max != want.Max {
		t.Fatalf("merge = %+v, want %+v", m, want)
	}
}

func TestAABBCorner(t *testing.T) {
	box := NewAABB(Vec3{X: 0, Y: 0, Z: 0}, Vec3{X: 1, Y: 2, Z: 3})
	c := box.Corner(6) // bits: X=1,Y=1,Z=0
	want := Vec3{X: 1, Y: 2, Z: 0}
	if c != want {
		t.Fatalf("corner 6 = %+v, want %+v", c, want)
	}
}

func TestRayIntersectAABB(t *testing.T) {
	box := NewAABB(Vec3{X: -1, Y: -1, Z: -1}, Vec3{X: 1, Y: 1, Z: 1})
	r := Ray{Origin: Vec3{X: -5, Y: 0, Z: 0}, Dir: Vec3{X: 1, Y: 0, Z: 0}}
	tMin, tMax, hit := r.IntersectAABB(box, 0, 1e9)
	if !hit {
		t.Fatalf("expected ray to hit box")
	}
	if tMin < 3.9 || tMin > 4.1 {
		t.Fatalf("tMin = %v, want ~4", tMin)
	}
	if tMax < 5.9 || tMax > 6.1 {
		t.Fatalf("tMax = %v, want ~6", tMax)
	}

	miss := Ray{Origin: Vec3{X: -5, Y: 5, Z: 0}, Dir: Vec3{X: 1, Y: 0, Z: 0}}
	if _, _, hit := miss.IntersectAABB(box, 0, 1e9); hit {
		t.Fatalf("expected parallel-offset ray to miss")
	}
}

func TestTriangleIntersectRay(t *testing.T) {
	tri := Triangle{
		A: Vec3{X: -1, Y: -1, Z: 0},
		B: Vec3{X: 1, Y: -1, Z: 0},
		C: Vec3{X: 0, Y: 1, Z: 0},
	}
	r := Ray{Origin: Vec3{X: 0, Y: 0, Z: -5}, Dir: Vec3{X: 0, Y: 0, Z: 1}}
	tHit, hit := tri.IntersectRay(r, 0, 1e9)
	if !hit {
		t.Fatalf("expected ray through triangle plane to hit")
	}
	if tHit < 4.9 || tHit > 5.1 {
		t.Fatalf("tHit = %v, want ~5", tHit)
	}

	miss := Ray{Origin: Vec3{X: 10, Y: 10, Z: -5}, Dir: Vec3{X: 0, Y: 0, Z: 1}}
	if _, hit := tri.IntersectRay(miss, 0, 1e9); hit {
		t.Fatalf("expected off-triangle ray to miss")
	}
}

func TestTriangleIntersectsAABB(t *testing.T) {
	tri := Triangle{
		A: Vec3{X: -2, Y: 0, Z: 0.5},
		B: Vec3{X: 2, Y: 0, Z: 0.5},
		C: Vec3{X: 0, Y: 2, Z: 0.5},
	}
	box := NewAABB(Vec3{X: -1, Y: -1, Z: 0}, Vec3{X: 1, Y: 1, Z: 1})
	if !tri.IntersectsAABB(box) {
		t.Fatalf("expected triangle crossing box to intersect")
	}

	far := NewAABB(Vec3{X: 10, Y: 10, Z: 10}, Vec3{X: 11, Y: 11, Z: 11})
	if tri.IntersectsAABB(far) {
		t.Fatalf("expected distant box to not intersect")
	}
}
