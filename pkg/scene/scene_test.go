package scene

import (
	"testing"

	"github.com/chazu/octreesf/pkg/geom"
)

func TestBuildSphere(t *testing.T) {
	solid, err := Build(`(sphere 2)`)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !solid.Sign(geom.Vec3{X: 0, Y: 0, Z: 0}) {
		t.Fatalf("expected origin to be inside a sphere of radius 2")
	}
	if solid.Sign(geom.Vec3{X: 10, Y: 0, Z: 0}) {
		t.Fatalf("expected far point to be outside")
	}
}

func TestBuildUnionAndSubtract(t *testing.T) {
	src := `(subtract (union (box 4 4 4) (translate (sphere 1) 4 2 2)) (translate (sphere 1) 2 2 2))`
	solid, err := Build(src)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if solid.Sign(geom.Vec3{X: 2, Y: 2, Z: 2}) {
		t.Fatalf("expected the carved-out center to be outside")
	}
	if !solid.Sign(geom.Vec3{X: 0.5, Y: 0.5, Z: 0.5}) {
		t.Fatalf("expected a corner of the box to remain inside")
	}
}

func TestBuildRejectsNonSolidResult(t *testing.T) {
	if _, err := Build(`42`); err == nil {
		t.Fatalf("expected an error when the script does not produce a solid")
	}
}

func TestBuildRejectsEmptySource(t *testing.T) {
	if _, err := Build(""); err == nil {
		t.Fatalf("expected an error for empty source")
	}
}
