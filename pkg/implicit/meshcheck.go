package implicit

import (
	"github.com/deadsy/sdfx/render"

	"github.com/chazu/octreesf/pkg/geom"
)

// ReferenceTriangles renders solid with the sdfx library's own dense
// uniform-grid marching cubes implementation. It is an independent
// cross-check for the round-trip law (bounded Hausdorff distance
// between two meshers of the same solid), used by
// pkg/octree's round-trip test; the octree's own extractor never
// calls this, since its shared-vertex marching-cubes variant is a
// distinct algorithm.
func ReferenceTriangles(solid Solid, cells int) []geom.Triangle {
	s, ok := solid.(*sdf3Solid)
	if !ok {
		return nil
	}
	renderer := render.NewMarchingCubesUniform(cells)
	tris := render.ToTriangles(s.s, renderer)
	out := make([]geom.Triangle, len(tris))
	for i, t := range tris {
		out[i] = geom.Triangle{
			A: geom.Vec3{X: t[0].X, Y: t[0].Y, Z: t[0].Z},
			B: geom.Vec3{X: t[1].X, Y: t[1].Y, Z: t[1].Z},
			C: geom.Vec3{X: t[2].X, Y: t[2].Y, Z: t[2].Z},
		}
	}
	return out
}
