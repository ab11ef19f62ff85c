package octree

import (
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/chazu/octreesf/pkg/geom"
)

// triFace pairs a triangle with its bounding rect for the R-tree. A hit
// reports the triangle's flat face normal; vertex normals are not
// interpolated.
type triFace struct {
	tri  geom.Triangle
	rect rtreego.Rect
}

func (f *triFace) Bounds() rtreego.Rect { return f.rect }

func triRect(t geom.Triangle) rtreego.Rect {
	minX := math.Min(t.A.X, math.Min(t.B.X, t.C.X))
	minY := math.Min(t.A.Y, math.Min(t.B.Y, t.C.Y))
	minZ := math.Min(t.A.Z, math.Min(t.B.Z, t.C.Z))
	maxX := math.Max(t.A.X, math.Max(t.B.X, t.C.X))
	maxY := math.Max(t.A.Y, math.Max(t.B.Y, t.C.Y))
	maxZ := math.Max(t.A.Z, math.Max(t.B.Z, t.C.Z))
	const eps = 1e-6
	lengths := []float64{maxX - minX + eps, maxY - minY + eps, maxZ - minZ + eps}
	rect, err := rtreego.NewRect(rtreego.Point{minX - eps/2, minY - eps/2, minZ - eps/2}, lengths)
	if err != nil {
		// A degenerate (zero-thickness) triangle still needs a valid
		// rect; widen it further rather than fail the whole build.
		rect, _ = rtreego.NewRect(rtreego.Point{minX - 1e-3, minY - 1e-3, minZ - 1e-3}, []float64{2e-3, 2e-3, 2e-3})
	}
	return rect
}

// leafBVH is an on-demand spatial index over one gridLeaf's own
// triangles, built the first time a ray query reaches that leaf and
// cached on it afterward (component C9).
type leafBVH struct {
	rt *rtreego.Rtree
}

func newLeafBVH(tris []geom.Triangle) *leafBVH {
	rt := rtreego.NewTree(3, 4, 16)
	for _, t := range tris {
		rt.Insert(&triFace{tri: t, rect: triRect(t)})
	}
	return &leafBVH{rt: rt}
}

// intersectRay finds the closest triangle in the BVH that ray hits
// within [tMin, tMax], querying candidates via the ray's own bounding
// box over that range and precisely testing each one.
func (b *leafBVH) intersectRay(ray geom.Ray, tMin, tMax float64) (RayHit, bool) {
	p0 := ray.PointAt(tMin)
	p1 := ray.PointAt(tMax)
	minX := math.Min(p0.X, p1.X)
	minY := math.Min(p0.Y, p1.Y)
	minZ := math.Min(p0.Z, p1.Z)
	maxX := math.Max(p0.X, p1.X)
	maxY := math.Max(p0.Y, p1.Y)
	maxZ := math.Max(p0.Z, p1.Z)
	const pad = 1e-4
	rect, err := rtreego.NewRect(
		rtreego.Point{minX - pad, minY - pad, minZ - pad},
		[]float64{maxX - minX + 2*pad, maxY - minY + 2*pad, maxZ - minZ + 2*pad},
	)
	if err != nil {
		return RayHit{}, false
	}

	best := RayHit{}
	found := false
	bestT := tMax
	for _, obj := range b.rt.SearchIntersect(rect) {
		face := obj.(*triFace)
		t, hit := face.tri.IntersectRay(ray, tMin, bestT)
		if !hit {
			continue
		}
		bestT = t
		found = true
		best = RayHit{
			Distance: t,
			Position: ray.PointAt(t),
			Normal:   face.tri.Normal(),
		}
	}
	return best, found
}
