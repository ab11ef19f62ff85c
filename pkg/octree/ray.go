package octree

import "github.com/chazu/octreesf/pkg/geom"

// RayHit is the result of a successful ray query: the distance along
// the ray, the world-space hit position, and the surface normal
// there.
type RayHit struct {
	Distance float64
	Position geom.Vec3
	Normal   geom.Vec3
}

// rayIntersect walks the tree top down (component C9), pruning any
// subtree whose area the ray misses, and dispatches to a leaf's own
// BVH once it reaches one.
func rayIntersect(n node, area Area, ray geom.Ray, tMin, tMax float64) (RayHit, bool) {
	boxMin, boxMax, hit := ray.IntersectAABB(area.ToAABB(), tMin, tMax)
	if !hit {
		return RayHit{}, false
	}

	switch v := n.(type) {
	case *emptyNode:
		return RayHit{}, false

	case *gridLeaf:
		return v.bvhTree().intersectRay(ray, boxMin, boxMax)

	case *innerNode:
		subs := area.SubAreas()
		best := RayHit{}
		found := false
		limit := boxMax
		for i, child := range v.children {
			if hit, ok := rayIntersect(child, subs[i], ray, boxMin, limit); ok {
				if !found || hit.Distance < best.Distance {
					best = hit
					found = true
					limit = hit.Distance
				}
			}
		}
		return best, found

	default:
		panic("octree: unknown node kind in rayIntersect")
	}
}
