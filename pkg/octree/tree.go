package octree

import (
	"fmt"
	"math"

	"github.com/chazu/octreesf/pkg/geom"
	"github.com/chazu/octreesf/pkg/implicit"
)

// Tree is a sparse octree signed distance field: an implicit solid
// resampled once into a hierarchy of empty, inner, and leaf nodes
// that can be queried, meshed, and combined with other trees or
// solids far more cheaply than resampling the original solid every
// time. It corresponds to the octree core's external type (spec §6.4).
type Tree struct {
	root     node
	area     Area
	cellSize float64
}

// DefaultMaxDepth is used by SampleSDF when the caller does not need
// to tune resolution against build time explicitly.
const DefaultMaxDepth = LeafExpo + 4

// SampleSDF builds a tree over solid's own bounding box.
func SampleSDF(solid implicit.Solid, maxDepth int) (*Tree, error) {
	return SampleSDFBox(solid, solid.AABB(), maxDepth)
}

// SampleSDFBox builds a tree over an explicit bounding box, letting
// callers sample only part of an unbounded or very large solid.
func SampleSDFBox(solid implicit.Solid, box geom.AABB, maxDepth int) (*Tree, error) {
	if maxDepth < LeafExpo {
		return nil, fmt.Errorf("octree: maxDepth %d must be at least LeafExpo (%d): %w", maxDepth, LeafExpo, ErrInvalidArgument)
	}
	size := box.Size()
	cube := math.Max(size.X, math.Max(size.Y, size.Z))
	if cube <= 0 || math.IsNaN(cube) || math.IsInf(cube, 0) {
		return nil, fmt.Errorf("octree: sampling box has non-positive extent: %w", ErrDegenerateInput)
	}

	cellSize := cube / float64(int64(1)<<uint(maxDepth))
	solid.PrepareSampling(box, cellSize)

	root := Area{
		MinIndex: [3]int64{0, 0, 0},
		Expo:     maxDepth,
		MinReal:  box.Min,
		RealSize: cube,
	}
	registry := newVertexRegistry()
	rootNode := buildNode(root, solid, registry)

	return &Tree{root: rootNode, area: root, cellSize: cellSize}, nil
}

// Clone deep-copies the tree. Shared vertices are retained, not
// duplicated, so the clone and the original can be independently
// mutated by later CSG operations without corrupting each other (see
// mutableVertex).
func (t *Tree) Clone() *Tree {
	return &Tree{root: cloneAlignedNode(t.root), area: t.area, cellSize: t.cellSize}
}

// Merge rewrites the tree in place into the union of its own surface
// with solid, returning the receiver for chaining.
func (t *Tree) Merge(solid implicit.Solid) *Tree {
	registry := newVertexRegistry()
	solid.PrepareSampling(t.area.ToAABB(), t.cellSize)
	t.root = mergeNode(t.root, t.area, solid, registry)
	return t
}

// Intersect rewrites the tree in place into the intersection of its
// own surface with solid.
func (t *Tree) Intersect(solid implicit.Solid) *Tree {
	registry := newVertexRegistry()
	solid.PrepareSampling(t.area.ToAABB(), t.cellSize)
	t.root = intersectNode(t.root, t.area, solid, registry)
	return t
}

// Subtract rewrites the tree in place, removing solid's volume from
// it. Implemented as intersection with solid's complement.
func (t *Tree) Subtract(solid implicit.Solid) *Tree {
	return t.Intersect(implicit.NewInvert(solid))
}

// requireAligned validates that other was built with the same bounds
// and depth as t, the precondition every aligned operation shares.
func (t *Tree) requireAligned(other *Tree) error {
	if t.area.Expo != other.area.Expo || t.cellSize != other.cellSize {
		return fmt.Errorf("octree: trees are not aligned (different depth or cell size): %w", ErrInvalidArgument)
	}
	if t.area.MinReal != other.area.MinReal || t.area.RealSize != other.area.RealSize {
		return fmt.Errorf("octree: trees are not aligned (different bounds): %w", ErrInvalidArgument)
	}
	return nil
}

// MergeAligned unions t with other, another tree built over the same
// bounds and depth, without resampling either against an implicit
// solid. Returns an error if the trees are not aligned.
func (t *Tree) MergeAligned(other *Tree) error {
	if err := t.requireAligned(other); err != nil {
		return err
	}
	registry := newVertexRegistry()
	t.root = combineAlignedNode(t.root, other.root, t.area, true, registry)
	return nil
}

// IntersectAligned intersects t with other in place.
func (t *Tree) IntersectAligned(other *Tree) error {
	if err := t.requireAligned(other); err != nil {
		return err
	}
	registry := newVertexRegistry()
	t.root = combineAlignedNode(t.root, other.root, t.area, false, registry)
	return nil
}

// SubtractAligned removes other's volume from t in place. other's own
// tree is not modified: a clone of it is inverted instead.
func (t *Tree) SubtractAligned(other *Tree) error {
	if err := t.requireAligned(other); err != nil {
		return err
	}
	inverted := invertNode(cloneAlignedNode(other.root))
	registry := newVertexRegistry()
	t.root = combineAlignedNode(t.root, inverted, t.area, false, registry)
	return nil
}

// GenerateMesh extracts an indexed triangle mesh from the tree's
// current surface (component C8).
func (t *Tree) GenerateMesh() *IndexedMesh {
	return generateMesh(t.root)
}

// RayIntersectClosest finds the closest point where ray enters the
// tree's surface within [tMin, tMax].
func (t *Tree) RayIntersectClosest(ray geom.Ray, tMin, tMax float64) (RayHit, bool) {
	return rayIntersect(t.root, t.area, ray, tMin, tMax)
}

// CountNodes returns the total number of nodes in the tree.
func (t *Tree) CountNodes() int64 { return countNodes(t.root) }

// CountLeaves returns the number of grid leaves in the tree.
func (t *Tree) CountLeaves() int64 { return countLeaves(t.root) }

// CountMemoryBytes estimates the tree's memory footprint.
func (t *Tree) CountMemoryBytes() int64 { return countMemoryBytes(t.root) }

// CenterOfMass returns the solid's volume-weighted center of mass and
// the volume (proportional to mass) it was computed from.
func (t *Tree) CenterOfMass() (geom.Vec3, float64) {
	return centerOfMass(t.root, t.area)
}

// AABB returns the tree's overall sampling bounds.
func (t *Tree) AABB() geom.AABB { return t.area.ToAABB() }

// Resize is not implemented: growing or shrinking a tree's bounds in
// place would require re-deriving every boundary leaf's shared
// vertices against a new outer area, which this package does not
// attempt (see ErrUnsupported and DESIGN.md).
func (t *Tree) Resize(box geom.AABB) error {
	return fmt.Errorf("octree: Resize is not implemented: %w", ErrUnsupported)
}
