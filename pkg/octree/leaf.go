package octree

import (
	"sort"

	"github.com/chazu/octreesf/pkg/geom"
	"github.com/chazu/octreesf/pkg/implicit"
	"github.com/chazu/octreesf/pkg/mctable"
)

// LeafExpo fixes the depth, relative to the tree's finest cell size,
// at which a subdivided cube becomes a gridLeaf instead of continuing
// to split into an innerNode. Every gridLeaf in a tree sits at the
// same absolute depth, so they all sample a lattice with the same
// cell size, which is what lets two sibling leaves agree on a shared
// face vertex from independent computations.
const LeafExpo = 2

// leafLatticeSize is S, the number of sample points along one edge of
// a leaf's sign lattice.
const leafLatticeSize = (1 << LeafExpo) + 1

// leafCells is the number of marching-cubes sub-cells along one edge
// of a leaf.
const leafCells = 1 << LeafExpo

// axis indices, matching mctable.Direction's values so no translation
// table is needed between the two.
const (
	axisX = int(mctable.DirX)
	axisY = int(mctable.DirY)
	axisZ = int(mctable.DirZ)
)

// gridLeaf is a leaf node holding a dense sign lattice and the
// surface edges crossing it, per spec component C4.
type gridLeaf struct {
	area     Area
	cellSize float64
	signs    []bool // len leafLatticeSize^3, indexed by leafIndex
	edges    [3]map[int]*sharedVertex

	// bvh caches this leaf's own triangle spatial index, built lazily
	// the first time a ray query reaches it.
	bvh *leafBVH
}

func leafIndex(x, y, z int) int {
	return (x*leafLatticeSize+y)*leafLatticeSize + z
}

func newGridLeaf(area Area) *gridLeaf {
	return &gridLeaf{
		area:     area,
		cellSize: area.RealSize / float64(leafCells),
		signs:    make([]bool, leafLatticeSize*leafLatticeSize*leafLatticeSize),
		edges:    [3]map[int]*sharedVertex{{}, {}, {}},
	}
}

func (g *gridLeaf) latticePos(x, y, z int) geom.Vec3 {
	return geom.Vec3{
		X: g.area.MinReal.X + float64(x)*g.cellSize,
		Y: g.area.MinReal.Y + float64(y)*g.cellSize,
		Z: g.area.MinReal.Z + float64(z)*g.cellSize,
	}
}

func step(axis int) (int, int, int) {
	switch axis {
	case axisX:
		return 1, 0, 0
	case axisY:
		return 0, 1, 0
	default:
		return 0, 0, 1
	}
}

// computeSigns fills every lattice point's sign from solid.
func (g *gridLeaf) computeSigns(solid implicit.Solid) {
	for x := 0; x < leafLatticeSize; x++ {
		for y := 0; y < leafLatticeSize; y++ {
			for z := 0; z < leafLatticeSize; z++ {
				g.signs[leafIndex(x, y, z)] = solid.Sign(g.latticePos(x, y, z))
			}
		}
	}
}

// isBoundaryEdge reports whether the lattice edge starting at (x,y,z)
// along axis lies on one of the leaf's six faces, meaning a
// neighboring leaf may compute the same edge and its vertex must be
// shared rather than privately owned.
func isBoundaryEdge(x, y, z, axis int) bool {
	last := leafLatticeSize - 1
	onBound := func(v int) bool { return v == 0 || v == last }
	switch axis {
	case axisX:
		return onBound(y) || onBound(z)
	case axisY:
		return onBound(x) || onBound(z)
	default:
		return onBound(x) || onBound(y)
	}
}

// interpolateEdge places the vertex at the lattice edge's midpoint,
// then replaces it with the solid's sample at that midpoint: the
// sample's closestSurfacePos becomes the vertex position and its
// normal becomes the vertex normal, per the documented placement
// rule. Falls back to the midpoint itself and an averaged normal only
// if the solid reports a degenerate (zero-length) normal there.
func interpolateEdge(solid implicit.Solid, p0, p1 geom.Vec3) Vertex {
	mid := p0.Add(p1).MulScalar(0.5)
	sample := solid.Sample(mid)
	n := sample.Normal
	pos := sample.ClosestSurfacePos
	if n.Length() < 1e-12 {
		s0 := solid.Sample(p0)
		s1 := solid.Sample(p1)
		n = s0.Normal.Add(s1.Normal)
		if n.Length() < 1e-12 {
			n = geom.Vec3{Z: 1}
		} else {
			n = n.MulScalar(1.0 / n.Length())
		}
		pos = mid
	}
	return Vertex{Position: pos, Normal: n}
}

// computeEdges walks the lattice along each axis and records a
// surface edge (interior or, on a leaf face, shared) wherever the
// sign changes. registry is used to find or create the vertex for
// boundary edges so a neighboring leaf reuses the identical object.
func (g *gridLeaf) computeEdges(solid implicit.Solid, registry *vertexRegistry) {
	for axis := 0; axis < 3; axis++ {
		dx, dy, dz := step(axis)
		for x := 0; x < leafLatticeSize; x++ {
			for y := 0; y < leafLatticeSize; y++ {
				for z := 0; z < leafLatticeSize; z++ {
					x1, y1, z1 := x+dx, y+dy, z+dz
					if x1 >= leafLatticeSize || y1 >= leafLatticeSize || z1 >= leafLatticeSize {
						continue
					}
					i0 := leafIndex(x, y, z)
					i1 := leafIndex(x1, y1, z1)
					if g.signs[i0] == g.signs[i1] {
						continue
					}
					p0 := g.latticePos(x, y, z)
					p1 := g.latticePos(x1, y1, z1)
					if isBoundaryEdge(x, y, z, axis) {
						key := g.latticeIndexKey(x, y, z, axis)
						sv := registry.lookupOrCreate(key, func() Vertex {
							return interpolateEdge(solid, p0, p1)
						})
						g.edges[axis][i0] = sv
					} else {
						g.edges[axis][i0] = newInteriorVertex(interpolateEdge(solid, p0, p1))
					}
				}
			}
		}
	}
}

// latticeIndexKey builds the registry key for the lattice point
// (x,y,z) local to this leaf from Area.MinIndex, the integer lattice
// coordinate the shared-vertex registry is keyed on. Every leaf sits
// at the same fixed depth (LeafExpo), so a leaf's own lattice spacing
// equals the tree's finest quantum and MinIndex is already expressed
// in units of it: adding the local index x/y/z (0..leafLatticeSize-1)
// gives the same global integer coordinate a neighboring leaf
// computes for a shared face, with no floating point rounding
// involved.
func (g *gridLeaf) latticeIndexKey(x, y, z, axis int) vertexKey {
	return vertexKey{
		pos: [3]int64{g.area.MinIndex[0] + int64(x), g.area.MinIndex[1] + int64(y), g.area.MinIndex[2] + int64(z)},
		dir: axis,
	}
}

// releaseEdges drops this leaf's references to every edge vertex it
// owns, removing shared ones from registry once unreferenced. Called
// before a leaf is discarded or rebuilt so shared vertices still used
// by a neighbor are not silently orphaned.
func (g *gridLeaf) releaseEdges(registry *vertexRegistry) {
	for axis, m := range g.edges {
		for i0, sv := range m {
			if sv.shared {
				x, y, z := i0/(leafLatticeSize*leafLatticeSize), (i0/leafLatticeSize)%leafLatticeSize, i0%leafLatticeSize
				registry.release(g.latticeIndexKey(x, y, z, axis), sv)
			}
		}
	}
}

// cornerSign returns whether the marching-cubes corner (0..7) of the
// sub-cell with minimum lattice coordinate (cx,cy,cz) is inside the
// solid.
func (g *gridLeaf) cornerSign(cx, cy, cz, corner int) bool {
	ox, oy, oz := mctable.CornerOffset(corner)
	return g.signs[leafIndex(cx+ox, cy+oy, cz+oz)]
}

// generateVertices appends every not-yet-emitted edge vertex owned by
// this leaf to mesh, stamping each with its final index. Shared
// vertices already marked by a previously processed neighbor are
// skipped so they are emitted exactly once. Vertices are visited in
// ascending axis and lattice index order, so extracting an unchanged
// tree twice yields the same vertex order.
func (g *gridLeaf) generateVertices(mesh *IndexedMesh) {
	for _, m := range g.edges {
		keys := make([]int, 0, len(m))
		for i0 := range m {
			keys = append(keys, i0)
		}
		sort.Ints(keys)
		for _, i0 := range keys {
			sv := m[i0]
			if sv.marked {
				continue
			}
			sv.marked = true
			sv.vertexIndex = len(mesh.Positions)
			mesh.Positions = append(mesh.Positions, sv.vertex.Position)
			mesh.Normals = append(mesh.Normals, sv.vertex.Normal)
		}
	}
}

// generateIndices marches every sub-cell of the leaf, looking up the
// standard cube configuration table and translating each triangle's
// edges into vertex indices via this leaf's own edge maps.
func (g *gridLeaf) generateIndices(mesh *IndexedMesh) {
	for cx := 0; cx < leafCells; cx++ {
		for cy := 0; cy < leafCells; cy++ {
			for cz := 0; cz < leafCells; cz++ {
				mask := 0
				for corner := 0; corner < 8; corner++ {
					if g.cornerSign(cx, cy, cz, corner) {
						mask |= 1 << uint(corner)
					}
				}
				for _, tri := range mctable.IndexTable[mask] {
					for _, e := range [3]int{tri.E1, tri.E2, tri.E3} {
						de := mctable.DirectedEdges[e]
						ox, oy, oz := mctable.CornerOffset(de.MinCornerIndex)
						i0 := leafIndex(cx+ox, cy+oy, cz+oz)
						sv := g.edges[int(de.Direction)][i0]
						mesh.Indices = append(mesh.Indices, uint32(sv.vertexIndex))
					}
				}
			}
		}
	}
}

// clearMarks resets the transient marked flag on every vertex this
// leaf references, run in a final pass after all leaves have emitted
// their indices.
func (g *gridLeaf) clearMarks() {
	for _, m := range g.edges {
		for _, sv := range m {
			sv.marked = false
		}
	}
}

// triangles returns this leaf's own marching-cubes triangles in
// world space, independent of any global mesh's vertex buffer. Used
// to build the leaf's ray-query BVH.
func (g *gridLeaf) triangles() []geom.Triangle {
	var tris []geom.Triangle
	for cx := 0; cx < leafCells; cx++ {
		for cy := 0; cy < leafCells; cy++ {
			for cz := 0; cz < leafCells; cz++ {
				mask := 0
				for corner := 0; corner < 8; corner++ {
					if g.cornerSign(cx, cy, cz, corner) {
						mask |= 1 << uint(corner)
					}
				}
				for _, tri := range mctable.IndexTable[mask] {
					var pos [3]geom.Vec3
					for k, e := range [3]int{tri.E1, tri.E2, tri.E3} {
						de := mctable.DirectedEdges[e]
						ox, oy, oz := mctable.CornerOffset(de.MinCornerIndex)
						i0 := leafIndex(cx+ox, cy+oy, cz+oz)
						sv := g.edges[int(de.Direction)][i0]
						pos[k] = sv.vertex.Position
					}
					tris = append(tris, geom.Triangle{A: pos[0], B: pos[1], C: pos[2]})
				}
			}
		}
	}
	return tris
}

// bvhTree returns this leaf's cached BVH, building it on first use.
func (g *gridLeaf) bvhTree() *leafBVH {
	if g.bvh == nil {
		g.bvh = newLeafBVH(g.triangles())
	}
	return g.bvh
}

// clone deep-copies the leaf's sign lattice and retains (rather than
// duplicates) every referenced vertex, incrementing its reference
// count so the original and the clone can each independently release
// their reference later without freeing a vertex the other still
// uses.
func (g *gridLeaf) clone() *gridLeaf {
	out := &gridLeaf{
		area:     g.area,
		cellSize: g.cellSize,
		signs:    append([]bool(nil), g.signs...),
		edges:    [3]map[int]*sharedVertex{{}, {}, {}},
	}
	for axis, m := range g.edges {
		for i0, sv := range m {
			sv.retain()
			out.edges[axis][i0] = sv
		}
	}
	return out
}

// invert flips every sign in the leaf and negates every vertex normal.
// A freshly-cloned leaf still shares its vertex objects with the tree
// it was cloned from (clone retains rather than copies them), so
// negating a normal in place would corrupt that other tree too;
// mutableVertex gives each vertex its own copy first whenever it has
// another owner, and the copy replaces the original in every edge
// slot of this leaf that referenced it.
func (g *gridLeaf) invert() {
	for i := range g.signs {
		g.signs[i] = !g.signs[i]
	}
	rewritten := make(map[*sharedVertex]*sharedVertex)
	for axis, m := range g.edges {
		for i0, sv := range m {
			mv, ok := rewritten[sv]
			if !ok {
				mv = mutableVertex(sv)
				mv.vertex.Normal = mv.vertex.Normal.MulScalar(-1)
				rewritten[sv] = mv
			}
			g.edges[axis][i0] = mv
		}
	}
}

// countMemoryBytes estimates this leaf's memory footprint.
func (g *gridLeaf) countMemoryBytes() int64 {
	base := int64(len(g.signs)) // bools
	for _, m := range g.edges {
		base += int64(len(m)) * 64 // rough per-edge overhead, vertex + map bucket
	}
	return base
}

// forEachVertex visits each distinct vertex owned or referenced by
// this leaf exactly once.
func (g *gridLeaf) forEachVertex(visit func(Vertex)) {
	seen := make(map[*sharedVertex]bool)
	for _, m := range g.edges {
		for _, sv := range m {
			if seen[sv] {
				continue
			}
			seen[sv] = true
			visit(sv.vertex)
		}
	}
}

// mutableVertex returns a sharedVertex safe to mutate in place: sv
// itself if it has no other owners, or otherwise a fresh copy-on-write
// clone with refCount 1 (dropping one reference from sv), which the
// caller stores in place of sv. Each call makes its own copy, so two
// leaves that shared sv end up with two distinct copies. This
// is a deliberate departure from the reference implementation, which
// mutates shared vertices in place regardless of aliasing; doing that
// here would silently corrupt any other leaf, or any cloned tree,
// still holding the same pointer.
func mutableVertex(sv *sharedVertex) *sharedVertex {
	if sv.refCount <= 1 {
		return sv
	}
	sv.refCount--
	return &sharedVertex{vertex: sv.vertex, shared: sv.shared, refCount: 1}
}
