package octree

import "github.com/chazu/octreesf/pkg/geom"

// IndexedMesh is the triangle mesh produced by GenerateMesh: a shared
// vertex buffer plus a flat triangle index list, the way a renderer
// or exporter expects it. Positions and normals are parallel arrays
// indexed by Indices, three at a time per triangle.
type IndexedMesh struct {
	Positions []geom.Vec3
	Normals   []geom.Vec3
	Indices   []uint32
}

// VertexCount returns the number of distinct vertices in the mesh.
func (m *IndexedMesh) VertexCount() int { return len(m.Positions) }

// TriangleCount returns the number of triangles in the mesh.
func (m *IndexedMesh) TriangleCount() int { return len(m.Indices) / 3 }

// IsEmpty reports whether the mesh has no triangles.
func (m *IndexedMesh) IsEmpty() bool { return len(m.Indices) == 0 }
