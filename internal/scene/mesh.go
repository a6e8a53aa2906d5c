package scene

import (
	"errors"

	"boxcam/internal/geom"
	"boxcam/internal/mathutil"
)

// SubMesh pairs a vertex-position stream with a triangle index list.
// Indices come in triples; a sub-mesh used only for box extraction may
// leave Indices empty.
type SubMesh struct {
	Positions VertexStream
	Indices   []uint32
}

// Mesh is a list of sub-meshes sharing one model space.
type Mesh struct {
	SubMeshes []SubMesh

	localAABB geom.AABB
	aabbValid bool
}

// LocalAABB returns the model-space bounds over all decodable sub-meshes,
// computed once and cached. Sub-meshes with undecodable streams are ignored;
// an error is returned only when no vertex could be read at all.
func (m *Mesh) LocalAABB() (geom.AABB, error) {
	if m.aabbValid {
		return m.localAABB, nil
	}

	bounds := geom.EmptyAABB()
	for _, sm := range m.SubMeshes {
		// decode errors here resurface during projection, where they are
		// reported per object
		_ = sm.Positions.EachVertex(func(v mathutil.Vec3) {
			bounds = bounds.Extend(v)
		})
	}
	if bounds.IsEmpty() {
		return geom.AABB{}, errors.New("scene: mesh has no decodable vertices")
	}

	m.localAABB = bounds
	m.aabbValid = true
	return bounds, nil
}

// boxVertices returns the 8 corners of a box of the given size centered at
// the origin.
func boxVertices(size mathutil.Vec3) []mathutil.Vec3 {
	x, y, z := size[0]/2, size[1]/2, size[2]/2
	return []mathutil.Vec3{
		{-x, -y, -z}, {x, -y, -z}, {x, y, -z}, {-x, y, -z},
		{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z},
	}
}

// boxIndices is the 12-triangle index list for boxVertices.
var boxIndices = []uint32{
	0, 2, 1, 0, 3, 2, // back   (z = -)
	4, 5, 6, 4, 6, 7, // front  (z = +)
	0, 1, 5, 0, 5, 4, // bottom (y = -)
	3, 6, 2, 3, 7, 6, // top    (y = +)
	0, 4, 7, 0, 7, 3, // left   (x = -)
	1, 2, 6, 1, 6, 5, // right  (x = +)
}

// BoxMesh builds an axis-aligned box mesh with float3 positions.
func BoxMesh(size mathutil.Vec3) *Mesh {
	return &Mesh{SubMeshes: []SubMesh{{
		Positions: NewFloat3Stream(boxVertices(size)),
		Indices:   append([]uint32(nil), boxIndices...),
	}}}
}

// BoxMeshHalf is BoxMesh with half4-encoded positions.
func BoxMeshHalf(size mathutil.Vec3) *Mesh {
	return &Mesh{SubMeshes: []SubMesh{{
		Positions: NewHalf4Stream(boxVertices(size)),
		Indices:   append([]uint32(nil), boxIndices...),
	}}}
}
