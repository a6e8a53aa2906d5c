package scene

import (
	"boxcam/internal/geom"
	"boxcam/internal/mathutil"
)

// Instance is one renderable mesh placed in the world. The bounding-box
// pipeline treats instances as read-only.
type Instance struct {
	// ID is unique per frame and is what the id-buffer encodes.
	ID uint32
	// Name identifies the instance itself; Parent is the logical group key
	// used to merge multi-part objects.
	Name   string
	Parent string
	// Label is the class label written to the id-buffer's B channel.
	Label uint8

	Mesh *Mesh

	Position mathutil.Vec3
	Rotation mathutil.Quat
	Scale    mathutil.Vec3
}

// ParentName returns the merge group key, falling back to the instance's
// own name for single-part objects.
func (in *Instance) ParentName() string {
	if in.Parent != "" {
		return in.Parent
	}
	return in.Name
}

// WorldAABB returns the axis-aligned bounds of the transformed mesh, or an
// empty box when the mesh has no decodable vertices.
func (in *Instance) WorldAABB() geom.AABB {
	local, err := in.Mesh.LocalAABB()
	if err != nil {
		return geom.EmptyAABB()
	}
	return local.Transform(in.Position, in.Rotation, in.Scale)
}

// Scene is an ordered collection of instances. Iteration order is the
// insertion order, which keeps per-frame processing deterministic.
type Scene struct {
	Instances []*Instance
}

// Add appends an instance.
func (s *Scene) Add(in *Instance) {
	s.Instances = append(s.Instances, in)
}

// ByID returns the instance with the given id, or nil.
func (s *Scene) ByID(id uint32) *Instance {
	for _, in := range s.Instances {
		if in.ID == id {
			return in
		}
	}
	return nil
}
