package bbox

import (
	"math"

	"go.uber.org/zap"

	"boxcam/internal/mathutil"
	"boxcam/internal/scene"
)

// screenExtents projects every mesh vertex of an instance through the view
// and projection matrices and reduces to min/max clip-space extents. The x
// and y components are perspective-divided; z is kept linear. Sub-meshes
// with undecodable streams are reported and skipped rather than
// contributing garbage coordinates. ok is false when no vertex survived.
func (c *Camera) screenExtents(inst *scene.Instance, view, proj mathutil.Mat4) (mathutil.Vec3, mathutil.Vec3, bool) {
	pv := mathutil.Mat4Mul(proj, view)

	inf := math.Inf(1)
	min := mathutil.Vec3{inf, inf, inf}
	max := mathutil.Vec3{-inf, -inf, -inf}
	any := false

	for smIdx, sm := range inst.Mesh.SubMeshes {
		err := sm.Positions.EachVertex(func(v mathutil.Vec3) {
			world := inst.Rotation.Rotate(v.MulElem(inst.Scale)).Add(inst.Position)
			clip := pv.MulVec4(mathutil.Vec4{world[0], world[1], world[2], 1})

			p := mathutil.Vec3{clip[0] / clip[3], clip[1] / clip[3], clip[2]}
			min = mathutil.MinElem(min, p)
			max = mathutil.MaxElem(max, p)
			any = true
		})
		if err != nil {
			c.log.Error("skipping sub-mesh during projection",
				zap.String("instance", inst.Name),
				zap.Int("submesh", smIdx),
				zap.Error(err))
		}
	}

	return min, max, any
}

// cameraVertices re-projects all mesh vertices of the given object ids into
// camera space, the combined point cloud used to fit a merged oriented box.
func (c *Camera) cameraVertices(ids []uint32, view mathutil.Mat4) []mathutil.Vec3 {
	var verts []mathutil.Vec3

	for _, id := range ids {
		inst := c.items[id]
		if inst == nil {
			continue
		}
		for smIdx, sm := range inst.Mesh.SubMeshes {
			err := sm.Positions.EachVertex(func(v mathutil.Vec3) {
				world := inst.Rotation.Rotate(v.MulElem(inst.Scale)).Add(inst.Position)
				verts = append(verts, view.MulPoint(world))
			})
			if err != nil {
				c.log.Error("skipping sub-mesh during merge",
					zap.String("instance", inst.Name),
					zap.Int("submesh", smIdx),
					zap.Error(err))
			}
		}
	}

	return verts
}
