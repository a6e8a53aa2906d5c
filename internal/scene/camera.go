package scene

import (
	"math"

	"boxcam/internal/geom"
	"boxcam/internal/mathutil"
)

// Camera is a standard perspective camera. With identity rotation it looks
// down -Z with +Y up, so visible points have negative camera-space z.
type Camera struct {
	Position mathutil.Vec3
	Rotation mathutil.Quat

	// HFOV is the horizontal field of view in radians.
	HFOV   float64
	Aspect float64
	Near   float64
	Far    float64
}

// VFOV derives the vertical field of view from HFOV and the aspect ratio.
func (c *Camera) VFOV() float64 {
	return 2 * math.Atan(math.Tan(c.HFOV/2)/c.Aspect)
}

// ViewMatrix returns the world-to-camera transform.
func (c *Camera) ViewMatrix() mathutil.Mat4 {
	rt := mathutil.QuatToMat3(c.Rotation).Transpose()
	t := rt.MulVec3(c.Position.Scale(-1))
	return mathutil.FromMat3Translation(rt, t)
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() mathutil.Mat4 {
	return mathutil.Perspective(c.VFOV(), c.Aspect, c.Near, c.Far)
}

// IsVisible is a conservative frustum test: it reports false only when all
// corners of the box fall outside the same clip plane.
func (c *Camera) IsVisible(b geom.AABB) bool {
	if b.IsEmpty() {
		return false
	}

	pv := mathutil.Mat4Mul(c.ProjectionMatrix(), c.ViewMatrix())

	// outside[i] counts corners beyond plane i:
	// -x, +x, -y, +y, -z, +z
	var outside [6]int
	for _, corner := range b.Corners() {
		v := pv.MulVec4(mathutil.Vec4{corner[0], corner[1], corner[2], 1})
		if v[0] < -v[3] {
			outside[0]++
		}
		if v[0] > v[3] {
			outside[1]++
		}
		if v[1] < -v[3] {
			outside[2]++
		}
		if v[1] > v[3] {
			outside[3]++
		}
		if v[2] < -v[3] {
			outside[4]++
		}
		if v[2] > v[3] {
			outside[5]++
		}
	}
	for _, n := range outside {
		if n == 8 {
			return false
		}
	}
	return true
}
