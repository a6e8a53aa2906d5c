// Package geom provides axis-aligned and oriented bounding-box utilities.
package geom

import (
	"math"

	"boxcam/internal/mathutil"
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min mathutil.Vec3
	Max mathutil.Vec3
}

// EmptyAABB returns a box that any Extend call will replace entirely.
func EmptyAABB() AABB {
	return AABB{
		Min: mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
}

// IsEmpty reports whether the box contains no points.
func (b AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Extend grows the box to contain p.
func (b AABB) Extend(p mathutil.Vec3) AABB {
	return AABB{
		Min: mathutil.MinElem(b.Min, p),
		Max: mathutil.MaxElem(b.Max, p),
	}
}

// Center returns the box midpoint.
func (b AABB) Center() mathutil.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the box extents per axis.
func (b AABB) Size() mathutil.Vec3 {
	return b.Max.Sub(b.Min)
}

// Corners returns the 8 corner points.
func (b AABB) Corners() [8]mathutil.Vec3 {
	return [8]mathutil.Vec3{
		{b.Min[0], b.Min[1], b.Min[2]},
		{b.Max[0], b.Min[1], b.Min[2]},
		{b.Min[0], b.Max[1], b.Min[2]},
		{b.Max[0], b.Max[1], b.Min[2]},
		{b.Min[0], b.Min[1], b.Max[2]},
		{b.Max[0], b.Min[1], b.Max[2]},
		{b.Min[0], b.Max[1], b.Max[2]},
		{b.Max[0], b.Max[1], b.Max[2]},
	}
}

// Transform applies scale, then rotation, then translation to the box and
// returns the axis-aligned bounds of the result.
func (b AABB) Transform(position mathutil.Vec3, rotation mathutil.Quat, scale mathutil.Vec3) AABB {
	out := EmptyAABB()
	for _, c := range b.Corners() {
		p := rotation.Rotate(c.MulElem(scale)).Add(position)
		out = out.Extend(p)
	}
	return out
}
