// Package bbox computes 2D and 3D object-detection bounding boxes from a
// rendered id-map frame, for synthetic-data annotation.
package bbox

import (
	"fmt"

	"boxcam/internal/mathutil"
)

// Type selects how boxes are computed for a frame.
type Type int

const (
	// FullBox2D is a screen-space box over the whole projected mesh,
	// including occluded parts.
	FullBox2D Type = iota
	// VisibleBox2D is a tight screen-space box over the visible pixels
	// only.
	VisibleBox2D
	// Box3D is an oriented box in camera space.
	Box3D
)

func (t Type) String() string {
	switch t {
	case FullBox2D:
		return "full2d"
	case VisibleBox2D:
		return "visible2d"
	case Box3D:
		return "box3d"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// ParseType converts a configuration string to a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "full2d":
		return FullBox2D, nil
	case "visible2d":
		return VisibleBox2D, nil
	case "box3d":
		return Box3D, nil
	default:
		return 0, fmt.Errorf("bbox: unknown box type %q", s)
	}
}

// BoundingBox is one labeled detection box. For the 2D types, Center and
// Size are in pixel coordinates with z = 0 and the orientation is unused.
// For Box3D they are in camera coordinates.
type BoundingBox struct {
	Type        Type
	Center      mathutil.Vec3
	Size        mathutil.Vec3
	Orientation mathutil.Quat
	Label       uint32
}

// Corners returns the 8 corners of a 3D box in camera coordinates, nil for
// 2D boxes. Ordering, with the front face (+z in box space) first:
//
//	  1 -------- 0        front loop: 0-1-2-3
//	 /|         /|        back loop:  4-5-6-7
//	2 -------- 3 |        pillars:    i — i+4
//	| 5 -------|-4
//	|/         |/
//	6 -------- 7
func (b BoundingBox) Corners() []mathutil.Vec3 {
	if b.Type != Box3D {
		return nil
	}

	x, y, z := b.Size[0]/2, b.Size[1]/2, b.Size[2]/2
	rel := [8]mathutil.Vec3{
		{x, y, z}, {-x, y, z}, {-x, -y, z}, {x, -y, z},
		{x, y, -z}, {-x, y, -z}, {-x, -y, -z}, {x, -y, -z},
	}

	corners := make([]mathutil.Vec3, 8)
	for i, r := range rel {
		corners[i] = b.Center.Add(b.Orientation.Rotate(r))
	}
	return corners
}

// boxEdges indexes Corners pairs forming the 12 wireframe edges.
var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0}, // front loop
	{4, 5}, {5, 6}, {6, 7}, {7, 4}, // back loop
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // pillars
}
