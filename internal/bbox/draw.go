package bbox

import (
	"errors"
	"image"
	"image/color"

	"go.uber.org/zap"

	"boxcam/internal/clip"
	"boxcam/internal/mathutil"
)

// plot writes one green pixel, silently dropping out-of-bounds writes.
func (c *Camera) plot(data []uint8, x, y int) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	i := (y*c.width + x) * 3
	data[i] = 0
	data[i+1] = 255
	data[i+2] = 0
}

// DrawLine draws a line segment onto an RGB buffer with integer Bresenham,
// stepping along the major axis so steep lines have no gaps.
func (c *Camera) DrawLine(data []uint8, p0, p1 image.Point) {
	if abs(p1.Y-p0.Y) < abs(p1.X-p0.X) {
		// shallow: step in x
		if p0.X > p1.X {
			p0, p1 = p1, p0
		}
		dx := p1.X - p0.X
		dy := p1.Y - p0.Y
		yi := 1
		if dy < 0 {
			yi = -1
			dy = -dy
		}
		d := 2*dy - dx
		y := p0.Y
		for x := p0.X; x < p1.X; x++ {
			c.plot(data, x, y)
			if d > 0 {
				y += yi
				d += 2 * (dy - dx)
			} else {
				d += 2 * dy
			}
		}
	} else {
		// steep: step in y
		if p0.Y > p1.Y {
			p0, p1 = p1, p0
		}
		dx := p1.X - p0.X
		dy := p1.Y - p0.Y
		xi := 1
		if dx < 0 {
			xi = -1
			dx = -dx
		}
		d := 2*dx - dy
		x := p0.X
		for y := p0.Y; y < p1.Y; y++ {
			c.plot(data, x, y)
			if d > 0 {
				x += xi
				d += 2 * (dx - dy)
			} else {
				d += 2 * dx
			}
		}
	}
}

// DrawBoundingBox draws a box outline onto an RGB buffer of the configured
// image size. 2D boxes are drawn as four straight edge runs; 3D boxes as a
// projected, clipped wireframe.
//
// TODO(draw): honor the color argument; everything is drawn green for now.
func (c *Camera) DrawBoundingBox(data []uint8, _ color.Color, box BoundingBox) {
	if box.Type == Box3D {
		c.drawWireframe(data, box)
		return
	}

	minX := int(box.Center[0] - box.Size[0]/2)
	minY := int(box.Center[1] - box.Size[1]/2)
	maxX := int(box.Center[0] + box.Size[0]/2)
	maxY := int(box.Center[1] + box.Size[1]/2)

	for y := minY; y < maxY; y++ {
		c.plot(data, minX, y)
		c.plot(data, maxX, y)
	}
	for x := minX; x < maxX; x++ {
		c.plot(data, x, minY)
		c.plot(data, x, maxY)
	}
}

// drawWireframe projects the 12 edges of a camera-space 3D box, clips them
// against the normalized viewport, and draws the survivors. Boxes with any
// corner behind the camera plane (positive camera-space z) are rejected
// whole.
func (c *Camera) drawWireframe(data []uint8, box BoundingBox) {
	if c.view == nil {
		c.log.Error("cannot draw 3d box without a view")
		return
	}

	corners := box.Corners()
	proj := c.view.ProjectionMatrix()

	var pts [8]clip.Point
	for i, v := range corners {
		if v[2] > 0 {
			return
		}
		p := proj.MulVec4(mathutil.Vec4{v[0], v[1], v[2], 1})
		pts[i] = clip.Point{X: p[0] / p[3], Y: p[1] / p[3]}
	}

	viewport := clip.Rect{XMin: -1, YMin: -1, XMax: 1, YMax: 1}
	for _, e := range boxEdges {
		p0, p1, err := clip.Segment(viewport, pts[e[0]], pts[e[1]])
		if errors.Is(err, clip.ErrInconsistent) {
			c.log.Error("rejecting 3d box edge", zap.Error(err))
			continue
		}
		if err != nil {
			continue
		}
		c.DrawLine(data, c.toPixel(p0), c.toPixel(p1))
	}
}

// toPixel maps a normalized [-1,1] point to pixel coordinates, y flipped,
// clamped to the image bounds.
func (c *Camera) toPixel(p clip.Point) image.Point {
	x := int((p.X + 1) / 2 * float64(c.width))
	y := int((1 - p.Y) / 2 * float64(c.height))
	x = clampInt(x, 0, c.width-1)
	y = clampInt(y, 0, c.height-1)
	return image.Point{X: x, Y: y}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
