package bbox

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxcam/internal/mathutil"
	"boxcam/internal/scene"
)

func isGreen(data []uint8, width, x, y int) bool {
	i := (y*width + x) * 3
	return data[i] == 0 && data[i+1] == 255 && data[i+2] == 0
}

func countGreen(data []uint8) int {
	n := 0
	for i := 0; i+2 < len(data); i += 3 {
		if data[i] == 0 && data[i+1] == 255 && data[i+2] == 0 {
			n++
		}
	}
	return n
}

func TestDrawLineHorizontal(t *testing.T) {
	const w, h = 32, 32
	c := New(&scene.Scene{}, testView(), w, h, nil)
	data := make([]uint8, w*h*3)

	c.DrawLine(data, image.Point{X: 2, Y: 5}, image.Point{X: 10, Y: 5})
	for x := 2; x < 10; x++ {
		assert.True(t, isGreen(data, w, x, 5), "pixel (%d,5)", x)
	}
	// The end pixel is exclusive.
	assert.False(t, isGreen(data, w, 10, 5))
	assert.Equal(t, 8, countGreen(data))
}

func TestDrawLineSteep(t *testing.T) {
	const w, h = 32, 32
	c := New(&scene.Scene{}, testView(), w, h, nil)
	data := make([]uint8, w*h*3)

	// Endpoint order must not matter.
	c.DrawLine(data, image.Point{X: 7, Y: 12}, image.Point{X: 7, Y: 3})
	for y := 3; y < 12; y++ {
		assert.True(t, isGreen(data, w, 7, y), "pixel (7,%d)", y)
	}
	assert.Equal(t, 9, countGreen(data))
}

func TestDrawLineDiagonal(t *testing.T) {
	const w, h = 32, 32
	c := New(&scene.Scene{}, testView(), w, h, nil)
	data := make([]uint8, w*h*3)

	c.DrawLine(data, image.Point{X: 0, Y: 0}, image.Point{X: 5, Y: 5})
	for i := 0; i < 5; i++ {
		assert.True(t, isGreen(data, w, i, i), "pixel (%d,%d)", i, i)
	}
	assert.Equal(t, 5, countGreen(data))
}

func TestDrawLineOutOfBounds(t *testing.T) {
	const w, h = 16, 16
	c := New(&scene.Scene{}, testView(), w, h, nil)
	data := make([]uint8, w*h*3)

	// Runs past the right edge; out-of-bounds pixels are dropped silently.
	c.DrawLine(data, image.Point{X: 10, Y: 4}, image.Point{X: 30, Y: 4})
	assert.True(t, isGreen(data, w, 15, 4))
	assert.Equal(t, 6, countGreen(data))
}

func TestDrawBoundingBox2D(t *testing.T) {
	const w, h = 200, 200
	c := New(&scene.Scene{}, testView(), w, h, nil)
	data := make([]uint8, w*h*3)

	c.DrawBoundingBox(data, color.RGBA{R: 255, A: 255}, BoundingBox{
		Type:   VisibleBox2D,
		Center: mathutil.Vec3{125, 125, 0},
		Size:   mathutil.Vec3{50, 50, 0},
	})

	// Edges lie at [100,150] per axis.
	assert.True(t, isGreen(data, w, 100, 100), "top-left corner")
	assert.True(t, isGreen(data, w, 150, 149), "right edge bottom end")
	assert.True(t, isGreen(data, w, 149, 150), "bottom edge right end")
	assert.True(t, isGreen(data, w, 125, 100), "top edge midpoint")
	assert.True(t, isGreen(data, w, 100, 125), "left edge midpoint")

	// Interior and exterior stay untouched, whatever color was passed.
	assert.False(t, isGreen(data, w, 125, 125))
	assert.False(t, isGreen(data, w, 99, 99))
	assert.Zero(t, data[(125*w+125)*3+0])
}

func TestDrawBoundingBox3DWireframe(t *testing.T) {
	const w, h = 200, 200
	c := New(&scene.Scene{}, testView(), w, h, nil)
	data := make([]uint8, w*h*3)

	// Camera-space cube 5 units ahead: the front face projects to the
	// pixel square [75,125] x [75,125].
	c.DrawBoundingBox(data, color.RGBA{G: 255, A: 255}, BoundingBox{
		Type:        Box3D,
		Center:      mathutil.Vec3{0, 0, -5},
		Size:        mathutil.Vec3{2, 2, 2},
		Orientation: mathutil.QuatIdentity(),
	})

	assert.True(t, isGreen(data, w, 100, 75), "front top edge")
	assert.True(t, isGreen(data, w, 125, 100), "front right edge")
	assert.Positive(t, countGreen(data))
}

func TestDrawBoundingBox3DBehindCamera(t *testing.T) {
	const w, h = 64, 64
	c := New(&scene.Scene{}, testView(), w, h, nil)
	data := make([]uint8, w*h*3)

	c.DrawBoundingBox(data, color.RGBA{G: 255, A: 255}, BoundingBox{
		Type:        Box3D,
		Center:      mathutil.Vec3{0, 0, 3},
		Size:        mathutil.Vec3{1, 1, 1},
		Orientation: mathutil.QuatIdentity(),
	})

	assert.Zero(t, countGreen(data), "boxes behind the camera are rejected whole")
}

func TestDrawBoundingBox3DPartiallyOffscreen(t *testing.T) {
	const w, h = 200, 200
	c := New(&scene.Scene{}, testView(), w, h, nil)
	data := make([]uint8, w*h*3)

	// Wide box sticking out both sides of the view: edges are clipped to
	// the viewport and still drawn.
	c.DrawBoundingBox(data, color.RGBA{G: 255, A: 255}, BoundingBox{
		Type:        Box3D,
		Center:      mathutil.Vec3{0, 0, -2},
		Size:        mathutil.Vec3{20, 1, 1},
		Orientation: mathutil.QuatIdentity(),
	})

	assert.Positive(t, countGreen(data))
}

func TestBoundingBoxCorners(t *testing.T) {
	b := BoundingBox{
		Type:        Box3D,
		Center:      mathutil.Vec3{1, 2, 3},
		Size:        mathutil.Vec3{2, 4, 6},
		Orientation: mathutil.QuatIdentity(),
	}

	corners := b.Corners()
	require.Len(t, corners, 8)
	assert.Equal(t, mathutil.Vec3{2, 4, 6}, corners[0], "front top right")
	assert.Equal(t, mathutil.Vec3{0, 0, 0}, corners[6], "back bottom left")

	// Front loop corners share the +z face.
	for i := 0; i < 4; i++ {
		assert.Equal(t, 6.0, corners[i][2], "corner %d", i)
		assert.Equal(t, 0.0, corners[i+4][2], "corner %d", i+4)
	}

	assert.Nil(t, BoundingBox{Type: VisibleBox2D}.Corners())
}
