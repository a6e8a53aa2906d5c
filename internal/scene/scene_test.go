package scene

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxcam/internal/geom"
	"boxcam/internal/mathutil"
)

func TestMeshLocalAABB(t *testing.T) {
	m := BoxMesh(mathutil.Vec3{2, 4, 6})
	b, err := m.LocalAABB()
	require.NoError(t, err)
	assert.Equal(t, mathutil.Vec3{-1, -2, -3}, b.Min)
	assert.Equal(t, mathutil.Vec3{1, 2, 3}, b.Max)

	// Cached value on second call.
	b2, err := m.LocalAABB()
	require.NoError(t, err)
	assert.Equal(t, b, b2)
}

func TestMeshLocalAABBNoVertices(t *testing.T) {
	m := &Mesh{SubMeshes: []SubMesh{{
		Positions: VertexStream{Encoding: Encoding(9), Count: 1, Data: make([]byte, 16)},
	}}}
	_, err := m.LocalAABB()
	assert.Error(t, err)
}

func TestInstanceParentName(t *testing.T) {
	in := &Instance{Name: "wheel_fl", Parent: "car"}
	assert.Equal(t, "car", in.ParentName())

	in = &Instance{Name: "crate"}
	assert.Equal(t, "crate", in.ParentName())
}

func TestInstanceWorldAABB(t *testing.T) {
	in := &Instance{
		Mesh:     BoxMesh(mathutil.Vec3{1, 1, 1}),
		Position: mathutil.Vec3{5, 0, -2},
		Rotation: mathutil.QuatIdentity(),
		Scale:    mathutil.Vec3{2, 2, 2},
	}
	b := in.WorldAABB()
	assert.InDelta(t, 4.0, b.Min[0], 1e-6)
	assert.InDelta(t, 6.0, b.Max[0], 1e-6)
	assert.InDelta(t, -3.0, b.Min[2], 1e-6)
	assert.InDelta(t, -1.0, b.Max[2], 1e-6)
}

func TestSceneByID(t *testing.T) {
	s := &Scene{}
	a := &Instance{ID: 1, Name: "a"}
	b := &Instance{ID: 7, Name: "b"}
	s.Add(a)
	s.Add(b)

	assert.Same(t, a, s.ByID(1))
	assert.Same(t, b, s.ByID(7))
	assert.Nil(t, s.ByID(3))
}

func testCamera() *Camera {
	return &Camera{
		Rotation: mathutil.QuatIdentity(),
		HFOV:     mathutil.Deg2Rad(90),
		Aspect:   1,
		Near:     0.1,
		Far:      100,
	}
}

func TestCameraVFOV(t *testing.T) {
	c := testCamera()
	assert.InDelta(t, math.Pi/2, c.VFOV(), 1e-12)

	// Wide aspect narrows the vertical FOV.
	c.Aspect = 2
	assert.Less(t, c.VFOV(), math.Pi/2)
}

func TestCameraViewMatrix(t *testing.T) {
	// Camera at (0,0,5) looking down -Z sees the origin 5 units ahead.
	c := testCamera()
	c.Position = mathutil.Vec3{0, 0, 5}
	v := c.ViewMatrix().MulPoint(mathutil.Vec3{0, 0, 0})
	assert.InDelta(t, 0.0, v[0], 1e-12)
	assert.InDelta(t, 0.0, v[1], 1e-12)
	assert.InDelta(t, -5.0, v[2], 1e-12)

	// Yawed 90 degrees the camera looks down -X.
	c = testCamera()
	c.Rotation = mathutil.EulerDegToQuat(0, 90, 0)
	v = c.ViewMatrix().MulPoint(mathutil.Vec3{-5, 0, 0})
	assert.InDelta(t, 0.0, v[0], 1e-12)
	assert.InDelta(t, 0.0, v[1], 1e-12)
	assert.InDelta(t, -5.0, v[2], 1e-12)
}

func TestCameraIsVisible(t *testing.T) {
	c := testCamera()

	box := func(center mathutil.Vec3) geom.AABB {
		half := mathutil.Vec3{0.5, 0.5, 0.5}
		return geom.AABB{Min: center.Sub(half), Max: center.Add(half)}
	}

	assert.True(t, c.IsVisible(box(mathutil.Vec3{0, 0, -5})))
	assert.False(t, c.IsVisible(box(mathutil.Vec3{0, 0, 5})), "behind the camera")
	assert.False(t, c.IsVisible(box(mathutil.Vec3{100, 0, -5})), "far off to the side")
	assert.False(t, c.IsVisible(geom.EmptyAABB()))

	// Straddling the frustum edge stays visible.
	assert.True(t, c.IsVisible(box(mathutil.Vec3{5, 0, -5})))
}

func writeScene(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeScene(t, `
camera:
  position: [0, 1, 5]
  rotation: [0, 0, 0]
  hfov: 90
objects:
  - name: crate
    label: 2
    shape: {type: box, size: [1, 1, 1]}
    position: [0, 0, -3]
  - name: wheel
    parent: car
    shape: {type: box, size: [0.5, 0.5, 0.25], encoding: half4}
    position: [2, 0, -4]
    rotation: [0, 90, 0]
    scale: [2, 1, 1]
`)

	scn, cam, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, mathutil.Vec3{0, 1, 5}, cam.Position)
	assert.InDelta(t, math.Pi/2, cam.HFOV, 1e-12)
	assert.Equal(t, 0.1, cam.Near)
	assert.Equal(t, 100.0, cam.Far)

	require.Len(t, scn.Instances, 2)

	crate := scn.Instances[0]
	assert.Equal(t, uint32(1), crate.ID)
	assert.Equal(t, "crate", crate.Name)
	assert.Equal(t, uint8(2), crate.Label)
	assert.Equal(t, "crate", crate.ParentName())
	assert.Equal(t, mathutil.Vec3{1, 1, 1}, crate.Scale)
	assert.Equal(t, EncodingFloat3, crate.Mesh.SubMeshes[0].Positions.Encoding)

	wheel := scn.Instances[1]
	assert.Equal(t, uint32(2), wheel.ID)
	assert.Equal(t, "car", wheel.ParentName())
	assert.Equal(t, uint8(1), wheel.Label, "label defaults to 1")
	assert.Equal(t, mathutil.Vec3{2, 1, 1}, wheel.Scale)
	assert.Equal(t, EncodingHalf4, wheel.Mesh.SubMeshes[0].Positions.Encoding)
}

func TestLoadDefaults(t *testing.T) {
	path := writeScene(t, `
objects:
  - name: thing
`)
	scn, cam, err := Load(path)
	require.NoError(t, err)

	assert.InDelta(t, mathutil.Deg2Rad(60), cam.HFOV, 1e-12)
	assert.Equal(t, 0.1, cam.Near)
	assert.Equal(t, 100.0, cam.Far)

	require.Len(t, scn.Instances, 1)
	b, err := scn.Instances[0].Mesh.LocalAABB()
	require.NoError(t, err)
	assert.Equal(t, mathutil.Vec3{-0.5, -0.5, -0.5}, b.Min)
}

func TestLoadErrors(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, _, err = Load(writeScene(t, "objects:\n  - label: 1\n"))
	assert.ErrorContains(t, err, "no name")

	_, _, err = Load(writeScene(t, "objects:\n  - name: x\n    shape: {type: sphere}\n"))
	assert.ErrorContains(t, err, "unknown shape")

	_, _, err = Load(writeScene(t, "objects:\n  - name: x\n    shape: {encoding: quad}\n"))
	assert.ErrorContains(t, err, "unknown vertex encoding")
}
