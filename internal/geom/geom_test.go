package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxcam/internal/mathutil"
)

func assertVec3(t *testing.T, want, got mathutil.Vec3, delta float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], delta, "component %d", i)
	}
}

func TestEmptyAABB(t *testing.T) {
	b := EmptyAABB()
	assert.True(t, b.IsEmpty())

	b = b.Extend(mathutil.Vec3{1, 2, 3})
	assert.False(t, b.IsEmpty())
	assert.Equal(t, mathutil.Vec3{1, 2, 3}, b.Min)
	assert.Equal(t, mathutil.Vec3{1, 2, 3}, b.Max)
	assert.Equal(t, mathutil.Vec3{}, b.Size())
}

func TestAABBExtend(t *testing.T) {
	b := EmptyAABB().
		Extend(mathutil.Vec3{-1, 2, 0}).
		Extend(mathutil.Vec3{3, -2, 5})

	assert.Equal(t, mathutil.Vec3{-1, -2, 0}, b.Min)
	assert.Equal(t, mathutil.Vec3{3, 2, 5}, b.Max)
	assert.Equal(t, mathutil.Vec3{1, 0, 2.5}, b.Center())
	assert.Equal(t, mathutil.Vec3{4, 4, 5}, b.Size())
}

func TestAABBTransform(t *testing.T) {
	unit := AABB{
		Min: mathutil.Vec3{-0.5, -0.5, -0.5},
		Max: mathutil.Vec3{0.5, 0.5, 0.5},
	}

	// Scale only.
	b := unit.Transform(mathutil.Vec3{}, mathutil.QuatIdentity(), mathutil.Vec3{2, 4, 6})
	assertVec3(t, mathutil.Vec3{2, 4, 6}, b.Size(), 1e-12)

	// Translate only.
	b = unit.Transform(mathutil.Vec3{10, 0, -3}, mathutil.QuatIdentity(), mathutil.Vec3{1, 1, 1})
	assertVec3(t, mathutil.Vec3{10, 0, -3}, b.Center(), 1e-12)

	// 90 degrees about Z swaps the x and y extents.
	q := mathutil.EulerDegToQuat(0, 0, 90)
	b = unit.Transform(mathutil.Vec3{}, q, mathutil.Vec3{4, 2, 1})
	assertVec3(t, mathutil.Vec3{2, 4, 1}, b.Size(), 1e-12)

	// 45 degrees about Z widens the footprint to the diagonal.
	q = mathutil.EulerDegToQuat(0, 0, 45)
	b = unit.Transform(mathutil.Vec3{}, q, mathutil.Vec3{1, 1, 1})
	assertVec3(t, mathutil.Vec3{math.Sqrt2, math.Sqrt2, 1}, b.Size(), 1e-12)
}

// boxCorners returns the 8 corners of an axis-aligned box before any
// transform is applied.
func boxCorners(center, size mathutil.Vec3) []mathutil.Vec3 {
	half := size.Scale(0.5)
	corners := AABB{Min: center.Sub(half), Max: center.Add(half)}.Corners()
	return corners[:]
}

func TestFitOrientedBoxEmpty(t *testing.T) {
	_, err := FitOrientedBox(nil)
	assert.ErrorIs(t, err, ErrNoPoints)
}

func TestFitOrientedBoxAxisAligned(t *testing.T) {
	// Distinct extents per axis keep the eigenvectors unambiguous, so the
	// fitted rotation is identity.
	pts := boxCorners(mathutil.Vec3{1, 2, 3}, mathutil.Vec3{4, 2, 1})

	box, err := FitOrientedBox(pts)
	require.NoError(t, err)

	assertVec3(t, mathutil.Vec3{1, 2, 3}, box.Center, 1e-9)
	assertVec3(t, mathutil.Vec3{4, 2, 1}, box.Size, 1e-9)
	assert.InDelta(t, 1.0, math.Abs(box.Rotation[3]), 1e-9)
}

func TestFitOrientedBoxRotated(t *testing.T) {
	// Rotate the corner cloud and check the fit recovers the extents.
	rot := mathutil.RotZ(math.Pi / 6)
	var pts []mathutil.Vec3
	for _, p := range boxCorners(mathutil.Vec3{}, mathutil.Vec3{4, 2, 1}) {
		pts = append(pts, rot.MulVec3(p))
	}

	box, err := FitOrientedBox(pts)
	require.NoError(t, err)

	assertVec3(t, mathutil.Vec3{}, box.Center, 1e-9)
	assertVec3(t, mathutil.Vec3{4, 2, 1}, box.Size, 1e-9)

	// The recovered frame must map box-local corners back onto the cloud.
	m := mathutil.QuatToMat3(box.Rotation)
	got := m.MulVec3(mathutil.Vec3{2, 1, 0.5})
	want := rot.MulVec3(mathutil.Vec3{2, 1, 0.5})
	for i := 0; i < 3; i++ {
		assert.InDelta(t, math.Abs(want[i]), math.Abs(got[i]), 1e-9)
	}
}

func TestFitOrientedBoxTwoClusters(t *testing.T) {
	// Two identical boxes side by side along x fit as one wide box.
	var pts []mathutil.Vec3
	pts = append(pts, boxCorners(mathutil.Vec3{-2, 0, 0}, mathutil.Vec3{2, 1.5, 1})...)
	pts = append(pts, boxCorners(mathutil.Vec3{2, 0, 0}, mathutil.Vec3{2, 1.5, 1})...)

	box, err := FitOrientedBox(pts)
	require.NoError(t, err)

	assertVec3(t, mathutil.Vec3{}, box.Center, 1e-9)
	assertVec3(t, mathutil.Vec3{6, 1.5, 1}, box.Size, 1e-9)
	assert.InDelta(t, 1.0, math.Abs(box.Rotation[3]), 1e-9)
}

func TestFitOrientedBoxRightHanded(t *testing.T) {
	pts := boxCorners(mathutil.Vec3{0, 0, 0}, mathutil.Vec3{5, 3, 2})
	box, err := FitOrientedBox(pts)
	require.NoError(t, err)

	m := mathutil.QuatToMat3(box.Rotation)
	assert.InDelta(t, 1.0, m.Det(), 1e-9)
}
