package geom

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"boxcam/internal/mathutil"
)

// OrientedBox is a best-fit box with an arbitrary rotation.
type OrientedBox struct {
	Center   mathutil.Vec3
	Size     mathutil.Vec3
	Rotation mathutil.Quat
}

// ErrNoPoints is returned when fitting an empty point cloud.
var ErrNoPoints = errors.New("geom: cannot fit a box to zero points")

// FitOrientedBox computes a principal-component-analysis bounding box of a
// point cloud: centroid, covariance eigenvectors as box axes, extents from
// projecting the points onto that basis.
//
// Axes are ordered by descending variance and sign-normalized so that an
// axis-aligned cloud with distinct extents fits with identity rotation.
func FitOrientedBox(points []mathutil.Vec3) (OrientedBox, error) {
	if len(points) == 0 {
		return OrientedBox{}, ErrNoPoints
	}

	var centroid mathutil.Vec3
	for _, p := range points {
		centroid = centroid.Add(p)
	}
	centroid = centroid.Scale(1 / float64(len(points)))

	// Covariance matrix of the centered points.
	var cov [9]float64
	for _, p := range points {
		d := p.Sub(centroid)
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				cov[r*3+c] += d[r] * d[c]
			}
		}
	}
	n := float64(len(points))
	for i := range cov {
		cov[i] /= n
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(mat.NewSymDense(3, cov[:]), true); !ok {
		return OrientedBox{}, errors.New("geom: eigen decomposition failed")
	}

	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// gonum returns eigenvalues in ascending order; take columns in
	// descending order so axis 0 carries the largest variance.
	axes := [3]mathutil.Vec3{}
	for i := 0; i < 3; i++ {
		col := 2 - i
		axes[i] = mathutil.Vec3{vecs.At(0, col), vecs.At(1, col), vecs.At(2, col)}
		axes[i] = signNormalize(axes[i])
	}

	rot := mathutil.Mat3FromCols(axes[0], axes[1], axes[2])
	if rot.Det() < 0 {
		axes[2] = axes[2].Scale(-1)
		rot = mathutil.Mat3FromCols(axes[0], axes[1], axes[2])
	}

	// Extents in the rotated frame.
	basisToWorld := rot
	worldToBasis := rot.Transpose()
	bounds := EmptyAABB()
	for _, p := range points {
		bounds = bounds.Extend(worldToBasis.MulVec3(p))
	}

	return OrientedBox{
		Center:   basisToWorld.MulVec3(bounds.Center()),
		Size:     bounds.Size(),
		Rotation: mathutil.Mat3ToQuat(rot),
	}, nil
}

// signNormalize flips an axis so its largest-magnitude component is
// positive, removing the eigenvector sign ambiguity.
func signNormalize(v mathutil.Vec3) mathutil.Vec3 {
	max := 0
	for i := 1; i < 3; i++ {
		if abs(v[i]) > abs(v[max]) {
			max = i
		}
	}
	if v[max] < 0 {
		return v.Scale(-1)
	}
	return v
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
