package register

import (
	"gonum.org/v1/gonum/mat"

	"github.com/vbillys/FeatureBasedAlignment/cloud"
)

// ComputeCoefficients fits a similarity transform to the given sample of
// source indices, pairing each with its corresponding target index. It
// returns the transform as a 16-entry row-major coefficient vector, or false
// when the sample is too small, a correspondence is missing, or the
// configuration is degenerate. Degeneracy is re-checked numerically inside
// the solve even though callers are expected to gate samples through
// IsSampleGood first.
func (m *Model) ComputeCoefficients(sample []int) ([]float64, bool) {
	if len(sample) < SampleSize {
		return nil, false
	}
	targets := make([]int, len(sample))
	for i, srcIdx := range sample {
		tgtIdx, ok := m.correspondences[srcIdx]
		if !ok {
			return nil, false
		}
		targets[i] = tgtIdx
	}
	if len(sample) == SampleSize && !m.IsSampleGood(sample) {
		return nil, false
	}
	t, ok := m.estimateTransform(sample, targets)
	if !ok {
		return nil, false
	}
	return t.Coefficients(), true
}

// estimateTransform solves the absolute orientation (Procrustes with scale)
// problem in closed form over the given index pairs:
//
//  1. centroids of both selections
//  2. cross-covariance H of the centered selections
//  3. SVD: H = U S Vt
//  4. R = V diag(1,1,det(V Ut)) Ut, the determinant factor preventing a
//     reflection
//  5. s = trace(S) / sum of squared norms of the centered source points
//  6. t = targetCentroid - s R sourceCentroid
func (m *Model) estimateTransform(srcIndices, tgtIndices []int) (cloud.Transform, bool) {
	scx, scy, scz, ok := m.source.Centroid(srcIndices)
	if !ok {
		return cloud.Identity, false
	}
	tcx, tcy, tcz, ok := m.target.Centroid(tgtIndices)
	if !ok {
		return cloud.Identity, false
	}

	// Cross-covariance of the centered point sets, plus the source variance
	// needed for the scale estimate.
	var h [9]float64
	var srcVar float64
	for i := range srcIndices {
		p := m.source[srcIndices[i]]
		q := m.target[tgtIndices[i]]
		sx, sy, sz := p.X-scx, p.Y-scy, p.Z-scz
		tx, ty, tz := q.X-tcx, q.Y-tcy, q.Z-tcz
		h[0] += sx * tx
		h[1] += sx * ty
		h[2] += sx * tz
		h[3] += sy * tx
		h[4] += sy * ty
		h[5] += sy * tz
		h[6] += sz * tx
		h[7] += sz * ty
		h[8] += sz * tz
		srcVar += sx*sx + sy*sy + sz*sz
	}
	if srcVar <= 0 {
		return cloud.Identity, false
	}

	var svd mat.SVD
	if !svd.Factorize(mat.NewDense(3, 3, h[:]), mat.SVDFull) {
		return cloud.Identity, false
	}
	sv := svd.Values(nil)

	// Rank check: a cross-covariance with fewer than two significant
	// singular values means the correspondences are collinear or coincident
	// and the rotation is not determined.
	if sv[0] <= 0 || sv[1] <= m.tolerance*sv[0] {
		return cloud.Identity, false
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	var vut mat.Dense
	vut.Mul(&v, u.T())
	d := 1.0
	if mat.Det(&vut) < 0 {
		d = -1.0
	}

	// R = V diag(1,1,d) Ut. Fold d into the last column of V.
	vc := mat.DenseCopyOf(&v)
	for row := 0; row < 3; row++ {
		vc.Set(row, 2, d*vc.At(row, 2))
	}
	var r mat.Dense
	r.Mul(vc, u.T())

	scale := (sv[0] + sv[1] + sv[2]) / srcVar

	// t = targetCentroid - s R sourceCentroid
	rx := scale * (r.At(0, 0)*scx + r.At(0, 1)*scy + r.At(0, 2)*scz)
	ry := scale * (r.At(1, 0)*scx + r.At(1, 1)*scy + r.At(1, 2)*scz)
	rz := scale * (r.At(2, 0)*scx + r.At(2, 1)*scy + r.At(2, 2)*scz)

	t := cloud.Transform{
		scale * r.At(0, 0), scale * r.At(0, 1), scale * r.At(0, 2), tcx - rx,
		scale * r.At(1, 0), scale * r.At(1, 1), scale * r.At(1, 2), tcy - ry,
		scale * r.At(2, 0), scale * r.At(2, 1), scale * r.At(2, 2), tcz - rz,
		0, 0, 0, 1,
	}
	return t, true
}
