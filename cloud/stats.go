package cloud

import "gonum.org/v1/gonum/mat"

// Covariance computes the 3x3 covariance matrix of the points named by
// indices about their centroid, normalized by the point count. Returns false
// when the subset is empty or contains out-of-range indices.
func (c Cloud) Covariance(indices []int) (*mat.SymDense, bool) {
	cx, cy, cz, ok := c.Centroid(indices)
	if !ok {
		return nil, false
	}

	var xx, xy, xz, yy, yz, zz float64
	for _, idx := range indices {
		p := c[idx]
		dx, dy, dz := p.X-cx, p.Y-cy, p.Z-cz
		xx += dx * dx
		xy += dx * dy
		xz += dx * dz
		yy += dy * dy
		yz += dy * dz
		zz += dz * dz
	}

	n := float64(len(indices))
	cov := mat.NewSymDense(3, nil)
	cov.SetSym(0, 0, xx/n)
	cov.SetSym(0, 1, xy/n)
	cov.SetSym(0, 2, xz/n)
	cov.SetSym(1, 1, yy/n)
	cov.SetSym(1, 2, yz/n)
	cov.SetSym(2, 2, zz/n)
	return cov, true
}

// PrincipalVariances returns the eigenvalues of the covariance matrix of the
// subset, in ascending order. These are the variances along the principal
// axes of the subset.
func (c Cloud) PrincipalVariances(indices []int) ([3]float64, bool) {
	var values [3]float64
	cov, ok := c.Covariance(indices)
	if !ok {
		return values, false
	}

	var eig mat.EigenSym
	if !eig.Factorize(cov, false) {
		return values, false
	}
	eigenvalues := eig.Values(nil)
	copy(values[:], eigenvalues)
	return values, true
}
