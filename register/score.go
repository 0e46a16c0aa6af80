package register

import (
	"math"

	"github.com/vbillys/FeatureBasedAlignment/cloud"
)

// Residuals computes, for every active source index that has a
// correspondence, the Euclidean distance between the transformed source
// point and its corresponding target point. Indices without a correspondence
// are skipped. Malformed coefficients yield nil.
func (m *Model) Residuals(coeffs []float64) []float64 {
	t, ok := cloud.TransformFromCoefficients(coeffs)
	if !ok {
		return nil
	}
	distances := make([]float64, 0, len(m.sourceIndices))
	m.eachResidual(t, func(srcIdx int, d float64) {
		distances = append(distances, d)
	})
	return distances
}

// SelectWithinDistance returns the ordered source indices whose residual is
// within threshold. Malformed coefficients yield an empty result rather than
// an error, so a single bad hypothesis cannot abort the consensus search.
func (m *Model) SelectWithinDistance(coeffs []float64, threshold float64) []int {
	t, ok := cloud.TransformFromCoefficients(coeffs)
	if !ok {
		return nil
	}
	var inliers []int
	m.eachResidual(t, func(srcIdx int, d float64) {
		if d <= threshold {
			inliers = append(inliers, srcIdx)
		}
	})
	return inliers
}

// CountWithinDistance counts the inliers of SelectWithinDistance without
// materializing the index slice. This is the fast path the consensus driver
// uses to rank many candidate transforms.
func (m *Model) CountWithinDistance(coeffs []float64, threshold float64) int {
	t, ok := cloud.TransformFromCoefficients(coeffs)
	if !ok {
		return 0
	}
	count := 0
	m.eachResidual(t, func(srcIdx int, d float64) {
		if d <= threshold {
			count++
		}
	})
	return count
}

// eachResidual visits the active source indices in order, invoking fn with
// each index that has a correspondence and its residual distance under t.
func (m *Model) eachResidual(t cloud.Transform, fn func(srcIdx int, d float64)) {
	for _, srcIdx := range m.sourceIndices {
		tgtIdx, ok := m.correspondences[srcIdx]
		if !ok {
			continue
		}
		if srcIdx < 0 || srcIdx >= len(m.source) || tgtIdx < 0 || tgtIdx >= len(m.target) {
			continue
		}
		p := t.ApplyPoint(m.source[srcIdx])
		q := m.target[tgtIdx]
		dx, dy, dz := p.X-q.X, p.Y-q.Y, p.Z-q.Z
		fn(srcIdx, math.Sqrt(dx*dx+dy*dy+dz*dz))
	}
}

// OptimizeCoefficients recomputes the transform over the full inlier set,
// yielding the least-squares fit over all agreeing correspondences. The
// initial coefficients are accepted for interface symmetry with the
// consensus driver and returned unchanged when the re-fit fails; no
// iterative refinement is performed.
func (m *Model) OptimizeCoefficients(inliers []int, coeffs []float64) ([]float64, bool) {
	srcIndices := make([]int, 0, len(inliers))
	tgtIndices := make([]int, 0, len(inliers))
	for _, srcIdx := range inliers {
		tgtIdx, ok := m.correspondences[srcIdx]
		if !ok {
			continue
		}
		srcIndices = append(srcIndices, srcIdx)
		tgtIndices = append(tgtIndices, tgtIdx)
	}
	if len(srcIndices) < SampleSize {
		return coeffs, false
	}
	t, ok := m.estimateTransform(srcIndices, tgtIndices)
	if !ok {
		return coeffs, false
	}
	return t.Coefficients(), true
}
