// Package register implements a sample-consensus model for point-to-point
// registration outlier rejection. Given a source cloud, a target cloud, and
// a positional index-to-index correspondence between their active subsets,
// it fits the similarity transform (rotation, uniform scale, translation)
// that best aligns corresponding points, and scores how many correspondences
// agree with a candidate transform within a distance threshold.
//
// The model is one fitting strategy behind the sac.Model contract; the
// consensus loop itself lives in the sac package.
package register

import (
	"log"
	"math"

	"github.com/vbillys/FeatureBasedAlignment/cloud"
	"github.com/vbillys/FeatureBasedAlignment/sac"
)

// SampleSize is the number of correspondences in a minimal sample: three
// non-degenerate pairs determine a similarity transform.
const SampleSize = 3

// DefaultDegeneracyTolerance is the default relative tolerance used by the
// degeneracy checks (collinearity, cross-covariance rank).
const DefaultDegeneracyTolerance = 1e-8

// Model holds non-owning references to the source and target clouds plus the
// derived correspondence index and adaptive sample distance threshold. The
// derived state is recomputed eagerly on every cloud or subset assignment;
// configuration changes must not race with concurrent scoring calls.
type Model struct {
	tolerance float64

	source        cloud.Cloud
	sourceIndices []int
	target        cloud.Cloud
	targetIndices []int

	// correspondences maps a source point's original index to the matching
	// original index in the target cloud. Empty until both active subsets
	// are non-empty and of equal length.
	correspondences map[int]int

	sampleDistThresh float64
}

// NewModel creates a registration model over the given source cloud with all
// of its points active. Call SetTarget before fitting.
func NewModel(source cloud.Cloud) *Model {
	m := &Model{
		tolerance:       DefaultDegeneracyTolerance,
		correspondences: make(map[int]int),
	}
	m.SetSource(source, nil)
	return m
}

// SetDegeneracyTolerance overrides the relative tolerance used by the
// degeneracy checks. Values must be positive; others are ignored.
func (m *Model) SetDegeneracyTolerance(tol float64) {
	if tol > 0 {
		m.tolerance = tol
	}
}

// SetSource assigns the source cloud and its active index subset. A nil
// subset means all points. The correspondence index and the sample distance
// threshold are recomputed synchronously.
func (m *Model) SetSource(c cloud.Cloud, indices []int) {
	m.source = c
	if indices == nil {
		indices = c.AllIndices()
	}
	m.sourceIndices = indices
	m.rebuildCorrespondences()
	m.computeSampleDistanceThreshold()
}

// SetTarget assigns the target cloud and its active index subset. A nil
// subset means the identity subset 0..len(c)-1, pairing source subset
// position i with target point i. The correspondence index is recomputed
// synchronously.
func (m *Model) SetTarget(c cloud.Cloud, indices []int) {
	m.target = c
	if indices == nil {
		indices = c.AllIndices()
	}
	m.targetIndices = indices
	m.rebuildCorrespondences()
}

// rebuildCorrespondences pairs the source and target active subsets
// position-for-position. Unequal or empty subsets leave the mapping empty:
// a "nothing to correspond yet" state, not a failure.
func (m *Model) rebuildCorrespondences() {
	m.correspondences = make(map[int]int, len(m.sourceIndices))
	if len(m.sourceIndices) == 0 || len(m.sourceIndices) != len(m.targetIndices) {
		return
	}
	for i, srcIdx := range m.sourceIndices {
		m.correspondences[srcIdx] = m.targetIndices[i]
	}
}

// computeSampleDistanceThreshold derives the adaptive inlier distance bound
// from the principal variances of the active source subset: the square of
// the mean principal standard deviation.
func (m *Model) computeSampleDistanceThreshold() {
	m.sampleDistThresh = 0
	variances, ok := m.source.PrincipalVariances(m.sourceIndices)
	if !ok {
		return
	}
	mean := (math.Sqrt(variances[0]) + math.Sqrt(variances[1]) + math.Sqrt(variances[2])) / 3.0
	m.sampleDistThresh = mean * mean
	log.Printf("register: sample distance threshold %g from %d source points",
		m.sampleDistThresh, len(m.sourceIndices))
}

// SampleDistanceThreshold returns the adaptive inlier distance bound derived
// from the current source subset.
func (m *Model) SampleDistanceThreshold() float64 { return m.sampleDistThresh }

// Indices returns the active source index subset.
func (m *Model) Indices() []int { return m.sourceIndices }

// Correspondence returns the target index paired with the given source
// index, or false when the index has no correspondence.
func (m *Model) Correspondence(srcIdx int) (int, bool) {
	tgtIdx, ok := m.correspondences[srcIdx]
	return tgtIdx, ok
}

// SourcePoint returns the source point at the given original index.
func (m *Model) SourcePoint(idx int) cloud.Point { return m.source[idx] }

// TargetPoint returns the target point at the given original index.
func (m *Model) TargetPoint(idx int) cloud.Point { return m.target[idx] }

// ModelType identifies this fitting strategy to the consensus driver.
func (m *Model) ModelType() string { return "registration" }

// SampleSize returns the minimal sample size.
func (m *Model) SampleSize() int { return SampleSize }

var (
	_ sac.Model             = (*Model)(nil)
	_ sac.ThresholdProvider = (*Model)(nil)
)
