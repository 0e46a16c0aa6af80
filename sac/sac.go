// Package sac implements random sample consensus over a pluggable model.
// The driver is written purely against the Model contract so that different
// fitting strategies (registration, planes, spheres) can be swapped without
// touching the search loop.
package sac

import "math"

// Model is the contract a fitting strategy must satisfy to participate in
// the consensus search. All methods are synchronous, in-memory computations;
// failures are reported by value so one bad hypothesis never aborts the loop.
type Model interface {
	// ModelType returns a stable identifier for the model variant.
	ModelType() string

	// SampleSize returns the number of indices in a minimal sample.
	SampleSize() int

	// Indices returns the active index subset candidates are drawn from.
	Indices() []int

	// IsSampleGood reports whether a drawn sample is geometrically usable.
	IsSampleGood(sample []int) bool

	// ComputeCoefficients fits model coefficients to a minimal sample.
	ComputeCoefficients(sample []int) ([]float64, bool)

	// Residuals returns the per-point distances under the given coefficients.
	Residuals(coeffs []float64) []float64

	// SelectWithinDistance returns the indices whose residual is within
	// threshold. Malformed coefficients yield an empty result.
	SelectWithinDistance(coeffs []float64, threshold float64) []int

	// CountWithinDistance is the allocation-free counterpart of
	// SelectWithinDistance.
	CountWithinDistance(coeffs []float64, threshold float64) int

	// OptimizeCoefficients recomputes the coefficients over an inlier set.
	OptimizeCoefficients(inliers []int, coeffs []float64) ([]float64, bool)
}

// ThresholdProvider is implemented by models that derive an adaptive inlier
// distance threshold from their own data spread.
type ThresholdProvider interface {
	SampleDistanceThreshold() float64
}

// Params configures the consensus search.
type Params struct {
	// DistanceThreshold is the inlier distance bound. Zero or negative means
	// use the model's adaptive threshold when it provides one.
	DistanceThreshold float64
	// MaxIterations caps the number of candidate samples drawn.
	MaxIterations int
	// Probability is the desired probability of drawing at least one
	// outlier-free sample; it drives the adaptive iteration bound.
	Probability float64
	// Progress, when non-nil, is invoked whenever a new best hypothesis is
	// found, with the iteration number and its inlier count.
	Progress func(iteration, inlierCount int)
}

// DefaultParams returns the default consensus search parameters.
func DefaultParams() Params {
	return Params{
		MaxIterations: 1000,
		Probability:   0.99,
	}
}

// SAC runs the consensus search: draw a minimal sample, fit, score, keep the
// best-scoring hypothesis, and stop once enough iterations have passed to
// make an outlier-free sample probable.
type SAC struct {
	model   Model
	sampler Sampler
	params  Params

	threshold  float64
	coeffs     []float64
	inliers    []int
	iterations int
}

// New creates a consensus search over the given model. The sampler supplies
// candidate minimal samples; see NewRandomSampler.
func New(m Model, sampler Sampler, params Params) *SAC {
	return &SAC{model: m, sampler: sampler, params: params}
}

// Compute runs the search. It returns false when no sample ever produced a
// usable model, which the caller should report as a failed alignment rather
// than an error.
func (s *SAC) Compute() bool {
	threshold := s.params.DistanceThreshold
	if threshold <= 0 {
		if tp, ok := s.model.(ThresholdProvider); ok {
			threshold = tp.SampleDistanceThreshold()
		}
	}
	if threshold <= 0 {
		return false
	}

	sampleSize := s.model.SampleSize()
	total := len(s.model.Indices())
	if total < sampleSize {
		return false
	}

	var bestCoeffs []float64
	bestCount := 0

	// k is the adaptive iteration bound; it shrinks as better hypotheses
	// raise the estimated inlier ratio.
	k := float64(s.params.MaxIterations)
	iter := 0
	for ; iter < s.params.MaxIterations && float64(iter) < k; iter++ {
		sample := s.sampler.Sample(sampleSize)
		if !s.model.IsSampleGood(sample) {
			continue
		}
		coeffs, ok := s.model.ComputeCoefficients(sample)
		if !ok {
			continue
		}
		count := s.model.CountWithinDistance(coeffs, threshold)
		if count <= bestCount {
			continue
		}
		bestCount = count
		bestCoeffs = coeffs
		if s.params.Progress != nil {
			s.params.Progress(iter, count)
		}

		inlierRatio := float64(count) / float64(total)
		pNoFreeSample := 1 - math.Pow(inlierRatio, float64(sampleSize))
		pNoFreeSample = math.Min(math.Max(pNoFreeSample, 1e-9), 1-1e-9)
		k = math.Log(1-s.params.Probability) / math.Log(pNoFreeSample)
	}

	if bestCoeffs == nil {
		return false
	}
	s.threshold = threshold
	s.coeffs = bestCoeffs
	s.inliers = s.model.SelectWithinDistance(bestCoeffs, threshold)
	s.iterations = iter
	return true
}

// Refine re-fits the best hypothesis over its full inlier set and, on
// success, re-selects the inliers under the refined coefficients. Compute
// must have succeeded first.
func (s *SAC) Refine() bool {
	if s.coeffs == nil {
		return false
	}
	refined, ok := s.model.OptimizeCoefficients(s.inliers, s.coeffs)
	if !ok {
		return false
	}
	s.coeffs = refined
	s.inliers = s.model.SelectWithinDistance(refined, s.threshold)
	return true
}

// Coefficients returns the best coefficients found, or nil before a
// successful Compute.
func (s *SAC) Coefficients() []float64 { return s.coeffs }

// Inliers returns the inlier indices of the best hypothesis.
func (s *SAC) Inliers() []int { return s.inliers }

// Iterations returns the number of candidate samples drawn.
func (s *SAC) Iterations() int { return s.iterations }

// Threshold returns the distance threshold the search settled on.
func (s *SAC) Threshold() float64 { return s.threshold }
