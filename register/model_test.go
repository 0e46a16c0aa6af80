package register

import (
	"math"
	"testing"

	"github.com/vbillys/FeatureBasedAlignment/cloud"
)

func unitSquare() cloud.Cloud {
	return cloud.Cloud{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 0, Y: 1, Z: 0},
	}
}

// transformed returns a copy of c with tf applied to every point.
func transformed(c cloud.Cloud, tf cloud.Transform) cloud.Cloud {
	out := make(cloud.Cloud, len(c))
	for i, p := range c {
		out[i] = tf.ApplyPoint(p)
	}
	return out
}

func TestCorrespondencesPositional(t *testing.T) {
	src := unitSquare()
	tgt := unitSquare()

	m := NewModel(src)
	m.SetSource(src, []int{0, 2})
	m.SetTarget(tgt, []int{3, 1})

	if got, ok := m.Correspondence(0); !ok || got != 3 {
		t.Errorf("expected 0 -> 3, got %d (ok=%v)", got, ok)
	}
	if got, ok := m.Correspondence(2); !ok || got != 1 {
		t.Errorf("expected 2 -> 1, got %d (ok=%v)", got, ok)
	}
}

func TestCorrespondenceAbsentIndex(t *testing.T) {
	m := NewModel(unitSquare())
	m.SetTarget(unitSquare(), nil)

	if _, ok := m.Correspondence(99); ok {
		t.Error("lookup of an unknown index must report no correspondence")
	}
}

func TestCorrespondencesEmptyOnUnequalSubsets(t *testing.T) {
	m := NewModel(unitSquare())
	m.SetSource(unitSquare(), []int{0, 1, 2})
	m.SetTarget(unitSquare(), []int{0, 1})

	for i := 0; i < 4; i++ {
		if _, ok := m.Correspondence(i); ok {
			t.Errorf("unequal subsets must leave the mapping empty, found %d", i)
		}
	}
}

func TestCorrespondencesEmptyWithoutTarget(t *testing.T) {
	m := NewModel(unitSquare())
	if _, ok := m.Correspondence(0); ok {
		t.Error("no target assigned, mapping must be empty")
	}
}

func TestIdentityCorrespondenceFromBareTarget(t *testing.T) {
	m := NewModel(unitSquare())
	m.SetTarget(unitSquare(), nil)

	for i := 0; i < 4; i++ {
		if got, ok := m.Correspondence(i); !ok || got != i {
			t.Errorf("expected identity correspondence %d -> %d, got %d (ok=%v)", i, i, got, ok)
		}
	}
}

func TestSampleDistanceThresholdPositiveFinite(t *testing.T) {
	m := NewModel(unitSquare())
	thresh := m.SampleDistanceThreshold()
	if thresh <= 0 || math.IsInf(thresh, 0) || math.IsNaN(thresh) {
		t.Errorf("expected strictly positive finite threshold, got %f", thresh)
	}
	// Unit square: variances 0.25, 0.25, 0 so the squared mean principal
	// standard deviation is ((0.5+0.5)/3)^2 = 1/9.
	if math.Abs(thresh-1.0/9.0) > 1e-9 {
		t.Errorf("expected 1/9, got %f", thresh)
	}
}

func TestSampleDistanceThresholdTranslationInvariant(t *testing.T) {
	base := NewModel(unitSquare())

	shift := cloud.Identity
	shift[3], shift[7], shift[11] = 120, -55, 9
	moved := NewModel(transformed(unitSquare(), shift))

	if math.Abs(base.SampleDistanceThreshold()-moved.SampleDistanceThreshold()) > 1e-9 {
		t.Errorf("threshold changed under translation: %f vs %f",
			base.SampleDistanceThreshold(), moved.SampleDistanceThreshold())
	}
}

func TestSampleDistanceThresholdRecomputedOnReassignment(t *testing.T) {
	m := NewModel(unitSquare())
	before := m.SampleDistanceThreshold()

	grow := cloud.Identity
	grow[0], grow[5], grow[10] = 10, 10, 10
	m.SetSource(transformed(unitSquare(), grow), nil)

	after := m.SampleDistanceThreshold()
	if math.Abs(after-100*before) > 1e-6 {
		t.Errorf("expected threshold to scale with the cloud: before=%f after=%f", before, after)
	}
}

func TestModelType(t *testing.T) {
	m := NewModel(unitSquare())
	if got := m.ModelType(); got != "registration" {
		t.Errorf("unexpected model type %q", got)
	}
	if m.SampleSize() != 3 {
		t.Errorf("expected minimal sample of 3, got %d", m.SampleSize())
	}
}
