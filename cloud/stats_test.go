package cloud

import (
	"math"
	"testing"
)

func unitSquare() Cloud {
	return Cloud{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 0, Y: 1, Z: 0},
	}
}

func TestCentroid(t *testing.T) {
	c := unitSquare()
	x, y, z, ok := c.Centroid(c.AllIndices())
	if !ok {
		t.Fatal("centroid should succeed")
	}
	if math.Abs(x-0.5) > 1e-12 || math.Abs(y-0.5) > 1e-12 || math.Abs(z) > 1e-12 {
		t.Errorf("expected centroid (0.5, 0.5, 0), got (%f, %f, %f)", x, y, z)
	}
}

func TestCentroidSubset(t *testing.T) {
	c := unitSquare()
	x, y, _, ok := c.Centroid([]int{0, 2})
	if !ok {
		t.Fatal("centroid should succeed")
	}
	if math.Abs(x-0.5) > 1e-12 || math.Abs(y-0.5) > 1e-12 {
		t.Errorf("expected centroid (0.5, 0.5), got (%f, %f)", x, y)
	}
}

func TestCentroidRejectsEmptyAndOutOfRange(t *testing.T) {
	c := unitSquare()
	if _, _, _, ok := c.Centroid(nil); ok {
		t.Error("empty subset should fail")
	}
	if _, _, _, ok := c.Centroid([]int{0, 99}); ok {
		t.Error("out-of-range index should fail")
	}
}

func TestCovarianceUnitSquare(t *testing.T) {
	c := unitSquare()
	cov, ok := c.Covariance(c.AllIndices())
	if !ok {
		t.Fatal("covariance should succeed")
	}
	// Variance 0.25 along X and Y, zero along Z, no cross terms.
	if math.Abs(cov.At(0, 0)-0.25) > 1e-12 || math.Abs(cov.At(1, 1)-0.25) > 1e-12 {
		t.Errorf("expected 0.25 diagonal variances, got %f, %f", cov.At(0, 0), cov.At(1, 1))
	}
	if math.Abs(cov.At(2, 2)) > 1e-12 || math.Abs(cov.At(0, 1)) > 1e-12 {
		t.Errorf("expected zero Z variance and XY covariance, got %f, %f", cov.At(2, 2), cov.At(0, 1))
	}
}

func TestPrincipalVariancesTranslationInvariant(t *testing.T) {
	c := unitSquare()
	shifted := make(Cloud, len(c))
	for i, p := range c {
		shifted[i] = Point{X: p.X + 100, Y: p.Y - 42, Z: p.Z + 7}
	}

	base, ok := c.PrincipalVariances(c.AllIndices())
	if !ok {
		t.Fatal("principal variances should succeed")
	}
	moved, ok := shifted.PrincipalVariances(shifted.AllIndices())
	if !ok {
		t.Fatal("principal variances should succeed")
	}
	for i := range base {
		if math.Abs(base[i]-moved[i]) > 1e-9 {
			t.Errorf("variance %d changed under translation: %f vs %f", i, base[i], moved[i])
		}
	}
}

func TestPrincipalVariancesAscending(t *testing.T) {
	c := Cloud{
		{X: 0, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 10, Y: 1, Z: 0}, {X: 5, Y: 0.5, Z: 0.1},
	}
	variances, ok := c.PrincipalVariances(c.AllIndices())
	if !ok {
		t.Fatal("principal variances should succeed")
	}
	if variances[0] > variances[1] || variances[1] > variances[2] {
		t.Errorf("expected ascending eigenvalues, got %v", variances)
	}
}
