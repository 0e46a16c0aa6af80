package cloud

import (
	"math"
	"testing"
)

func TestTransformIdentityApply(t *testing.T) {
	x, y, z := Identity.Apply(1.5, -2.0, 3.25)
	if x != 1.5 || y != -2.0 || z != 3.25 {
		t.Errorf("identity changed point: got (%f, %f, %f)", x, y, z)
	}
}

func TestTransformApplyRotationTranslation(t *testing.T) {
	// 90 degree rotation about Z plus translation (5, 5, 0).
	rot := Transform{
		0, -1, 0, 5,
		1, 0, 0, 5,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	x, y, z := rot.Apply(1, 0, 0)
	if math.Abs(x-5) > 1e-12 || math.Abs(y-6) > 1e-12 || math.Abs(z) > 1e-12 {
		t.Errorf("expected (5, 6, 0), got (%f, %f, %f)", x, y, z)
	}
}

func TestTransformCompose(t *testing.T) {
	translate := Identity
	translate[3], translate[7], translate[11] = 1, 2, 3
	scale := Identity
	scale[0], scale[5], scale[10] = 2, 2, 2

	// translate after scale: p -> 2p + t
	combined := translate.Compose(scale)
	x, y, z := combined.Apply(1, 1, 1)
	if x != 3 || y != 4 || z != 5 {
		t.Errorf("expected (3, 4, 5), got (%f, %f, %f)", x, y, z)
	}
}

func TestTransformScaleAndTranslation(t *testing.T) {
	tf := Transform{
		0, -2, 0, 5,
		2, 0, 0, 5,
		0, 0, 2, 0,
		0, 0, 0, 1,
	}
	if s := tf.Scale(); math.Abs(s-2.0) > 1e-12 {
		t.Errorf("expected scale 2.0, got %f", s)
	}
	x, y, z := tf.Translation()
	if x != 5 || y != 5 || z != 0 {
		t.Errorf("expected translation (5, 5, 0), got (%f, %f, %f)", x, y, z)
	}
}

func TestTransformCoefficientsRoundTrip(t *testing.T) {
	tf := Transform{
		0, -1, 0, 5,
		1, 0, 0, 5,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	coeffs := tf.Coefficients()
	if len(coeffs) != 16 {
		t.Fatalf("expected 16 coefficients, got %d", len(coeffs))
	}
	back, ok := TransformFromCoefficients(coeffs)
	if !ok {
		t.Fatal("round trip should succeed")
	}
	if back != tf {
		t.Errorf("round trip mismatch: %v != %v", back, tf)
	}
}

func TestTransformFromCoefficientsRejectsMalformed(t *testing.T) {
	cases := []struct {
		name   string
		coeffs []float64
	}{
		{"nil", nil},
		{"short", make([]float64, 15)},
		{"long", make([]float64, 17)},
		{"nan", append(make([]float64, 15), math.NaN())},
		{"inf", append(make([]float64, 15), math.Inf(1))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := TransformFromCoefficients(tc.coeffs); ok {
				t.Errorf("expected rejection of %s coefficients", tc.name)
			}
		})
	}
}
