package cloud

import "math"

// Transform is a 4x4 homogeneous transform in row-major order:
// [m00,m01,m02,m03, m10,m11,m12,m13, m20,m21,m22,m23, m30,m31,m32,m33].
// For the similarity transforms produced by the registration model the upper
// 3x3 block is s*R (uniform scale times rotation) and column 3 is the
// translation.
type Transform [16]float64

// Identity is the 4x4 identity transform.
var Identity = Transform{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// Apply applies the transform to the point (x, y, z).
func (t Transform) Apply(x, y, z float64) (wx, wy, wz float64) {
	wx = t[0]*x + t[1]*y + t[2]*z + t[3]
	wy = t[4]*x + t[5]*y + t[6]*z + t[7]
	wz = t[8]*x + t[9]*y + t[10]*z + t[11]
	return
}

// ApplyPoint transforms a point, carrying its non-geometric fields through.
func (t Transform) ApplyPoint(p Point) Point {
	x, y, z := t.Apply(p.X, p.Y, p.Z)
	return Point{X: x, Y: y, Z: z, Intensity: p.Intensity}
}

// Compose returns t * u, the transform that applies u first and then t.
func (t Transform) Compose(u Transform) Transform {
	var out Transform
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += t[row*4+k] * u[k*4+col]
			}
			out[row*4+col] = sum
		}
	}
	return out
}

// Translation returns the translation column of the transform.
func (t Transform) Translation() (x, y, z float64) {
	return t[3], t[7], t[11]
}

// Scale recovers the uniform scale factor from the upper 3x3 block as the
// cube root of its determinant. Valid only for similarity transforms with
// positive handedness.
func (t Transform) Scale() float64 {
	det := t[0]*(t[5]*t[10]-t[6]*t[9]) -
		t[1]*(t[4]*t[10]-t[6]*t[8]) +
		t[2]*(t[4]*t[9]-t[5]*t[8])
	return math.Cbrt(det)
}

// Coefficients returns the transform as a 16-entry coefficient vector, the
// form exchanged with the consensus driver.
func (t Transform) Coefficients() []float64 {
	coeffs := make([]float64, 16)
	copy(coeffs, t[:])
	return coeffs
}

// TransformFromCoefficients converts a coefficient vector back to a
// Transform. Returns false unless the vector has exactly 16 finite entries.
func TransformFromCoefficients(coeffs []float64) (Transform, bool) {
	var t Transform
	if len(coeffs) != 16 {
		return t, false
	}
	for i, v := range coeffs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return t, false
		}
		t[i] = v
	}
	return t, true
}
