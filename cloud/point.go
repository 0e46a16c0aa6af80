// Package cloud provides point cloud primitives shared by the registration
// model: Cartesian points, 4x4 row-major transforms, and subset statistics.
package cloud

// Point represents a point in Cartesian world coordinates (site frame).
type Point struct {
	X, Y, Z   float64 // Position (meters)
	Intensity uint8   // Laser return intensity, zero when unknown
}

// Cloud is an ordered sequence of points. Model code holds Cloud values by
// reference (slice header) and never mutates the backing array.
type Cloud []Point

// AllIndices returns 0..len(c)-1, the identity index subset.
func (c Cloud) AllIndices() []int {
	indices := make([]int, len(c))
	for i := range indices {
		indices[i] = i
	}
	return indices
}

// Centroid computes the mean position of the points named by indices.
// Returns false when indices is empty or any index is out of range.
func (c Cloud) Centroid(indices []int) (x, y, z float64, ok bool) {
	if len(indices) == 0 {
		return 0, 0, 0, false
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(c) {
			return 0, 0, 0, false
		}
		p := c[idx]
		x += p.X
		y += p.Y
		z += p.Z
	}
	n := float64(len(indices))
	return x / n, y / n, z / n, true
}
