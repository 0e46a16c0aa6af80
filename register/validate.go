package register

// IsSampleGood reports whether a minimal sample of source indices is
// geometrically usable for fitting. Samples with coincident or nearly
// collinear points would make the closed-form solve rank-deficient and are
// rejected before a fit is attempted. Pure predicate; no side effects.
func (m *Model) IsSampleGood(sample []int) bool {
	if len(sample) < SampleSize {
		return false
	}
	for _, idx := range sample {
		if idx < 0 || idx >= len(m.source) {
			return false
		}
	}

	p0, p1, p2 := m.source[sample[0]], m.source[sample[1]], m.source[sample[2]]

	ax, ay, az := p1.X-p0.X, p1.Y-p0.Y, p1.Z-p0.Z
	bx, by, bz := p2.X-p0.X, p2.Y-p0.Y, p2.Z-p0.Z
	cx, cy, cz := p2.X-p1.X, p2.Y-p1.Y, p2.Z-p1.Z

	d01 := ax*ax + ay*ay + az*az
	d02 := bx*bx + by*by + bz*bz
	d12 := cx*cx + cy*cy + cz*cz

	// Coincident points: every pair must be separated by more than the
	// tolerance relative to the cloud's own spread.
	minSep := m.tolerance * m.sampleDistThresh
	if d01 <= minSep || d02 <= minSep || d12 <= minSep {
		return false
	}

	// Collinear points: the squared sine of the angle at p0 must exceed the
	// tolerance, i.e. the triangle must have non-vanishing area.
	crossX := ay*bz - az*by
	crossY := az*bx - ax*bz
	crossZ := ax*by - ay*bx
	crossSq := crossX*crossX + crossY*crossY + crossZ*crossZ
	return crossSq > m.tolerance*d01*d02
}
