package core

// radiusSafetyFactor widens each bounding circle during candidate
// filtering. 1.1 is an empirical margin for near-rectangular footprints;
// the exact resolver makes the final call, so the factor only needs to
// keep recall at 1 for realistic mosaics.
const radiusSafetyFactor = 1.1

// candidates narrows each query point to the detectors that could
// possibly contain it. A point outside the overall mosaic bound gets an
// empty list without touching any per-detector state. Otherwise every
// detector whose widened bounding circle covers the point is a candidate.
//
// Cost is O(M*N) with a small constant; the exact transforms applied later
// dominate, so keeping this pass branch-light is what matters.
func (idx *DetectorIndex) candidates(points []Vec2) [][]int {
	out := make([][]int, len(points))
	for i, p := range points {
		if !idx.bound.Contains(p.X, p.Y) {
			continue
		}
		var list []int
		for j := range idx.detectors {
			dx := p.X - idx.centerX[j]
			dy := p.Y - idx.centerY[j]
			lim := radiusSafetyFactor * idx.radius[j]
			if dx*dx+dy*dy < lim*lim {
				list = append(list, j)
			}
		}
		out[i] = list
	}
	return out
}
