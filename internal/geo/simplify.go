package geo

import "math"

// Simplify decimates a ring to a target density by fixed-stride
// sampling: step = max(1, floor(tolerance)), keeping every step-th point
// starting at index 0. The final point is always retained, even when it
// is off-stride, so closed rings keep their closure.
//
// Not Douglas-Peucker: the stride decimator is deterministic and
// allocation-light. High tolerances can drop visually significant
// vertices.
//
// Rings of two or fewer points are returned unchanged; any longer input
// yields at least two points, with the first point always retained.
func Simplify(ring []Coordinate, tolerance float64) []Coordinate {
	if len(ring) <= 2 {
		return ring
	}

	step := int(math.Floor(tolerance))
	if step < 1 {
		step = 1
	}

	out := make([]Coordinate, 0, len(ring)/step+2)
	for i := 0; i < len(ring); i += step {
		out = append(out, ring[i])
	}
	last := len(ring) - 1
	if (last % step) != 0 {
		out = append(out, ring[last])
	}
	return out
}
