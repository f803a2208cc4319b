package geometry

import (
	"math"

	"careermatrix/core"
)

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// DominantAxis returns the axis along which the displacement (dx, dy) is
// larger. Equal displacements count as horizontal.
func DominantAxis(dx, dy float64) core.Axis {
	if math.Abs(dy) > math.Abs(dx) {
		return core.Vertical
	}
	return core.Horizontal
}

// PullBack returns the point at distance d before end on the segment
// start->end. d is clamped to half the segment length so the result never
// crosses the midpoint. A zero-length segment returns end unchanged.
func PullBack(start, end core.Point, d float64) core.Point {
	v := end.Sub(start)
	length := v.Len()
	if length == 0 || d <= 0 {
		return end
	}
	if d > length/2 {
		d = length / 2
	}
	return end.Sub(v.Scale(d / length))
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b core.Point) float64 {
	return b.Sub(a).Len()
}
