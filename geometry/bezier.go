package geometry

import "careermatrix/core"

// Cubic is a cubic Bezier curve.
type Cubic struct {
	P0, P1, P2, P3 core.Point
}

// At evaluates the curve at t in [0, 1].
func (c Cubic) At(t float64) core.Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	d := 3 * u * t * t
	e := t * t * t
	return core.Point{
		X: a*c.P0.X + b*c.P1.X + d*c.P2.X + e*c.P3.X,
		Y: a*c.P0.Y + b*c.P1.Y + d*c.P2.Y + e*c.P3.Y,
	}
}

// Sample returns n+1 evenly spaced points along the curve, including both
// endpoints. n < 1 is treated as 1.
func (c Cubic) Sample(n int) []core.Point {
	if n < 1 {
		n = 1
	}
	pts := make([]core.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, c.At(float64(i)/float64(n)))
	}
	return pts
}

// Tangent returns the derivative of the curve at t.
func (c Cubic) Tangent(t float64) core.Point {
	u := 1 - t
	d0 := c.P1.Sub(c.P0).Scale(3 * u * u)
	d1 := c.P2.Sub(c.P1).Scale(6 * u * t)
	d2 := c.P3.Sub(c.P2).Scale(3 * t * t)
	return d0.Add(d1).Add(d2)
}
