package connections

import (
	"careermatrix/core"
	"careermatrix/geometry"
	"careermatrix/matrix"
)

// ArrowHeadLength is how far, in pixels, the end of an arrow stops short of
// the destination center so the head does not cover the cell.
const ArrowHeadLength = 10.0

// Path is the resolved curve of one arrow.
type Path struct {
	Arrow    matrix.Arrow
	Start    core.Point
	End      core.Point
	Controls [2]core.Point
	Axis     core.Axis
	Loop     bool
}

// Curve returns the path as a cubic Bezier.
func (p Path) Curve() geometry.Cubic {
	return geometry.Cubic{P0: p.Start, P1: p.Controls[0], P2: p.Controls[1], P3: p.End}
}

// Sample returns n+1 points along the curve.
func (p Path) Sample(n int) []core.Point {
	return p.Curve().Sample(n)
}

// ResolvePaths is the pure form of Layer.ResolvePaths.
func ResolvePaths(arrows []matrix.Arrow, lookup geometry.Lookup, headLength float64) []Path {
	paths := make([]Path, 0, len(arrows))
	if lookup == nil {
		return paths
	}
	for _, a := range arrows {
		from, ok := lookup.Position(a.From.Row, a.From.Col)
		if !ok {
			continue
		}
		to, ok := lookup.Position(a.To.Row, a.To.Col)
		if !ok {
			continue
		}
		start := from.Center()
		center := to.Center()
		if a.IsSelfLoop() || start == center {
			paths = append(paths, loopPath(a, from))
			continue
		}
		paths = append(paths, curvePath(a, start, center, headLength))
	}
	return paths
}

func curvePath(a matrix.Arrow, start, center core.Point, headLength float64) Path {
	end := geometry.PullBack(start, center, headLength)
	dx := end.X - start.X
	dy := end.Y - start.Y

	p := Path{Arrow: a, Start: start, End: end}
	p.Axis = geometry.DominantAxis(center.X-start.X, center.Y-start.Y)
	if p.Axis == core.Horizontal {
		p.Controls[0] = core.Point{X: start.X + dx/2, Y: start.Y}
		p.Controls[1] = core.Point{X: start.X + dx/2, Y: end.Y}
	} else {
		p.Controls[0] = core.Point{X: start.X, Y: start.Y + dy/2}
		p.Controls[1] = core.Point{X: end.X, Y: start.Y + dy/2}
	}
	return p
}

// loopPath draws an arrow that leaves and re-enters the top edge of a cell.
func loopPath(a matrix.Arrow, r core.Rect) Path {
	c := r.Center()
	start := core.Point{X: c.X - r.W/4, Y: r.Y}
	end := core.Point{X: c.X + r.W/4, Y: r.Y}
	return Path{
		Arrow: a,
		Start: start,
		End:   end,
		Controls: [2]core.Point{
			{X: start.X, Y: r.Y - r.H},
			{X: end.X, Y: r.Y - r.H},
		},
		Axis: core.Horizontal,
		Loop: true,
	}
}
