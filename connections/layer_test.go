package connections

import (
	"math"
	"testing"

	"careermatrix/core"
	"careermatrix/errs"
	"careermatrix/geometry"
	"careermatrix/matrix"
)

func scenarioAxes() matrix.Axes {
	return matrix.Axes{
		Positions: []string{"Engineer I", "Engineer II"},
		Levels:    []string{"L1", "L2", "L3"},
	}
}

func scenarioLookup() geometry.MapLookup {
	return geometry.MapLookup{
		{Row: 0, Col: 0}: {X: 0, Y: 0, W: 100, H: 50},
		{Row: 1, Col: 2}: {X: 200, Y: 50, W: 100, H: 50},
	}
}

func TestScenarioArrowPath(t *testing.T) {
	l := NewLayer(scenarioAxes())
	if err := l.BeginArrow(0, 0); err != nil {
		t.Fatal(err)
	}
	id, err := l.CompleteArrow(1, 2, "#1769FE")
	if err != nil {
		t.Fatal(err)
	}

	arrows := l.Arrows()
	if len(arrows) != 1 {
		t.Fatalf("expected 1 arrow, got %d", len(arrows))
	}
	a := arrows[0]
	if a.ID != id || a.From != (core.Coord{Row: 0, Col: 0}) || a.To != (core.Coord{Row: 1, Col: 2}) || a.Color != "#1769FE" {
		t.Errorf("unexpected arrow %+v", a)
	}

	paths := l.ResolvePaths(scenarioLookup())
	if len(paths) != 1 {
		t.Fatalf("expected 1 path, got %d", len(paths))
	}
	p := paths[0]
	if p.Start != (core.Point{X: 50, Y: 25}) {
		t.Errorf("start = %+v, want (50,25)", p.Start)
	}

	center := core.Point{X: 250, Y: 75}
	if d := geometry.Distance(p.End, center); math.Abs(d-ArrowHeadLength) > 1e-9 {
		t.Errorf("end is %.4f from the destination center, want %v", d, ArrowHeadLength)
	}
	// The end lies on the segment toward the destination.
	v1 := center.Sub(p.Start)
	v2 := p.End.Sub(p.Start)
	if cross := v1.X*v2.Y - v1.Y*v2.X; math.Abs(cross) > 1e-6 {
		t.Errorf("end %+v is off the source->destination line", p.End)
	}
	if p.End.X >= center.X || p.End.Y >= center.Y {
		t.Errorf("end %+v not pulled back toward the source", p.End)
	}

	if p.Axis != core.Horizontal {
		t.Errorf("axis = %v, want Horizontal", p.Axis)
	}
	midX := p.Start.X + (p.End.X-p.Start.X)/2
	if p.Controls[0] != (core.Point{X: midX, Y: p.Start.Y}) || p.Controls[1] != (core.Point{X: midX, Y: p.End.Y}) {
		t.Errorf("unexpected controls %+v", p.Controls)
	}
}

func TestVerticalControlPoints(t *testing.T) {
	arrows := []matrix.Arrow{{ID: "v", From: core.Coord{Row: 0, Col: 0}, To: core.Coord{Row: 3, Col: 0}}}
	lookup := geometry.MapLookup{
		{Row: 0, Col: 0}: {X: 0, Y: 0, W: 20, H: 20},
		{Row: 3, Col: 0}: {X: 10, Y: 200, W: 20, H: 20},
	}
	paths := ResolvePaths(arrows, lookup, ArrowHeadLength)
	if len(paths) != 1 {
		t.Fatalf("expected 1 path, got %d", len(paths))
	}
	p := paths[0]
	if p.Axis != core.Vertical {
		t.Fatalf("axis = %v, want Vertical", p.Axis)
	}
	midY := p.Start.Y + (p.End.Y-p.Start.Y)/2
	if p.Controls[0] != (core.Point{X: p.Start.X, Y: midY}) || p.Controls[1] != (core.Point{X: p.End.X, Y: midY}) {
		t.Errorf("unexpected controls %+v", p.Controls)
	}
}

func TestResolvePathsSkipsUnmeasured(t *testing.T) {
	l := NewLayer(scenarioAxes())
	_ = l.BeginArrow(0, 0)
	_, _ = l.CompleteArrow(1, 2, "")
	_ = l.BeginArrow(0, 1)
	_, _ = l.CompleteArrow(1, 1, "")

	// Only (0,0) and (1,2) are measured.
	paths := l.ResolvePaths(scenarioLookup())
	if len(paths) != 1 {
		t.Fatalf("expected 1 resolvable path, got %d", len(paths))
	}
	if paths[0].Arrow.From != (core.Coord{Row: 0, Col: 0}) {
		t.Errorf("wrong arrow resolved: %+v", paths[0].Arrow)
	}

	if got := l.ResolvePaths(geometry.MapLookup{}); len(got) != 0 {
		t.Errorf("empty lookup should yield no paths, got %d", len(got))
	}
	if got := l.ResolvePaths(nil); len(got) != 0 {
		t.Errorf("nil lookup should yield no paths, got %d", len(got))
	}
}

func TestCompleteWithoutBegin(t *testing.T) {
	l := NewLayer(scenarioAxes())
	id, err := l.CompleteArrow(1, 1, "#000000")
	if !errs.Is(err, errs.KindInvalidState) {
		t.Errorf("expected InvalidState, got %v", err)
	}
	if id != "" || l.Count() != 0 {
		t.Errorf("no arrow should be created, id=%q count=%d", id, l.Count())
	}
}

func TestBeginArrowIsIdempotent(t *testing.T) {
	l := NewLayer(scenarioAxes())
	_ = l.BeginArrow(0, 0)
	_ = l.BeginArrow(1, 1)
	src, ok := l.Pending()
	if !ok || src != (core.Coord{Row: 0, Col: 0}) {
		t.Errorf("pending = %v ok=%v, want first source kept", src, ok)
	}
	l.CancelArrow()
	if _, ok := l.Pending(); ok {
		t.Error("cancel should clear the pending source")
	}
}

func TestSelfLoopRejected(t *testing.T) {
	l := NewLayer(scenarioAxes())
	_ = l.BeginArrow(1, 1)
	_, err := l.CompleteArrow(1, 1, "")
	if !errs.Is(err, errs.KindInvalid) {
		t.Errorf("expected Invalid, got %v", err)
	}
	if _, ok := l.Pending(); !ok {
		t.Error("rejected completion should keep the source pending")
	}
}

func TestSelfLoopFromStorageRendersAsLoop(t *testing.T) {
	l := NewLayer(scenarioAxes())
	l.Restore([]matrix.Arrow{{ID: "loop", From: core.Coord{}, To: core.Coord{}}})
	paths := l.ResolvePaths(scenarioLookup())
	if len(paths) != 1 || !paths[0].Loop {
		t.Fatalf("expected one loop path, got %+v", paths)
	}
	if paths[0].Controls[0].Y >= 0 {
		t.Errorf("loop should rise above the cell, controls %+v", paths[0].Controls)
	}
}

func TestOutOfBounds(t *testing.T) {
	l := NewLayer(scenarioAxes())
	if err := l.BeginArrow(2, 0); !errs.Is(err, errs.KindOutOfBounds) {
		t.Errorf("BeginArrow: expected OutOfBounds, got %v", err)
	}
	_ = l.BeginArrow(0, 0)
	if _, err := l.CompleteArrow(0, 3, ""); !errs.Is(err, errs.KindOutOfBounds) {
		t.Errorf("CompleteArrow: expected OutOfBounds, got %v", err)
	}
}

func TestArrowMutations(t *testing.T) {
	l := NewLayer(scenarioAxes())
	_ = l.BeginArrow(0, 0)
	id, _ := l.CompleteArrow(0, 2, "#123")

	if a, _ := l.Get(id); a.Color != "#112233" {
		t.Errorf("color not normalized: %q", a.Color)
	}
	if err := l.SetArrowLabel(id, "promotion"); err != nil {
		t.Fatal(err)
	}
	if err := l.SetArrowColor(id, "#ff0000"); err != nil {
		t.Fatal(err)
	}
	a, _ := l.Get(id)
	if a.Label != "promotion" || a.Color != "#FF0000" {
		t.Errorf("unexpected arrow %+v", a)
	}
	if len(l.ArrowsAt(0, 2)) != 1 || len(l.ArrowsAt(1, 1)) != 0 {
		t.Error("ArrowsAt mismatch")
	}

	tests := []struct {
		name string
		fn   func() error
	}{
		{"delete", func() error { return l.DeleteArrow("missing") }},
		{"label", func() error { return l.SetArrowLabel("missing", "x") }},
		{"color", func() error { return l.SetArrowColor("missing", "#000") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errs.Is(err, errs.KindNotFound) {
				t.Errorf("expected NotFound, got %v", err)
			}
		})
	}

	if err := l.DeleteArrow(id); err != nil {
		t.Fatal(err)
	}
	if l.Count() != 0 {
		t.Errorf("expected no arrows, got %d", l.Count())
	}
}

func TestPathSample(t *testing.T) {
	paths := ResolvePaths([]matrix.Arrow{{ID: "a", From: core.Coord{Row: 0, Col: 0}, To: core.Coord{Row: 1, Col: 2}}}, scenarioLookup(), 1)
	pts := paths[0].Sample(8)
	if len(pts) != 9 || pts[0] != paths[0].Start || pts[8] != paths[0].End {
		t.Errorf("sample endpoints do not match path: %+v", pts)
	}
}
