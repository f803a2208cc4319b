package geometry

import (
	"math"
	"sync/atomic"
	"testing"
	"time"

	"careermatrix/core"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDominantAxis(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
		want   core.Axis
	}{
		{"wide", 200, 50, core.Horizontal},
		{"tall", 10, -80, core.Vertical},
		{"tie", 30, 30, core.Horizontal},
		{"zero", 0, 0, core.Horizontal},
		{"negative wide", -100, 20, core.Horizontal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DominantAxis(tt.dx, tt.dy); got != tt.want {
				t.Errorf("DominantAxis(%v,%v) = %v, want %v", tt.dx, tt.dy, got, tt.want)
			}
		})
	}
}

func TestPullBack(t *testing.T) {
	start := core.Point{X: 0, Y: 0}
	end := core.Point{X: 100, Y: 0}

	got := PullBack(start, end, 10)
	if !near(got.X, 90) || !near(got.Y, 0) {
		t.Errorf("PullBack = %+v, want (90,0)", got)
	}

	// Clamped to half the segment.
	got = PullBack(start, core.Point{X: 8, Y: 0}, 10)
	if !near(got.X, 4) {
		t.Errorf("short segment PullBack = %+v, want (4,0)", got)
	}

	// Zero-length segment is left alone.
	if got := PullBack(end, end, 10); got != end {
		t.Errorf("zero segment PullBack = %+v", got)
	}
}

func TestCubicEndpoints(t *testing.T) {
	c := Cubic{
		P0: core.Point{X: 0, Y: 0},
		P1: core.Point{X: 50, Y: 0},
		P2: core.Point{X: 50, Y: 100},
		P3: core.Point{X: 100, Y: 100},
	}
	if got := c.At(0); got != c.P0 {
		t.Errorf("At(0) = %+v", got)
	}
	if got := c.At(1); got != c.P3 {
		t.Errorf("At(1) = %+v", got)
	}
	mid := c.At(0.5)
	if !near(mid.X, 50) || !near(mid.Y, 50) {
		t.Errorf("At(0.5) = %+v, want (50,50)", mid)
	}

	pts := c.Sample(4)
	if len(pts) != 5 {
		t.Fatalf("Sample(4) returned %d points", len(pts))
	}
	if pts[0] != c.P0 || pts[4] != c.P3 {
		t.Error("sample must include both endpoints")
	}
	if len(c.Sample(0)) != 2 {
		t.Error("Sample(0) should behave like Sample(1)")
	}
}

func TestResolver(t *testing.T) {
	r := NewResolver()
	if _, ok := r.Position(0, 0); ok {
		t.Fatal("empty resolver should not resolve")
	}

	rects := map[core.Coord]core.Rect{
		{Row: 0, Col: 0}: {X: 0, Y: 0, W: 100, H: 50},
		{Row: 1, Col: 2}: {X: 200, Y: 50, W: 100, H: 50},
	}
	r.Update(rects)
	rects[core.Coord{Row: 0, Col: 0}] = core.Rect{X: 999}

	got, ok := r.Position(0, 0)
	if !ok || got.X != 0 {
		t.Errorf("Update must copy its input, got %+v ok=%v", got, ok)
	}
	if r.Len() != 2 || r.Generation() != 1 {
		t.Errorf("len=%d gen=%d", r.Len(), r.Generation())
	}

	r.Offset(-10, 5)
	got, _ = r.Position(1, 2)
	if got.X != 190 || got.Y != 55 {
		t.Errorf("offset not applied: %+v", got)
	}

	if raw, ok := r.Raw().Position(1, 2); !ok || raw.X != 200 || raw.Y != 50 {
		t.Errorf("Raw should ignore the offset, got %+v ok=%v", raw, ok)
	}

	c, ok := r.CellAt(core.Point{X: 195, Y: 60})
	if !ok || c != (core.Coord{Row: 1, Col: 2}) {
		t.Errorf("CellAt = %v ok=%v", c, ok)
	}
	if _, ok := r.CellAt(core.Point{X: 150, Y: 10}); ok {
		t.Error("point between cells should not hit")
	}
}

func TestMapLookup(t *testing.T) {
	var l Lookup = MapLookup{{Row: 1, Col: 1}: {W: 3, H: 3}}
	if _, ok := l.Position(1, 1); !ok {
		t.Error("expected hit")
	}
	if _, ok := l.Position(0, 1); ok {
		t.Error("expected miss")
	}
}

func TestDebouncerCoalesces(t *testing.T) {
	var calls atomic.Int32
	done := make(chan struct{}, 10)
	d := NewDebouncer(50*time.Millisecond, func() {
		calls.Add(1)
		done <- struct{}{}
	})

	for i := 0; i < 10; i++ {
		d.Trigger()
		time.Sleep(2 * time.Millisecond)
	}
	if !d.Pending() {
		t.Error("expected a pending call")
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced call never fired")
	}
	time.Sleep(120 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 call, got %d", got)
	}
	if d.Pending() {
		t.Error("nothing should be pending after firing")
	}
}

func TestDebouncerStop(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(10*time.Millisecond, func() { calls.Add(1) })
	d.Trigger()
	d.Stop()
	time.Sleep(40 * time.Millisecond)
	if calls.Load() != 0 {
		t.Error("stopped debouncer fired")
	}
}
