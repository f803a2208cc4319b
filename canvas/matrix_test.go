package canvas

import (
	"strings"
	"testing"

	"careermatrix/connections"
	"careermatrix/core"
	"careermatrix/geometry"
	"careermatrix/matrix"
)

func TestNewMatrixCanvas(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		wantErr bool
	}{
		{"Small", 10, 5, false},
		{"Wide", 100, 10, false},
		{"Zero width", 0, 5, true},
		{"Negative height", 5, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewMatrixCanvas(tt.w, tt.h)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			w, h := c.Size()
			if w != tt.w || h != tt.h {
				t.Errorf("Size() = (%d, %d), want (%d, %d)", w, h, tt.w, tt.h)
			}
			if c.Get(core.Pos{X: 0, Y: 0}).Rune != ' ' {
				t.Error("new canvas should be blank")
			}
		})
	}
}

func TestSetOutOfBounds(t *testing.T) {
	c, _ := NewMatrixCanvas(3, 3)
	if err := c.Set(core.Pos{X: 3, Y: 0}, 'x'); err != ErrOutOfBounds {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
	if g := c.Get(core.Pos{X: -1, Y: 0}); g.Rune != ' ' {
		t.Errorf("Get outside = %q", g.Rune)
	}
}

func TestLinesMergeIntoJunctions(t *testing.T) {
	c, _ := NewMatrixCanvas(5, 5)
	c.DrawHorizontalLine(0, 2, 4)
	c.DrawVerticalLine(2, 0, 4)
	if got := c.Get(core.Pos{X: 2, Y: 2}).Rune; got != '┼' {
		t.Errorf("crossing = %q, want ┼", got)
	}
}

func TestMergerKeepsArrowHeads(t *testing.T) {
	m := NewCharacterMerger()
	tests := []struct {
		existing, next, want rune
	}{
		{' ', '─', '─'},
		{'─', '│', '┼'},
		{'┌', '┘', '┼'},
		{'├', '─', '┼'},
		{'▶', '·', '▶'},
		{'─', '·', '·'},
	}
	for _, tt := range tests {
		if got := m.Merge(tt.existing, tt.next); got != tt.want {
			t.Errorf("Merge(%q, %q) = %q, want %q", tt.existing, tt.next, got, tt.want)
		}
	}
}

func TestDrawTextWide(t *testing.T) {
	c, _ := NewMatrixCanvas(5, 1)
	n := c.DrawText(0, 0, "中文字", "", "")
	if n != 4 {
		t.Errorf("DrawText used %d columns, want 4", n)
	}
	if got := c.String(); got != "中文" {
		t.Errorf("String() = %q", got)
	}
}

func TestDrawLine(t *testing.T) {
	c, _ := NewMatrixCanvas(5, 5)
	c.DrawLine(core.Pos{X: 0, Y: 0}, core.Pos{X: 4, Y: 4}, '*', "#FF0000")
	for i := 0; i < 5; i++ {
		g := c.Get(core.Pos{X: i, Y: i})
		if g.Rune != '*' || g.FG != "#FF0000" {
			t.Errorf("diagonal point %d = %+v", i, g)
		}
	}
}

func scenarioAxes() matrix.Axes {
	return matrix.Axes{
		Positions: []string{"Engineer I", "Engineer II"},
		Levels:    []string{"L1", "L2", "L3"},
	}
}

func TestLayoutRects(t *testing.T) {
	cells := map[core.Coord]matrix.Cell{
		{Row: 0, Col: 1}: {Text: "a much longer cell text"},
	}
	opts := DefaultLayoutOptions()
	tbl := Layout(scenarioAxes(), cells, opts)

	if tbl.LabelWidth != len("Engineer II")+2 {
		t.Errorf("LabelWidth = %d", tbl.LabelWidth)
	}
	if tbl.ColW[0] != opts.MinColWidth {
		t.Errorf("narrow column width = %d, want %d", tbl.ColW[0], opts.MinColWidth)
	}
	if tbl.ColW[1] != opts.MaxColWidth {
		t.Errorf("wide column width = %d, want %d", tbl.ColW[1], opts.MaxColWidth)
	}

	rects := tbl.Rects()
	if len(rects) != 6 {
		t.Fatalf("expected 6 rects, got %d", len(rects))
	}
	r00 := rects[core.Coord{Row: 0, Col: 0}]
	r01 := rects[core.Coord{Row: 0, Col: 1}]
	r10 := rects[core.Coord{Row: 1, Col: 0}]
	if r01.X != r00.X+r00.W+1 {
		t.Errorf("columns not adjacent: %+v %+v", r00, r01)
	}
	if r10.Y != r00.Y+r00.H+1 {
		t.Errorf("rows not adjacent: %+v %+v", r00, r10)
	}
	if int(r01.X+r01.W) >= tbl.Width || int(r10.Y+r10.H) >= tbl.Height {
		t.Error("cells overflow the table")
	}
	if _, ok := tbl.Rect(2, 0); ok {
		t.Error("row outside axes should not have a rect")
	}
}

func TestRenderTable(t *testing.T) {
	axes := scenarioAxes()
	cells := map[core.Coord]matrix.Cell{
		{Row: 0, Col: 0}: {Text: "A", Color: "#000000", Background: "#FFFFFF"},
		{Row: 0, Col: 2}: {Text: "B", Color: "#000000", Background: "#DCFCE7"},
	}
	tbl := Layout(axes, cells, DefaultLayoutOptions())
	arrows := []matrix.Arrow{{ID: "a1", From: core.Coord{Row: 0, Col: 0}, To: core.Coord{Row: 1, Col: 2}, Color: "#1769FE"}}
	paths := connections.ResolvePaths(arrows, geometry.LookupFunc(tbl.Rect), 1)

	c, cursor := Render(tbl, Scene{Axes: axes, Cells: cells, Paths: paths, CornerLabel: "Vị trí", Plain: true})
	if cursor != nil {
		t.Error("no cursor expected without an open editor")
	}
	out := c.String()
	for _, want := range []string{"Engineer I", "Engineer II", "L1", "L3", "A", "B", "Vị trí", "┌", "┘", "┼"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
	if !strings.ContainsAny(out, "▶▼") {
		t.Errorf("arrow head missing:\n%s", out)
	}

	lines := strings.Split(out, "\n")
	if len(lines) != tbl.Height {
		t.Errorf("rendered %d lines, table height %d", len(lines), tbl.Height)
	}
	if !strings.HasPrefix(lines[0], "┌") || !strings.HasPrefix(lines[len(lines)-1], "└") {
		t.Errorf("outer corners wrong:\n%s", out)
	}
}

func TestRenderEditorCursor(t *testing.T) {
	axes := scenarioAxes()
	tbl := Layout(axes, nil, DefaultLayoutOptions())
	editing := core.Coord{Row: 1, Col: 1}

	c, cursor := Render(tbl, Scene{Axes: axes, Editing: &editing, EditText: "abc", EditCursor: 2})
	if cursor == nil {
		t.Fatal("expected a text cursor position")
	}
	rect, _ := tbl.Rect(1, 1)
	if cursor.X != int(rect.X)+1+2 {
		t.Errorf("cursor x = %d, want %d", cursor.X, int(rect.X)+3)
	}
	if got := c.Get(core.Pos{X: int(rect.X) + 1, Y: cursor.Y}); got.Rune != 'a' || got.BG != EditingBG {
		t.Errorf("editor text glyph = %+v", got)
	}
}
