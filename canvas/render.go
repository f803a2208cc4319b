package canvas

import (
	"math"

	"careermatrix/connections"
	"careermatrix/core"
	"careermatrix/matrix"

	"github.com/mattn/go-runewidth"
)

// Scene is everything drawn for one frame of the matrix.
type Scene struct {
	Axes          matrix.Axes
	Cells         map[core.Coord]matrix.Cell
	Paths         []connections.Path
	CornerLabel   string
	Cursor        *core.Coord
	Pending       *core.Coord
	Editing       *core.Coord
	EditText      string
	EditCursor    int
	SelectedArrow string
	Plain         bool // Skip colors, e.g. for text export
}

// Theme colors used for table chrome.
const (
	HeaderFG      = "#FFFFFF"
	HeaderBG      = "#3B82F6"
	LabelBG       = "#DBEAFE"
	CursorColor   = "#FACC15"
	PendingColor  = "#E53935"
	EditingBG     = "#FEF9C3"
	arrowBodyRune = '·'
)

// Render draws the scene into a new canvas sized to the table. It also
// returns where the text cursor belongs when a cell is being edited.
func Render(t *Table, s Scene) (*MatrixCanvas, *core.Pos) {
	c, err := NewMatrixCanvas(max(1, t.Width), max(1, t.Height))
	if err != nil {
		return nil, nil
	}
	color := func(hex string) string {
		if s.Plain {
			return ""
		}
		return hex
	}

	drawGrid(c, t)

	// Header row and row labels.
	c.Fill(1, t.HeaderY, t.Width-2, 1, color(HeaderBG))
	c.DrawText(1, t.HeaderY, CenterText(s.CornerLabel, t.LabelWidth), color(HeaderFG), color(HeaderBG))
	for col, level := range s.Axes.Levels {
		c.DrawText(t.ColX[col], t.HeaderY, CenterText(level, t.ColW[col]), color(HeaderFG), color(HeaderBG))
	}
	for row, pos := range s.Axes.Positions {
		c.Fill(1, t.RowY[row], t.LabelWidth, t.RowHeight, color(LabelBG))
		c.DrawText(2, t.textLine(row), FitText(pos, t.LabelWidth-2), color(matrix.DefaultTextColor), color(LabelBG))
	}

	// Cell backgrounds before arrows so arrows stay visible on colored cells.
	for coord, cell := range s.Cells {
		if rect, ok := t.Rect(coord.Row, coord.Col); ok {
			c.Fill(int(rect.X), int(rect.Y), int(rect.W), int(rect.H), color(cell.Background))
		}
	}
	if s.Editing != nil {
		if rect, ok := t.Rect(s.Editing.Row, s.Editing.Col); ok {
			c.Fill(int(rect.X), int(rect.Y), int(rect.W), int(rect.H), color(EditingBG))
		}
	}

	for _, p := range s.Paths {
		drawPath(c, p, color(p.Arrow.Color), p.Arrow.ID == s.SelectedArrow)
	}

	// Cell text on top.
	for coord, cell := range s.Cells {
		if s.Editing != nil && *s.Editing == coord {
			continue
		}
		rect, ok := t.Rect(coord.Row, coord.Col)
		if !ok || cell.Text == "" {
			continue
		}
		text := FitText(cell.Text, int(rect.W)-2)
		x := int(rect.X) + (int(rect.W)-runewidth.StringWidth(text))/2
		c.DrawText(x, t.textLine(coord.Row), text, color(cell.Color), color(cell.Background))
	}

	var cursor *core.Pos
	if s.Editing != nil {
		cursor = drawEditor(c, t, s, color)
	}

	if s.Pending != nil {
		outline(c, t, *s.Pending, color(PendingColor))
	}
	if s.Cursor != nil {
		outline(c, t, *s.Cursor, color(CursorColor))
	}
	return c, cursor
}

// drawGrid draws the table borders. Line crossings are merged into
// junctions, and junctions on the outer edge lose the arm pointing outside.
func drawGrid(c *MatrixCanvas, t *Table) {
	right := t.Width - 1
	bottom := t.Height - 1

	c.DrawHorizontalLine(0, 0, right)
	c.DrawHorizontalLine(0, t.HeaderY+1, right)
	for _, y := range t.RowY {
		c.DrawHorizontalLine(0, y+t.RowHeight, right)
	}

	c.DrawVerticalLine(0, 0, bottom)
	c.DrawVerticalLine(t.LabelWidth+1, 0, bottom)
	for col := range t.ColX {
		c.DrawVerticalLine(t.ColX[col]+t.ColW[col], 0, bottom)
	}

	for y := 0; y <= bottom; y++ {
		for x := 0; x <= right; x++ {
			g := &c.grid[y][x]
			mask, ok := runeToMask[g.Rune]
			if !ok {
				continue
			}
			if y == 0 {
				mask &^= north
			}
			if y == bottom {
				mask &^= south
			}
			if x == 0 {
				mask &^= west
			}
			if x == right {
				mask &^= east
			}
			if r, ok := maskToRune[mask]; ok {
				g.Rune = r
			}
		}
	}
}

func drawPath(c *MatrixCanvas, p connections.Path, fg string, selected bool) {
	body := arrowBodyRune
	if selected {
		body = '•'
	}
	length := p.End.Sub(p.Start).Len() + p.Controls[0].Sub(p.Start).Len()
	steps := max(8, int(math.Ceil(length)))
	pts := p.Sample(steps)

	prev := pts[0].Round()
	for _, pt := range pts[1:] {
		cur := pt.Round()
		if cur != prev {
			c.DrawLine(prev, cur, body, fg)
			prev = cur
		}
	}
	c.Put(p.End.Round(), Glyph{Rune: headRune(p), FG: fg, BG: c.Get(p.End.Round()).BG, Bold: true})
}

// headRune picks the arrow head pointing along the curve's final tangent.
func headRune(p connections.Path) rune {
	d := p.Curve().Tangent(1)
	if d.X == 0 && d.Y == 0 {
		d = p.End.Sub(p.Start)
	}
	if math.Abs(d.X) >= math.Abs(d.Y) {
		if d.X < 0 {
			return '◀'
		}
		return '▶'
	}
	if d.Y < 0 {
		return '▲'
	}
	return '▼'
}

func drawEditor(c *MatrixCanvas, t *Table, s Scene, color func(string) string) *core.Pos {
	rect, ok := t.Rect(s.Editing.Row, s.Editing.Col)
	if !ok {
		return nil
	}
	x := int(rect.X) + 1
	y := t.textLine(s.Editing.Row)
	avail := int(rect.W) - 2

	runes := []rune(s.EditText)
	cursor := max(0, min(len(runes), s.EditCursor))
	// Scroll so the cursor stays visible.
	start := 0
	for runewidth.StringWidth(string(runes[start:cursor])) >= avail && start < cursor {
		start++
	}
	visible := FitText(string(runes[start:]), avail)
	c.DrawText(x, y, visible, color(matrix.DefaultTextColor), color(EditingBG))
	return &core.Pos{X: x + runewidth.StringWidth(string(runes[start:cursor])), Y: y}
}

// outline recolors the border around a cell.
func outline(c *MatrixCanvas, t *Table, coord core.Coord, fg string) {
	rect, ok := t.Rect(coord.Row, coord.Col)
	if !ok {
		return
	}
	x0, y0 := int(rect.X)-1, int(rect.Y)-1
	x1, y1 := int(rect.X+rect.W), int(rect.Y+rect.H)
	for x := x0; x <= x1; x++ {
		for _, y := range []int{y0, y1} {
			p := core.Pos{X: x, Y: y}
			g := c.Get(p)
			g.FG, g.Bold = fg, true
			c.Put(p, g)
		}
	}
	for y := y0; y <= y1; y++ {
		for _, x := range []int{x0, x1} {
			p := core.Pos{X: x, Y: y}
			g := c.Get(p)
			g.FG, g.Bold = fg, true
			c.Put(p, g)
		}
	}
}
