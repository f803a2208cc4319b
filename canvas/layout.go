package canvas

import (
	"careermatrix/core"
	"careermatrix/matrix"

	"github.com/mattn/go-runewidth"
)

// LayoutOptions bounds the size of table columns and rows.
type LayoutOptions struct {
	MinColWidth   int
	MaxColWidth   int
	MaxLabelWidth int
	RowHeight     int // Interior lines per matrix row
}

// DefaultLayoutOptions returns the sizes used by the terminal editor.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		MinColWidth:   6,
		MaxColWidth:   18,
		MaxLabelWidth: 28,
		RowHeight:     3,
	}
}

// Table is the measured layout of a matrix. All positions are in character
// cells relative to the top-left corner of the table.
type Table struct {
	Rows, Cols int
	LabelWidth int
	ColX       []int // Interior start column of each level column
	ColW       []int // Interior width of each level column
	RowY       []int // Interior start line of each position row
	RowHeight  int
	HeaderY    int
	Width      int
	Height     int
}

// Layout measures the table for the given axes and cell contents. Column
// widths follow the widest text in the column, within the option bounds.
func Layout(axes matrix.Axes, cells map[core.Coord]matrix.Cell, opts LayoutOptions) *Table {
	if opts.RowHeight <= 0 {
		opts.RowHeight = 1
	}
	if opts.MinColWidth <= 0 {
		opts.MinColWidth = 1
	}
	if opts.MaxColWidth < opts.MinColWidth {
		opts.MaxColWidth = opts.MinColWidth
	}

	t := &Table{
		Rows:      axes.Rows(),
		Cols:      axes.Cols(),
		RowHeight: opts.RowHeight,
		HeaderY:   1,
	}

	label := 0
	for _, p := range axes.Positions {
		label = max(label, runewidth.StringWidth(p))
	}
	if opts.MaxLabelWidth > 0 {
		label = min(label, opts.MaxLabelWidth)
	}
	t.LabelWidth = label + 2

	widths := make([]int, t.Cols)
	for c, l := range axes.Levels {
		widths[c] = runewidth.StringWidth(l)
	}
	for coord, cell := range cells {
		if coord.Col >= 0 && coord.Col < t.Cols && coord.Row >= 0 && coord.Row < t.Rows {
			widths[coord.Col] = max(widths[coord.Col], runewidth.StringWidth(cell.Text))
		}
	}

	x := 1 + t.LabelWidth + 1
	t.ColX = make([]int, t.Cols)
	t.ColW = make([]int, t.Cols)
	for c := range widths {
		w := max(opts.MinColWidth, min(opts.MaxColWidth, widths[c]+2))
		t.ColX[c] = x
		t.ColW[c] = w
		x += w + 1
	}
	t.Width = x

	y := t.HeaderY + 2
	t.RowY = make([]int, t.Rows)
	for r := range t.RowY {
		t.RowY[r] = y
		y += t.RowHeight + 1
	}
	t.Height = y
	return t
}

// Rect returns the interior rectangle of a cell.
func (t *Table) Rect(row, col int) (core.Rect, bool) {
	if row < 0 || row >= t.Rows || col < 0 || col >= t.Cols {
		return core.Rect{}, false
	}
	return core.Rect{
		X: float64(t.ColX[col]),
		Y: float64(t.RowY[row]),
		W: float64(t.ColW[col]),
		H: float64(t.RowHeight),
	}, true
}

// Rects returns the interior rectangle of every cell, ready for
// geometry.Resolver.Update.
func (t *Table) Rects() map[core.Coord]core.Rect {
	out := make(map[core.Coord]core.Rect, t.Rows*t.Cols)
	for r := 0; r < t.Rows; r++ {
		for c := 0; c < t.Cols; c++ {
			rect, _ := t.Rect(r, c)
			out[core.Coord{Row: r, Col: c}] = rect
		}
	}
	return out
}

// textLine returns the line on which a row's text is written.
func (t *Table) textLine(row int) int {
	return t.RowY[row] + t.RowHeight/2
}
