package matrix

import (
	"careermatrix/core"
	"careermatrix/errs"
)

// Grid owns the sparse mapping from coordinate to cell content. Cells are
// only materialized once edited.
type Grid struct {
	axes  Axes
	cells map[core.Coord]Cell
}

// NewGrid creates an empty grid bounded by the given axes.
func NewGrid(axes Axes) *Grid {
	return &Grid{
		axes:  axes.Clone(),
		cells: make(map[core.Coord]Cell),
	}
}

// Axes returns the grid's axis labels.
func (g *Grid) Axes() Axes {
	return g.axes.Clone()
}

// InBounds reports whether (row, col) lies inside the axes.
func (g *Grid) InBounds(row, col int) bool {
	return g.axes.InBounds(row, col)
}

// GetCell returns the content at (row, col), or the default cell if it was
// never set. It never fails.
func (g *Grid) GetCell(row, col int) Cell {
	if c, ok := g.cells[core.Coord{Row: row, Col: col}]; ok {
		return c
	}
	return DefaultCell()
}

// SetCellText overwrites the text of a cell, keeping its colors.
func (g *Grid) SetCellText(row, col int, text string) error {
	const op errs.Op = "matrix.SetCellText"
	if !g.InBounds(row, col) {
		return errs.OutOfBounds(op, row, col)
	}
	c := g.GetCell(row, col)
	c.Text = text
	g.cells[core.Coord{Row: row, Col: col}] = c
	return nil
}

// SetCellColors updates the text and/or background color of a cell. A nil
// argument leaves that color unchanged.
func (g *Grid) SetCellColors(row, col int, textColor, background *string) error {
	const op errs.Op = "matrix.SetCellColors"
	if !g.InBounds(row, col) {
		return errs.OutOfBounds(op, row, col)
	}
	c := g.GetCell(row, col)
	if textColor != nil {
		norm, err := NormalizeColor(*textColor)
		if err != nil {
			return errs.E(op, errs.KindInvalid, err)
		}
		c.Color = norm
	}
	if background != nil {
		norm, err := NormalizeColor(*background)
		if err != nil {
			return errs.E(op, errs.KindInvalid, err)
		}
		c.Background = norm
	}
	g.cells[core.Coord{Row: row, Col: col}] = c
	return nil
}

// ClearCell resets a single cell to its default content.
func (g *Grid) ClearCell(row, col int) error {
	if !g.InBounds(row, col) {
		return errs.OutOfBounds("matrix.ClearCell", row, col)
	}
	delete(g.cells, core.Coord{Row: row, Col: col})
	return nil
}

// Clear empties all cells. The axes are kept.
func (g *Grid) Clear() {
	g.cells = make(map[core.Coord]Cell)
}

// Count returns the number of materialized cells.
func (g *Grid) Count() int {
	return len(g.cells)
}

// Cells returns a copy of the materialized cells.
func (g *Grid) Cells() map[core.Coord]Cell {
	out := make(map[core.Coord]Cell, len(g.cells))
	for k, v := range g.cells {
		out[k] = v
	}
	return out
}

// Restore replaces all cells, e.g. with the content of an undo snapshot.
// Cells outside the axes are kept so that nothing persisted is silently lost;
// validation reports them.
func (g *Grid) Restore(cells map[core.Coord]Cell) {
	g.cells = make(map[core.Coord]Cell, len(cells))
	for k, v := range cells {
		g.cells[k] = v
	}
}
