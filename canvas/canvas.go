// Package canvas lays the career matrix out as a character table and draws
// it, cells and arrows included, onto a styled rune grid. The terminal and
// the ASCII exporter both render from this grid.
package canvas

import "careermatrix/core"

// Glyph is one character cell of the canvas.
type Glyph struct {
	Rune rune
	FG   string // Hex color, "" for terminal default
	BG   string // Hex color, "" for terminal default
	Bold bool
}

func blank() Glyph {
	return Glyph{Rune: ' '}
}

func inside(p core.Pos, w, h int) bool {
	return p.X >= 0 && p.X < w && p.Y >= 0 && p.Y < h
}
