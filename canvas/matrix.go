package canvas

import (
	"errors"
	"strings"

	"careermatrix/core"
	"careermatrix/geometry"

	"github.com/mattn/go-runewidth"
)

// Common errors
var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrInvalidSize = errors.New("invalid canvas size")
)

// MatrixCanvas is a fixed-size grid of styled runes.
//
// MatrixCanvas is NOT thread-safe; it is built and read on the UI goroutine.
//
// Coordinate System:
//   - Origin (0,0) is top-left
//   - X increases rightward, Y downward
//   - All coordinates are in character cells
//
// Wide characters occupy two cells; the second holds '\x00'.
type MatrixCanvas struct {
	grid   [][]Glyph
	width  int
	height int
	merger *CharacterMerger
}

// NewMatrixCanvas creates a blank canvas.
func NewMatrixCanvas(width, height int) (*MatrixCanvas, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	grid := make([][]Glyph, height)
	for y := range grid {
		grid[y] = make([]Glyph, width)
		for x := range grid[y] {
			grid[y][x] = blank()
		}
	}
	return &MatrixCanvas{
		grid:   grid,
		width:  width,
		height: height,
		merger: NewCharacterMerger(),
	}, nil
}

// Size returns the width and height of the canvas.
func (c *MatrixCanvas) Size() (width, height int) {
	return c.width, c.height
}

// Get returns the glyph at p, or a blank outside the canvas.
func (c *MatrixCanvas) Get(p core.Pos) Glyph {
	if !inside(p, c.width, c.height) {
		return blank()
	}
	return c.grid[p.Y][p.X]
}

// Row returns the glyphs of line y. The slice must not be modified.
func (c *MatrixCanvas) Row(y int) []Glyph {
	if y < 0 || y >= c.height {
		return nil
	}
	return c.grid[y]
}

// Set merges r into the canvas at p, keeping the existing colors.
func (c *MatrixCanvas) Set(p core.Pos, r rune) error {
	if !inside(p, c.width, c.height) {
		return ErrOutOfBounds
	}
	g := &c.grid[p.Y][p.X]
	g.Rune = c.merger.Merge(g.Rune, r)
	return nil
}

// SetFG merges r at p and sets its foreground color.
func (c *MatrixCanvas) SetFG(p core.Pos, r rune, fg string) error {
	if err := c.Set(p, r); err != nil {
		return err
	}
	c.grid[p.Y][p.X].FG = fg
	return nil
}

// Put overwrites the glyph at p. Out-of-bounds writes are dropped.
func (c *MatrixCanvas) Put(p core.Pos, g Glyph) {
	if inside(p, c.width, c.height) {
		c.grid[p.Y][p.X] = g
	}
}

// Fill paints the background of a rectangle, keeping the runes.
func (c *MatrixCanvas) Fill(x, y, w, h int, bg string) {
	for yy := max(0, y); yy < min(c.height, y+h); yy++ {
		for xx := max(0, x); xx < min(c.width, x+w); xx++ {
			c.grid[yy][xx].BG = bg
		}
	}
}

// Clear resets the canvas to blanks.
func (c *MatrixCanvas) Clear() {
	for y := range c.grid {
		for x := range c.grid[y] {
			c.grid[y][x] = blank()
		}
	}
}

// String returns the canvas as plain text, one line per row, with trailing
// spaces removed.
func (c *MatrixCanvas) String() string {
	var sb strings.Builder
	sb.Grow(c.height * (c.width + 1))
	for y := 0; y < c.height; y++ {
		var line strings.Builder
		for x := 0; x < c.width; x++ {
			r := c.grid[y][x].Rune
			if r == '\x00' {
				continue
			}
			line.WriteRune(r)
		}
		sb.WriteString(strings.TrimRight(line.String(), " "))
		if y < c.height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// DrawHorizontalLine draws a horizontal line, clipped to the canvas.
func (c *MatrixCanvas) DrawHorizontalLine(x1, y, x2 int) {
	if y < 0 || y >= c.height {
		return
	}
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := max(0, x1); x <= min(c.width-1, x2); x++ {
		c.Set(core.Pos{X: x, Y: y}, '─')
	}
}

// DrawVerticalLine draws a vertical line, clipped to the canvas.
func (c *MatrixCanvas) DrawVerticalLine(x, y1, y2 int) {
	if x < 0 || x >= c.width {
		return
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := max(0, y1); y <= min(c.height-1, y2); y++ {
		c.Set(core.Pos{X: x, Y: y}, '│')
	}
}

// DrawLine draws a line between two points using Bresenham's algorithm.
// Points off the canvas are clipped.
func (c *MatrixCanvas) DrawLine(p1, p2 core.Pos, char rune, fg string) {
	dx := geometry.Abs(p2.X - p1.X)
	dy := geometry.Abs(p2.Y - p1.Y)
	x, y := p1.X, p1.Y

	xInc := 1
	if p1.X > p2.X {
		xInc = -1
	}
	yInc := 1
	if p1.Y > p2.Y {
		yInc = -1
	}

	if dx > dy {
		err := dx / 2
		for x != p2.X {
			c.SetFG(core.Pos{X: x, Y: y}, char, fg)
			err -= dy
			if err < 0 {
				y += yInc
				err += dx
			}
			x += xInc
		}
	} else {
		err := dy / 2
		for y != p2.Y {
			c.SetFG(core.Pos{X: x, Y: y}, char, fg)
			err -= dx
			if err < 0 {
				x += xInc
				err += dy
			}
			y += yInc
		}
	}
	c.SetFG(p2, char, fg)
}

// DrawText writes text starting at (x, y) with the given colors and returns
// the number of columns used. Text is clipped at the canvas edge; a wide
// character that would straddle it is dropped.
func (c *MatrixCanvas) DrawText(x, y int, text string, fg, bg string) int {
	if y < 0 || y >= c.height {
		return 0
	}
	cur := x
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if cur+w > c.width {
			break
		}
		if cur >= 0 {
			c.grid[y][cur] = Glyph{Rune: r, FG: fg, BG: bg}
			if w == 2 {
				c.grid[y][cur+1] = Glyph{Rune: '\x00', FG: fg, BG: bg}
			}
		}
		cur += w
	}
	return cur - x
}
