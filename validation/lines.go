package validation

import (
	"fmt"
	"strings"
)

type direction uint8

const (
	north direction = 1 << iota
	east
	south
	west
)

func (d direction) opposite() direction {
	switch d {
	case north:
		return south
	case south:
		return north
	case east:
		return west
	}
	return east
}

func (d direction) String() string {
	switch d {
	case north:
		return "north"
	case east:
		return "east"
	case south:
		return "south"
	}
	return "west"
}

func (d direction) offset() (dx, dy int) {
	switch d {
	case north:
		return 0, -1
	case east:
		return 1, 0
	case south:
		return 0, 1
	}
	return -1, 0
}

// arms lists the directions each box-drawing character connects to.
var arms = map[rune]direction{
	'─': east | west,
	'│': north | south,
	'┌': east | south,
	'┐': west | south,
	'└': north | east,
	'┘': north | west,
	'├': north | south | east,
	'┤': north | south | west,
	'┬': east | west | south,
	'┴': east | west | north,
	'┼': north | east | south | west,
}

// LineError is a broken connection in a rendered table.
type LineError struct {
	X, Y    int
	Char    rune
	Context string
	Message string
}

func (e LineError) String() string {
	return fmt.Sprintf("(%d,%d) '%c' [%s]: %s", e.X, e.Y, e.Char, e.Context, e.Message)
}

// LineValidator checks that the box-drawing characters of a rendered table
// join up: whenever a line character points at another line character, that
// neighbor must point back. Text, spaces and arrow glyphs end a line without
// an error.
type LineValidator struct {
	errors []LineError
}

// NewLineValidator creates a validator.
func NewLineValidator() *LineValidator {
	return &LineValidator{}
}

// Validate checks a rendered table.
func (v *LineValidator) Validate(rendered string) []LineError {
	v.errors = nil

	lines := strings.Split(strings.TrimRight(rendered, "\n"), "\n")
	grid := make([][]rune, len(lines))
	for i, line := range lines {
		grid[i] = []rune(line)
	}

	for y := range grid {
		for x, char := range grid[y] {
			mask, ok := arms[char]
			if !ok {
				continue
			}
			for _, d := range []direction{north, east, south, west} {
				dx, dy := d.offset()
				next := charAt(grid, x+dx, y+dy)
				nextMask, isLine := arms[next]
				if !isLine {
					continue
				}
				pointsOut := mask&d != 0
				pointsBack := nextMask&d.opposite() != 0
				if pointsOut && !pointsBack {
					v.addError(x, y, char, fmt.Sprintf("%s=%c", d, next),
						"line continues %s into %c, which does not connect back", d, next)
				}
			}
		}
	}
	return v.errors
}

func charAt(grid [][]rune, x, y int) rune {
	if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
		return ' '
	}
	return grid[y][x]
}

func (v *LineValidator) addError(x, y int, char rune, context, format string, args ...interface{}) {
	v.errors = append(v.errors, LineError{
		X:       x,
		Y:       y,
		Char:    char,
		Context: context,
		Message: fmt.Sprintf(format, args...),
	})
}
