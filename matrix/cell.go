// Package matrix holds the Grid Model of the career matrix: cells addressed by
// (position, level), the arrows drawn between them, and the snapshot and
// template types that persist both.
package matrix

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// DefaultTextColor is the text color of a cell that was never edited.
	DefaultTextColor = "#000000"
	// DefaultBackground is the background of a cell that was never edited.
	DefaultBackground = "#FFFFFF"
)

// Cell is the content of one matrix cell.
type Cell struct {
	Text       string `json:"text"`
	Color      string `json:"color"`
	Background string `json:"background"`
}

// DefaultCell returns the implicit content of an unset cell.
func DefaultCell() Cell {
	return Cell{Color: DefaultTextColor, Background: DefaultBackground}
}

// IsDefault reports whether the cell is indistinguishable from an unset cell.
func (c Cell) IsDefault() bool {
	return c == DefaultCell()
}

// NormalizeColor parses a hex color ("#rgb" or "#rrggbb", with or without the
// leading '#') and returns it as upper-case "#RRGGBB".
func NormalizeColor(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty color")
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	// colorful.Hex scans with Sscanf and accepts trailing or short digits.
	if len(s) != 4 && len(s) != 7 {
		return "", fmt.Errorf("invalid color %q: want #rgb or #rrggbb", s)
	}
	for _, r := range s[1:] {
		if !isHexDigit(r) {
			return "", fmt.Errorf("invalid color %q: %q is not a hex digit", s, r)
		}
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", fmt.Errorf("invalid color %q: %w", s, err)
	}
	return strings.ToUpper(c.Hex()), nil
}

func isHexDigit(r rune) bool {
	return '0' <= r && r <= '9' || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F'
}

// ReadableTextColor picks black or white, whichever contrasts more with the
// given background.
func ReadableTextColor(background string) string {
	c, err := colorful.Hex(background)
	if err != nil {
		return DefaultTextColor
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return DefaultTextColor
	}
	return DefaultBackground
}
