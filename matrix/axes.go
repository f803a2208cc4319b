package matrix

import (
	"slices"

	"careermatrix/core"
)

// Axes holds the row (position) and column (level) labels. Their lengths
// define the addressable bounds of the grid.
type Axes struct {
	Positions []string `json:"positions" yaml:"positions"`
	Levels    []string `json:"levels" yaml:"levels"`
}

// Rows returns the number of position rows.
func (a Axes) Rows() int { return len(a.Positions) }

// Cols returns the number of level columns.
func (a Axes) Cols() int { return len(a.Levels) }

// InBounds reports whether (row, col) addresses a cell of the grid.
func (a Axes) InBounds(row, col int) bool {
	return row >= 0 && row < len(a.Positions) && col >= 0 && col < len(a.Levels)
}

// Contains reports whether the coordinate is in bounds.
func (a Axes) Contains(c core.Coord) bool {
	return a.InBounds(c.Row, c.Col)
}

// Clone returns a copy that shares no backing arrays with a.
func (a Axes) Clone() Axes {
	return Axes{
		Positions: append([]string(nil), a.Positions...),
		Levels:    append([]string(nil), a.Levels...),
	}
}

// Empty reports whether either axis has no labels.
func (a Axes) Empty() bool {
	return len(a.Positions) == 0 || len(a.Levels) == 0
}

// Equal reports whether both axes carry the same labels in the same order.
func (a Axes) Equal(b Axes) bool {
	return slices.Equal(a.Positions, b.Positions) && slices.Equal(a.Levels, b.Levels)
}

// DefaultAxes returns the change-management career matrix used when no
// template has been persisted yet.
func DefaultAxes() Axes {
	return Axes{
		Positions: []string{
			"Quản lý bảo dưỡng",
			"Phó phòng Quản lý thay đổi",
			"Trưởng phòng Quản lý thay đổi",
			"Kỹ sư Quản lý thay đổi hệ thống mạng lõi",
			"Kỹ sư Quản lý thay đổi hệ thống mạng truy nhập",
			"Kỹ sư Quản lý thay đổi thị trường",
		},
		Levels: []string{"Bậc 11", "Bậc 12", "Bậc 13", "Bậc 14", "Bậc 15", "Bậc 16", "Bậc 17"},
	}
}
