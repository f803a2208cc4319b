package matrix

import (
	"careermatrix/core"

	"github.com/google/uuid"
)

// DefaultArrowColor is used when an arrow is created without a color.
const DefaultArrowColor = "#1769FE"

// Arrow is a directed annotation from one cell to another.
type Arrow struct {
	ID    string     `json:"id"`
	From  core.Coord `json:"from"`
	To    core.Coord `json:"to"`
	Color string     `json:"color"`
	Label string     `json:"label,omitempty"`
}

// IsSelfLoop reports whether the arrow starts and ends on the same cell.
func (a Arrow) IsSelfLoop() bool {
	return a.From == a.To
}

// NewID returns a fresh arrow or template identifier.
func NewID() string {
	return uuid.NewString()
}

// EnsureUniqueArrowIDs assigns fresh ids to arrows whose id is empty or
// repeats an earlier arrow's id. It reports whether anything changed.
func EnsureUniqueArrowIDs(arrows []Arrow) bool {
	seen := make(map[string]bool, len(arrows))
	changed := false
	for i := range arrows {
		id := arrows[i].ID
		if id == "" || seen[id] {
			id = NewID()
			arrows[i].ID = id
			changed = true
		}
		seen[id] = true
	}
	return changed
}
