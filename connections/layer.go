// Package connections owns the arrows drawn between matrix cells and turns
// them into screen-space curves.
package connections

import (
	"careermatrix/core"
	"careermatrix/errs"
	"careermatrix/geometry"
	"careermatrix/matrix"
)

// Layer holds the arrow set and the "source selected" sub-state used while
// an arrow is being drawn.
type Layer struct {
	axes       matrix.Axes
	arrows     []matrix.Arrow
	pending    *core.Coord
	headLength float64
}

// NewLayer creates an empty layer bounded by the given axes.
func NewLayer(axes matrix.Axes) *Layer {
	return &Layer{
		axes:       axes.Clone(),
		arrows:     []matrix.Arrow{},
		headLength: ArrowHeadLength,
	}
}

// SetHeadLength changes how far arrow ends are pulled back from the
// destination center. Terminal renderers measure in characters and use a
// much shorter head than pixel renderers.
func (l *Layer) SetHeadLength(n float64) {
	if n < 0 {
		n = 0
	}
	l.headLength = n
}

// HeadLength returns the current arrow head length.
func (l *Layer) HeadLength() float64 {
	return l.headLength
}

// BeginArrow selects (row, col) as the source of the next arrow. It is a
// no-op while a source is already pending.
func (l *Layer) BeginArrow(row, col int) error {
	if !l.axes.InBounds(row, col) {
		return errs.OutOfBounds("connections.BeginArrow", row, col)
	}
	if l.pending != nil {
		return nil
	}
	l.pending = &core.Coord{Row: row, Col: col}
	return nil
}

// Pending returns the selected source, if any.
func (l *Layer) Pending() (core.Coord, bool) {
	if l.pending == nil {
		return core.Coord{}, false
	}
	return *l.pending, true
}

// CancelArrow discards a pending source without creating an arrow.
func (l *Layer) CancelArrow() {
	l.pending = nil
}

// CompleteArrow creates an arrow from the pending source to (row, col) and
// leaves the source-selected state.
func (l *Layer) CompleteArrow(row, col int, color string) (string, error) {
	const op errs.Op = "connections.CompleteArrow"
	if l.pending == nil {
		return "", errs.InvalidState(op, "no arrow source selected")
	}
	if !l.axes.InBounds(row, col) {
		return "", errs.OutOfBounds(op, row, col)
	}
	to := core.Coord{Row: row, Col: col}
	if *l.pending == to {
		return "", errs.E(op, errs.KindInvalid, "arrow source and destination are the same cell")
	}
	if color == "" {
		color = matrix.DefaultArrowColor
	}
	norm, err := matrix.NormalizeColor(color)
	if err != nil {
		return "", errs.E(op, errs.KindInvalid, err)
	}

	a := matrix.Arrow{
		ID:    matrix.NewID(),
		From:  *l.pending,
		To:    to,
		Color: norm,
	}
	l.arrows = append(l.arrows, a)
	l.pending = nil
	return a.ID, nil
}

func (l *Layer) index(id string) int {
	for i := range l.arrows {
		if l.arrows[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns the arrow with the given id.
func (l *Layer) Get(id string) (matrix.Arrow, bool) {
	if i := l.index(id); i >= 0 {
		return l.arrows[i], true
	}
	return matrix.Arrow{}, false
}

// DeleteArrow removes an arrow.
func (l *Layer) DeleteArrow(id string) error {
	i := l.index(id)
	if i < 0 {
		return errs.NotFound("connections.DeleteArrow", "arrow", id)
	}
	l.arrows = append(l.arrows[:i], l.arrows[i+1:]...)
	return nil
}

// SetArrowLabel changes the label of an arrow.
func (l *Layer) SetArrowLabel(id, label string) error {
	i := l.index(id)
	if i < 0 {
		return errs.NotFound("connections.SetArrowLabel", "arrow", id)
	}
	l.arrows[i].Label = label
	return nil
}

// SetArrowColor changes the color of an arrow.
func (l *Layer) SetArrowColor(id, color string) error {
	const op errs.Op = "connections.SetArrowColor"
	i := l.index(id)
	if i < 0 {
		return errs.NotFound(op, "arrow", id)
	}
	norm, err := matrix.NormalizeColor(color)
	if err != nil {
		return errs.E(op, errs.KindInvalid, err)
	}
	l.arrows[i].Color = norm
	return nil
}

// ArrowsAt returns the arrows that start or end at (row, col).
func (l *Layer) ArrowsAt(row, col int) []matrix.Arrow {
	c := core.Coord{Row: row, Col: col}
	var out []matrix.Arrow
	for _, a := range l.arrows {
		if a.From == c || a.To == c {
			out = append(out, a)
		}
	}
	return out
}

// Arrows returns a copy of the arrow set in creation order.
func (l *Layer) Arrows() []matrix.Arrow {
	out := make([]matrix.Arrow, len(l.arrows))
	copy(out, l.arrows)
	return out
}

// Count returns the number of arrows.
func (l *Layer) Count() int {
	return len(l.arrows)
}

// Clear removes every arrow and any pending source.
func (l *Layer) Clear() {
	l.arrows = []matrix.Arrow{}
	l.pending = nil
}

// Restore replaces the arrow set, e.g. from an undo snapshot. A pending
// source is discarded.
func (l *Layer) Restore(arrows []matrix.Arrow) {
	l.arrows = make([]matrix.Arrow, len(arrows))
	copy(l.arrows, arrows)
	l.pending = nil
}

// ResolvePaths computes a curve for every arrow whose cells are measured by
// lookup. Arrows with an unmeasured endpoint are skipped.
func (l *Layer) ResolvePaths(lookup geometry.Lookup) []Path {
	return ResolvePaths(l.arrows, lookup, l.headLength)
}
