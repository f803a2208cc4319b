// Package geometry maps logical matrix cells to the rectangles they were
// rendered into, and provides the curve math used to draw arrows between them.
package geometry

import (
	"sync"

	"careermatrix/core"
)

// Lookup resolves a cell coordinate to its rendered rectangle. ok is false
// when the cell is not currently measured.
type Lookup interface {
	Position(row, col int) (core.Rect, bool)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(row, col int) (core.Rect, bool)

// Position implements Lookup.
func (f LookupFunc) Position(row, col int) (core.Rect, bool) {
	return f(row, col)
}

// MapLookup is a fixed Lookup backed by a map.
type MapLookup map[core.Coord]core.Rect

// Position implements Lookup.
func (m MapLookup) Position(row, col int) (core.Rect, bool) {
	r, ok := m[core.Coord{Row: row, Col: col}]
	return r, ok
}

// Resolver holds the latest measurement of every rendered cell, relative to
// the matrix container origin. Measurements are replaced wholesale after each
// layout pass.
type Resolver struct {
	mu         sync.RWMutex
	rects      map[core.Coord]core.Rect
	dx, dy     float64
	generation int
}

// NewResolver creates a resolver with no measurements.
func NewResolver() *Resolver {
	return &Resolver{rects: make(map[core.Coord]core.Rect)}
}

// Update replaces all measurements.
func (r *Resolver) Update(rects map[core.Coord]core.Rect) {
	next := make(map[core.Coord]core.Rect, len(rects))
	for k, v := range rects {
		next[k] = v
	}
	r.mu.Lock()
	r.rects = next
	r.generation++
	r.mu.Unlock()
}

// Offset shifts every rectangle returned by Position, e.g. to follow a
// scrolled viewport.
func (r *Resolver) Offset(dx, dy float64) {
	r.mu.Lock()
	r.dx, r.dy = dx, dy
	r.mu.Unlock()
}

// Position implements Lookup.
func (r *Resolver) Position(row, col int) (core.Rect, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rect, ok := r.rects[core.Coord{Row: row, Col: col}]
	if !ok {
		return core.Rect{}, false
	}
	return rect.Translate(r.dx, r.dy), true
}

// Raw returns a Lookup over the measurements as laid out, ignoring Offset.
// Arrow paths are drawn in that space and scrolled together with the table.
func (r *Resolver) Raw() Lookup {
	return LookupFunc(func(row, col int) (core.Rect, bool) {
		r.mu.RLock()
		defer r.mu.RUnlock()
		rect, ok := r.rects[core.Coord{Row: row, Col: col}]
		return rect, ok
	})
}

// CellAt returns the cell whose rectangle contains p.
func (r *Resolver) CellAt(p core.Point) (core.Coord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for c, rect := range r.rects {
		if rect.Translate(r.dx, r.dy).Contains(p) {
			return c, true
		}
	}
	return core.Coord{}, false
}

// Len returns the number of measured cells.
func (r *Resolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rects)
}

// Generation counts Update calls; renderers compare it to skip redundant work.
func (r *Resolver) Generation() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}
