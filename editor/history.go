package editor

import (
	"careermatrix/matrix"
)

// DefaultHistoryCapacity bounds the number of snapshots kept for undo.
const DefaultHistoryCapacity = 500

// History is a linear undo/redo log of full snapshots. Recording after an
// undo discards the redo branch.
type History struct {
	states  []matrix.Snapshot // Deep copies, never handed out directly
	ids     []uint64          // Stable id of each entry, parallel to states
	current int               // Index of the live state
	max     int               // Maximum number of states to keep
	nextID  uint64
}

// NewHistory creates an empty history holding at most max snapshots.
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultHistoryCapacity
	}
	return &History{
		states:  make([]matrix.Snapshot, 0, min(max, 64)),
		ids:     make([]uint64, 0, min(max, 64)),
		current: -1,
		max:     max,
	}
}

// Record appends a deep copy of s and makes it the current state.
func (h *History) Record(s matrix.Snapshot) {
	// Truncate the redo branch
	if h.current < len(h.states)-1 {
		clear(h.states[h.current+1:])
		h.states = h.states[:h.current+1]
		h.ids = h.ids[:h.current+1]
	}

	h.nextID++
	h.states = append(h.states, s.Clone())
	h.ids = append(h.ids, h.nextID)

	// If we exceed max, remove oldest
	if len(h.states) > h.max {
		h.states[0] = matrix.Snapshot{}
		h.states = h.states[1:]
		h.ids = h.ids[1:]
	} else {
		h.current++
	}
}

// Reset discards all entries and starts over from s.
func (h *History) Reset(s matrix.Snapshot) {
	clear(h.states)
	h.states = h.states[:0]
	h.ids = h.ids[:0]
	h.current = -1
	h.Record(s)
}

// CanUndo returns true if we can undo
func (h *History) CanUndo() bool {
	return h.current > 0
}

// CanRedo returns true if we can redo
func (h *History) CanRedo() bool {
	return h.current < len(h.states)-1
}

// Undo steps back one state. ok is false when already at the oldest state.
func (h *History) Undo() (matrix.Snapshot, bool) {
	if !h.CanUndo() {
		return matrix.Snapshot{}, false
	}
	h.current--
	return h.states[h.current].Clone(), true
}

// Redo steps forward one state. ok is false when already at the newest state.
func (h *History) Redo() (matrix.Snapshot, bool) {
	if !h.CanRedo() {
		return matrix.Snapshot{}, false
	}
	h.current++
	return h.states[h.current].Clone(), true
}

// Current returns a copy of the live state.
func (h *History) Current() (matrix.Snapshot, bool) {
	if h.current < 0 {
		return matrix.Snapshot{}, false
	}
	return h.states[h.current].Clone(), true
}

// CurrentID identifies the live entry. Ids are never reused, so two equal ids
// mean the same recorded state. It is 0 before anything is recorded.
func (h *History) CurrentID() uint64 {
	if h.current < 0 {
		return 0
	}
	return h.ids[h.current]
}

// Len returns the number of recorded states.
func (h *History) Len() int {
	return len(h.states)
}

// Stats returns current position (1-based) and total states
func (h *History) Stats() (current, total int) {
	return h.current + 1, len(h.states)
}

// Entries returns copies of every recorded state, oldest first.
func (h *History) Entries() []matrix.Snapshot {
	out := make([]matrix.Snapshot, len(h.states))
	for i, s := range h.states {
		out[i] = s.Clone()
	}
	return out
}
