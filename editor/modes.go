package editor

// Mode represents the current interaction state of the matrix editor
type Mode int

const (
	ModeIdle               Mode = iota // Navigating, nothing in progress
	ModeEditingCell                    // Inline text editor open on a cell
	ModeArrowSourcePending             // Arrow source picked, waiting for destination
)

// String returns the mode name for display
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "IDLE"
	case ModeEditingCell:
		return "EDIT"
	case ModeArrowSourcePending:
		return "ARROW"
	default:
		return "UNKNOWN"
	}
}

// setMode changes the mode and resets per-mode buffers.
func (e *MatrixEditor) setMode(mode Mode) {
	e.mode = mode

	if mode != ModeArrowSourcePending {
		e.layer.CancelArrow()
	}

	if mode == ModeEditingCell {
		text := e.grid.GetCell(e.editing.Row, e.editing.Col).Text
		e.textBuffer = []rune(text)
		e.cursorPos = len(e.textBuffer)
	} else {
		e.textBuffer = []rune{}
		e.cursorPos = 0
	}
}
