package editor

import (
	"fmt"
	"unicode"

	"careermatrix/errs"
)

// HandleKey processes a key event and reports whether the editor should quit.
func (e *MatrixEditor) HandleKey(k KeyEvent) bool {
	var err error
	switch e.mode {
	case ModeEditingCell:
		err = e.handleTextKey(k)
	default:
		err = e.handleNormalKey(k)
	}
	e.report(err)
	return e.quitRequested
}

// report puts user-facing failures on the status line. Contract violations
// are only logged.
func (e *MatrixEditor) report(err error) {
	if err == nil {
		return
	}
	if errs.UserVisible(err) {
		e.status = err.Error()
		return
	}
	e.log.Debug("rejected action", "error", err)
}

// handleNormalKey processes keys in Idle and ArrowSourcePending
func (e *MatrixEditor) handleNormalKey(k KeyEvent) error {
	// Any key closes the help panel; ? and ESC do nothing else.
	if e.showHelp {
		e.showHelp = false
		if !k.IsSpecial() && (k.Rune == '?' || k.Rune == 27) {
			return nil
		}
	}

	if k.IsSpecial() {
		switch k.SpecialKey {
		case KeyArrowUp:
			e.MoveCursor(-1, 0)
		case KeyArrowDown:
			e.MoveCursor(1, 0)
		case KeyArrowLeft:
			e.MoveCursor(0, -1)
		case KeyArrowRight:
			e.MoveCursor(0, 1)
		case KeyHome:
			e.MoveCursor(0, -e.cursor.Col)
		case KeyEnd:
			e.MoveCursor(0, e.grid.Axes().Cols())
		case KeyDelete:
			return e.ClearCell()
		case KeyTab:
			e.SelectNextArrow()
		}
		return nil
	}

	switch k.Rune {
	case 'q', 3: // q or Ctrl+C to quit
		e.quitRequested = true

	case 27: // ESC - drop a pending arrow source
		return e.Escape()

	case 13, 10, ' ': // Enter - act on the selected cell like a click
		return e.Click(e.cursor.Row, e.cursor.Col)

	case 'k':
		e.MoveCursor(-1, 0)
	case 'j':
		e.MoveCursor(1, 0)
	case 'h':
		e.MoveCursor(0, -1)
	case 'l':
		e.MoveCursor(0, 1)

	case 'a': // Toggle arrow drawing
		err := e.ToggleArrowMode()
		if e.arrowMode {
			e.status = "arrow mode: pick a source cell"
		} else {
			e.status = ""
		}
		return err

	case 'c': // Next arrow color
		e.status = fmt.Sprintf("arrow color %s", e.NextPaletteColor())

	case 'b': // Next background for the selected cell
		return e.CycleCellBackground()

	case 'n': // Select next arrow
		if id, ok := e.SelectNextArrow(); ok {
			e.status = "arrow " + shortID(id)
		}

	case 'd': // Delete the selected arrow
		if e.selectedArrow == "" {
			e.SelectNextArrow()
		}
		if e.selectedArrow == "" {
			return nil
		}
		return e.DeleteArrow(e.selectedArrow)

	case 'x': // Clear the selected cell
		return e.ClearCell()

	case 'X': // Clear everything
		e.Clear()
		e.status = "matrix cleared"

	case 'u', 26: // u or Ctrl+Z
		if !e.Undo() {
			e.status = "nothing to undo"
		}

	case 'U', 18, 25: // U, Ctrl+R or Ctrl+Y
		if !e.Redo() {
			e.status = "nothing to redo"
		}

	case 's', 19: // s or Ctrl+S
		e.saveRequested = true

	case '?':
		e.showHelp = true
	}
	return nil
}

// handleTextKey processes keys while a cell is open for editing
func (e *MatrixEditor) handleTextKey(k KeyEvent) error {
	if k.IsSpecial() {
		switch k.SpecialKey {
		case KeyArrowLeft:
			e.MoveTextCursor(-1)
		case KeyArrowRight:
			e.MoveTextCursor(1)
		case KeyHome:
			e.MoveTextCursor(-e.cursorPos)
		case KeyEnd:
			e.MoveTextCursor(len(e.textBuffer))
		case KeyDelete:
			e.DeleteForward()
		case KeyArrowUp, KeyArrowDown, KeyTab, KeyBacktab:
			// Leaving the cell commits it, like blur.
			if err := e.Confirm(); err != nil {
				return err
			}
			switch k.SpecialKey {
			case KeyArrowUp:
				e.MoveCursor(-1, 0)
			case KeyArrowDown:
				e.MoveCursor(1, 0)
			case KeyTab:
				e.MoveCursor(0, 1)
			case KeyBacktab:
				e.MoveCursor(0, -1)
			}
		}
		return nil
	}

	switch k.Rune {
	case 27, 13, 10: // ESC or Enter - commit and return to Idle
		return e.Confirm()

	case 21: // Ctrl+U - discard changes
		e.CancelEdit()

	case 127, 8: // Backspace
		e.Backspace()

	default:
		if unicode.IsPrint(k.Rune) {
			e.InsertRune(k.Rune)
		}
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
