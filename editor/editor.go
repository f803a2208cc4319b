// Package editor drives the matrix: it owns the Grid Model, the arrow layer
// and the undo history, and translates clicks, keys and toolbar actions into
// mutations of them.
package editor

import (
	"context"
	"log/slog"
	"sync"

	"careermatrix/connections"
	"careermatrix/core"
	"careermatrix/errs"
	"careermatrix/geometry"
	"careermatrix/logger"
	"careermatrix/matrix"
)

// Saver persists a template's current state. store.Store satisfies it.
type Saver interface {
	Save(ctx context.Context, templateID string, axes matrix.Axes, snap matrix.Snapshot) (int, error)
}

// Options configures a MatrixEditor.
type Options struct {
	HistoryCapacity int
	ArrowColor      string
	Palette         []string

	// OnSave is called from the save goroutine when a save finishes. The
	// terminal forwards it to its event loop, which calls ApplySaveResult.
	OnSave func(SaveResult)
	Logger *slog.Logger
}

// DefaultPalette is offered by the color toolbar when none is configured.
var DefaultPalette = []string{
	"#1769FE", "#E53935", "#43A047", "#FB8C00", "#8E24AA", "#000000", "#FFFFFF", "#DCFCE7",
}

// MatrixEditor is the mode controller of the career matrix.
type MatrixEditor struct {
	info    matrix.TemplateInfo
	grid    *matrix.Grid
	layer   *connections.Layer
	history *History
	saver   Saver
	onSave  func(SaveResult)
	log     *slog.Logger

	// UI state
	mode       Mode
	arrowMode  bool
	cursor     core.Coord // Keyboard selection
	editing    core.Coord // Cell being edited in ModeEditingCell
	textBuffer []rune
	cursorPos  int

	arrowColor    string
	palette       []string
	paletteIndex  int
	selectedArrow string

	status        string
	savedState    uint64 // History entry id of the last successful save
	saveSeq       uint64 // Number of saves started
	appliedSeq    uint64 // Newest save whose result was applied
	revision      int
	saveRequested bool
	quitRequested bool
	showHelp      bool

	saves sync.WaitGroup
}

// New creates an editor for tmpl. The initial state of tmpl is the oldest
// undo entry.
func New(tmpl *matrix.Template, saver Saver, opts Options) *MatrixEditor {
	if tmpl == nil {
		tmpl = matrix.DefaultTemplate(matrix.NewID())
	}
	palette := opts.Palette
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	arrowColor, err := matrix.NormalizeColor(opts.ArrowColor)
	if err != nil {
		arrowColor = matrix.DefaultArrowColor
	}
	log := opts.Logger
	if log == nil {
		log = logger.ComponentLogger("editor")
	}

	e := &MatrixEditor{
		info:       tmpl.TemplateInfo,
		grid:       matrix.NewGrid(tmpl.Axes),
		layer:      connections.NewLayer(tmpl.Axes),
		history:    NewHistory(opts.HistoryCapacity),
		saver:      saver,
		onSave:     opts.OnSave,
		log:        log.With("template", tmpl.ID),
		mode:       ModeIdle,
		textBuffer: []rune{},
		arrowColor: arrowColor,
		palette:    palette,
		revision:   tmpl.Revision,
	}

	snap := tmpl.Snapshot.Clone()
	if matrix.EnsureUniqueArrowIDs(snap.Arrows) {
		e.log.Warn("reassigned duplicate arrow ids on load")
	}
	e.grid.Restore(snap.Cells)
	e.layer.Restore(snap.Arrows)
	e.history.Reset(e.Snapshot())
	e.savedState = e.history.CurrentID()
	return e
}

// TemplateID returns the id of the template being edited.
func (e *MatrixEditor) TemplateID() string { return e.info.ID }

// Info returns the template metadata.
func (e *MatrixEditor) Info() matrix.TemplateInfo { return e.info }

// Axes returns the row and column labels.
func (e *MatrixEditor) Axes() matrix.Axes { return e.grid.Axes() }

// Mode returns the current interaction state.
func (e *MatrixEditor) Mode() Mode { return e.mode }

// ArrowMode reports whether clicks draw arrows instead of editing cells.
func (e *MatrixEditor) ArrowMode() bool { return e.arrowMode }

// Cursor returns the keyboard-selected cell.
func (e *MatrixEditor) Cursor() core.Coord { return e.cursor }

// Editing returns the cell open in the inline editor.
func (e *MatrixEditor) Editing() (core.Coord, bool) {
	return e.editing, e.mode == ModeEditingCell
}

// PendingSource returns the selected arrow source while one is pending.
func (e *MatrixEditor) PendingSource() (core.Coord, bool) {
	return e.layer.Pending()
}

// TextBuffer returns the uncommitted text of the inline editor.
func (e *MatrixEditor) TextBuffer() string { return string(e.textBuffer) }

// TextCursor returns the rune offset of the text cursor.
func (e *MatrixEditor) TextCursor() int { return e.cursorPos }

// CurrentArrowColor returns the color used for the next arrow.
func (e *MatrixEditor) CurrentArrowColor() string { return e.arrowColor }

// GetCell returns the content of a cell.
func (e *MatrixEditor) GetCell(row, col int) matrix.Cell { return e.grid.GetCell(row, col) }

// Arrows returns the arrow set.
func (e *MatrixEditor) Arrows() []matrix.Arrow { return e.layer.Arrows() }

// SelectedArrow returns the id of the arrow picked with SelectNextArrow.
func (e *MatrixEditor) SelectedArrow() string { return e.selectedArrow }

// Paths resolves arrow curves against the latest cell measurements.
func (e *MatrixEditor) Paths(lookup geometry.Lookup) []connections.Path {
	return e.layer.ResolvePaths(lookup)
}

// SetArrowHeadLength adapts arrow heads to the renderer's units.
func (e *MatrixEditor) SetArrowHeadLength(n float64) { e.layer.SetHeadLength(n) }

// Snapshot returns a deep copy of the live state.
func (e *MatrixEditor) Snapshot() matrix.Snapshot {
	return matrix.Snapshot{Cells: e.grid.Cells(), Arrows: e.layer.Arrows()}
}

// Template returns the live state as a template.
func (e *MatrixEditor) Template() *matrix.Template {
	return &matrix.Template{
		TemplateInfo: e.info,
		Axes:         e.grid.Axes(),
		Snapshot:     e.Snapshot(),
		Revision:     e.revision,
	}
}

// Status returns the last status line message.
func (e *MatrixEditor) Status() string { return e.status }

// SetStatus sets the status line message.
func (e *MatrixEditor) SetStatus(s string) { e.status = s }

// HistoryStats returns the undo position and number of entries.
func (e *MatrixEditor) HistoryStats() (current, total int) { return e.history.Stats() }

// History exposes the undo log, mainly for tests and diagnostics.
func (e *MatrixEditor) History() *History { return e.history }

// HasUnsavedChanges reports whether the live state differs from the last
// successful save. Undoing back to the saved state makes it clean again.
func (e *MatrixEditor) HasUnsavedChanges() bool {
	return e.history.CurrentID() != e.savedState
}

// GetSaveRequest returns and clears a save requested from the keyboard.
func (e *MatrixEditor) GetSaveRequest() bool {
	r := e.saveRequested
	e.saveRequested = false
	return r
}

// ShowingHelp reports whether the key help panel is open.
func (e *MatrixEditor) ShowingHelp() bool { return e.showHelp }

// GetQuitRequest reports whether quit was requested.
func (e *MatrixEditor) GetQuitRequest() bool { return e.quitRequested }

// checkpoint records the live state as one undo entry.
func (e *MatrixEditor) checkpoint() {
	e.history.Record(e.Snapshot())
}

func (e *MatrixEditor) inBounds(row, col int) bool {
	return e.grid.InBounds(row, col)
}

// Click handles a click (or Enter) on a cell.
//
//   - Idle, arrow mode off: open the inline editor on the cell.
//   - Idle, arrow mode on: select the cell as arrow source.
//   - Source pending: draw the arrow to the cell and return to Idle. Clicking
//     the source again cancels it.
//   - Editing: commit the open cell, then treat the click as from Idle.
func (e *MatrixEditor) Click(row, col int) error {
	const op errs.Op = "editor.Click"
	if !e.inBounds(row, col) {
		return errs.OutOfBounds(op, row, col)
	}
	e.cursor = core.Coord{Row: row, Col: col}

	switch e.mode {
	case ModeEditingCell:
		if e.editing == e.cursor {
			return nil
		}
		if err := e.Confirm(); err != nil {
			return err
		}
		return e.Click(row, col)

	case ModeArrowSourcePending:
		src, _ := e.layer.Pending()
		if src == e.cursor {
			e.setMode(ModeIdle)
			return nil
		}
		id, err := e.layer.CompleteArrow(row, col, e.arrowColor)
		if err != nil {
			e.setMode(ModeIdle)
			return err
		}
		e.selectedArrow = id
		e.checkpoint()
		e.log.Debug("arrow created", "id", id, "from", src.String(), "to", e.cursor.String())
		e.setMode(ModeIdle)
		return nil

	default:
		if e.arrowMode {
			if err := e.layer.BeginArrow(row, col); err != nil {
				return err
			}
			e.setMode(ModeArrowSourcePending)
			return nil
		}
		e.editing = e.cursor
		e.setMode(ModeEditingCell)
		return nil
	}
}

// ToggleArrowMode flips arrow-drawing mode and returns to Idle. An open
// inline editor is committed; a pending arrow source is discarded.
func (e *MatrixEditor) ToggleArrowMode() error {
	var err error
	if e.mode == ModeEditingCell {
		err = e.Confirm()
	}
	e.arrowMode = !e.arrowMode
	e.setMode(ModeIdle)
	return err
}

// Escape returns to Idle. Text in the inline editor is committed, matching
// blur; a pending arrow source is discarded.
func (e *MatrixEditor) Escape() error {
	if e.mode == ModeEditingCell {
		return e.Confirm()
	}
	e.setMode(ModeIdle)
	return nil
}

// Confirm commits the inline editor's text to its cell. Unchanged text
// records nothing.
func (e *MatrixEditor) Confirm() error {
	if e.mode != ModeEditingCell {
		return errs.InvalidState("editor.Confirm", "no cell is being edited")
	}
	text := string(e.textBuffer)
	row, col := e.editing.Row, e.editing.Col
	if e.grid.GetCell(row, col).Text != text {
		if err := e.grid.SetCellText(row, col, text); err != nil {
			return err
		}
		e.checkpoint()
	}
	e.setMode(ModeIdle)
	return nil
}

// CancelEdit closes the inline editor without committing.
func (e *MatrixEditor) CancelEdit() {
	if e.mode == ModeEditingCell {
		e.setMode(ModeIdle)
	}
}

// InsertRune inserts r at the text cursor.
func (e *MatrixEditor) InsertRune(r rune) {
	if e.mode != ModeEditingCell {
		return
	}
	e.textBuffer = append(e.textBuffer[:e.cursorPos], append([]rune{r}, e.textBuffer[e.cursorPos:]...)...)
	e.cursorPos++
}

// Backspace deletes the rune before the text cursor.
func (e *MatrixEditor) Backspace() {
	if e.mode != ModeEditingCell || e.cursorPos == 0 {
		return
	}
	e.textBuffer = append(e.textBuffer[:e.cursorPos-1], e.textBuffer[e.cursorPos:]...)
	e.cursorPos--
}

// DeleteForward deletes the rune under the text cursor.
func (e *MatrixEditor) DeleteForward() {
	if e.mode != ModeEditingCell || e.cursorPos >= len(e.textBuffer) {
		return
	}
	e.textBuffer = append(e.textBuffer[:e.cursorPos], e.textBuffer[e.cursorPos+1:]...)
}

// MoveTextCursor moves the text cursor by delta runes, clamped to the buffer.
func (e *MatrixEditor) MoveTextCursor(delta int) {
	e.cursorPos = max(0, min(len(e.textBuffer), e.cursorPos+delta))
}

// MoveCursor moves the keyboard selection, clamped to the axes.
func (e *MatrixEditor) MoveCursor(dRow, dCol int) {
	axes := e.grid.Axes()
	if axes.Empty() {
		return
	}
	e.cursor.Row = max(0, min(axes.Rows()-1, e.cursor.Row+dRow))
	e.cursor.Col = max(0, min(axes.Cols()-1, e.cursor.Col+dCol))
}

// SetCursor moves the keyboard selection to (row, col).
func (e *MatrixEditor) SetCursor(row, col int) error {
	if !e.inBounds(row, col) {
		return errs.OutOfBounds("editor.SetCursor", row, col)
	}
	e.cursor = core.Coord{Row: row, Col: col}
	return nil
}

// SetCellColors updates the colors of the selected cell. A nil argument
// leaves that color unchanged.
func (e *MatrixEditor) SetCellColors(textColor, background *string) error {
	if err := e.grid.SetCellColors(e.cursor.Row, e.cursor.Col, textColor, background); err != nil {
		return err
	}
	e.checkpoint()
	return nil
}

// ClearCell resets the selected cell to its default content.
func (e *MatrixEditor) ClearCell() error {
	if e.grid.GetCell(e.cursor.Row, e.cursor.Col).IsDefault() {
		return nil
	}
	if err := e.grid.ClearCell(e.cursor.Row, e.cursor.Col); err != nil {
		return err
	}
	e.checkpoint()
	return nil
}

// SetArrowColor sets the color used for the next arrow.
func (e *MatrixEditor) SetArrowColor(color string) error {
	norm, err := matrix.NormalizeColor(color)
	if err != nil {
		return errs.E(errs.Op("editor.SetArrowColor"), errs.KindInvalid, err)
	}
	e.arrowColor = norm
	return nil
}

// NextPaletteColor cycles the next-arrow color through the palette.
func (e *MatrixEditor) NextPaletteColor() string {
	e.paletteIndex = (e.paletteIndex + 1) % len(e.palette)
	if err := e.SetArrowColor(e.palette[e.paletteIndex]); err != nil {
		e.log.Warn("invalid palette color", "color", e.palette[e.paletteIndex])
	}
	return e.arrowColor
}

// CycleCellBackground applies the next palette color to the selected
// cell's background and picks a readable text color for it.
func (e *MatrixEditor) CycleCellBackground() error {
	e.paletteIndex = (e.paletteIndex + 1) % len(e.palette)
	bg, err := matrix.NormalizeColor(e.palette[e.paletteIndex])
	if err != nil {
		return errs.E(errs.Op("editor.CycleCellBackground"), errs.KindInvalid, err)
	}
	fg := matrix.ReadableTextColor(bg)
	return e.SetCellColors(&fg, &bg)
}

// SelectNextArrow cycles the arrow selection through arrows touching the
// selected cell, or through all arrows when none touch it.
func (e *MatrixEditor) SelectNextArrow() (string, bool) {
	candidates := e.layer.ArrowsAt(e.cursor.Row, e.cursor.Col)
	if len(candidates) == 0 {
		candidates = e.layer.Arrows()
	}
	if len(candidates) == 0 {
		e.selectedArrow = ""
		return "", false
	}
	next := 0
	for i, a := range candidates {
		if a.ID == e.selectedArrow {
			next = (i + 1) % len(candidates)
			break
		}
	}
	e.selectedArrow = candidates[next].ID
	return e.selectedArrow, true
}

// DeleteArrow removes an arrow.
func (e *MatrixEditor) DeleteArrow(id string) error {
	if err := e.layer.DeleteArrow(id); err != nil {
		return err
	}
	if e.selectedArrow == id {
		e.selectedArrow = ""
	}
	e.checkpoint()
	return nil
}

// SetArrowLabel changes the label of an arrow.
func (e *MatrixEditor) SetArrowLabel(id, label string) error {
	a, ok := e.layer.Get(id)
	if ok && a.Label == label {
		return nil
	}
	if err := e.layer.SetArrowLabel(id, label); err != nil {
		return err
	}
	e.checkpoint()
	return nil
}

// RecolorArrow changes the color of an existing arrow.
func (e *MatrixEditor) RecolorArrow(id, color string) error {
	if err := e.layer.SetArrowColor(id, color); err != nil {
		return err
	}
	e.checkpoint()
	return nil
}

// Clear empties all cells and arrows as one undoable step. Axes and history
// are kept.
func (e *MatrixEditor) Clear() {
	e.setMode(ModeIdle)
	e.grid.Clear()
	e.layer.Clear()
	e.selectedArrow = ""
	e.checkpoint()
}

// Undo restores the previous state. It returns false when there is nothing
// to undo.
func (e *MatrixEditor) Undo() bool {
	s, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.restore(s)
	return true
}

// Redo re-applies an undone state. It returns false when there is nothing
// to redo.
func (e *MatrixEditor) Redo() bool {
	s, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.restore(s)
	return true
}

func (e *MatrixEditor) restore(s matrix.Snapshot) {
	e.grid.Restore(s.Cells)
	e.layer.Restore(s.Arrows)
	e.selectedArrow = ""
	e.setMode(ModeIdle)
}

// Wait blocks until all in-flight saves have finished.
func (e *MatrixEditor) Wait() {
	e.saves.Wait()
}
