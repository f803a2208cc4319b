package terminal

import (
	"fmt"
	"strings"

	"careermatrix/canvas"
	"careermatrix/editor"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

var (
	hintStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	helpStyle   = tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack)
	statusStyle = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	modeStyles  = map[editor.Mode]tcell.Style{
		editor.ModeIdle:               tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack).Bold(true),
		editor.ModeEditingCell:        tcell.StyleDefault.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack).Bold(true),
		editor.ModeArrowSourcePending: tcell.StyleDefault.Background(tcell.ColorRed).Foreground(tcell.ColorWhite).Bold(true),
	}
)

// draw paints the visible part of the table plus the two chrome lines.
func (s *Session) draw() {
	s.screen.Clear()
	w, h := s.screen.Size()
	vw, vh := s.viewport()

	c, cursor := canvas.Render(s.table, s.scene())
	if c != nil {
		cw, ch := c.Size()
		for y := 0; y < vh && y+s.scrollY < ch; y++ {
			row := c.Row(y + s.scrollY)
			for x := 0; x < vw && x+s.scrollX < cw; x++ {
				g := row[x+s.scrollX]
				if g.Rune == '\x00' {
					continue // Second column of a wide rune
				}
				s.screen.SetContent(x, y, g.Rune, nil, s.style(g))
			}
		}
	}

	if cursor != nil {
		s.screen.ShowCursor(cursor.X-s.scrollX, cursor.Y-s.scrollY)
	} else {
		s.screen.HideCursor()
	}

	if s.ed.ShowingHelp() {
		s.drawHelp(w, vh)
	}
	if h >= chromeLines {
		drawText(s.screen, 0, h-2, w, editor.GetCompactHelp(), hintStyle)
		s.drawStatus(h-1, w)
	}
}

// drawHelp centers the key help panel over the table.
func (s *Session) drawHelp(w, h int) {
	lines := strings.Split(editor.GetHelpText(), "\n")
	width := 0
	for _, l := range lines {
		width = max(width, runewidth.StringWidth(l))
	}
	x0 := max(0, (w-width)/2)
	y0 := max(0, (h-len(lines))/2)
	for i, l := range lines {
		if y0+i >= h {
			break
		}
		drawText(s.screen, x0, y0+i, w-x0, l, helpStyle)
	}
}

func (s *Session) drawStatus(y, w int) {
	for x := 0; x < w; x++ {
		s.screen.SetContent(x, y, ' ', nil, statusStyle)
	}

	mode := s.ed.Mode()
	label := " " + mode.String() + " "
	if s.ed.ArrowMode() && mode == editor.ModeIdle {
		label = " ARROWS "
	}
	x := drawText(s.screen, 0, y, w, label, modeStyles[mode])
	x++

	x += drawText(s.screen, x, y, w-x, " ", s.swatch(s.ed.CurrentArrowColor()))
	x++
	x += drawText(s.screen, x, y, w-x, s.statusText(), statusStyle)
}

// statusText summarizes template, history and save state.
func (s *Session) statusText() string {
	var parts []string

	name := s.ed.Info().Name
	if name == "" {
		name = s.ed.TemplateID()
	}
	if s.ed.HasUnsavedChanges() {
		name += " *"
	}
	parts = append(parts, name)

	cur, total := s.ed.HistoryStats()
	parts = append(parts, fmt.Sprintf("undo %d/%d", cur, total))
	parts = append(parts, fmt.Sprintf("rev %d", s.ed.Revision()))

	if !s.savePending && s.remoteRevision > s.ed.Revision() {
		parts = append(parts, fmt.Sprintf("revision %d saved elsewhere", s.remoteRevision))
	}
	if msg := s.ed.Status(); msg != "" {
		parts = append(parts, msg)
	}
	return strings.Join(parts, " │ ")
}

// drawText writes text clipped to width and returns the columns used.
func drawText(scr tcell.Screen, x, y, width int, text string, style tcell.Style) int {
	used := 0
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if used+rw > width {
			break
		}
		scr.SetContent(x+used, y, r, nil, style)
		used += rw
	}
	return used
}

func (s *Session) style(g canvas.Glyph) tcell.Style {
	st := tcell.StyleDefault
	if g.FG != "" {
		st = st.Foreground(s.color(g.FG))
	}
	if g.BG != "" {
		st = st.Background(s.color(g.BG))
	}
	return st.Bold(g.Bold)
}

func (s *Session) swatch(hex string) tcell.Style {
	return tcell.StyleDefault.Background(s.color(hex))
}

// color converts a hex color to a terminal RGB color, caching the result.
func (s *Session) color(hex string) tcell.Color {
	if c, ok := s.colors[hex]; ok {
		return c
	}
	c := tcell.ColorDefault
	if parsed, err := colorful.Hex(hex); err == nil {
		r, g, b := parsed.RGB255()
		c = tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
	s.colors[hex] = c
	return c
}
