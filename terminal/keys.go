package terminal

import (
	"careermatrix/editor"

	"github.com/gdamore/tcell/v2"
)

// translateKey converts a tcell key event into the editor's key model.
// Control keys keep their ASCII codes, which is what the editor expects.
func translateKey(ev *tcell.EventKey) (editor.KeyEvent, bool) {
	switch ev.Key() {
	case tcell.KeyRune:
		return editor.Rune(ev.Rune()), true
	case tcell.KeyUp:
		return editor.Special(editor.KeyArrowUp), true
	case tcell.KeyDown:
		return editor.Special(editor.KeyArrowDown), true
	case tcell.KeyLeft:
		return editor.Special(editor.KeyArrowLeft), true
	case tcell.KeyRight:
		return editor.Special(editor.KeyArrowRight), true
	case tcell.KeyHome:
		return editor.Special(editor.KeyHome), true
	case tcell.KeyEnd:
		return editor.Special(editor.KeyEnd), true
	case tcell.KeyDelete:
		return editor.Special(editor.KeyDelete), true
	case tcell.KeyTab:
		return editor.Special(editor.KeyTab), true
	case tcell.KeyBacktab:
		return editor.Special(editor.KeyBacktab), true
	case tcell.KeyEnter:
		return editor.Rune(13), true
	case tcell.KeyEscape:
		return editor.Rune(27), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return editor.Rune(127), true
	case tcell.KeyCtrlC, tcell.KeyCtrlR, tcell.KeyCtrlS, tcell.KeyCtrlU,
		tcell.KeyCtrlY, tcell.KeyCtrlZ:
		return editor.Rune(rune(ev.Key())), true
	}
	return editor.KeyEvent{}, false
}
