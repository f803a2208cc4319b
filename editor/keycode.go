package editor

// SpecialKey represents special keys like arrows, home, end, etc.
type SpecialKey int

const (
	KeyNone SpecialKey = iota
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyHome
	KeyEnd
	KeyDelete
	KeyTab
	KeyBacktab
)

// KeyEvent represents either a regular character or a special key
type KeyEvent struct {
	Rune       rune
	SpecialKey SpecialKey
}

// IsSpecial returns true if this is a special key event
func (k KeyEvent) IsSpecial() bool {
	return k.SpecialKey != KeyNone
}

// Rune builds a KeyEvent for a plain character.
func Rune(r rune) KeyEvent {
	return KeyEvent{Rune: r}
}

// Special builds a KeyEvent for a special key.
func Special(k SpecialKey) KeyEvent {
	return KeyEvent{SpecialKey: k}
}
