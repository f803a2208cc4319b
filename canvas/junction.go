package canvas

// Box-drawing characters are modeled as the set of directions they connect.
// Overlapping lines merge by joining their direction sets, so a vertical
// grid line crossing a horizontal one becomes '┼'.
const (
	north = 1 << iota
	east
	south
	west
)

var runeToMask = map[rune]int{
	'─': east | west,
	'│': north | south,
	'┌': east | south,
	'┐': west | south,
	'└': north | east,
	'┘': north | west,
	'├': north | south | east,
	'┤': north | south | west,
	'┬': east | west | south,
	'┴': east | west | north,
	'┼': north | east | south | west,
}

var maskToRune = func() map[int]rune {
	m := make(map[int]rune, len(runeToMask))
	for r, mask := range runeToMask {
		m[mask] = r
	}
	return m
}()

// CharacterMerger combines a character already on the canvas with a new one.
type CharacterMerger struct{}

// NewCharacterMerger creates a merger with the box-drawing rules.
func NewCharacterMerger() *CharacterMerger {
	return &CharacterMerger{}
}

// Merge returns the character to keep when next is drawn over existing.
// Arrow heads always win; two box-drawing characters are joined; anything
// else is replaced.
func (m *CharacterMerger) Merge(existing, next rune) rune {
	if existing == ' ' || existing == '\x00' || existing == next {
		return next
	}
	if isArrowHead(existing) {
		return existing
	}
	a, okA := runeToMask[existing]
	b, okB := runeToMask[next]
	if okA && okB {
		if r, ok := maskToRune[a|b]; ok {
			return r
		}
	}
	return next
}

func isArrowHead(r rune) bool {
	switch r {
	case '▶', '◀', '▲', '▼':
		return true
	}
	return false
}
