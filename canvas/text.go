package canvas

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// MeasureText returns the display width of a string in terminal cells.
func MeasureText(text string) int {
	return runewidth.StringWidth(text)
}

// FitText truncates text to maxWidth columns, ending with '…' when cut.
func FitText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= maxWidth {
		return text
	}
	return runewidth.Truncate(text, maxWidth, "…")
}

// CenterText pads text on both sides to width columns. Longer text is
// truncated.
func CenterText(text string, width int) string {
	text = FitText(text, width)
	gap := width - runewidth.StringWidth(text)
	left := gap / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", gap-left)
}

// WrapText wraps text at word boundaries so no line is wider than maxWidth.
// Words longer than a line are cut.
func WrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return nil
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{}
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0
	flush := func() {
		if line.Len() > 0 {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
	}

	for _, word := range words {
		w := runewidth.StringWidth(word)
		if lineWidth > 0 && lineWidth+1+w <= maxWidth {
			line.WriteByte(' ')
			line.WriteString(word)
			lineWidth += 1 + w
			continue
		}
		flush()
		for w > maxWidth {
			head := runewidth.Truncate(word, maxWidth, "")
			if head == "" {
				// A single rune wider than the line.
				head = string([]rune(word)[0])
			}
			lines = append(lines, head)
			word = word[len(head):]
			w = runewidth.StringWidth(word)
		}
		if w > 0 {
			line.WriteString(word)
			lineWidth = w
		}
	}
	flush()
	return lines
}
