package editor

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Help categories
type HelpCategory struct {
	Name     string
	Commands []HelpCommand
}

type HelpCommand struct {
	Key         string
	Description string
}

// HelpCategories lists the key bindings handled by HandleKey.
func HelpCategories() []HelpCategory {
	return []HelpCategory{
		{
			Name: "Cells",
			Commands: []HelpCommand{
				{"Enter/click", "Edit the selected cell"},
				{"x/Del", "Clear the selected cell"},
				{"b", "Next background color"},
				{"X", "Clear the whole matrix"},
			},
		},
		{
			Name: "Arrows",
			Commands: []HelpCommand{
				{"a", "Arrow mode: click source, then target"},
				{"c", "Next arrow color"},
				{"n/Tab", "Select next arrow"},
				{"d", "Delete the selected arrow"},
				{"ESC", "Drop a picked source"},
			},
		},
		{
			Name: "Navigation",
			Commands: []HelpCommand{
				{"h/j/k/l", "Move selection (arrow keys work too)"},
				{"Home/End", "First/last level"},
			},
		},
		{
			Name: "Editing text",
			Commands: []HelpCommand{
				{"Enter/ESC", "Commit the cell"},
				{"Ctrl+U", "Discard changes"},
				{"Tab/↑/↓", "Commit and move"},
			},
		},
		{
			Name: "History & file",
			Commands: []HelpCommand{
				{"u/Ctrl+Z", "Undo"},
				{"U/Ctrl+Y", "Redo"},
				{"s/Ctrl+S", "Save"},
				{"?", "Toggle this help"},
				{"q", "Quit"},
			},
		},
	}
}

// GetHelpText returns the help text for display
func GetHelpText() string {
	const inner = 52
	line := func(s string) string {
		pad := max(0, inner-runewidth.StringWidth(s))
		return "║ " + s + strings.Repeat(" ", pad) + " ║\n"
	}
	rule := strings.Repeat("═", inner+2)

	var b strings.Builder
	b.WriteString("╔" + rule + "╗\n")
	b.WriteString(line(fmt.Sprintf("%*s", (inner+len("KEYS"))/2, "KEYS")))
	b.WriteString("╠" + rule + "╣\n")

	categories := HelpCategories()
	for i, cat := range categories {
		b.WriteString(line(cat.Name + ":"))
		for _, cmd := range cat.Commands {
			b.WriteString(line(fmt.Sprintf("  %-12s %s", cmd.Key, cmd.Description)))
		}
		if i < len(categories)-1 {
			b.WriteString(line(""))
		}
	}
	b.WriteString("╚" + rule + "╝")
	return b.String()
}

// GetCompactHelp returns a single-line help hint
func GetCompactHelp() string {
	return "enter:edit a:arrows c:color b:fill n/d:arrow u/U:undo/redo s:save ?:help q:quit"
}
