package export

import (
	"fmt"
	"io"
	"strings"

	"careermatrix/canvas"
	"careermatrix/connections"
	"careermatrix/geometry"
	"careermatrix/matrix"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ASCIIExporter renders templates as a Unicode table with arrows
type ASCIIExporter struct {
	layout canvas.LayoutOptions
	color  bool
	style  *lipgloss.Renderer
}

// NewASCIIExporter creates a new plain-text table exporter
func NewASCIIExporter() *ASCIIExporter {
	return &ASCIIExporter{layout: canvas.DefaultLayoutOptions()}
}

// NewANSIExporter creates a table exporter that keeps cell and arrow colors
// as 24-bit ANSI escapes, whatever the output is.
func NewANSIExporter() *ASCIIExporter {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	return &ASCIIExporter{layout: canvas.DefaultLayoutOptions(), color: true, style: r}
}

// Export draws the template
func (e *ASCIIExporter) Export(t *matrix.Template) (string, error) {
	if err := checkTemplate(t); err != nil {
		return "", err
	}

	table := canvas.Layout(t.Axes, t.Snapshot.Cells, e.layout)
	paths := connections.ResolvePaths(t.Snapshot.Arrows, geometry.LookupFunc(table.Rect), 1)
	c, _ := canvas.Render(table, canvas.Scene{
		Axes:        t.Axes,
		Cells:       t.Snapshot.Cells,
		Paths:       paths,
		CornerLabel: t.Name,
		Plain:       !e.color,
	})
	if c == nil {
		return "", fmt.Errorf("failed to render template %s", t.ID)
	}
	if !e.color {
		return c.String() + "\n", nil
	}
	return e.colored(c), nil
}

// colored writes each line as runs of identically styled glyphs.
func (e *ASCIIExporter) colored(c *canvas.MatrixCanvas) string {
	_, h := c.Size()
	var sb strings.Builder
	for y := 0; y < h; y++ {
		row := c.Row(y)
		for start := 0; start < len(row); {
			end := start + 1
			for end < len(row) && sameStyle(row[start], row[end]) {
				end++
			}
			var run strings.Builder
			for _, g := range row[start:end] {
				if g.Rune != '\x00' {
					run.WriteRune(g.Rune)
				}
			}
			sb.WriteString(e.styleFor(row[start]).Render(run.String()))
			start = end
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func sameStyle(a, b canvas.Glyph) bool {
	return a.FG == b.FG && a.BG == b.BG && a.Bold == b.Bold
}

func (e *ASCIIExporter) styleFor(g canvas.Glyph) lipgloss.Style {
	s := e.style.NewStyle().Bold(g.Bold)
	if g.FG != "" {
		s = s.Foreground(lipgloss.Color(g.FG))
	}
	if g.BG != "" {
		s = s.Background(lipgloss.Color(g.BG))
	}
	return s
}

// GetFileExtension returns the recommended file extension
func (e *ASCIIExporter) GetFileExtension() string {
	if e.color {
		return ".ans"
	}
	return ".txt"
}

// GetFormatName returns the format name
func (e *ASCIIExporter) GetFormatName() string {
	if e.color {
		return "ANSI color table"
	}
	return "Unicode table"
}
