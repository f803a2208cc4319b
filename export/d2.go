package export

import (
	"fmt"
	"strings"

	"careermatrix/core"
	"careermatrix/matrix"
)

// D2Exporter exports templates to D2 syntax
type D2Exporter struct{}

// NewD2Exporter creates a new D2 exporter
func NewD2Exporter() *D2Exporter {
	return &D2Exporter{}
}

// Export converts the template to D2 syntax. Positions become containers.
func (e *D2Exporter) Export(t *matrix.Template) (string, error) {
	if err := checkTemplate(t); err != nil {
		return "", err
	}
	g := buildGraph(t)

	var sb strings.Builder
	if t.Name != "" {
		sb.WriteString(fmt.Sprintf("# %s\n\n", t.Name))
	}
	sb.WriteString("direction: right\n")

	for row, nodes := range g.Rows {
		if len(nodes) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\np%d: %s {\n", row, e.escapeLabel(t.Axes.Positions[row])))
		for _, n := range nodes {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", n.ID, e.escapeLabel(n.Label)))
			if n.styled() {
				sb.WriteString(fmt.Sprintf("  %s.style.fill: \"%s\"\n", n.ID, n.Cell.Background))
				sb.WriteString(fmt.Sprintf("  %s.style.font-color: \"%s\"\n", n.ID, n.Cell.Color))
			}
		}
		sb.WriteString("}\n")
	}

	// Add blank line between containers and connections
	if len(g.Edges) > 0 {
		sb.WriteString("\n")
	}

	// D2 addresses repeated connections between the same pair by index.
	seen := make(map[[2]core.Coord]int)
	for _, a := range g.Edges {
		from, to := e.path(a.From), e.path(a.To)
		if a.Label != "" {
			sb.WriteString(fmt.Sprintf("%s -> %s: %s\n", from, to, e.escapeLabel(a.Label)))
		} else {
			sb.WriteString(fmt.Sprintf("%s -> %s\n", from, to))
		}

		key := [2]core.Coord{a.From, a.To}
		idx := seen[key]
		seen[key]++
		if a.Color != "" {
			sb.WriteString(fmt.Sprintf("(%s -> %s)[%d].style.stroke: \"%s\"\n", from, to, idx, a.Color))
		}
	}
	return sb.String(), nil
}

// path returns the container-qualified id of a cell.
func (e *D2Exporter) path(c core.Coord) string {
	return fmt.Sprintf("p%d.%s", c.Row, nodeID(c))
}

// escapeLabel quotes labels with characters the D2 parser treats specially
func (e *D2Exporter) escapeLabel(label string) string {
	if label == "" || strings.ContainsAny(label, ":-><|{}[]()\"#;.'`$\n") {
		label = strings.ReplaceAll(label, `\`, `\\`)
		label = strings.ReplaceAll(label, `"`, `\"`)
		label = strings.ReplaceAll(label, "\n", `\n`)
		return fmt.Sprintf("\"%s\"", label)
	}
	return label
}

// GetFileExtension returns the recommended file extension
func (e *D2Exporter) GetFileExtension() string {
	return ".d2"
}

// GetFormatName returns the format name
func (e *D2Exporter) GetFormatName() string {
	return "D2"
}
