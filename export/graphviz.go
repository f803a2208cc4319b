package export

import (
	"fmt"
	"strings"

	"careermatrix/matrix"
)

// GraphvizExporter exports templates to Graphviz DOT syntax
type GraphvizExporter struct{}

// NewGraphvizExporter creates a new Graphviz exporter
func NewGraphvizExporter() *GraphvizExporter {
	return &GraphvizExporter{}
}

// Export converts the template to a DOT digraph. Positions become clusters
// and cells keep their colors.
func (e *GraphvizExporter) Export(t *matrix.Template) (string, error) {
	if err := checkTemplate(t); err != nil {
		return "", err
	}
	g := buildGraph(t)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("digraph \"%s\" {\n", e.escapeLabel(t.Name)))

	// Global attributes
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=\"#FFFFFF\"];\n")
	sb.WriteString("  edge [arrowhead=normal];\n")

	for row, nodes := range g.Rows {
		if len(nodes) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n  subgraph cluster_p%d {\n", row))
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", e.escapeLabel(t.Axes.Positions[row])))
		for _, n := range nodes {
			attrs := []string{fmt.Sprintf("label=\"%s\"", e.escapeLabel(n.Label))}
			if n.styled() {
				attrs = append(attrs,
					fmt.Sprintf("fillcolor=\"%s\"", n.Cell.Background),
					fmt.Sprintf("fontcolor=\"%s\"", n.Cell.Color))
			}
			sb.WriteString(fmt.Sprintf("    %s [%s];\n", n.ID, strings.Join(attrs, ", ")))
		}
		sb.WriteString("  }\n")
	}

	// Add blank line between nodes and edges
	if len(g.Edges) > 0 {
		sb.WriteString("\n")
	}
	for _, a := range g.Edges {
		attrs := e.getEdgeAttributes(a)
		if attrs != "" {
			sb.WriteString(fmt.Sprintf("  %s -> %s [%s];\n", nodeID(a.From), nodeID(a.To), attrs))
		} else {
			sb.WriteString(fmt.Sprintf("  %s -> %s;\n", nodeID(a.From), nodeID(a.To)))
		}
	}

	sb.WriteString("}\n")
	return sb.String(), nil
}

func (e *GraphvizExporter) getEdgeAttributes(a matrix.Arrow) string {
	var attrs []string
	if a.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=\"%s\"", e.escapeLabel(a.Label)))
	}
	if a.Color != "" {
		attrs = append(attrs, fmt.Sprintf("color=\"%s\"", a.Color))
	}
	return strings.Join(attrs, ", ")
}

// escapeLabel escapes special characters in labels
func (e *GraphvizExporter) escapeLabel(label string) string {
	// Escape quotes and backslashes
	label = strings.ReplaceAll(label, `\`, `\\`)
	label = strings.ReplaceAll(label, `"`, `\"`)
	label = strings.ReplaceAll(label, "\n", `\n`)
	return label
}

// GetFileExtension returns the recommended file extension
func (e *GraphvizExporter) GetFileExtension() string {
	return ".dot"
}

// GetFormatName returns the format name
func (e *GraphvizExporter) GetFormatName() string {
	return "Graphviz DOT"
}
