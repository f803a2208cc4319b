package export

import (
	"fmt"
	"strings"

	"careermatrix/matrix"
)

// MermaidExporter exports templates to a Mermaid flowchart
type MermaidExporter struct{}

// NewMermaidExporter creates a new Mermaid exporter
func NewMermaidExporter() *MermaidExporter {
	return &MermaidExporter{}
}

// Export converts the template to Mermaid syntax. Each position becomes a
// subgraph holding its cells; arrows become links.
func (e *MermaidExporter) Export(t *matrix.Template) (string, error) {
	if err := checkTemplate(t); err != nil {
		return "", err
	}
	g := buildGraph(t)

	var sb strings.Builder
	if t.Name != "" {
		sb.WriteString(fmt.Sprintf("%%%% %s\n", t.Name))
	}
	sb.WriteString("flowchart LR\n")

	// Node declarations grouped by position
	classes := make(map[string]string) // fill/color pair -> class name
	var classOrder []string
	var assignments []string
	for row, nodes := range g.Rows {
		if len(nodes) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("    subgraph p%d[\"%s\"]\n", row, e.escapeLabel(t.Axes.Positions[row])))
		for _, n := range nodes {
			sb.WriteString(fmt.Sprintf("        %s[\"%s\"]\n", n.ID, e.escapeLabel(n.Label)))
			if !n.styled() {
				continue
			}
			key := n.Cell.Background + "/" + n.Cell.Color
			name, ok := classes[key]
			if !ok {
				name = fmt.Sprintf("s%d", len(classes))
				classes[key] = name
				classOrder = append(classOrder, key)
			}
			assignments = append(assignments, fmt.Sprintf("    class %s %s", n.ID, name))
		}
		sb.WriteString("    end\n")
	}

	// Add a blank line between nodes and links
	if len(g.Edges) > 0 {
		sb.WriteString("\n")
	}
	for _, a := range g.Edges {
		from, to := nodeID(a.From), nodeID(a.To)
		if a.Label != "" {
			sb.WriteString(fmt.Sprintf("    %s -->|%s| %s\n", from, e.escapeLabel(a.Label), to))
		} else {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", from, to))
		}
	}
	for i, a := range g.Edges {
		if a.Color != "" && a.Color != matrix.DefaultArrowColor {
			sb.WriteString(fmt.Sprintf("    linkStyle %d stroke:%s\n", i, a.Color))
		}
	}

	if len(classOrder) > 0 {
		sb.WriteString("\n")
		for _, key := range classOrder {
			fill, color, _ := strings.Cut(key, "/")
			sb.WriteString(fmt.Sprintf("    classDef %s fill:%s,color:%s\n", classes[key], fill, color))
		}
		for _, line := range assignments {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

// escapeLabel escapes characters that end a quoted Mermaid label
func (e *MermaidExporter) escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `"`, "#quot;")
	label = strings.ReplaceAll(label, `|`, "#124;")
	label = strings.ReplaceAll(label, "\n", "<br/>")
	return label
}

// GetFileExtension returns the recommended file extension
func (e *MermaidExporter) GetFileExtension() string {
	return ".mmd"
}

// GetFormatName returns the format name
func (e *MermaidExporter) GetFormatName() string {
	return "Mermaid"
}
