// Package export converts career matrix templates to text formats
package export

import (
	"fmt"
	"strings"

	"careermatrix/matrix"
)

// Format represents an export format
type Format string

const (
	// FormatASCII renders the table as Unicode box drawing
	FormatASCII Format = "ascii"
	// FormatANSI renders the table with terminal colors
	FormatANSI Format = "ansi"
	// FormatJSON writes the stored template document
	FormatJSON Format = "json"
	// FormatMermaid exports the arrows as a Mermaid flowchart
	FormatMermaid Format = "mermaid"
	// FormatGraphviz exports the arrows as a DOT digraph
	FormatGraphviz Format = "graphviz"
	// FormatD2 exports the arrows as a D2 diagram
	FormatD2 Format = "d2"
)

// Exporter interface for different export formats
type Exporter interface {
	// Export converts a template to the target format
	Export(t *matrix.Template) (string, error)
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatASCII:
		return NewASCIIExporter(), nil
	case FormatANSI:
		return NewANSIExporter(), nil
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatMermaid:
		return NewMermaidExporter(), nil
	case FormatGraphviz:
		return NewGraphvizExporter(), nil
	case FormatD2:
		return NewD2Exporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "ascii", "text", "txt":
		return FormatASCII, nil
	case "ansi", "color":
		return FormatANSI, nil
	case "json":
		return FormatJSON, nil
	case "mermaid", "mmd":
		return FormatMermaid, nil
	case "graphviz", "dot", "gv":
		return FormatGraphviz, nil
	case "d2":
		return FormatD2, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{
		FormatASCII,
		FormatANSI,
		FormatJSON,
		FormatMermaid,
		FormatGraphviz,
		FormatD2,
	}
}

// GetFormatDescriptions returns human-readable descriptions of all formats
func GetFormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatASCII:    "Unicode table with arrows",
		FormatANSI:     "Unicode table with terminal colors",
		FormatJSON:     "Template document as stored",
		FormatMermaid:  "Mermaid flowchart (for Markdown)",
		FormatGraphviz: "Graphviz DOT digraph",
		FormatD2:       "D2 diagram",
	}
}

func checkTemplate(t *matrix.Template) error {
	if t == nil {
		return fmt.Errorf("template is nil")
	}
	if t.Axes.Empty() {
		return fmt.Errorf("template %s has no positions or levels", t.ID)
	}
	return nil
}
