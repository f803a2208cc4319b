package export

import (
	"encoding/json"
	"fmt"

	"careermatrix/matrix"
)

// JSONExporter exports templates in the storage format
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export converts a template to indented JSON
func (e *JSONExporter) Export(t *matrix.Template) (string, error) {
	if t == nil {
		return "", fmt.Errorf("template is nil")
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

// GetFileExtension returns the file extension for JSON
func (e *JSONExporter) GetFileExtension() string {
	return ".json"
}

// GetFormatName returns the format name
func (e *JSONExporter) GetFormatName() string {
	return "JSON"
}
