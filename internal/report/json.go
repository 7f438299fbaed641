package report

import (
	"encoding/json"
	"fmt"

	"github.com/Veraticus/medplan/internal/model"
)

// JSONFormatter renders results as indented JSON.
type JSONFormatter struct {
	Indent string
}

// NewJSONFormatter creates a JSONFormatter with two-space indentation.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{Indent: "  "}
}

// Format implements Formatter.
func (f *JSONFormatter) Format(result *model.PlanningResult) (string, error) {
	if result == nil {
		return "", fmt.Errorf("no result to format")
	}
	data, err := json.MarshalIndent(result, "", f.Indent)
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(data) + "\n", nil
}
