package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// JSONValidator decodes and checks serialized reports, such as those read
// back from history storage.
type JSONValidator struct{}

// NewJSONValidator creates a new JSON validator instance.
func NewJSONValidator() *JSONValidator {
	return &JSONValidator{}
}

// Validate checks that data is a well-formed report.
func (v *JSONValidator) Validate(data []byte) (*Report, error) {
	var report Report
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&report); err != nil {
		return nil, fmt.Errorf("failed to parse JSON report: %w", err)
	}

	if err := report.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report structure: %w", err)
	}

	for i := range report.Datasets {
		for j, issue := range report.Datasets[i].Findings.AllIssues() {
			if err := validateSeverity(issue.Severity); err != nil {
				return nil, fmt.Errorf("invalid issue at index %d of dataset %q: %w", j, report.Datasets[i].Name, err)
			}
		}
	}

	return &report, nil
}

// ExtractError identifies the problematic section of malformed JSON.
func (v *JSONValidator) ExtractError(data []byte, err error) (section string, line int, column int) {
	section = "unknown"

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, column = calculatePosition(data, syntaxErr.Offset)

		start := syntaxErr.Offset - 50
		if start < 0 {
			start = 0
		}
		end := syntaxErr.Offset + 50
		if end > int64(len(data)) {
			end = int64(len(data))
		}
		return string(data[start:end]), line, column
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		line, column = calculatePosition(data, typeErr.Offset)
		section = fmt.Sprintf("field '%s' (expected %s)", typeErr.Field, typeErr.Type.String())
		return section, line, column
	}

	if strings.Contains(err.Error(), "dataset") {
		section = extractFieldContext(data, "datasets")
	}

	return section, line, column
}

// calculatePosition converts a byte offset to line and column numbers.
func calculatePosition(data []byte, offset int64) (line int, column int) {
	line = 1
	column = 1

	for i := int64(0); i < offset && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}

	return
}

// extractFieldContext returns up to 100 bytes starting at the named JSON field.
func extractFieldContext(data []byte, field string) string {
	idx := bytes.Index(data, []byte(fmt.Sprintf(`"%s"`, field)))
	if idx < 0 {
		return "field"
	}
	end := idx + 100
	if end > len(data) {
		end = len(data)
	}
	return string(data[idx:end])
}

func validateSeverity(severity IssueSeverity) error {
	switch severity {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return nil
	default:
		return fmt.Errorf("invalid issue severity: %s", severity)
	}
}
