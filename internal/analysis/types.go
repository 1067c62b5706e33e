// Package analysis turns dimension scores into assessment reports, findings,
// and terminal output.
package analysis

import (
	"fmt"
	"math"
	"time"

	"github.com/Veraticus/dqscore/internal/dimensions"
	"github.com/Veraticus/dqscore/internal/model"
)

// IssueSeverity represents the severity level of an identified issue.
type IssueSeverity string

const (
	// SeverityCritical indicates an issue requiring immediate attention.
	SeverityCritical IssueSeverity = "critical"
	// SeverityHigh indicates a significant issue that should be addressed soon.
	SeverityHigh IssueSeverity = "high"
	// SeverityMedium indicates a moderate issue that can be scheduled for resolution.
	SeverityMedium IssueSeverity = "medium"
	// SeverityLow indicates a minor issue.
	SeverityLow IssueSeverity = "low"
)

// IssueType categorizes the type of issue identified.
type IssueType string

const (
	// IssueTypeMissingValues indicates a column with null cells.
	IssueTypeMissingValues IssueType = "missing_values"
	// IssueTypeInvalidValues indicates a column whose cells break its validation rule.
	IssueTypeInvalidValues IssueType = "invalid_values"
)

// Issue represents a specific problem identified in a dataset column.
type Issue struct {
	ID            string        `json:"id"`
	Type          IssueType     `json:"type"`
	Severity      IssueSeverity `json:"severity"`
	Field         string        `json:"field"`
	Description   string        `json:"description"`
	Reason        string        `json:"reason"`
	AffectedCount int           `json:"affected_count"`
	Percent       float64       `json:"percent"`
	Recoverable   bool          `json:"recoverable"`
}

// Findings groups the issues of one dataset.
type Findings struct {
	Recoverable    []Issue  `json:"recoverable_issues"`
	NonRecoverable []Issue  `json:"non_recoverable_issues"`
	LowDimensions  []string `json:"low_dimensions"`
}

// DatasetReport holds the scores and findings for one dataset.
type DatasetReport struct {
	Name      string               `json:"name"`
	Kind      model.DatasetKind    `json:"kind"`
	Source    string               `json:"source,omitempty"`
	Findings  Findings             `json:"findings"`
	Breakdown dimensions.Breakdown `json:"breakdown"`
	Scores    model.ScoreMap       `json:"scores"`
	Rows      int                  `json:"rows"`
	Columns   int                  `json:"columns"`
	Composite float64              `json:"composite"`
}

// Report contains the complete results of one assessment.
type Report struct {
	GeneratedAt  time.Time       `json:"generated_at"`
	ID           string          `json:"id"`
	Datasets     []DatasetReport `json:"datasets"`
	LowThreshold float64         `json:"low_threshold"`
}

// Validate ensures the Report is well-formed.
func (r *Report) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("report ID is required")
	}
	if r.GeneratedAt.IsZero() {
		return fmt.Errorf("generated at is required")
	}
	if len(r.Datasets) == 0 {
		return fmt.Errorf("report must contain at least one dataset")
	}
	seen := make(map[model.DatasetKind]bool, len(r.Datasets))
	for i := range r.Datasets {
		ds := &r.Datasets[i]
		if err := ds.Validate(); err != nil {
			return fmt.Errorf("invalid dataset at index %d: %w", i, err)
		}
		if seen[ds.Kind] {
			return fmt.Errorf("duplicate dataset kind %q", ds.Kind)
		}
		seen[ds.Kind] = true
	}
	return nil
}

// Validate ensures the DatasetReport is well-formed.
func (d *DatasetReport) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("dataset name is required")
	}
	if err := d.Kind.Validate(); err != nil {
		return err
	}
	if d.Rows < 0 || d.Columns < 0 {
		return fmt.Errorf("row and column counts must be non-negative")
	}
	if math.IsNaN(d.Composite) || d.Composite > 100 {
		return fmt.Errorf("composite score must be a number no greater than 100")
	}
	for _, issue := range d.Findings.Recoverable {
		if err := issue.Validate(); err != nil {
			return err
		}
	}
	for _, issue := range d.Findings.NonRecoverable {
		if err := issue.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate ensures the Issue is valid.
func (i *Issue) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("issue ID is required")
	}
	if i.Type == "" {
		return fmt.Errorf("issue type is required")
	}
	if i.Severity == "" {
		return fmt.Errorf("issue severity is required")
	}
	if i.Description == "" {
		return fmt.Errorf("issue description is required")
	}
	if i.AffectedCount < 0 {
		return fmt.Errorf("affected count must be non-negative")
	}
	return nil
}

// GetSeverityOrder returns the numeric priority of a severity (lower is more severe).
func (s IssueSeverity) GetSeverityOrder() int {
	switch s {
	case SeverityCritical:
		return 1
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 3
	case SeverityLow:
		return 4
	default:
		return 5
	}
}

// Dataset returns the report for kind, if present.
func (r *Report) Dataset(kind model.DatasetKind) (*DatasetReport, bool) {
	for i := range r.Datasets {
		if r.Datasets[i].Kind == kind {
			return &r.Datasets[i], true
		}
	}
	return nil, false
}

// AllIssues returns non-recoverable issues followed by recoverable ones.
func (f Findings) AllIssues() []Issue {
	all := make([]Issue, 0, len(f.NonRecoverable)+len(f.Recoverable))
	all = append(all, f.NonRecoverable...)
	return append(all, f.Recoverable...)
}
