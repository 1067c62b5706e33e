package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/dqscore/internal/dimensions"
	"github.com/Veraticus/dqscore/internal/model"
	"github.com/Veraticus/dqscore/internal/profiling"
	"github.com/Veraticus/dqscore/internal/scoring"
)

// Columns whose gaps can be filled from onboarding or external reference data.
var enrichableFields = map[string]bool{
	"address": true,
	"email":   true,
	"phone":   true,
	"city":    true,
	"country": true,
}

// Core identifiers; a missing one needs an upstream correction.
var identifierFields = map[string]bool{
	"transaction_id": true,
	"customer_id":    true,
	"merchant_id":    true,
}

const (
	reasonEnrichable  = "Can be enriched from customer onboarding or external reference data"
	reasonIdentifier  = "Core identifier missing, requires upstream system correction"
	reasonReprocess   = "Likely recoverable through reprocessing or validation rules"
	reasonInvalidRule = "Values break the inferred %s rule and should be corrected at the source"
)

// Derive builds the deterministic findings for one dataset: a missing-values
// issue per column with nulls, an invalid-values issue per column breaking its
// rule, and the scored dimensions below threshold.
func Derive(ds *model.Dataset, scores model.ScoreMap, breakdown dimensions.Breakdown, threshold float64) Findings {
	findings := Findings{
		Recoverable:    []Issue{},
		NonRecoverable: []Issue{},
		LowDimensions:  []string{},
	}

	for _, d := range scoring.LowDimensions(scores, threshold) {
		findings.LowDimensions = append(findings.LowDimensions, d.String())
	}

	rows := ds.RowCount()
	if rows == 0 {
		return findings
	}

	summary := profiling.Summarize(ds)
	for _, col := range summary.Columns {
		if col.NullCount == 0 {
			continue
		}
		issue := missingValuesIssue(col)
		if issue.Recoverable {
			findings.Recoverable = append(findings.Recoverable, issue)
		} else {
			findings.NonRecoverable = append(findings.NonRecoverable, issue)
		}
	}

	findings.Recoverable = append(findings.Recoverable, invalidValueIssues(breakdown, rows)...)
	return findings
}

func missingValuesIssue(col profiling.ColumnProfile) Issue {
	field := strings.ToLower(col.Name)
	issue := Issue{
		ID:            fmt.Sprintf("missing-%s", field),
		Type:          IssueTypeMissingValues,
		Field:         col.Name,
		Description:   fmt.Sprintf("%.2f%% missing values", col.NullPercent),
		AffectedCount: col.NullCount,
		Percent:       col.NullPercent,
		Recoverable:   true,
		Severity:      SeverityMedium,
		Reason:        reasonReprocess,
	}

	switch {
	case enrichableFields[field]:
		issue.Reason = reasonEnrichable
	case identifierFields[field]:
		issue.Recoverable = false
		issue.Severity = SeverityHigh
		issue.Reason = reasonIdentifier
	}
	return issue
}

func invalidValueIssues(breakdown dimensions.Breakdown, rows int) []Issue {
	columns := make([]string, 0, len(breakdown.ColumnViolations))
	for name := range breakdown.ColumnViolations {
		columns = append(columns, name)
	}
	sort.Strings(columns)

	issues := make([]Issue, 0, len(columns))
	for _, name := range columns {
		count := breakdown.ColumnViolations[name]
		pct := model.Round2(float64(count) / float64(rows) * 100)
		issues = append(issues, Issue{
			ID:            fmt.Sprintf("invalid-%s", strings.ToLower(name)),
			Type:          IssueTypeInvalidValues,
			Severity:      SeverityMedium,
			Field:         name,
			Description:   fmt.Sprintf("%.2f%% invalid values", pct),
			Reason:        fmt.Sprintf(reasonInvalidRule, breakdown.ColumnRules[name]),
			AffectedCount: count,
			Percent:       pct,
			Recoverable:   true,
		})
	}
	return issues
}
