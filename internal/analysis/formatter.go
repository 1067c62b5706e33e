package analysis

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/dqscore/internal/cli"
	"github.com/Veraticus/dqscore/internal/model"
	"github.com/Veraticus/dqscore/internal/profiling"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// dimensionFormulas labels each dimension row with how it is computed.
var dimensionFormulas = [model.NumDimensions]string{
	model.Completeness: "(1 − Nulls / Total Cells)",
	model.Uniqueness:   "(1 − Duplicate Rows / Total Rows)",
	model.Validity:     "(1 − Invalid Values / Total Rows)",
	model.Accuracy:     "(Proxy = Validity)",
	model.Consistency:  "(Avg of Completeness & Validity)",
	model.Timeliness:   "(1 − Late Records / Total Records)",
	model.Integrity:    "(1 − Broken References / Total Records)",
}

// Formula returns the human-readable formula for d.
func Formula(d model.Dimension) string {
	if d < 0 || int(d) >= model.NumDimensions {
		return ""
	}
	return dimensionFormulas[d]
}

// CLIFormatter renders reports for terminal display.
type CLIFormatter struct {
	styles *Styles
}

// NewCLIFormatter creates a new CLI formatter with default styles.
func NewCLIFormatter() *CLIFormatter {
	return &CLIFormatter{
		styles: NewStyles(),
	}
}

// FormatReport renders the full assessment: header, dimension table,
// composite scores and findings.
func (f *CLIFormatter) FormatReport(report *Report) string {
	if report == nil {
		return f.styles.Error.Render("No report available")
	}

	sections := []string{
		f.formatHeader(report),
		f.styles.Subtitle.Render("Data Quality Dimension Comparison"),
		f.FormatDimensionTable(report),
		f.formatComposites(report),
	}

	for _, ds := range report.Datasets {
		sections = append(sections, f.formatFindings(ds, report.LowThreshold))
	}

	return strings.Join(sections, "\n\n")
}

// FormatDimensionTable renders one row per dimension and one column per dataset.
func (f *CLIFormatter) FormatDimensionTable(report *Report) string {
	headers := make([]string, 0, len(report.Datasets)+1)
	headers = append(headers, "Dimension")
	for _, ds := range report.Datasets {
		headers = append(headers, ds.Kind.DisplayName())
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(f.styles.TableBorder).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return f.styles.TableHeader
			}
			return f.styles.TableCell
		})

	for _, d := range model.Dimensions() {
		cells := make([]string, 0, len(headers))
		cells = append(cells, fmt.Sprintf("%s : %s", d, Formula(d)))
		for _, ds := range report.Datasets {
			cells = append(cells, f.formatScoreCell(ds.Scores.Get(d)))
		}
		t.Row(cells...)
	}

	return t.String()
}

// FormatProfile renders a per-column profile of one dataset.
func (f *CLIFormatter) FormatProfile(name string, summary profiling.Summary) string {
	title := f.styles.Title.Render(fmt.Sprintf("📋 Profile: %s", name))
	stats := f.styles.Subtle.Render(fmt.Sprintf("Rows: %d | Columns: %d | Missing cells: %d | Duplicate rows: %d",
		summary.Rows, len(summary.Columns), summary.TotalNulls(), summary.DuplicateRows))

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(f.styles.TableBorder).
		Headers("Column", "Type", "Nulls", "Null %", "Distinct", "Repeats").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return f.styles.TableHeader
			}
			return f.styles.TableCell
		})

	for _, col := range summary.Columns {
		t.Row(
			col.Name,
			col.Type,
			fmt.Sprintf("%d", col.NullCount),
			fmt.Sprintf("%.2f", col.NullPercent),
			fmt.Sprintf("%d", col.DistinctCount),
			fmt.Sprintf("%d", col.DuplicateCount),
		)
	}

	return title + "\n" + stats + "\n" + t.String()
}

// FormatIssue formats a single issue for detailed display.
func (f *CLIFormatter) FormatIssue(issue Issue) string {
	icon := f.getSeverityIcon(issue.Severity)
	style := f.styles.ForSeverity(issue.Severity)

	header := style.Render(fmt.Sprintf("%s %s: %s", icon, issue.Field, issue.Description))
	meta := f.styles.Subtle.Render(fmt.Sprintf("   Affected: %d | Severity: %s | ID: %s",
		issue.AffectedCount, issue.Severity, issue.ID))
	reason := f.styles.Normal.Render("   " + issue.Reason)

	return strings.Join([]string{header, reason, meta}, "\n")
}

func (f *CLIFormatter) formatHeader(report *Report) string {
	title := f.styles.Title.Render("📊 Data Quality Assessment")

	generated := fmt.Sprintf("Generated: %s | ID: %s",
		report.GeneratedAt.Format(time.RFC3339), report.ID)

	return title + "\n" + f.styles.Subtle.Render(generated)
}

func (f *CLIFormatter) formatComposites(report *Report) string {
	title := f.styles.Subtitle.Render("Overall Data Quality Score (DQS)")

	lines := make([]string, 0, len(report.Datasets))
	for _, ds := range report.Datasets {
		lines = append(lines, f.formatComposite(ds.Kind.DisplayName(), ds.Composite))
	}
	return title + "\n" + strings.Join(lines, "\n")
}

// formatComposite creates a visual representation of a composite score.
func (f *CLIFormatter) formatComposite(label string, score float64) string {
	style := f.styles.ForScore(score)

	var emoji string
	switch {
	case score >= 90:
		emoji = "🎯"
	case score >= 70:
		emoji = "⚠️"
	default:
		emoji = "❌"
	}

	bar := f.styles.RenderProgressBar(score, 30)
	text := fmt.Sprintf("%s %-24s %6.2f / 100", emoji, label, score)
	return style.Render(text) + "  " + style.Render(bar)
}

func (f *CLIFormatter) formatFindings(ds DatasetReport, threshold float64) string {
	title := f.styles.Subtitle.Render(fmt.Sprintf("Findings: %s (%s)", ds.Kind.DisplayName(), ds.Name))

	var parts []string

	if len(ds.Findings.LowDimensions) > 0 {
		low := fmt.Sprintf("Dimensions below %.0f: %s", threshold, strings.Join(ds.Findings.LowDimensions, ", "))
		parts = append(parts, f.styles.Warning.Render(low))
	}

	issues := ds.Findings.AllIssues()
	if len(issues) == 0 && len(parts) == 0 {
		return title + "\n" + f.styles.Success.Render(cli.CheckIcon + " No issues found!")
	}

	if len(ds.Findings.NonRecoverable) > 0 {
		parts = append(parts, f.styles.Error.Render(fmt.Sprintf("Non-recoverable issues: %d", len(ds.Findings.NonRecoverable))))
		for _, issue := range bySeverity(ds.Findings.NonRecoverable) {
			parts = append(parts, f.FormatIssue(issue))
		}
	}
	if len(ds.Findings.Recoverable) > 0 {
		parts = append(parts, f.styles.Info.Render(fmt.Sprintf("Recoverable issues: %d", len(ds.Findings.Recoverable))))
		for _, issue := range bySeverity(ds.Findings.Recoverable) {
			parts = append(parts, f.FormatIssue(issue))
		}
	}

	return title + "\n" + strings.Join(parts, "\n")
}

// bySeverity returns a copy of issues ordered most severe first. Issues of
// equal severity keep their order.
func bySeverity(issues []Issue) []Issue {
	sorted := append([]Issue(nil), issues...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Severity.GetSeverityOrder() < sorted[j].Severity.GetSeverityOrder()
	})
	return sorted
}

func (f *CLIFormatter) formatScoreCell(score model.Score) string {
	value, ok := score.Value()
	if !ok {
		return f.styles.Subtle.Render(score.String())
	}
	return f.styles.ForScore(value).Render(score.String())
}

// getSeverityIcon returns the appropriate icon for a severity level.
func (f *CLIFormatter) getSeverityIcon(severity IssueSeverity) string {
	switch severity {
	case SeverityCritical:
		return "🚨"
	case SeverityHigh:
		return "⚠️"
	case SeverityMedium:
		return "⚡"
	case SeverityLow:
		return "💡"
	default:
		return "•"
	}
}
