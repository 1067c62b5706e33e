package validation

import (
	"github.com/Veraticus/dqscore/internal/model"
)

// Result summarizes one validation pass over a dataset.
type Result struct {
	// ColumnViolations counts invalid cells per ruled column.
	ColumnViolations map[string]int
	Rules            RuleSet
	// InvalidRows counts rows with at least one violation. A row with several
	// invalid cells counts once.
	InvalidRows int
	TotalRows   int
}

// Validity returns (1 - InvalidRows/TotalRows) × 100 rounded to two
// decimals, or 100 for an empty dataset.
func (r Result) Validity() float64 {
	if r.TotalRows == 0 {
		return 100.0
	}
	return model.Round2((1 - float64(r.InvalidRows)/float64(r.TotalRows)) * 100)
}

// Validator evaluates name-inferred rules against datasets.
// It holds no per-call state and is safe for concurrent use.
type Validator struct {
	matchers []Matcher
}

// NewValidator creates a validator. With no matchers the default table is used.
func NewValidator(matchers ...Matcher) *Validator {
	if len(matchers) == 0 {
		matchers = DefaultMatchers()
	}
	return &Validator{matchers: matchers}
}

// Rules returns the rule set the validator would apply to ds.
func (v *Validator) Rules(ds *model.Dataset) RuleSet {
	return InferRules(ds, v.matchers)
}

// Validate checks every cell against its column rule. Malformed cells are
// counted as violations; Validate never fails.
func (v *Validator) Validate(ds *model.Dataset) Result {
	rules := v.Rules(ds)
	result := Result{
		Rules:            rules,
		TotalRows:        ds.RowCount(),
		ColumnViolations: make(map[string]int),
	}
	if ds.RowCount() == 0 {
		return result
	}

	invalid := make([]bool, ds.RowCount())
	for i, col := range ds.Columns() {
		rule := rules[i].Kind
		if rule == NoRule {
			continue
		}
		for row, cell := range col.Values {
			if rule.Check(cell) {
				continue
			}
			result.ColumnViolations[col.Name]++
			if !invalid[row] {
				invalid[row] = true
				result.InvalidRows++
			}
		}
	}

	return result
}

// CountInvalidRows returns the number of distinct rows failing any rule.
func (v *Validator) CountInvalidRows(ds *model.Dataset) int {
	return v.Validate(ds).InvalidRows
}
