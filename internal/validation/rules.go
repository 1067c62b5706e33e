// Package validation infers per-column validation rules from column names and
// counts the rows that break them.
package validation

import (
	"strings"
	"time"

	"github.com/Veraticus/dqscore/internal/model"
	"github.com/spf13/cast"
)

// RuleKind is the validation rule attached to a column.
type RuleKind int

const (
	// NoRule accepts every value.
	NoRule RuleKind = iota
	// EmailRule requires an "@" in non-empty values.
	EmailRule
	// PositiveNumericRule requires a number strictly greater than zero.
	PositiveNumericRule
	// TimestampRule requires a value that parses as a point in time.
	TimestampRule
)

// String returns the rule name used in logs and reports.
func (k RuleKind) String() string {
	switch k {
	case EmailRule:
		return "email-format"
	case PositiveNumericRule:
		return "positive-numeric"
	case TimestampRule:
		return "timestamp-parseable"
	default:
		return "none"
	}
}

// Check reports whether v satisfies the rule. Missing values always pass and
// coercion failures are violations.
func (k RuleKind) Check(v model.Value) bool {
	if v.IsMissing() {
		return true
	}

	switch k {
	case EmailRule:
		s, ok := v.Str()
		if !ok {
			// non-text cells never carry an address
			return false
		}
		return s == "" || strings.Contains(s, "@")

	case PositiveNumericRule:
		if _, isTime := v.Time(); isTime {
			return false
		}
		raw := v.Interface()
		if s, ok := v.Str(); ok {
			raw = strings.TrimSpace(s)
		}
		n, err := cast.ToFloat64E(raw)
		if err != nil {
			return false
		}
		return n > 0

	case TimestampRule:
		_, ok := ParseTime(v)
		return ok

	default:
		return true
	}
}

// ParseTime coerces a cell into a time. Timestamp cells are returned as is,
// numbers are read as Unix seconds and strings go through the common layouts.
func ParseTime(v model.Value) (t time.Time, ok bool) {
	switch v.Kind() {
	case model.ValueTimestamp:
		t, _ = v.Time()
		return t, true
	case model.ValueString:
		s, _ := v.Str()
		return parseTimeString(strings.TrimSpace(s))
	case model.ValueNumber:
		parsed, err := cast.ToTimeE(v.Interface())
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	default:
		return time.Time{}, false
	}
}

// fallbackLayouts are tried in order when cast does not recognize a string.
var fallbackLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"Jan 2 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// parseTimeString rejects time-only strings, which parse to year zero.
func parseTimeString(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if parsed, err := cast.ToTimeE(s); err == nil && parsed.Year() != 0 {
		return parsed, true
	}
	for _, layout := range fallbackLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// Matcher pairs a column-name predicate with the rule it selects.
type Matcher struct {
	Match func(lowerName string) bool
	Kind  RuleKind
}

func contains(subs ...string) func(string) bool {
	return func(name string) bool {
		for _, s := range subs {
			if strings.Contains(name, s) {
				return true
			}
		}
		return false
	}
}

// DefaultMatchers is the priority-ordered rule table. The first predicate that
// matches a lowercased column name decides the rule.
func DefaultMatchers() []Matcher {
	return []Matcher{
		{Match: contains("email"), Kind: EmailRule},
		{Match: contains("amount"), Kind: PositiveNumericRule},
		{Match: contains("date", "timestamp"), Kind: TimestampRule},
	}
}

// Rule is the inferred rule for one column.
type Rule struct {
	Column string
	Kind   RuleKind
}

// RuleSet holds one Rule per dataset column, in column order.
type RuleSet []Rule

// InferRule picks the rule for a column name using matchers in order.
func InferRule(column string, matchers []Matcher) RuleKind {
	lower := strings.ToLower(column)
	for _, m := range matchers {
		if m.Match(lower) {
			return m.Kind
		}
	}
	return NoRule
}

// InferRules builds the rule set for every column of ds.
func InferRules(ds *model.Dataset, matchers []Matcher) RuleSet {
	rules := make(RuleSet, 0, ds.ColumnCount())
	for _, name := range ds.ColumnNames() {
		rules = append(rules, Rule{Column: name, Kind: InferRule(name, matchers)})
	}
	return rules
}
