// Package dimensions computes the seven data quality dimension scores for a dataset.
package dimensions

import (
	"fmt"
	"math"

	"github.com/Veraticus/dqscore/internal/common"
	"github.com/Veraticus/dqscore/internal/model"
	"github.com/Veraticus/dqscore/internal/validation"
)

// References carries the optional sibling key sets used for integrity checks.
// A nil set disables the corresponding check.
type References struct {
	Customers *model.ReferenceKeySet
	Merchants *model.ReferenceKeySet
}

// Breakdown holds the raw counts behind a ScoreMap.
type Breakdown struct {
	ColumnViolations    map[string]int    `json:"column_violations,omitempty"`
	ColumnRules         map[string]string `json:"column_rules,omitempty"`
	TotalRows           int               `json:"total_rows"`
	TotalCells          int               `json:"total_cells"`
	MissingCells        int               `json:"missing_cells"`
	DuplicateRows       int               `json:"duplicate_rows"`
	InvalidRows         int               `json:"invalid_rows"`
	LateRows            int               `json:"late_rows"`
	IndeterminateDelays int               `json:"indeterminate_delays"`
	BrokenReferences    int               `json:"broken_references"`
	TimelinessChecked   bool              `json:"timeliness_checked"`
	IntegrityChecked    bool              `json:"integrity_checked"`
}

// Result is a ScoreMap together with its Breakdown.
type Result struct {
	Breakdown Breakdown      `json:"breakdown"`
	Scores    model.ScoreMap `json:"scores"`
}

// Calculator computes dimension scores. It is immutable after construction
// and safe for concurrent use.
type Calculator struct {
	validator *validation.Validator
	cfg       Config
}

// New creates a Calculator from cfg, rejecting invalid configuration.
func New(cfg Config) (*Calculator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.clone()
	return &Calculator{
		cfg:       cfg,
		validator: validation.NewValidator(cfg.Matchers...),
	}, nil
}

// Config returns a copy of the calculator configuration.
func (c *Calculator) Config() Config {
	return c.cfg.clone()
}

// Compute returns the seven dimension scores for ds.
func (c *Calculator) Compute(ds *model.Dataset, kind model.DatasetKind, refs References) (model.ScoreMap, error) {
	result, err := c.ComputeDetailed(ds, kind, refs)
	if err != nil {
		return model.ScoreMap{}, err
	}
	return result.Scores, nil
}

// ComputeDetailed returns the scores and the counts they were derived from.
// Data problems never cause an error; only an unknown kind or a nil dataset do.
func (c *Calculator) ComputeDetailed(ds *model.Dataset, kind model.DatasetKind, refs References) (*Result, error) {
	if ds == nil {
		return nil, common.ErrNilDataset
	}
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	var (
		scores model.ScoreMap
		b      = Breakdown{
			TotalRows:  ds.RowCount(),
			TotalCells: ds.CellCount(),
		}
	)

	// Consistency reads Completeness and Validity, so order matters here.
	b.MissingCells = countMissing(ds)
	completeness := ratioScore(b.MissingCells, b.TotalCells)
	scores.Set(model.Completeness, model.Scored(completeness))

	b.DuplicateRows = countDuplicateRows(ds)
	scores.Set(model.Uniqueness, model.Scored(ratioScore(b.DuplicateRows, b.TotalRows)))

	validationResult := c.validator.Validate(ds)
	b.InvalidRows = validationResult.InvalidRows
	b.ColumnViolations = validationResult.ColumnViolations
	b.ColumnRules = make(map[string]string)
	for _, rule := range validationResult.Rules {
		if rule.Kind != validation.NoRule {
			b.ColumnRules[rule.Column] = rule.Kind.String()
		}
	}
	validity := validationResult.Validity()
	scores.Set(model.Validity, model.Scored(validity))

	// accuracy has no ground truth; it mirrors validity
	scores.Set(model.Accuracy, model.Scored(validity))

	scores.Set(model.Consistency, model.Scored(model.Round2((completeness+validity)/2)))

	scores.Set(model.Timeliness, c.timeliness(ds, &b))
	scores.Set(model.Integrity, c.integrity(ds, kind, refs, &b))

	return &Result{Scores: scores, Breakdown: b}, nil
}

// ratioScore returns (1 - bad/total) × 100 rounded, or 100 when total is zero.
func ratioScore(bad, total int) float64 {
	if total == 0 {
		return 100.0
	}
	return model.Round2((1 - float64(bad)/float64(total)) * 100)
}

func countMissing(ds *model.Dataset) int {
	missing := 0
	for _, col := range ds.Columns() {
		for _, v := range col.Values {
			if v.IsMissing() {
				missing++
			}
		}
	}
	return missing
}

// countDuplicateRows counts every repeat of a previously seen row tuple.
// First occurrences are not counted.
func countDuplicateRows(ds *model.Dataset) int {
	seen := make(map[string]struct{}, ds.RowCount())
	duplicates := 0
	for i := 0; i < ds.RowCount(); i++ {
		key := ds.RowKey(i)
		if _, ok := seen[key]; ok {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
	}
	return duplicates
}

func (c *Calculator) timeliness(ds *model.Dataset, b *Breakdown) model.Score {
	txnCol, ok := ds.Column(c.cfg.TransactionTimestampColumn)
	if !ok {
		return model.NotApplicable()
	}
	settleCol, ok := ds.Column(c.cfg.SettlementDateColumn)
	if !ok {
		return model.NotApplicable()
	}
	channelCol, hasChannel := ds.Column(c.cfg.PaymentChannelColumn)

	b.TimelinessChecked = true
	for row := 0; row < ds.RowCount(); row++ {
		delay, ok := delayDays(txnCol.Values[row], settleCol.Values[row])
		if !ok {
			b.IndeterminateDelays++
			continue
		}

		sla := c.cfg.DefaultSLADays
		if hasChannel {
			sla = c.cfg.slaFor(channelCol.Values[row].Key())
		}
		if delay > sla {
			b.LateRows++
		}
	}

	return model.Scored(ratioScore(b.LateRows, b.TotalRows))
}

// delayDays returns settlement minus transaction time in whole days, floored.
func delayDays(txn, settle model.Value) (int, bool) {
	start, ok := validation.ParseTime(txn)
	if !ok {
		return 0, false
	}
	end, ok := validation.ParseTime(settle)
	if !ok {
		return 0, false
	}
	return int(math.Floor(end.Sub(start).Hours() / 24)), true
}

func (c *Calculator) integrity(ds *model.Dataset, kind model.DatasetKind, refs References, b *Breakdown) model.Score {
	if kind != model.KindTransaction {
		return model.NotApplicable()
	}

	checks := []struct {
		refs   *model.ReferenceKeySet
		column string
	}{
		{refs: refs.Customers, column: c.cfg.CustomerIDColumn},
		{refs: refs.Merchants, column: c.cfg.MerchantIDColumn},
	}

	for _, check := range checks {
		if check.refs == nil {
			continue
		}
		col, ok := ds.Column(check.column)
		if !ok {
			continue
		}
		b.IntegrityChecked = true
		for _, v := range col.Values {
			if !check.refs.Contains(v) {
				b.BrokenReferences++
			}
		}
	}

	if !b.IntegrityChecked {
		return model.NotApplicable()
	}
	// broken references are additive across checks and may exceed the row count
	return model.Scored(ratioScore(b.BrokenReferences, b.TotalRows))
}

// String renders a one-line summary for debug logs.
func (b Breakdown) String() string {
	return fmt.Sprintf("rows=%d missing=%d duplicates=%d invalid=%d late=%d broken_refs=%d",
		b.TotalRows, b.MissingCells, b.DuplicateRows, b.InvalidRows, b.LateRows, b.BrokenReferences)
}
