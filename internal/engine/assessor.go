// Package engine runs assessments: it scores the supplied datasets
// concurrently and assembles the composite report.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/dqscore/internal/analysis"
	"github.com/Veraticus/dqscore/internal/common"
	"github.com/Veraticus/dqscore/internal/dimensions"
	"github.com/Veraticus/dqscore/internal/metrics"
	"github.com/Veraticus/dqscore/internal/model"
	"github.com/Veraticus/dqscore/internal/scoring"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

// NamedDataset is a dataset together with the labels shown in reports.
type NamedDataset struct {
	Data   *model.Dataset
	Name   string
	Source string
}

// Inputs holds the datasets of one assessment. Any of them may be nil.
type Inputs struct {
	Transactions *NamedDataset
	KYC          *NamedDataset
	Merchants    *NamedDataset
}

type kindInput struct {
	input *NamedDataset
	kind  model.DatasetKind
}

// present returns the supplied datasets in reporting order.
func (in Inputs) present() []kindInput {
	all := []kindInput{
		{kind: model.KindTransaction, input: in.Transactions},
		{kind: model.KindKYC, input: in.KYC},
		{kind: model.KindMerchant, input: in.Merchants},
	}
	present := make([]kindInput, 0, len(all))
	for _, ki := range all {
		if ki.input != nil {
			present = append(present, ki)
		}
	}
	return present
}

// Assessor scores datasets and builds reports. It holds no per-call state
// and is safe for concurrent use.
type Assessor struct {
	calc         *dimensions.Calculator
	scorer       *scoring.Scorer
	clock        clockwork.Clock
	onScored     func(model.DatasetKind)
	lowThreshold float64
}

// Option configures an Assessor.
type Option func(*Assessor)

// WithClock sets the clock used to stamp reports and time scoring.
func WithClock(clock clockwork.Clock) Option {
	return func(a *Assessor) {
		a.clock = clock
	}
}

// WithLowThreshold sets the score below which a dimension is reported as low.
func WithLowThreshold(threshold float64) Option {
	return func(a *Assessor) {
		a.lowThreshold = threshold
	}
}

// WithScoredHook registers fn to be called after each dataset is scored.
// fn may be called from several goroutines at once.
func WithScoredHook(fn func(model.DatasetKind)) Option {
	return func(a *Assessor) {
		a.onScored = fn
	}
}

// NewAssessor creates an Assessor from a calculator and a scorer.
func NewAssessor(calc *dimensions.Calculator, scorer *scoring.Scorer, opts ...Option) *Assessor {
	a := &Assessor{
		calc:         calc,
		scorer:       scorer,
		clock:        clockwork.NewRealClock(),
		lowThreshold: scoring.DefaultLowThreshold,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assess scores every supplied dataset. Transaction integrity is checked
// against the customer IDs of the KYC dataset and the merchant IDs of the
// merchant dataset, when those are supplied.
func (a *Assessor) Assess(ctx context.Context, in Inputs) (*analysis.Report, error) {
	inputs := in.present()
	if len(inputs) == 0 {
		return nil, common.ErrNoDatasets
	}

	refs := a.references(in)
	slog.Info("Starting assessment", "datasets", len(inputs))

	results := make([]analysis.DatasetReport, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	for i, ki := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := a.scoreDataset(ki, refs)
			if err != nil {
				return err
			}
			results[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		metrics.AssessmentsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	report := &analysis.Report{
		ID:           uuid.NewString(),
		GeneratedAt:  a.clock.Now().UTC(),
		Datasets:     results,
		LowThreshold: a.lowThreshold,
	}
	metrics.AssessmentsTotal.WithLabelValues("success").Inc()
	slog.Info("Assessment complete", "id", report.ID, "datasets", len(results))
	return report, nil
}

func (a *Assessor) references(in Inputs) dimensions.References {
	cfg := a.calc.Config()
	var refs dimensions.References
	if in.KYC != nil {
		refs.Customers = model.KeySetFromColumn(in.KYC.Data, cfg.CustomerIDColumn)
	}
	if in.Merchants != nil {
		refs.Merchants = model.KeySetFromColumn(in.Merchants.Data, cfg.MerchantIDColumn)
	}
	return refs
}

func (a *Assessor) scoreDataset(ki kindInput, refs dimensions.References) (analysis.DatasetReport, error) {
	kind := string(ki.kind)
	start := a.clock.Now()

	result, err := a.calc.ComputeDetailed(ki.input.Data, ki.kind, refs)
	if err != nil {
		metrics.DatasetsScoredTotal.WithLabelValues(kind, "error").Inc()
		return analysis.DatasetReport{}, fmt.Errorf("failed to score %s: %w", ki.kind.DisplayName(), err)
	}

	composite := a.scorer.Composite(result.Scores)
	name := ki.input.Name
	if name == "" {
		name = ki.kind.DisplayName()
	}

	report := analysis.DatasetReport{
		Name:      name,
		Kind:      ki.kind,
		Source:    ki.input.Source,
		Scores:    result.Scores,
		Breakdown: result.Breakdown,
		Composite: composite,
		Rows:      ki.input.Data.RowCount(),
		Columns:   ki.input.Data.ColumnCount(),
		Findings:  analysis.Derive(ki.input.Data, result.Scores, result.Breakdown, a.lowThreshold),
	}

	recordMetrics(report, a.clock.Since(start).Seconds())
	common.LogDebug("Scored dataset", common.Fields{
		"kind":      kind,
		"name":      name,
		"composite": composite,
		"breakdown": result.Breakdown.String(),
	})

	if a.onScored != nil {
		a.onScored(ki.kind)
	}
	return report, nil
}

func recordMetrics(report analysis.DatasetReport, seconds float64) {
	kind := string(report.Kind)
	metrics.DatasetsScoredTotal.WithLabelValues(kind, "success").Inc()
	metrics.ScoringDuration.WithLabelValues(kind).Observe(seconds)
	metrics.CompositeScore.WithLabelValues(kind).Set(report.Composite)
	metrics.DatasetRows.WithLabelValues(kind).Set(float64(report.Rows))

	for _, d := range model.Dimensions() {
		if v, ok := report.Scores.Get(d).Value(); ok {
			metrics.DimensionScore.WithLabelValues(kind, d.String()).Set(v)
		} else {
			metrics.DimensionScore.DeleteLabelValues(kind, d.String())
		}
	}
}
