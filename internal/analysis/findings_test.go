package analysis

import (
	"testing"

	"github.com/Veraticus/dqscore/internal/dimensions"
	"github.com/Veraticus/dqscore/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allScored(v float64) model.ScoreMap {
	var scores model.ScoreMap
	for _, d := range model.Dimensions() {
		scores.Set(d, model.Scored(v))
	}
	return scores
}

func TestDerive_MissingValueClassification(t *testing.T) {
	ds, err := model.NewDataset(
		model.Column{Name: "customer_id", Values: []model.Value{model.String("C1"), model.Missing()}},
		model.Column{Name: "email", Values: []model.Value{model.Missing(), model.Missing()}},
		model.Column{Name: "segment", Values: []model.Value{model.String("retail"), model.Missing()}},
		model.Column{Name: "name", Values: []model.Value{model.String("a"), model.String("b")}},
	)
	require.NoError(t, err)

	findings := Derive(ds, allScored(100), dimensions.Breakdown{}, 85)

	require.Len(t, findings.NonRecoverable, 1)
	nr := findings.NonRecoverable[0]
	assert.Equal(t, "customer_id", nr.Field)
	assert.Equal(t, SeverityHigh, nr.Severity)
	assert.False(t, nr.Recoverable)
	assert.Equal(t, 1, nr.AffectedCount)
	assert.InDelta(t, 50.0, nr.Percent, 1e-9)
	assert.Equal(t, reasonIdentifier, nr.Reason)

	require.Len(t, findings.Recoverable, 2)
	assert.Equal(t, "email", findings.Recoverable[0].Field)
	assert.Equal(t, reasonEnrichable, findings.Recoverable[0].Reason)
	assert.Equal(t, "100.00% missing values", findings.Recoverable[0].Description)
	assert.Equal(t, "segment", findings.Recoverable[1].Field)
	assert.Equal(t, reasonReprocess, findings.Recoverable[1].Reason)
	assert.Equal(t, SeverityMedium, findings.Recoverable[1].Severity)

	assert.Empty(t, findings.LowDimensions)
}

func TestDerive_LowDimensions(t *testing.T) {
	ds, err := model.NewDataset(model.Column{Name: "a", Values: []model.Value{model.Number(1)}})
	require.NoError(t, err)

	scores := allScored(100)
	scores.Set(model.Validity, model.Scored(84.99))
	scores.Set(model.Timeliness, model.Scored(85))
	scores.Set(model.Integrity, model.NotApplicable())

	findings := Derive(ds, scores, dimensions.Breakdown{}, 85)
	assert.Equal(t, []string{"Validity"}, findings.LowDimensions)
}

func TestDerive_InvalidValues(t *testing.T) {
	ds, err := model.NewDataset(
		model.Column{Name: "email", Values: []model.Value{model.String("x"), model.String("a@b.c"), model.String("y"), model.String("z")}},
		model.Column{Name: "amount", Values: []model.Value{model.Number(-1), model.Number(1), model.Number(2), model.Number(3)}},
	)
	require.NoError(t, err)

	breakdown := dimensions.Breakdown{
		ColumnViolations: map[string]int{"email": 3, "amount": 1},
		ColumnRules:      map[string]string{"email": "email-format", "amount": "positive-numeric"},
	}
	findings := Derive(ds, allScored(100), breakdown, 85)

	require.Len(t, findings.Recoverable, 2)
	// sorted by column name
	amount := findings.Recoverable[0]
	assert.Equal(t, "invalid-amount", amount.ID)
	assert.Equal(t, IssueTypeInvalidValues, amount.Type)
	assert.InDelta(t, 25.0, amount.Percent, 1e-9)
	assert.Contains(t, amount.Reason, "positive-numeric")

	email := findings.Recoverable[1]
	assert.Equal(t, 3, email.AffectedCount)
	assert.InDelta(t, 75.0, email.Percent, 1e-9)
	assert.Empty(t, findings.NonRecoverable)
}

func TestDerive_EmptyDataset(t *testing.T) {
	ds, err := model.NewDataset(model.Column{Name: "customer_id"})
	require.NoError(t, err)

	findings := Derive(ds, allScored(100), dimensions.Breakdown{}, 85)
	assert.NotNil(t, findings.Recoverable)
	assert.NotNil(t, findings.NonRecoverable)
	assert.Empty(t, findings.AllIssues())
}

func TestDerive_FromCalculator(t *testing.T) {
	calc, err := dimensions.New(dimensions.DefaultConfig())
	require.NoError(t, err)

	ds, err := model.NewDataset(
		model.Column{Name: "transaction_id", Values: []model.Value{model.String("T1"), model.Missing()}},
		model.Column{Name: "amount", Values: []model.Value{model.Number(10), model.Number(-5)}},
	)
	require.NoError(t, err)

	result, err := calc.ComputeDetailed(ds, model.KindTransaction, dimensions.References{})
	require.NoError(t, err)

	findings := Derive(ds, result.Scores, result.Breakdown, 85)
	require.Len(t, findings.NonRecoverable, 1)
	assert.Equal(t, "transaction_id", findings.NonRecoverable[0].Field)
	require.Len(t, findings.Recoverable, 1)
	assert.Equal(t, "amount", findings.Recoverable[0].Field)
	assert.Contains(t, findings.Recoverable[0].Reason, "positive-numeric")
	assert.Contains(t, findings.LowDimensions, "Completeness")
	assert.Contains(t, findings.LowDimensions, "Validity")
}
