package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/Veraticus/dqscore/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	txnScores := allScored(90)
	txnScores.Set(model.Timeliness, model.Scored(66.67))

	kycScores := allScored(100)
	kycScores.Set(model.Timeliness, model.NotApplicable())
	kycScores.Set(model.Integrity, model.NotApplicable())

	return &Report{
		ID:           "assessment-1",
		GeneratedAt:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		LowThreshold: 85,
		Datasets: []DatasetReport{
			{
				Name:      "transactions.csv",
				Kind:      model.KindTransaction,
				Scores:    txnScores,
				Rows:      3,
				Columns:   5,
				Composite: 87.67,
				Findings: Findings{
					NonRecoverable: []Issue{{
						ID:            "missing-customer_id",
						Type:          IssueTypeMissingValues,
						Severity:      SeverityHigh,
						Field:         "customer_id",
						Description:   "33.33% missing values",
						Reason:        reasonIdentifier,
						AffectedCount: 1,
						Percent:       33.33,
					}},
					Recoverable:   []Issue{},
					LowDimensions: []string{"Timeliness"},
				},
			},
			{
				Name:      "kyc.csv",
				Kind:      model.KindKYC,
				Scores:    kycScores,
				Rows:      2,
				Columns:   3,
				Composite: 80,
				Findings: Findings{
					Recoverable:    []Issue{},
					NonRecoverable: []Issue{},
					LowDimensions:  []string{},
				},
			},
		},
	}
}

func TestReport_Validate(t *testing.T) {
	tests := []struct {
		mutate  func(r *Report)
		name    string
		wantErr string
	}{
		{
			name:   "valid report",
			mutate: func(_ *Report) {},
		},
		{
			name:    "missing ID",
			mutate:  func(r *Report) { r.ID = "" },
			wantErr: "report ID is required",
		},
		{
			name:    "missing timestamp",
			mutate:  func(r *Report) { r.GeneratedAt = time.Time{} },
			wantErr: "generated at is required",
		},
		{
			name:    "no datasets",
			mutate:  func(r *Report) { r.Datasets = nil },
			wantErr: "at least one dataset",
		},
		{
			name:    "duplicate kind",
			mutate:  func(r *Report) { r.Datasets[1].Kind = model.KindTransaction },
			wantErr: "duplicate dataset kind",
		},
		{
			name:    "unknown kind",
			mutate:  func(r *Report) { r.Datasets[1].Kind = "ledger" },
			wantErr: "invalid dataset at index 1",
		},
		{
			name:    "missing dataset name",
			mutate:  func(r *Report) { r.Datasets[0].Name = "" },
			wantErr: "dataset name is required",
		},
		{
			name:    "NaN composite",
			mutate:  func(r *Report) { r.Datasets[0].Composite = math.NaN() },
			wantErr: "composite score",
		},
		{
			name:    "composite above 100",
			mutate:  func(r *Report) { r.Datasets[0].Composite = 100.5 },
			wantErr: "composite score",
		},
		{
			name:   "negative composite from broken references",
			mutate: func(r *Report) { r.Datasets[0].Composite = -4.5 },
		},
		{
			name:    "issue without description",
			mutate:  func(r *Report) { r.Datasets[0].Findings.NonRecoverable[0].Description = "" },
			wantErr: "issue description is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := sampleReport()
			tt.mutate(r)
			err := r.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReport_Dataset(t *testing.T) {
	r := sampleReport()

	ds, ok := r.Dataset(model.KindKYC)
	require.True(t, ok)
	assert.Equal(t, "kyc.csv", ds.Name)

	_, ok = r.Dataset(model.KindMerchant)
	assert.False(t, ok)
}

func TestIssueSeverity_GetSeverityOrder(t *testing.T) {
	tests := []struct {
		severity IssueSeverity
		want     int
	}{
		{SeverityCritical, 1},
		{SeverityHigh, 2},
		{SeverityMedium, 3},
		{SeverityLow, 4},
		{"unknown", 5},
	}
	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.severity.GetSeverityOrder())
		})
	}
}

func TestFindings_AllIssues(t *testing.T) {
	f := Findings{
		Recoverable:    []Issue{{ID: "r1"}, {ID: "r2"}},
		NonRecoverable: []Issue{{ID: "n1"}},
	}
	all := f.AllIssues()
	require.Len(t, all, 3)
	assert.Equal(t, "n1", all[0].ID)
	assert.Equal(t, "r1", all[1].ID)
}
