package analysis

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Veraticus/dqscore/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONValidator_RoundTrip(t *testing.T) {
	original := sampleReport()
	data, err := json.Marshal(original)
	require.NoError(t, err)

	report, err := NewJSONValidator().Validate(data)
	require.NoError(t, err)

	assert.Equal(t, original.ID, report.ID)
	assert.True(t, original.GeneratedAt.Equal(report.GeneratedAt))
	require.Len(t, report.Datasets, 2)

	txn, ok := report.Dataset(model.KindTransaction)
	require.True(t, ok)
	assert.Equal(t, original.Datasets[0].Scores, txn.Scores)
	assert.InDelta(t, 87.67, txn.Composite, 1e-9)

	kyc, ok := report.Dataset(model.KindKYC)
	require.True(t, ok)
	assert.False(t, kyc.Scores.Get(model.Integrity).IsScored())
}

func TestJSONValidator_Errors(t *testing.T) {
	valid, err := json.Marshal(sampleReport())
	require.NoError(t, err)

	badSeverity := sampleReport()
	badSeverity.Datasets[0].Findings.NonRecoverable[0].Severity = "urgent"
	badSeverityData, err := json.Marshal(badSeverity)
	require.NoError(t, err)

	tests := []struct {
		name    string
		wantErr string
		data    []byte
	}{
		{
			name:    "malformed JSON",
			data:    []byte(`{"id": "x",`),
			wantErr: "failed to parse JSON report",
		},
		{
			name:    "unknown field",
			data:    []byte(strings.Replace(string(valid), `"id":`, `"extra":1,"id":`, 1)),
			wantErr: "unknown field",
		},
		{
			name:    "structurally invalid",
			data:    []byte(`{"id":"","generated_at":"2024-01-01T00:00:00Z","datasets":[],"low_threshold":85}`),
			wantErr: "invalid report structure",
		},
		{
			name:    "unknown severity",
			data:    badSeverityData,
			wantErr: "invalid issue severity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewJSONValidator().Validate(tt.data)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestJSONValidator_ExtractError(t *testing.T) {
	v := NewJSONValidator()

	t.Run("syntax error", func(t *testing.T) {
		data := []byte("{\n  \"id\": \"x\",\n  oops\n}")
		var target Report
		err := json.Unmarshal(data, &target)
		require.Error(t, err)

		section, line, column := v.ExtractError(data, err)
		assert.Contains(t, section, "oops")
		assert.Equal(t, 3, line)
		assert.Positive(t, column)
	})

	t.Run("type error", func(t *testing.T) {
		data := []byte(`{"id": 42}`)
		var target Report
		err := json.Unmarshal(data, &target)
		require.Error(t, err)

		section, line, _ := v.ExtractError(data, err)
		assert.Contains(t, section, "id")
		assert.Equal(t, 1, line)
	})

	t.Run("validation error", func(t *testing.T) {
		data := []byte(`{"id":"x","datasets":[]}`)
		section, _, _ := v.ExtractError(data, staticErr("report must contain at least one dataset"))
		assert.True(t, strings.HasPrefix(section, `"datasets"`))
	})
}

type staticErr string

func (e staticErr) Error() string { return string(e) }

func TestCalculatePosition(t *testing.T) {
	data := []byte("ab\ncd\nef")
	tests := []struct {
		offset     int64
		wantLine   int
		wantColumn int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{7, 3, 2},
		{100, 3, 3},
	}
	for _, tt := range tests {
		line, column := calculatePosition(data, tt.offset)
		assert.Equal(t, tt.wantLine, line, "offset %d", tt.offset)
		assert.Equal(t, tt.wantColumn, column, "offset %d", tt.offset)
	}
}
