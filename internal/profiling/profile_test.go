package profiling

import (
	"testing"
	"time"

	"github.com/Veraticus/dqscore/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ds, err := model.NewDataset(
		model.Column{Name: "A", Values: []model.Value{
			model.Number(1), model.Number(4), model.Number(1), model.Number(7), model.Missing(),
		}},
		model.Column{Name: "B", Values: []model.Value{
			model.Number(2), model.Number(5), model.Number(2), model.String("8"), model.String("10"),
		}},
		model.Column{Name: "C", Values: []model.Value{
			model.Timestamp(ts), model.Timestamp(ts.Add(time.Hour)), model.Timestamp(ts), model.Missing(), model.Missing(),
		}},
	)
	require.NoError(t, err)

	summary := Summarize(ds)
	assert.Equal(t, 5, summary.Rows)
	assert.Equal(t, 1, summary.DuplicateRows)
	assert.Equal(t, 3, summary.TotalNulls())
	require.Len(t, summary.Columns, 3)

	a := summary.Columns[0]
	assert.Equal(t, "A", a.Name)
	assert.Equal(t, "number", a.Type)
	assert.Equal(t, 1, a.NullCount)
	assert.InDelta(t, 20.0, a.NullPercent, 1e-9)
	assert.Equal(t, 3, a.DistinctCount)
	assert.Equal(t, 1, a.DuplicateCount)

	b := summary.Columns[1]
	assert.Equal(t, "mixed", b.Type)
	assert.Equal(t, 4, b.DistinctCount)

	c := summary.Columns[2]
	assert.Equal(t, "timestamp", c.Type)
	assert.Equal(t, 2, c.NullCount)
	assert.Equal(t, 1, c.DuplicateCount)
}

func TestSummarize_Empty(t *testing.T) {
	ds, err := model.NewDataset(model.Column{Name: "only"})
	require.NoError(t, err)

	summary := Summarize(ds)
	assert.Equal(t, 0, summary.Rows)
	require.Len(t, summary.Columns, 1)
	assert.Equal(t, "empty", summary.Columns[0].Type)
	assert.InDelta(t, 0.0, summary.Columns[0].NullPercent, 0)
}
