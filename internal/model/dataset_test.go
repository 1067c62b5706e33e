package model

import (
	"testing"
	"time"

	"github.com/Veraticus/dqscore/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDataset(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		columns []Column
		rows    int
	}{
		{
			name: "well formed",
			columns: []Column{
				{Name: "a", Values: []Value{String("x"), String("y")}},
				{Name: "b", Values: []Value{Number(1), Missing()}},
			},
			rows: 2,
		},
		{
			name: "no columns",
			rows: 0,
		},
		{
			name: "ragged",
			columns: []Column{
				{Name: "a", Values: []Value{String("x"), String("y")}},
				{Name: "b", Values: []Value{Number(1)}},
			},
			wantErr: common.ErrRaggedDataset,
		},
		{
			name: "duplicate name",
			columns: []Column{
				{Name: "a", Values: []Value{String("x")}},
				{Name: "a", Values: []Value{String("y")}},
			},
			wantErr: common.ErrDuplicateColumn,
		},
		{
			name:    "blank name",
			columns: []Column{{Name: "  "}},
			wantErr: common.ErrEmptyColumnName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := NewDataset(tt.columns...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.rows, ds.RowCount())
			assert.Equal(t, len(tt.columns), ds.ColumnCount())
			assert.Equal(t, tt.rows*len(tt.columns), ds.CellCount())
		})
	}
}

func TestDataset_RowKey(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	ds, err := NewDataset(
		Column{Name: "a", Values: []Value{String("1"), Number(1), String("1"), Missing(), Missing()}},
		Column{Name: "b", Values: []Value{String("23"), String("23"), String("23"), Timestamp(ts), Timestamp(ts.In(time.FixedZone("X", 3600)))}},
	)
	require.NoError(t, err)

	assert.NotEqual(t, ds.RowKey(0), ds.RowKey(1), "string and number cells differ")
	assert.Equal(t, ds.RowKey(0), ds.RowKey(2))
	assert.Equal(t, ds.RowKey(3), ds.RowKey(4), "same instant in different zones")

	split, err := NewDataset(
		Column{Name: "a", Values: []Value{String("12"), String("1")}},
		Column{Name: "b", Values: []Value{String("3"), String("23")}},
	)
	require.NoError(t, err)
	assert.NotEqual(t, split.RowKey(0), split.RowKey(1))
}

func TestValue(t *testing.T) {
	assert.True(t, Missing().IsMissing())
	assert.True(t, Value{}.IsMissing())
	assert.True(t, Number(nan()).IsMissing())
	assert.Equal(t, "12.5", Number(12.5).Key())
	assert.Equal(t, "0", Number(negZero()).Key())
	assert.True(t, Missing().Equal(Missing()))
	assert.False(t, String("").Equal(Missing()))
	assert.Nil(t, Missing().Interface())

	n, ok := Number(3).Num()
	assert.True(t, ok)
	assert.InDelta(t, 3.0, n, 0)
	_, ok = String("3").Num()
	assert.False(t, ok)
}

func TestDatasetKind(t *testing.T) {
	k, err := ParseDatasetKind(" Transaction ")
	require.NoError(t, err)
	assert.Equal(t, KindTransaction, k)

	_, err = ParseDatasetKind("ledger")
	require.ErrorIs(t, err, common.ErrInvalidKind)
	require.ErrorIs(t, DatasetKind("").Validate(), common.ErrInvalidKind)
}

func TestReferenceKeySet(t *testing.T) {
	ds, err := NewDataset(Column{Name: "customer_id", Values: []Value{
		String("C1"), String("C2"), Missing(), String("C1"), Number(7),
	}})
	require.NoError(t, err)

	set := KeySetFromColumn(ds, "customer_id")
	require.NotNil(t, set)
	assert.Equal(t, 3, set.Len())
	assert.True(t, set.Contains(String("C2")))
	assert.True(t, set.Contains(String("7")), "lookups use the canonical key")
	assert.False(t, set.Contains(Missing()))

	assert.Nil(t, KeySetFromColumn(ds, "merchant_id"))
	assert.Nil(t, KeySetFromColumn(nil, "customer_id"))

	var none *ReferenceKeySet
	assert.False(t, none.Contains(String("C1")))
	assert.Equal(t, 0, none.Len())
}
