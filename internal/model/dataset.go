package model

import (
	"fmt"
	"strings"

	"github.com/Veraticus/dqscore/internal/common"
)

// Column is a named, ordered sequence of cells.
type Column struct {
	Name   string
	Values []Value
}

// Dataset is an ordered set of equally long columns.
// The scoring engine only reads datasets and never mutates them.
type Dataset struct {
	index   map[string]int
	columns []Column
	rows    int
}

// NewDataset builds a dataset from columns. All columns must have the same
// length and distinct, non-empty names.
func NewDataset(columns ...Column) (*Dataset, error) {
	ds := &Dataset{
		columns: columns,
		index:   make(map[string]int, len(columns)),
	}

	for i, col := range columns {
		if strings.TrimSpace(col.Name) == "" {
			return nil, fmt.Errorf("column %d: %w", i, common.ErrEmptyColumnName)
		}
		if _, exists := ds.index[col.Name]; exists {
			return nil, fmt.Errorf("%w: %s", common.ErrDuplicateColumn, col.Name)
		}
		ds.index[col.Name] = i

		if i == 0 {
			ds.rows = len(col.Values)
			continue
		}
		if len(col.Values) != ds.rows {
			return nil, fmt.Errorf("%w: column %q has %d values, expected %d",
				common.ErrRaggedDataset, col.Name, len(col.Values), ds.rows)
		}
	}

	return ds, nil
}

// RowCount returns the number of rows.
func (d *Dataset) RowCount() int {
	return d.rows
}

// ColumnCount returns the number of columns.
func (d *Dataset) ColumnCount() int {
	return len(d.columns)
}

// CellCount returns rows × columns.
func (d *Dataset) CellCount() int {
	return d.rows * len(d.columns)
}

// Columns returns the columns in order. Callers must not modify the result.
func (d *Dataset) Columns() []Column {
	return d.columns
}

// ColumnNames returns the column names in order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, col := range d.columns {
		names[i] = col.Name
	}
	return names
}

// Column looks up a column by exact name.
func (d *Dataset) Column(name string) (Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, false
	}
	return d.columns[i], true
}

// HasColumn reports whether a column with the exact name exists.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Row returns a copy of the cells at row i in column order.
func (d *Dataset) Row(i int) []Value {
	row := make([]Value, len(d.columns))
	for c, col := range d.columns {
		row[c] = col.Values[i]
	}
	return row
}

// RowKey returns a canonical encoding of row i in which two rows share a key
// exactly when every cell is Equal.
func (d *Dataset) RowKey(i int) string {
	var b strings.Builder
	for _, col := range d.columns {
		v := col.Values[i]
		key := v.Key()
		// kind tag plus length prefix keeps "1","23" distinct from "12","3"
		fmt.Fprintf(&b, "%d:%d:%s|", v.Kind(), len(key), key)
	}
	return b.String()
}
