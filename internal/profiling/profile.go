// Package profiling summarizes per-column null and duplicate counts for display.
// Its output never feeds the dimension scores.
package profiling

import (
	"github.com/Veraticus/dqscore/internal/model"
)

// ColumnProfile describes one column.
type ColumnProfile struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	NullCount      int     `json:"null_count"`
	NullPercent    float64 `json:"null_percent"`
	DistinctCount  int     `json:"distinct_count"`
	DuplicateCount int     `json:"duplicate_count"`
}

// Summary is the profile of a whole dataset.
type Summary struct {
	Columns       []ColumnProfile `json:"columns"`
	Rows          int             `json:"rows"`
	DuplicateRows int             `json:"duplicate_rows"`
}

// columnStats accumulates counts for one column as values stream past.
type columnStats struct {
	seen    map[string]struct{}
	kinds   map[model.ValueKind]int
	nulls   int
	repeats int
}

func newColumnStats() *columnStats {
	return &columnStats{
		seen:  make(map[string]struct{}),
		kinds: make(map[model.ValueKind]int),
	}
}

func (s *columnStats) update(v model.Value) {
	if v.IsMissing() {
		s.nulls++
		return
	}
	s.kinds[v.Kind()]++

	key := v.Kind().String() + ":" + v.Key()
	if _, ok := s.seen[key]; ok {
		s.repeats++
		return
	}
	s.seen[key] = struct{}{}
}

// inferredType names the dominant cell kind, "mixed" when several kinds
// occur and "empty" when the column has no values.
func (s *columnStats) inferredType() string {
	switch len(s.kinds) {
	case 0:
		return "empty"
	case 1:
		for k := range s.kinds {
			return k.String()
		}
	}
	return "mixed"
}

// Summarize profiles every column of ds.
func Summarize(ds *model.Dataset) Summary {
	summary := Summary{
		Rows:    ds.RowCount(),
		Columns: make([]ColumnProfile, 0, ds.ColumnCount()),
	}

	for _, col := range ds.Columns() {
		stats := newColumnStats()
		for _, v := range col.Values {
			stats.update(v)
		}

		profile := ColumnProfile{
			Name:           col.Name,
			Type:           stats.inferredType(),
			NullCount:      stats.nulls,
			DistinctCount:  len(stats.seen),
			DuplicateCount: stats.repeats,
		}
		if summary.Rows > 0 {
			profile.NullPercent = model.Round2(float64(stats.nulls) / float64(summary.Rows) * 100)
		}
		summary.Columns = append(summary.Columns, profile)
	}

	seen := make(map[string]struct{}, ds.RowCount())
	for i := 0; i < ds.RowCount(); i++ {
		key := ds.RowKey(i)
		if _, ok := seen[key]; ok {
			summary.DuplicateRows++
			continue
		}
		seen[key] = struct{}{}
	}

	return summary
}

// TotalNulls returns the number of missing cells across all columns.
func (s Summary) TotalNulls() int {
	total := 0
	for _, c := range s.Columns {
		total += c.NullCount
	}
	return total
}
