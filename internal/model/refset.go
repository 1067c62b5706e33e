package model

// ReferenceKeySet is a set of identifiers drawn from a sibling dataset's key
// column. It is built by the caller and only read during one scoring call.
type ReferenceKeySet struct {
	keys map[string]struct{}
}

// NewReferenceKeySet builds a set from identifier strings.
func NewReferenceKeySet(keys ...string) *ReferenceKeySet {
	set := &ReferenceKeySet{keys: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		set.keys[k] = struct{}{}
	}
	return set
}

// KeySetFromColumn collects the distinct non-missing values of column.
// It returns nil when the column does not exist, so the dependent check is skipped.
func KeySetFromColumn(ds *Dataset, column string) *ReferenceKeySet {
	if ds == nil {
		return nil
	}
	col, ok := ds.Column(column)
	if !ok {
		return nil
	}

	set := &ReferenceKeySet{keys: make(map[string]struct{}, len(col.Values))}
	for _, v := range col.Values {
		if v.IsMissing() {
			continue
		}
		set.keys[v.Key()] = struct{}{}
	}
	return set
}

// Contains reports whether the cell's identifier is in the set.
// Missing cells are never contained.
func (s *ReferenceKeySet) Contains(v Value) bool {
	if s == nil || v.IsMissing() {
		return false
	}
	_, ok := s.keys[v.Key()]
	return ok
}

// Len returns the number of distinct identifiers.
func (s *ReferenceKeySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}
