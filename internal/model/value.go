package model

import (
	"math"
	"strconv"
	"time"
)

// ValueKind identifies which variant a cell Value holds.
type ValueKind uint8

const (
	// ValueMissing marks an absent cell.
	ValueMissing ValueKind = iota
	// ValueString marks a textual cell.
	ValueString
	// ValueNumber marks a numeric cell.
	ValueNumber
	// ValueTimestamp marks a point-in-time cell.
	ValueTimestamp
)

// String returns the lowercase name of the kind.
func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	case ValueTimestamp:
		return "timestamp"
	default:
		return "missing"
	}
}

// Value is a single typed cell. The zero Value is Missing.
type Value struct {
	t    time.Time
	s    string
	n    float64
	kind ValueKind
}

// String creates a textual cell.
func String(s string) Value {
	return Value{kind: ValueString, s: s}
}

// Number creates a numeric cell. NaN is treated as missing.
func Number(n float64) Value {
	if math.IsNaN(n) {
		return Missing()
	}
	if n == 0 {
		n = 0 // fold -0
	}
	return Value{kind: ValueNumber, n: n}
}

// Timestamp creates a point-in-time cell.
func Timestamp(t time.Time) Value {
	return Value{kind: ValueTimestamp, t: t}
}

// Missing creates an absent cell.
func Missing() Value {
	return Value{}
}

// Kind returns the variant held by v.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsMissing reports whether the cell is absent.
func (v Value) IsMissing() bool {
	return v.kind == ValueMissing
}

// Str returns the text of a string cell.
func (v Value) Str() (string, bool) {
	return v.s, v.kind == ValueString
}

// Num returns the number held by a numeric cell.
func (v Value) Num() (float64, bool) {
	return v.n, v.kind == ValueNumber
}

// Time returns the instant held by a timestamp cell.
func (v Value) Time() (time.Time, bool) {
	return v.t, v.kind == ValueTimestamp
}

// Interface returns the underlying Go value, or nil when missing.
// It is the form handed to coercion helpers.
func (v Value) Interface() any {
	switch v.kind {
	case ValueString:
		return v.s
	case ValueNumber:
		return v.n
	case ValueTimestamp:
		return v.t
	default:
		return nil
	}
}

// Key renders the cell as a canonical string. Missing renders as the empty string.
func (v Value) Key() string {
	switch v.kind {
	case ValueString:
		return v.s
	case ValueNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case ValueTimestamp:
		return v.t.UTC().Format(time.RFC3339Nano)
	default:
		return ""
	}
}

// Equal reports whether two cells hold the same variant and value.
// Two missing cells are equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case ValueString:
		return v.s == o.s
	case ValueNumber:
		return v.n == o.n
	case ValueTimestamp:
		return v.t.Equal(o.t)
	default:
		return true
	}
}
