package domain

import (
	"encoding/json"
	"reflect"
	"time"
)

// Answer values arrive from JSON/YAML decoders and host code alike, so the
// helpers below normalize across the numeric and temporal representations
// each of those produce.

// Number coerces v to a float64. It accepts all Go integer and float kinds
// plus json.Number.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Instant coerces v to a point in time. It accepts time.Time and strings in
// RFC 3339 or plain date ("2006-01-02") form.
func Instant(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed, true
		}
		if parsed, err := time.Parse("2006-01-02", t); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// List coerces v to a slice of elements. Strings and byte slices are not
// lists for condition purposes.
func List(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, e := range l {
			out[i] = e
		}
		return out, true
	case []byte, string, nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// Equal performs value-kind-aware comparison: instants compare by instant
// equality, numbers numerically across representations, everything else by
// deep equality.
func Equal(a, b any) bool {
	if at, ok := Instant(a); ok {
		if bt, ok := Instant(b); ok {
			return at.Equal(bt)
		}
	}
	if an, ok := Number(a); ok {
		if bn, ok := Number(b); ok {
			return an == bn
		}
	}
	return reflect.DeepEqual(a, b)
}

// IsEmpty reports whether v counts as "not answered": nil, empty string,
// empty list, or a zero file/signature value.
func IsEmpty(v any) bool {
	switch e := v.(type) {
	case nil:
		return true
	case string:
		return e == ""
	case File:
		return e == File{}
	case *File:
		return e == nil || *e == File{}
	case Signature:
		return e.Data == ""
	case *Signature:
		return e == nil || e.Data == ""
	}
	if l, ok := List(v); ok {
		return len(l) == 0
	}
	return false
}

// SameDay reports whether two instants fall on the same calendar day in UTC.
// Used for disallowed-date membership, where authors declare dates, not
// instants.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
