package engine

import "fmt"

// Row represents a single result row as a map of field name → value.
// Values are typed: string, int64, float64, bool, nil, time.Time.
type Row map[string]interface{}

// Get returns the value of a field.
func (r Row) Get(field string) interface{} {
	return r[field]
}

// String returns the string value of a field, or empty string if not found.
func (r Row) String(field string) string {
	v, ok := r[field]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	return s
}

// Int returns the int64 value of a field, or 0 if not found/not numeric.
func (r Row) Int(field string) int64 {
	v, ok := r[field]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

// Result holds the outcome of executing an expression tree: the returned
// rows for row-producing trees, or the total affected count for
// count-producing ones.
type Result struct {
	Rows     []Row
	Affected int64
}

// Unique reports whether the result carries at most one row.
func (r *Result) Unique() bool {
	return len(r.Rows) <= 1
}

// First returns the first row, or nil if the result is empty.
func (r *Result) First() Row {
	if len(r.Rows) == 0 {
		return nil
	}
	return r.Rows[0]
}
