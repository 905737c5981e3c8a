// Package datarow implements the encodings that store one record's values.
//
// A Row does not know its attributes. Every access is addressed by a column
// index and carries the default value of that column: sparse encodings only
// persist values that differ from the default and answer the default for
// every index they do not hold.
//
// Dense encodings keep one fixed-width slot per column and grow, never shrink,
// to the highest column written. Sparse encodings keep two parallel arrays of
// ascending column indices and values. The map encoding is an unordered
// fallback.
//
// Set, EnsureColumns and Trim are serialized per row. Concurrent reads are safe
// as long as no writer mutates the same row.
package datarow

import (
	"fmt"
	"math"
)

// Row is the common contract of all encodings.
type Row interface {
	// Get returns the value at index, or defaultValue if the row holds none.
	Get(index int, defaultValue float64) float64
	// Set stores value at index. Sparse encodings drop the entry when value
	// equals defaultValue. Negative indices are ignored.
	Set(index int, value, defaultValue float64)
	// EnsureColumns grows dense storage to at least n columns.
	EnsureColumns(n int)
	// Trim releases over-allocated capacity.
	Trim()
	// Kind identifies the encoding.
	Kind() Kind
	fmt.Stringer
}

// Sparse is implemented by encodings that can enumerate their stored entries.
type Sparse interface {
	Row
	// NonDefaultIndices returns the stored column indices in ascending order.
	NonDefaultIndices() []int
	// NonDefaultValues returns the values matching NonDefaultIndices.
	NonDefaultValues() []float64
}

// Column addresses a row through a column index and its default value.
type Column interface {
	TableIndex() int
	DefaultValue() float64
}

// Get reads the raw value of col from r.
func Get(r Row, col Column) float64 {
	return r.Get(col.TableIndex(), col.DefaultValue())
}

// Set writes the raw value of col into r.
func Set(r Row, col Column, value float64) {
	r.Set(col.TableIndex(), value, col.DefaultValue())
}

// IsDefault reports whether value equals defaultValue, treating NaN as equal
// to NaN.
func IsDefault(defaultValue, value float64) bool {
	if math.IsNaN(defaultValue) {
		return math.IsNaN(value)
	}
	return defaultValue == value
}
