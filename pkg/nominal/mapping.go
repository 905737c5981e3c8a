// Package nominal implements the dictionaries that encode categorical values as
// non-negative integer indices.
//
// Indices are assigned in first-seen order and never change, except through
// the explicit Sort, SetMapping and Clear operations. Those operations rewrite
// what an already-stored index means; calling them after rows hold values
// under the mapping is the caller's responsibility.
package nominal

import (
	"github.com/ajitpratap0/minetable/pkg/tableerrors"
)

// MissingIndex is returned by MapNullable for an absent value.
const MissingIndex = -1

// Mapping is a bidirectional string <-> index dictionary.
type Mapping interface {
	// MapString returns the index of s, creating an entry on first use.
	MapString(s string) (int, error)
	// MapNullable is MapString for optional values; nil maps to MissingIndex.
	MapNullable(s *string) (int, error)
	// IndexOf looks s up without creating an entry.
	IndexOf(s string) (int, bool)
	// MapIndex returns the string stored under index.
	MapIndex(index int) (string, error)
	// SetMapping overwrites the string stored under index.
	SetMapping(value string, index int) error
	// Sort reassigns indices in lexicographic order.
	Sort()
	// Clear removes all values.
	Clear()
	// Size returns the number of distinct values.
	Size() int
	// Values returns the values ordered by index.
	Values() []string

	NegativeIndex() (int, error)
	PositiveIndex() (int, error)
	NegativeString() (string, error)
	PositiveString() (string, error)

	// Equal reports whether both mappings hold the same set of values,
	// regardless of the index each value is stored under.
	Equal(other Mapping) bool
	Clone() Mapping
}

func indexOutOfRange(index, size int) error {
	return tableerrors.Newf(tableerrors.ErrorTypeSchema, "cannot map index of nominal attribute to nominal value: index %d is out of bounds", index).
		WithDetail("index", index).
		WithDetail("size", size)
}

// sameValues compares two value lists as sets.
func sameValues(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := set[v]; !ok {
			return false
		}
	}
	return true
}
