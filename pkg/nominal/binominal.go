package nominal

import (
	"sync"

	"github.com/ajitpratap0/minetable/pkg/tableerrors"
)

const (
	// NegativeSlot is the index of the first value seen by a binominal mapping.
	NegativeSlot = 0
	// PositiveSlot is the index of the second value.
	PositiveSlot = 1
)

// BinominalMapping holds at most two values at fixed indices.
type BinominalMapping struct {
	mu     sync.RWMutex
	values [2]string
	set    [2]bool
}

// NewBinominalMapping creates an empty binominal mapping.
func NewBinominalMapping() *BinominalMapping {
	return &BinominalMapping{}
}

// NewBinominalMappingFrom creates a mapping with negative and positive values.
func NewBinominalMappingFrom(negative, positive string) *BinominalMapping {
	m := &BinominalMapping{}
	m.values = [2]string{negative, positive}
	m.set = [2]bool{true, negative != positive}
	return m
}

func (m *BinominalMapping) lookup(s string) (int, bool) {
	for i := 0; i < 2; i++ {
		if m.set[i] && m.values[i] == s {
			return i, true
		}
	}
	return MissingIndex, false
}

func (m *BinominalMapping) MapString(s string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if idx, ok := m.lookup(s); ok {
		return idx, nil
	}
	for i := 0; i < 2; i++ {
		if !m.set[i] {
			m.values[i] = s
			m.set[i] = true
			return i, nil
		}
	}
	return MissingIndex, tableerrors.Newf(tableerrors.ErrorTypeSchema,
		"cannot map %q: binominal attribute already holds %q and %q", s, m.values[0], m.values[1]).
		WithDetail("value", s)
}

func (m *BinominalMapping) MapNullable(s *string) (int, error) {
	if s == nil {
		return MissingIndex, nil
	}
	return m.MapString(*s)
}

func (m *BinominalMapping) IndexOf(s string) (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookup(s)
}

func (m *BinominalMapping) MapIndex(index int) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if index < 0 || index > 1 || !m.set[index] {
		return "", indexOutOfRange(index, m.sizeLocked())
	}
	return m.values[index], nil
}

// SetMapping overwrites the negative or positive value.
func (m *BinominalMapping) SetMapping(value string, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index != NegativeSlot && index != PositiveSlot {
		return indexOutOfRange(index, m.sizeLocked())
	}
	m.values[index] = value
	m.set[index] = true
	return nil
}

// Sort swaps the two values if they are not in lexicographic order.
func (m *BinominalMapping) Sort() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.set[0] && m.set[1] && m.values[1] < m.values[0] {
		m.values[0], m.values[1] = m.values[1], m.values[0]
	}
}

func (m *BinominalMapping) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = [2]string{}
	m.set = [2]bool{}
}

func (m *BinominalMapping) sizeLocked() int {
	n := 0
	for _, s := range m.set {
		if s {
			n++
		}
	}
	return n
}

func (m *BinominalMapping) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sizeLocked()
}

func (m *BinominalMapping) Values() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, 2)
	for i := 0; i < 2; i++ {
		if m.set[i] {
			out = append(out, m.values[i])
		}
	}
	return out
}

func (m *BinominalMapping) NegativeIndex() (int, error) { return NegativeSlot, nil }
func (m *BinominalMapping) PositiveIndex() (int, error) { return PositiveSlot, nil }

func (m *BinominalMapping) NegativeString() (string, error) { return m.MapIndex(NegativeSlot) }
func (m *BinominalMapping) PositiveString() (string, error) { return m.MapIndex(PositiveSlot) }

func (m *BinominalMapping) Equal(other Mapping) bool {
	if other == nil {
		return false
	}
	return sameValues(m.Values(), other.Values())
}

func (m *BinominalMapping) Clone() Mapping {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &BinominalMapping{values: m.values, set: m.set}
}
