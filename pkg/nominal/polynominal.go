package nominal

import (
	"sort"
	"sync"

	"github.com/ajitpratap0/minetable/pkg/tableerrors"
)

// PolynominalMapping maps an unbounded number of values.
type PolynominalMapping struct {
	mu     sync.RWMutex
	index  map[string]int
	values []string
}

// NewPolynominalMapping creates an empty mapping.
func NewPolynominalMapping() *PolynominalMapping {
	return &PolynominalMapping{index: make(map[string]int)}
}

// NewPolynominalMappingFrom creates a mapping holding values in the given order.
// Duplicates keep their first index.
func NewPolynominalMappingFrom(values ...string) *PolynominalMapping {
	m := NewPolynominalMapping()
	for _, v := range values {
		m.mapLocked(v)
	}
	return m
}

func (m *PolynominalMapping) mapLocked(s string) int {
	if idx, ok := m.index[s]; ok {
		return idx
	}
	idx := len(m.values)
	m.values = append(m.values, s)
	m.index[s] = idx
	return idx
}

func (m *PolynominalMapping) MapString(s string) (int, error) {
	m.mu.RLock()
	idx, ok := m.index[s]
	m.mu.RUnlock()
	if ok {
		return idx, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mapLocked(s), nil
}

func (m *PolynominalMapping) MapNullable(s *string) (int, error) {
	if s == nil {
		return MissingIndex, nil
	}
	return m.MapString(*s)
}

func (m *PolynominalMapping) IndexOf(s string) (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx, ok := m.index[s]
	return idx, ok
}

func (m *PolynominalMapping) MapIndex(index int) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if index < 0 || index >= len(m.values) {
		return "", indexOutOfRange(index, len(m.values))
	}
	return m.values[index], nil
}

// SetMapping stores value under index, growing the mapping if index equals
// Size. The old value under index is forgotten. Rows that already hold index
// silently change meaning.
func (m *PolynominalMapping) SetMapping(value string, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index > len(m.values) {
		return indexOutOfRange(index, len(m.values))
	}
	if index == len(m.values) {
		m.values = append(m.values, value)
	} else {
		old := m.values[index]
		if cur, ok := m.index[old]; ok && cur == index {
			delete(m.index, old)
		}
		m.values[index] = value
	}
	m.index[value] = index
	return nil
}

func (m *PolynominalMapping) Sort() {
	m.mu.Lock()
	defer m.mu.Unlock()
	sort.Strings(m.values)
	for i, v := range m.values {
		m.index[v] = i
	}
}

func (m *PolynominalMapping) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = nil
	m.index = make(map[string]int)
}

func (m *PolynominalMapping) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

func (m *PolynominalMapping) Values() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.values))
	copy(out, m.values)
	return out
}

func (m *PolynominalMapping) requireBinominal() error {
	if n := m.Size(); n > 2 {
		return tableerrors.Newf(tableerrors.ErrorTypeSchema, "nominal mapping has %d values, a binominal mapping was expected", n).
			WithDetail("size", n)
	}
	return nil
}

func (m *PolynominalMapping) NegativeIndex() (int, error) {
	if err := m.requireBinominal(); err != nil {
		return MissingIndex, err
	}
	return 0, nil
}

func (m *PolynominalMapping) PositiveIndex() (int, error) {
	if err := m.requireBinominal(); err != nil {
		return MissingIndex, err
	}
	return 1, nil
}

func (m *PolynominalMapping) NegativeString() (string, error) {
	if err := m.requireBinominal(); err != nil {
		return "", err
	}
	return m.MapIndex(0)
}

func (m *PolynominalMapping) PositiveString() (string, error) {
	if err := m.requireBinominal(); err != nil {
		return "", err
	}
	return m.MapIndex(1)
}

func (m *PolynominalMapping) Equal(other Mapping) bool {
	if other == nil {
		return false
	}
	return sameValues(m.Values(), other.Values())
}

// Clone copies values and the index as they are, duplicates included.
func (m *PolynominalMapping) Clone() Mapping {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := &PolynominalMapping{
		index:  make(map[string]int, len(m.index)),
		values: make([]string, len(m.values)),
	}
	copy(c.values, m.values)
	for k, v := range m.index {
		c.index[k] = v
	}
	return c
}
