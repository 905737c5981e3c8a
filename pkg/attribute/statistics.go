package attribute

import "math"

// Statistic keys understood by Statistics.Value.
const (
	StatAverage  = "average"
	StatVariance = "variance"
	StatMinimum  = "minimum"
	StatMaximum  = "maximum"
	StatSum      = "sum"
	StatUnknown  = "unknown"
	StatMode     = "mode"
	StatLeast    = "least"
)

// Statistics accumulates weighted values of one attribute. Implementations
// are not safe for concurrent use.
type Statistics interface {
	Name() string
	Reset()
	Count(value, weight float64)
	// Value reports the statistic stored under key, or false if this
	// accumulator does not provide it or has seen no values.
	Value(key string) (float64, bool)
	Clone() Statistics
}

// NumericalStatistics tracks weighted average, variance and range of the
// known values.
type NumericalStatistics struct {
	sum        float64
	squares    float64
	weight     float64
	minimum    float64
	maximum    float64
	valueCount int
}

func NewNumericalStatistics() *NumericalStatistics {
	s := &NumericalStatistics{}
	s.Reset()
	return s
}

func (s *NumericalStatistics) Name() string { return "numerical" }

func (s *NumericalStatistics) Reset() {
	*s = NumericalStatistics{minimum: math.Inf(1), maximum: math.Inf(-1)}
}

func (s *NumericalStatistics) Count(value, weight float64) {
	if math.IsNaN(value) {
		return
	}
	if math.IsNaN(weight) {
		weight = 1
	}
	s.sum += value * weight
	s.squares += value * value * weight
	s.weight += weight
	s.minimum = math.Min(s.minimum, value)
	s.maximum = math.Max(s.maximum, value)
	s.valueCount++
}

func (s *NumericalStatistics) Value(key string) (float64, bool) {
	if s.valueCount == 0 {
		return math.NaN(), false
	}
	switch key {
	case StatAverage:
		return s.sum / s.weight, true
	case StatVariance:
		mean := s.sum / s.weight
		v := s.squares/s.weight - mean*mean
		if v < 0 {
			v = 0
		}
		return v, true
	case StatMinimum:
		return s.minimum, true
	case StatMaximum:
		return s.maximum, true
	case StatSum:
		return s.sum, true
	}
	return math.NaN(), false
}

func (s *NumericalStatistics) Clone() Statistics {
	c := *s
	return &c
}

// MinMaxStatistics tracks the range of the known values.
type MinMaxStatistics struct {
	minimum float64
	maximum float64
	seen    bool
}

func NewMinMaxStatistics() *MinMaxStatistics {
	return &MinMaxStatistics{minimum: math.Inf(1), maximum: math.Inf(-1)}
}

func (s *MinMaxStatistics) Name() string { return "minmax" }

func (s *MinMaxStatistics) Reset() {
	*s = MinMaxStatistics{minimum: math.Inf(1), maximum: math.Inf(-1)}
}

func (s *MinMaxStatistics) Count(value, _ float64) {
	if math.IsNaN(value) {
		return
	}
	s.minimum = math.Min(s.minimum, value)
	s.maximum = math.Max(s.maximum, value)
	s.seen = true
}

func (s *MinMaxStatistics) Value(key string) (float64, bool) {
	if !s.seen {
		return math.NaN(), false
	}
	switch key {
	case StatMinimum:
		return s.minimum, true
	case StatMaximum:
		return s.maximum, true
	}
	return math.NaN(), false
}

func (s *MinMaxStatistics) Clone() Statistics {
	c := *s
	return &c
}

// UnknownStatistics counts missing values.
type UnknownStatistics struct {
	unknown float64
}

func NewUnknownStatistics() *UnknownStatistics { return &UnknownStatistics{} }

func (s *UnknownStatistics) Name() string { return "unknown" }
func (s *UnknownStatistics) Reset()       { s.unknown = 0 }

func (s *UnknownStatistics) Count(value, weight float64) {
	if !math.IsNaN(value) {
		return
	}
	if math.IsNaN(weight) {
		weight = 1
	}
	s.unknown += weight
}

func (s *UnknownStatistics) Value(key string) (float64, bool) {
	if key != StatUnknown {
		return math.NaN(), false
	}
	return s.unknown, true
}

func (s *UnknownStatistics) Clone() Statistics {
	c := *s
	return &c
}

// NominalStatistics counts the weight of every dictionary index.
type NominalStatistics struct {
	counts []float64
}

func NewNominalStatistics() *NominalStatistics { return &NominalStatistics{} }

func (s *NominalStatistics) Name() string { return "nominal" }
func (s *NominalStatistics) Reset()       { s.counts = s.counts[:0] }

func (s *NominalStatistics) Count(value, weight float64) {
	if math.IsNaN(value) || value < 0 {
		return
	}
	if math.IsNaN(weight) {
		weight = 1
	}
	idx := int(value)
	for len(s.counts) <= idx {
		s.counts = append(s.counts, 0)
	}
	s.counts[idx] += weight
}

// ValueCount returns the accumulated weight of index.
func (s *NominalStatistics) ValueCount(index int) float64 {
	if index < 0 || index >= len(s.counts) {
		return 0
	}
	return s.counts[index]
}

// Value reports StatMode and StatLeast as dictionary indices. Ties resolve to
// the lowest index; indices never seen are ignored.
func (s *NominalStatistics) Value(key string) (float64, bool) {
	best := -1
	for i, c := range s.counts {
		if c == 0 {
			continue
		}
		switch key {
		case StatMode:
			if best < 0 || c > s.counts[best] {
				best = i
			}
		case StatLeast:
			if best < 0 || c < s.counts[best] {
				best = i
			}
		default:
			return math.NaN(), false
		}
	}
	if best < 0 {
		return math.NaN(), false
	}
	return float64(best), true
}

func (s *NominalStatistics) Clone() Statistics {
	c := &NominalStatistics{counts: make([]float64, len(s.counts))}
	copy(c.counts, s.counts)
	return c
}
