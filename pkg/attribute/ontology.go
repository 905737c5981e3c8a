package attribute

import (
	"strings"

	"github.com/ajitpratap0/minetable/pkg/tableerrors"
)

// ValueType classifies what an attribute's values mean. Value types form a
// tree; IsA walks it.
type ValueType int

const (
	AttributeValue ValueType = iota
	Nominal
	Numerical
	Integer
	Real
	Text
	Binominal
	Polynominal
	FilePath
	DateTime
	Date
	Time
)

var valueTypes = [...]struct {
	name   string
	parent ValueType
}{
	AttributeValue: {"attribute_value", AttributeValue},
	Nominal:        {"nominal", AttributeValue},
	Numerical:      {"numeric", AttributeValue},
	Integer:        {"integer", Numerical},
	Real:           {"real", Numerical},
	Text:           {"text", Nominal},
	Binominal:      {"binominal", Nominal},
	Polynominal:    {"polynominal", Nominal},
	FilePath:       {"file_path", Nominal},
	DateTime:       {"date_time", AttributeValue},
	Date:           {"date", DateTime},
	Time:           {"time", DateTime},
}

func (v ValueType) String() string {
	if v < 0 || int(v) >= len(valueTypes) {
		return "unknown"
	}
	return valueTypes[v].name
}

// Parent returns the next more general value type. AttributeValue is its own
// parent.
func (v ValueType) Parent() ValueType {
	if v < 0 || int(v) >= len(valueTypes) {
		return AttributeValue
	}
	return valueTypes[v].parent
}

// IsA reports whether v equals parent or descends from it.
func (v ValueType) IsA(parent ValueType) bool {
	for {
		if v == parent {
			return true
		}
		if v == AttributeValue {
			return false
		}
		v = v.Parent()
	}
}

// ParseValueType resolves a value type by name.
func ParseValueType(name string) (ValueType, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, vt := range valueTypes {
		if vt.name == n {
			return ValueType(i), nil
		}
	}
	return AttributeValue, tableerrors.Newf(tableerrors.ErrorTypeConfig, "unknown value type %q", name)
}

// BlockType describes how an attribute relates to its neighbours.
type BlockType int

const (
	SingleValue BlockType = iota
	ValueSeries
	ValueSeriesStart
	ValueSeriesEnd
	ValueMatrix
	ValueMatrixStart
	ValueMatrixEnd
	ValueMatrixRowStart
)

var blockTypes = [...]struct {
	name   string
	parent BlockType
}{
	SingleValue:         {"single_value", SingleValue},
	ValueSeries:         {"value_series", SingleValue},
	ValueSeriesStart:    {"value_series_start", ValueSeries},
	ValueSeriesEnd:      {"value_series_end", ValueSeries},
	ValueMatrix:         {"value_matrix", SingleValue},
	ValueMatrixStart:    {"value_matrix_start", ValueMatrix},
	ValueMatrixEnd:      {"value_matrix_end", ValueMatrix},
	ValueMatrixRowStart: {"value_matrix_row_start", ValueMatrix},
}

func (b BlockType) String() string {
	if b < 0 || int(b) >= len(blockTypes) {
		return "unknown"
	}
	return blockTypes[b].name
}

// IsA reports whether b equals parent or descends from it.
func (b BlockType) IsA(parent BlockType) bool {
	for {
		if b == parent {
			return true
		}
		if b == SingleValue || b < 0 || int(b) >= len(blockTypes) {
			return false
		}
		b = blockTypes[b].parent
	}
}
