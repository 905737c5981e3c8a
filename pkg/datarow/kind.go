package datarow

import (
	"strings"

	"github.com/ajitpratap0/minetable/pkg/tableerrors"
)

// Kind identifies a row encoding.
type Kind int

const (
	DoubleArray Kind = iota
	FloatArray
	LongArray
	IntArray
	ShortArray
	ByteArray
	BooleanArray
	DoubleSparseArray
	FloatSparseArray
	LongSparseArray
	IntSparseArray
	ShortSparseArray
	ByteSparseArray
	BooleanSparseArray
	SparseMap
)

var kindNames = [...]string{
	DoubleArray:        "double_array",
	FloatArray:         "float_array",
	LongArray:          "long_array",
	IntArray:           "int_array",
	ShortArray:         "short_array",
	ByteArray:          "byte_array",
	BooleanArray:       "boolean_array",
	DoubleSparseArray:  "double_sparse_array",
	FloatSparseArray:   "float_sparse_array",
	LongSparseArray:    "long_sparse_array",
	IntSparseArray:     "int_sparse_array",
	ShortSparseArray:   "short_sparse_array",
	ByteSparseArray:    "byte_sparse_array",
	BooleanSparseArray: "boolean_sparse_array",
	SparseMap:          "sparse_map",
}

// Kinds returns every encoding in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range kindNames {
		out[i] = Kind(i)
	}
	return out
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// IsSparse reports whether the encoding elides default values.
func (k Kind) IsSparse() bool {
	return k >= DoubleSparseArray && k <= SparseMap
}

// ParseKind resolves a kind by name, case-insensitively.
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range kindNames {
		if s == n {
			return Kind(i), nil
		}
	}
	return DoubleArray, tableerrors.Newf(tableerrors.ErrorTypeConfig, "unknown row kind %q", name).
		WithDetail("kind", name)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// New allocates an empty row of the given kind. For dense kinds size is the
// number of columns; for sparse kinds it is a capacity hint.
func New(kind Kind, size int) Row {
	if size < 0 {
		size = 0
	}
	switch kind {
	case DoubleArray:
		return newDense(kind, size, float64Codec)
	case FloatArray:
		return newDense(kind, size, float32Codec)
	case LongArray:
		return newDense(kind, size, int64Codec)
	case IntArray:
		return newDense(kind, size, int32Codec)
	case ShortArray:
		return newDense(kind, size, int16Codec)
	case ByteArray:
		return newDense(kind, size, int8Codec)
	case BooleanArray:
		return newDense(kind, size, boolCodec)
	case DoubleSparseArray:
		return newSparse(kind, size, float64Codec)
	case FloatSparseArray:
		return newSparse(kind, size, float32Codec)
	case LongSparseArray:
		return newSparse(kind, size, int64Codec)
	case IntSparseArray:
		return newSparse(kind, size, int32Codec)
	case ShortSparseArray:
		return newSparse(kind, size, int16Codec)
	case ByteSparseArray:
		return newSparse(kind, size, int8Codec)
	case BooleanSparseArray:
		return newSparse(kind, size, boolCodec)
	case SparseMap:
		return NewMapRow()
	default:
		return newDense(DoubleArray, size, float64Codec)
	}
}

// NewDoubleArrayRow creates a dense float64 row holding values.
func NewDoubleArrayRow(values []float64) Row {
	data := make([]float64, len(values))
	copy(data, values)
	return &denseRow[float64]{kind: DoubleArray, data: data, codec: float64Codec}
}
