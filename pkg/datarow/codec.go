package datarow

import (
	"math"
	"strconv"
)

// codec converts between the float64 interface values and a storage width.
// Integer widths reserve their minimum value for NaN.
type codec[T comparable] struct {
	encode func(float64) T
	decode func(T) float64
	format func(T) string
}

var (
	float64Codec = &codec[float64]{
		encode: func(v float64) float64 { return v },
		decode: func(v float64) float64 { return v },
		format: func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) },
	}
	float32Codec = &codec[float32]{
		encode: func(v float64) float32 { return float32(v) },
		decode: func(v float32) float64 { return float64(v) },
		format: func(v float32) string { return strconv.FormatFloat(float64(v), 'g', -1, 32) },
	}
	int64Codec = &codec[int64]{
		encode: func(v float64) int64 { return int64(clampInt(v, math.MinInt64, math.MaxInt64)) },
		decode: func(v int64) float64 { return decodeInt(int64(v), math.MinInt64) },
		format: func(v int64) string { return strconv.FormatInt(v, 10) },
	}
	int32Codec = &codec[int32]{
		encode: func(v float64) int32 { return int32(clampInt(v, math.MinInt32, math.MaxInt32)) },
		decode: func(v int32) float64 { return decodeInt(int64(v), math.MinInt32) },
		format: func(v int32) string { return strconv.FormatInt(int64(v), 10) },
	}
	int16Codec = &codec[int16]{
		encode: func(v float64) int16 { return int16(clampInt(v, math.MinInt16, math.MaxInt16)) },
		decode: func(v int16) float64 { return decodeInt(int64(v), math.MinInt16) },
		format: func(v int16) string { return strconv.FormatInt(int64(v), 10) },
	}
	int8Codec = &codec[int8]{
		encode: func(v float64) int8 { return int8(clampInt(v, math.MinInt8, math.MaxInt8)) },
		decode: func(v int8) float64 { return decodeInt(int64(v), math.MinInt8) },
		format: func(v int8) string { return strconv.FormatInt(int64(v), 10) },
	}
	boolCodec = &codec[bool]{
		encode: func(v float64) bool { return v != 0 },
		decode: func(v bool) float64 {
			if v {
				return 1
			}
			return 0
		},
		format: strconv.FormatBool,
	}
)

// clampInt truncates v toward zero and clamps it into (lo, hi]. NaN maps to
// lo, the missing sentinel.
func clampInt(v float64, lo, hi int64) int64 {
	switch {
	case math.IsNaN(v):
		return lo
	case v >= float64(hi):
		return hi
	case v <= float64(lo+1):
		return lo + 1
	default:
		return int64(v)
	}
}

func decodeInt(v, missing int64) float64 {
	if v == missing {
		return math.NaN()
	}
	return float64(v)
}
