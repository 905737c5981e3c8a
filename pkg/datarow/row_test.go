package datarow

import (
	"math"
	"math/rand"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/minetable/pkg/tableerrors"
)

// representable returns a value every kind stores exactly.
func representable(kind Kind, i int) float64 {
	switch kind {
	case BooleanArray, BooleanSparseArray:
		return float64(i % 2)
	case ByteArray, ByteSparseArray:
		return float64(i%100 - 50)
	default:
		return float64(i*3 - 7)
	}
}

func TestRoundTripAllKinds(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			row := New(kind, 4)
			for i := 0; i < 20; i++ {
				v := representable(kind, i)
				row.Set(i, v, 0)
				assert.Equal(t, v, row.Get(i, 0), "index %d", i)
			}
			assert.Equal(t, kind, row.Kind())
		})
	}
}

func TestElisionLawAllKinds(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			row := New(kind, 8)
			row.Set(3, 1, 0)
			require.Equal(t, 1.0, row.Get(3, 0))

			// Overwriting with the default erases the stored entry.
			row.Set(3, 0, 0)
			assert.Equal(t, 0.0, row.Get(3, 0))

			row.Set(5, 0, 0)
			assert.Equal(t, 0.0, row.Get(5, 0))
		})
	}
}

func TestNegativeIndexIgnoredAllKinds(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			row := New(kind, 4)
			row.Set(-1, 1, 0)
			assert.Equal(t, 0.0, row.Get(-1, 0))
			if s, ok := row.(Sparse); ok {
				assert.Empty(t, s.NonDefaultIndices())
			}
		})
	}
}

func TestNaNDefaultElision(t *testing.T) {
	for _, kind := range []Kind{DoubleArray, FloatArray, LongArray, IntArray, ShortArray, ByteArray,
		DoubleSparseArray, FloatSparseArray, LongSparseArray, IntSparseArray, ShortSparseArray, ByteSparseArray, SparseMap} {
		t.Run(kind.String(), func(t *testing.T) {
			row := New(kind, 4)
			row.Set(2, 7, math.NaN())
			assert.Equal(t, 7.0, row.Get(2, math.NaN()))

			row.Set(2, math.NaN(), math.NaN())
			assert.True(t, math.IsNaN(row.Get(2, math.NaN())))
			if s, ok := row.(Sparse); ok {
				assert.Empty(t, s.NonDefaultIndices())
			}
		})
	}
}

func TestIntegerWidthsClamp(t *testing.T) {
	row := New(ByteArray, 2)
	row.Set(0, 1000, 0)
	row.Set(1, -1000, 0)
	assert.Equal(t, float64(math.MaxInt8), row.Get(0, 0))
	assert.Equal(t, float64(math.MinInt8+1), row.Get(1, 0))

	row = New(IntArray, 1)
	row.Set(0, 2.9, 0)
	assert.Equal(t, 2.0, row.Get(0, 0))
}

func TestBooleanRowsStoreTruthiness(t *testing.T) {
	row := New(BooleanArray, 1)
	row.Set(0, 42, 0)
	assert.Equal(t, 1.0, row.Get(0, 0))

	sparse := New(BooleanSparseArray, 0)
	sparse.Set(4, 0, 1)
	assert.Equal(t, 0.0, sparse.Get(4, 1))
	assert.Equal(t, 1.0, sparse.Get(5, 1))
}

func TestSparseReadsDefaultForUnsetIndices(t *testing.T) {
	for _, kind := range Kinds() {
		if !kind.IsSparse() {
			continue
		}
		row := New(kind, 0)
		row.Set(10, 1, 0)
		assert.Equal(t, -3.0, row.Get(9, -3), kind.String())
		assert.Equal(t, 42.0, row.Get(1000, 42), kind.String())
	}
}

func TestSparseOutOfOrderInsertResorts(t *testing.T) {
	row := New(DoubleSparseArray, 0).(Sparse)
	row.Set(5, 7.0, 0.0)
	row.Set(2, 3.0, 0.0)

	assert.Equal(t, []int{2, 5}, row.NonDefaultIndices())
	assert.Equal(t, []float64{3.0, 7.0}, row.NonDefaultValues())
	assert.Equal(t, 3.0, row.Get(2, 0))
	assert.Equal(t, 7.0, row.Get(5, 0))
}

func TestSparseGrowth(t *testing.T) {
	row := newSparse(DoubleSparseArray, 0, float64Codec)
	row.Set(0, 1, 0)
	assert.Equal(t, 1, row.Capacity())
	row.Set(1, 1, 0)
	assert.Equal(t, 2, row.Capacity())
	row.Set(2, 1, 0)
	assert.Equal(t, 4, row.Capacity())
	row.Set(3, 1, 0)
	row.Set(4, 1, 0)
	assert.Equal(t, 7, row.Capacity())

	row.Trim()
	assert.Equal(t, 5, row.Capacity())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, row.NonDefaultIndices())
}

func TestSparseRandomAgainstModel(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, kind := range []Kind{DoubleSparseArray, FloatSparseArray, LongSparseArray, IntSparseArray, ShortSparseArray, SparseMap} {
		t.Run(kind.String(), func(t *testing.T) {
			row := New(kind, 2).(Sparse)
			model := map[int]float64{}
			for step := 0; step < 2000; step++ {
				idx := rng.Intn(200)
				v := float64(rng.Intn(5)) // zero is the default
				row.Set(idx, v, 0)
				if v == 0 {
					delete(model, idx)
				} else {
					model[idx] = v
				}
			}

			indices := row.NonDefaultIndices()
			assert.True(t, sort.IntsAreSorted(indices))
			assert.Len(t, indices, len(model))
			for idx, v := range model {
				assert.Equal(t, v, row.Get(idx, 0), "index %d", idx)
			}
			for idx := 0; idx < 200; idx++ {
				if _, ok := model[idx]; !ok {
					assert.Equal(t, 0.0, row.Get(idx, 0), "index %d", idx)
				}
			}
		})
	}
}

func TestSparseBinarySearchFindsEveryIndex(t *testing.T) {
	row := newSparse(IntSparseArray, 0, int32Codec)
	rng := rand.New(rand.NewSource(11))
	for _, idx := range rng.Perm(500) {
		row.Set(idx, float64(idx+1), 0)
	}
	for idx := 0; idx < 500; idx += 3 {
		row.Set(idx, 0, 0)
	}
	for _, idx := range row.NonDefaultIndices() {
		assert.GreaterOrEqual(t, row.search(idx), 0, "index %d", idx)
	}
}

func TestSortPairs(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, n := range []int{0, 1, 2, 6, 7, 8, 41, 100, 1000} {
		perm := rng.Perm(n)
		idx := make([]int, n)
		vals := make([]string, n)
		for i, p := range perm {
			idx[i] = p * 2
			vals[i] = string(rune('a' + p%26))
		}
		sortPairs(idx, vals, 0, n)
		require.True(t, sort.IntsAreSorted(idx), "n=%d", n)
		for i := range idx {
			assert.Equal(t, string(rune('a'+(idx[i]/2)%26)), vals[i])
		}
	}
}

func TestDenseGrowsMonotonically(t *testing.T) {
	row := newDense(DoubleArray, 2, float64Codec)
	row.EnsureColumns(1)
	assert.Equal(t, 2, row.Width())

	row.Set(0, 1.5, 0)
	row.EnsureColumns(5)
	assert.Equal(t, 5, row.Width())
	assert.Equal(t, 1.5, row.Get(0, 0))

	row.Set(9, 2, 0)
	assert.Equal(t, 10, row.Width())
	row.Trim()
	assert.Equal(t, 10, row.Width())
	assert.Equal(t, -1.0, row.Get(20, -1))
}

func TestStringRendering(t *testing.T) {
	dense := NewDoubleArrayRow([]float64{1, 2.5})
	assert.Equal(t, "[1 2.5]", dense.String())

	b := New(BooleanArray, 2)
	b.Set(1, 1, 0)
	assert.Equal(t, "[false true]", b.String())

	sparse := New(DoubleSparseArray, 0)
	sparse.Set(5, 7, 0)
	sparse.Set(2, 3, 0)
	assert.Equal(t, "{2:3, 5:7}", sparse.String())

	m := New(SparseMap, 0)
	m.Set(9, 1, 0)
	m.Set(1, 2, 0)
	assert.Equal(t, "{1:2, 9:1}", m.String())
}

type column struct {
	index int
	def   float64
}

func (c column) TableIndex() int       { return c.index }
func (c column) DefaultValue() float64 { return c.def }

func TestColumnHelpers(t *testing.T) {
	row := New(DoubleSparseArray, 0)
	col := column{index: 3, def: -1}
	assert.Equal(t, -1.0, Get(row, col))
	Set(row, col, 4)
	assert.Equal(t, 4.0, Get(row, col))
}

func TestParseKind(t *testing.T) {
	for _, kind := range Kinds() {
		parsed, err := ParseKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}
	parsed, err := ParseKind("  Double_Sparse_Array ")
	require.NoError(t, err)
	assert.Equal(t, DoubleSparseArray, parsed)

	_, err = ParseKind("tensor")
	assert.True(t, tableerrors.IsType(err, tableerrors.ErrorTypeConfig))

	var k Kind
	require.NoError(t, k.UnmarshalText([]byte("sparse_map")))
	assert.Equal(t, SparseMap, k)
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestConcurrentSetOnDistinctRows(t *testing.T) {
	rows := make([]Row, 8)
	for i := range rows {
		rows[i] = New(DoubleSparseArray, 0)
	}
	var wg sync.WaitGroup
	for i, row := range rows {
		wg.Add(1)
		go func(seed int64, row Row) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for j := 0; j < 500; j++ {
				row.Set(rng.Intn(100), 1, 0)
			}
		}(int64(i), row)
	}
	wg.Wait()
	for _, row := range rows {
		assert.True(t, sort.IntsAreSorted(row.(Sparse).NonDefaultIndices()))
	}
}

func TestConcurrentSetOnSharedRow(t *testing.T) {
	row := New(DoubleSparseArray, 0)
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for j := w; j < 400; j += 4 {
				row.Set(399-j, float64(j+1), 0)
			}
		}(w)
	}
	wg.Wait()
	assert.Len(t, row.(Sparse).NonDefaultIndices(), 400)
}
