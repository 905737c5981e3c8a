package table

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/minetable/pkg/attribute"
	"github.com/ajitpratap0/minetable/pkg/datarow"
	"github.com/ajitpratap0/minetable/pkg/metrics"
	"github.com/ajitpratap0/minetable/pkg/nominal"
	"github.com/ajitpratap0/minetable/pkg/tableerrors"
	"github.com/ajitpratap0/minetable/pkg/testutil"
)

type sliceSource struct {
	rows []datarow.Row
	err  error
}

func (s *sliceSource) HasNext() bool { return len(s.rows) > 0 || s.err != nil }

func (s *sliceSource) Next() (datarow.Row, error) {
	if len(s.rows) == 0 {
		return nil, s.err
	}
	r := s.rows[0]
	s.rows = s.rows[1:]
	return r, nil
}

var numeric = testutil.NumericAttributes

type doubled struct{}

func (doubled) Value(v float64) float64   { return 2 * v }
func (doubled) Mapping() nominal.Mapping { return nil }

func TestGrowableTableScenario(t *testing.T) {
	attrs := numeric("a", "b")
	tbl := NewMemoryTable(attrs, WithLogger(zaptest.NewLogger(t)))
	for _, v := range [][]float64{{1, 2}, {3, 4}, {5, 6}} {
		tbl.AddDataRow(datarow.NewDoubleArrayRow(v))
	}

	assert.Equal(t, 3, tbl.Size())
	row, err := tbl.DataRow(1)
	require.NoError(t, err)
	assert.Equal(t, 3.0, row.Get(attrs[0].TableIndex(), math.NaN()))
	assert.Equal(t, 3.0, datarow.Get(row, tbl.Attribute(0)))
	require.NoError(t, tbl.Validate())
}

func TestAddAttributeBindsCloneAndOriginal(t *testing.T) {
	tbl := NewMemoryTable(numeric("a"))
	b := attribute.NewNumerical("b", attribute.Real)

	idx := tbl.AddAttribute(b)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 1, b.TableIndex())

	stored := tbl.Attribute(1)
	require.NotNil(t, stored)
	assert.NotSame(t, b, stored)
	assert.NotEqual(t, b.ID(), stored.ID())
	assert.True(t, b.Equal(stored))
}

func TestAddViewTakesNoSlot(t *testing.T) {
	attrs := numeric("x", "y")
	tbl := NewMemoryTable(attrs)
	tbl.AddDataRow(datarow.NewDoubleArrayRow([]float64{3, 4}))

	view := attribute.NewView("v", attrs[0], doubled{})
	idx := tbl.AddAttribute(view)

	assert.Equal(t, 0, idx)
	assert.Equal(t, 2, tbl.AttributeCount())
	assert.Equal(t, 2, tbl.LiveAttributeCount())
	assert.Equal(t, 2, tbl.Columns())
	require.NoError(t, tbl.Validate())

	row, err := tbl.DataRow(0)
	require.NoError(t, err)
	assert.Equal(t, 6.0, view.Value(row))

	indices := tbl.AddAttributes([]attribute.Attribute{attribute.NewView("w", attrs[1], doubled{})})
	assert.Equal(t, []int{1}, indices)
	require.NoError(t, tbl.Validate())
}

func TestRemoveThenAddReusesSlot(t *testing.T) {
	attrs := numeric("a", "b", "c")
	tbl := NewMemoryTable(attrs)

	tbl.RemoveAttribute(1)
	assert.Nil(t, tbl.Attribute(1))
	assert.Equal(t, 3, tbl.AttributeCount())
	assert.Equal(t, 2, tbl.LiveAttributeCount())
	require.NoError(t, tbl.Validate())

	before := metrics.CounterValue(metrics.SlotsReused)
	idx := tbl.AddAttribute(attribute.NewNumerical("d", attribute.Real))
	assert.Equal(t, 1, idx)
	assert.NotNil(t, tbl.Attribute(1))
	assert.Equal(t, "d", tbl.Attribute(1).Name())
	assert.Equal(t, before+1, metrics.CounterValue(metrics.SlotsReused))
	require.NoError(t, tbl.Validate())
}

func TestFreeListIsFIFO(t *testing.T) {
	tbl := NewMemoryTable(numeric("a", "b", "c", "d"))
	tbl.RemoveAttribute(2)
	tbl.RemoveAttribute(0)
	tbl.RemoveAttribute(0)
	assert.Equal(t, []int{2, 0}, tbl.FreeSlots())

	assert.Equal(t, 2, tbl.AddAttribute(attribute.NewNumerical("x", attribute.Real)))
	assert.Equal(t, 0, tbl.AddAttribute(attribute.NewNumerical("y", attribute.Real)))
	assert.Equal(t, 4, tbl.AddAttribute(attribute.NewNumerical("z", attribute.Real)))
	assert.Empty(t, tbl.FreeSlots())
	assert.LessOrEqual(t, tbl.LiveAttributeCount(), tbl.AttributeCount())
	require.NoError(t, tbl.Validate())
}

func TestRemoveAttributeByRef(t *testing.T) {
	attrs := numeric("a", "b")
	tbl := NewMemoryTable(attrs)
	tbl.RemoveAttributeByRef(attrs[0])
	tbl.RemoveAttributeByRef(nil)
	assert.Nil(t, tbl.Attribute(0))
	assert.Len(t, tbl.Attributes(), 1)
	assert.Equal(t, "b", tbl.Attributes()[0].Name())
}

func TestColumnGrowth(t *testing.T) {
	tbl := NewMemoryTable(numeric("a", "b"), WithColumnIncrement(10))
	tbl.AddDataRow(datarow.New(datarow.DoubleArray, 0))
	assert.Equal(t, 2, tbl.Columns())

	tbl.AddAttribute(attribute.NewNumerical("c", attribute.Real))
	assert.Equal(t, 13, tbl.Columns())
	tbl.AddAttribute(attribute.NewNumerical("d", attribute.Real))
	assert.Equal(t, 13, tbl.Columns())

	row, err := tbl.DataRow(0)
	require.NoError(t, err)
	type widther interface{ Width() int }
	assert.Equal(t, 13, row.(widther).Width())

	tbl.AddDataRow(datarow.New(datarow.DoubleArray, 1))
	row, err = tbl.DataRow(1)
	require.NoError(t, err)
	assert.Equal(t, 13, row.(widther).Width())
}

func TestAddAttributesGrowsOnce(t *testing.T) {
	tbl := NewMemoryTable(numeric("a"))
	before := metrics.CounterValue(metrics.ColumnGrowths)
	indices := tbl.AddAttributes(numeric("b", "c", "d"))
	assert.Equal(t, []int{1, 2, 3}, indices)
	assert.Equal(t, before+1, metrics.CounterValue(metrics.ColumnGrowths))
	assert.Equal(t, 4+DefaultColumnIncrement, tbl.Columns())
}

func TestReusedColumnIsReset(t *testing.T) {
	tbl := NewMemoryTable(numeric("a", "b"))
	tbl.AddDataRow(datarow.NewDoubleArrayRow([]float64{1, 2}))
	tbl.RemoveAttribute(1)

	c := attribute.NewNumerical("c", attribute.Real)
	c.SetDefault(-1)
	require.Equal(t, 1, tbl.AddAttribute(c))

	row, err := tbl.DataRow(0)
	require.NoError(t, err)
	assert.Equal(t, -1.0, datarow.Get(row, tbl.Attribute(1)))
	assert.Equal(t, 1.0, datarow.Get(row, tbl.Attribute(0)))
}

func TestFindAttribute(t *testing.T) {
	tbl := NewMemoryTable(numeric("a", "b"))
	a, err := tbl.FindAttribute("b")
	require.NoError(t, err)
	assert.Equal(t, 1, a.TableIndex())

	_, err = tbl.FindAttribute("missing")
	require.Error(t, err)
	assert.True(t, tableerrors.IsType(err, tableerrors.ErrorTypeNotFound))
	name, ok := tableerrors.Detail(err, "attribute")
	require.True(t, ok)
	assert.Equal(t, "missing", name)
}

func TestDataRowOutOfRange(t *testing.T) {
	tbl := NewMemoryTable(numeric("a"))
	_, err := tbl.DataRow(0)
	assert.True(t, tableerrors.IsType(err, tableerrors.ErrorTypeNotFound))
	assert.Error(t, tbl.RemoveDataRow(-1))
}

func TestReadRowsAndReader(t *testing.T) {
	var rows []datarow.Row
	for i := 0; i < 5; i++ {
		rows = append(rows, datarow.NewDoubleArrayRow([]float64{float64(i)}))
	}
	tbl, err := CreateAndFill(numeric("a"), &sliceSource{rows: rows})
	require.NoError(t, err)
	assert.Equal(t, 5, tbl.Size())

	reader := tbl.RowReader()
	tbl.AddDataRow(datarow.NewDoubleArrayRow([]float64{99}))
	var got []float64
	for reader.HasNext() {
		r, err := reader.Next()
		require.NoError(t, err)
		got = append(got, r.Get(0, 0))
	}
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, got)
	_, err = reader.Next()
	assert.Error(t, err)

	require.NoError(t, tbl.RemoveDataRow(0))
	assert.Equal(t, 5, tbl.Size())
	tbl.Clear()
	assert.Equal(t, 0, tbl.Size())
	assert.Equal(t, 1, tbl.LiveAttributeCount())
}

func TestReadRowsPermuted(t *testing.T) {
	var rows []datarow.Row
	for i := 0; i < 50; i++ {
		rows = append(rows, datarow.NewDoubleArrayRow([]float64{float64(i)}))
	}
	tbl := NewMemoryTable(numeric("a"))
	require.NoError(t, tbl.ReadRowsPermuted(&sliceSource{rows: rows}, rand.New(rand.NewSource(7))))
	require.Equal(t, 50, tbl.Size())

	var got []float64
	inOrder := true
	for i := 0; i < tbl.Size(); i++ {
		r, err := tbl.DataRow(i)
		require.NoError(t, err)
		v := r.Get(0, 0)
		if v != float64(i) {
			inOrder = false
		}
		got = append(got, v)
	}
	assert.False(t, inOrder)
	sort.Float64s(got)
	for i, v := range got {
		assert.Equal(t, float64(i), v)
	}

	err := tbl.ReadRowsPermuted(&sliceSource{}, nil)
	assert.True(t, tableerrors.IsType(err, tableerrors.ErrorTypeValidation))
}

func TestReadRowsSourceError(t *testing.T) {
	tbl := NewMemoryTable(numeric("a"))
	src := &sliceSource{rows: []datarow.Row{datarow.NewDoubleArrayRow([]float64{1})}, err: errors.New("boom")}
	err := tbl.ReadRows(src)
	require.Error(t, err)
	assert.True(t, tableerrors.IsType(err, tableerrors.ErrorTypeData))
	assert.Equal(t, 1, tbl.Size())
}

func TestRecalculateStatistics(t *testing.T) {
	tbl := NewMemoryTable(numeric("a"))
	for _, v := range []float64{2, 4, math.NaN()} {
		tbl.AddDataRow(datarow.NewDoubleArrayRow([]float64{v}))
	}
	tbl.RecalculateStatistics()

	stats := tbl.Attribute(0).AllStatistics()
	require.Len(t, stats, 2)
	avg, ok := stats[0].Value(attribute.StatAverage)
	require.True(t, ok)
	assert.Equal(t, 3.0, avg)
	unknown, ok := stats[1].Value(attribute.StatUnknown)
	require.True(t, ok)
	assert.Equal(t, 1.0, unknown)

	tbl.RecalculateStatistics()
	avg, _ = stats[0].Value(attribute.StatAverage)
	assert.Equal(t, 3.0, avg)
}

func TestSparseRowsInTable(t *testing.T) {
	attrs := numeric("a", "b", "c")
	tbl := NewMemoryTable(attrs)
	row := datarow.New(datarow.DoubleSparseArray, 0)
	row.Set(2, 5, 0)
	tbl.AddDataRow(row)
	tbl.AddAttribute(attribute.NewNumerical("d", attribute.Real))

	got, err := tbl.DataRow(0)
	require.NoError(t, err)
	assert.Equal(t, 5.0, datarow.Get(got, tbl.Attribute(2)))
	assert.Equal(t, 0.0, datarow.Get(got, tbl.Attribute(3)))
	assert.Contains(t, tbl.String(), "4 attributes, 1 rows")
}
