package source

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/minetable/pkg/attribute"
	"github.com/ajitpratap0/minetable/pkg/datarow"
	"github.com/ajitpratap0/minetable/pkg/rowfactory"
	"github.com/ajitpratap0/minetable/pkg/table"
	"github.com/ajitpratap0/minetable/pkg/tableerrors"
)

func schema() []attribute.Attribute {
	return []attribute.Attribute{
		attribute.NewNumerical("x", attribute.Real),
		attribute.NewPolynominal("color"),
	}
}

func TestListSource(t *testing.T) {
	src := NewListSource(datarow.NewDoubleArrayRow([]float64{1}), datarow.NewDoubleArrayRow([]float64{2}))
	tbl, err := table.CreateAndFill([]attribute.Attribute{attribute.NewNumerical("x", attribute.Real)}, src)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Size())
	assert.False(t, src.HasNext())
	_, err = src.Next()
	assert.Error(t, err)
}

func TestCSVSourceByHeader(t *testing.T) {
	attrs := schema()
	in := "color,x\nred,1.5\n\"green\",?\nblue,2\n"
	src, err := NewCSVSource(strings.NewReader(in), attrs, rowfactory.New(datarow.DoubleArray, '.'),
		CSVOptions{Header: true, Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	assert.Equal(t, []string{"color", "x"}, src.Header())

	tbl, err := table.CreateAndFill(attrs, src, table.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	require.Equal(t, 3, tbl.Size())
	assert.Equal(t, 3, src.Rows())

	x, err := tbl.FindAttribute("x")
	require.NoError(t, err)
	color, err := tbl.FindAttribute("color")
	require.NoError(t, err)

	row, _ := tbl.DataRow(0)
	assert.Equal(t, 1.5, x.Value(row))
	assert.Equal(t, "red", color.AsString(color.Value(row), attribute.DefaultDigits, false))
	row, _ = tbl.DataRow(1)
	assert.True(t, math.IsNaN(x.Value(row)))
	assert.Equal(t, "green", color.AsString(color.Value(row), attribute.DefaultDigits, false))
}

func TestCSVSourceMissingColumn(t *testing.T) {
	_, err := NewCSVSource(strings.NewReader("x\n1\n"), schema(), rowfactory.New(datarow.DoubleArray, 0), CSVOptions{Header: true})
	assert.True(t, tableerrors.IsType(err, tableerrors.ErrorTypeNotFound))
}

func TestCSVSourcePositional(t *testing.T) {
	attrs := schema()
	for i, a := range attrs {
		a.SetTableIndex(i)
	}
	in := "# comment\n3;a\n4\n"
	src, err := NewCSVSource(strings.NewReader(in), attrs, rowfactory.New(datarow.DoubleSparseArray, 0),
		CSVOptions{Comma: ';', Comment: '#'})
	require.NoError(t, err)

	require.True(t, src.HasNext())
	row, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, 3.0, attrs[0].Value(row))
	assert.Equal(t, 0.0, attrs[1].Value(row))

	row, err = src.Next()
	require.NoError(t, err)
	assert.True(t, math.IsNaN(attrs[1].Value(row)))
	assert.False(t, src.HasNext())
}

func TestCSVSourceTooManyFields(t *testing.T) {
	attrs := schema()
	src, err := NewCSVSource(strings.NewReader("1,a,extra\n"), attrs, rowfactory.New(datarow.DoubleArray, 0), CSVOptions{})
	require.NoError(t, err)
	require.True(t, src.HasNext())
	_, err = src.Next()
	assert.True(t, tableerrors.IsType(err, tableerrors.ErrorTypeData))
	assert.False(t, src.HasNext())
}

func TestReadHeader(t *testing.T) {
	h, err := ReadHeader(strings.NewReader("a; b\n1;2\n"), ';')
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, h)

	_, err = ReadHeader(strings.NewReader(""), 0)
	assert.True(t, tableerrors.IsType(err, tableerrors.ErrorTypeData))
}

func TestJSONLinesSource(t *testing.T) {
	attrs := schema()
	in := "[1.25, \"red\"]\n[null, \"blue\"]\n[3, 7]\n"
	tbl, err := table.CreateAndFill(attrs,
		NewJSONLinesSource(strings.NewReader(in), attrs, rowfactory.New(datarow.DoubleArray, 0), zaptest.NewLogger(t)))
	require.NoError(t, err)
	require.Equal(t, 3, tbl.Size())

	x := tbl.Attribute(0)
	color := tbl.Attribute(1)
	row, _ := tbl.DataRow(0)
	assert.Equal(t, 1.25, x.Value(row))
	row, _ = tbl.DataRow(1)
	assert.True(t, math.IsNaN(x.Value(row)))
	assert.Equal(t, "blue", color.AsString(color.Value(row), attribute.DefaultDigits, false))
	row, _ = tbl.DataRow(2)
	assert.Equal(t, 3.0, x.Value(row))
	assert.Equal(t, "7", color.AsString(color.Value(row), attribute.DefaultDigits, false))
}

func TestJSONLinesMalformed(t *testing.T) {
	attrs := schema()
	src := NewJSONLinesSource(strings.NewReader("[1, \"a\"]\n{\"x\": 1}\n"), attrs, rowfactory.New(datarow.DoubleArray, 0), nil)
	tbl := table.NewMemoryTable(attrs)
	err := tbl.ReadRows(src)
	require.Error(t, err)
	assert.True(t, tableerrors.IsType(err, tableerrors.ErrorTypeData))
	assert.Equal(t, 1, tbl.Size())
}
