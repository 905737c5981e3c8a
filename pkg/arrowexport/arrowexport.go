// Package arrowexport converts example tables into Apache Arrow records.
//
// Numerical attributes become Float64 columns, nominal attributes String
// columns and date-time attributes millisecond Timestamp columns in UTC.
// Missing values, and infinite instants, become nulls.
package arrowexport

import (
	"io"
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/minetable/pkg/attribute"
	"github.com/ajitpratap0/minetable/pkg/datarow"
	"github.com/ajitpratap0/minetable/pkg/table"
	"github.com/ajitpratap0/minetable/pkg/tableerrors"
)

// MetadataValueType is the field metadata key holding the attribute's value
// type name.
const MetadataValueType = "minetable.value_type"

// Schema derives the Arrow schema for attrs.
func Schema(attrs []attribute.Attribute) *arrow.Schema {
	fields := make([]arrow.Field, len(attrs))
	for i, a := range attrs {
		fields[i] = arrow.Field{
			Name:     a.Name(),
			Type:     fieldType(a),
			Nullable: true,
			Metadata: arrow.NewMetadata([]string{MetadataValueType}, []string{a.ValueType().String()}),
		}
	}
	return arrow.NewSchema(fields, nil)
}

func fieldType(a attribute.Attribute) arrow.DataType {
	switch {
	case a.IsNominal():
		return arrow.BinaryTypes.String
	case a.IsDateTime():
		return &arrow.TimestampType{Unit: arrow.Millisecond, TimeZone: "UTC"}
	default:
		return arrow.PrimitiveTypes.Float64
	}
}

// Record builds one record holding every row of t over its live
// attributes. The caller must Release it. A nil allocator means the Go heap.
func Record(t table.ExampleTable, mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	attrs := t.Attributes()
	b := array.NewRecordBuilder(mem, Schema(attrs))
	defer b.Release()

	reader := t.RowReader()
	for reader.HasNext() {
		row, err := reader.Next()
		if err != nil {
			return nil, tableerrors.Wrap(err, tableerrors.ErrorTypeData, "reading rows for export failed")
		}
		for i, a := range attrs {
			appendValue(b.Field(i), a, row)
		}
	}
	return b.NewRecord(), nil
}

func appendValue(fb array.Builder, a attribute.Attribute, row datarow.Row) {
	v := a.Value(row)
	if math.IsNaN(v) {
		fb.AppendNull()
		return
	}
	switch b := fb.(type) {
	case *array.StringBuilder:
		s := a.AsString(v, attribute.DefaultDigits, false)
		if s == attribute.MissingValueString {
			b.AppendNull()
			return
		}
		b.Append(s)
	case *array.TimestampBuilder:
		if math.IsInf(v, 0) {
			b.AppendNull()
			return
		}
		b.Append(arrow.Timestamp(int64(v)))
	case *array.Float64Builder:
		b.Append(v)
	default:
		fb.AppendNull()
	}
}

// WriteIPC writes t to w in the Arrow IPC file format.
func WriteIPC(w io.Writer, t table.ExampleTable) error {
	mem := memory.NewGoAllocator()
	rec, err := Record(t, mem)
	if err != nil {
		return err
	}
	defer rec.Release()

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	if err != nil {
		return tableerrors.Wrap(err, tableerrors.ErrorTypeFile, "cannot create Arrow writer")
	}
	if err := fw.Write(rec); err != nil {
		_ = fw.Close()
		return tableerrors.Wrap(err, tableerrors.ErrorTypeFile, "cannot write Arrow record")
	}
	if err := fw.Close(); err != nil {
		return tableerrors.Wrap(err, tableerrors.ErrorTypeFile, "cannot close Arrow writer")
	}
	return nil
}
