// Package table holds example tables: the attribute slots of a schema plus
// the data rows that store values under those slots.
//
// Removed attribute slots stay in place as nil entries and their indices go
// to a FIFO free list, so later additions reuse them before the schema
// grows. Callers iterating 0..AttributeCount must skip nil slots.
//
// Schema changes and row appends are serialized per table; reading rows and
// attributes that are already published is safe without further locking.
package table

import (
	"github.com/ajitpratap0/minetable/pkg/attribute"
	"github.com/ajitpratap0/minetable/pkg/datarow"
)

// RowSource produces rows once, front to back.
type RowSource interface {
	HasNext() bool
	Next() (datarow.Row, error)
}

// ExampleTable is the read and schema surface shared by table kinds.
type ExampleTable interface {
	Size() int
	DataRow(index int) (datarow.Row, error)
	// RowReader iterates the rows present when it is called.
	RowReader() RowSource

	// Attributes returns the live attributes in slot order.
	Attributes() []attribute.Attribute
	// Attribute returns nil for removed or out-of-range slots.
	Attribute(index int) attribute.Attribute
	// AttributeCount includes removed slots.
	AttributeCount() int
	LiveAttributeCount() int
	FindAttribute(name string) (attribute.Attribute, error)

	AddAttribute(a attribute.Attribute) int
	AddAttributes(attrs []attribute.Attribute) []int
	RemoveAttribute(index int)
	RemoveAttributeByRef(a attribute.Attribute)
}

// rowReader walks a snapshot of a table's rows.
type rowReader struct {
	rows []datarow.Row
	pos  int
}

func (r *rowReader) HasNext() bool { return r.pos < len(r.rows) }

func (r *rowReader) Next() (datarow.Row, error) {
	if r.pos >= len(r.rows) {
		return nil, errExhausted()
	}
	row := r.rows[r.pos]
	r.pos++
	return row, nil
}
