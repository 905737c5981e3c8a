// Package attribute implements column descriptors: a name, a value type, the
// column index the descriptor reads from, a default value, a chain of value
// transformations and statistics accumulators.
//
// Attributes are copy-on-write. Clone shares the descriptor and the nominal
// mapping; the first mutator on either copy detaches its own descriptor, so a
// table can hand the same attribute to many readers cheaply.
//
// Owners that index attributes by name register with the attribute's
// Registry and are notified before a rename takes effect.
package attribute

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/ajitpratap0/minetable/pkg/datarow"
	"github.com/ajitpratap0/minetable/pkg/nominal"
	"github.com/ajitpratap0/minetable/pkg/tableerrors"
)

// UndefinedIndex marks an attribute that is not bound to a table column.
const UndefinedIndex = -1

// MissingValueString renders a missing value.
const MissingValueString = "?"

// Attribute is the polymorphic column descriptor.
type Attribute interface {
	datarow.Column

	// ID identifies this instance. Clones get a fresh ID.
	ID() uint64
	Name() string
	// SetName notifies every owner, then renames. An owner error aborts the
	// rename.
	SetName(name string) error
	SetTableIndex(index int)
	SetDefault(value float64)
	ValueType() ValueType
	BlockType() BlockType
	SetBlockType(bt BlockType)
	IsNominal() bool
	IsNumerical() bool
	IsDateTime() bool
	Registry() *Registry

	Mapping() (nominal.Mapping, error)
	SetMapping(m nominal.Mapping) error

	// Value reads the stored value and applies the transformation chain.
	Value(row datarow.Row) float64
	// SetValue applies inverse transformations back-to-front and stores the
	// result.
	SetValue(row datarow.Row, value float64) error
	// AsString renders value. digits applies to numerical attributes; quote
	// wraps nominal values in quotes.
	AsString(value float64, digits int, quote bool) string

	Transformations() []Transformation
	LastTransformation() Transformation
	AddTransformation(t Transformation)
	ClearTransformations()

	RegisterStatistics(s Statistics)
	AllStatistics() []Statistics

	Clone() Attribute
	Equal(other Attribute) bool
	fmt.Stringer
}

var lastID atomic.Uint64

func nextID() uint64 { return lastID.Add(1) }

// description holds the copy-on-write part of an attribute.
type description struct {
	refs         atomic.Int32
	name         string
	tableIndex   int
	blockType    BlockType
	defaultValue float64
}

func newDescription(name string) *description {
	d := &description{name: name, tableIndex: UndefinedIndex, blockType: SingleValue}
	d.refs.Store(1)
	return d
}

// base implements the behaviour shared by every attribute kind.
type base struct {
	id              uint64
	desc            *description
	valueType       ValueType
	transformations []Transformation
	statistics      []Statistics
	registry        *Registry
}

func newBase(name string, vt ValueType, reg *Registry) base {
	if reg == nil {
		reg = NewRegistry()
	}
	return base{id: nextID(), desc: newDescription(name), valueType: vt, registry: reg}
}

// writable detaches the descriptor if another clone still shares it.
func (b *base) writable() *description {
	if b.desc.refs.Load() <= 1 {
		return b.desc
	}
	old := b.desc
	d := &description{
		name:         old.name,
		tableIndex:   old.tableIndex,
		blockType:    old.blockType,
		defaultValue: old.defaultValue,
	}
	d.refs.Store(1)
	old.refs.Add(-1)
	b.desc = d
	return d
}

// cloneBase shares the descriptor, deep-clones statistics and only the last
// transformation.
func (b *base) cloneBase() base {
	b.desc.refs.Add(1)
	c := base{
		id:        nextID(),
		desc:      b.desc,
		valueType: b.valueType,
		registry:  b.registry,
	}
	if n := len(b.transformations); n > 0 {
		c.transformations = make([]Transformation, n)
		copy(c.transformations, b.transformations)
		c.transformations[n-1] = b.transformations[n-1].Clone()
	}
	if len(b.statistics) > 0 {
		c.statistics = make([]Statistics, len(b.statistics))
		for i, s := range b.statistics {
			c.statistics[i] = s.Clone()
		}
	}
	return c
}

func (b *base) ID() uint64            { return b.id }
func (b *base) Name() string          { return b.desc.name }
func (b *base) TableIndex() int       { return b.desc.tableIndex }
func (b *base) DefaultValue() float64 { return b.desc.defaultValue }
func (b *base) ValueType() ValueType  { return b.valueType }
func (b *base) BlockType() BlockType  { return b.desc.blockType }
func (b *base) Registry() *Registry   { return b.registry }

func (b *base) IsNominal() bool   { return b.valueType.IsA(Nominal) }
func (b *base) IsNumerical() bool { return b.valueType.IsA(Numerical) }
func (b *base) IsDateTime() bool  { return b.valueType.IsA(DateTime) }

func (b *base) SetName(name string) error {
	old := b.desc.name
	if old == name {
		return nil
	}
	if err := b.registry.notifyRename(b.id, old, name); err != nil {
		return err
	}
	b.writable().name = name
	return nil
}

// SetTableIndex binds the attribute to a column. Negative values unbind it.
func (b *base) SetTableIndex(index int) {
	if index < 0 {
		index = UndefinedIndex
	}
	if b.desc.tableIndex == index {
		return
	}
	b.writable().tableIndex = index
}

func (b *base) SetDefault(value float64) {
	if math.Float64bits(b.desc.defaultValue) == math.Float64bits(value) {
		return
	}
	b.writable().defaultValue = value
}

func (b *base) SetBlockType(bt BlockType) {
	if b.desc.blockType == bt {
		return
	}
	b.writable().blockType = bt
}

func (b *base) Transformations() []Transformation {
	out := make([]Transformation, len(b.transformations))
	copy(out, b.transformations)
	return out
}

func (b *base) LastTransformation() Transformation {
	if len(b.transformations) == 0 {
		return nil
	}
	return b.transformations[len(b.transformations)-1]
}

func (b *base) AddTransformation(t Transformation) {
	b.transformations = append(b.transformations, t)
}

func (b *base) ClearTransformations() {
	b.transformations = nil
}

func (b *base) RegisterStatistics(s Statistics) {
	b.statistics = append(b.statistics, s)
}

func (b *base) AllStatistics() []Statistics {
	out := make([]Statistics, len(b.statistics))
	copy(out, b.statistics)
	return out
}

// value reads the column addressed by index and applies the chain.
func (b *base) value(row datarow.Row, index int) float64 {
	v := row.Get(index, b.desc.defaultValue)
	for _, t := range b.transformations {
		v = t.Transform(v)
	}
	return v
}

func (b *base) Value(row datarow.Row) float64 {
	return b.value(row, b.desc.tableIndex)
}

// inverse undoes the chain back-to-front.
func (b *base) inverse(value float64) (float64, error) {
	for i := len(b.transformations) - 1; i >= 0; i-- {
		t := b.transformations[i]
		if !t.Reversible() {
			return math.NaN(), tableerrors.Newf(tableerrors.ErrorTypeSchema,
				"cannot write attribute %q: transformation %d (%s) is not reversible", b.desc.name, i, t).
				WithDetail("attribute", b.desc.name)
		}
		var err error
		if value, err = t.InverseTransform(value); err != nil {
			return math.NaN(), tableerrors.Wrap(err, tableerrors.ErrorTypeSchema, "inverse transformation failed").
				WithDetail("attribute", b.desc.name)
		}
	}
	return value, nil
}

func (b *base) store(row datarow.Row, value float64) error {
	if b.desc.tableIndex == UndefinedIndex {
		return tableerrors.Newf(tableerrors.ErrorTypeSchema, "attribute %q is not bound to a table column", b.desc.name).
			WithDetail("attribute", b.desc.name)
	}
	row.Set(b.desc.tableIndex, value, b.desc.defaultValue)
	return nil
}

func (b *base) SetValue(row datarow.Row, value float64) error {
	v, err := b.inverse(value)
	if err != nil {
		return err
	}
	return b.store(row, v)
}

// Equal compares the (name, table index) identity.
func (b *base) Equal(other Attribute) bool {
	if other == nil {
		return false
	}
	return b.Name() == other.Name() && b.TableIndex() == other.TableIndex()
}

func (b *base) String() string {
	return fmt.Sprintf("#%d: %s (%s/%s)", b.desc.tableIndex, b.desc.name, b.valueType, b.desc.blockType)
}

func unsupportedMapping(name string, vt ValueType) error {
	return tableerrors.Newf(tableerrors.ErrorTypeCapability, "attribute %q of type %s has no nominal mapping", name, vt).
		WithDetail("attribute", name)
}
