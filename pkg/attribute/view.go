package attribute

import (
	"fmt"
	"math"
	"strconv"

	"github.com/ajitpratap0/minetable/pkg/datarow"
	"github.com/ajitpratap0/minetable/pkg/nominal"
	"github.com/ajitpratap0/minetable/pkg/tableerrors"
)

// ViewModel derives a view's value from its parent's value. A model that
// yields dictionary indices returns the dictionary from Mapping; numeric
// models return nil.
type ViewModel interface {
	Value(parentValue float64) float64
	Mapping() nominal.Mapping
}

// View is a read-only attribute computed from a parent attribute. It reads
// the parent's column and cannot be written.
type View struct {
	base
	parent Attribute
	model  ViewModel
}

// NewView creates a view over parent. The view is nominal when model
// provides a mapping and real otherwise.
func NewView(name string, parent Attribute, model ViewModel) *View {
	return newView(name, parent, model, nil)
}

func newView(name string, parent Attribute, model ViewModel, reg *Registry) *View {
	vt := Real
	if model.Mapping() != nil {
		vt = Polynominal
	}
	v := &View{base: newBase(name, vt, reg), parent: parent, model: model}
	if vt == Polynominal {
		v.RegisterStatistics(NewNominalStatistics())
	} else {
		v.RegisterStatistics(NewNumericalStatistics())
	}
	v.RegisterStatistics(NewUnknownStatistics())
	return v
}

func (v *View) Parent() Attribute { return v.parent }

// TableIndex is the parent's column.
func (v *View) TableIndex() int { return v.parent.TableIndex() }

// SetTableIndex is ignored; the column follows the parent.
func (v *View) SetTableIndex(int) {}

func (v *View) DefaultValue() float64 { return v.parent.DefaultValue() }

func (v *View) Value(row datarow.Row) float64 {
	value := v.model.Value(v.parent.Value(row))
	for _, t := range v.transformations {
		value = t.Transform(value)
	}
	return value
}

func (v *View) SetValue(datarow.Row, float64) error {
	return tableerrors.Newf(tableerrors.ErrorTypeCapability, "view %q is read-only", v.Name()).
		WithDetail("attribute", v.Name())
}

func (v *View) Mapping() (nominal.Mapping, error) {
	if m := v.model.Mapping(); m != nil {
		return m, nil
	}
	return nil, unsupportedMapping(v.Name(), v.valueType)
}

func (v *View) SetMapping(nominal.Mapping) error {
	return tableerrors.Newf(tableerrors.ErrorTypeCapability, "view %q takes its mapping from the model", v.Name()).
		WithDetail("attribute", v.Name())
}

func (v *View) AsString(value float64, digits int, quote bool) string {
	m := v.model.Mapping()
	if m == nil {
		return FormatNumber(value, digits)
	}
	if math.IsNaN(value) || value < 0 {
		return MissingValueString
	}
	s, err := m.MapIndex(int(value))
	if err != nil {
		return MissingValueString
	}
	if quote {
		return strconv.Quote(s)
	}
	return s
}

func (v *View) Equal(other Attribute) bool {
	if other == nil {
		return false
	}
	return v.Name() == other.Name() && v.TableIndex() == other.TableIndex()
}

func (v *View) Clone() Attribute {
	return &View{base: v.cloneBase(), parent: v.parent, model: v.model}
}

func (v *View) String() string {
	return fmt.Sprintf("#%d: %s (view of %s)", v.TableIndex(), v.Name(), v.parent.Name())
}
