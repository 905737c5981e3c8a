package attribute

import (
	"fmt"
	"math"

	"github.com/ajitpratap0/minetable/pkg/nominal"
	"github.com/ajitpratap0/minetable/pkg/tableerrors"
)

// Transformation maps stored values to presented values. Reversible
// transformations also support writes through the attribute.
type Transformation interface {
	Transform(value float64) float64
	InverseTransform(value float64) (float64, error)
	Reversible() bool
	Clone() Transformation
	fmt.Stringer
}

// Linear presents value*Scale + Offset.
type Linear struct {
	Scale  float64
	Offset float64
}

func (t *Linear) Transform(value float64) float64 {
	return value*t.Scale + t.Offset
}

func (t *Linear) InverseTransform(value float64) (float64, error) {
	if t.Scale == 0 {
		return math.NaN(), tableerrors.New(tableerrors.ErrorTypeData, "linear transformation with zero scale has no inverse")
	}
	return (value - t.Offset) / t.Scale, nil
}

func (t *Linear) Reversible() bool { return t.Scale != 0 }

func (t *Linear) Clone() Transformation {
	c := *t
	return &c
}

func (t *Linear) String() string {
	return fmt.Sprintf("linear(%g, %g)", t.Scale, t.Offset)
}

// Remapping translates indices of one nominal mapping into another by
// matching their strings. Values the target does not contain become missing.
type Remapping struct {
	From nominal.Mapping
	To   nominal.Mapping
}

func (t *Remapping) Transform(value float64) float64 {
	return remap(t.From, t.To, value)
}

func (t *Remapping) InverseTransform(value float64) (float64, error) {
	return remap(t.To, t.From, value), nil
}

func remap(from, to nominal.Mapping, value float64) float64 {
	if math.IsNaN(value) || value < 0 {
		return math.NaN()
	}
	s, err := from.MapIndex(int(value))
	if err != nil {
		return math.NaN()
	}
	idx, ok := to.IndexOf(s)
	if !ok {
		return math.NaN()
	}
	return float64(idx)
}

func (t *Remapping) Reversible() bool { return true }

// Clone copies the transformation. Both mappings stay shared.
func (t *Remapping) Clone() Transformation {
	c := *t
	return &c
}

func (t *Remapping) String() string {
	return fmt.Sprintf("remapping(%d -> %d values)", t.From.Size(), t.To.Size())
}

// Func wraps an arbitrary one-way function.
type Func struct {
	Fn    func(float64) float64
	Label string
}

func (t *Func) Transform(value float64) float64 { return t.Fn(value) }

func (t *Func) InverseTransform(float64) (float64, error) {
	return math.NaN(), tableerrors.Newf(tableerrors.ErrorTypeCapability, "transformation %s is not reversible", t)
}

func (t *Func) Reversible() bool { return false }

func (t *Func) Clone() Transformation {
	c := *t
	return &c
}

func (t *Func) String() string {
	if t.Label == "" {
		return "func"
	}
	return t.Label
}
