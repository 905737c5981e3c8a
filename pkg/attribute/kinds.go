package attribute

import (
	"math"
	"strconv"
	"time"

	"github.com/ajitpratap0/minetable/pkg/datarow"
	"github.com/ajitpratap0/minetable/pkg/nominal"
	"github.com/ajitpratap0/minetable/pkg/tableerrors"
)

const (
	// DefaultDigits renders numbers with DefaultFractionDigits.
	DefaultDigits = -1
	// UnlimitedDigits renders numbers with the shortest exact representation.
	UnlimitedDigits = -2
	// DefaultFractionDigits is the fraction digit count behind DefaultDigits.
	DefaultFractionDigits = 3
)

// NumericalAttribute holds real or integer values.
type NumericalAttribute struct {
	base
}

// NewNumerical creates a numerical attribute. vt must descend from Numerical;
// anything else falls back to Real.
func NewNumerical(name string, vt ValueType) *NumericalAttribute {
	return newNumerical(name, vt, nil)
}

func newNumerical(name string, vt ValueType, reg *Registry) *NumericalAttribute {
	if !vt.IsA(Numerical) {
		vt = Real
	}
	a := &NumericalAttribute{base: newBase(name, vt, reg)}
	a.RegisterStatistics(NewNumericalStatistics())
	a.RegisterStatistics(NewUnknownStatistics())
	return a
}

func (a *NumericalAttribute) Mapping() (nominal.Mapping, error) {
	return nil, unsupportedMapping(a.Name(), a.valueType)
}

func (a *NumericalAttribute) SetMapping(nominal.Mapping) error {
	return unsupportedMapping(a.Name(), a.valueType)
}

func (a *NumericalAttribute) AsString(value float64, digits int, _ bool) string {
	return FormatNumber(value, digits)
}

func (a *NumericalAttribute) Clone() Attribute {
	return &NumericalAttribute{base: a.cloneBase()}
}

// FormatNumber renders value. Integral values print without fraction; other
// values use digits fraction digits, DefaultDigits or UnlimitedDigits.
func FormatNumber(value float64, digits int) string {
	switch {
	case math.IsNaN(value):
		return MissingValueString
	case math.IsInf(value, 1):
		return "Infinity"
	case math.IsInf(value, -1):
		return "-Infinity"
	case value == math.Trunc(value) && math.Abs(value) < 1e15:
		return strconv.FormatInt(int64(value), 10)
	}
	switch {
	case digits == UnlimitedDigits:
		return strconv.FormatFloat(value, 'g', -1, 64)
	case digits < 0:
		return strconv.FormatFloat(value, 'f', DefaultFractionDigits, 64)
	default:
		return strconv.FormatFloat(value, 'f', digits, 64)
	}
}

// DateTimeAttribute holds instants as milliseconds since the Unix epoch.
type DateTimeAttribute struct {
	base
}

// Layouts used to render date and time values.
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// NewDateTime creates a date, time or date-time attribute. vt must descend
// from DateTime; anything else falls back to DateTime.
func NewDateTime(name string, vt ValueType) *DateTimeAttribute {
	return newDateTime(name, vt, nil)
}

func newDateTime(name string, vt ValueType, reg *Registry) *DateTimeAttribute {
	if !vt.IsA(DateTime) {
		vt = DateTime
	}
	a := &DateTimeAttribute{base: newBase(name, vt, reg)}
	a.RegisterStatistics(NewMinMaxStatistics())
	a.RegisterStatistics(NewUnknownStatistics())
	return a
}

func (a *DateTimeAttribute) Mapping() (nominal.Mapping, error) {
	return nil, unsupportedMapping(a.Name(), a.valueType)
}

func (a *DateTimeAttribute) SetMapping(nominal.Mapping) error {
	return unsupportedMapping(a.Name(), a.valueType)
}

// AsString renders the instant in UTC using the layout of the sub-kind.
func (a *DateTimeAttribute) AsString(value float64, _ int, quote bool) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return MissingValueString
	}
	t := time.UnixMilli(int64(value)).UTC()
	var s string
	switch a.valueType {
	case Date:
		s = t.Format(DateLayout)
	case Time:
		s = t.Format(TimeLayout)
	default:
		s = t.Format(DateTimeLayout)
	}
	if quote {
		return strconv.Quote(s)
	}
	return s
}

func (a *DateTimeAttribute) Clone() Attribute {
	return &DateTimeAttribute{base: a.cloneBase()}
}

// ToMillis converts t to the stored representation of a date-time value.
func ToMillis(t time.Time) float64 {
	return float64(t.UnixMilli())
}

// NominalAttribute stores dictionary indices. Binominal attributes hold a
// BinominalMapping, all other nominal types a PolynominalMapping. Clones share
// the mapping.
type NominalAttribute struct {
	base
	mapping nominal.Mapping
}

// NewNominal creates a nominal attribute. Binominal gets a two-slot mapping;
// other nominal types get an unbounded one. Non-nominal value types fall back
// to Polynominal.
func NewNominal(name string, vt ValueType) *NominalAttribute {
	return newNominal(name, vt, nil)
}

// NewBinominal creates a binominal attribute.
func NewBinominal(name string) *NominalAttribute {
	return newNominal(name, Binominal, nil)
}

// NewPolynominal creates a polynominal attribute.
func NewPolynominal(name string) *NominalAttribute {
	return newNominal(name, Polynominal, nil)
}

func newNominal(name string, vt ValueType, reg *Registry) *NominalAttribute {
	if !vt.IsA(Nominal) || vt == Nominal {
		vt = Polynominal
	}
	a := &NominalAttribute{base: newBase(name, vt, reg)}
	if vt == Binominal {
		a.mapping = nominal.NewBinominalMapping()
	} else {
		a.mapping = nominal.NewPolynominalMapping()
	}
	a.RegisterStatistics(NewNominalStatistics())
	a.RegisterStatistics(NewUnknownStatistics())
	return a
}

func (a *NominalAttribute) Mapping() (nominal.Mapping, error) {
	return a.mapping, nil
}

// SetMapping replaces the dictionary. A binominal attribute copies the values
// into a fresh two-slot mapping and rejects mappings with more than two
// values.
func (a *NominalAttribute) SetMapping(m nominal.Mapping) error {
	if m == nil {
		return tableerrors.New(tableerrors.ErrorTypeValidation, "nominal mapping must not be nil")
	}
	if a.valueType != Binominal {
		a.mapping = m
		return nil
	}
	values := m.Values()
	bin := nominal.NewBinominalMapping()
	for _, v := range values {
		if _, err := bin.MapString(v); err != nil {
			return tableerrors.Wrap(err, tableerrors.ErrorTypeSchema, "mapping does not fit a binominal attribute").
				WithDetail("attribute", a.Name()).
				WithDetail("size", len(values))
		}
	}
	a.mapping = bin
	return nil
}

// SetValue stores value; negative indices become missing.
func (a *NominalAttribute) SetValue(row datarow.Row, value float64) error {
	v, err := a.inverse(value)
	if err != nil {
		return err
	}
	if v < 0 {
		v = math.NaN()
	}
	return a.store(row, v)
}

// SetString maps s through the dictionary and stores its index.
func (a *NominalAttribute) SetString(row datarow.Row, s string) error {
	idx, err := a.mapping.MapString(s)
	if err != nil {
		return err
	}
	return a.SetValue(row, float64(idx))
}

// StringValue reads row and renders the value without quotes.
func (a *NominalAttribute) StringValue(row datarow.Row) string {
	return a.AsString(a.Value(row), DefaultDigits, false)
}

// AsString maps the index back to its string. Unmappable indices render as
// MissingValueString.
func (a *NominalAttribute) AsString(value float64, _ int, quote bool) string {
	if math.IsNaN(value) || value < 0 {
		return MissingValueString
	}
	s, err := a.mapping.MapIndex(int(value))
	if err != nil {
		return MissingValueString
	}
	if quote {
		return strconv.Quote(s)
	}
	return s
}

func (a *NominalAttribute) Clone() Attribute {
	return &NominalAttribute{base: a.cloneBase(), mapping: a.mapping}
}
