// Package rowfactory builds data rows from external values. It picks the row
// encoding from configuration and parses text or boxed values column by
// column against the attributes they belong to.
//
// Malformed cells never fail a row: blank, "?", nil and unparsable values
// become missing. Unparsable numbers are additionally logged at warn level,
// counted in metrics.ParseFailures and reported to the warning handler.
package rowfactory

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/minetable/pkg/attribute"
	"github.com/ajitpratap0/minetable/pkg/datarow"
	"github.com/ajitpratap0/minetable/pkg/logger"
	"github.com/ajitpratap0/minetable/pkg/metrics"
	"github.com/ajitpratap0/minetable/pkg/nominal"
	"github.com/ajitpratap0/minetable/pkg/pool"
	"github.com/ajitpratap0/minetable/pkg/tableerrors"
)

// Warning describes a cell that degraded to missing.
type Warning struct {
	Column    int
	Attribute string
	Value     string
	Err       error
}

func (w Warning) String() string {
	return fmt.Sprintf("column %d (%s): cannot parse %q: %v", w.Column, w.Attribute, w.Value, w.Err)
}

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets the logger used for parse warnings.
func WithLogger(l *zap.Logger) Option {
	return func(f *Factory) { f.logger = l }
}

// WithWarningHandler registers fn to receive every parse warning.
func WithWarningHandler(fn func(Warning)) Option {
	return func(f *Factory) { f.onWarning = fn }
}

// Factory creates rows of a single kind.
type Factory struct {
	kind         datarow.Kind
	decimalPoint rune
	logger       *zap.Logger
	onWarning    func(Warning)
}

// New returns a factory for kind. decimalPoint is the separator expected in
// numeric literals; 0 means '.'.
func New(kind datarow.Kind, decimalPoint rune, opts ...Option) *Factory {
	if decimalPoint == 0 {
		decimalPoint = '.'
	}
	f := &Factory{kind: kind, decimalPoint: decimalPoint}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = logger.OrGlobal(f.logger).With(zap.String("component", "rowfactory"))
	return f
}

func (f *Factory) Kind() datarow.Kind  { return f.kind }
func (f *Factory) DecimalPoint() rune { return f.decimalPoint }

// Create allocates an empty row. Dense kinds get size columns; sparse kinds
// get a capacity hint of size/4.
func (f *Factory) Create(size int) datarow.Row {
	if f.kind.IsSparse() {
		return datarow.New(f.kind, size/4)
	}
	return datarow.New(f.kind, size)
}

// CreateFromStrings parses values[i] for attrs[i]. Nominal values are
// unescaped and mapped through the attribute's dictionary; everything else
// is parsed as a number, date-time attributes also accept date layouts.
func (f *Factory) CreateFromStrings(values []string, attrs []attribute.Attribute) (datarow.Row, error) {
	if err := checkLengths(len(values), len(attrs)); err != nil {
		return nil, err
	}
	row := f.Create(len(attrs))
	for i, a := range attrs {
		v, err := f.parseString(i, values[i], a)
		if err != nil {
			return nil, err
		}
		set(row, i, a, v)
	}
	row.Trim()
	return row, nil
}

// CreateFromObjects converts boxed values for attrs. Strings follow the
// CreateFromStrings rules; numbers, booleans and times are stored directly.
func (f *Factory) CreateFromObjects(values []any, attrs []attribute.Attribute) (datarow.Row, error) {
	if err := checkLengths(len(values), len(attrs)); err != nil {
		return nil, err
	}
	row := f.Create(len(attrs))
	for i, a := range attrs {
		v, err := f.parseObject(i, values[i], a)
		if err != nil {
			return nil, err
		}
		set(row, i, a, v)
	}
	row.Trim()
	return row, nil
}

func checkLengths(values, attrs int) error {
	if values == attrs {
		return nil
	}
	return tableerrors.Newf(tableerrors.ErrorTypeValidation, "got %d values for %d attributes", values, attrs).
		WithDetail("values", values).
		WithDetail("attributes", attrs)
}

// set writes into the attribute's column, or column i when it is unbound.
func set(row datarow.Row, i int, a attribute.Attribute, v float64) {
	idx := a.TableIndex()
	if idx == attribute.UndefinedIndex {
		idx = i
	}
	row.Set(idx, v, a.DefaultValue())
}

func isMissing(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == attribute.MissingValueString
}

func (f *Factory) parseString(col int, s string, a attribute.Attribute) (float64, error) {
	if isMissing(s) {
		return math.NaN(), nil
	}
	if a.IsNominal() {
		return mapNominal(s, a)
	}
	v, err := f.parseNumber(s)
	if err == nil {
		return v, nil
	}
	if a.IsDateTime() {
		if t, ok := parseTime(s); ok {
			return attribute.ToMillis(t), nil
		}
	}
	f.warn(col, a, s, err, "numeric")
	return math.NaN(), nil
}

func (f *Factory) parseObject(col int, o any, a attribute.Attribute) (float64, error) {
	switch v := o.(type) {
	case nil:
		return math.NaN(), nil
	case string:
		return f.parseString(col, v, a)
	}
	if a.IsNominal() {
		return mapNominal(fmt.Sprint(o), a)
	}
	switch v := o.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case time.Time:
		return attribute.ToMillis(v), nil
	case interface{ Float64() (float64, error) }:
		if n, err := v.Float64(); err == nil {
			return n, nil
		}
	}
	f.warn(col, a, fmt.Sprint(o), fmt.Errorf("unsupported value of type %T", o), "numeric")
	return math.NaN(), nil
}

func mapNominal(s string, a attribute.Attribute) (float64, error) {
	m, err := a.Mapping()
	if err != nil {
		return math.NaN(), err
	}
	idx, err := m.MapString(nominal.Unescape(s))
	if err != nil {
		metrics.ParseFailures.WithLabelValues("nominal").Inc()
		return math.NaN(), tableerrors.Wrap(err, tableerrors.ErrorTypeSchema, "cannot map nominal value").
			WithDetail("attribute", a.Name()).
			WithDetail("value", s)
	}
	return float64(idx), nil
}

// parseNumber parses s with the configured decimal point.
func (f *Factory) parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if f.decimalPoint != '.' && strings.ContainsRune(s, f.decimalPoint) {
		b := pool.BuilderPool.Get()
		defer pool.BuilderPool.Put(b)
		for _, r := range s {
			if r == f.decimalPoint {
				r = '.'
			}
			b.WriteRune(r)
		}
		s = b.String()
	}
	return strconv.ParseFloat(s, 64)
}

var timeLayouts = []string{
	attribute.DateTimeLayout,
	time.RFC3339,
	attribute.DateLayout,
	attribute.TimeLayout,
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (f *Factory) warn(col int, a attribute.Attribute, value string, err error, reason string) {
	metrics.ParseFailures.WithLabelValues(reason).Inc()
	w := Warning{Column: col, Attribute: a.Name(), Value: value, Err: err}
	f.logger.Warn("value degraded to missing",
		zap.Int("column", col),
		zap.String("attribute", a.Name()),
		zap.String("value", value),
		zap.Error(err))
	if f.onWarning != nil {
		f.onWarning(w)
	}
}
