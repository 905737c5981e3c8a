package source

import (
	"encoding/csv"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/ajitpratap0/minetable/pkg/attribute"
	"github.com/ajitpratap0/minetable/pkg/datarow"
	"github.com/ajitpratap0/minetable/pkg/logger"
	"github.com/ajitpratap0/minetable/pkg/pool"
	"github.com/ajitpratap0/minetable/pkg/rowfactory"
	"github.com/ajitpratap0/minetable/pkg/tableerrors"
)

// CSVOptions controls how CSV text is read.
type CSVOptions struct {
	// Comma is the field separator; 0 means ','.
	Comma rune
	// Comment starts lines that are skipped; 0 disables comments.
	Comment rune
	// Header makes the first record a header. Columns are then matched to
	// attributes by name instead of by position.
	Header bool
	// ByPosition skips the header record without matching names: column i
	// feeds attribute i. Use it when the attributes were built from the
	// header itself.
	ByPosition bool
	Logger     *zap.Logger
}

// CSVSource parses CSV records into rows through a row factory.
type CSVSource struct {
	lookahead
	reader  *csv.Reader
	factory *rowfactory.Factory
	attrs   []attribute.Attribute
	header  []string
	columns []int
	logger  *zap.Logger
}

// NewCSVSource reads the header, if any, and prepares the column mapping.
func NewCSVSource(r io.Reader, attrs []attribute.Attribute, f *rowfactory.Factory, opts CSVOptions) (*CSVSource, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.Comment = opts.Comment
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	s := &CSVSource{
		reader:  cr,
		factory: f,
		attrs:   attrs,
		logger:  logger.OrGlobal(opts.Logger).With(zap.String("source", "csv")),
	}
	s.read = s.readRow

	if opts.Header {
		header, err := cr.Read()
		if err != nil {
			return nil, tableerrors.Wrap(err, tableerrors.ErrorTypeData, "cannot read CSV header")
		}
		s.header = append([]string(nil), header...)
		if !opts.ByPosition {
			if s.columns, err = matchColumns(s.header, attrs); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

// ReadHeader returns the first record of r, for deriving attributes before
// a source is built.
func ReadHeader(r io.Reader, comma rune) ([]string, error) {
	cr := csv.NewReader(r)
	if comma != 0 {
		cr.Comma = comma
	}
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, tableerrors.Wrap(err, tableerrors.ErrorTypeData, "cannot read CSV header")
	}
	return header, nil
}

// matchColumns finds the column of every attribute by name. Duplicate
// header names are ambiguous and rejected.
func matchColumns(header []string, attrs []attribute.Attribute) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		if first, dup := pos[h]; dup {
			return nil, tableerrors.Newf(tableerrors.ErrorTypeSchema, "CSV header repeats column %q at positions %d and %d", h, first, i).
				WithDetail("column", h)
		}
		pos[h] = i
	}
	columns := make([]int, len(attrs))
	for i, a := range attrs {
		c, ok := pos[a.Name()]
		if !ok {
			return nil, tableerrors.Newf(tableerrors.ErrorTypeNotFound, "attribute %q has no CSV column", a.Name()).
				WithDetail("attribute", a.Name())
		}
		columns[i] = c
	}
	return columns, nil
}

// Header returns the header record, or nil when the input has none.
func (s *CSVSource) Header() []string { return s.header }

func (s *CSVSource) readRow() (datarow.Row, error) {
	record, err := s.reader.Read()
	if errors.Is(err, io.EOF) {
		s.logger.Debug("csv source exhausted", zap.Int("rows", s.Rows()))
		return nil, io.EOF
	}
	if err != nil {
		return nil, tableerrors.Wrap(err, tableerrors.ErrorTypeData, "cannot read CSV record")
	}
	if s.columns == nil && len(record) > len(s.attrs) {
		line, _ := s.reader.FieldPos(0)
		return nil, tableerrors.Newf(tableerrors.ErrorTypeData, "CSV line %d has %d fields for %d attributes", line, len(record), len(s.attrs)).
			WithDetail("line", line)
	}
	scratch := pool.StringSlicePool.Get()
	defer pool.StringSlicePool.Put(scratch)
	values := *scratch
	for i := range s.attrs {
		c := i
		if s.columns != nil {
			c = s.columns[i]
		}
		v := ""
		if c < len(record) {
			v = record[c]
		}
		values = append(values, v)
	}
	*scratch = values
	return s.factory.CreateFromStrings(values, s.attrs)
}
