package source

import (
	"errors"
	"io"

	gojson "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ajitpratap0/minetable/pkg/attribute"
	"github.com/ajitpratap0/minetable/pkg/datarow"
	"github.com/ajitpratap0/minetable/pkg/logger"
	"github.com/ajitpratap0/minetable/pkg/rowfactory"
	"github.com/ajitpratap0/minetable/pkg/tableerrors"
)

// JSONLinesSource reads one JSON array of cell values per line. Numbers are
// decoded exactly and strings follow the row factory's text rules.
type JSONLinesSource struct {
	lookahead
	decoder *gojson.Decoder
	factory *rowfactory.Factory
	attrs   []attribute.Attribute
	logger  *zap.Logger
}

func NewJSONLinesSource(r io.Reader, attrs []attribute.Attribute, f *rowfactory.Factory, l *zap.Logger) *JSONLinesSource {
	dec := gojson.NewDecoder(r)
	dec.UseNumber()
	s := &JSONLinesSource{
		decoder: dec,
		factory: f,
		attrs:   attrs,
		logger:  logger.OrGlobal(l).With(zap.String("source", "jsonl")),
	}
	s.read = s.readRow
	return s
}

func (s *JSONLinesSource) readRow() (datarow.Row, error) {
	var values []any
	err := s.decoder.Decode(&values)
	if errors.Is(err, io.EOF) {
		s.logger.Debug("jsonl source exhausted", zap.Int("rows", s.Rows()))
		return nil, io.EOF
	}
	if err != nil {
		return nil, tableerrors.Wrap(err, tableerrors.ErrorTypeData, "cannot decode JSON row").
			WithDetail("row", s.Rows())
	}
	return s.factory.CreateFromObjects(values, s.attrs)
}
