package main

import (
	"context"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/minetable/pkg/attribute"
	"github.com/ajitpratap0/minetable/pkg/config"
	"github.com/ajitpratap0/minetable/pkg/logger"
	"github.com/ajitpratap0/minetable/pkg/rowfactory"
	"github.com/ajitpratap0/minetable/pkg/source"
	"github.com/ajitpratap0/minetable/pkg/table"
	"github.com/ajitpratap0/minetable/pkg/tableerrors"
)

const (
	formatCSV   = "csv"
	formatJSONL = "jsonl"
)

func detectFormat(path, format string) (string, error) {
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".jsonl", ".ndjson":
			format = formatJSONL
		default:
			format = formatCSV
		}
	}
	switch format {
	case formatCSV, formatJSONL:
		return format, nil
	}
	return "", tableerrors.Newf(tableerrors.ErrorTypeConfig, "unknown input format %q", format).
		WithDetail("format", format)
}

// buildAttributes creates one attribute per column name. Columns listed in
// the load configuration become nominal or date-time, the rest real.
func buildAttributes(names []string, load config.LoadConfig) ([]attribute.Attribute, error) {
	kinds := make(map[string]attribute.ValueType, len(load.Nominal)+len(load.DateTime))
	for _, n := range load.Nominal {
		kinds[n] = attribute.Polynominal
	}
	for _, n := range load.DateTime {
		kinds[n] = attribute.DateTime
	}

	factory := attribute.NewFactory(attribute.NewSession())
	attrs := make([]attribute.Attribute, 0, len(names))
	for _, name := range names {
		vt, ok := kinds[name]
		if !ok {
			vt = attribute.Real
		}
		if strings.TrimSpace(name) == "" {
			a, err := factory.CreateGenerated("att", vt)
			if err != nil {
				return nil, err
			}
			attrs = append(attrs, a)
			continue
		}
		a, err := factory.Create(name, vt)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
	}
	return attrs, nil
}

// loadTable reads path into a memory table according to cfg. Row factory
// and source log entries carry the table name through ctx.
func loadTable(ctx context.Context, path, format string, columns []string, cfg *config.EngineConfig) (*table.MemoryTable, error) {
	format, err := detectFormat(path, format)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	ctx = context.WithValue(ctx, logger.TableKey, name)
	log := logger.WithContext(ctx).With(zap.String("path", path), zap.String("format", format))

	file, err := os.Open(path) //nolint:gosec // G304: input path comes from the user
	if err != nil {
		return nil, tableerrors.Wrap(err, tableerrors.ErrorTypeFile, "cannot open input").
			WithDetail("path", path)
	}
	defer file.Close()

	names := columns
	fromHeader := false
	if len(names) == 0 && format == formatCSV && cfg.Load.Header {
		fromHeader = true
		if names, err = source.ReadHeader(file, cfg.CommaRune()); err != nil {
			return nil, err
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return nil, tableerrors.Wrap(err, tableerrors.ErrorTypeFile, "cannot rewind input")
		}
	}
	if len(names) == 0 {
		return nil, tableerrors.New(tableerrors.ErrorTypeValidation, "column names required: use --columns or a CSV header")
	}
	attrs, err := buildAttributes(names, cfg.Load)
	if err != nil {
		return nil, err
	}

	warnings := 0
	factory := rowfactory.New(cfg.Table.RowKind, cfg.DecimalRune(),
		rowfactory.WithLogger(log),
		rowfactory.WithWarningHandler(func(rowfactory.Warning) { warnings++ }))

	var src table.RowSource
	if format == formatJSONL {
		src = source.NewJSONLinesSource(file, attrs, factory, log)
	} else {
		csvSrc, err := source.NewCSVSource(file, attrs, factory, source.CSVOptions{
			Comma:      cfg.CommaRune(),
			Header:     cfg.Load.Header,
			ByPosition: fromHeader,
			Logger:     log,
		})
		if err != nil {
			return nil, err
		}
		src = csvSrc
	}

	tbl := table.NewMemoryTable(attrs,
		table.WithLogger(logger.With(zap.String("path", path))),
		table.WithName(name),
		table.WithColumnIncrement(cfg.Table.ColumnIncrement))
	if cfg.Load.Permute {
		err = tbl.ReadRowsPermuted(src, rand.New(rand.NewSource(cfg.Load.Seed)))
	} else {
		err = tbl.ReadRows(src)
	}
	if err != nil {
		return nil, err
	}
	log.Info("table loaded",
		zap.Int("rows", tbl.Size()),
		zap.Int("attributes", tbl.LiveAttributeCount()),
		zap.String("row_kind", cfg.Table.RowKind.String()),
		zap.Int("warnings", warnings))
	return tbl, nil
}
