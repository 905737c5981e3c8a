// Package minetable is an in-memory example table engine for data mining
// workloads.
//
// A table is a set of attributes (columns with a name, a value type and,
// for nominal attributes, a dictionary mapping category strings to
// integer indices) over a list of data rows. Rows store one float64 per
// column in one of several physical encodings, dense or sparse, and
// missing values are NaN.
//
// # Packages
//
//   - pkg/nominal: string to index dictionaries (polynominal and binominal)
//   - pkg/datarow: dense and sparse row encodings and the row kind registry
//   - pkg/attribute: attributes, statistics, value transformations, views
//     and the rename registry
//   - pkg/rowfactory: builds rows from string or object tuples
//   - pkg/table: the attribute slot allocator and the memory table
//   - pkg/source: CSV, JSON-lines and in-memory row sources
//   - pkg/arrowexport: Arrow record and IPC export
//   - pkg/config, pkg/logger, pkg/metrics, pkg/tableerrors, pkg/pool:
//     configuration, zap logging, Prometheus counters, typed errors and
//     object pools
//
// # Quick Start
//
//	attrs := []attribute.Attribute{
//		attribute.NewPolynominal("outlook"),
//		attribute.NewNumerical("temperature", attribute.Real),
//	}
//	f := rowfactory.New(datarow.DoubleArray, '.')
//	src, err := source.NewCSVSource(file, attrs, f, source.CSVOptions{Header: true})
//	if err != nil {
//		return err
//	}
//	tbl, err := table.CreateAndFill(attrs, src)
//	if err != nil {
//		return err
//	}
//	tbl.RecalculateStatistics()
//
// The minetable command wraps the same flow:
//
//	minetable load weather.csv --nominal outlook,play --pretty
//	minetable inspect weather.csv -n 5
//	minetable export weather.csv -o weather.arrow
package minetable
