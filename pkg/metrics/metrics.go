// Package metrics exposes Prometheus counters for the table engine's structural
// events: column churn, row ingestion, sparse row resorts and parse failures.
//
// # Basic Usage
//
//	metrics.RowsAdded.WithLabelValues("memory").Inc()
//	metrics.SlotsReused.Inc()
//
// All collectors are registered with the default Prometheus registry at package
// initialization. Snapshot reads a subset of them for summaries and tests.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

var (
	// RowsAdded tracks rows appended to tables.
	// Labels: table (table kind, e.g. "memory")
	RowsAdded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minetable_rows_added_total",
			Help: "Total number of data rows added to example tables",
		},
		[]string{"table"},
	)

	// AttributesAdded tracks attribute slots assigned by tables.
	AttributesAdded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "minetable_attributes_added_total",
			Help: "Total number of attributes added to example tables",
		},
	)

	// AttributesRemoved tracks attribute slots released to the free list.
	AttributesRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "minetable_attributes_removed_total",
			Help: "Total number of attributes removed from example tables",
		},
	)

	// SlotsReused tracks attribute additions served from the free list.
	SlotsReused = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "minetable_attribute_slots_reused_total",
			Help: "Total number of attribute additions that reused a freed slot",
		},
	)

	// ColumnGrowths tracks capacity increases of growable tables.
	ColumnGrowths = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "minetable_column_growths_total",
			Help: "Total number of row column capacity increases",
		},
	)

	// SparseResorts tracks full re-sorts of sparse rows after out-of-order inserts.
	// Labels: kind (row kind name)
	SparseResorts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minetable_sparse_row_resorts_total",
			Help: "Total number of sparse row index re-sorts",
		},
		[]string{"kind"},
	)

	// ParseFailures tracks cells that degraded to missing during row construction.
	// Labels: reason (numeric, nominal)
	ParseFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minetable_parse_failures_total",
			Help: "Total number of values that could not be parsed and became missing",
		},
		[]string{"reason"},
	)
)

// CounterValue reads the current value of a counter. It returns 0 when the
// counter cannot be read.
func CounterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil || m.Counter == nil {
		return 0
	}
	return m.Counter.GetValue()
}

// Snapshot returns the current values of the unlabelled counters keyed by a
// short name, for summaries.
func Snapshot() map[string]float64 {
	return map[string]float64{
		"attributes_added":   CounterValue(AttributesAdded),
		"attributes_removed": CounterValue(AttributesRemoved),
		"slots_reused":       CounterValue(SlotsReused),
		"column_growths":     CounterValue(ColumnGrowths),
	}
}
