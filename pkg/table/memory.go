package table

import (
	"fmt"
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/minetable/pkg/attribute"
	"github.com/ajitpratap0/minetable/pkg/datarow"
	"github.com/ajitpratap0/minetable/pkg/logger"
	"github.com/ajitpratap0/minetable/pkg/metrics"
	"github.com/ajitpratap0/minetable/pkg/tableerrors"
)

// DefaultColumnIncrement is the spare capacity added when the schema
// outgrows the rows.
const DefaultColumnIncrement = 10

// Option configures a MemoryTable.
type Option func(*MemoryTable)

// WithColumnIncrement sets the spare columns added on growth. Values below
// 1 are ignored.
func WithColumnIncrement(n int) Option {
	return func(t *MemoryTable) {
		if n > 0 {
			t.increment = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(t *MemoryTable) { t.logger = l }
}

// WithName labels the table in logs.
func WithName(name string) Option {
	return func(t *MemoryTable) { t.name = name }
}

// MemoryTable keeps every row in memory and supports appends. DataRow is
// O(1).
type MemoryTable struct {
	slots

	name      string
	increment int

	rowsMu  sync.RWMutex
	rows    []datarow.Row
	columns int
}

var _ ExampleTable = (*MemoryTable)(nil)

// NewMemoryTable creates an empty table over clones of attrs. The originals
// are bound to their slot indices.
func NewMemoryTable(attrs []attribute.Attribute, opts ...Option) *MemoryTable {
	t := &MemoryTable{name: "memory", increment: DefaultColumnIncrement}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = logger.OrGlobal(t.logger).With(zap.String("table", t.name))
	t.attrs = make([]attribute.Attribute, 0, len(attrs))
	for _, a := range attrs {
		t.addLocked(a)
	}
	t.columns = len(t.attrs)
	return t
}

// CreateAndFill builds a table over attrs and reads every row of src.
func CreateAndFill(attrs []attribute.Attribute, src RowSource, opts ...Option) (*MemoryTable, error) {
	t := NewMemoryTable(attrs, opts...)
	if err := t.ReadRows(src); err != nil {
		return nil, err
	}
	return t, nil
}

// Columns returns the number of columns every row is sized for.
func (t *MemoryTable) Columns() int {
	t.rowsMu.RLock()
	defer t.rowsMu.RUnlock()
	return t.columns
}

// AddAttribute assigns a slot to a clone of a and returns its index. A
// reused column is reset to the attribute's default in every row. Views
// occupy no column; their parent's index is returned.
func (t *MemoryTable) AddAttribute(a attribute.Attribute) int {
	t.mu.Lock()
	index, reused := t.addLocked(a)
	count := len(t.attrs)
	t.mu.Unlock()

	t.rowsMu.Lock()
	defer t.rowsMu.Unlock()
	if reused {
		t.resetColumnLocked(index, a.DefaultValue())
	}
	t.growLocked(count)
	return index
}

// AddAttributes adds every attribute and grows the rows at most once.
func (t *MemoryTable) AddAttributes(attrs []attribute.Attribute) []int {
	indices := make([]int, len(attrs))
	reused := make([]bool, len(attrs))
	t.mu.Lock()
	for i, a := range attrs {
		indices[i], reused[i] = t.addLocked(a)
	}
	count := len(t.attrs)
	t.mu.Unlock()

	t.rowsMu.Lock()
	defer t.rowsMu.Unlock()
	for i, r := range reused {
		if r {
			t.resetColumnLocked(indices[i], attrs[i].DefaultValue())
		}
	}
	t.growLocked(count)
	return indices
}

func (t *MemoryTable) resetColumnLocked(index int, defaultValue float64) {
	for _, row := range t.rows {
		row.Set(index, defaultValue, defaultValue)
	}
}

// growLocked widens every row once the schema needs more than columns.
func (t *MemoryTable) growLocked(needed int) {
	if needed <= t.columns {
		return
	}
	t.columns = needed + t.increment
	for _, row := range t.rows {
		row.EnsureColumns(t.columns)
	}
	metrics.ColumnGrowths.Inc()
	t.logger.Debug("columns grown", zap.Int("columns", t.columns), zap.Int("rows", len(t.rows)))
}

// AddDataRow trims row, sizes it to the table and appends it.
func (t *MemoryTable) AddDataRow(row datarow.Row) {
	t.rowsMu.Lock()
	defer t.rowsMu.Unlock()
	t.appendLocked(row, -1)
}

// appendLocked inserts row at pos, or at the end when pos is negative.
func (t *MemoryTable) appendLocked(row datarow.Row, pos int) {
	row.Trim()
	row.EnsureColumns(t.columns)
	if pos < 0 || pos >= len(t.rows) {
		t.rows = append(t.rows, row)
	} else {
		t.rows = append(t.rows, nil)
		copy(t.rows[pos+1:], t.rows[pos:])
		t.rows[pos] = row
	}
	metrics.RowsAdded.WithLabelValues(t.name).Inc()
}

// RemoveDataRow drops the row at index.
func (t *MemoryTable) RemoveDataRow(index int) error {
	t.rowsMu.Lock()
	defer t.rowsMu.Unlock()
	if err := t.checkRowLocked(index); err != nil {
		return err
	}
	t.rows = append(t.rows[:index], t.rows[index+1:]...)
	return nil
}

// Clear drops every row. The schema is kept.
func (t *MemoryTable) Clear() {
	t.rowsMu.Lock()
	defer t.rowsMu.Unlock()
	t.rows = nil
}

// ReadRows appends every row of src in order.
func (t *MemoryTable) ReadRows(src RowSource) error {
	return t.readRows(src, nil)
}

// ReadRowsPermuted inserts every row of src at a random position drawn from
// rng, which yields a uniformly shuffled table.
func (t *MemoryTable) ReadRowsPermuted(src RowSource, rng *rand.Rand) error {
	if rng == nil {
		return tableerrors.New(tableerrors.ErrorTypeValidation, "permuted read requires a random source")
	}
	return t.readRows(src, rng)
}

func (t *MemoryTable) readRows(src RowSource, rng *rand.Rand) error {
	read := 0
	for src.HasNext() {
		row, err := src.Next()
		if err != nil {
			return tableerrors.Wrap(err, tableerrors.ErrorTypeData, "reading rows failed").
				WithDetail("row", read)
		}
		t.rowsMu.Lock()
		pos := -1
		if rng != nil {
			pos = rng.Intn(len(t.rows) + 1)
		}
		t.appendLocked(row, pos)
		t.rowsMu.Unlock()
		read++
	}
	t.logger.Debug("rows read", zap.Int("rows", read), zap.Bool("permuted", rng != nil))
	return nil
}

func (t *MemoryTable) Size() int {
	t.rowsMu.RLock()
	defer t.rowsMu.RUnlock()
	return len(t.rows)
}

func (t *MemoryTable) DataRow(index int) (datarow.Row, error) {
	t.rowsMu.RLock()
	defer t.rowsMu.RUnlock()
	if err := t.checkRowLocked(index); err != nil {
		return nil, err
	}
	return t.rows[index], nil
}

func (t *MemoryTable) checkRowLocked(index int) error {
	if index >= 0 && index < len(t.rows) {
		return nil
	}
	return tableerrors.Newf(tableerrors.ErrorTypeNotFound, "row %d out of range [0, %d)", index, len(t.rows)).
		WithDetail("row", index).
		WithDetail("size", len(t.rows))
}

func (t *MemoryTable) RowReader() RowSource {
	t.rowsMu.RLock()
	defer t.rowsMu.RUnlock()
	rows := make([]datarow.Row, len(t.rows))
	copy(rows, t.rows)
	return &rowReader{rows: rows}
}

// RecalculateStatistics resets the statistics of attrs and counts every row
// into them. Without arguments every live attribute is recalculated.
func (t *MemoryTable) RecalculateStatistics(attrs ...attribute.Attribute) {
	if len(attrs) == 0 {
		attrs = t.Attributes()
	}
	t.rowsMu.RLock()
	defer t.rowsMu.RUnlock()
	for _, a := range attrs {
		stats := a.AllStatistics()
		for _, s := range stats {
			s.Reset()
		}
		for _, row := range t.rows {
			v := a.Value(row)
			for _, s := range stats {
				s.Count(v, 1)
			}
		}
	}
}

func (t *MemoryTable) String() string {
	return fmt.Sprintf("MemoryTable(%s: %d attributes, %d rows)", t.name, t.LiveAttributeCount(), t.Size())
}

func errExhausted() error {
	return tableerrors.New(tableerrors.ErrorTypeNotFound, "row source exhausted")
}
