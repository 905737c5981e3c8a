package datarow

import (
	"sort"
	"strconv"
	"sync"

	"github.com/ajitpratap0/minetable/pkg/pool"
)

// MapRow is the hash-map sparse encoding. It keeps no ordering and is the
// simplest, least cache-friendly choice.
type MapRow struct {
	mu     sync.Mutex
	values map[int]float64
}

// NewMapRow creates an empty map row.
func NewMapRow() *MapRow {
	return &MapRow{values: make(map[int]float64)}
}

func (r *MapRow) Get(index int, defaultValue float64) float64 {
	if v, ok := r.values[index]; ok {
		return v
	}
	return defaultValue
}

func (r *MapRow) Set(index int, value, defaultValue float64) {
	if index < 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if IsDefault(defaultValue, value) {
		delete(r.values, index)
		return
	}
	r.values[index] = value
}

func (r *MapRow) EnsureColumns(int) {}

func (r *MapRow) Trim() {}

func (r *MapRow) Kind() Kind { return SparseMap }

func (r *MapRow) NonDefaultIndices() []int {
	out := make([]int, 0, len(r.values))
	for i := range r.values {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func (r *MapRow) NonDefaultValues() []float64 {
	indices := r.NonDefaultIndices()
	out := make([]float64, len(indices))
	for i, idx := range indices {
		out[i] = r.values[idx]
	}
	return out
}

func (r *MapRow) String() string {
	b := pool.BuilderPool.Get()
	defer pool.BuilderPool.Put(b)

	b.WriteByte('{')
	for i, idx := range r.NonDefaultIndices() {
		if i > 0 {
			b.WriteString(", ")
		}
		writeInt(b, idx)
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(r.values[idx], 'g', -1, 64))
	}
	b.WriteByte('}')
	return b.String()
}
