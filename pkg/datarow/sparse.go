package datarow

import (
	"sync"

	"github.com/ajitpratap0/minetable/pkg/metrics"
	"github.com/ajitpratap0/minetable/pkg/pool"
)

// sparseRow keeps the non-default entries in two parallel arrays. The first
// n slots are in use and indices[:n] is ascending whenever it is searched.
type sparseRow[T comparable] struct {
	mu      sync.Mutex
	kind    Kind
	indices []int
	values  []T
	n       int
	codec   *codec[T]
}

func newSparse[T comparable](kind Kind, capacity int, c *codec[T]) *sparseRow[T] {
	return &sparseRow[T]{
		kind:    kind,
		indices: make([]int, capacity),
		values:  make([]T, capacity),
		codec:   c,
	}
}

// search returns the position of index in indices[:n], or -(insertion point)-1.
func (r *sparseRow[T]) search(index int) int {
	lo, hi := 0, r.n-1
	for lo <= hi {
		mid := int(uint(lo+hi) >> 1)
		switch v := r.indices[mid]; {
		case v < index:
			lo = mid + 1
		case v > index:
			hi = mid - 1
		default:
			return mid
		}
	}
	return -(lo + 1)
}

func (r *sparseRow[T]) Get(index int, defaultValue float64) float64 {
	pos := r.search(index)
	if pos < 0 {
		return defaultValue
	}
	return r.codec.decode(r.values[pos])
}

func (r *sparseRow[T]) Set(index int, value, defaultValue float64) {
	if index < 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	pos := r.search(index)
	if IsDefault(defaultValue, value) {
		if pos >= 0 {
			r.remove(pos)
		}
		return
	}
	if pos >= 0 {
		r.values[pos] = r.codec.encode(value)
		return
	}
	r.insert(index, r.codec.encode(value))
}

func (r *sparseRow[T]) remove(pos int) {
	copy(r.indices[pos:r.n], r.indices[pos+1:r.n])
	copy(r.values[pos:r.n], r.values[pos+1:r.n])
	r.n--
	var zero T
	r.values[r.n] = zero
}

// insert appends and re-sorts only when the append broke ascending order.
func (r *sparseRow[T]) insert(index int, value T) {
	if r.n == len(r.indices) {
		capacity := len(r.indices)*3/2 + 1
		indices := make([]int, capacity)
		values := make([]T, capacity)
		copy(indices, r.indices[:r.n])
		copy(values, r.values[:r.n])
		r.indices, r.values = indices, values
	}
	r.indices[r.n] = index
	r.values[r.n] = value
	r.n++
	if r.n > 1 && r.indices[r.n-2] > index {
		sortPairs(r.indices, r.values, 0, r.n)
		metrics.SparseResorts.WithLabelValues(r.kind.String()).Inc()
	}
}

// EnsureColumns is a no-op: every index is representable.
func (r *sparseRow[T]) EnsureColumns(int) {}

func (r *sparseRow[T]) Trim() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.indices) == r.n {
		return
	}
	indices := make([]int, r.n)
	values := make([]T, r.n)
	copy(indices, r.indices[:r.n])
	copy(values, r.values[:r.n])
	r.indices, r.values = indices, values
}

func (r *sparseRow[T]) Kind() Kind { return r.kind }

// Capacity returns the allocated length of the parallel arrays.
func (r *sparseRow[T]) Capacity() int { return len(r.indices) }

func (r *sparseRow[T]) NonDefaultIndices() []int {
	out := make([]int, r.n)
	copy(out, r.indices[:r.n])
	return out
}

func (r *sparseRow[T]) NonDefaultValues() []float64 {
	out := make([]float64, r.n)
	for i := 0; i < r.n; i++ {
		out[i] = r.codec.decode(r.values[i])
	}
	return out
}

func (r *sparseRow[T]) String() string {
	b := pool.BuilderPool.Get()
	defer pool.BuilderPool.Put(b)

	b.WriteByte('{')
	for i := 0; i < r.n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		writeInt(b, r.indices[i])
		b.WriteByte(':')
		b.WriteString(r.codec.format(r.values[i]))
	}
	b.WriteByte('}')
	return b.String()
}
