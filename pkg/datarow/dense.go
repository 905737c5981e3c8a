package datarow

import (
	"sync"

	"github.com/ajitpratap0/minetable/pkg/pool"
)

// denseRow stores one slot per column in a fixed-width array.
type denseRow[T comparable] struct {
	mu    sync.Mutex
	kind  Kind
	data  []T
	codec *codec[T]
}

func newDense[T comparable](kind Kind, size int, c *codec[T]) *denseRow[T] {
	return &denseRow[T]{kind: kind, data: make([]T, size), codec: c}
}

// Get returns defaultValue for columns beyond the current width.
func (r *denseRow[T]) Get(index int, defaultValue float64) float64 {
	if index < 0 || index >= len(r.data) {
		return defaultValue
	}
	return r.codec.decode(r.data[index])
}

func (r *denseRow[T]) Set(index int, value, _ float64) {
	if index < 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if index >= len(r.data) {
		r.grow(index + 1)
	}
	r.data[index] = r.codec.encode(value)
}

func (r *denseRow[T]) EnsureColumns(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n > len(r.data) {
		r.grow(n)
	}
}

func (r *denseRow[T]) grow(n int) {
	data := make([]T, n)
	copy(data, r.data)
	r.data = data
}

// Trim is a no-op: dense rows hold exactly their width.
func (r *denseRow[T]) Trim() {}

func (r *denseRow[T]) Kind() Kind { return r.kind }

// Width returns the number of columns currently allocated.
func (r *denseRow[T]) Width() int { return len(r.data) }

func (r *denseRow[T]) String() string {
	b := pool.BuilderPool.Get()
	defer pool.BuilderPool.Put(b)

	b.WriteByte('[')
	for i, v := range r.data {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(r.codec.format(v))
	}
	b.WriteByte(']')
	return b.String()
}
